package api

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/ipfs/go-cid"
)

// AddStream inspects the local entry at path and hands it to the matching
// store capability: directories first, then symlinks, then regular files.
// Directory-ness follows symlinks, so a link to a directory is ingested as
// a directory. The returned stream is lazy; ingestion proceeds as it is
// consumed.
func (a *API) AddStream(ctx context.Context, path string, wrap bool) (AddEventStream, error) {
	info, statErr := os.Stat(path)
	if statErr == nil && info.IsDir() {
		return a.store.AddDir(ctx, path, wrap)
	}
	if linfo, err := os.Lstat(path); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		return a.store.AddSymlink(ctx, path, wrap)
	}
	if statErr == nil && info.Mode().IsRegular() {
		return a.store.AddFile(ctx, path, wrap)
	}
	var mode fs.FileMode
	if statErr == nil {
		mode = info.Mode()
	}
	return nil, &UnsupportedEntryError{Path: path, Mode: mode}
}

// Add ingests the local entry at path and returns the final content
// identifier: the one carried by the last event of the stream. A later
// event always supersedes an earlier one. An empty stream is an error.
func (a *API) Add(ctx context.Context, path string, wrap bool) (cid.Cid, error) {
	events, err := a.AddStream(ctx, path, wrap)
	if err != nil {
		return cid.Undef, err
	}
	acc := cid.Undef
	for {
		event, err := events.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return cid.Undef, err
		}
		acc = event.Cid()
	}
	if !acc.Defined() {
		return cid.Undef, ErrNoAddEvents
	}
	return acc, nil
}
