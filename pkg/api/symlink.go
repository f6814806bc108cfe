package api

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// linker creates symbolic links.
type linker interface {
	create(ctx context.Context, target, link string) error
}

// hostLinker creates symlinks with the host's primitives. Hosts that
// distinguish directory links from file links at creation time need to
// know what the target resolves to, so creation starts with a stat of the
// target. That probe blocks on the filesystem and runs on its own
// goroutine; the caller awaits it under its context instead of stalling
// on the stat directly.
type hostLinker struct {
	// split selects the probe-then-branch path used on hosts with
	// separate directory and file link primitives.
	split    bool
	probe    func(path string) (bool, error)
	linkFile func(target, link string) error
	linkDir  func(target, link string) error
}

var hostLinks = hostLinker{
	split:    runtime.GOOS == "windows",
	probe:    probeIsDir,
	linkFile: os.Symlink,
	linkDir:  os.Symlink,
}

func probeIsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (l hostLinker) create(ctx context.Context, target, link string) error {
	if !l.split {
		return l.linkFile(target, link)
	}

	type probeResult struct {
		dir bool
		err error
	}
	ch := make(chan probeResult, 1)
	go func() {
		// Relative targets resolve against the link's directory.
		resolved := target
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(link), target)
		}
		dir, err := l.probe(resolved)
		ch <- probeResult{dir: dir, err: err}
	}()

	var res probeResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	// A dangling link is legal: the target may be materialized later in
	// the stream. Treat a missing target as a file link.
	if res.err != nil && !errors.Is(res.err, fs.ErrNotExist) {
		return res.err
	}
	if res.dir {
		return l.linkDir(target, link)
	}
	return l.linkFile(target, link)
}
