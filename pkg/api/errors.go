package api

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrNoRoot is returned when a content path has no concrete root CID to
// retrieve, such as an unresolved /ipns/ path.
var ErrNoRoot = errors.New("content path does not refer to a CID")

// ErrNoAddEvents is returned when an ingestion stream ends without
// producing a single event.
var ErrNoAddEvents = errors.New("no CID found in add events")

// ExistsError is returned when the resolved output path already exists.
// Nothing has been written when it is returned.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("output path %s already exists", e.Path)
}

// UnsupportedEntryError is returned when a local path is neither a
// directory, a symlink, nor a regular file.
type UnsupportedEntryError struct {
	Path string
	Mode fs.FileMode
}

func (e *UnsupportedEntryError) Error() string {
	return fmt.Sprintf("can only add files, directories or symlinks: %s", e.Path)
}
