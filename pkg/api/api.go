// Package api orchestrates the two halves of the client materialization
// pipeline: replaying a content-addressed tree onto the local filesystem
// (Get) and ingesting a local filesystem entry into the store (Add).
//
// The store itself is an external capability injected through the Store
// interface; this package only drives its streams.
package api

import (
	"context"
	"io"

	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/remora-store/remora/pkg/cpath"
	"github.com/remora-store/remora/pkg/relpath"
)

var log = logging.Logger("api")

// Store is the minimal capability the orchestrator needs from a
// content-addressed store.
type Store interface {
	// GetStream opens a lazy stream of tree entries for the tree that p
	// refers to, in materialization order (parents before children).
	GetStream(ctx context.Context, p cpath.Path) (EntryStream, error)
	// AddDir ingests the directory tree rooted at path.
	AddDir(ctx context.Context, path string, wrap bool) (AddEventStream, error)
	// AddFile ingests a regular file.
	AddFile(ctx context.Context, path string, wrap bool) (AddEventStream, error)
	// AddSymlink ingests a symbolic link without following it.
	AddSymlink(ctx context.Context, path string, wrap bool) (AddEventStream, error)
}

// API is the high-level client surface built on a Store.
type API struct {
	store Store
	links linker
}

// New creates an API using the host filesystem's symlink primitives.
func New(store Store) *API {
	return &API{store: store, links: hostLinks}
}

// Entry is one item of a tree entry stream: where it goes relative to the
// destination root, and what it is.
type Entry struct {
	Path relpath.Rel
	Body Body
}

// Body is the payload of a tree entry. It is one of Directory, Content or
// Symlink.
type Body interface {
	body()
}

// Directory marks the entry as a directory.
type Directory struct{}

// Content carries a file's bytes. The stream owns the reader; it is
// consumed exactly once, in order.
type Content struct {
	Reader io.Reader
}

// Symlink carries a symbolic link's target path, verbatim.
type Symlink struct {
	Target string
}

func (Directory) body() {}
func (Content) body()   {}
func (Symlink) body()   {}

// EntryStream is a pull-based sequence of tree entries. Next returns
// io.EOF after the final entry. Streams are not safe for concurrent use.
type EntryStream interface {
	Next(ctx context.Context) (Entry, error)
}

// AddEvent is a single ingestion progress event. Whatever the concrete
// variant, it carries the identifier computed so far.
type AddEvent interface {
	Cid() cid.Cid
}

// ProgressDelta reports one stored node. It is currently the only
// AddEvent variant.
type ProgressDelta struct {
	CID  cid.Cid
	Size uint64
}

func (e ProgressDelta) Cid() cid.Cid {
	return e.CID
}

// AddEventStream is a pull-based sequence of ingestion events. Next
// returns io.EOF after the final event.
type AddEventStream interface {
	Next(ctx context.Context) (AddEvent, error)
}
