package store

import (
	"context"
	"fmt"
	"io"

	"github.com/ipfs/boxo/files"
	unixfile "github.com/ipfs/boxo/ipld/unixfs/file"
	ufsio "github.com/ipfs/boxo/ipld/unixfs/io"

	"github.com/remora-store/remora/pkg/api"
	"github.com/remora-store/remora/pkg/cpath"
	"github.com/remora-store/remora/pkg/relpath"
)

// GetStream resolves p to a UnixFS node and returns a lazy, depth-first
// entry stream over it: every directory is emitted before its children,
// the resolved node itself at relpath.Root.
func (s *DAGStore) GetStream(ctx context.Context, p cpath.Path) (api.EntryStream, error) {
	root, ok := p.Root()
	if !ok {
		return nil, api.ErrNoRoot
	}
	nd, err := s.dserv.Get(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("fetching root %s: %w", root, err)
	}
	for _, seg := range p.Tail() {
		dir, err := ufsio.NewDirectoryFromNode(s.dserv, nd)
		if err != nil {
			return nil, fmt.Errorf("resolving %q in %s: %w", seg, p, err)
		}
		nd, err = dir.Find(ctx, seg)
		if err != nil {
			return nil, fmt.Errorf("resolving %q in %s: %w", seg, p, err)
		}
	}
	node, err := unixfile.NewUnixfsFile(ctx, s.dserv, nd)
	if err != nil {
		return nil, fmt.Errorf("interpreting %s: %w", p, err)
	}
	return &entryStream{root: node}, nil
}

// dirFrame is one directory being iterated during the walk.
type dirFrame struct {
	base    relpath.Rel
	entries files.DirIterator
}

// entryStream walks a files.Node tree one entry per Next call. Directory
// children are only requested from the DAG as the stream is consumed.
type entryStream struct {
	root  files.Node
	stack []dirFrame
}

func (s *entryStream) Next(ctx context.Context) (api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return api.Entry{}, err
	}
	if s.root != nil {
		node := s.root
		s.root = nil
		return s.emit(relpath.Root, node)
	}
	for len(s.stack) > 0 {
		frame := &s.stack[len(s.stack)-1]
		if frame.entries.Next() {
			child, err := frame.base.Join(frame.entries.Name())
			if err != nil {
				return api.Entry{}, fmt.Errorf("entry name %q: %w", frame.entries.Name(), err)
			}
			return s.emit(child, frame.entries.Node())
		}
		if err := frame.entries.Err(); err != nil {
			return api.Entry{}, fmt.Errorf("listing %s: %w", frame.base, err)
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
	return api.Entry{}, io.EOF
}

func (s *entryStream) emit(p relpath.Rel, node files.Node) (api.Entry, error) {
	log.Debugf("streaming entry %s", p)
	switch node := node.(type) {
	case *files.Symlink:
		return api.Entry{Path: p, Body: api.Symlink{Target: node.Target}}, nil
	case files.Directory:
		s.stack = append(s.stack, dirFrame{base: p, entries: node.Entries()})
		return api.Entry{Path: p, Body: api.Directory{}}, nil
	case files.File:
		return api.Entry{Path: p, Body: api.Content{Reader: node}}, nil
	default:
		return api.Entry{}, fmt.Errorf("unexpected node type %T at %s", node, p)
	}
}
