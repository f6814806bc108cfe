package store

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	chunker "github.com/ipfs/boxo/chunker"
	"github.com/ipfs/boxo/ipld/merkledag"
	ft "github.com/ipfs/boxo/ipld/unixfs"
	"github.com/ipfs/boxo/ipld/unixfs/importer/balanced"
	ihelper "github.com/ipfs/boxo/ipld/unixfs/importer/helpers"
	ufsio "github.com/ipfs/boxo/ipld/unixfs/io"
	format "github.com/ipfs/go-ipld-format"

	"github.com/remora-store/remora/pkg/api"
)

// AddFile ingests the regular file at path.
func (s *DAGStore) AddFile(ctx context.Context, path string, wrap bool) (api.AddEventStream, error) {
	return s.ingest(ctx, path, wrap, addFileNode), nil
}

// AddDir ingests the directory tree rooted at path.
func (s *DAGStore) AddDir(ctx context.Context, path string, wrap bool) (api.AddEventStream, error) {
	return s.ingest(ctx, path, wrap, addDirNode), nil
}

// AddSymlink ingests the symbolic link at path, storing its target
// without following it.
func (s *DAGStore) AddSymlink(ctx context.Context, path string, wrap bool) (api.AddEventStream, error) {
	return s.ingest(ctx, path, wrap, addSymlinkNode), nil
}

type buildFunc func(ctx context.Context, dserv format.DAGService, path string) (format.Node, error)

// ingest runs build against an event-emitting view of the DAG service and
// returns the event stream. Ingestion advances only as the stream is
// consumed: every stored node blocks until its event is received. The
// root node's event is always last.
func (s *DAGStore) ingest(ctx context.Context, path string, wrap bool, build buildFunc) api.AddEventStream {
	stream := &addEventStream{events: make(chan api.AddEvent)}
	dserv := &emittingDAG{DAGService: s.dserv, emit: func(nd format.Node) error {
		event := api.ProgressDelta{CID: nd.Cid(), Size: uint64(len(nd.RawData()))}
		select {
		case stream.events <- event:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	go func() {
		defer close(stream.events)
		nd, err := build(ctx, dserv, path)
		if err != nil {
			stream.err = fmt.Errorf("adding %s: %w", path, err)
			return
		}
		if wrap {
			if _, err := wrapNode(ctx, dserv, filepath.Base(path), nd); err != nil {
				stream.err = fmt.Errorf("wrapping %s: %w", path, err)
			}
		}
	}()
	return stream
}

// addEventStream delivers events produced by an ingestion goroutine. err
// is written before the channel close, so readers that observe the close
// see it.
type addEventStream struct {
	events chan api.AddEvent
	err    error
}

func (s *addEventStream) Next(ctx context.Context) (api.AddEvent, error) {
	select {
	case event, ok := <-s.events:
		if !ok {
			if s.err != nil {
				return nil, s.err
			}
			return nil, io.EOF
		}
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// emittingDAG forwards writes to the underlying DAG service and emits one
// event per stored node.
type emittingDAG struct {
	format.DAGService
	emit func(nd format.Node) error
}

func (d *emittingDAG) Add(ctx context.Context, nd format.Node) error {
	if err := d.DAGService.Add(ctx, nd); err != nil {
		return err
	}
	return d.emit(nd)
}

func (d *emittingDAG) AddMany(ctx context.Context, nds []format.Node) error {
	if err := d.DAGService.AddMany(ctx, nds); err != nil {
		return err
	}
	for _, nd := range nds {
		if err := d.emit(nd); err != nil {
			return err
		}
	}
	return nil
}

func addFileNode(ctx context.Context, dserv format.DAGService, path string) (format.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return buildFileDAG(dserv, f)
}

func buildFileDAG(dserv format.DAGService, r io.Reader) (format.Node, error) {
	params := ihelper.DagBuilderParams{
		Dagserv:    dserv,
		RawLeaves:  true,
		Maxlinks:   ihelper.DefaultLinksPerBlock,
		CidBuilder: cidBuilder(),
	}
	db, err := params.New(chunker.NewSizeSplitter(r, chunker.DefaultBlockSize))
	if err != nil {
		return nil, fmt.Errorf("starting file layout: %w", err)
	}
	nd, err := balanced.Layout(db)
	if err != nil {
		return nil, fmt.Errorf("laying out file: %w", err)
	}
	return nd, nil
}

func addSymlinkNode(ctx context.Context, dserv format.DAGService, path string) (format.Node, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return nil, err
	}
	data, err := ft.SymlinkData(target)
	if err != nil {
		return nil, fmt.Errorf("encoding symlink target: %w", err)
	}
	nd := merkledag.NodeWithData(data)
	if err := nd.SetCidBuilder(cidBuilder()); err != nil {
		return nil, err
	}
	if err := dserv.Add(ctx, nd); err != nil {
		return nil, err
	}
	return nd, nil
}

func addDirNode(ctx context.Context, dserv format.DAGService, path string) (format.Node, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	dir, err := ufsio.NewDirectory(dserv)
	if err != nil {
		return nil, err
	}
	dir.SetCidBuilder(cidBuilder())
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		var child format.Node
		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			child, err = addSymlinkNode(ctx, dserv, childPath)
		case entry.IsDir():
			child, err = addDirNode(ctx, dserv, childPath)
		case entry.Type().IsRegular():
			child, err = addFileNode(ctx, dserv, childPath)
		default:
			return nil, fmt.Errorf("unsupported entry %s (%s)", childPath, entry.Type())
		}
		if err != nil {
			return nil, err
		}
		if err := dir.AddChild(ctx, entry.Name(), child); err != nil {
			return nil, fmt.Errorf("linking %s: %w", childPath, err)
		}
	}
	nd, err := dir.GetNode()
	if err != nil {
		return nil, err
	}
	if err := dserv.Add(ctx, nd); err != nil {
		return nil, err
	}
	return nd, nil
}

func wrapNode(ctx context.Context, dserv format.DAGService, name string, child format.Node) (format.Node, error) {
	dir, err := ufsio.NewDirectory(dserv)
	if err != nil {
		return nil, err
	}
	dir.SetCidBuilder(cidBuilder())
	if err := dir.AddChild(ctx, name, child); err != nil {
		return nil, err
	}
	nd, err := dir.GetNode()
	if err != nil {
		return nil, err
	}
	if err := dserv.Add(ctx, nd); err != nil {
		return nil, err
	}
	return nd, nil
}
