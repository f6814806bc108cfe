package store

import (
	"context"
	"sync"

	"github.com/ipfs/boxo/blockstore"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	format "github.com/ipfs/go-ipld-format"
)

// MemBlockstore is a map-backed blockstore. It is safe for concurrent
// use and keeps everything in memory.
type MemBlockstore struct {
	mu     sync.RWMutex
	blocks map[cid.Cid]blocks.Block
}

var _ blockstore.Blockstore = (*MemBlockstore)(nil)

// NewMemBlockstore creates an empty in-memory blockstore.
func NewMemBlockstore() *MemBlockstore {
	return &MemBlockstore{blocks: make(map[cid.Cid]blocks.Block)}
}

func (m *MemBlockstore) Get(ctx context.Context, c cid.Cid) (blocks.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.blocks[c]; ok {
		return b, nil
	}
	return nil, format.ErrNotFound{Cid: c}
}

func (m *MemBlockstore) Has(ctx context.Context, c cid.Cid) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blocks[c]
	return ok, nil
}

func (m *MemBlockstore) GetSize(ctx context.Context, c cid.Cid) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.blocks[c]; ok {
		return len(b.RawData()), nil
	}
	return 0, format.ErrNotFound{Cid: c}
}

func (m *MemBlockstore) Put(ctx context.Context, b blocks.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[b.Cid()] = b
	return nil
}

func (m *MemBlockstore) PutMany(ctx context.Context, bs []blocks.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range bs {
		m.blocks[b.Cid()] = b
	}
	return nil
}

func (m *MemBlockstore) DeleteBlock(ctx context.Context, c cid.Cid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blocks, c)
	return nil
}

func (m *MemBlockstore) AllKeysChan(ctx context.Context) (<-chan cid.Cid, error) {
	m.mu.RLock()
	keys := make([]cid.Cid, 0, len(m.blocks))
	for c := range m.blocks {
		keys = append(keys, c)
	}
	m.mu.RUnlock()

	ch := make(chan cid.Cid)
	go func() {
		defer close(ch)
		for _, c := range keys {
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (m *MemBlockstore) HashOnRead(enabled bool) {}
