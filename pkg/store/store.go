// Package store implements the api.Store capability over a UnixFS DAG
// held in any format.DAGService: trees are read back as lazy entry
// streams and local filesystem entries are ingested into UnixFS nodes,
// reporting progress per stored node.
package store

import (
	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/boxo/ipld/merkledag"
	"github.com/ipfs/go-cid"
	format "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"

	"github.com/remora-store/remora/pkg/api"
)

var log = logging.Logger("store")

// DAGStore adapts a format.DAGService to the api.Store capability.
type DAGStore struct {
	dserv format.DAGService
}

var _ api.Store = (*DAGStore)(nil)

// New creates a store over dserv.
func New(dserv format.DAGService) *DAGStore {
	return &DAGStore{dserv: dserv}
}

// NewMemory creates a store backed by an in-memory blockstore, plus the
// DAG service it writes to. Useful for tests and one-shot CAR pipelines.
func NewMemory() (*DAGStore, format.DAGService) {
	dserv := merkledag.NewDAGService(blockservice.New(NewMemBlockstore(), nil))
	return New(dserv), dserv
}

func cidBuilder() cid.Builder {
	return cid.V1Builder{Codec: uint64(multicodec.DagPb), MhType: multihash.SHA2_256}
}
