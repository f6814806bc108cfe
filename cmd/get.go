package main

import (
	"fmt"

	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/boxo/ipld/merkledag"
	carblockstore "github.com/ipld/go-car/v2/blockstore"
	"github.com/urfave/cli/v2"

	"github.com/remora-store/remora/pkg/api"
	"github.com/remora-store/remora/pkg/cpath"
	"github.com/remora-store/remora/pkg/store"
)

// get materializes a content path from a CAR archive onto the local
// filesystem.
func get(cCtx *cli.Context) error {
	if cCtx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one content path argument")
	}
	p, err := cpath.Parse(cCtx.Args().First())
	if err != nil {
		return err
	}

	bs, err := carblockstore.OpenReadOnly(cCtx.String("car"))
	if err != nil {
		return fmt.Errorf("opening CAR archive: %w", err)
	}
	defer bs.Close()

	dserv := merkledag.NewDAGService(blockservice.New(bs, nil))
	out, err := api.New(store.New(dserv)).Get(cCtx.Context, p, cCtx.String("output"))
	if err != nil {
		return err
	}

	fmt.Printf("Saved to %s\n", out)
	return nil
}
