package main

import (
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	car "github.com/ipld/go-car"
	"github.com/urfave/cli/v2"

	"github.com/remora-store/remora/pkg/api"
	"github.com/remora-store/remora/pkg/store"
)

// add ingests a local path and writes the resulting blocks to a CAR
// archive, printing the root CID.
func add(cCtx *cli.Context) error {
	if cCtx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one path argument")
	}
	path := cCtx.Args().First()

	s, dserv := store.NewMemory()
	root, err := api.New(s).Add(cCtx.Context, path, cCtx.Bool("wrap"))
	if err != nil {
		return err
	}

	f, err := os.Create(cCtx.String("car"))
	if err != nil {
		return fmt.Errorf("creating CAR archive: %w", err)
	}
	defer f.Close()
	if err := car.WriteCar(cCtx.Context, dserv, []cid.Cid{root}, f); err != nil {
		return fmt.Errorf("writing CAR archive: %w", err)
	}

	fmt.Printf("%s\n", root)
	return nil
}
