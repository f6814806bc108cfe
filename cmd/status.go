package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/remora-store/remora/internal/cmdutil"
	"github.com/remora-store/remora/pkg/rpc"
)

// status health-checks the configured backend services.
func status(cCtx *cli.Context) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	client, err := rpc.Dial(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cCtx.Context, 5*time.Second)
	defer cancel()

	for _, st := range client.Check(ctx) {
		if st.Healthy() {
			fmt.Printf("%-8s %s online\n", st.Service, st.Addr)
		} else {
			fmt.Printf("%-8s %s offline: %s\n", st.Service, st.Addr, st.Err)
		}
	}
	return nil
}
