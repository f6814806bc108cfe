package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "remora",
		Usage: "interact with a remora content-addressed storage network",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Fetch a content path and write it to the local filesystem.",
				UsageText: "get <content-path>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "car",
						Aliases:  []string{"c"},
						Usage:    "Path to a CAR archive to read blocks from.",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to this path instead of one derived from the content path.",
					},
				},
				Action: get,
			},
			{
				Name:      "add",
				Usage:     "Add a file, directory or symlink to the store.",
				UsageText: "add <path>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "car",
						Aliases:  []string{"c"},
						Usage:    "Path of the CAR archive to write blocks to.",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "wrap",
						Value: false,
						Usage: "Wrap the entry in a directory keyed by its name.",
					},
				},
				Action: add,
			},
			{
				Name:   "status",
				Usage:  "Check the health of the configured backend services.",
				Action: status,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
