package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// newApp returns the htpc CLI printing command results into w.
func newApp(w io.Writer) *cli.App {
	return &cli.App{
		Name:   "htpc",
		Usage:  "HTPC fungible token ledger",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to the YAML configuration", EnvVars: []string{"HTPC_CONFIG"}},
		},
		Commands: []*cli.Command{
			initCommand,
			balanceCommand,
			supplyCommand,
			metadataCommand,
			registerCommand,
			transferCommand,
			storageBalanceCommand,
			dumpCommand,
			restoreCommand,
		},
	}
}

func main() {
	err := newApp(os.Stdout).Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
