// Command powfaucet is the proof-of-work faucet client: it creates faucets,
// inspects them, and mines claimant identities to drain them.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := cli.NewApp()
	app.Name = "powfaucet"
	app.Usage = "proof-of-work faucet client"
	app.Version = version

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "network, n",
			Value: "",
			Usage: " target `NETWORK` [localnet|devnet|mainnet|sim]",
		},
		cli.StringFlag{
			Name:  "url, u",
			Value: "",
			Usage: " RPC endpoint `URL` (overrides the network preset)",
		},
		cli.StringFlag{
			Name:  "keypair, k",
			Value: "",
			Usage: " payer keypair `FILE` (JSON byte array)",
		},
		cli.StringFlag{
			Name:  "data-dir, d",
			Value: "",
			Usage: " data `DIRECTORY` [default: ~/.powfaucet]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "create",
			Usage: "create a proof of work faucet",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "difficulty",
					Usage: "*required leading-prefix length",
				},
				cli.Float64Flag{
					Name:  "reward",
					Usage: "*reward per claim in tokens",
				},
			},
			Action: runCreate,
		},
		{
			Name:  "info",
			Usage: "show a faucet's addresses and balance",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "difficulty",
					Usage: "*required leading-prefix length",
				},
				cli.Float64Flag{
					Name:  "reward",
					Usage: "*reward per claim in tokens",
				},
			},
			Action: runInfo,
		},
		{
			Name:   "list",
			Usage:  "list all faucets discovered on the ledger",
			Action: runList,
		},
		{
			Name:  "mine",
			Usage: "mine claimant identities and claim rewards",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "difficulty",
					Usage: " mine a single faucet: its difficulty",
				},
				cli.Float64Flag{
					Name:  "reward",
					Usage: " mine a single faucet: its reward in tokens",
				},
				cli.BoolFlag{
					Name:  "all",
					Usage: " mine every eligible faucet found by a scan",
				},
				cli.Uint64Flag{
					Name:  "target",
					Value: 1_000_000_000,
					Usage: " stop after claiming this many base units",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: " keypair generation workers [default: CPU count]",
				},
			},
			Action: runMine,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
