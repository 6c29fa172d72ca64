package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/config"
	"github.com/quigiaosu103/htpc/deploy"
	"github.com/quigiaosu103/htpc/dump"
	"github.com/quigiaosu103/htpc/host"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var initCommand = &cli.Command{
	Name:  "init",
	Usage: "initialize the token contract and register configured accounts",
	Action: func(c *cli.Context) error {
		return withRuntime(c, func(r *host.Runtime, cfg config.Config, log *zap.Logger) error {
			if cfg.Token.Owner == "" {
				return errors.New("token owner is not configured")
			}

			supply, err := cfg.Token.Supply()
			if err != nil {
				return err
			}

			meta, err := cfg.Token.FungibleTokenMetadata()
			if err != nil {
				return err
			}

			return deploy.Deploy(c.Context, deploy.Prm{
				Logger:  log,
				Runtime: r,
				Token: deploy.TokenPrm{
					Owner:       cfg.Token.Owner,
					TotalSupply: supply,
					Metadata:    meta,
				},
				Accounts: cfg.Token.Accounts,
			})
		})
	},
}

var balanceCommand = &cli.Command{
	Name:      "balance",
	Usage:     "print token balance of the account",
	ArgsUsage: "<account>",
	Action: func(c *cli.Context) error {
		acc, err := accountArg(c)
		if err != nil {
			return err
		}

		return withRuntime(c, func(r *host.Runtime, _ config.Config, _ *zap.Logger) error {
			n, err := r.BalanceOf(c.Context, acc)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, n.Dec())

			return nil
		})
	},
}

var supplyCommand = &cli.Command{
	Name:  "supply",
	Usage: "print total supply of the token",
	Action: func(c *cli.Context) error {
		return withRuntime(c, func(r *host.Runtime, _ config.Config, _ *zap.Logger) error {
			n, err := r.TotalSupply(c.Context)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, n.Dec())

			return nil
		})
	},
}

var metadataCommand = &cli.Command{
	Name:  "metadata",
	Usage: "print token metadata as JSON",
	Action: func(c *cli.Context) error {
		return withRuntime(c, func(r *host.Runtime, _ config.Config, _ *zap.Logger) error {
			m, err := r.Metadata(c.Context)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")

			return enc.Encode(m)
		})
	},
}

var registerCommand = &cli.Command{
	Name:  "register",
	Usage: "pay storage deposit for the account",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "payer", Required: true, Usage: "account paying the deposit"},
		&cli.StringFlag{Name: "account", Usage: "account to register, defaults to the payer"},
		&cli.StringFlag{Name: "deposit", Usage: "attached deposit in yocto, defaults to the minimum"},
	},
	Action: func(c *cli.Context) error {
		return withRuntime(c, func(r *host.Runtime, _ config.Config, _ *zap.Logger) error {
			var (
				call = host.Call{Caller: common.AccountID(c.String("payer"))}
				acc  *common.AccountID
				err  error
			)

			if s := c.String("account"); s != "" {
				a := common.AccountID(s)
				acc = &a
			}

			if s := c.String("deposit"); s != "" {
				call.Deposit, err = uint256.FromDecimal(s)
				if err != nil {
					return fmt.Errorf("invalid deposit: %w", err)
				}
			} else {
				b, err := r.StorageBalanceBounds(c.Context)
				if err != nil {
					return err
				}
				call.Deposit = b.Min
			}

			sb, out, err := r.StorageDeposit(c.Context, call, acc, true)
			printOutcome(c, out)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "storage balance: total %s, available %s\n", sb.Total.Dec(), sb.Available.Dec())

			return nil
		})
	},
}

var transferCommand = &cli.Command{
	Name:  "transfer",
	Usage: "transfer tokens between registered accounts",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "from", Required: true},
		&cli.StringFlag{Name: "to", Required: true},
		&cli.StringFlag{Name: "amount", Required: true, Usage: "amount in the smallest units"},
		&cli.StringFlag{Name: "memo"},
	},
	Action: func(c *cli.Context) error {
		amount, err := uint256.FromDecimal(c.String("amount"))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		return withRuntime(c, func(r *host.Runtime, _ config.Config, _ *zap.Logger) error {
			call := host.Call{
				Caller:  common.AccountID(c.String("from")),
				Deposit: common.OneYocto,
			}

			out, err := r.Transfer(c.Context, call, common.AccountID(c.String("to")), amount, common.Memo(c.String("memo")))
			if err != nil {
				printOutcome(c, out)
				return err
			}

			fmt.Fprintf(c.App.Writer, "transferred %s\n", amount.Dec())

			return nil
		})
	},
}

var storageBalanceCommand = &cli.Command{
	Name:      "storage-balance",
	Usage:     "print storage balance of the account",
	ArgsUsage: "<account>",
	Action: func(c *cli.Context) error {
		acc, err := accountArg(c)
		if err != nil {
			return err
		}

		return withRuntime(c, func(r *host.Runtime, _ config.Config, _ *zap.Logger) error {
			sb, err := r.StorageBalanceOf(c.Context, acc)
			if err != nil {
				return err
			}

			if sb == nil {
				fmt.Fprintln(c.App.Writer, "not registered")
				return nil
			}

			fmt.Fprintf(c.App.Writer, "total %s, available %s\n", sb.Total.Dec(), sb.Available.Dec())

			return nil
		})
	},
}

var dumpCommand = &cli.Command{
	Name:  "dump",
	Usage: "dump the contract storage into the directory",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dir", Value: "testdata", Usage: "output directory"},
		&cli.StringFlag{Name: "label", Required: true, Usage: "label of the environment (e.g. 'testnet')"},
	},
	Action: func(c *cli.Context) error {
		dir := c.String("dir")

		err := os.MkdirAll(dir, 0700)
		if err != nil {
			return fmt.Errorf("create root dir: %w", err)
		}

		return withRuntime(c, func(r *host.Runtime, _ config.Config, log *zap.Logger) error {
			id, err := dump.Runtime(c.Context, dir, c.String("label"), r)
			if err != nil {
				return err
			}

			log.Info("contract storage is successfully dumped", zap.String("dir", dir), zap.Stringer("id", id))

			return nil
		})
	},
}

var restoreCommand = &cli.Command{
	Name:  "restore",
	Usage: "restore the contract storage from the dump into the empty configured store",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dir", Value: "testdata", Usage: "dump directory"},
		&cli.StringFlag{Name: "label", Required: true},
		&cli.Uint64Flag{Name: "height", Required: true},
	},
	Action: func(c *cli.Context) error {
		rd, err := dump.Open(c.String("dir"), dump.ID{Label: c.String("label"), Height: c.Uint64("height")})
		if err != nil {
			return err
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		if cfg.Storage.Type == dbconfig.InMemoryDB || cfg.Storage.Type == "" {
			return errors.New("restore requires persistent storage")
		}

		s, err := host.OpenStore(cfg.Storage)
		if err != nil {
			return err
		}

		err = dump.Restore(rd, dump.TokenContract, s)
		if cErr := s.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			return err
		}

		return withRuntime(c, func(r *host.Runtime, _ config.Config, log *zap.Logger) error {
			err := r.CheckSupply(c.Context)
			if err != nil {
				return fmt.Errorf("restored ledger is inconsistent: %w", err)
			}

			log.Info("contract storage is successfully restored", zap.Uint64("height", r.Height()))

			return nil
		})
	},
}

func accountArg(c *cli.Context) (common.AccountID, error) {
	if c.NArg() != 1 {
		return "", errors.New("exactly one account argument is required")
	}
	return common.AccountID(c.Args().First()), nil
}
