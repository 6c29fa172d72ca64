package main

import (
	"fmt"

	"github.com/quigiaosu103/htpc/config"
	"github.com/quigiaosu103/htpc/events"
	"github.com/quigiaosu103/htpc/host"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// loadConfig reads configuration from the file given with the global flag or
// returns the default one.
func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// withRuntime opens the configured store and passes the token host over it
// into f. The store is closed after f returns.
func withRuntime(c *cli.Context, f func(*host.Runtime, config.Config, *zap.Logger) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := cfg.Logger.BuildLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	defer func() { _ = log.Sync() }()

	price, err := cfg.Contract.BytePrice()
	if err != nil {
		return err
	}

	s, err := host.OpenStore(cfg.Storage)
	if err != nil {
		return err
	}

	defer func() {
		if err := s.Close(); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	r, err := host.New(host.Prm{
		Logger:          log,
		Store:           s,
		Contract:        cfg.Contract.Account,
		Price:           host.NewFixedPrice(price),
		Emitter:         events.NewLogEmitter(log),
		CheckInvariants: cfg.Contract.CheckInvariants,
	})
	if err != nil {
		return fmt.Errorf("init runtime: %w", err)
	}

	return f(r, cfg, log)
}

// printOutcome writes refunds of the invocation.
func printOutcome(c *cli.Context, out *host.Outcome) {
	if out == nil {
		return
	}
	for _, r := range out.Refunds {
		fmt.Fprintf(c.App.Writer, "refund %s to %s\n", r.Amount.Dec(), r.To)
	}
}
