package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rangeScope/internal/config"
	"rangeScope/internal/density"
	"rangeScope/internal/dex"
)

func runDensity(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDensity(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	client, closeClient, err := connectDex(ctx, &cfg.PoolConfig, logger, dex.WithTickWords(cfg.Words))
	if err != nil {
		return err
	}
	defer closeClient()

	addr, err := config.ParseAddress(cfg.Pool)
	if err != nil {
		return err
	}
	data, err := client.FetchPool(ctx, addr, cfg.Block)
	if errors.Is(err, dex.ErrPoolNotInitialized) {
		return fmt.Errorf("pool %s is not initialized", addr.Hex())
	}
	if err != nil {
		return fmt.Errorf("fetch pool: %w", err)
	}

	loader := density.NewLoader(client, logger.Named("density"))
	gen, done := loader.Load(ctx, data.DensityRequest())
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	result := loader.Result()
	if result.Status == density.StatusError {
		return fmt.Errorf("load density: %w", result.Err)
	}

	logger.Info("density loaded",
		zap.String("pool", addr.Hex()),
		zap.Uint64("generation", gen),
		zap.Int32("active_tick", result.ActiveTick),
		zap.Int("ticks", len(result.Entries)),
	)

	return writeLines(cfg.Out, cmd.OutOrStdout(), result.Entries)
}
