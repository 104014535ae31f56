package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rangeScope/internal/config"
	"rangeScope/internal/derive"
	"rangeScope/internal/dex"
	"rangeScope/internal/model"
	"rangeScope/internal/pool"
	"rangeScope/internal/rangesync"
	"rangeScope/internal/session"
)

type deriveResult struct {
	Range  model.RangeSnapshot `json:"range"`
	Errors derive.ErrorFlags   `json:"errors"`
	View   rangesync.View      `json:"view"`
	Pool   *model.PoolSnapshot `json:"pool,omitempty"`
}

func runDerive(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDerive(cfgFile, cmd.Flags())
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

	client, closeClient, err := connectDex(ctx, &cfg.PoolConfig, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	in, err := resolvePool(ctx, cfg.PoolConfig, client)
	if err != nil {
		return err
	}

	cache, reg := newCache()
	sess := session.New(session.Config{Width: cfg.Width, Logger: logger.Named("session"), Cache: cache})
	if err := sess.SelectPool(in.token0, in.token1, in.fee, in.tickSpacing, in.extension); err != nil {
		return fmt.Errorf("select pool: %w", err)
	}
	if err := sess.UpdatePool(in.update); err != nil {
		logger.Warn("pool update rejected", zap.Error(err))
	}

	balances, connected, err := resolveBalances(ctx, cfg, client, in)
	if err != nil {
		return err
	}
	if connected {
		sess.SetConnected(true)
		sess.SetBalances(balances[0], balances[1])
	}

	if err := applyDeriveInputs(sess, cfg); err != nil {
		return err
	}

	now := time.Now()
	snap := sess.Snapshot()
	result := deriveResult{
		Range:  snap.Record(now),
		Errors: snap.Output.Errors,
		View:   snap.View,
	}
	if in.data != nil && in.update.State == pool.StateExists {
		rec := in.data.Record(now)
		result.Pool = &rec
	}

	logger.Info("derive complete",
		zap.String("pool_key", result.Range.PoolKey),
		zap.String("error", result.Range.Error),
		zap.Bool("out_of_range", result.Range.OutOfRange),
	)
	logCacheMetrics(logger, reg)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// applyDeriveInputs replays the command inputs in the order a user would
// type them. Bounds and the start price are read in the displayed
// orientation, so the flip comes first.
func applyDeriveInputs(sess *session.Session, cfg config.DeriveConfig) error {
	if cfg.Invert {
		sess.InvertPrice()
	}
	if cfg.StartPrice != "" {
		sess.SetStartPrice(cfg.StartPrice)
	}
	if cfg.FullRange {
		sess.SetFullRange()
	} else {
		if cfg.MinPrice != "" {
			sess.SetRangeBound(derive.SideLeft, cfg.MinPrice)
		}
		if cfg.MaxPrice != "" {
			sess.SetRangeBound(derive.SideRight, cfg.MaxPrice)
		}
	}
	if cfg.Amount != "" {
		field, err := config.ParseField(cfg.Field)
		if err != nil {
			return err
		}
		sess.SetTypedAmount(field, cfg.Amount)
	}
	return nil
}

// resolveBalances reads wallet balances over RPC for an account, or takes
// them from flags. Flag balances follow the configured token order.
func resolveBalances(ctx context.Context, cfg config.DeriveConfig, client *dex.Client, in poolInput) ([2]*big.Int, bool, error) {
	var out [2]*big.Int
	if cfg.Account != "" {
		if client == nil {
			return out, false, fmt.Errorf("rpc is required to read balances of %s", cfg.Account)
		}
		owner, err := config.ParseAddress(cfg.Account)
		if err != nil {
			return out, false, err
		}
		out, err = client.Balances(ctx, owner, in.token0, in.token1, cfg.Block)
		if err != nil {
			return out, false, fmt.Errorf("read balances: %w", err)
		}
		return out, true, nil
	}
	if cfg.Balance0 == "" && cfg.Balance1 == "" {
		return out, false, nil
	}

	for i, raw := range []string{cfg.Balance0, cfg.Balance1} {
		v, err := config.ParseBigInt(raw)
		if err != nil {
			return out, false, fmt.Errorf("balance%d: %w", i, err)
		}
		out[i] = v
	}
	if in.swapped {
		out[0], out[1] = out[1], out[0]
	}
	return out, true, nil
}
