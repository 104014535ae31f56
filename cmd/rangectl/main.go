package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "rangectl",
		Short:        "Concentrated liquidity range calculator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive ticks, amounts and validation for one range",
		RunE:  runDerive,
	}

	addPoolFlags(deriveCmd.Flags())
	deriveCmd.Flags().String("field", "0", "independent amount field (0 or 1)")
	deriveCmd.Flags().String("amount", "", "typed amount of the independent field")
	deriveCmd.Flags().String("min-price", "", "left edge price in the displayed orientation")
	deriveCmd.Flags().String("max-price", "", "right edge price in the displayed orientation")
	deriveCmd.Flags().Bool("full-range", false, "use the full tick range")
	deriveCmd.Flags().Bool("invert", false, "display prices as token0 per token1")
	deriveCmd.Flags().String("start-price", "", "start price for a pool that does not exist yet")
	deriveCmd.Flags().String("account", "", "wallet address whose balances are read over RPC")
	deriveCmd.Flags().String("balance0", "", "raw token0 balance")
	deriveCmd.Flags().String("balance1", "", "raw token1 balance")
	deriveCmd.Flags().Float64("width", 800, "viewport width in pixels")

	root.AddCommand(deriveCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a JSONL action script and record every snapshot",
		RunE:  runReplay,
	}

	addPoolFlags(replayCmd.Flags())
	replayCmd.Flags().String("in", "", "input action script JSONL")
	replayCmd.Flags().String("out", "./data/range_snapshots.jsonl", "output range snapshots JSONL")
	replayCmd.Flags().String("pool-out", "", "output pool snapshots JSONL")
	replayCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	replayCmd.Flags().Bool("migrate", false, "apply schema migrations before writing")
	replayCmd.Flags().Float64("width", 800, "viewport width in pixels")

	root.AddCommand(replayCmd)

	densityCmd := &cobra.Command{
		Use:   "density",
		Short: "Load the liquidity density around the current tick",
		RunE:  runDensity,
	}

	addPoolFlags(densityCmd.Flags())
	densityCmd.Flags().Int("words", 2, "tick bitmap words scanned on each side of the current tick")
	densityCmd.Flags().Duration("timeout", 30*time.Second, "load timeout")
	densityCmd.Flags().String("out", "", "output JSONL path (stdout when empty)")

	root.AddCommand(densityCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPoolFlags(flags *pflag.FlagSet) {
	flags.String("rpc", "", "RPC URL")
	flags.Uint64("chain-id", 1, "chain id of explicitly given tokens")
	flags.String("pool", "", "pool address read over RPC")
	flags.Uint64("block", 0, "block number, 0 means latest")
	flags.String("token0", "", "first token address")
	flags.String("token1", "", "second token address")
	flags.Uint8("decimals0", 18, "decimals of token0")
	flags.Uint8("decimals1", 18, "decimals of token1")
	flags.String("symbol0", "", "symbol of token0")
	flags.String("symbol1", "", "symbol of token1")
	flags.Uint32("fee", 0, "fee tier in hundredths of a bip")
	flags.Int32("tick-spacing", 0, "tick spacing, 0 derives it from the fee")
	flags.String("extension", "", "pool extension address")
	flags.String("sqrt-price", "", "pool sqrtPriceX96; empty means the pool does not exist")
	flags.Int32("tick", 0, "current tick, derived from sqrt-price when unset")
	flags.String("liquidity", "", "pool liquidity")
	flags.Int("max-retries", 3, "maximum retry attempts for RPC calls")
	flags.Duration("retry-backoff", 250*time.Millisecond, "initial retry backoff")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
