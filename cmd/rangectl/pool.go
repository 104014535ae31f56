package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"rangeScope/internal/chain"
	"rangeScope/internal/config"
	"rangeScope/internal/dex"
	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/model"
	"rangeScope/internal/pool"
	"rangeScope/internal/session"
)

// poolInput is a resolved pool selection with its first state update.
// Tokens are sorted; swapped reports that the configured order was not.
type poolInput struct {
	token0      model.Token
	token1      model.Token
	swapped     bool
	fee         uint32
	tickSpacing int32
	extension   common.Address
	update      session.PoolUpdate
	data        *dex.PoolData
}

// connectDex dials the RPC endpoint when one is configured and pins
// cfg.Block to the head when it is unset. The returned client is nil
// without an endpoint.
func connectDex(ctx context.Context, cfg *config.PoolConfig, logger *zap.Logger, opts ...dex.Option) (*dex.Client, func(), error) {
	if cfg.RPCURL == "" {
		return nil, func() {}, nil
	}
	chainClient, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}
	block, err := chainClient.PinBlock(ctx, cfg.Block)
	if err != nil {
		chainClient.Close()
		return nil, nil, err
	}
	cfg.Block = block
	logger.Info("rpc connected", zap.Uint64("chain_id", chainClient.ChainID()), zap.Uint64("block", block))

	opts = append([]dex.Option{
		dex.WithLogger(logger.Named("dex")),
		dex.WithRetry(cfg.MaxRetries, cfg.RetryBackoff),
	}, opts...)
	return dex.NewClient(chainClient, chainClient.ChainID(), opts...), chainClient.Close, nil
}

func resolvePool(ctx context.Context, cfg config.PoolConfig, client *dex.Client) (poolInput, error) {
	if !cfg.FromChain() {
		return explicitPool(cfg)
	}
	if client == nil {
		return poolInput{}, fmt.Errorf("rpc is required to read pool %s", cfg.Pool)
	}
	addr, err := config.ParseAddress(cfg.Pool)
	if err != nil {
		return poolInput{}, err
	}

	data, err := client.FetchPool(ctx, addr, cfg.Block)
	if err != nil && !errors.Is(err, dex.ErrPoolNotInitialized) {
		return poolInput{}, fmt.Errorf("fetch pool: %w", err)
	}
	in := poolInput{
		token0:      data.Token0,
		token1:      data.Token1,
		fee:         data.Meta.Fee,
		tickSpacing: data.Meta.TickSpacing,
		data:        &data,
	}
	if err != nil {
		in.update = session.PoolUpdate{State: pool.StateNotExists}
		return in, nil
	}
	in.update = session.PoolUpdate{
		State:        pool.StateExists,
		SqrtPriceX96: data.Meta.Slot0.SqrtPriceX96,
		Liquidity:    data.Meta.Liquidity,
		Tick:         data.Meta.Slot0.Tick,
	}
	return in, nil
}

func explicitPool(cfg config.PoolConfig) (poolInput, error) {
	addr0, err := config.ParseAddress(cfg.Token0)
	if err != nil {
		return poolInput{}, fmt.Errorf("token0: %w", err)
	}
	addr1, err := config.ParseAddress(cfg.Token1)
	if err != nil {
		return poolInput{}, fmt.Errorf("token1: %w", err)
	}

	in := poolInput{
		token0:      model.Token{ChainID: cfg.ChainID, Address: addr0, Decimals: cfg.Decimals0, Symbol: cfg.Symbol0},
		token1:      model.Token{ChainID: cfg.ChainID, Address: addr1, Decimals: cfg.Decimals1, Symbol: cfg.Symbol1},
		fee:         cfg.Fee,
		tickSpacing: cfg.TickSpacing,
	}
	if !in.token0.SortsBefore(in.token1) {
		in.token0, in.token1 = in.token1, in.token0
		in.swapped = true
	}
	if in.tickSpacing == 0 {
		spacing, ok := pool.TickSpacingForFee(cfg.Fee)
		if !ok {
			return poolInput{}, fmt.Errorf("tick-spacing is required for fee %d", cfg.Fee)
		}
		in.tickSpacing = spacing
	}
	if cfg.Extension != "" {
		ext, err := config.ParseAddress(cfg.Extension)
		if err != nil {
			return poolInput{}, fmt.Errorf("extension: %w", err)
		}
		in.extension = ext
	}

	update, err := poolUpdate("", cfg.SqrtPrice, cfg.Liquidity, cfg.Tick)
	if err != nil {
		return poolInput{}, err
	}
	in.update = update
	return in, nil
}

// poolUpdate builds a pool update from text fields. An empty sqrt price
// means the pool does not exist.
func poolUpdate(state, sqrtPrice, liquidity string, tick *int32) (session.PoolUpdate, error) {
	sqrt, err := config.ParseBigInt(sqrtPrice)
	if err != nil {
		return session.PoolUpdate{}, fmt.Errorf("sqrt price: %w", err)
	}
	parsedState, err := parsePoolState(state, sqrt != nil)
	if err != nil {
		return session.PoolUpdate{}, err
	}
	if parsedState != pool.StateExists {
		return session.PoolUpdate{State: parsedState}, nil
	}
	if sqrt == nil {
		return session.PoolUpdate{}, fmt.Errorf("sqrt price is required for an existing pool")
	}

	liq, err := config.ParseBigInt(liquidity)
	if err != nil {
		return session.PoolUpdate{}, fmt.Errorf("liquidity: %w", err)
	}
	if liq == nil {
		liq = new(big.Int)
	}

	var current int32
	if tick != nil {
		current = *tick
	} else {
		current, err = fixedpoint.TickAtSqrtRatio(sqrt)
		if err != nil {
			return session.PoolUpdate{}, fmt.Errorf("tick from sqrt price: %w", err)
		}
	}
	return session.PoolUpdate{State: pool.StateExists, SqrtPriceX96: sqrt, Liquidity: liq, Tick: current}, nil
}

func parsePoolState(input string, hasPrice bool) (pool.State, error) {
	switch input {
	case "":
		if hasPrice {
			return pool.StateExists, nil
		}
		return pool.StateNotExists, nil
	case "loading":
		return pool.StateLoading, nil
	case "not_exists":
		return pool.StateNotExists, nil
	case "exists":
		return pool.StateExists, nil
	case "invalid":
		return pool.StateInvalid, nil
	default:
		return 0, fmt.Errorf("invalid pool state: %s", input)
	}
}

// poolRecord flattens a scripted pool update into its storage form.
func poolRecord(key *pool.PoolKey, token0 model.Token, u session.PoolUpdate, observedAt time.Time) model.PoolSnapshot {
	rec := model.PoolSnapshot{
		ChainID:    token0.ChainID,
		Tick:       u.Tick,
		ObservedAt: observedAt.UTC().Format(time.RFC3339Nano),
	}
	if key != nil {
		rec.PoolKey = key.String()
		rec.Token0 = key.Currency0.Hex()
		rec.Token1 = key.Currency1.Hex()
		rec.Fee = key.Fee
		rec.TickSpacing = key.TickSpacing
	}
	if u.SqrtPriceX96 != nil {
		rec.SqrtPriceX96 = u.SqrtPriceX96.String()
	}
	if u.Liquidity != nil {
		rec.Liquidity = u.Liquidity.String()
	}
	return rec
}

func newCache() (*pool.Cache, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return pool.NewCache(pool.WithMetrics(pool.NewCacheMetrics(reg))), reg
}

// logCacheMetrics writes every gathered cache sample at debug level.
func logCacheMetrics(logger *zap.Logger, gatherer prometheus.Gatherer) {
	families, err := gatherer.Gather()
	if err != nil {
		logger.Warn("gather cache metrics failed", zap.Error(err))
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fields := []zap.Field{zap.String("metric", family.GetName())}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			switch {
			case metric.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", metric.GetCounter().GetValue()))
			case metric.GetGauge() != nil:
				fields = append(fields, zap.Float64("value", metric.GetGauge().GetValue()))
			}
			logger.Debug("cache metric", fields...)
		}
	}
}
