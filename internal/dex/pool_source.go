package dex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangeScope/internal/density"
	"rangeScope/internal/model"
	"rangeScope/internal/pool"
)

var ErrPoolNotInitialized = errors.New("pool not initialized")

// PoolData is a pool observed at a block with the metadata of both tokens.
type PoolData struct {
	Meta        model.PoolMeta
	Token0      model.Token
	Token1      model.Token
	BlockNumber uint64
}

// FetchPool loads pool state and token metadata. A pool whose slot0 has
// never been initialized returns ErrPoolNotInitialized.
func (c *Client) FetchPool(ctx context.Context, address common.Address, blockNumber uint64) (PoolData, error) {
	meta, err := c.FetchPoolState(ctx, address, blockNumber)
	if err != nil {
		c.logger.Warn("pool fetch failed", zap.String("pool", address.Hex()), zap.Error(err))
		return PoolData{}, err
	}
	token0, err := c.Token(ctx, meta.Token0)
	if err != nil {
		return PoolData{}, fmt.Errorf("token0: %w", err)
	}
	token1, err := c.Token(ctx, meta.Token1)
	if err != nil {
		return PoolData{}, fmt.Errorf("token1: %w", err)
	}

	data := PoolData{Meta: meta, Token0: token0, Token1: token1, BlockNumber: blockNumber}
	if meta.Slot0 == nil || meta.Slot0.SqrtPriceX96 == nil || meta.Slot0.SqrtPriceX96.Sign() == 0 {
		return data, ErrPoolNotInitialized
	}
	return data, nil
}

// Key returns the pool key of the observed pool.
func (d PoolData) Key() (pool.PoolKey, error) {
	return pool.NewPoolKey(d.Meta.Token0, d.Meta.Token1, d.Meta.Fee, d.Meta.TickSpacing, common.Address{})
}

// Pool returns the observed pool through cache.
func (d PoolData) Pool(cache *pool.Cache) (*pool.Pool, error) {
	if d.Meta.Slot0 == nil {
		return nil, ErrPoolNotInitialized
	}
	return cache.Pool(d.Token0, d.Token1, d.Meta.Fee, d.Meta.TickSpacing, d.Meta.Slot0.SqrtPriceX96, d.Meta.Liquidity, d.Meta.Slot0.Tick)
}

// DensityRequest describes the pool for a density load.
func (d PoolData) DensityRequest() density.Request {
	req := density.Request{
		Pool:        d.Meta.Address,
		Token0:      d.Token0,
		Token1:      d.Token1,
		TickSpacing: d.Meta.TickSpacing,
		Liquidity:   d.Meta.Liquidity,
		BlockNumber: d.BlockNumber,
	}
	if d.Meta.Slot0 != nil {
		req.TickCurrent = d.Meta.Slot0.Tick
	}
	return req
}

// Record flattens the observation into its storage form.
func (d PoolData) Record(observedAt time.Time) model.PoolSnapshot {
	rec := model.PoolSnapshot{
		ChainID:     d.Token0.ChainID,
		Address:     d.Meta.Address.Hex(),
		Token0:      d.Meta.Token0.Hex(),
		Token1:      d.Meta.Token1.Hex(),
		Fee:         d.Meta.Fee,
		TickSpacing: d.Meta.TickSpacing,
		BlockNumber: d.BlockNumber,
		ObservedAt:  observedAt.UTC().Format(time.RFC3339Nano),
	}
	if key, err := d.Key(); err == nil {
		rec.PoolKey = key.String()
	}
	if d.Meta.Liquidity != nil {
		rec.Liquidity = d.Meta.Liquidity.String()
	}
	if d.Meta.Slot0 != nil {
		rec.SqrtPriceX96 = d.Meta.Slot0.SqrtPriceX96.String()
		rec.Tick = d.Meta.Slot0.Tick
	}
	return rec
}
