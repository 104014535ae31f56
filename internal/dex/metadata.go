package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"rangeScope/internal/model"
)

// poolField reads one pool getter into the metadata under construction.
type poolField struct {
	method string
	decode func(meta *model.PoolMeta, values []interface{}) error
}

var immutablePoolFields = []poolField{
	{"token0", func(meta *model.PoolMeta, values []interface{}) (err error) {
		meta.Token0, err = output[common.Address]("token0", values, 0)
		return err
	}},
	{"token1", func(meta *model.PoolMeta, values []interface{}) (err error) {
		meta.Token1, err = output[common.Address]("token1", values, 0)
		return err
	}},
	{"fee", func(meta *model.PoolMeta, values []interface{}) error {
		fee, err := output[*big.Int]("fee", values, 0)
		if err != nil {
			return err
		}
		meta.Fee = uint32(fee.Uint64())
		return nil
	}},
	{"tickSpacing", func(meta *model.PoolMeta, values []interface{}) (err error) {
		meta.TickSpacing, err = int24Output("tickSpacing", values, 0)
		return err
	}},
}

var livePoolFields = []poolField{
	{"liquidity", func(meta *model.PoolMeta, values []interface{}) (err error) {
		meta.Liquidity, err = output[*big.Int]("liquidity", values, 0)
		return err
	}},
	{"slot0", func(meta *model.PoolMeta, values []interface{}) error {
		sqrt, err := output[*big.Int]("slot0", values, 0)
		if err != nil {
			return err
		}
		tick, err := int24Output("slot0", values, 1)
		if err != nil {
			return err
		}
		meta.Slot0 = &model.PoolSlot0{SqrtPriceX96: sqrt, Tick: tick}
		return nil
	}},
}

func (c *Client) readPoolFields(ctx context.Context, meta *model.PoolMeta, fields []poolField, block *big.Int) error {
	poolABI, err := PoolABI()
	if err != nil {
		return fmt.Errorf("parse pool abi: %w", err)
	}
	for _, f := range fields {
		values, err := c.call(ctx, meta.Address, poolABI, f.method, block)
		if err != nil {
			return err
		}
		if err := f.decode(meta, values); err != nil {
			return err
		}
	}
	return nil
}

// FetchPoolMeta loads the immutable pool fields. Results are cached.
func (c *Client) FetchPoolMeta(ctx context.Context, pool common.Address) (model.PoolMeta, error) {
	if meta, ok := c.pools.get(pool); ok {
		return meta, nil
	}
	meta := model.PoolMeta{Address: pool}
	if err := c.readPoolFields(ctx, &meta, immutablePoolFields, nil); err != nil {
		return model.PoolMeta{}, err
	}
	c.pools.set(pool, meta)
	return meta, nil
}

// FetchPoolState loads the pool metadata with slot0 and liquidity at a
// block height. Block zero reads the latest state.
func (c *Client) FetchPoolState(ctx context.Context, pool common.Address, blockNumber uint64) (model.PoolMeta, error) {
	meta, err := c.FetchPoolMeta(ctx, pool)
	if err != nil {
		return model.PoolMeta{}, err
	}
	if err := c.readPoolFields(ctx, &meta, livePoolFields, blockArg(blockNumber)); err != nil {
		return model.PoolMeta{}, err
	}
	return meta, nil
}
