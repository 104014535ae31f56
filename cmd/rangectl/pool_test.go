package main

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangeScope/internal/config"
	"rangeScope/internal/pool"
)

func TestExplicitPoolSortsTokens(t *testing.T) {
	cfg := config.PoolConfig{
		ChainID:   1,
		Token0:    dai.Address.Hex(),
		Token1:    weth.Address.Hex(),
		Decimals0: 18,
		Decimals1: 18,
		Symbol0:   "DAI",
		Symbol1:   "WETH",
		Fee:       3000,
		SqrtPrice: q96,
	}
	in, err := resolvePool(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.True(t, in.swapped)
	assert.Equal(t, weth.Address, in.token0.Address)
	assert.Equal(t, "WETH", in.token0.Symbol)
	assert.Equal(t, int32(60), in.tickSpacing)
	assert.Nil(t, in.data)

	assert.Equal(t, pool.StateExists, in.update.State)
	assert.Equal(t, int32(0), in.update.Tick)
	assert.Equal(t, 0, in.update.Liquidity.Sign())
}

func TestExplicitPoolWithoutPrice(t *testing.T) {
	cfg := config.PoolConfig{
		ChainID: 1,
		Token0:  weth.Address.Hex(),
		Token1:  dai.Address.Hex(),
		Fee:     500,
	}
	in, err := resolvePool(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.False(t, in.swapped)
	assert.Equal(t, int32(10), in.tickSpacing)
	assert.Equal(t, pool.StateNotExists, in.update.State)
}

func TestExplicitPoolErrors(t *testing.T) {
	_, err := resolvePool(context.Background(), config.PoolConfig{Token0: weth.Address.Hex(), Token1: dai.Address.Hex(), Fee: 1234}, nil)
	assert.Error(t, err)

	_, err = resolvePool(context.Background(), config.PoolConfig{Token0: "nope", Token1: dai.Address.Hex(), Fee: 3000}, nil)
	assert.Error(t, err)

	_, err = resolvePool(context.Background(), config.PoolConfig{RPCURL: "http://localhost:8545", Pool: weth.Address.Hex()}, nil)
	assert.Error(t, err)
}

func TestPoolUpdateTick(t *testing.T) {
	explicit := int32(7)
	u, err := poolUpdate("", q96, "5", &explicit)
	require.NoError(t, err)
	assert.Equal(t, int32(7), u.Tick)
	assert.Equal(t, big.NewInt(5), u.Liquidity)

	u, err = poolUpdate("loading", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, pool.StateLoading, u.State)
	assert.Nil(t, u.SqrtPriceX96)

	_, err = poolUpdate("", "-1", "", nil)
	assert.Error(t, err)
}

func TestResolveBalancesFromFlags(t *testing.T) {
	cfg := config.DeriveConfig{Balance0: "10", Balance1: "20"}
	got, connected, err := resolveBalances(context.Background(), cfg, nil, poolInput{swapped: true})
	require.NoError(t, err)
	assert.True(t, connected)
	assert.Equal(t, big.NewInt(20), got[0])
	assert.Equal(t, big.NewInt(10), got[1])

	_, connected, err = resolveBalances(context.Background(), config.DeriveConfig{}, nil, poolInput{})
	require.NoError(t, err)
	assert.False(t, connected)

	_, _, err = resolveBalances(context.Background(), config.DeriveConfig{Account: weth.Address.Hex()}, nil, poolInput{})
	assert.Error(t, err)
}
