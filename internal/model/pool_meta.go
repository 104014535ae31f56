package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolMeta captures immutable pool metadata with optional live fields.
type PoolMeta struct {
	Address     common.Address `json:"address"`
	Token0      common.Address `json:"token0"`
	Token1      common.Address `json:"token1"`
	Fee         uint32         `json:"fee"`
	TickSpacing int32          `json:"tick_spacing"`
	Liquidity   *big.Int       `json:"liquidity,omitempty"`
	Slot0       *PoolSlot0     `json:"slot0,omitempty"`
}

// PoolSlot0 includes select slot0 fields.
type PoolSlot0 struct {
	SqrtPriceX96 *big.Int `json:"sqrt_price_x96"`
	Tick         int32    `json:"tick"`
}
