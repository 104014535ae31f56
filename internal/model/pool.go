package model

// PoolSnapshot is the storage record of a pool observed at a block.
type PoolSnapshot struct {
	ChainID      uint64 `json:"chain_id"`
	PoolKey      string `json:"pool_key"`
	Address      string `json:"address"`
	Token0       string `json:"token0"`
	Token1       string `json:"token1"`
	Fee          uint32 `json:"fee"`
	TickSpacing  int32  `json:"tick_spacing"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Liquidity    string `json:"liquidity"`
	Tick         int32  `json:"tick"`
	BlockNumber  uint64 `json:"block_number"`
	ObservedAt   string `json:"observed_at"`
}
