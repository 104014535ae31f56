package model

// RangeSnapshot is the storage record of one derived range computation.
// Big values are kept as decimal strings.
type RangeSnapshot struct {
	Seq              uint64 `json:"seq"`
	PoolKey          string `json:"pool_key"`
	Inverted         bool   `json:"inverted"`
	FullRange        bool   `json:"full_range"`
	TickLower        *int32 `json:"tick_lower,omitempty"`
	TickUpper        *int32 `json:"tick_upper,omitempty"`
	PriceLower       string `json:"price_lower,omitempty"`
	PriceUpper       string `json:"price_upper,omitempty"`
	CurrentPrice     string `json:"current_price,omitempty"`
	Amount0          string `json:"amount0,omitempty"`
	Amount1          string `json:"amount1,omitempty"`
	Liquidity        string `json:"liquidity,omitempty"`
	OutOfRange       bool   `json:"out_of_range"`
	InvalidRange     bool   `json:"invalid_range"`
	InvalidPrice     bool   `json:"invalid_price"`
	Deposit0Disabled bool   `json:"deposit0_disabled"`
	Deposit1Disabled bool   `json:"deposit1_disabled"`
	Error            string `json:"error,omitempty"`
	RecordedAt       string `json:"recorded_at"`
}
