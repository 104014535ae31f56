package model

// ScriptStep is one line of a replay script. Action selects which of the
// remaining fields are read.
type ScriptStep struct {
	Action string    `json:"action"`
	Field  string    `json:"field,omitempty"`
	Side   string    `json:"side,omitempty"`
	Value  string    `json:"value,omitempty"`
	Values []string  `json:"values,omitempty"`
	Extent []float64 `json:"extent,omitempty"`
	Mode   string    `json:"mode,omitempty"`

	// Pool updates.
	State        string `json:"state,omitempty"`
	SqrtPriceX96 string `json:"sqrt_price_x96,omitempty"`
	Liquidity    string `json:"liquidity,omitempty"`
	Tick         *int32 `json:"tick,omitempty"`
}

const (
	ActionPool       = "pool"
	ActionAmount     = "amount"
	ActionBound      = "bound"
	ActionStartPrice = "start_price"
	ActionFullRange  = "full_range"
	ActionInvert     = "invert"
	ActionResetRange = "reset_range"
	ActionConnect    = "connect"
	ActionBalances   = "balances"
	ActionGesture    = "gesture"
	ActionZoomIn     = "zoom_in"
	ActionZoomOut    = "zoom_out"
	ActionZoomReset  = "zoom_reset"
)
