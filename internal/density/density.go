// Package density builds the liquidity density series drawn behind the
// range brush.
package density

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/model"
)

const priceDigits = 8

// Status is the tri-state of a density load.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusData
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusData:
		return "data"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Request identifies the pool whose ticks are loaded.
type Request struct {
	Pool        common.Address
	Token0      model.Token
	Token1      model.Token
	TickSpacing int32
	TickCurrent int32
	Liquidity   *big.Int
	// BlockNumber pins tick reads to the height the pool was observed at.
	// Zero reads the latest state.
	BlockNumber uint64
}

// TickNet is an initialized tick as stored by the pool.
type TickNet struct {
	Tick         int32
	LiquidityNet *big.Int
}

// TickLiquidity is one point of the density series. LiquidityActive is
// the liquidity in range from Tick up to the next point.
type TickLiquidity struct {
	Tick            int32    `json:"tick"`
	LiquidityNet    *big.Int `json:"liquidity_net"`
	LiquidityActive *big.Int `json:"liquidity_active"`
	Price0          string   `json:"price0"`
}

// Source returns the initialized ticks of a pool.
type Source interface {
	InitializedTicks(ctx context.Context, req Request) ([]TickNet, error)
}

// ActiveTick returns the tick space aligned tick at or below current.
func ActiveTick(current, spacing int32) int32 {
	compressed := current / spacing
	if current < 0 && current%spacing != 0 {
		compressed--
	}
	return compressed * spacing
}

// ComputeActiveLiquidity walks outward from the active tick and
// accumulates the liquidity of every segment. The pool liquidity is the
// liquidity of the active segment.
func ComputeActiveLiquidity(req Request, ticks []TickNet) []TickLiquidity {
	liquidity := req.Liquidity
	if liquidity == nil {
		liquidity = new(big.Int)
	}
	sorted := make([]TickNet, 0, len(ticks))
	for _, t := range ticks {
		if t.LiquidityNet == nil {
			continue
		}
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })

	activeTick := ActiveTick(req.TickCurrent, req.TickSpacing)
	above := sort.Search(len(sorted), func(i int) bool { return sorted[i].Tick > activeTick })

	active := TickLiquidity{
		Tick:            activeTick,
		LiquidityNet:    new(big.Int),
		LiquidityActive: new(big.Int).Set(liquidity),
	}
	below := above
	if above > 0 && sorted[above-1].Tick == activeTick {
		active.LiquidityNet.Set(sorted[above-1].LiquidityNet)
		below = above - 1
	}

	out := make([]TickLiquidity, below, len(sorted)+1)
	prev := active
	for i := below - 1; i >= 0; i-- {
		entry := TickLiquidity{
			Tick:            sorted[i].Tick,
			LiquidityNet:    new(big.Int).Set(sorted[i].LiquidityNet),
			LiquidityActive: new(big.Int).Sub(prev.LiquidityActive, prev.LiquidityNet),
		}
		out[i] = entry
		prev = entry
	}
	out = append(out, active)

	prev = active
	for _, t := range sorted[above:] {
		entry := TickLiquidity{
			Tick:            t.Tick,
			LiquidityNet:    new(big.Int).Set(t.LiquidityNet),
			LiquidityActive: new(big.Int).Add(prev.LiquidityActive, t.LiquidityNet),
		}
		out = append(out, entry)
		prev = entry
	}

	for i := range out {
		if price, err := fixedpoint.TickToPrice(req.Token0, req.Token1, out[i].Tick); err == nil {
			out[i].Price0 = price.ToSignificant(priceDigits)
		}
	}
	return out
}
