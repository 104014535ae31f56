// Package position models a liquidity position over a tick range of a pool.
package position

import (
	"math/big"

	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/pool"
)

// Position is liquidity provided between two usable ticks of a pool.
type Position struct {
	Pool      *pool.Pool
	TickLower int32
	TickUpper int32
	Liquidity *big.Int
}

// New builds a position. An unusable range yields zero liquidity.
func New(p *pool.Pool, tickLower, tickUpper int32, liquidity *big.Int) Position {
	out := Position{Pool: p, TickLower: tickLower, TickUpper: tickUpper, Liquidity: new(big.Int)}
	if liquidity != nil && validRange(p, tickLower, tickUpper) {
		out.Liquidity.Set(liquidity)
	}
	return out
}

func validRange(p *pool.Pool, tickLower, tickUpper int32) bool {
	if p == nil || tickLower >= tickUpper {
		return false
	}
	if tickLower < fixedpoint.MinTick || tickUpper > fixedpoint.MaxTick {
		return false
	}
	spacing := p.TickSpacing()
	return tickLower%spacing == 0 && tickUpper%spacing == 0
}

// FromAmounts returns the largest position both amounts can fund.
func FromAmounts(p *pool.Pool, tickLower, tickUpper int32, amount0, amount1 *big.Int) Position {
	if !validRange(p, tickLower, tickUpper) || amount0 == nil || amount1 == nil {
		return New(p, tickLower, tickUpper, nil)
	}
	liquidity := LiquidityForAmounts(
		p.SqrtPriceX96(),
		fixedpoint.MustSqrtRatioAtTick(tickLower),
		fixedpoint.MustSqrtRatioAtTick(tickUpper),
		amount0,
		amount1,
	)
	return New(p, tickLower, tickUpper, liquidity)
}

// FromAmount0 returns the position funded by amount0 with token1 unbounded.
func FromAmount0(p *pool.Pool, tickLower, tickUpper int32, amount0 *big.Int) Position {
	return FromAmounts(p, tickLower, tickUpper, amount0, MaxUint256)
}

// FromAmount1 returns the position funded by amount1 with token0 unbounded.
func FromAmount1(p *pool.Pool, tickLower, tickUpper int32, amount1 *big.Int) Position {
	return FromAmounts(p, tickLower, tickUpper, MaxUint256, amount1)
}

// Amount0 is the token0 value of the position, rounded down.
func (pos Position) Amount0() *big.Int {
	return pos.amount0(false)
}

// Amount1 is the token1 value of the position, rounded down.
func (pos Position) Amount1() *big.Int {
	return pos.amount1(false)
}

// MintAmounts returns the token amounts required to mint the position,
// rounded up.
func (pos Position) MintAmounts() (*big.Int, *big.Int) {
	return pos.amount0(true), pos.amount1(true)
}

func (pos Position) amount0(roundUp bool) *big.Int {
	if pos.Liquidity == nil || pos.Liquidity.Sign() == 0 {
		return new(big.Int)
	}
	tick := pos.Pool.TickCurrent()
	switch {
	case tick < pos.TickLower:
		return Amount0Delta(fixedpoint.MustSqrtRatioAtTick(pos.TickLower), fixedpoint.MustSqrtRatioAtTick(pos.TickUpper), pos.Liquidity, roundUp)
	case tick < pos.TickUpper:
		return Amount0Delta(pos.Pool.SqrtPriceX96(), fixedpoint.MustSqrtRatioAtTick(pos.TickUpper), pos.Liquidity, roundUp)
	default:
		return new(big.Int)
	}
}

func (pos Position) amount1(roundUp bool) *big.Int {
	if pos.Liquidity == nil || pos.Liquidity.Sign() == 0 {
		return new(big.Int)
	}
	tick := pos.Pool.TickCurrent()
	switch {
	case tick < pos.TickLower:
		return new(big.Int)
	case tick < pos.TickUpper:
		return Amount1Delta(fixedpoint.MustSqrtRatioAtTick(pos.TickLower), pos.Pool.SqrtPriceX96(), pos.Liquidity, roundUp)
	default:
		return Amount1Delta(fixedpoint.MustSqrtRatioAtTick(pos.TickLower), fixedpoint.MustSqrtRatioAtTick(pos.TickUpper), pos.Liquidity, roundUp)
	}
}
