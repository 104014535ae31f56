// Package pool holds the immutable pool value object and its bounded cache.
package pool

import (
	"fmt"
	"math/big"

	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/model"
)

// Pool is an immutable snapshot of a concentrated liquidity pool.
type Pool struct {
	token0       model.Token
	token1       model.Token
	fee          uint32
	tickSpacing  int32
	sqrtPriceX96 *big.Int
	liquidity    *big.Int
	tickCurrent  int32
}

// New sorts the tokens and checks that sqrtPriceX96 lies within tickCurrent.
func New(tokenA, tokenB model.Token, fee uint32, tickSpacing int32, sqrtPriceX96, liquidity *big.Int, tickCurrent int32) (*Pool, error) {
	if tokenA.Address == tokenB.Address {
		return nil, ErrIdenticalTokens
	}
	if tokenA.ChainID != tokenB.ChainID {
		return nil, ErrChainMismatch
	}
	if tickSpacing <= 0 {
		return nil, ErrInvalidTickSpacing
	}
	if sqrtPriceX96 == nil || liquidity == nil {
		return nil, ErrMissingPoolQuantity
	}
	if tickCurrent < fixedpoint.MinTick || tickCurrent >= fixedpoint.MaxTick {
		return nil, ErrTickOutOfBounds
	}

	lower := fixedpoint.MustSqrtRatioAtTick(tickCurrent)
	upper := fixedpoint.MustSqrtRatioAtTick(tickCurrent + 1)
	if sqrtPriceX96.Cmp(lower) < 0 || sqrtPriceX96.Cmp(upper) > 0 {
		return nil, fmt.Errorf("%w: tick %d sqrt %s", ErrPriceBounds, tickCurrent, sqrtPriceX96)
	}

	if !tokenA.SortsBefore(tokenB) {
		tokenA, tokenB = tokenB, tokenA
	}
	return &Pool{
		token0:       tokenA,
		token1:       tokenB,
		fee:          fee,
		tickSpacing:  tickSpacing,
		sqrtPriceX96: new(big.Int).Set(sqrtPriceX96),
		liquidity:    new(big.Int).Set(liquidity),
		tickCurrent:  tickCurrent,
	}, nil
}

// NewAtTick builds a zero-liquidity pool priced exactly at tick.
func NewAtTick(tokenA, tokenB model.Token, fee uint32, tickSpacing int32, tick int32) (*Pool, error) {
	sqrtPriceX96, err := fixedpoint.SqrtRatioAtTick(tick)
	if err != nil {
		return nil, err
	}
	return New(tokenA, tokenB, fee, tickSpacing, sqrtPriceX96, new(big.Int), tick)
}

func (p *Pool) Token0() model.Token    { return p.token0 }
func (p *Pool) Token1() model.Token    { return p.token1 }
func (p *Pool) Fee() uint32            { return p.fee }
func (p *Pool) TickSpacing() int32     { return p.tickSpacing }
func (p *Pool) TickCurrent() int32     { return p.tickCurrent }
func (p *Pool) ChainID() uint64        { return p.token0.ChainID }
func (p *Pool) SqrtPriceX96() *big.Int { return new(big.Int).Set(p.sqrtPriceX96) }
func (p *Pool) Liquidity() *big.Int    { return new(big.Int).Set(p.liquidity) }

// Token0Price is the price of token0 in token1.
func (p *Pool) Token0Price() fixedpoint.Price {
	return fixedpoint.NewPrice(p.token0, p.token1, fixedpoint.Q192, new(big.Int).Mul(p.sqrtPriceX96, p.sqrtPriceX96))
}

// Token1Price is the price of token1 in token0.
func (p *Pool) Token1Price() fixedpoint.Price {
	return fixedpoint.NewPrice(p.token1, p.token0, new(big.Int).Mul(p.sqrtPriceX96, p.sqrtPriceX96), fixedpoint.Q192)
}

// InvolvesToken reports whether token is one of the pool's tokens.
func (p *Pool) InvolvesToken(token model.Token) bool {
	return token.Equals(p.token0) || token.Equals(p.token1)
}

// PriceOf returns the price of token in the other pool token.
func (p *Pool) PriceOf(token model.Token) (fixedpoint.Price, error) {
	switch {
	case token.Equals(p.token0):
		return p.Token0Price(), nil
	case token.Equals(p.token1):
		return p.Token1Price(), nil
	default:
		return fixedpoint.Price{}, fmt.Errorf("token %s not in pool", token.Address.Hex())
	}
}

// Equal compares every field of two pools.
func (p *Pool) Equal(other *Pool) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.matches(other.token0, other.token1, other.fee, other.tickSpacing, other.sqrtPriceX96, other.liquidity, other.tickCurrent)
}

func (p *Pool) matches(token0, token1 model.Token, fee uint32, tickSpacing int32, sqrtPriceX96, liquidity *big.Int, tickCurrent int32) bool {
	return p.token0.Equals(token0) &&
		p.token1.Equals(token1) &&
		p.fee == fee &&
		p.tickSpacing == tickSpacing &&
		p.tickCurrent == tickCurrent &&
		p.sqrtPriceX96.Cmp(sqrtPriceX96) == 0 &&
		p.liquidity.Cmp(liquidity) == 0
}
