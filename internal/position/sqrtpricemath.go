package position

import (
	"math/big"

	"rangeScope/internal/fixedpoint"
)

var one = big.NewInt(1)

// MaxUint256 stands in for an unbounded amount.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), one)

func mulDiv(a, b, c *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, c)
}

func mulDivRoundingUp(a, b, c *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	out, rem := new(big.Int).QuoRem(product, c, new(big.Int))
	if rem.Sign() > 0 {
		out.Add(out, one)
	}
	return out
}

func divRoundingUp(a, b *big.Int) *big.Int {
	out, rem := new(big.Int).QuoRem(a, b, new(big.Int))
	if rem.Sign() > 0 {
		out.Add(out, one)
	}
	return out
}

func sortRatios(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// Amount0Delta returns the token0 held by liquidity between two sqrt prices.
func Amount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	if sqrtRatioAX96.Sign() <= 0 {
		return new(big.Int)
	}

	numerator1 := new(big.Int).Lsh(liquidity, 96)
	numerator2 := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return divRoundingUp(mulDivRoundingUp(numerator1, numerator2, sqrtRatioBX96), sqrtRatioAX96)
	}
	term := mulDiv(numerator1, numerator2, sqrtRatioBX96)
	return term.Quo(term, sqrtRatioAX96)
}

// Amount1Delta returns the token1 held by liquidity between two sqrt prices.
func Amount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, fixedpoint.Q96)
	}
	return mulDiv(liquidity, diff, fixedpoint.Q96)
}

// LiquidityForAmount0 returns the liquidity amount0 buys between two sqrt
// prices without intermediate rounding.
func LiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	numerator := new(big.Int).Mul(amount0, sqrtRatioAX96)
	numerator.Mul(numerator, sqrtRatioBX96)
	denominator := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if denominator.Sign() == 0 {
		return new(big.Int)
	}
	denominator.Mul(denominator, fixedpoint.Q96)
	return numerator.Quo(numerator, denominator)
}

// LiquidityForAmount1 returns the liquidity amount1 buys between two sqrt prices.
func LiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1 *big.Int) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if diff.Sign() == 0 {
		return new(big.Int)
	}
	return mulDiv(amount1, fixedpoint.Q96, diff)
}

// LiquidityForAmounts returns the largest liquidity both amounts can fund
// at the current sqrt price.
func LiquidityForAmounts(sqrtRatioCurrentX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *big.Int) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	switch {
	case sqrtRatioCurrentX96.Cmp(sqrtRatioAX96) <= 0:
		return LiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0)
	case sqrtRatioCurrentX96.Cmp(sqrtRatioBX96) < 0:
		liquidity0 := LiquidityForAmount0(sqrtRatioCurrentX96, sqrtRatioBX96, amount0)
		liquidity1 := LiquidityForAmount1(sqrtRatioAX96, sqrtRatioCurrentX96, amount1)
		if liquidity0.Cmp(liquidity1) < 0 {
			return liquidity0
		}
		return liquidity1
	default:
		return LiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1)
	}
}
