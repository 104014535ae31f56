package fixedpoint

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"rangeScope/internal/model"
)

// displayPrecision bounds the fractional digits used when a price is
// converted to a decimal for display.
const displayPrecision = 40

var ErrZeroPrice = errors.New("price must be positive")

// Price is an exact rational amount of quote raw units per base raw unit.
type Price struct {
	Base  model.Token
	Quote model.Token
	raw   *big.Rat
}

// NewPrice builds numerator/denominator as a price of base in quote.
func NewPrice(base, quote model.Token, denominator, numerator *big.Int) Price {
	return Price{Base: base, Quote: quote, raw: new(big.Rat).SetFrac(numerator, denominator)}
}

// NewPriceFromHuman converts a whole-token price into raw units.
func NewPriceFromHuman(base, quote model.Token, human *big.Rat) Price {
	raw := new(big.Rat).Mul(human, new(big.Rat).SetInt(pow10(quote.Decimals)))
	raw.Quo(raw, new(big.Rat).SetInt(pow10(base.Decimals)))
	return Price{Base: base, Quote: quote, raw: raw}
}

// IsZero reports whether the price is unset or zero.
func (p Price) IsZero() bool {
	return p.raw == nil || p.raw.Sign() == 0
}

// Raw returns a copy of the raw unit ratio.
func (p Price) Raw() *big.Rat {
	if p.raw == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(p.raw)
}

// Numerator returns the reduced numerator of the raw ratio.
func (p Price) Numerator() *big.Int {
	return new(big.Int).Set(p.Raw().Num())
}

// Denominator returns the reduced denominator of the raw ratio.
func (p Price) Denominator() *big.Int {
	return new(big.Int).Set(p.Raw().Denom())
}

// Invert swaps base and quote.
func (p Price) Invert() Price {
	out := Price{Base: p.Quote, Quote: p.Base, raw: new(big.Rat)}
	if !p.IsZero() {
		out.raw.Inv(p.raw)
	}
	return out
}

// Cmp compares two prices of the same pair.
func (p Price) Cmp(other Price) int {
	return p.Raw().Cmp(other.Raw())
}

// Human returns the price in whole-token units.
func (p Price) Human() *big.Rat {
	out := new(big.Rat).Mul(p.Raw(), new(big.Rat).SetInt(pow10(p.Base.Decimals)))
	return out.Quo(out, new(big.Rat).SetInt(pow10(p.Quote.Decimals)))
}

// Decimal returns the whole-token price as a decimal.
func (p Price) Decimal() decimal.Decimal {
	h := p.Human()
	num := decimal.NewFromBigInt(h.Num(), 0)
	return num.DivRound(decimal.NewFromBigInt(h.Denom(), 0), displayPrecision)
}

// Float64 returns the nearest float64 of the whole-token price.
func (p Price) Float64() float64 {
	f, _ := p.Human().Float64()
	return f
}

// ToSignificant formats the whole-token price with at most digits
// significant digits, rounding half away from zero.
func (p Price) ToSignificant(digits int) string {
	return FormatSignificant(p.Decimal(), digits)
}

// ToFixed formats the whole-token price with exactly places fractional digits.
func (p Price) ToFixed(places int32) string {
	return p.Decimal().StringFixed(places)
}

// FormatSignificant rounds d to digits significant digits and trims
// trailing zeros.
func FormatSignificant(d decimal.Decimal, digits int) string {
	if d.IsZero() {
		return "0"
	}
	magnitude := int32(d.NumDigits()) + d.Exponent() - 1
	return d.Round(int32(digits) - 1 - magnitude).String()
}

// TickToPrice returns the price of base in quote at tick.
func TickToPrice(base, quote model.Token, tick int32) (Price, error) {
	sqrtRatioX96, err := SqrtRatioAtTick(tick)
	if err != nil {
		return Price{}, err
	}
	ratioX192 := new(big.Int).Mul(sqrtRatioX96, sqrtRatioX96)
	if base.SortsBefore(quote) {
		return NewPrice(base, quote, Q192, ratioX192), nil
	}
	return NewPrice(base, quote, ratioX192, Q192), nil
}

// SortedSqrtPriceX96 encodes the price in token0/token1 orientation.
func SortedSqrtPriceX96(p Price) (*big.Int, error) {
	if p.IsZero() {
		return nil, ErrZeroPrice
	}
	raw := p.Raw()
	if p.Base.SortsBefore(p.Quote) {
		return EncodeSqrtRatioX96(raw.Num(), raw.Denom()), nil
	}
	return EncodeSqrtRatioX96(raw.Denom(), raw.Num()), nil
}

// PriceToClosestTick returns the tick whose price is nearest below or at p.
func PriceToClosestTick(p Price) (int32, error) {
	sqrtRatioX96, err := SortedSqrtPriceX96(p)
	if err != nil {
		return 0, err
	}
	tick, err := TickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return 0, err
	}
	next, err := TickToPrice(p.Base, p.Quote, tick+1)
	if err != nil {
		return 0, err
	}
	if p.Base.SortsBefore(p.Quote) {
		if p.Cmp(next) >= 0 {
			tick++
		}
	} else if p.Cmp(next) <= 0 {
		tick++
	}
	return tick, nil
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
