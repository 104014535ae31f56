package fixedpoint

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"rangeScope/internal/model"
)

// ParseHuman parses a typed decimal number. It returns nil for empty,
// malformed or non-positive input.
func ParseHuman(value string) *big.Rat {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.Sign() <= 0 {
		return nil
	}
	return d.Rat()
}

// ParsePrice parses a typed whole-token price of base in quote.
func ParsePrice(base, quote model.Token, value string) (Price, bool) {
	human := ParseHuman(value)
	if human == nil {
		return Price{}, false
	}
	return NewPriceFromHuman(base, quote, human), true
}

// ParseTick parses a typed price and snaps it to a usable tick.
func ParseTick(base, quote model.Token, tickSpacing int32, value string) (int32, bool) {
	human := ParseHuman(value)
	if human == nil {
		return 0, false
	}
	return TickFromHuman(base, quote, tickSpacing, human)
}

// TickFromHuman snaps a whole-token price of base in quote to a usable tick.
// Prices beyond the sqrt ratio bounds resolve to the matching tick limit.
func TickFromHuman(base, quote model.Token, tickSpacing int32, human *big.Rat) (int32, bool) {
	if human == nil || human.Sign() <= 0 || tickSpacing <= 0 {
		return 0, false
	}
	price := NewPriceFromHuman(base, quote, human)
	sqrtRatioX96, err := SortedSqrtPriceX96(price)
	if err != nil {
		return 0, false
	}

	var tick int32
	switch {
	case sqrtRatioX96.Cmp(MaxSqrtRatio) >= 0:
		tick = MaxTick
	case sqrtRatioX96.Cmp(MinSqrtRatio) <= 0:
		tick = MinTick
	default:
		tick, err = PriceToClosestTick(price)
		if err != nil {
			return 0, false
		}
	}
	return NearestUsableTick(tick, tickSpacing), true
}
