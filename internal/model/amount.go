package model

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a raw token amount in whole-token units.
func FormatAmount(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	if sign < 0 {
		return "-" + text
	}
	return text
}

// ParseAmount converts a typed whole-token amount into raw units.
// It returns nil for empty, zero, negative or malformed input and for
// input carrying more fractional digits than the token supports.
func ParseAmount(value string, decimals uint8) *big.Int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.Sign() <= 0 {
		return nil
	}
	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return nil
	}
	out := raw.BigInt()
	if out.Sign() == 0 {
		return nil
	}
	return out
}
