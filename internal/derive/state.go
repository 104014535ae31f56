package derive

import (
	"math/big"

	"github.com/shopspring/decimal"

	"rangeScope/internal/fixedpoint"
)

// boundDigits is the number of significant digits shown for a bound that
// was produced by a drag or an inversion rather than typed.
const boundDigits = 8

// BoundInput is one user supplied price. Value keeps the exact number so
// that inverting twice lands on the same tick.
type BoundInput struct {
	Text  string
	Full  bool
	value *big.Rat
}

// TypedBound parses text typed by the user.
func TypedBound(text string) BoundInput {
	return BoundInput{Text: text, value: fixedpoint.ParseHuman(text)}
}

// ExactBound wraps an exact price.
func ExactBound(value *big.Rat) BoundInput {
	if value == nil || value.Sign() <= 0 {
		return BoundInput{}
	}
	return BoundInput{Text: FormatHuman(value), value: new(big.Rat).Set(value)}
}

// FullBound marks the edge as open to the tick space limit.
func FullBound() BoundInput {
	return BoundInput{Full: true}
}

// Value returns a copy of the parsed number, or nil.
func (b BoundInput) Value() *big.Rat {
	if b.value == nil {
		return nil
	}
	return new(big.Rat).Set(b.value)
}

// IsEmpty reports whether nothing was typed.
func (b BoundInput) IsEmpty() bool {
	return !b.Full && b.Text == "" && b.value == nil
}

func (b BoundInput) inverted() BoundInput {
	switch {
	case b.Full:
		return FullBound()
	case b.value != nil:
		return ExactBound(new(big.Rat).Inv(b.value))
	default:
		return b
	}
}

// FormatHuman renders an exact price for an input field.
func FormatHuman(value *big.Rat) string {
	d := decimal.NewFromBigInt(value.Num(), 0).DivRound(decimal.NewFromBigInt(value.Denom(), 0), 40)
	return fixedpoint.FormatSignificant(d, boundDigits)
}

// RangeState is everything the user has entered for one pool selection.
type RangeState struct {
	IndependentField Field
	TypedAmount      string
	Bounds           [2]BoundInput
	StartPrice       BoundInput
	Inverted         bool
	FullRange        bool
}

// TypeAmount makes field the independent amount.
func (s *RangeState) TypeAmount(field Field, value string) {
	s.IndependentField = field
	s.TypedAmount = value
}

// TypeBound records a typed price for side and leaves full range.
func (s *RangeState) TypeBound(side Side, value string) {
	s.Bounds[side] = TypedBound(value)
	s.FullRange = false
}

// CommitBound records an exact price for side.
func (s *RangeState) CommitBound(side Side, value *big.Rat) {
	s.Bounds[side] = ExactBound(value)
	s.FullRange = false
}

// CommitFullBound opens side to the tick space limit.
func (s *RangeState) CommitFullBound(side Side) {
	s.Bounds[side] = FullBound()
	s.FullRange = s.Bounds[SideLeft].Full && s.Bounds[SideRight].Full
}

// TypeStartPrice records the seed price of a pool that does not exist yet.
func (s *RangeState) TypeStartPrice(value string) {
	s.StartPrice = TypedBound(value)
}

// SetFullRange opens both edges.
func (s *RangeState) SetFullRange() {
	s.Bounds = [2]BoundInput{FullBound(), FullBound()}
	s.FullRange = true
}

// Invert flips the displayed orientation. Bounds swap sides and take the
// reciprocal so that the resolved ticks do not move.
func (s *RangeState) Invert() {
	s.Inverted = !s.Inverted
	s.Bounds = [2]BoundInput{s.Bounds[SideRight].inverted(), s.Bounds[SideLeft].inverted()}
	s.StartPrice = s.StartPrice.inverted()
}

// ResetRange clears both bounds.
func (s *RangeState) ResetRange() {
	s.Bounds = [2]BoundInput{}
	s.FullRange = false
}
