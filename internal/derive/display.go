package derive

import (
	"math/big"

	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/model"
)

// DisplayPair returns base and quote in the displayed orientation.
func (o Output) DisplayPair() (model.Token, model.Token) {
	return o.displayPair()
}

// DisplayPrice returns the current price in the displayed orientation.
func (o Output) DisplayPrice() *fixedpoint.Price {
	if o.Price == nil {
		return nil
	}
	if o.Inverted {
		inv := o.Price.Invert()
		return &inv
	}
	p := *o.Price
	return &p
}

// SideTick returns the resolved tick shown on side.
func (o Output) SideTick(side Side) *int32 {
	return o.Ticks[BoundFor(side, o.Inverted)]
}

// SideAtLimit reports whether side is open to the tick space limit.
func (o Output) SideAtLimit(side Side) bool {
	return o.TicksAtLimit[BoundFor(side, o.Inverted)]
}

// SidePrice returns the price at the tick shown on side, in the displayed
// orientation.
func (o Output) SidePrice(side Side) *fixedpoint.Price {
	p := o.PricesAtTicks[BoundFor(side, o.Inverted)]
	if p == nil {
		return nil
	}
	if o.Inverted {
		inv := p.Invert()
		return &inv
	}
	out := *p
	return &out
}

// SideHuman returns SidePrice in whole-token units, or nil.
func (o Output) SideHuman(side Side) *big.Rat {
	p := o.SidePrice(side)
	if p == nil {
		return nil
	}
	return p.Human()
}

// Amount returns the parsed or dependent amount for field.
func (o Output) Amount(f Field) *big.Int {
	if o.ParsedAmounts[f] == nil {
		return nil
	}
	return new(big.Int).Set(o.ParsedAmounts[f])
}
