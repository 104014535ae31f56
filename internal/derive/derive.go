// Package derive turns typed range input and a pool snapshot into resolved
// ticks, prices, amounts and validation flags.
package derive

import (
	"fmt"
	"math/big"

	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/model"
	"rangeScope/internal/pool"
	"rangeScope/internal/position"
)

const (
	MsgConnectWallet = "Connect wallet"
	MsgInvalidPair   = "Invalid pair"
	MsgInvalidPrice  = "Invalid price input"
	MsgEnterAmount   = "Enter an amount"
)

// Input is one consistent snapshot of everything the derivation reads.
type Input struct {
	Key       *pool.PoolKey
	Token0    model.Token
	Token1    model.Token
	PoolState pool.State
	Pool      *pool.Pool
	State     RangeState
	Connected bool
	// Balances are raw wallet balances indexed by Field. Nil means unknown.
	Balances [2]*big.Int
}

// ErrorFlags tracks every validation condition, including those masked
// by a higher priority one.
type ErrorFlags struct {
	NotConnected         bool `json:"not_connected"`
	InvalidPool          bool `json:"invalid_pool"`
	InvalidPrice         bool `json:"invalid_price"`
	MissingAmount        bool `json:"missing_amount"`
	InsufficientBalance0 bool `json:"insufficient_balance0"`
	InsufficientBalance1 bool `json:"insufficient_balance1"`
}

// Output is the read-only result of Derive.
type Output struct {
	Token0      model.Token
	Token1      model.Token
	Fee         uint32
	TickSpacing int32
	PoolState   pool.State
	Inverted    bool
	FullRange   bool

	IndependentField Field
	DependentField   Field

	// Price is token0 in token1.
	Price           *fixedpoint.Price
	InvalidPrice    bool
	PoolForPosition *pool.Pool

	TickSpaceLimits [2]int32
	Ticks           [2]*int32
	PricesAtTicks   [2]*fixedpoint.Price
	TicksAtLimit    [2]bool
	InvalidRange    bool
	OutOfRange      bool

	ParsedAmounts   [2]*big.Int
	DependentAmount *big.Int
	DepositDisabled [2]bool
	Position        *position.Position

	Errors       ErrorFlags
	ErrorMessage string
}

// Derive recomputes every derived field from in. It never mutates in and
// returns equal outputs for equal inputs.
func Derive(in Input) Output {
	token0, token1 := in.Token0, in.Token1
	if !token0.SortsBefore(token1) {
		token0, token1 = token1, token0
	}
	st := in.State

	out := Output{
		Token0:           token0,
		Token1:           token1,
		PoolState:        in.PoolState,
		Inverted:         st.Inverted,
		FullRange:        st.FullRange,
		IndependentField: st.IndependentField,
		DependentField:   st.IndependentField.Dependent(),
	}
	if in.Key == nil {
		out.PoolState = pool.StateInvalid
	} else {
		out.Fee = in.Key.Fee
		out.TickSpacing = in.Key.TickSpacing
	}

	out.resolvePrice(in)

	if out.TickSpacing > 0 {
		lower, upper := fixedpoint.TickSpaceLimits(out.TickSpacing)
		out.TickSpaceLimits = [2]int32{lower, upper}
		out.resolveTicks(st)
	}

	out.resolveRange()
	out.resolveAmounts(in)
	out.resolveErrors(in)
	return out
}

func (o *Output) resolvePrice(in Input) {
	switch o.PoolState {
	case pool.StateExists:
		if in.Pool == nil {
			return
		}
		price := in.Pool.Token0Price()
		o.Price = &price
	case pool.StateNotExists:
		human := in.State.StartPrice.Value()
		if human == nil {
			return
		}
		base, quote := o.displayPair()
		price := fixedpoint.NewPriceFromHuman(base, quote, human)
		if o.Inverted {
			price = price.Invert()
		}
		o.Price = &price
	default:
		return
	}

	sqrtPriceX96, err := fixedpoint.SortedSqrtPriceX96(*o.Price)
	if err != nil || sqrtPriceX96.Cmp(fixedpoint.MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(fixedpoint.MaxSqrtRatio) >= 0 {
		o.InvalidPrice = true
		return
	}

	if o.PoolState == pool.StateExists {
		o.PoolForPosition = in.Pool
		return
	}
	if o.TickSpacing <= 0 {
		return
	}
	tick, err := fixedpoint.PriceToClosestTick(*o.Price)
	if err != nil {
		o.InvalidPrice = true
		return
	}
	mock, err := pool.NewAtTick(o.Token0, o.Token1, o.Fee, o.TickSpacing, tick)
	if err == nil {
		o.PoolForPosition = mock
	}
}

func (o *Output) resolveTicks(st RangeState) {
	base, quote := o.displayPair()
	for _, bound := range []Bound{BoundLower, BoundUpper} {
		input := st.Bounds[SideFor(bound, o.Inverted)]
		if st.FullRange || input.Full {
			tick := o.TickSpaceLimits[bound]
			o.Ticks[bound] = &tick
			continue
		}
		tick, ok := fixedpoint.TickFromHuman(base, quote, o.TickSpacing, input.Value())
		if ok {
			o.Ticks[bound] = &tick
		}
	}
}

func (o *Output) resolveRange() {
	for _, bound := range []Bound{BoundLower, BoundUpper} {
		tick := o.Ticks[bound]
		if tick == nil {
			continue
		}
		o.TicksAtLimit[bound] = *tick == o.TickSpaceLimits[bound]
		if price, err := fixedpoint.TickToPrice(o.Token0, o.Token1, *tick); err == nil {
			o.PricesAtTicks[bound] = &price
		}
	}

	lower, upper := o.Ticks[BoundLower], o.Ticks[BoundUpper]
	o.InvalidRange = lower != nil && upper != nil && *lower >= *upper

	priceLower, priceUpper := o.PricesAtTicks[BoundLower], o.PricesAtTicks[BoundUpper]
	o.OutOfRange = !o.InvalidRange && o.Price != nil && priceLower != nil && priceUpper != nil &&
		(o.Price.Cmp(*priceLower) < 0 || o.Price.Cmp(*priceUpper) > 0)
}

func (o *Output) resolveAmounts(in Input) {
	independent := o.IndependentField
	dependent := o.DependentField
	o.ParsedAmounts[independent] = model.ParseAmount(in.State.TypedAmount, o.token(independent).Decimals)

	lower, upper := o.Ticks[BoundLower], o.Ticks[BoundUpper]
	amount := o.ParsedAmounts[independent]
	if amount != nil && lower != nil && upper != nil && o.PoolForPosition != nil && !o.OutOfRange && !o.InvalidRange {
		if independent == FieldZero {
			o.DependentAmount = position.FromAmount0(o.PoolForPosition, *lower, *upper, amount).Amount1()
		} else {
			o.DependentAmount = position.FromAmount1(o.PoolForPosition, *lower, *upper, amount).Amount0()
		}
	}
	o.ParsedAmounts[dependent] = o.DependentAmount

	if o.PoolForPosition != nil {
		tick := o.PoolForPosition.TickCurrent()
		o.DepositDisabled[FieldZero] = upper != nil && tick >= *upper
		o.DepositDisabled[FieldOne] = lower != nil && tick <= *lower
	}
	if o.InvalidRange {
		o.DepositDisabled = [2]bool{true, true}
	}

	if o.PoolForPosition == nil || lower == nil || upper == nil || o.InvalidRange {
		return
	}
	var amounts [2]*big.Int
	for _, f := range []Field{FieldZero, FieldOne} {
		if o.DepositDisabled[f] {
			amounts[f] = new(big.Int)
		} else {
			amounts[f] = o.ParsedAmounts[f]
		}
	}
	if amounts[FieldZero] != nil && amounts[FieldOne] != nil {
		pos := position.FromAmounts(o.PoolForPosition, *lower, *upper, amounts[FieldZero], amounts[FieldOne])
		o.Position = &pos
	}
}

func (o *Output) resolveErrors(in Input) {
	flags := ErrorFlags{
		NotConnected: !in.Connected,
		InvalidPool:  o.PoolState == pool.StateInvalid,
		InvalidPrice: o.InvalidPrice,
	}
	for _, f := range []Field{FieldZero, FieldOne} {
		if o.ParsedAmounts[f] == nil && !o.DepositDisabled[f] {
			flags.MissingAmount = true
		}
	}
	insufficient := func(f Field) bool {
		balance, amount := in.Balances[f], o.ParsedAmounts[f]
		return balance != nil && amount != nil && !o.DepositDisabled[f] && balance.Cmp(amount) < 0
	}
	flags.InsufficientBalance0 = insufficient(FieldZero)
	flags.InsufficientBalance1 = insufficient(FieldOne)
	o.Errors = flags

	switch {
	case flags.NotConnected:
		o.ErrorMessage = MsgConnectWallet
	case flags.InvalidPool:
		o.ErrorMessage = MsgInvalidPair
	case flags.InvalidPrice:
		o.ErrorMessage = MsgInvalidPrice
	case flags.MissingAmount:
		o.ErrorMessage = MsgEnterAmount
	case flags.InsufficientBalance0:
		o.ErrorMessage = insufficientMessage(o.Token0)
	case flags.InsufficientBalance1:
		o.ErrorMessage = insufficientMessage(o.Token1)
	}
}

func insufficientMessage(token model.Token) string {
	return fmt.Sprintf("Insufficient %s balance", token.DisplaySymbol())
}

func (o *Output) token(f Field) model.Token {
	if f == FieldZero {
		return o.Token0
	}
	return o.Token1
}

// displayPair returns base and quote in the displayed orientation.
func (o *Output) displayPair() (model.Token, model.Token) {
	if o.Inverted {
		return o.Token1, o.Token0
	}
	return o.Token0, o.Token1
}
