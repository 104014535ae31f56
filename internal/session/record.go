package session

import (
	"time"

	"rangeScope/internal/derive"
	"rangeScope/internal/model"
)

const recordDigits = 10

// Record flattens the snapshot into its storage form.
func (s Snapshot) Record(now time.Time) model.RangeSnapshot {
	out := s.Output
	rec := model.RangeSnapshot{
		Seq:              s.Seq,
		Inverted:         out.Inverted,
		FullRange:        out.FullRange,
		TickLower:        copyTick(out.Ticks[derive.BoundLower]),
		TickUpper:        copyTick(out.Ticks[derive.BoundUpper]),
		OutOfRange:       out.OutOfRange,
		InvalidRange:     out.InvalidRange,
		InvalidPrice:     out.InvalidPrice,
		Deposit0Disabled: out.DepositDisabled[derive.FieldZero],
		Deposit1Disabled: out.DepositDisabled[derive.FieldOne],
		Error:            out.ErrorMessage,
		RecordedAt:       now.UTC().Format(time.RFC3339Nano),
	}
	if s.Key != nil {
		rec.PoolKey = s.Key.String()
	}
	if p := out.DisplayPrice(); p != nil {
		rec.CurrentPrice = p.ToSignificant(recordDigits)
	}
	if p := out.SidePrice(derive.SideLeft); p != nil {
		rec.PriceLower = p.ToSignificant(recordDigits)
	}
	if p := out.SidePrice(derive.SideRight); p != nil {
		rec.PriceUpper = p.ToSignificant(recordDigits)
	}
	if v := out.ParsedAmounts[derive.FieldZero]; v != nil {
		rec.Amount0 = model.FormatAmount(v, out.Token0.Decimals)
	}
	if v := out.ParsedAmounts[derive.FieldOne]; v != nil {
		rec.Amount1 = model.FormatAmount(v, out.Token1.Decimals)
	}
	if out.Position != nil {
		rec.Liquidity = out.Position.Liquidity.String()
	}
	return rec
}

func copyTick(t *int32) *int32 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
