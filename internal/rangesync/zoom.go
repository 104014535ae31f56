package rangesync

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ZoomLevels holds the default window around the current price and the
// allowed zoom factors for a fee tier.
type ZoomLevels struct {
	InitialMin decimal.Decimal
	InitialMax decimal.Decimal
	MinZoom    float64
	MaxZoom    float64
}

var (
	narrowZoom = ZoomLevels{
		InitialMin: decimal.RequireFromString("0.999"),
		InitialMax: decimal.RequireFromString("1.001"),
		MinZoom:    0.00001,
		MaxZoom:    1.5,
	}
	wideZoom = ZoomLevels{
		InitialMin: decimal.RequireFromString("0.5"),
		InitialMax: decimal.RequireFromString("2"),
		MinZoom:    0.00001,
		MaxZoom:    20,
	}

	zoomByFee = map[uint32]ZoomLevels{
		100:   narrowZoom,
		500:   narrowZoom,
		3000:  wideZoom,
		10000: wideZoom,
	}
)

const (
	zoomInFactor  = 2
	zoomOutFactor = 0.5
)

// ZoomLevelsForFee returns the zoom levels of a fee tier. Unknown tiers
// use the wide levels.
func ZoomLevelsForFee(fee uint32) ZoomLevels {
	if levels, ok := zoomByFee[fee]; ok {
		return levels
	}
	return wideZoom
}

// defaultBounds returns [price × InitialMin, price × InitialMax].
func (z ZoomLevels) defaultBounds(price *big.Rat) [2]*big.Rat {
	return [2]*big.Rat{
		new(big.Rat).Mul(price, z.InitialMin.Rat()),
		new(big.Rat).Mul(price, z.InitialMax.Rat()),
	}
}

func (z ZoomLevels) extent() [2]float64 {
	return [2]float64{z.MinZoom, z.MaxZoom}
}
