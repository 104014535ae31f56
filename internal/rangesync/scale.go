package rangesync

import (
	"math"
	"math/big"
)

// LinearScale maps an exact price domain onto a pixel range.
type LinearScale struct {
	Domain [2]*big.Rat
	Range  [2]float64
}

// Scale returns the pixel position of v.
func (s LinearScale) Scale(v *big.Rat) float64 {
	span := new(big.Rat).Sub(s.Domain[1], s.Domain[0])
	if span.Sign() == 0 {
		return s.Range[0]
	}
	t := new(big.Rat).Sub(v, s.Domain[0])
	t.Quo(t, span)
	f, _ := t.Float64()
	return s.Range[0] + f*(s.Range[1]-s.Range[0])
}

// Invert returns the exact domain value at pixel px, or nil when px is not
// a finite number.
func (s LinearScale) Invert(px float64) *big.Rat {
	pos := ratFromFloat(px)
	r0, r1 := ratFromFloat(s.Range[0]), ratFromFloat(s.Range[1])
	if pos == nil || r0 == nil || r1 == nil {
		return nil
	}
	width := new(big.Rat).Sub(r1, r0)
	if width.Sign() == 0 {
		return new(big.Rat).Set(s.Domain[0])
	}
	t := new(big.Rat).Sub(pos, r0)
	t.Quo(t, width)
	span := new(big.Rat).Sub(s.Domain[1], s.Domain[0])
	t.Mul(t, span)
	return t.Add(t, s.Domain[0])
}

// DomainFloat returns the domain for axis rendering.
func (s LinearScale) DomainFloat() [2]float64 {
	lo, _ := s.Domain[0].Float64()
	hi, _ := s.Domain[1].Float64()
	return [2]float64{lo, hi}
}

// ZoomTransform is a scale factor K followed by a pixel translation X.
type ZoomTransform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
}

// IdentityZoom leaves the base scale unchanged.
var IdentityZoom = ZoomTransform{K: 1}

// invertX maps a viewport pixel back to a base scale pixel.
func (z ZoomTransform) invertX(px float64) float64 {
	return (px - z.X) / z.K
}

// Rescale returns base as seen through the transform.
func (z ZoomTransform) Rescale(base LinearScale) LinearScale {
	lo := base.Invert(z.invertX(base.Range[0]))
	hi := base.Invert(z.invertX(base.Range[1]))
	if lo == nil || hi == nil {
		return base
	}
	return LinearScale{Domain: [2]*big.Rat{lo, hi}, Range: base.Range}
}

// ScaleBy multiplies K by factor around pixel p, keeping K inside extent.
func (z ZoomTransform) ScaleBy(factor, p float64, extent [2]float64) ZoomTransform {
	k := clamp(z.K*factor, extent[0], extent[1])
	return ZoomTransform{K: k, X: p - (p-z.X)*k/z.K}
}

func (z ZoomTransform) valid() bool {
	return z.K > 0 && !math.IsInf(z.K, 0) && !math.IsNaN(z.K) && !math.IsInf(z.X, 0) && !math.IsNaN(z.X)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func ratFromFloat(f float64) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return new(big.Rat).SetFloat64(f)
}
