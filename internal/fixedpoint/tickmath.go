// Package fixedpoint implements the Q64.96 tick and price arithmetic shared
// by pools, positions and range derivation.
package fixedpoint

import (
	"errors"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

const (
	// MinTick is the lowest tick a sqrt ratio can be computed for.
	MinTick int32 = -887272
	// MaxTick is the highest tick a sqrt ratio can be computed for.
	MaxTick int32 = 887272
)

var (
	// MinSqrtRatio is the sqrt ratio at MinTick.
	MinSqrtRatio, _ = new(big.Int).SetString("4295128739", 10)
	// MaxSqrtRatio is the sqrt ratio at MaxTick.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	// Q96 is 2^96, the fixed point one of a sqrt price.
	Q96 = new(big.Int).Lsh(big.NewInt(1), 96)
	// Q192 is 2^192, the fixed point one of a squared sqrt price.
	Q192 = new(big.Int).Lsh(big.NewInt(1), 192)

	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")

	one        = uint256.NewInt(1)
	maxUint256 = uint256.MustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	// sqrt(1.0001^-2^i) in Q128.128 for bit i of |tick|, then the rounding mask.
	ratioConstants = [22]*uint256.Int{
		uint256.MustFromBig(fromHex("0xfffcb933bd6fad37aa2d162d1a594001")),
		uint256.MustFromBig(fromHex("0x100000000000000000000000000000000")),
		uint256.MustFromBig(fromHex("0xfff97272373d413259a46990580e213a")),
		uint256.MustFromBig(fromHex("0xfff2e50f5f656932ef12357cf3c7fdcc")),
		uint256.MustFromBig(fromHex("0xffe5caca7e10e4e61c3624eaa0941cd0")),
		uint256.MustFromBig(fromHex("0xffcb9843d60f6159c9db58835c926644")),
		uint256.MustFromBig(fromHex("0xff973b41fa98c081472e6896dfb254c0")),
		uint256.MustFromBig(fromHex("0xff2ea16466c96a3843ec78b326b52861")),
		uint256.MustFromBig(fromHex("0xfe5dee046a99a2a811c461f1969c3053")),
		uint256.MustFromBig(fromHex("0xfcbe86c7900a88aedcffc83b479aa3a4")),
		uint256.MustFromBig(fromHex("0xf987a7253ac413176f2b074cf7815e54")),
		uint256.MustFromBig(fromHex("0xf3392b0822b70005940c7a398e4b70f3")),
		uint256.MustFromBig(fromHex("0xe7159475a2c29b7443b29c7fa6e889d9")),
		uint256.MustFromBig(fromHex("0xd097f3bdfd2022b8845ad8f792aa5825")),
		uint256.MustFromBig(fromHex("0xa9f746462d870fdf8a65dc1f90e061e5")),
		uint256.MustFromBig(fromHex("0x70d869a156d2a1b890bb3df62baf32f7")),
		uint256.MustFromBig(fromHex("0x31be135f97d08fd981231505542fcfa6")),
		uint256.MustFromBig(fromHex("0x9aa508b5b7a84e1c677de54f3e99bc9")),
		uint256.MustFromBig(fromHex("0x5d6af8dedb81196699c329225ee604")),
		uint256.MustFromBig(fromHex("0x2216e584f5fa1ea926041bedfe98")),
		uint256.MustFromBig(fromHex("0x48a170391f7dc42444e8fa2")),
		uint256.MustFromBig(fromHex("0xffffffff")),
	}
)

type tickScratch struct {
	ratio *uint256.Int
	rem   *uint256.Int
}

var scratchPool = sync.Pool{
	New: func() any {
		return &tickScratch{ratio: new(uint256.Int), rem: new(uint256.Int)}
	},
}

// SqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96, rounded up.
func SqrtRatioAtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfBounds
	}

	s := scratchPool.Get().(*tickScratch)
	defer scratchPool.Put(s)

	absTick := int64(tick)
	if absTick < 0 {
		absTick = -absTick
	}

	if absTick&0x1 != 0 {
		s.ratio.Set(ratioConstants[0])
	} else {
		s.ratio.Set(ratioConstants[1])
	}
	for i := 2; i < 21; i++ {
		if absTick&(1<<(i-1)) != 0 {
			s.ratio.Mul(s.ratio, ratioConstants[i]).Rsh(s.ratio, 128)
		}
	}
	if tick > 0 {
		s.ratio.Div(maxUint256, s.ratio)
	}

	s.rem.And(s.ratio, ratioConstants[21])
	s.ratio.Rsh(s.ratio, 32)
	if !s.rem.IsZero() {
		s.ratio.Add(s.ratio, one)
	}
	return s.ratio.ToBig(), nil
}

// MustSqrtRatioAtTick is SqrtRatioAtTick for ticks already known to be in bounds.
func MustSqrtRatioAtTick(tick int32) *big.Int {
	r, err := SqrtRatioAtTick(tick)
	if err != nil {
		panic(err)
	}
	return r
}

// TickAtSqrtRatio returns the greatest tick whose sqrt ratio is <= sqrtPriceX96.
func TickAtSqrtRatio(sqrtPriceX96 *big.Int) (int32, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	low, high := MinTick, MaxTick
	var tick int32
	for low <= high {
		mid := int32((int64(low) + int64(high)) / 2)
		ratio, err := SqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if ratio.Cmp(sqrtPriceX96) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}

// EncodeSqrtRatioX96 returns floor(sqrt(amount1 / amount0) * 2^96).
// amount0 must be positive.
func EncodeSqrtRatioX96(amount1, amount0 *big.Int) *big.Int {
	ratioX192 := new(big.Int).Lsh(amount1, 192)
	ratioX192.Quo(ratioX192, amount0)
	return ratioX192.Sqrt(ratioX192)
}

func fromHex(s string) *big.Int {
	n, _ := new(big.Int).SetString(s[2:], 16)
	return n
}
