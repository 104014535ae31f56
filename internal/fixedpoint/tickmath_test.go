package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromString(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

func TestSqrtRatioAtTick(t *testing.T) {
	t.Run("rejects out of bounds ticks", func(t *testing.T) {
		_, err := SqrtRatioAtTick(MinTick - 1)
		assert.ErrorIs(t, err, ErrTickOutOfBounds)
		_, err = SqrtRatioAtTick(MaxTick + 1)
		assert.ErrorIs(t, err, ErrTickOutOfBounds)
	})

	t.Run("min tick", func(t *testing.T) {
		r, err := SqrtRatioAtTick(MinTick)
		require.NoError(t, err)
		assert.Zero(t, MinSqrtRatio.Cmp(r))
	})

	t.Run("max tick", func(t *testing.T) {
		r, err := SqrtRatioAtTick(MaxTick)
		require.NoError(t, err)
		assert.Zero(t, MaxSqrtRatio.Cmp(r))
	})

	t.Run("tick zero is one", func(t *testing.T) {
		r, err := SqrtRatioAtTick(0)
		require.NoError(t, err)
		assert.Zero(t, Q96.Cmp(r))
	})

	t.Run("symmetric ticks multiply to one", func(t *testing.T) {
		up := MustSqrtRatioAtTick(50)
		down := MustSqrtRatioAtTick(-50)
		product := new(big.Int).Mul(up, down)
		diff := new(big.Int).Sub(product, Q192)
		diff.Abs(diff)
		assert.True(t, diff.Cmp(new(big.Int).Lsh(big.NewInt(1), 100)) < 0)
	})
}

func TestTickAtSqrtRatio(t *testing.T) {
	t.Run("rejects out of bounds ratios", func(t *testing.T) {
		_, err := TickAtSqrtRatio(new(big.Int).Sub(MinSqrtRatio, big.NewInt(1)))
		assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
		_, err = TickAtSqrtRatio(MaxSqrtRatio)
		assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
	})

	t.Run("limits", func(t *testing.T) {
		tick, err := TickAtSqrtRatio(MinSqrtRatio)
		require.NoError(t, err)
		assert.Equal(t, MinTick, tick)

		tick, err = TickAtSqrtRatio(new(big.Int).Sub(MaxSqrtRatio, big.NewInt(1)))
		require.NoError(t, err)
		assert.Equal(t, MaxTick-1, tick)
	})

	t.Run("exact at tick boundaries", func(t *testing.T) {
		for _, tick := range []int32{MinTick, -276225, -74960, -1, 0, 1, 60, 74959, 259478, MaxTick - 1} {
			ratio := MustSqrtRatioAtTick(tick)
			got, err := TickAtSqrtRatio(ratio)
			require.NoError(t, err)
			assert.Equal(t, tick, got, "tick %d", tick)

			below, err := TickAtSqrtRatio(new(big.Int).Sub(ratio, big.NewInt(1)))
			if tick == MinTick {
				assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, tick-1, below, "below tick %d", tick)
		}
	})
}

func TestEncodeSqrtRatioX96(t *testing.T) {
	cases := []struct {
		amount1, amount0 int64
		want             string
	}{
		{1, 1, "79228162514264337593543950336"},
		{100, 1, "792281625142643375935439503360"},
		{1, 100, "7922816251426433759354395033"},
		{111, 333, "45742400955009932534161870629"},
		{333, 111, "137227202865029797602485611888"},
	}
	for _, tc := range cases {
		got := EncodeSqrtRatioX96(big.NewInt(tc.amount1), big.NewInt(tc.amount0))
		assert.Equal(t, tc.want, got.String())
	}
}
