package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangeScope/internal/model"
)

var (
	token0 = model.Token{ChainID: 1, Address: common.HexToAddress("0x0000000000000000000000000000000000000000"), Decimals: 18, Symbol: "T0"}
	token1 = model.Token{ChainID: 1, Address: common.HexToAddress("0x1111111111111111111111111111111111111111"), Decimals: 18, Symbol: "T1"}
	token2 = model.Token{ChainID: 1, Address: common.HexToAddress("0x2222222222222222222222222222222222222222"), Decimals: 6, Symbol: "T2"}
)

func TestTickToPrice(t *testing.T) {
	cases := []struct {
		name        string
		base, quote model.Token
		tick        int32
		want        string
	}{
		{"1800 t0/1 t1", token1, token0, -74959, "1800"},
		{"1 t1/1800 t0", token0, token1, -74959, "0.00055556"},
		{"1800 t1/1 t0", token0, token1, 74959, "1800"},
		{"1 t0/1800 t1", token1, token0, 74959, "0.00055556"},
		{"1.01 t2/1 t0", token0, token2, -276225, "1.01"},
		{"1 t0/1.01 t2", token2, token0, -276225, "0.99015"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := TickToPrice(tc.base, tc.quote, tc.tick)
			require.NoError(t, err)
			assert.Equal(t, tc.want, price.ToSignificant(5))
		})
	}
}

func TestPriceToClosestTick(t *testing.T) {
	cases := []struct {
		name  string
		price Price
		want  int32
	}{
		{"1800 t0/1 t1", NewPrice(token1, token0, big.NewInt(1), big.NewInt(1800)), -74960},
		{"1 t1/1800 t0", NewPrice(token0, token1, big.NewInt(1800), big.NewInt(1)), -74960},
		{"1.01 t2/1 t0", NewPrice(token0, token2, fromString("100000000000000000000"), big.NewInt(101000000)), -276225},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tick, err := PriceToClosestTick(tc.price)
			require.NoError(t, err)
			assert.Equal(t, tc.want, tick)
		})
	}

	t.Run("round trips through tick prices", func(t *testing.T) {
		for _, tick := range []int32{-74960, -276225, 0, 1, 259478, -887271, 887271} {
			for _, pair := range [][2]model.Token{{token0, token1}, {token1, token0}, {token0, token2}} {
				price, err := TickToPrice(pair[0], pair[1], tick)
				require.NoError(t, err)
				got, err := PriceToClosestTick(price)
				require.NoError(t, err)
				assert.Equal(t, tick, got)
			}
		}
	})
}

func TestPriceInvert(t *testing.T) {
	price := NewPrice(token0, token2, big.NewInt(3), big.NewInt(7))
	inverted := price.Invert()
	assert.True(t, inverted.Base.Equals(token2))
	assert.True(t, inverted.Quote.Equals(token0))
	assert.Zero(t, big.NewRat(3, 7).Cmp(inverted.Raw()))
	assert.Zero(t, price.Cmp(inverted.Invert()))
}

func TestFormatSignificant(t *testing.T) {
	price := NewPriceFromHuman(token0, token1, big.NewRat(123456789, 1000))
	assert.Equal(t, "123460", price.ToSignificant(5))
	assert.Equal(t, "123456.789", price.ToSignificant(12))
	assert.Equal(t, "123456.79", price.ToFixed(2))
	assert.Equal(t, "0", Price{}.ToSignificant(5))
}

func TestParsePrice(t *testing.T) {
	price, ok := ParsePrice(token0, token2, "1.01")
	require.True(t, ok)
	assert.Zero(t, NewPrice(token0, token2, fromString("100000000000000000000"), big.NewInt(101000000)).Cmp(price))

	for _, bad := range []string{"", "  ", "abc", "0", "-1", "1..2"} {
		_, ok := ParsePrice(token0, token1, bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestParseTick(t *testing.T) {
	tick, ok := ParseTick(token0, token2, 1, "1.01")
	require.True(t, ok)
	assert.Equal(t, int32(-276225), tick)

	tick, ok = ParseTick(token0, token2, 60, "1.01")
	require.True(t, ok)
	assert.Equal(t, int32(-276240), tick)

	t.Run("prices beyond the ratio bounds snap to the limits", func(t *testing.T) {
		tick, ok := ParseTick(token0, token1, 60, "1e80")
		require.True(t, ok)
		assert.Equal(t, int32(887220), tick)

		tick, ok = ParseTick(token0, token1, 60, "1e-80")
		require.True(t, ok)
		assert.Equal(t, int32(-887220), tick)
	})

	t.Run("inverted orientation maps to the same tick", func(t *testing.T) {
		direct, ok := ParseTick(token0, token1, 10, "2000")
		require.True(t, ok)
		inverse, ok := ParseTick(token1, token0, 10, "0.0005")
		require.True(t, ok)
		assert.Equal(t, direct, inverse)
	})

	_, ok = ParseTick(token0, token1, 60, "nope")
	assert.False(t, ok)
}
