package fixedpoint

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestUsableTick(t *testing.T) {
	cases := []struct {
		name          string
		tick, spacing int32
		want          int32
	}{
		{"exact multiple", 120, 60, 120},
		{"rounds down below half", 4, 10, 0},
		{"rounds up at positive half", 5, 10, 10},
		{"rounds away from zero at negative half", -5, 10, -10},
		{"rounds toward zero below negative half", -4, 10, 0},
		{"spacing one at max", MaxTick, 1, MaxTick},
		{"spacing one at min", MinTick, 1, MinTick},
		{"min tick pulled inside", MinTick, 60, -887220},
		{"max tick pulled inside", MaxTick, 60, 887220},
		{"min tick spacing 200", MinTick, 200, -887200},
		{"below min clamps first", MinTick - 1000, 10, -887270},
		{"above max clamps first", MaxTick + 1000, 10, 887270},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NearestUsableTick(tc.tick, tc.spacing))
		})
	}
}

func TestNearestUsableTickProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	spacings := []int32{1, 10, 60, 200}
	for i := 0; i < 2000; i++ {
		spacing := spacings[rng.Intn(len(spacings))]
		tick := int32(rng.Int63n(int64(MaxTick)*2+1)) + MinTick
		got := NearestUsableTick(tick, spacing)

		assert.Zero(t, got%spacing)
		assert.GreaterOrEqual(t, got, MinTick)
		assert.LessOrEqual(t, got, MaxTick)

		minLimit, maxLimit := TickSpaceLimits(spacing)
		if got == minLimit || got == maxLimit {
			continue
		}
		diff := int64(got) - int64(tick)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, 2*diff, int64(spacing), "tick %d spacing %d", tick, spacing)
	}
}

func TestNearestUsableTickPanicsOnBadSpacing(t *testing.T) {
	assert.Panics(t, func() { NearestUsableTick(0, 0) })
}
