package fixedpoint

// NearestUsableTick rounds tick to the closest multiple of tickSpacing,
// ties away from zero, and keeps the result inside [MinTick, MaxTick].
func NearestUsableTick(tick, tickSpacing int32) int32 {
	if tickSpacing <= 0 {
		panic("fixedpoint: tick spacing must be positive")
	}
	if tick < MinTick {
		tick = MinTick
	} else if tick > MaxTick {
		tick = MaxTick
	}

	t, s := int64(tick), int64(tickSpacing)
	q, r := t/s, t%s
	if r < 0 {
		r = -r
	}
	if 2*r >= s {
		if t < 0 {
			q--
		} else {
			q++
		}
	}

	rounded := q * s
	if rounded < int64(MinTick) {
		rounded += s
	} else if rounded > int64(MaxTick) {
		rounded -= s
	}
	return int32(rounded)
}

// TickSpaceLimits returns the lowest and highest usable ticks for tickSpacing.
func TickSpaceLimits(tickSpacing int32) (int32, int32) {
	return NearestUsableTick(MinTick, tickSpacing), NearestUsableTick(MaxTick, tickSpacing)
}
