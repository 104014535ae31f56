package derive

// Field selects one of the two pool tokens, in sorted order.
type Field int

const (
	FieldZero Field = iota
	FieldOne
)

// Dependent returns the other field.
func (f Field) Dependent() Field {
	switch f {
	case FieldZero:
		return FieldOne
	case FieldOne:
		return FieldZero
	default:
		panic("derive: unknown field")
	}
}

func (f Field) String() string {
	switch f {
	case FieldZero:
		return "token0"
	case FieldOne:
		return "token1"
	default:
		return "unknown"
	}
}

// Bound selects the lower or upper tick of a range.
type Bound int

const (
	BoundLower Bound = iota
	BoundUpper
)

func (b Bound) String() string {
	if b == BoundLower {
		return "lower"
	}
	return "upper"
}

// Side selects the left or right edge of the displayed price range.
// When prices are inverted the left edge maps to the upper tick.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// BoundFor returns the tick bound shown on side.
func BoundFor(side Side, inverted bool) Bound {
	if (side == SideLeft) != inverted {
		return BoundLower
	}
	return BoundUpper
}

// SideFor returns the displayed side of a tick bound.
func SideFor(bound Bound, inverted bool) Side {
	if (bound == BoundLower) != inverted {
		return SideLeft
	}
	return SideRight
}
