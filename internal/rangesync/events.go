package rangesync

import (
	"math/big"

	"rangeScope/internal/derive"
)

// Mode tells how a gesture moved the brush.
type Mode int

const (
	// ModeHandle moves a single edge.
	ModeHandle Mode = iota
	// ModeDrag moves the whole brush.
	ModeDrag
	// ModeReset replaces the brush outright.
	ModeReset
)

func (m Mode) String() string {
	switch m {
	case ModeHandle:
		return "handle"
	case ModeDrag:
		return "drag"
	case ModeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseMode maps a gesture mode name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "handle":
		return ModeHandle, true
	case "drag":
		return ModeDrag, true
	case "reset":
		return ModeReset, true
	default:
		return 0, false
	}
}

// Event is an input to the controller state machine.
type Event interface {
	event()
}

type GestureStart struct{}

// GestureMove carries the live pixel extent while dragging.
type GestureMove struct {
	Extent [2]float64
}

// GestureEnd carries the final pixel extent of a gesture.
type GestureEnd struct {
	Extent [2]float64
	Mode   Mode
}

// Zoom replaces the zoom transform.
type Zoom struct {
	Transform ZoomTransform
}

type ZoomIn struct{}

type ZoomOut struct{}

// ResetZoom restores the default scale and range.
type ResetZoom struct{}

// FullRange restores the default scale and opens both edges.
type FullRange struct{}

// PoolChanged tears the controller down.
type PoolChanged struct{}

func (GestureStart) event() {}
func (GestureMove) event()  {}
func (GestureEnd) event()   {}
func (Zoom) event()         {}
func (ZoomIn) event()       {}
func (ZoomOut) event()      {}
func (ResetZoom) event()    {}
func (FullRange) event()    {}
func (PoolChanged) event()  {}

// SideCommit is the new value of one displayed edge.
type SideCommit struct {
	Set   bool
	Full  bool
	Value *big.Rat
}

// Commit is a range change the owner must apply to its range state.
// Sides are indexed by derive.Side, Ticks by derive.Bound.
type Commit struct {
	Mode  Mode
	Sides [2]SideCommit
	Ticks [2]*int32
}

// ApplyTo writes the committed edges into st.
func (c *Commit) ApplyTo(st *derive.RangeState) {
	for _, side := range []derive.Side{derive.SideLeft, derive.SideRight} {
		sc := c.Sides[side]
		switch {
		case !sc.Set:
		case sc.Full:
			st.CommitFullBound(side)
		default:
			st.CommitBound(side, sc.Value)
		}
	}
}
