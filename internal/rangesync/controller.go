// Package rangesync keeps a zoomable price brush and the committed tick
// range in agreement.
package rangesync

import (
	"math"
	"math/big"

	"go.uber.org/zap"

	"rangeScope/internal/derive"
	"rangeScope/internal/fixedpoint"
	"rangeScope/internal/pool"
)

// pixelTolerance is how far a released edge may sit from its committed
// pixel and still count as unmoved.
const pixelTolerance = 0.5

// Status is the controller state.
type Status int

const (
	StatusUninitialized Status = iota
	StatusSynced
	StatusDragging
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusSynced:
		return "synced"
	case StatusDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Controller owns the viewport of one pool selection. It never changes
// the committed range itself; it returns a Commit for the owner to apply.
type Controller struct {
	logger *zap.Logger
	width  float64

	status Status
	levels ZoomLevels
	base   LinearScale
	zoom   ZoomTransform
	live   *[2]float64

	out derive.Output
}

// NewController builds a controller for a viewport width pixels wide.
func NewController(width float64, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		width = 1
	}
	return &Controller{logger: logger, width: width, zoom: IdentityZoom}
}

func (c *Controller) Status() Status { return c.status }

// Sync feeds the latest derived snapshot. It initializes the viewport on
// first availability and may return the default range to commit.
func (c *Controller) Sync(out derive.Output) *Commit {
	current := out.DisplayPrice()
	if out.PoolState == pool.StateInvalid || out.InvalidPrice || current == nil || out.PoolForPosition == nil || out.TickSpacing <= 0 {
		if c.status != StatusUninitialized {
			c.logger.Debug("range sync torn down", zap.String("pool_state", out.PoolState.String()))
		}
		c.teardown()
		return nil
	}

	if c.status != StatusUninitialized && out.Inverted != c.out.Inverted {
		c.zoom = IdentityZoom
	}
	c.out = out
	levels := ZoomLevelsForFee(out.Fee)
	bounds := levels.defaultBounds(current.Human())
	c.base = LinearScale{Domain: bounds, Range: [2]float64{0, c.width}}
	c.levels = levels

	if c.status != StatusUninitialized {
		return nil
	}
	c.status = StatusSynced
	c.zoom = IdentityZoom
	c.logger.Debug("range sync initialized", zap.Uint32("fee", out.Fee), zap.Int32("tick_spacing", out.TickSpacing))

	if out.Ticks[derive.BoundLower] == nil && out.Ticks[derive.BoundUpper] == nil && !out.FullRange {
		return c.commitValues(ModeReset, bounds)
	}
	return nil
}

// Apply runs one event through the state machine.
func (c *Controller) Apply(ev Event) *Commit {
	if _, ok := ev.(PoolChanged); ok {
		c.teardown()
		return nil
	}
	if c.status == StatusUninitialized {
		return nil
	}

	switch e := ev.(type) {
	case GestureStart:
		c.status = StatusDragging
	case GestureMove:
		c.status = StatusDragging
		extent := e.Extent
		c.live = &extent
	case GestureEnd:
		c.status = StatusSynced
		c.live = nil
		return c.gestureEnd(e)
	case Zoom:
		if e.Transform.valid() {
			c.zoom = ZoomTransform{K: clamp(e.Transform.K, c.levels.MinZoom, c.levels.MaxZoom), X: e.Transform.X}
		}
	case ZoomIn:
		c.zoom = c.zoom.ScaleBy(zoomInFactor, c.width/2, c.levels.extent())
	case ZoomOut:
		c.zoom = c.zoom.ScaleBy(zoomOutFactor, c.width/2, c.levels.extent())
	case ResetZoom:
		c.resetViewport()
		current := c.out.DisplayPrice()
		return c.commitValues(ModeReset, c.levels.defaultBounds(current.Human()))
	case FullRange:
		c.resetViewport()
		return c.commitFull()
	}
	return nil
}

// Scale returns the base scale seen through the current zoom.
func (c *Controller) Scale() LinearScale {
	return c.zoom.Rescale(c.base)
}

func (c *Controller) teardown() {
	c.status = StatusUninitialized
	c.zoom = IdentityZoom
	c.live = nil
	c.out = derive.Output{}
	c.base = LinearScale{}
}

func (c *Controller) resetViewport() {
	c.status = StatusSynced
	c.live = nil
	c.zoom = IdentityZoom
}

// committedPixels returns the pixel position of each committed edge. Open
// edges sit on the viewport border.
func (c *Controller) committedPixels() [2]*float64 {
	var out [2]*float64
	scale := c.Scale()
	for _, side := range []derive.Side{derive.SideLeft, derive.SideRight} {
		var px float64
		switch {
		case c.out.SideAtLimit(side) && side == derive.SideLeft:
			px = scale.Range[0]
		case c.out.SideAtLimit(side):
			px = scale.Range[1]
		default:
			human := c.out.SideHuman(side)
			if human == nil {
				continue
			}
			px = scale.Scale(human)
		}
		out[side] = &px
	}
	return out
}

func (c *Controller) gestureEnd(e GestureEnd) *Commit {
	extent := e.Extent
	if extent[0] > extent[1] {
		extent[0], extent[1] = extent[1], extent[0]
	}
	scale := c.Scale()
	committed := c.committedPixels()

	var values [2]*big.Rat
	var full [2]bool
	changed := false
	for _, side := range []derive.Side{derive.SideLeft, derive.SideRight} {
		if e.Mode != ModeReset {
			prev := committed[side]
			if prev != nil && math.Abs(extent[side]-*prev) < pixelTolerance {
				continue
			}
			if c.out.SideAtLimit(side) && e.Mode != ModeHandle {
				continue
			}
		}
		price := scale.Invert(extent[side])
		switch {
		case price == nil:
			continue
		case price.Sign() <= 0 && side == derive.SideLeft:
			full[side] = true
		case price.Sign() <= 0:
			continue
		default:
			values[side] = price
		}
		changed = true
	}
	if !changed {
		return nil
	}

	commit := c.buildCommit(e.Mode, values, full)
	if sameTicks(commit.Ticks, c.out.Ticks) {
		c.logger.Debug("gesture kept committed ticks", zap.String("mode", e.Mode.String()))
		return nil
	}
	return commit
}

func (c *Controller) commitValues(mode Mode, values [2]*big.Rat) *Commit {
	return c.buildCommit(mode, values, [2]bool{})
}

func (c *Controller) commitFull() *Commit {
	return c.buildCommit(ModeReset, [2]*big.Rat{}, [2]bool{true, true})
}

func (c *Controller) buildCommit(mode Mode, values [2]*big.Rat, full [2]bool) *Commit {
	commit := &Commit{Mode: mode, Ticks: c.out.Ticks}
	base, quote := c.out.DisplayPair()
	for _, side := range []derive.Side{derive.SideLeft, derive.SideRight} {
		bound := derive.BoundFor(side, c.out.Inverted)
		switch {
		case full[side]:
			commit.Sides[side] = SideCommit{Set: true, Full: true}
			tick := c.out.TickSpaceLimits[bound]
			commit.Ticks[bound] = &tick
		case values[side] != nil:
			commit.Sides[side] = SideCommit{Set: true, Value: values[side]}
			if tick, ok := fixedpoint.TickFromHuman(base, quote, c.out.TickSpacing, values[side]); ok {
				commit.Ticks[bound] = &tick
			}
		}
	}
	return commit
}

func sameTicks(a, b [2]*int32) bool {
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if *a[i] != *b[i] {
			return false
		}
	}
	return true
}
