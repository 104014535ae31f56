package rangesync

import (
	"rangeScope/internal/derive"
)

const labelDigits = 6

// Handle is a committed edge as the renderer should draw it.
type Handle struct {
	Pixel float64 `json:"pixel"`
	Label string  `json:"label"`
	Open  bool    `json:"open"`
}

// View is everything the renderer reads from the controller.
type View struct {
	Status       Status        `json:"status"`
	Width        float64       `json:"width"`
	Zoom         ZoomTransform `json:"zoom"`
	Domain       [2]float64    `json:"domain"`
	CurrentPixel float64       `json:"current_pixel"`
	CurrentLabel string        `json:"current_label"`
	Committed    [2]*Handle    `json:"committed"`
	Preview      *[2]float64   `json:"preview,omitempty"`
}

// View returns the render state. An uninitialized controller reports only
// its status.
func (c *Controller) View() View {
	v := View{Status: c.status, Width: c.width, Zoom: c.zoom}
	if c.status == StatusUninitialized {
		return v
	}

	scale := c.Scale()
	v.Domain = scale.DomainFloat()
	if current := c.out.DisplayPrice(); current != nil {
		v.CurrentPixel = scale.Scale(current.Human())
		v.CurrentLabel = current.ToSignificant(labelDigits)
	}

	pixels := c.committedPixels()
	for _, side := range []derive.Side{derive.SideLeft, derive.SideRight} {
		if pixels[side] == nil {
			continue
		}
		h := &Handle{Pixel: *pixels[side]}
		switch {
		case c.out.SideAtLimit(side) && side == derive.SideLeft:
			h.Open, h.Label = true, "0"
		case c.out.SideAtLimit(side):
			h.Open, h.Label = true, "∞"
		default:
			h.Label = c.out.SidePrice(side).ToSignificant(labelDigits)
		}
		v.Committed[side] = h
	}

	if c.live != nil {
		preview := *c.live
		v.Preview = &preview
	}
	return v
}
