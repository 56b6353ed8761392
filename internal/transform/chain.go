// Package transform records the geometric operations applied while
// preparing an image for detection and replays them in reverse to map
// detection boxes back into source-image coordinates.
package transform

import (
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// Op is one recorded preprocessing operation. Implementations undo
// their forward effect on a single point.
type Op interface {
	invert(p utils.Point) utils.Point
}

// ResizeOp records a resize. Ratios are source extent over resized
// extent, so inversion multiplies.
type ResizeOp struct {
	RatioW float64
	RatioH float64
}

func (o ResizeOp) invert(p utils.Point) utils.Point {
	return utils.Point{X: p.X * o.RatioW, Y: p.Y * o.RatioH}
}

// PadOp records a letterbox padding by its top-left margin in pixels.
type PadOp struct {
	Top  float64
	Left float64
}

func (o PadOp) invert(p utils.Point) utils.Point {
	return utils.Point{X: p.X - o.Left, Y: p.Y - o.Top}
}

// Chain is an append-only record of preprocessing operations in
// application order. It is built once per image and read once during
// coordinate mapping; it is not safe for concurrent mutation.
type Chain struct {
	ops []Op
}

// NewChain returns an empty operation chain.
func NewChain() *Chain {
	return &Chain{}
}

// RecordResize appends a resize operation. Ratios are source over
// resized extent.
func (c *Chain) RecordResize(ratioW, ratioH float64) {
	c.ops = append(c.ops, ResizeOp{RatioW: ratioW, RatioH: ratioH})
}

// RecordPad appends a padding operation with the given top/left margin.
func (c *Chain) RecordPad(top, left float64) {
	c.ops = append(c.ops, PadOp{Top: top, Left: left})
}

// Len reports the number of recorded operations.
func (c *Chain) Len() int {
	return len(c.ops)
}

// InvertPoint undoes every recorded operation on a single point, last
// applied first, without clamping.
func (c *Chain) InvertPoint(p utils.Point) utils.Point {
	for i := len(c.ops) - 1; i >= 0; i-- {
		p = c.ops[i].invert(p)
	}
	return p
}

// ReplayInverse maps detection quads from preprocessed-image space back
// to the source image. Operations are undone in reverse application
// order, then every point is clamped into [0, width] x [0, height].
func (c *Chain) ReplayInverse(quads []utils.Quad, width, height int) []utils.Quad {
	out := make([]utils.Quad, len(quads))
	w := float64(width)
	h := float64(height)
	for i, q := range quads {
		for j := range q {
			p := c.InvertPoint(q[j])
			if p.X < 0 {
				p.X = 0
			}
			if p.Y < 0 {
				p.Y = 0
			}
			if p.X > w {
				p.X = w
			}
			if p.Y > h {
				p.Y = h
			}
			q[j] = p
		}
		out[i] = q
	}
	return out
}
