package utils

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Point represents a 2D coordinate in float space.
type Point struct {
	X float64
	Y float64
}

// Quad is a quadrilateral in canonical order:
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// Box represents an axis-aligned bounding box in float coordinates.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// NewBox constructs a Box from min/max coordinates ensuring ordering.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// BoundingBox returns the axis-aligned bounding box for a set of points.
func BoundingBox(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Bounds returns the axis-aligned bounding box of the quad.
func (q Quad) Bounds() Box { return BoundingBox(q[:]) }

// TopEdge returns the length of the longer of the two horizontal edges.
func (q Quad) TopEdge() float64 {
	return math.Max(Distance(q[0], q[1]), Distance(q[3], q[2]))
}

// SideEdge returns the length of the longer of the two vertical edges.
func (q Quad) SideEdge() float64 {
	return math.Max(Distance(q[0], q[3]), Distance(q[1], q[2]))
}

// Clip clamps every quad point into [0, w-1] x [0, h-1].
func (q Quad) Clip(w, h int) Quad {
	out := q
	for i := range out {
		out[i].X = clampFloat(out[i].X, 0, float64(w-1))
		out[i].Y = clampFloat(out[i].Y, 0, float64(h-1))
	}
	return out
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OrderQuad arranges four points into canonical TL/TR/BR/BL order.
// Points are sorted ascending by x; of the two left-most points the one
// with the smaller y becomes the top-left, and symmetrically on the right.
func OrderQuad(pts [4]Point) Quad {
	s := pts[:]
	// insertion sort by x, stable for ties
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j].X > v.X {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
	tl, bl := s[0], s[1]
	if bl.Y < tl.Y {
		tl, bl = bl, tl
	}
	tr, br := s[2], s[3]
	if br.Y < tr.Y {
		tr, br = br, tr
	}
	return Quad{tl, tr, br, bl}
}

// Rotate90CW rotates the image 90 degrees clockwise.
func Rotate90CW(img image.Image) image.Image { return imaging.Rotate270(img) }

// ResizeLinear resizes the image to w x h with bilinear filtering.
func ResizeLinear(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, w, h, imaging.Linear)
}

// PadImage places img into a black canvas extended by the given margins.
func PadImage(img image.Image, top, bottom, left, right int) image.Image {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+left+right, b.Dy()+top+bottom, color.Black)
	return imaging.Paste(canvas, img, image.Pt(left, top))
}
