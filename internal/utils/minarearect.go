package utils

import (
	"errors"
	"math"
	"sort"
)

// RotatedRect is an oriented rectangle described by its center, extent,
// and rotation angle in degrees.
type RotatedRect struct {
	Center Point
	Width  float64
	Height float64
	Angle  float64
}

// ShortSide returns the smaller absolute extent of the rectangle.
func (r RotatedRect) ShortSide() float64 {
	return math.Min(math.Abs(r.Width), math.Abs(r.Height))
}

// ErrEmptyPointSet is returned when a fit is requested on no points.
var ErrEmptyPointSet = errors.New("utils: empty point set")

// MinAreaRect computes the minimum-area oriented bounding rectangle of a
// point set using rotating calipers over the convex hull.
//
// Degenerate inputs use closed forms: a single point yields a zero-size
// rectangle, two points a zero-height rectangle oriented along the segment.
// Collinear hulls fall back to the axis-aligned bounding box at angle 0.
func MinAreaRect(pts []Point) (RotatedRect, error) {
	switch len(pts) {
	case 0:
		return RotatedRect{}, ErrEmptyPointSet
	case 1:
		return RotatedRect{Center: pts[0]}, nil
	case 2:
		dx := pts[1].X - pts[0].X
		dy := pts[1].Y - pts[0].Y
		return RotatedRect{
			Center: Point{X: (pts[0].X + pts[1].X) / 2, Y: (pts[0].Y + pts[1].Y) / 2},
			Width:  math.Hypot(dx, dy),
			Height: 0,
			Angle:  math.Atan2(dy, dx) * 180 / math.Pi,
		}, nil
	}

	hull := grahamHull(pts)
	if len(hull) < 3 {
		bb := BoundingBox(pts)
		return RotatedRect{
			Center: Point{X: (bb.MinX + bb.MaxX) / 2, Y: (bb.MinY + bb.MaxY) / 2},
			Width:  bb.Width(),
			Height: bb.Height(),
			Angle:  0,
		}, nil
	}
	return caliperRect(hull)
}

// grahamHull computes the convex hull via a Graham scan: pivot at the
// lowest-y (then leftmost) point, remaining points sorted by polar angle,
// sweep keeping strict left turns (collinear points are popped).
func grahamHull(pts []Point) []Point {
	if len(pts) <= 3 {
		return append([]Point(nil), pts...)
	}

	start := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[start].Y || (pts[i].Y == pts[start].Y && pts[i].X < pts[start].X) {
			start = i
		}
	}

	sorted := append([]Point(nil), pts...)
	sorted[0], sorted[start] = sorted[start], sorted[0]
	pivot := sorted[0]
	sort.SliceStable(sorted[1:], func(i, j int) bool {
		a, b := sorted[1+i], sorted[1+j]
		angA := math.Atan2(a.Y-pivot.Y, a.X-pivot.X)
		angB := math.Atan2(b.Y-pivot.Y, b.X-pivot.X)
		return angA < angB
	})

	hull := make([]Point, 0, len(sorted))
	hull = append(hull, sorted[0], sorted[1])
	for _, pt := range sorted[2:] {
		for len(hull) >= 2 {
			p1 := hull[len(hull)-2]
			p2 := hull[len(hull)-1]
			cross := (p2.X-p1.X)*(pt.Y-p1.Y) - (p2.Y-p1.Y)*(pt.X-p1.X)
			if cross <= 0 {
				hull = hull[:len(hull)-1]
			} else {
				break
			}
		}
		hull = append(hull, pt)
	}
	return hull
}

// caliperRect runs rotating calipers over the hull edges: each edge
// orientation is tested by projecting all hull points onto the edge
// direction and its perpendicular, keeping the minimum-area frame.
func caliperRect(hull []Point) (RotatedRect, error) {
	bestArea := math.Inf(1)
	var best RotatedRect
	found := false

	n := len(hull)
	for i := 0; i < n; i++ {
		p1 := hull[i]
		p2 := hull[(i+1)%n]
		ex := p2.X - p1.X
		ey := p2.Y - p1.Y
		edgeLen := math.Hypot(ex, ey)
		if edgeLen < 1e-6 {
			continue
		}
		ux, uy := ex/edgeLen, ey/edgeLen
		vx, vy := -uy, ux

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.X*ux + p.Y*uy
			v := p.X*vx + p.Y*vy
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		w := maxU - minU
		h := maxV - minV
		if area := w * h; area < bestArea {
			bestArea = area
			cu := (minU + maxU) / 2
			cv := (minV + maxV) / 2
			best = RotatedRect{
				Center: Point{X: cu*ux + cv*vx, Y: cu*uy + cv*vy},
				Width:  w,
				Height: h,
				Angle:  math.Atan2(uy, ux) * 180 / math.Pi,
			}
			found = true
		}
	}

	if !found {
		return RotatedRect{}, errors.New("utils: degenerate hull")
	}
	return best, nil
}

// BoxPoints derives the 4 corner points of a rotated rectangle by rotating
// the half-extent offsets around the center. The corners are not in
// canonical order; pass them through OrderQuad.
func BoxPoints(r RotatedRect) [4]Point {
	rad := r.Angle * math.Pi / 180
	cosA := math.Cos(rad)
	sinA := math.Sin(rad)
	w := r.Width / 2
	h := r.Height / 2

	offsets := [4][2]float64{{-w, -h}, {w, -h}, {w, h}, {-w, h}}
	var out [4]Point
	for i, o := range offsets {
		out[i] = Point{
			X: r.Center.X + o[0]*cosA - o[1]*sinA,
			Y: r.Center.Y + o[0]*sinA + o[1]*cosA,
		}
	}
	return out
}
