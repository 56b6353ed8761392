package utils

import "math"

// PolygonArea returns the absolute area of a closed ring via the
// shoelace formula. The ring must not repeat its first point.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	return math.Abs(signedArea(pts)) / 2
}

// PolygonPerimeter returns the total edge length of a closed ring.
func PolygonPerimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		sum += Distance(pts[i], pts[(i+1)%n])
	}
	return sum
}

// signedArea returns twice the signed shoelace sum; the sign encodes the
// ring winding in the y-down image coordinate system.
func signedArea(pts []Point) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum
}

// PointInPolygon tests whether (x, y) lies inside the closed ring using
// the even-odd crossing rule.
func PointInPolygon(x, y float64, pts []Point) bool {
	inside := false
	j := len(pts) - 1
	for i := range pts {
		xi, yi := pts[i].X, pts[i].Y
		xj, yj := pts[j].X, pts[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// OffsetPolygon expands (distance > 0) or shrinks (distance < 0) a closed
// ring using miter joins. Miters longer than miterLimit multiples of the
// offset distance are beveled into two points. Degenerate rings are
// returned unchanged.
func OffsetPolygon(pts []Point, distance, miterLimit float64) []Point {
	n := len(pts)
	if n < 3 || distance == 0 {
		return append([]Point(nil), pts...)
	}
	if miterLimit <= 0 {
		miterLimit = 2
	}

	// Winding decides which perpendicular points outward.
	sign := 1.0
	if signedArea(pts) < 0 {
		sign = -1.0
	}

	out := make([]Point, 0, n+4)
	for i := 0; i < n; i++ {
		prev := pts[(i+n-1)%n]
		curr := pts[i]
		next := pts[(i+1)%n]

		n1x, n1y, ok1 := outwardNormal(prev, curr, sign)
		n2x, n2y, ok2 := outwardNormal(curr, next, sign)
		if !ok1 && !ok2 {
			continue
		}
		if !ok1 {
			n1x, n1y = n2x, n2y
		}
		if !ok2 {
			n2x, n2y = n1x, n1y
		}

		// Offset images of curr on each adjoining edge.
		a := Point{X: curr.X + n1x*distance, Y: curr.Y + n1y*distance}
		b := Point{X: curr.X + n2x*distance, Y: curr.Y + n2y*distance}

		d1x, d1y := curr.X-prev.X, curr.Y-prev.Y
		d2x, d2y := next.X-curr.X, next.Y-curr.Y
		cross := d1x*d2y - d1y*d2x
		if math.Abs(cross) < 1e-9 {
			// Collinear edges share a normal; one offset point suffices.
			out = append(out, a)
			continue
		}

		// Intersect the two offset edge lines.
		t := ((b.X-a.X)*d2y - (b.Y-a.Y)*d2x) / cross
		miter := Point{X: a.X + t*d1x, Y: a.Y + t*d1y}
		if Distance(miter, curr) > miterLimit*math.Abs(distance) {
			out = append(out, a, b)
			continue
		}
		out = append(out, miter)
	}
	return out
}

func outwardNormal(a, b Point, sign float64) (nx, ny float64, ok bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return 0, 0, false
	}
	return sign * dy / length, sign * -dx / length, true
}

// StripClosingPoint removes a trailing duplicate of the first ring point,
// within tolerance, so rings are stored open.
func StripClosingPoint(pts []Point, tol float64) []Point {
	if len(pts) > 1 {
		first := pts[0]
		last := pts[len(pts)-1]
		if math.Abs(first.X-last.X) < tol && math.Abs(first.Y-last.Y) < tol {
			return pts[:len(pts)-1]
		}
	}
	return pts
}
