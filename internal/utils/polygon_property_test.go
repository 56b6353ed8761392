package utils

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPoint generates a random point.
func genPoint() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
	).Map(func(vals []interface{}) Point {
		return Point{X: vals[0].(float64), Y: vals[1].(float64)}
	})
}

// genPointSet generates a random point cloud of fixed size.
func genPointSet(size int) gopter.Gen {
	return gen.SliceOfN(size, genPoint())
}

// genRect generates a random axis-aligned rectangle ring.
func genRect() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-50, 50),
		gen.Float64Range(-50, 50),
		gen.Float64Range(1, 60),
		gen.Float64Range(1, 60),
	).Map(func(vals []interface{}) []Point {
		x := vals[0].(float64)
		y := vals[1].(float64)
		w := vals[2].(float64)
		h := vals[3].(float64)
		return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	})
}

// TestMinAreaRect_EnclosesPoints verifies every input point lies inside
// the fitted rectangle's bounding box.
func TestMinAreaRect_EnclosesPoints(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fitted rectangle encloses all points", prop.ForAll(
		func(points []Point) bool {
			rect, err := MinAreaRect(points)
			if err != nil {
				return false
			}

			corners := BoxPoints(rect)
			bb := BoundingBox(corners[:])
			for _, p := range points {
				if p.X < bb.MinX-1e-6 || p.X > bb.MaxX+1e-6 ||
					p.Y < bb.MinY-1e-6 || p.Y > bb.MaxY+1e-6 {
					return false
				}
			}
			return true
		},
		genPointSet(10),
	))

	properties.TestingRun(t)
}

// TestMinAreaRect_AreaLessThanBoundingBox verifies the oriented fit never
// exceeds the axis-aligned bounding box area.
func TestMinAreaRect_AreaLessThanBoundingBox(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("oriented area <= axis-aligned bounding box area", prop.ForAll(
		func(points []Point) bool {
			rect, err := MinAreaRect(points)
			if err != nil {
				return false
			}

			bb := BoundingBox(points)
			return rect.Width*rect.Height <= bb.Width()*bb.Height()+1e-6
		},
		genPointSet(12),
	))

	properties.TestingRun(t)
}

// TestOffsetPolygon_PositiveDistanceExpands verifies outward offsetting
// never shrinks a rectangle ring.
func TestOffsetPolygon_PositiveDistanceExpands(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("positive offset grows the ring area", prop.ForAll(
		func(ring []Point, distance float64) bool {
			out := OffsetPolygon(ring, distance, 2)
			return PolygonArea(out) >= PolygonArea(ring)
		},
		genRect(),
		gen.Float64Range(0.1, 10),
	))

	properties.TestingRun(t)
}

// TestOffsetPolygon_RectangleExact verifies rectangle corners miter to the
// exact expanded rectangle.
func TestOffsetPolygon_RectangleExact(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rectangle offset equals expanded rectangle area", prop.ForAll(
		func(ring []Point, distance float64) bool {
			bb := BoundingBox(ring)
			out := OffsetPolygon(ring, distance, 2)
			want := (bb.Width() + 2*distance) * (bb.Height() + 2*distance)
			return math.Abs(PolygonArea(out)-want) < 1e-6
		},
		genRect(),
		gen.Float64Range(0.1, 10),
	))

	properties.TestingRun(t)
}

// TestOrderQuad_Idempotence verifies ordering is stable on its own output.
func TestOrderQuad_Idempotence(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ordering an ordered quad is a no-op", prop.ForAll(
		func(a, b, c, d Point) bool {
			once := OrderQuad([4]Point{a, b, c, d})
			twice := OrderQuad([4]Point(once))
			return once == twice
		},
		genPoint(),
		genPoint(),
		genPoint(),
		genPoint(),
	))

	properties.TestingRun(t)
}

// TestDistance_Symmetry verifies distance is symmetric and non-negative.
func TestDistance_Symmetry(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("distance is symmetric", prop.ForAll(
		func(a, b Point) bool {
			d1 := Distance(a, b)
			d2 := Distance(b, a)
			return d1 >= 0 && math.Abs(d1-d2) < 1e-9
		},
		genPoint(),
		genPoint(),
	))

	properties.TestingRun(t)
}
