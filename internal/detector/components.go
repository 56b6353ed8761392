package detector

import (
	"sort"

	"github.com/MeKo-Tech/textflow/internal/mempool"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// Contour is the boundary pixel set of one connected foreground region.
type Contour struct {
	Points []utils.Point
}

// Len returns the number of boundary pixels.
func (c Contour) Len() int { return len(c.Points) }

// Area returns the shoelace area over the boundary pixel sequence. It is
// only used as a deterministic size ordering key between contours.
func (c Contour) Area() float64 {
	return utils.PolygonArea(c.Points)
}

// FindContours labels 4-connected foreground regions of a binary mask
// and returns one contour per region, largest first. A pixel belongs to
// a region's boundary when any 4-neighbor carries a different label or
// lies outside the image. Regions with fewer than 3 boundary pixels are
// dropped.
func FindContours(mask []bool, width, height int) []Contour {
	if width <= 0 || height <= 0 {
		return nil
	}

	labels := mempool.GetInt32(width * height)
	defer mempool.PutInt32(labels)

	var next int32 = 1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if mask[idx] && labels[idx] == 0 {
				floodFill(mask, labels, x, y, width, height, next)
				next++
			}
		}
	}

	contours := make([]Contour, 0, next-1)
	for label := int32(1); label < next; label++ {
		boundary := extractBoundary(labels, label, width, height)
		if len(boundary) >= 3 {
			contours = append(contours, Contour{Points: boundary})
		}
	}

	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].Area() > contours[j].Area()
	})
	return contours
}

// floodFill labels one 4-connected component using an explicit stack;
// recursion would overflow on page-sized regions.
func floodFill(mask []bool, labels []int32, startX, startY, width, height int, label int32) {
	stack := make([]int, 0, 64)
	stack = append(stack, startY*width+startX)

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if labels[idx] != 0 || !mask[idx] {
			continue
		}
		labels[idx] = label

		x := idx % width
		y := idx / width
		if x+1 < width {
			stack = append(stack, idx+1)
		}
		if x-1 >= 0 {
			stack = append(stack, idx-1)
		}
		if y+1 < height {
			stack = append(stack, idx+width)
		}
		if y-1 >= 0 {
			stack = append(stack, idx-width)
		}
	}
}

func isBoundary(labels []int32, x, y, width, height int, label int32) bool {
	neighbors := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for _, d := range neighbors {
		nx := x + d[0]
		ny := y + d[1]
		if nx < 0 || nx >= width || ny < 0 || ny >= height {
			return true
		}
		if labels[ny*width+nx] != label {
			return true
		}
	}
	return false
}

// extractBoundary scans the full label map for the given label. Label
// counts are small relative to pixel count, so the O(W*H) per-label
// pass is acceptable.
func extractBoundary(labels []int32, label int32, width, height int) []utils.Point {
	var boundary []utils.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels[y*width+x] != label {
				continue
			}
			if isBoundary(labels, x, y, width, height, label) {
				boundary = append(boundary, utils.Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return boundary
}
