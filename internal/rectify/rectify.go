package rectify

import (
	"errors"
	"image"
	"math"

	"github.com/MeKo-Tech/textflow/internal/utils"
)

// ErrEmptyCrop is returned when the quad collapses to a zero-size region.
var ErrEmptyCrop = errors.New("rectify: degenerate crop region")

// rotateAspect is the height/width ratio above which a crop is treated
// as vertical text and rotated a quarter turn.
const rotateAspect = 1.5

// CropQuad extracts the quadrilateral region of img into an upright
// rectangular strip. The strip dimensions come from the longer of each
// pair of opposite edges. Crops taller than rotateAspect times their
// width are rotated clockwise so the text reads horizontally.
func CropQuad(img image.Image, quad utils.Quad) (image.Image, error) {
	width := int(math.Max(
		utils.Distance(quad[0], quad[1]),
		utils.Distance(quad[2], quad[3]),
	))
	height := int(math.Max(
		utils.Distance(quad[0], quad[3]),
		utils.Distance(quad[1], quad[2]),
	))
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyCrop
	}

	w, h := float64(width), float64(height)
	dst := [4]utils.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}

	m, err := PerspectiveTransform([4]utils.Point(quad), dst)
	if err != nil {
		return nil, err
	}
	out, err := WarpPerspective(img, m, width, height)
	if err != nil {
		return nil, err
	}

	if h/w >= rotateAspect {
		return utils.Rotate90CW(out), nil
	}
	return out, nil
}
