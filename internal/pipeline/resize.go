package pipeline

import (
	"errors"
	"image"
	"math"

	"github.com/MeKo-Tech/textflow/internal/transform"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// ErrInvalidResize is returned when an image resizes to an empty frame.
var ErrInvalidResize = errors.New("pipeline: image resizes to an empty frame")

// boundImageSides shrinks images whose longest side exceeds maxSide and
// grows images whose shortest side falls under minSide. Each applied
// resize snaps both dimensions to multiples of 32 and is recorded on
// the chain.
func boundImageSides(img image.Image, minSide, maxSide int, chain *transform.Chain) (image.Image, error) {
	out := img

	b := out.Bounds()
	if max(b.Dx(), b.Dy()) > maxSide {
		ratio := float64(maxSide) / float64(max(b.Dx(), b.Dy()))
		resized, err := resizeRecorded(out, ratio, chain)
		if err != nil {
			return nil, err
		}
		out = resized
	}

	b = out.Bounds()
	if min(b.Dx(), b.Dy()) < minSide {
		ratio := float64(minSide) / float64(min(b.Dx(), b.Dy()))
		resized, err := resizeRecorded(out, ratio, chain)
		if err != nil {
			return nil, err
		}
		out = resized
	}

	return out, nil
}

// resizeRecorded scales img by ratio, truncating then snapping each
// dimension to the nearest multiple of 32.
func resizeRecorded(img image.Image, ratio float64, chain *transform.Chain) (image.Image, error) {
	b := img.Bounds()
	w := int(float64(b.Dx()) * ratio)
	h := int(float64(b.Dy()) * ratio)
	w = int(math.Round(float64(w)/32.0) * 32)
	h = int(math.Round(float64(h)/32.0) * 32)
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidResize
	}

	chain.RecordResize(float64(b.Dx())/float64(w), float64(b.Dy())/float64(h))
	return utils.ResizeLinear(img, w, h), nil
}
