package detector

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/MeKo-Tech/textflow/internal/mempool"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// ErrInvalidResize is returned when the computed network input size
// collapses to zero; the image cannot be processed.
var ErrInvalidResize = errors.New("detector: computed resize dimensions are not positive")

// limitSideLen picks the side-length constraint for an image. The "min"
// constraint uses the configured value directly; "max" scales the cap
// with the image so large pages keep enough resolution.
func limitSideLen(cfg Config, width, height int) int {
	if cfg.LimitType == LimitTypeMin {
		return cfg.LimitSideLen
	}
	maxSide := max(width, height)
	switch {
	case maxSide < 960:
		return 960
	case maxSide < 1500:
		return 1500
	default:
		return 2000
	}
}

// resizeForDetection scales the image so its constrained side honors
// the limit, then snaps both dimensions to multiples of 32 as the
// detection network requires.
func resizeForDetection(img image.Image, cfg Config) (image.Image, error) {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()

	limit := float64(limitSideLen(cfg, w, h))
	ratio := 1.0
	if cfg.LimitType == LimitTypeMax {
		if side := float64(max(w, h)); side > limit {
			ratio = limit / side
		}
	} else {
		if side := float64(min(w, h)); side < limit {
			ratio = limit / side
		}
	}

	resizeW := int(math.Round(float64(int(float64(w)*ratio))/32.0) * 32)
	resizeH := int(math.Round(float64(int(float64(h)*ratio))/32.0) * 32)
	if resizeW <= 0 || resizeH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d -> %dx%d", ErrInvalidResize, w, h, resizeW, resizeH)
	}

	return utils.ResizeLinear(img, resizeW, resizeH), nil
}

// normalizeImage converts the image into a [3, H, W] float32 buffer in
// BGR channel order, scaled to [0,1] and normalized per channel. The
// buffer comes from the shared pool; the caller releases it with
// mempool.PutFloat32 once packed into a tensor.
func normalizeImage(img image.Image, mean, std [3]float32) ([]float32, int, int) {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()

	out := mempool.GetFloat32(3 * h * w)
	plane := h * w
	const scale = 1.0 / 255.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r := float32(r16>>8) * scale
			g := float32(g16>>8) * scale
			bl := float32(b16>>8) * scale

			// The model was trained on BGR input.
			idx := y*w + x
			out[idx] = (bl - mean[0]) / std[0]
			out[plane+idx] = (g - mean[1]) / std[1]
			out[2*plane+idx] = (r - mean[2]) / std[2]
		}
	}
	return out, w, h
}
