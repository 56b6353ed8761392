package recognizer

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/MeKo-Tech/textflow/internal/utils"
)

// resizeNormImage scales a crop to the model height keeping its aspect
// ratio, normalizes pixels to [-1, 1] in BGR plane order, and zero-pads
// the width out to batchW.
func resizeNormImage(img image.Image, channels, height, batchW int) ([]float32, error) {
	if channels != 3 {
		return nil, fmt.Errorf("recognizer: unsupported channel count %d", channels)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New("recognizer: empty crop")
	}

	ratio := float64(w) / float64(h)
	resizedW := int(math.Ceil(float64(height) * ratio))
	if resizedW > batchW {
		resizedW = batchW
	}

	resized := utils.ResizeLinear(img, resizedW, height)
	rb := resized.Bounds()

	plane := height * batchW
	out := make([]float32, channels*plane)
	for y := 0; y < height; y++ {
		for x := 0; x < resizedW; x++ {
			r, g, bl, _ := resized.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			out[y*batchW+x] = normPixel(bl)
			out[plane+y*batchW+x] = normPixel(g)
			out[2*plane+y*batchW+x] = normPixel(r)
		}
	}
	return out, nil
}

func normPixel(v uint32) float32 {
	return (float32(v>>8)/255.0 - 0.5) / 0.5
}
