package rectify

import (
	"image"
	"image/color"
	"math"
)

// WarpPerspective renders the dstW x dstH view of src under the given
// forward transform. Each destination pixel is mapped back through the
// inverse transform; samples fully inside the source are interpolated
// bilinearly, samples straddling the border fall back to the nearest
// pixel, and everything else stays background.
func WarpPerspective(src image.Image, m Homography, dstW, dstH int) (*image.NRGBA, error) {
	inv, err := m.Invert()
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))

	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sx, sy := inv.Apply(float64(x), float64(y))
			x0 := int(math.Floor(sx))
			y0 := int(math.Floor(sy))

			switch {
			case x0 >= 0 && x0+1 < srcW && y0 >= 0 && y0+1 < srcH:
				dst.SetNRGBA(x, y, bilinearSample(src, sx, sy, x0, y0))
			case x0 >= 0 && x0 < srcW && y0 >= 0 && y0 < srcH:
				dst.Set(x, y, src.At(b.Min.X+x0, b.Min.Y+y0))
			}
		}
	}
	return dst, nil
}

func bilinearSample(src image.Image, sx, sy float64, x0, y0 int) color.NRGBA {
	b := src.Bounds()
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	r00, g00, b00, a00 := channels(src.At(b.Min.X+x0, b.Min.Y+y0))
	r10, g10, b10, a10 := channels(src.At(b.Min.X+x0+1, b.Min.Y+y0))
	r01, g01, b01, a01 := channels(src.At(b.Min.X+x0, b.Min.Y+y0+1))
	r11, g11, b11, a11 := channels(src.At(b.Min.X+x0+1, b.Min.Y+y0+1))

	blend := func(c00, c10, c01, c11 float64) uint8 {
		top := lerp(c00, c10, fx)
		bot := lerp(c01, c11, fx)
		return uint8(math.Round(lerp(top, bot, fy)))
	}
	return color.NRGBA{
		R: blend(r00, r10, r01, r11),
		G: blend(g00, g10, g01, g11),
		B: blend(b00, b10, b01, b11),
		A: blend(a00, a10, a01, a11),
	}
}

func channels(c color.Color) (float64, float64, float64, float64) {
	r, g, b, a := c.RGBA()
	return float64(r >> 8), float64(g >> 8), float64(b >> 8), float64(a >> 8)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
