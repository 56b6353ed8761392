// Package testutil generates synthetic images for tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextImage renders dark text centered on a white canvas of the given
// size using the built-in 7x13 bitmap face.
func TextImage(text string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P((width-textWidth)/2, (height+textHeight)/2),
	}
	d.DrawString(text)
	return img
}

// TextLine renders a single text strip with a small margin around the
// glyphs, the shape a detector crop would have.
func TextLine(text string) *image.RGBA {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 8
	h := face.Metrics().Height.Ceil() + 8
	return TextImage(text, w, h)
}

// SolidImage returns a uniformly colored canvas.
func SolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// DarkPixelCount reports how many pixels fall below the luminance
// threshold, used to assert that rendered text survived a transform.
func DarkPixelCount(img image.Image, threshold uint8) int {
	b := img.Bounds()
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if c.Y < threshold {
				count++
			}
		}
	}
	return count
}
