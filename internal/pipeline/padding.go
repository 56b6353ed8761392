package pipeline

import (
	"image"

	"github.com/MeKo-Tech/textflow/internal/transform"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// applyVerticalPadding letterboxes short or very wide images above and
// below so the detector sees enough vertical context. The padding is
// recorded on the chain even when zero.
func applyVerticalPadding(img image.Image, chain *transform.Chain, whRatio float64, minHeight int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	useLimitRatio := whRatio != -1 && float64(w)/float64(h) > whRatio
	if h > minHeight && !useLimitRatio {
		chain.RecordPad(0, 0)
		return img
	}

	padH := paddingHeight(h, w, whRatio, minHeight)
	chain.RecordPad(float64(padH), 0)
	return utils.PadImage(img, padH, padH, 0, 0)
}

// paddingHeight sizes the letterbox so the padded height reaches twice
// the larger of the ratio-derived height and the minimum height.
func paddingHeight(h, w int, whRatio float64, minHeight int) int {
	newH := max(int(float64(w)/whRatio), minHeight) * 2
	d := newH - h
	if d < 0 {
		d = -d
	}
	return d / 2
}
