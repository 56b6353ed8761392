package recognizer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeNormImageDimensions(t *testing.T) {
	// A 2:1 crop at model height 48 resizes to 96 wide inside a 320 batch.
	img := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	data, err := resizeNormImage(img, 3, 48, 320)
	require.NoError(t, err)
	assert.Len(t, data, 3*48*320)
}

func TestResizeNormImageWhitePixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	data, err := resizeNormImage(img, 3, 16, 64)
	require.NoError(t, err)

	// White maps to +1 in every channel inside the resized region.
	assert.InDelta(t, 1.0, data[0], 1e-5)
	plane := 16 * 64
	assert.InDelta(t, 1.0, data[plane], 1e-5)
	assert.InDelta(t, 1.0, data[2*plane], 1e-5)

	// The region beyond the resized width stays zero-padded.
	assert.Zero(t, data[32+5])
}

func TestResizeNormImageCapsAtBatchWidth(t *testing.T) {
	// An extremely wide crop cannot exceed the batch width.
	img := image.NewNRGBA(image.Rect(0, 0, 5000, 10))
	data, err := resizeNormImage(img, 3, 48, 320)
	require.NoError(t, err)
	assert.Len(t, data, 3*48*320)
}

func TestResizeNormImageEmptyCrop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	_, err := resizeNormImage(img, 3, 48, 320)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "rec.onnx"
	cfg.KeysPath = "keys.txt"
	assert.NoError(t, validateConfig(cfg))

	bad := cfg
	bad.ModelPath = ""
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.KeysPath = ""
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.BatchNum = 0
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.ImgShape = [3]int{3, 0, 320}
	assert.Error(t, validateConfig(bad))
}
