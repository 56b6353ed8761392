package pipeline

import (
	"image"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/textflow/internal/transform"
	"github.com/MeKo-Tech/textflow/internal/utils"
	"github.com/MeKo-Tech/textflow/internal/wordbox"
)

func TestBoundImageSidesLargeImageShrinks(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 4000, 1000))

	out, err := boundImageSides(img, 30, 2000, chain)
	require.NoError(t, err)

	b := out.Bounds()
	assert.LessOrEqual(t, max(b.Dx(), b.Dy()), 2000+16)
	assert.Zero(t, b.Dx()%32)
	assert.Zero(t, b.Dy()%32)
	assert.Equal(t, 1, chain.Len())
}

func TestBoundImageSidesSmallImageGrows(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 20))

	out, err := boundImageSides(img, 30, 2000, chain)
	require.NoError(t, err)

	b := out.Bounds()
	assert.GreaterOrEqual(t, min(b.Dx(), b.Dy()), 30-16)
	assert.Equal(t, 1, chain.Len())
}

func TestBoundImageSidesInRangeUntouched(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 640, 480))

	out, err := boundImageSides(img, 30, 2000, chain)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), out.Bounds())
	assert.Zero(t, chain.Len())
}

func TestBoundImageSidesRoundTripsCoordinates(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 4000, 3000))

	out, err := boundImageSides(img, 30, 2000, chain)
	require.NoError(t, err)

	// A point at the resized image's corner maps back to the source corner.
	b := out.Bounds()
	p := chain.InvertPoint(utils.Point{X: float64(b.Dx()), Y: float64(b.Dy())})
	assert.InDelta(t, 4000.0, p.X, 1e-9)
	assert.InDelta(t, 3000.0, p.Y, 1e-9)
}

func TestResizeRecordedTinyImageFails(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	_, err := resizeRecorded(img, 0.5, chain)
	assert.ErrorIs(t, err, ErrInvalidResize)
}

func TestApplyVerticalPaddingShortImage(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 200, 20))

	out := applyVerticalPadding(img, chain, 8, 30)

	// padding = |max(200/8, 30)*2 - 20| / 2 = 20
	b := out.Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 60, b.Dy())
	assert.Equal(t, 1, chain.Len())

	// A point in the padded frame maps up by the top margin.
	p := chain.InvertPoint(utils.Point{X: 50, Y: 30})
	assert.InDelta(t, 50.0, p.X, 1e-9)
	assert.InDelta(t, 10.0, p.Y, 1e-9)
}

func TestApplyVerticalPaddingWideImage(t *testing.T) {
	chain := transform.NewChain()
	// 1000x100 is 10:1, beyond the 8:1 ratio limit.
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 100))

	out := applyVerticalPadding(img, chain, 8, 30)
	assert.Greater(t, out.Bounds().Dy(), 100)
}

func TestApplyVerticalPaddingTallImageUntouched(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 200, 400))

	out := applyVerticalPadding(img, chain, 8, 30)
	assert.Equal(t, img.Bounds(), out.Bounds())
	// The no-op padding is still recorded.
	assert.Equal(t, 1, chain.Len())
}

func TestApplyVerticalPaddingRatioDisabled(t *testing.T) {
	chain := transform.NewChain()
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 100))

	out := applyVerticalPadding(img, chain, -1, 30)
	assert.Equal(t, img.Bounds(), out.Bounds())
}

func TestPaddingHeight(t *testing.T) {
	// max(200/8, 30)*2 = 60; |60-20|/2 = 20
	assert.Equal(t, 20, paddingHeight(20, 200, 8, 30))
	// Ratio-derived height below the minimum falls back to it.
	assert.Equal(t, 25, paddingHeight(10, 80, 8, 30))
}

func TestFilterByScore(t *testing.T) {
	boxes := []utils.Quad{
		{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		{{X: 0, Y: 20}, {X: 10, Y: 20}, {X: 10, Y: 30}, {X: 0, Y: 30}},
		{{X: 0, Y: 40}, {X: 10, Y: 40}, {X: 10, Y: 50}, {X: 0, Y: 50}},
	}
	texts := []string{"keep", "drop", "also keep"}
	scores := []float32{0.9, 0.3, 0.6}
	words := [][]wordbox.WordResult{
		{{Text: "keep"}},
		{{Text: "drop"}},
		{},
	}

	out := filterByScore(boxes, texts, scores, words, 0.5, slog.Default())

	require.Len(t, out.Texts, 2)
	assert.Equal(t, []string{"keep", "also keep"}, out.Texts)
	assert.Equal(t, []float32{0.9, 0.6}, out.Scores)
	require.Len(t, out.WordResults, 2)
	assert.Equal(t, "keep", out.WordResults[0][0].Text)
	assert.Empty(t, out.WordResults[1])
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, validateConfig(cfg))

	bad := cfg
	bad.MaxSideLen = 0
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.MinSideLen = 3000
	assert.Error(t, validateConfig(bad))

	bad = cfg
	bad.TextScore = 1.5
	assert.Error(t, validateConfig(bad))
}
