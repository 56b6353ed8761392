package wordbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/textflow/internal/recognizer"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

func lineQuad() utils.Quad {
	return utils.Quad{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 20}, {X: 0, Y: 20}}
}

func latinInfo() *recognizer.WordInfo {
	return &recognizer.WordInfo{
		Words:      [][]string{{"h", "e", "l", "l", "o"}},
		WordCols:   [][]int{{0, 1, 2, 3, 4}},
		WordTypes:  []recognizer.WordType{recognizer.WordEnNum},
		LineTxtLen: 10,
		Confs:      []float32{0.9, 0.9, 0.9, 0.9, 0.9},
	}
}

func TestCalculateMergedLatinWord(t *testing.T) {
	results := Calculate(
		[]utils.Quad{lineQuad()},
		[]string{"hello"},
		[]*recognizer.WordInfo{latinInfo()},
		false,
	)
	require.Len(t, results, 1)
	require.Len(t, results[0], 1)

	w := results[0][0]
	assert.Equal(t, "hello", w.Text)
	assert.InDelta(t, 0.9, w.Confidence, 1e-6)

	// Five characters over ten columns of width 10 span columns 0-4.
	bb := w.Box.Bounds()
	assert.InDelta(t, 0.0, bb.MinX, 1e-6)
	assert.InDelta(t, 50.0, bb.MaxX, 1e-6)
	assert.InDelta(t, 0.0, bb.MinY, 1e-6)
	assert.InDelta(t, 20.0, bb.MaxY, 1e-6)
}

func TestCalculateSingleCharBoxes(t *testing.T) {
	results := Calculate(
		[]utils.Quad{lineQuad()},
		[]string{"hello"},
		[]*recognizer.WordInfo{latinInfo()},
		true,
	)
	require.Len(t, results, 1)
	require.Len(t, results[0], 5)

	// Character boxes are 10 wide and ascend left to right.
	for i, w := range results[0] {
		bb := w.Box.Bounds()
		assert.InDelta(t, 10.0, bb.Width(), 1e-6, "char %d", i)
		if i > 0 {
			prev := results[0][i-1].Box.Bounds()
			assert.Greater(t, bb.MinX, prev.MinX)
		}
	}
	assert.Equal(t, "h", results[0][0].Text)
	assert.Equal(t, "o", results[0][4].Text)
}

func TestCalculateCJKAlwaysPerCharacter(t *testing.T) {
	info := &recognizer.WordInfo{
		Words:      [][]string{{"中", "文"}},
		WordCols:   [][]int{{1, 3}},
		WordTypes:  []recognizer.WordType{recognizer.WordCJK},
		LineTxtLen: 8,
		Confs:      []float32{0.8, 0.7},
	}
	results := Calculate(
		[]utils.Quad{lineQuad()},
		[]string{"中文"},
		[]*recognizer.WordInfo{info},
		false,
	)
	require.Len(t, results, 1)
	require.Len(t, results[0], 2)
	assert.Equal(t, "中", results[0][0].Text)
	assert.InDelta(t, 0.8, results[0][0].Confidence, 1e-6)
}

func TestCalculateEmptyLinesStayAligned(t *testing.T) {
	quads := []utils.Quad{lineQuad(), lineQuad(), lineQuad()}
	texts := []string{"", "hi", "x"}
	infos := []*recognizer.WordInfo{
		latinInfo(),
		nil,
		{LineTxtLen: 0},
	}

	results := Calculate(quads, texts, infos, false)
	require.Len(t, results, 3)
	assert.Empty(t, results[0])
	assert.Empty(t, results[1])
	assert.Empty(t, results[2])
}

func TestRectToQuadRotatedLine(t *testing.T) {
	// A 45-degree line: word boxes follow the quad's orientation.
	quad := utils.Quad{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 40, Y: 60}, {X: -10, Y: 10}}
	bbox := quad.Bounds()

	full := rectToQuad(quad, bbox, rect{bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY})
	for i := range quad {
		assert.InDelta(t, quad[i].X, full[i].X, 1e-6)
		assert.InDelta(t, quad[i].Y, full[i].Y, 1e-6)
	}
}

func TestAvgCharWidth(t *testing.T) {
	assert.InDelta(t, 10.0, avgCharWidth([]int{0, 1, 2, 3, 4}, 10), 1e-9)
	assert.InDelta(t, 7.0, avgCharWidth([]int{5}, 7), 1e-9)
	// Columns 2 and 6 span 4 columns for one character interval.
	assert.InDelta(t, 40.0, avgCharWidth([]int{2, 6}, 10), 1e-9)
}

func TestOverallCharWidth(t *testing.T) {
	bbox := utils.NewBox(0, 0, 100, 20)
	assert.InDelta(t, 15.0, overallCharWidth([]float64{10, 20}, bbox, 5), 1e-9)
	assert.InDelta(t, 20.0, overallCharWidth(nil, bbox, 5), 1e-9)
	assert.Zero(t, overallCharWidth(nil, bbox, 0))
}
