// Package wordbox maps recognized words back onto the image by slicing
// each detection quad along the CTC column axis.
package wordbox

import (
	"sort"
	"strings"

	"github.com/MeKo-Tech/textflow/internal/recognizer"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// WordResult is one word with its confidence and its quad in the same
// coordinate frame as the detection boxes.
type WordResult struct {
	Text       string
	Confidence float32
	Box        utils.Quad
}

type rect struct {
	x0, y0, x1, y1 float64
}

// Calculate produces per-word boxes for each detected line. Lines with
// empty text or no word structure yield an empty slice so the output
// stays aligned 1:1 with the detections. When singleCharBoxes is set,
// Latin and digit words split into per-character boxes like CJK text.
func Calculate(quads []utils.Quad, texts []string, infos []*recognizer.WordInfo, singleCharBoxes bool) [][]WordResult {
	num := min(len(quads), len(texts), len(infos))
	out := make([][]WordResult, 0, num)

	for idx := 0; idx < num; idx++ {
		txt := texts[idx]
		info := infos[idx]
		if txt == "" || info == nil || info.LineTxtLen <= 0 {
			out = append(out, []WordResult{})
			continue
		}

		bbox := quads[idx].Bounds()
		contents, rects, confs := calcWordRects(txt, bbox, info, singleCharBoxes)

		n := min(len(contents), len(rects), len(confs))
		line := make([]WordResult, 0, n)
		for i := 0; i < n; i++ {
			line = append(line, WordResult{
				Text:       contents[i],
				Confidence: confs[i],
				Box:        rectToQuad(quads[idx], bbox, rects[i]),
			})
		}
		out = append(out, line)
	}
	return out
}

// calcWordRects positions each word inside the line's bounding box
// using the average CTC column width.
func calcWordRects(txt string, bbox utils.Box, info *recognizer.WordInfo, singleCharBoxes bool) ([]string, []rect, []float32) {
	lineLen := float64(info.LineTxtLen)
	if lineLen < 1e-6 {
		lineLen = 1e-6
	}
	avgColWidth := bbox.Width() / lineLen

	allEnNum := true
	for _, t := range info.WordTypes {
		if t != recognizer.WordEnNum {
			allEnNum = false
			break
		}
	}
	mergeWords := allEnNum && !singleCharBoxes

	var wordCols [][]int
	var flatCols []int
	var charWidths []float64
	var contents []string

	for i, word := range info.Words {
		cols := info.WordCols[i]
		if mergeWords {
			wordCols = append(wordCols, cols)
			contents = append(contents, strings.Join(word, ""))
		} else {
			flatCols = append(flatCols, cols...)
			contents = append(contents, word...)
		}

		if len(cols) <= 1 {
			continue
		}
		charWidths = append(charWidths, avgCharWidth(cols, avgColWidth))
	}

	txtLen := len([]rune(txt))
	charWidth := overallCharWidth(charWidths, bbox, txtLen)

	var rects []rect
	if mergeWords {
		rects = mergedWordRects(wordCols, charWidth, avgColWidth, bbox)
	} else {
		rects = charRects(flatCols, charWidth, avgColWidth, bbox)
	}
	return contents, rects, info.Confs
}

// charRects builds one box per column index, centered on the column and
// clamped to the line box.
func charRects(cols []int, charWidth, colWidth float64, bbox utils.Box) []rect {
	rects := make([]rect, 0, len(cols))
	for _, col := range cols {
		center := (float64(col) + 0.5) * colWidth
		cx0 := center - charWidth/2
		cx1 := center + charWidth/2
		if cx0 < 0 {
			cx0 = 0
		}
		if cx1 > bbox.Width() {
			cx1 = bbox.Width()
		}
		rects = append(rects, rect{
			x0: bbox.MinX + cx0,
			y0: bbox.MinY,
			x1: bbox.MinX + cx1,
			y1: bbox.MaxY,
		})
	}
	sort.Slice(rects, func(a, b int) bool { return rects[a].x0 < rects[b].x0 })
	return rects
}

// mergedWordRects builds one box per word spanning its characters.
func mergedWordRects(wordCols [][]int, charWidth, colWidth float64, bbox utils.Box) []rect {
	rects := make([]rect, 0, len(wordCols))
	for _, cols := range wordCols {
		cells := charRects(cols, charWidth, colWidth, bbox)
		if len(cells) == 0 {
			continue
		}
		merged := cells[0]
		for _, c := range cells[1:] {
			merged.x0 = min(merged.x0, c.x0)
			merged.y0 = min(merged.y0, c.y0)
			merged.x1 = max(merged.x1, c.x1)
			merged.y1 = max(merged.y1, c.y1)
		}
		rects = append(rects, merged)
	}
	return rects
}

// avgCharWidth derives a character width from the column span of one word.
func avgCharWidth(cols []int, colWidth float64) float64 {
	if len(cols) <= 1 {
		return colWidth
	}
	span := float64(cols[len(cols)-1]-cols[0]) * colWidth
	return span / float64(len(cols)-1)
}

// overallCharWidth averages the per-word widths, falling back to an
// even split of the line box over the text length.
func overallCharWidth(widths []float64, bbox utils.Box, txtLen int) float64 {
	if txtLen == 0 {
		return 0
	}
	if len(widths) > 0 {
		var sum float64
		for _, w := range widths {
			sum += w
		}
		return sum / float64(len(widths))
	}
	return bbox.Width() / float64(txtLen)
}

// rectToQuad maps an axis-aligned rect inside the line's bounding box
// onto the (possibly rotated) detection quad by bilinear interpolation
// of its corners.
func rectToQuad(quad utils.Quad, bbox utils.Box, r rect) utils.Quad {
	width := bbox.Width()
	if width < 1e-6 {
		width = 1e-6
	}
	height := bbox.Height()
	if height < 1e-6 {
		height = 1e-6
	}

	u0 := (r.x0 - bbox.MinX) / width
	u1 := (r.x1 - bbox.MinX) / width
	v0 := (r.y0 - bbox.MinY) / height
	v1 := (r.y1 - bbox.MinY) / height

	return utils.Quad{
		bilinear(quad, u0, v0),
		bilinear(quad, u1, v0),
		bilinear(quad, u1, v1),
		bilinear(quad, u0, v1),
	}
}

func bilinear(q utils.Quad, u, v float64) utils.Point {
	top := lerpPoint(q[0], q[1], u)
	bottom := lerpPoint(q[3], q[2], u)
	return lerpPoint(top, bottom, v)
}

func lerpPoint(a, b utils.Point, t float64) utils.Point {
	return utils.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
