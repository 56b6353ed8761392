package detector

import (
	"math"

	"github.com/MeKo-Tech/textflow/internal/mempool"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// PostProcessor turns a DB probability map into detection quads. Every
// per-candidate rejection is silent; an image with no surviving
// candidates yields an empty result, not an error.
type PostProcessor struct {
	Thresh        float32
	BoxThresh     float32
	MaxCandidates int
	UnclipRatio   float64
	MinSize       float64
	UseDilation   bool
}

// NewPostProcessor builds a post-processor from detector configuration.
func NewPostProcessor(cfg Config) *PostProcessor {
	return &PostProcessor{
		Thresh:        cfg.Thresh,
		BoxThresh:     cfg.BoxThresh,
		MaxCandidates: cfg.MaxCandidates,
		UnclipRatio:   cfg.UnclipRatio,
		MinSize:       minBoxSize,
		UseDilation:   cfg.UseDilation,
	}
}

// Process extracts detection boxes from a probability map of maskW x
// maskH values and rescales them into destW x destH coordinates.
// Returned quads are canonically ordered, clipped, and paired 1:1 with
// their mean-probability scores.
func (p *PostProcessor) Process(pred []float32, maskW, maskH, destW, destH int) ([]utils.Quad, []float32) {
	if maskW <= 0 || maskH <= 0 || len(pred) < maskW*maskH {
		return nil, nil
	}

	mask := mempool.GetBool(maskW * maskH)
	defer mempool.PutBool(mask)
	for i := 0; i < maskW * maskH; i++ {
		mask[i] = pred[i] > p.Thresh
	}

	if p.UseDilation {
		dilated := dilate2x2(mask, maskW, maskH)
		defer mempool.PutBool(dilated)
		mask = dilated
	}

	contours := FindContours(mask, maskW, maskH)
	limit := len(contours)
	if limit > p.MaxCandidates {
		limit = p.MaxCandidates
	}

	var quads []utils.Quad
	var scores []float32
	for _, contour := range contours[:limit] {
		if contour.Len() < 4 {
			continue
		}

		rect, err := utils.MinAreaRect(contour.Points)
		if err != nil || rect.ShortSide() < p.MinSize {
			continue
		}
		fitted := utils.OrderQuad(utils.BoxPoints(rect))

		score := p.boxScore(pred, fitted, maskW, maskH)
		if score < p.BoxThresh {
			continue
		}

		expanded := p.unclip(fitted)
		if len(expanded) < 4 {
			continue
		}

		refit, err := utils.MinAreaRect(expanded)
		if err != nil || refit.ShortSide() < p.MinSize+2.0 {
			continue
		}
		quad := utils.OrderQuad(utils.BoxPoints(refit))

		quad = rescaleQuad(quad, maskW, maskH, destW, destH)
		quad = utils.OrderQuad([4]utils.Point(quad)).Clip(destW, destH)

		w := int(utils.Distance(quad[0], quad[1]))
		h := int(utils.Distance(quad[0], quad[3]))
		if w <= 3 || h <= 3 {
			continue
		}

		quads = append(quads, quad)
		scores = append(scores, score)
	}
	return quads, scores
}

// dilate2x2 grows foreground by taking the max over each pixel's 2x2
// forward neighborhood, edge-clamped.
func dilate2x2(mask []bool, width, height int) []bool {
	out := mempool.GetBool(width * height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := mask[y*width+x]
			if !v && x+1 < width {
				v = mask[y*width+x+1]
			}
			if !v && y+1 < height {
				v = mask[(y+1)*width+x]
			}
			if !v && x+1 < width && y+1 < height {
				v = mask[(y+1)*width+x+1]
			}
			out[y*width+x] = v
		}
	}
	return out
}

// boxScore is the mean probability over mask pixels whose centers fall
// inside the quad.
func (p *PostProcessor) boxScore(pred []float32, quad utils.Quad, width, height int) float32 {
	bb := quad.Bounds()
	xmin := clamp(int(math.Floor(bb.MinX)), 0, width-1)
	xmax := clamp(int(math.Ceil(bb.MaxX)), 0, width-1)
	ymin := clamp(int(math.Floor(bb.MinY)), 0, height-1)
	ymax := clamp(int(math.Ceil(bb.MaxY)), 0, height-1)
	if xmin >= xmax || ymin >= ymax {
		return 0
	}

	var sum float32
	var count int
	for y := ymin; y <= ymax; y++ {
		for x := xmin; x <= xmax; x++ {
			if utils.PointInPolygon(float64(x)+0.5, float64(y)+0.5, quad[:]) {
				sum += pred[y*width+x]
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float32(count)
}

// unclip expands the quad outward by area*ratio/perimeter. Degenerate
// geometry falls back to the original 4 points.
func (p *PostProcessor) unclip(quad utils.Quad) []utils.Point {
	ring := quad[:]
	area := utils.PolygonArea(ring)
	perimeter := utils.PolygonPerimeter(ring)
	if area <= 0 || perimeter <= 0 {
		return append([]utils.Point(nil), ring...)
	}

	distance := area * p.UnclipRatio / perimeter
	expanded := utils.OffsetPolygon(ring, distance, 2.0)
	return utils.StripClosingPoint(expanded, 0.01)
}

func rescaleQuad(q utils.Quad, maskW, maskH, destW, destH int) utils.Quad {
	rw := float64(destW) / float64(maskW)
	rh := float64(destH) / float64(maskH)
	for i := range q {
		q[i].X = math.Min(math.Max(math.Round(q[i].X*rw), 0), float64(destW))
		q[i].Y = math.Min(math.Max(math.Round(q[i].Y*rh), 0), float64(destH))
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
