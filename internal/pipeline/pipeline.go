package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/textflow/internal/detector"
	"github.com/MeKo-Tech/textflow/internal/recognizer"
	"github.com/MeKo-Tech/textflow/internal/rectify"
	"github.com/MeKo-Tech/textflow/internal/transform"
	"github.com/MeKo-Tech/textflow/internal/utils"
	"github.com/MeKo-Tech/textflow/internal/wordbox"
)

// Result holds the OCR output for one image. All slices are aligned;
// boxes are in the source image's coordinate space.
type Result struct {
	Boxes       []utils.Quad
	Texts       []string
	Scores      []float32
	WordResults [][]wordbox.WordResult

	DetectElapsed    time.Duration
	RecognizeElapsed time.Duration
}

// Pipeline owns the detection and recognition models and runs the full
// OCR flow over single images.
type Pipeline struct {
	cfg    Config
	det    *detector.Detector
	rec    *recognizer.Recognizer
	logger *slog.Logger
}

// New loads both models. The returned pipeline must be closed.
func New(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	det, err := detector.New(cfg.Detector, logger)
	if err != nil {
		return nil, err
	}
	rec, err := recognizer.New(cfg.Recognizer, logger)
	if err != nil {
		_ = det.Close()
		return nil, err
	}

	return &Pipeline{
		cfg:    cfg,
		det:    det,
		rec:    rec,
		logger: logger.With("component", "pipeline"),
	}, nil
}

// RunFile opens an image file and runs OCR on it.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening image: %w", err)
	}
	return p.Run(img)
}

// Run performs OCR on a single image: bound its size, letterbox it,
// detect text regions, rectify each region, recognize the text, and map
// everything back to source coordinates.
func (p *Pipeline) Run(img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("pipeline: input image is nil")
	}

	b := img.Bounds()
	oriW, oriH := b.Dx(), b.Dy()

	chain := transform.NewChain()
	bounded, err := boundImageSides(img, p.cfg.MinSideLen, p.cfg.MaxSideLen, chain)
	if err != nil {
		return nil, err
	}
	padded := applyVerticalPadding(bounded, chain, p.cfg.WidthHeightRatio, p.cfg.MinHeight)

	detRes, err := p.det.Detect(padded)
	if err != nil {
		return nil, err
	}
	if len(detRes.Quads) == 0 {
		p.logger.Debug("no text regions detected")
		return &Result{DetectElapsed: detRes.Elapsed}, nil
	}

	// Crops come from the padded frame; the boxes reported to the
	// caller are mapped back to the source frame.
	crops := make([]image.Image, 0, len(detRes.Quads))
	for i, q := range detRes.Quads {
		crop, cropErr := rectify.CropQuad(padded, q)
		if cropErr != nil {
			return nil, fmt.Errorf("pipeline: cropping region %d: %w", i, cropErr)
		}
		crops = append(crops, crop)
	}
	boxes := chain.ReplayInverse(detRes.Quads, oriW, oriH)

	recRes, err := p.rec.Run(crops, p.cfg.ReturnWordBox)
	if err != nil {
		return nil, err
	}

	var wordResults [][]wordbox.WordResult
	if p.cfg.ReturnWordBox {
		wordResults = wordbox.Calculate(boxes, recRes.Texts, recRes.WordInfos, p.cfg.SingleCharBoxes)
	} else {
		wordResults = make([][]wordbox.WordResult, len(boxes))
		for i := range wordResults {
			wordResults[i] = []wordbox.WordResult{}
		}
	}

	out := filterByScore(boxes, recRes.Texts, recRes.Scores, wordResults, p.cfg.TextScore, p.logger)
	out.DetectElapsed = detRes.Elapsed
	out.RecognizeElapsed = recRes.Elapsed

	p.logger.Debug("ocr complete",
		"detected", len(boxes),
		"kept", len(out.Boxes),
		"detect", detRes.Elapsed,
		"recognize", recRes.Elapsed)
	return out, nil
}

// Close releases both model sessions.
func (p *Pipeline) Close() error {
	if p == nil {
		return nil
	}
	return errors.Join(p.det.Close(), p.rec.Close())
}

// filterByScore drops lines whose recognition confidence falls below
// the threshold, keeping boxes, texts, scores, and word results aligned.
func filterByScore(boxes []utils.Quad, texts []string, scores []float32, words [][]wordbox.WordResult, threshold float32, logger *slog.Logger) *Result {
	out := &Result{}
	for i := range boxes {
		if scores[i] < threshold {
			logger.Debug("line rejected", "index", i, "score", scores[i], "text", texts[i])
			continue
		}
		out.Boxes = append(out.Boxes, boxes[i])
		out.Texts = append(out.Texts, texts[i])
		out.Scores = append(out.Scores, scores[i])
		if i < len(words) {
			out.WordResults = append(out.WordResults, words[i])
		} else {
			out.WordResults = append(out.WordResults, []wordbox.WordResult{})
		}
	}
	return out
}
