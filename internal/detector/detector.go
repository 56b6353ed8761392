// Package detector runs DB-style text detection: it resizes and
// normalizes an image, feeds it through an ONNX model, and converts the
// resulting probability map into scored text-region quads.
package detector

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"time"

	"github.com/MeKo-Tech/textflow/internal/mempool"
	"github.com/MeKo-Tech/textflow/internal/onnx"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

// Result holds the detections for one image, in reading order. Quads
// are in network-input coordinates of the image handed to Detect.
type Result struct {
	Quads   []utils.Quad
	Scores  []float32
	Elapsed time.Duration
}

// Detector wraps a detection model session with its pre- and
// post-processing.
type Detector struct {
	cfg     Config
	session *onnx.Session
	post    *PostProcessor
	logger  *slog.Logger
}

// New loads the detection model and prepares a detector.
func New(cfg Config, logger *slog.Logger) (*Detector, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	session, err := onnx.NewSession(cfg.ModelPath, cfg.NumThreads, cfg.GPU)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	return &Detector{
		cfg:     cfg,
		session: session,
		post:    NewPostProcessor(cfg),
		logger:  logger.With("component", "detector"),
	}, nil
}

// Detect runs detection on a single image. Quads are returned in the
// image's own coordinate space, sorted top-to-bottom then
// left-to-right. An image with no text yields an empty result.
func (d *Detector) Detect(img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("detector: input image is nil")
	}
	start := time.Now()

	b := img.Bounds()
	oriW := b.Dx()
	oriH := b.Dy()

	resized, err := resizeForDetection(img, d.cfg)
	if err != nil {
		return nil, err
	}

	data, w, h := normalizeImage(resized, d.cfg.Mean, d.cfg.Std)
	defer mempool.PutFloat32(data)

	input, err := onnx.ImageTensor(data, 3, h, w)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	output, err := d.session.Run(input)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	if len(output.Shape) != 4 {
		return nil, fmt.Errorf("detector: expected 4D output, got %dD", len(output.Shape))
	}
	maskH := output.Dim(2)
	maskW := output.Dim(3)

	quads, scores := d.post.Process(output.Data, maskW, maskH, oriW, oriH)
	sortDetections(quads, scores)

	elapsed := time.Since(start)
	d.logger.Debug("detection complete",
		"boxes", len(quads),
		"input", fmt.Sprintf("%dx%d", w, h),
		"duration", elapsed)

	return &Result{Quads: quads, Scores: scores, Elapsed: elapsed}, nil
}

// Close releases the model session.
func (d *Detector) Close() error {
	if d == nil {
		return nil
	}
	return d.session.Close()
}

// sortDetections orders boxes by the integer row of their top-left
// corner, then by its column, keeping scores aligned.
func sortDetections(quads []utils.Quad, scores []float32) {
	idx := make([]int, len(quads))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		qa, qb := quads[idx[a]], quads[idx[b]]
		ya, yb := int(qa[0].Y), int(qb[0].Y)
		if ya != yb {
			return ya < yb
		}
		return int(qa[0].X) < int(qb[0].X)
	})

	sortedQuads := make([]utils.Quad, len(quads))
	sortedScores := make([]float32, len(scores))
	for i, j := range idx {
		sortedQuads[i] = quads[j]
		sortedScores[i] = scores[j]
	}
	copy(quads, sortedQuads)
	copy(scores, sortedScores)
}
