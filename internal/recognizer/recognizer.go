package recognizer

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/MeKo-Tech/textflow/internal/onnx"
)

// Result holds recognition output aligned 1:1 with the input crops.
type Result struct {
	Texts  []string
	Scores []float32

	// WordInfos is populated only when word boxes were requested; nil
	// entries mark crops that produced no structure.
	WordInfos []*WordInfo

	Elapsed time.Duration
}

// Recognizer runs the CTC text recognition model over line crops.
type Recognizer struct {
	cfg     Config
	session *onnx.Session
	dict    *Dictionary
	logger  *slog.Logger
}

// New loads the recognition model and its character dictionary.
func New(cfg Config, logger *slog.Logger) (*Recognizer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	dict, err := LoadDictionary(cfg.KeysPath)
	if err != nil {
		return nil, err
	}
	session, err := onnx.NewSession(cfg.ModelPath, cfg.NumThreads, cfg.GPU)
	if err != nil {
		return nil, fmt.Errorf("recognizer: loading model: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{
		cfg:     cfg,
		session: session,
		dict:    dict,
		logger:  logger.With("component", "recognizer"),
	}, nil
}

// Run recognizes every crop and returns texts in input order. Crops are
// processed in batches sorted by aspect ratio so each batch pads to the
// width of its widest member rather than the global maximum.
func (r *Recognizer) Run(imgs []image.Image, wordBoxes bool) (*Result, error) {
	start := time.Now()

	n := len(imgs)
	if n == 0 {
		return &Result{}, nil
	}

	ratios := make([]float64, n)
	for i, img := range imgs {
		b := img.Bounds()
		h := max(b.Dy(), 1)
		ratios[i] = float64(b.Dx()) / float64(h)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ratios[order[a]] < ratios[order[b]]
	})

	texts := make([]string, n)
	scores := make([]float32, n)
	var infos []*WordInfo
	if wordBoxes {
		infos = make([]*WordInfo, n)
	}

	imgC, imgH, imgW := r.cfg.ImgShape[0], r.cfg.ImgShape[1], r.cfg.ImgShape[2]
	baseRatio := float64(imgW) / float64(imgH)

	for beg := 0; beg < n; beg += r.cfg.BatchNum {
		end := min(beg+r.cfg.BatchNum, n)

		maxRatio := baseRatio
		for _, idx := range order[beg:end] {
			if ratios[idx] > maxRatio {
				maxRatio = ratios[idx]
			}
		}
		batchW := int(math.Round(float64(imgH) * maxRatio))

		batch := make([][]float32, 0, end-beg)
		for _, idx := range order[beg:end] {
			data, err := resizeNormImage(imgs[idx], imgC, imgH, batchW)
			if err != nil {
				return nil, fmt.Errorf("recognizer: crop %d: %w", idx, err)
			}
			batch = append(batch, data)
		}

		in, err := onnx.BatchTensor(batch, imgC, imgH, batchW)
		if err != nil {
			return nil, err
		}
		out, err := r.session.Run(in)
		if err != nil {
			return nil, err
		}
		if len(out.Shape) != 3 {
			return nil, fmt.Errorf("recognizer: output rank %d, want 3", len(out.Shape))
		}
		bn, steps, classes := out.Dim(0), out.Dim(1), out.Dim(2)
		if bn != len(batch) {
			return nil, fmt.Errorf("recognizer: output batch %d, want %d", bn, len(batch))
		}

		per := steps * classes
		for i := 0; i < bn; i++ {
			line := r.dict.DecodeGreedy(out.Data[i*per:(i+1)*per], steps, classes)
			idx := order[beg+i]
			texts[idx] = line.Text
			scores[idx] = line.Confidence

			if wordBoxes {
				info := BuildWordInfo(line, r.cfg.WordGapCols)
				if steps > 0 && maxRatio > 0 {
					info.LineTxtLen = float32(steps) * float32(ratios[idx]/maxRatio)
				}
				info.Confs = line.Confs
				infos[idx] = &info
			}
		}
	}

	elapsed := time.Since(start)
	r.logger.Debug("recognition complete", "lines", n, "elapsed", elapsed)

	return &Result{
		Texts:     texts,
		Scores:    scores,
		WordInfos: infos,
		Elapsed:   elapsed,
	}, nil
}

// Close releases the model session.
func (r *Recognizer) Close() error {
	if r == nil || r.session == nil {
		return nil
	}
	return r.session.Close()
}
