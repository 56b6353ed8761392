package detector

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/textflow/internal/onnx"
)

const (
	LimitTypeMin = "min"
	LimitTypeMax = "max"

	// minBoxSize is the smallest accepted short side, in mask pixels, of
	// a fitted candidate rectangle.
	minBoxSize = 3.0
)

// Config holds configuration for the text detector.
type Config struct {
	ModelPath     string     // Path to the ONNX detection model
	Thresh        float32    // Binarization threshold on the probability map (default: 0.3)
	BoxThresh     float32    // Minimum mean score inside a candidate box (default: 0.5)
	MaxCandidates int        // Upper bound on contours considered per image (default: 1000)
	UnclipRatio   float64    // Outward expansion ratio for fitted boxes (default: 1.6)
	UseDilation   bool       // Dilate the binary mask with a 2x2 kernel (default: true)
	LimitSideLen  int        // Side-length constraint for input resizing (default: 736)
	LimitType     string     // "min" or "max" side constraint (default: "min")
	Mean          [3]float32 // Per-channel normalization mean, BGR order
	Std           [3]float32 // Per-channel normalization std, BGR order
	NumThreads    int        // CPU threads for inference (0 = runtime default)
	GPU           onnx.GPUConfig
}

// DefaultConfig returns the detector configuration tuned for the
// PP-OCRv5 mobile detection model.
func DefaultConfig() Config {
	return Config{
		Thresh:        0.3,
		BoxThresh:     0.5,
		MaxCandidates: 1000,
		UnclipRatio:   1.6,
		UseDilation:   true,
		LimitSideLen:  736,
		LimitType:     LimitTypeMin,
		Mean:          [3]float32{0.5, 0.5, 0.5},
		Std:           [3]float32{0.5, 0.5, 0.5},
	}
}

func validateConfig(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path cannot be empty")
	}
	if cfg.LimitType != LimitTypeMin && cfg.LimitType != LimitTypeMax {
		return fmt.Errorf("invalid limit type %q", cfg.LimitType)
	}
	if cfg.MaxCandidates <= 0 {
		return fmt.Errorf("max candidates must be positive, got %d", cfg.MaxCandidates)
	}
	if cfg.UnclipRatio <= 0 {
		return fmt.Errorf("unclip ratio must be positive, got %v", cfg.UnclipRatio)
	}
	for i := range cfg.Std {
		if cfg.Std[i] == 0 {
			return fmt.Errorf("std channel %d must be non-zero", i)
		}
	}
	return nil
}
