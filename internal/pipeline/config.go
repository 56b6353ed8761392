// Package pipeline wires detection, rectification, recognition, and
// word-box reconstruction into a single OCR run.
package pipeline

import (
	"fmt"

	"github.com/MeKo-Tech/textflow/internal/detector"
	"github.com/MeKo-Tech/textflow/internal/recognizer"
)

// Config holds the end-to-end OCR settings.
type Config struct {
	Detector   detector.Config
	Recognizer recognizer.Config

	// TextScore drops recognized lines below this confidence.
	TextScore float32

	// MinHeight triggers vertical letterboxing for short images.
	MinHeight int

	// WidthHeightRatio triggers vertical letterboxing for images wider
	// than this many times their height. -1 disables the ratio check.
	WidthHeightRatio float64

	// MaxSideLen and MinSideLen bound the working image size before
	// detection.
	MaxSideLen int
	MinSideLen int

	// ReturnWordBox computes per-word boxes alongside line results.
	ReturnWordBox bool

	// SingleCharBoxes splits Latin and digit words into per-character
	// boxes instead of one box per word.
	SingleCharBoxes bool
}

// DefaultConfig returns the PP-OCRv5 pipeline settings.
func DefaultConfig() Config {
	return Config{
		Detector:         detector.DefaultConfig(),
		Recognizer:       recognizer.DefaultConfig(),
		TextScore:        0.5,
		MinHeight:        30,
		WidthHeightRatio: 8,
		MaxSideLen:       2000,
		MinSideLen:       30,
	}
}

func validateConfig(cfg Config) error {
	if cfg.MaxSideLen <= 0 {
		return fmt.Errorf("pipeline: max side length must be positive, got %d", cfg.MaxSideLen)
	}
	if cfg.MinSideLen <= 0 {
		return fmt.Errorf("pipeline: min side length must be positive, got %d", cfg.MinSideLen)
	}
	if cfg.MinSideLen > cfg.MaxSideLen {
		return fmt.Errorf("pipeline: min side %d exceeds max side %d", cfg.MinSideLen, cfg.MaxSideLen)
	}
	if cfg.TextScore < 0 || cfg.TextScore > 1 {
		return fmt.Errorf("pipeline: text score must be in [0, 1], got %g", cfg.TextScore)
	}
	return nil
}
