// Package recognizer turns rectified text-line crops into strings via
// a CTC recognition model.
package recognizer

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/textflow/internal/onnx"
)

// Config holds text recognition settings.
type Config struct {
	// ModelPath locates the recognition ONNX model.
	ModelPath string

	// KeysPath locates the character dictionary, one token per line.
	KeysPath string

	// ImgShape is the model input as [channels, height, width]. The
	// width acts as a lower bound; wide crops extend the batch width.
	ImgShape [3]int

	// BatchNum is the number of crops recognized per model call.
	BatchNum int

	// WordGapCols is the column jump that starts a new word during
	// word-info extraction; zero selects DefaultWordGapCols.
	WordGapCols int

	NumThreads int
	GPU        onnx.GPUConfig
}

// DefaultConfig returns settings matching the PP-OCRv5 recognition model.
func DefaultConfig() Config {
	return Config{
		ImgShape:    [3]int{3, 48, 320},
		BatchNum:    6,
		WordGapCols: DefaultWordGapCols,
	}
}

func validateConfig(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("recognizer: model path is required")
	}
	if cfg.KeysPath == "" {
		return errors.New("recognizer: keys path is required")
	}
	for i, v := range cfg.ImgShape {
		if v <= 0 {
			return fmt.Errorf("recognizer: image shape dimension %d must be positive, got %d", i, v)
		}
	}
	if cfg.BatchNum <= 0 {
		return fmt.Errorf("recognizer: batch size must be positive, got %d", cfg.BatchNum)
	}
	return nil
}
