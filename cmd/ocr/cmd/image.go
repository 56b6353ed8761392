package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/textflow/internal/onnx"
	"github.com/MeKo-Tech/textflow/internal/pipeline"
	"github.com/MeKo-Tech/textflow/internal/utils"
)

const (
	outputFormatText = "text"
	outputFormatJSON = "json"
)

// imageCmd processes image files through the OCR pipeline.
var imageCmd = &cobra.Command{
	Use:   "image [files...]",
	Short: "Run OCR on one or more image files",
	Long: `Run text detection and recognition on image files.

Supported formats: JPEG, PNG, BMP, TIFF, GIF

Examples:
  textflow image photo.jpg
  textflow image scan.png --format json
  textflow image receipt.jpg --word-boxes --single-char-boxes`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runImage,
}

func init() {
	imageCmd.Flags().String("format", outputFormatText, "output format (text, json)")
	imageCmd.Flags().Float32("text-score", pipeline.DefaultConfig().TextScore,
		"minimum recognition confidence to keep a line")
	imageCmd.Flags().Bool("word-boxes", false, "compute per-word boxes")
	imageCmd.Flags().Bool("single-char-boxes", false,
		"split Latin and digit words into per-character boxes")

	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input files provided")
	}

	format, _ := cmd.Flags().GetString("format")
	if format != outputFormatText && format != outputFormatJSON {
		return fmt.Errorf("invalid output format: %s (must be text or json)", format)
	}
	textScore, _ := cmd.Flags().GetFloat32("text-score")
	if textScore < 0 || textScore > 1 {
		return fmt.Errorf("invalid text score: %.2f (must be between 0.0 and 1.0)", textScore)
	}
	wordBoxes, _ := cmd.Flags().GetBool("word-boxes")
	singleCharBoxes, _ := cmd.Flags().GetBool("single-char-boxes")

	cfg := pipeline.DefaultConfig()
	cfg.Detector.ModelPath = viper.GetString("det_model")
	cfg.Recognizer.ModelPath = viper.GetString("rec_model")
	cfg.Recognizer.KeysPath = viper.GetString("rec_keys")
	cfg.TextScore = textScore
	cfg.ReturnWordBox = wordBoxes
	cfg.SingleCharBoxes = singleCharBoxes

	gpu := onnx.GPUConfig{
		UseGPU:   viper.GetBool("gpu"),
		DeviceID: viper.GetInt("gpu_device"),
	}
	cfg.Detector.GPU = gpu
	cfg.Recognizer.GPU = gpu

	p, err := pipeline.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := p.Close(); closeErr != nil {
			slog.Warn("closing pipeline", "error", closeErr)
		}
	}()

	for _, path := range args {
		result, runErr := p.RunFile(path)
		if runErr != nil {
			return fmt.Errorf("%s: %w", path, runErr)
		}
		if err := printResult(cmd, format, path, result); err != nil {
			return err
		}
	}
	return nil
}

type jsonWord struct {
	Text       string       `json:"text"`
	Confidence float32      `json:"confidence"`
	Box        [][2]float64 `json:"box"`
}

type jsonLine struct {
	Text       string       `json:"text"`
	Confidence float32      `json:"confidence"`
	Box        [][2]float64 `json:"box"`
	Words      []jsonWord   `json:"words,omitempty"`
}

type jsonResult struct {
	File  string     `json:"file"`
	Lines []jsonLine `json:"lines"`
}

func printResult(cmd *cobra.Command, format, path string, result *pipeline.Result) error {
	out := cmd.OutOrStdout()

	if format == outputFormatText {
		fmt.Fprintf(out, "%s: %d line(s)\n", path, len(result.Texts))
		for i, txt := range result.Texts {
			fmt.Fprintf(out, "  [%.3f] %s\n", result.Scores[i], txt)
			for _, w := range result.WordResults[i] {
				fmt.Fprintf(out, "    %-12s %.3f %s\n", w.Text, w.Confidence, formatQuad(w.Box))
			}
		}
		return nil
	}

	doc := jsonResult{File: path, Lines: make([]jsonLine, 0, len(result.Texts))}
	for i, txt := range result.Texts {
		line := jsonLine{
			Text:       txt,
			Confidence: result.Scores[i],
			Box:        quadPoints(result.Boxes[i]),
		}
		for _, w := range result.WordResults[i] {
			line.Words = append(line.Words, jsonWord{
				Text:       w.Text,
				Confidence: w.Confidence,
				Box:        quadPoints(w.Box),
			})
		}
		doc.Lines = append(doc.Lines, line)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func quadPoints(q utils.Quad) [][2]float64 {
	pts := make([][2]float64, 0, 4)
	for _, p := range q {
		pts = append(pts, [2]float64{p.X, p.Y})
	}
	return pts
}

func formatQuad(q utils.Quad) string {
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%.1f,%.1f)", p.X, p.Y)
	}
	return sb.String()
}
