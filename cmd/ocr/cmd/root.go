// Package cmd implements the textflow command line interface.
package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "textflow",
	Short: "OCR pipeline for text detection and recognition",
	Long: `textflow runs a PP-OCRv5 style pipeline: DB text detection,
perspective rectification of each region, and CTC text recognition,
with optional per-word boxes.

Examples:
  textflow image photo.jpg
  textflow image scan.png --format json --word-boxes
  textflow image *.jpg --det-model models/det.onnx --rec-model models/rec.onnx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ., $HOME/.config/textflow)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("det-model", "models/det.onnx",
		"path to the detection ONNX model")
	rootCmd.PersistentFlags().String("rec-model", "models/rec.onnx",
		"path to the recognition ONNX model")
	rootCmd.PersistentFlags().String("rec-keys", "models/keys.txt",
		"path to the recognition character dictionary")
	rootCmd.PersistentFlags().Bool("gpu", false, "run inference on GPU")
	rootCmd.PersistentFlags().Int("gpu-device", 0, "GPU device id")

	mustBind("verbose", "verbose")
	mustBind("log_level", "log-level")
	mustBind("det_model", "det-model")
	mustBind("rec_model", "rec-model")
	mustBind("rec_keys", "rec-keys")
	mustBind("gpu", "gpu")
	mustBind("gpu_device", "gpu-device")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configureLogging()
	}
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("textflow")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/textflow")
		}
	}

	viper.SetEnvPrefix("TEXTFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

func configureLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	} else {
		switch viper.GetString("log_level") {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
