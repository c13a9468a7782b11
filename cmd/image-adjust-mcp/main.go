package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-adjust-mcp/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "image-adjust-mcp",
	Short: "MCP server for HSV conversion, histograms, brightness/contrast and contours",
	Long: `image-adjust-mcp converts images to HSV, counts per-channel histograms,
adjusts brightness and contrast, and outlines external contours.

Run without a subcommand (or with "serve") to speak the MCP protocol over
stdin/stdout. Use "process" to write every artifact of one image to disk.

Environment variables:
  IMAGE_ADJUST_LOG_LEVEL         Log level (debug, info, warn, error)
  IMAGE_ADJUST_BACKEND           Vision backend (native, opencv)
  IMAGE_ADJUST_MAX_WIDTH         Maximum width of returned images, 0 for full size
  IMAGE_ADJUST_MAX_UPLOAD_BYTES  Largest image file accepted
  IMAGE_ADJUST_MAX_PIXELS        Largest image canvas (width*height) accepted`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("backend", "", "Vision backend (native, opencv); overrides IMAGE_ADJUST_BACKEND")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies the persistent flags and
// validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// initLogger builds the process logger. Logs go to stderr because stdout
// carries MCP frames.
func initLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.Level())

	if cfg.Level() >= logrus.DebugLevel {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
