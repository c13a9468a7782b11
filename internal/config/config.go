// Package config holds the process configuration: defaults, environment
// overrides and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-adjust-mcp/internal/chart"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel       = "IMAGE_ADJUST_LOG_LEVEL"
	EnvBackend        = "IMAGE_ADJUST_BACKEND"
	EnvMaxWidth       = "IMAGE_ADJUST_MAX_WIDTH"
	EnvMaxUploadBytes = "IMAGE_ADJUST_MAX_UPLOAD_BYTES"
	EnvMaxPixels      = "IMAGE_ADJUST_MAX_PIXELS"
)

// Defaults.
const (
	DefaultLogLevel       = "info"
	DefaultMaxWidth       = 1024
	DefaultMaxUploadBytes = 50 << 20
	DefaultMaxPixels      = 50_000_000
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete process configuration.
type Config struct {
	// LogLevel is any level name logrus understands.
	LogLevel string
	// Backend names the vision toolkit, see vision.Backends.
	Backend string
	// MaxWidth caps the width of returned preview images. Zero disables
	// downscaling.
	MaxWidth int
	// MaxUploadBytes caps the size of an image file accepted for decoding.
	MaxUploadBytes int64
	// MaxPixels caps the width*height of an image accepted for decoding.
	MaxPixels int64
	// Chart styles the histogram chart.
	Chart chart.Theme
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       DefaultLogLevel,
		Backend:        vision.DefaultBackend,
		MaxWidth:       DefaultMaxWidth,
		MaxUploadBytes: DefaultMaxUploadBytes,
		MaxPixels:      DefaultMaxPixels,
		Chart:          chart.DefaultTheme(),
	}
}

// FromEnv returns Default overridden by any IMAGE_ADJUST_* variables set in
// the environment. The result is not validated.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvBackend); ok && v != "" {
		cfg.Backend = v
	}
	if v, ok := lookup(EnvMaxWidth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvMaxWidth, v, err)
		}
		cfg.MaxWidth = n
	}
	if v, ok := lookup(EnvMaxUploadBytes); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvMaxUploadBytes, v, err)
		}
		cfg.MaxUploadBytes = n
	}
	if v, ok := lookup(EnvMaxPixels); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvMaxPixels, v, err)
		}
		cfg.MaxPixels = n
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}
	if !slices.Contains(vision.Backends(), c.Backend) {
		return fmt.Errorf("%w: backend %q is not available (have %v)", ErrInvalid, c.Backend, vision.Backends())
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("%w: max width must be >= 0, got %d", ErrInvalid, c.MaxWidth)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max upload bytes must be > 0, got %d", ErrInvalid, c.MaxUploadBytes)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("%w: max pixels must be > 0, got %d", ErrInvalid, c.MaxPixels)
	}
	if err := c.Chart.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Limits returns the decode limits for uploaded images.
func (c Config) Limits() imaging.Limits {
	return imaging.Limits{MaxBytes: c.MaxUploadBytes, MaxPixels: c.MaxPixels}
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
