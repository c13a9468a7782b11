package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// Bins is the number of intensity levels of an 8-bit channel.
const Bins = 256

// Contour is a closed boundary of a connected foreground region, stored as
// its chain-approximated vertices in tracing order.
type Contour []image.Point

// Histogram holds one 256-bin tally per channel, indexed in buffer channel
// order: 0 = blue, 1 = green, 2 = red.
type Histogram [imaging.Channels][Bins]int

// Sum returns the total count recorded for channel ch.
func (h *Histogram) Sum(ch int) int {
	total := 0
	for _, n := range h[ch] {
		total += n
	}
	return total
}

// Toolkit is the set of vision primitives the image-adjustment operations
// are built on. Each method takes its inputs by pointer but never modifies
// them, except DrawContours which draws into dst by contract.
//
// Implementations must be safe for concurrent use.
type Toolkit interface {
	// Name identifies the backend, e.g. "native" or "opencv".
	Name() string

	// BGRToHSV converts a BGR buffer to 8-bit HSV (H in [0,180)).
	BGRToHSV(src *imaging.Buffer) (*imaging.Buffer, error)

	// BGRToGray converts a BGR buffer to single-channel luminance.
	BGRToGray(src *imaging.Buffer) (*image.Gray, error)

	// Threshold applies a binary threshold: samples strictly greater than
	// thresh become maxValue, all others become 0.
	Threshold(src *image.Gray, thresh, maxValue uint8) (*image.Gray, error)

	// FindContours traces the external borders of the non-zero regions of
	// src, keeping only the corner vertices of each border.
	FindContours(src *image.Gray) ([]Contour, error)

	// Histogram counts the occurrences of each intensity per channel.
	Histogram(src *imaging.Buffer) (*Histogram, error)

	// ConvertScale computes saturate(round(src*alpha + beta)) per sample.
	ConvertScale(src *imaging.Buffer, alpha, beta float64) (*imaging.Buffer, error)

	// DrawContours strokes every contour as a closed polyline onto dst.
	DrawContours(dst *imaging.Buffer, contours []Contour, c color.RGBA, thickness int) error
}

// ErrUnknownBackend is returned by New for a backend name that is not
// compiled into the binary.
var ErrUnknownBackend = errors.New("unknown vision backend")

// DefaultBackend is the backend used when no name is configured.
const DefaultBackend = "native"

var (
	backendsMu sync.RWMutex
	backends   = map[string]func() Toolkit{
		DefaultBackend: func() Toolkit { return NewNative() },
	}
)

// register makes a backend constructor available to New. Backends that need
// cgo register themselves from files guarded by build tags.
func register(name string, factory func() Toolkit) {
	backendsMu.Lock()
	backends[name] = factory
	backendsMu.Unlock()
}

// New returns the toolkit registered under name. An empty name selects
// DefaultBackend.
func New(name string) (Toolkit, error) {
	if name == "" {
		name = DefaultBackend
	}
	backendsMu.RLock()
	factory, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return factory(), nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkGray validates a single-channel input.
func checkGray(op string, g *image.Gray) error {
	if g == nil {
		return fmt.Errorf("%s: %w: nil gray image", op, imaging.ErrShapeMismatch)
	}
	b := g.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%s: %w: zero dimension", op, imaging.ErrShapeMismatch)
	}
	return nil
}
