package imaging

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes of the image layer.
var (
	// ErrDecodeFailure marks upload bytes that cannot become a Buffer:
	// empty input, oversize input, an unsupported format or corrupt data.
	ErrDecodeFailure = errors.New("image decode failure")

	// ErrShapeMismatch marks a buffer with a zero dimension, a sample count
	// that disagrees with its dimensions, or an unexpected color space.
	ErrShapeMismatch = errors.New("image shape mismatch")
)

// ShapeError describes a buffer that failed validation.
// It matches ErrShapeMismatch under errors.Is.
type ShapeError struct {
	Op       string
	Width    int
	Height   int
	Samples  int
	Space    ColorSpace
	Expected ColorSpace
	Reason   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s (got %dx%d, %d samples, %s)",
		e.Op, e.Reason, e.Width, e.Height, e.Samples, e.Space)
}

// Unwrap lets errors.Is(err, ErrShapeMismatch) succeed.
func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// Validate checks that b is a non-empty three-channel buffer in color space
// want. op names the caller and is carried in the returned *ShapeError.
func Validate(op string, b *Buffer, want ColorSpace) error {
	if b == nil {
		return &ShapeError{Op: op, Expected: want, Space: want, Reason: "nil buffer"}
	}
	e := &ShapeError{
		Op:       op,
		Width:    b.Width,
		Height:   b.Height,
		Samples:  len(b.Pix),
		Space:    b.Space,
		Expected: want,
	}
	switch {
	case b.Width <= 0 || b.Height <= 0:
		e.Reason = "zero dimension"
	case len(b.Pix) != b.Width*b.Height*Channels:
		e.Reason = fmt.Sprintf("expected %d channels per pixel", Channels)
	case b.Space != want:
		e.Reason = fmt.Sprintf("expected %s color space", want)
	default:
		return nil
	}
	return e
}
