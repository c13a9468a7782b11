package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Channels is the number of 8-bit samples stored per pixel in a Buffer.
const Channels = 3

// ColorSpace names the meaning of the three samples of each Buffer pixel.
type ColorSpace int

const (
	// SpaceBGR stores Blue, Green, Red in that order.
	SpaceBGR ColorSpace = iota
	// SpaceHSV stores Hue [0,180), Saturation [0,255], Value [0,255].
	SpaceHSV
)

// String returns the lower-case name of the color space.
func (s ColorSpace) String() string {
	switch s {
	case SpaceBGR:
		return "bgr"
	case SpaceHSV:
		return "hsv"
	default:
		return "unknown"
	}
}

// Buffer is an 8-bit, three-channel raster with rows stored contiguously.
//
// The sample for channel c of pixel (x, y) lives at
// Pix[(y*Width+x)*Channels+c]. For a SpaceBGR buffer channel 0 is blue,
// 1 is green and 2 is red, which is also the memory layout OpenCV uses for
// CV_8UC3 matrices.
//
// Buffer implements image.Image. At reports a BGR pixel as the equivalent
// opaque color.RGBA. An HSV pixel is reported with H, S and V in the R, G and
// B slots so the raw planes can be viewed or encoded without conversion.
//
// Operations in this module treat a Buffer they receive as immutable and
// return new buffers.
type Buffer struct {
	Width  int
	Height int
	Space  ColorSpace
	Pix    []uint8
}

// NewBuffer allocates a zeroed buffer of the given size and color space.
func NewBuffer(width, height int, space ColorSpace) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Space:  space,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromImage converts any decoded image into a SpaceBGR buffer.
//
// The source is normalised through imaging.Clone, which yields non-premultiplied
// NRGBA samples, and the alpha channel is then dropped. This mirrors a
// three-channel color decode: transparent pixels keep their stored color.
// The returned buffer's origin is always (0, 0).
func FromImage(img image.Image) *Buffer {
	if b, ok := img.(*Buffer); ok {
		return b.Clone()
	}

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := NewBuffer(w, h, SpaceBGR)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst.Pix[y*w*Channels : (y+1)*w*Channels]
		for x := 0; x < w; x++ {
			out[x*3+0] = row[x*4+2]
			out[x*3+1] = row[x*4+1]
			out[x*3+2] = row[x*4+0]
		}
	}
	return dst
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Space: b.Space, Pix: pix}
}

// PixOffset returns the index of the first sample of pixel (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// SameShape reports whether two buffers have identical dimensions.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b != nil && o != nil && b.Width == o.Width && b.Height == o.Height && len(b.Pix) == len(o.Pix)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.RGBA{}
	}
	i := b.PixOffset(x, y)
	if b.Space == SpaceHSV {
		return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: 255}
	}
	return color.RGBA{R: b.Pix[i+2], G: b.Pix[i+1], B: b.Pix[i], A: 255}
}

// ToNRGBA returns a display copy of the buffer as a standard Go image.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(b.Bounds())
	for p, q := 0, 0; p < len(b.Pix); p, q = p+3, q+4 {
		if b.Space == SpaceHSV {
			dst.Pix[q+0], dst.Pix[q+1], dst.Pix[q+2] = b.Pix[p], b.Pix[p+1], b.Pix[p+2]
		} else {
			dst.Pix[q+0], dst.Pix[q+1], dst.Pix[q+2] = b.Pix[p+2], b.Pix[p+1], b.Pix[p]
		}
		dst.Pix[q+3] = 255
	}
	return dst
}
