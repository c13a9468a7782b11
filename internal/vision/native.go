package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/histogram"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// Fixed-point BT.601 luminance weights, scaled by 2^14. These are the
// integer coefficients OpenCV uses for 8-bit BGR to gray, so both backends
// agree on which pixels are exactly black.
const (
	grayShift = 14
	grayR     = 4899
	grayG     = 9617
	grayB     = 1868
)

// Native is the pure-Go Toolkit. It needs no cgo and is the default backend.
type Native struct{}

// NewNative returns the pure-Go toolkit.
func NewNative() *Native { return &Native{} }

// Name implements Toolkit.
func (n *Native) Name() string { return DefaultBackend }

// Fixed-point HSV, scaled by 2^12. sdivTable[v] is 255/v and hdivTable[d]
// is 30/d, both rounded half to even.
const hsvShift = 12

var sdivTable, hdivTable [Bins]int

func init() {
	for i := 1; i < Bins; i++ {
		sdivTable[i] = int(math.RoundToEven(float64(255<<hsvShift) / float64(i)))
		hdivTable[i] = int(math.RoundToEven(float64(180<<hsvShift) / (6 * float64(i))))
	}
}

// BGRToHSV implements Toolkit.
//
// V is the largest of the three samples, S is (V-min)*255/V and H is the
// hue in degrees halved into [0,180). S and H use OpenCV's integer division
// tables so both backends agree bit for bit.
func (n *Native) BGRToHSV(src *imaging.Buffer) (*imaging.Buffer, error) {
	if err := imaging.Validate("native.BGRToHSV", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}

	dst := imaging.NewBuffer(src.Width, src.Height, imaging.SpaceHSV)
	for i := 0; i < len(src.Pix); i += imaging.Channels {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = hsv8(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
	}
	return dst, nil
}

// hsv8 converts one BGR pixel to 8-bit HSV.
func hsv8(b, g, r uint8) (h, s, v uint8) {
	bi, gi, ri := int(b), int(g), int(r)
	vi := max(bi, gi, ri)
	diff := vi - min(bi, gi, ri)

	const half = 1 << (hsvShift - 1)
	si := (diff*sdivTable[vi] + half) >> hsvShift

	var hi int
	switch vi {
	case ri:
		hi = gi - bi
	case gi:
		hi = bi - ri + 2*diff
	default:
		hi = ri - gi + 4*diff
	}
	hi = (hi*hdivTable[diff] + half) >> hsvShift
	if hi < 0 {
		hi += 180
	}
	return uint8(hi), uint8(si), uint8(vi)
}

// BGRToGray implements Toolkit.
func (n *Native) BGRToGray(src *imaging.Buffer) (*image.Gray, error) {
	if err := imaging.Validate("native.BGRToGray", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}

	gray := image.NewGray(image.Rect(0, 0, src.Width, src.Height))
	for p, i := 0, 0; i < len(src.Pix); p, i = p+1, i+imaging.Channels {
		b, g, r := uint32(src.Pix[i]), uint32(src.Pix[i+1]), uint32(src.Pix[i+2])
		gray.Pix[p] = uint8((b*grayB + g*grayG + r*grayR + 1<<(grayShift-1)) >> grayShift)
	}
	return gray, nil
}

// Threshold implements Toolkit.
func (n *Native) Threshold(src *image.Gray, thresh, maxValue uint8) (*image.Gray, error) {
	if err := checkGray("native.Threshold", src); err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			if row[x] > thresh {
				out[x] = maxValue
			}
		}
	}
	return dst, nil
}

// FindContours implements Toolkit.
func (n *Native) FindContours(src *image.Gray) ([]Contour, error) {
	if err := checkGray("native.FindContours", src); err != nil {
		return nil, err
	}
	return traceExternal(src), nil
}

// Histogram implements Toolkit.
func (n *Native) Histogram(src *imaging.Buffer) (*Histogram, error) {
	if err := imaging.Validate("native.Histogram", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}

	rgba := histogram.NewRGBAHistogram(src)
	if len(rgba.R.Bins) != Bins || len(rgba.G.Bins) != Bins || len(rgba.B.Bins) != Bins {
		return nil, fmt.Errorf("native.Histogram: unexpected bin count %d", len(rgba.R.Bins))
	}

	var h Histogram
	copy(h[0][:], rgba.B.Bins)
	copy(h[1][:], rgba.G.Bins)
	copy(h[2][:], rgba.R.Bins)
	return &h, nil
}

// ConvertScale implements Toolkit.
//
// The affine map is evaluated once per intensity into a lookup table and
// applied to every channel through bild's per-pixel Apply.
func (n *Native) ConvertScale(src *imaging.Buffer, alpha, beta float64) (*imaging.Buffer, error) {
	if err := imaging.Validate("native.ConvertScale", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}

	var lut [Bins]uint8
	for v := range lut {
		lut[v] = saturate(float64(v)*alpha + beta)
	}

	out := adjust.Apply(src, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
	return imaging.FromImage(out), nil
}

// DrawContours implements Toolkit.
func (n *Native) DrawContours(dst *imaging.Buffer, contours []Contour, c color.RGBA, thickness int) error {
	if err := imaging.Validate("native.DrawContours", dst, imaging.SpaceBGR); err != nil {
		return err
	}
	if thickness < 1 {
		return fmt.Errorf("native.DrawContours: thickness must be >= 1, got %d", thickness)
	}

	pen := [imaging.Channels]uint8{c.B, c.G, c.R}
	for _, contour := range contours {
		strokeClosed(dst, contour, pen, thickness)
	}
	return nil
}

// saturate rounds half to even and clamps to the 8-bit range, the same
// saturating cast OpenCV applies when it writes an 8-bit result.
func saturate(f float64) uint8 {
	r := math.RoundToEven(f)
	if r <= 0 || math.IsNaN(r) {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}
