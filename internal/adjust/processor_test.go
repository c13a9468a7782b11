package adjust

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/image-adjust-mcp/internal/chart"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

func newTestProcessor() *Processor {
	return New(vision.NewNative(), chart.DefaultTheme())
}

// createSolidBuffer creates a BGR buffer filled with one color.
func createSolidBuffer(width, height int, b, g, r uint8) *imaging.Buffer {
	buf := imaging.NewBuffer(width, height, imaging.SpaceBGR)
	for i := 0; i < len(buf.Pix); i += 3 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = b, g, r
	}
	return buf
}

// createRandomBuffer creates a BGR buffer of reproducible noise.
func createRandomBuffer(width, height int, seed int64) *imaging.Buffer {
	buf := imaging.NewBuffer(width, height, imaging.SpaceBGR)
	rand.New(rand.NewSource(seed)).Read(buf.Pix)
	return buf
}

func TestShapePreservation(t *testing.T) {
	p := newTestProcessor()
	sizes := [][2]int{{1, 1}, {2, 2}, {7, 3}, {64, 48}}

	for _, sz := range sizes {
		src := createRandomBuffer(sz[0], sz[1], int64(sz[0]*sz[1]))

		hsv, err := p.ToHSV(src)
		if err != nil {
			t.Fatalf("ToHSV(%dx%d) failed: %v", sz[0], sz[1], err)
		}
		if !hsv.SameShape(src) {
			t.Errorf("ToHSV(%dx%d): got %dx%d", sz[0], sz[1], hsv.Width, hsv.Height)
		}

		adj, err := p.Adjust(src, 30, -40)
		if err != nil {
			t.Fatalf("Adjust(%dx%d) failed: %v", sz[0], sz[1], err)
		}
		if !adj.SameShape(src) || adj.Space != imaging.SpaceBGR {
			t.Errorf("Adjust(%dx%d): got %dx%d %v", sz[0], sz[1], adj.Width, adj.Height, adj.Space)
		}
	}
}

func TestHistogramConservation(t *testing.T) {
	p := newTestProcessor()
	src := createRandomBuffer(37, 23, 7)

	res, err := p.Tally(src)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if res.TotalPixels != 37*23 {
		t.Errorf("TotalPixels: got %d, want %d", res.TotalPixels, 37*23)
	}
	for name, counts := range map[string][]int{"blue": res.Blue, "green": res.Green, "red": res.Red} {
		if len(counts) != vision.Bins {
			t.Errorf("%s: got %d bins, want %d", name, len(counts), vision.Bins)
		}
		sum := 0
		for _, n := range counts {
			if n < 0 {
				t.Errorf("%s: negative count %d", name, n)
			}
			sum += n
		}
		if sum != 37*23 {
			t.Errorf("%s: sum %d, want %d", name, sum, 37*23)
		}
	}
}

func TestHistogram_ChannelOrder(t *testing.T) {
	res, err := newTestProcessor().Tally(createSolidBuffer(3, 2, 10, 20, 30))
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if res.Blue[10] != 6 || res.Green[20] != 6 || res.Red[30] != 6 {
		t.Errorf("got blue[10]=%d green[20]=%d red[30]=%d, want 6 each",
			res.Blue[10], res.Green[20], res.Red[30])
	}
}

// lossyHistogram is a toolkit whose histogram drops one pixel of green.
type lossyHistogram struct {
	vision.Toolkit
}

func (l lossyHistogram) Histogram(src *imaging.Buffer) (*vision.Histogram, error) {
	h, err := l.Toolkit.Histogram(src)
	if err != nil {
		return nil, err
	}
	h[1][src.Pix[1]]--
	return h, nil
}

func TestTally_RejectsInconsistentBackend(t *testing.T) {
	p := New(lossyHistogram{vision.NewNative()}, chart.DefaultTheme())

	_, err := p.Tally(createSolidBuffer(3, 2, 10, 20, 30))
	if err == nil {
		t.Fatal("expected an error for a histogram that loses pixels")
	}
	want := "channel 1 counts 5 pixels, want 6"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error: got %q, want it to contain %q", err, want)
	}
}

func TestHistogram_Chart(t *testing.T) {
	p := newTestProcessor()
	res, err := p.Histogram(createRandomBuffer(20, 20, 3))
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	if res.Chart == nil {
		t.Fatal("Chart is nil")
	}
	theme := p.Theme()
	if res.Chart.Bounds() != image.Rect(0, 0, theme.Width, theme.Height) {
		t.Errorf("chart bounds: got %v", res.Chart.Bounds())
	}
}

func TestHistogram_InvalidTheme(t *testing.T) {
	theme := chart.DefaultTheme()
	theme.Height = 10
	p := New(vision.NewNative(), theme)

	_, err := p.Histogram(createSolidBuffer(2, 2, 0, 0, 0))
	if !errors.Is(err, chart.ErrInvalidTheme) {
		t.Errorf("got %v, want ErrInvalidTheme", err)
	}
}

func TestSaturationBounds(t *testing.T) {
	p := newTestProcessor()
	src := imaging.NewBuffer(256, 1, imaging.SpaceBGR)
	for x := 0; x < 256; x++ {
		i := src.PixOffset(x, 0)
		src.Pix[i], src.Pix[i+1], src.Pix[i+2] = uint8(x), uint8(255-x), uint8(x/2)
	}

	for _, b := range []int{-100, -37, 0, 50, 100} {
		for _, c := range []int{-100, -1, 0, 64, 100} {
			out, err := p.Adjust(src, b, c)
			if err != nil {
				t.Fatalf("Adjust(%d,%d) failed: %v", b, c, err)
			}
			for i, v := range out.Pix {
				in := float64(src.Pix[i])*float64(c)/127 + float64(b)
				switch {
				case in <= 0 && v != 0:
					t.Fatalf("Adjust(%d,%d) sample %d: got %d, want 0", b, c, i, v)
				case in >= 255 && v != 255:
					t.Fatalf("Adjust(%d,%d) sample %d: got %d, want 255", b, c, i, v)
				}
			}
		}
	}
}

func TestAdjust_Identity(t *testing.T) {
	src := createRandomBuffer(16, 16, 11)
	out, err := newTestProcessor().Adjust(src, 0, 127)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if !reflect.DeepEqual(out.Pix, src.Pix) {
		t.Error("brightness 0, contrast 127 changed pixel values")
	}
}

func TestAdjust_ZeroContrastFlattens(t *testing.T) {
	out, err := newTestProcessor().Adjust(createRandomBuffer(4, 4, 5), 40, 0)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	for i, v := range out.Pix {
		if v != 40 {
			t.Fatalf("sample %d: got %d, want 40", i, v)
		}
	}
}

func TestAdjust_Formula(t *testing.T) {
	tests := []struct {
		name                 string
		in                   uint8
		brightness, contrast int
		want                 uint8
	}{
		{"contrast 100", 127, 0, 100, 100},
		{"brightness only", 100, 25, 127, 125},
		{"negative contrast", 200, 0, -50, 0},
		{"negative contrast with offset", 100, 100, -50, 61},
		{"overflow", 250, 20, 127, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newTestProcessor().Adjust(createSolidBuffer(1, 1, tt.in, tt.in, tt.in), tt.brightness, tt.contrast)
			if err != nil {
				t.Fatalf("Adjust failed: %v", err)
			}
			if out.Pix[0] != tt.want {
				t.Errorf("got %d, want %d", out.Pix[0], tt.want)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	p := newTestProcessor()
	src := createRandomBuffer(24, 18, 99)

	h1, _ := p.ToHSV(src)
	h2, _ := p.ToHSV(src)
	if !reflect.DeepEqual(h1, h2) {
		t.Error("ToHSV not deterministic")
	}

	a1, _ := p.Adjust(src, -20, 90)
	a2, _ := p.Adjust(src, -20, 90)
	if !reflect.DeepEqual(a1, a2) {
		t.Error("Adjust not deterministic")
	}

	t1, _ := p.Tally(src)
	t2, _ := p.Tally(src)
	if !reflect.DeepEqual(t1, t2) {
		t.Error("Tally not deterministic")
	}

	c1, _ := p.Contours(src)
	c2, _ := p.Contours(src)
	if !reflect.DeepEqual(c1, c2) {
		t.Error("Contours not deterministic")
	}
}

func TestInputsNotModified(t *testing.T) {
	p := newTestProcessor()
	src := createRandomBuffer(10, 10, 21)
	before := src.Clone()

	p.ToHSV(src)
	p.Histogram(src)
	p.Adjust(src, 100, 100)
	contours, _ := p.Contours(src)
	p.DrawContours(src, contours)

	if !reflect.DeepEqual(src, before) {
		t.Error("an operation modified its input buffer")
	}
}

func TestAllBlack2x2(t *testing.T) {
	p := newTestProcessor()
	src := createSolidBuffer(2, 2, 0, 0, 0)

	res, err := p.Tally(src)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	for name, counts := range map[string][]int{"blue": res.Blue, "green": res.Green, "red": res.Red} {
		if counts[0] != 4 {
			t.Errorf("%s[0]: got %d, want 4", name, counts[0])
		}
		for v := 1; v < len(counts); v++ {
			if counts[v] != 0 {
				t.Errorf("%s[%d]: got %d, want 0", name, v, counts[v])
			}
		}
	}

	hsv, err := p.ToHSV(src)
	if err != nil {
		t.Fatalf("ToHSV failed: %v", err)
	}
	for i, v := range hsv.Pix {
		if v != 0 {
			t.Errorf("hsv sample %d: got %d, want 0", i, v)
		}
	}

	contours, err := p.Contours(src)
	if err != nil {
		t.Fatalf("Contours failed: %v", err)
	}
	if len(contours) != 0 {
		t.Errorf("got %d contours, want 0", len(contours))
	}
}

func TestAllWhite2x2(t *testing.T) {
	p := newTestProcessor()
	src := createSolidBuffer(2, 2, 255, 255, 255)

	out, err := p.Adjust(src, 50, 127)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	for i, v := range out.Pix {
		if v != 255 {
			t.Errorf("sample %d: got %d, want 255", i, v)
		}
	}

	contours, err := p.Contours(src)
	if err != nil {
		t.Fatalf("Contours failed: %v", err)
	}
	want := []vision.Contour{{{0, 0}, {0, 1}, {1, 1}, {1, 0}}}
	if !reflect.DeepEqual(contours, want) {
		t.Errorf("got %v, want %v", contours, want)
	}
}

func TestContours_NearBlackIsForeground(t *testing.T) {
	src := createSolidBuffer(5, 5, 0, 0, 0)
	i := src.PixOffset(2, 2)
	src.Pix[i+1] = 2

	contours, err := newTestProcessor().Contours(src)
	if err != nil {
		t.Fatalf("Contours failed: %v", err)
	}
	want := []vision.Contour{{{2, 2}}}
	if !reflect.DeepEqual(contours, want) {
		t.Errorf("got %v, want %v", contours, want)
	}
}

func TestDrawContours(t *testing.T) {
	p := newTestProcessor()
	src := createSolidBuffer(12, 12, 0, 0, 0)
	for y := 3; y <= 8; y++ {
		for x := 3; x <= 8; x++ {
			i := src.PixOffset(x, y)
			src.Pix[i], src.Pix[i+1], src.Pix[i+2] = 200, 200, 200
		}
	}

	contours, err := p.Contours(src)
	if err != nil {
		t.Fatalf("Contours failed: %v", err)
	}
	out, err := p.DrawContours(src, contours)
	if err != nil {
		t.Fatalf("DrawContours failed: %v", err)
	}

	green := color.RGBA{0, 255, 0, 255}
	for _, pt := range []image.Point{{3, 3}, {2, 5}, {8, 8}} {
		if got := out.At(pt.X, pt.Y); got != green {
			t.Errorf("pixel %v: got %v, want green", pt, got)
		}
	}
	if got := out.At(5, 5); got != (color.RGBA{200, 200, 200, 255}) {
		t.Errorf("interior pixel: got %v", got)
	}
	if got := src.At(3, 3); got == green {
		t.Error("DrawContours drew on the source buffer")
	}
}

func TestShapeMismatch(t *testing.T) {
	p := newTestProcessor()
	bad := []struct {
		name string
		buf  *imaging.Buffer
	}{
		{"nil", nil},
		{"zero width", &imaging.Buffer{Width: 0, Height: 2}},
		{"two channels", &imaging.Buffer{Width: 2, Height: 2, Pix: make([]uint8, 8)}},
		{"hsv input", imaging.NewBuffer(2, 2, imaging.SpaceHSV)},
	}

	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ToHSV(tt.buf); !errors.Is(err, imaging.ErrShapeMismatch) {
				t.Errorf("ToHSV: got %v", err)
			}
			if _, err := p.Histogram(tt.buf); !errors.Is(err, imaging.ErrShapeMismatch) {
				t.Errorf("Histogram: got %v", err)
			}
			if _, err := p.Adjust(tt.buf, 0, 0); !errors.Is(err, imaging.ErrShapeMismatch) {
				t.Errorf("Adjust: got %v", err)
			}
			if _, err := p.Contours(tt.buf); !errors.Is(err, imaging.ErrShapeMismatch) {
				t.Errorf("Contours: got %v", err)
			}
			if _, err := p.DrawContours(tt.buf, nil); !errors.Is(err, imaging.ErrShapeMismatch) {
				t.Errorf("DrawContours: got %v", err)
			}
		})
	}
}

func TestBackend(t *testing.T) {
	if got := newTestProcessor().Backend(); got != "native" {
		t.Errorf("Backend: got %q, want native", got)
	}
}
