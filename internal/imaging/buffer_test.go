package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestColorSpace_String(t *testing.T) {
	tests := []struct {
		space ColorSpace
		want  string
	}{
		{SpaceBGR, "bgr"},
		{SpaceHSV, "hsv"},
		{ColorSpace(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.space.String(); got != tt.want {
			t.Errorf("ColorSpace(%d).String() = %q, want %q", int(tt.space), got, tt.want)
		}
	}
}

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(4, 3, SpaceHSV)
	if b.Width != 4 || b.Height != 3 || b.Space != SpaceHSV {
		t.Errorf("unexpected buffer: %dx%d %s", b.Width, b.Height, b.Space)
	}
	if len(b.Pix) != 4*3*Channels {
		t.Errorf("len(Pix): got %d, want %d", len(b.Pix), 4*3*Channels)
	}

	neg := NewBuffer(-1, 5, SpaceBGR)
	if neg.Width != 0 || len(neg.Pix) != 0 {
		t.Errorf("negative width should clamp to 0, got %dx%d", neg.Width, neg.Height)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	// Transparent pixels keep their stored color.
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	b := FromImage(src)
	if b.Space != SpaceBGR || b.Width != 2 || b.Height != 1 {
		t.Fatalf("unexpected buffer: %dx%d %s", b.Width, b.Height, b.Space)
	}
	want := []uint8{30, 20, 10, 50, 100, 200}
	for i, v := range want {
		if b.Pix[i] != v {
			t.Errorf("Pix[%d]: got %d, want %d", i, b.Pix[i], v)
		}
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 2, color.RGBA{R: 255, A: 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	b := FromImage(sub)
	if b.Width != 2 || b.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 2x2", b.Width, b.Height)
	}
	if b.Pix[2] != 255 || b.Pix[0] != 0 {
		t.Errorf("origin pixel: got %v, want BGR red", b.Pix[:3])
	}
}

func TestFromImage_BufferIsCopied(t *testing.T) {
	orig := NewBuffer(1, 1, SpaceBGR)
	orig.Pix[0] = 7
	b := FromImage(orig)
	b.Pix[0] = 9
	if orig.Pix[0] != 7 {
		t.Error("FromImage must not alias a *Buffer source")
	}
}

func TestClone(t *testing.T) {
	var nilBuf *Buffer
	if nilBuf.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}

	b := NewBuffer(2, 2, SpaceHSV)
	b.Pix[5] = 99
	c := b.Clone()
	if !c.SameShape(b) || c.Space != b.Space || c.Pix[5] != 99 {
		t.Fatal("Clone did not copy buffer")
	}
	c.Pix[5] = 0
	if b.Pix[5] != 99 {
		t.Error("Clone shares pixel storage")
	}
}

func TestSameShape(t *testing.T) {
	a := NewBuffer(3, 2, SpaceBGR)
	tests := []struct {
		name string
		o    *Buffer
		want bool
	}{
		{"same", NewBuffer(3, 2, SpaceHSV), true},
		{"transposed", NewBuffer(2, 3, SpaceBGR), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.SameShape(tt.o); got != tt.want {
				t.Errorf("SameShape: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuffer_At(t *testing.T) {
	bgr := NewBuffer(1, 1, SpaceBGR)
	copy(bgr.Pix, []uint8{1, 2, 3})
	if got := bgr.At(0, 0); got != (color.RGBA{R: 3, G: 2, B: 1, A: 255}) {
		t.Errorf("BGR At: got %v", got)
	}

	hsv := NewBuffer(1, 1, SpaceHSV)
	copy(hsv.Pix, []uint8{1, 2, 3})
	if got := hsv.At(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("HSV At: got %v", got)
	}

	if got := bgr.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("out of bounds At: got %v", got)
	}
}

func TestBuffer_ToNRGBA(t *testing.T) {
	b := NewBuffer(2, 1, SpaceBGR)
	copy(b.Pix, []uint8{255, 0, 0, 0, 0, 255})
	img := b.ToNRGBA()
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel 0: got %v, want blue", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel 1: got %v, want red", got)
	}
}
