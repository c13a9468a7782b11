package chart

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/colornames"
)

func TestDefaultTheme(t *testing.T) {
	th := DefaultTheme()
	if th.Width != 600 || th.Height != 400 {
		t.Errorf("size: got %dx%d, want 600x400", th.Width, th.Height)
	}
	if th.Title != "Histogram" || th.XLabel != "Pixel Value" || th.YLabel != "Frequency" {
		t.Errorf("labels: got %q %q %q", th.Title, th.XLabel, th.YLabel)
	}
	if err := th.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestTheme_Validate(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		ok   bool
	}{
		{"minimum", MinWidth, MinHeight, true},
		{"narrow", MinWidth - 1, MinHeight, false},
		{"short", MinWidth, MinHeight - 1, false},
		{"zero", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultTheme()
			th.Width, th.Height = tt.w, tt.h
			err := th.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTheme) {
				t.Errorf("got %v, want ErrInvalidTheme", err)
			}
		})
	}
}

func TestTheme_GridColor(t *testing.T) {
	th := DefaultTheme()
	got := th.GridColor()
	if got.A != 255 {
		t.Errorf("grid alpha: got %d", got.A)
	}
	// A light gray between white and black.
	if got.R != got.G || got.G != got.B || got.R < 200 || got.R == 255 {
		t.Errorf("derived grid color: got %v", got)
	}

	th.Grid = colornames.Gainsboro
	if th.GridColor() != colornames.Gainsboro {
		t.Errorf("explicit grid color not used: got %v", th.GridColor())
	}
}

func TestRender_Size(t *testing.T) {
	th := DefaultTheme()
	th.Width, th.Height = 320, 200

	img, err := Render(th, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 320, 200) {
		t.Errorf("bounds: got %v", img.Bounds())
	}
	if got := img.RGBAAt(th.Width-1, th.Height-1); got != th.Background {
		t.Errorf("corner: got %v, want background %v", got, th.Background)
	}
}

func TestRender_InvalidTheme(t *testing.T) {
	th := DefaultTheme()
	th.Width = 50

	if _, err := Render(th, nil); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("got %v, want ErrInvalidTheme", err)
	}
}

// countNear counts pixels within tol of c on every channel.
func countNear(img *image.RGBA, c color.RGBA, tol int) int {
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -tol && d <= tol
	}
	n := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			p := img.RGBAAt(x, y)
			if near(p.R, c.R) && near(p.G, c.G) && near(p.B, c.B) {
				n++
			}
		}
	}
	return n
}

func TestRender_AllSeriesDrawn(t *testing.T) {
	colors := []color.RGBA{colornames.Blue, colornames.Green, colornames.Red}
	names := []string{"Blue", "Green", "Red"}
	var series []Series
	for i, c := range colors {
		values := make([]int, 256)
		values[40+i*80] = 100
		series = append(series, Series{Name: names[i], Color: c, Values: values})
	}

	img, err := Render(DefaultTheme(), series)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, c := range colors {
		if n := countNear(img, c, 40); n < 20 {
			t.Errorf("color %v: only %d pixels drawn", c, n)
		}
	}
}

func TestRender_SeriesChangesImage(t *testing.T) {
	th := DefaultTheme()
	empty, err := Render(th, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	values := make([]int, 256)
	values[128] = 10
	red := colornames.Red
	img, err := Render(th, []Series{{Name: "Red", Color: red, Values: values}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if countNear(empty, red, 40) != 0 {
		t.Error("empty chart should contain no red")
	}
	if countNear(img, red, 40) == 0 {
		t.Error("series was not drawn")
	}
}

func TestRender_AllZeroSeries(t *testing.T) {
	values := make([]int, 256)
	if _, err := Render(DefaultTheme(), []Series{{Name: "Blue", Color: colornames.Blue, Values: values}}); err != nil {
		t.Fatalf("Render failed on an all-zero series: %v", err)
	}
}
