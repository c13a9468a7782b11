// Package chart renders small line charts, such as per-channel histograms,
// into in-memory RGBA images using gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Smallest chart that still leaves room for the title, legend and axes.
const (
	MinWidth  = 160
	MinHeight = 120
)

// gridBlend is the share of the foreground mixed into the background when a
// theme leaves Grid unset.
const gridBlend = 0.15

// ErrInvalidTheme is returned when a theme cannot produce a drawable plot.
var ErrInvalidTheme = errors.New("invalid chart theme")

// Theme is the static styling of a chart. Width and Height are in pixels.
// A zero Grid color is derived from Background and Foreground.
type Theme struct {
	Width      int
	Height     int
	Title      string
	XLabel     string
	YLabel     string
	Background color.RGBA
	Foreground color.RGBA
	Grid       color.RGBA
}

// DefaultTheme returns a 600x400 white chart titled "Histogram".
func DefaultTheme() Theme {
	return Theme{
		Width:      600,
		Height:     400,
		Title:      "Histogram",
		XLabel:     "Pixel Value",
		YLabel:     "Frequency",
		Background: colornames.White,
		Foreground: colornames.Black,
	}
}

// Validate checks that the chart is large enough to draw.
func (t Theme) Validate() error {
	if t.Width < MinWidth || t.Height < MinHeight {
		return fmt.Errorf("%w: %dx%d is smaller than %dx%d", ErrInvalidTheme, t.Width, t.Height, MinWidth, MinHeight)
	}
	return nil
}

// GridColor returns Grid, or a light blend of Foreground over Background
// when Grid is unset.
func (t Theme) GridColor() color.RGBA {
	if t.Grid != (color.RGBA{}) {
		return t.Grid
	}
	bg, ok := colorful.MakeColor(t.Background)
	if !ok {
		bg = colorful.Color{R: 1, G: 1, B: 1}
	}
	fg, ok := colorful.MakeColor(t.Foreground)
	if !ok {
		fg = colorful.Color{}
	}
	r, g, b := bg.BlendRgb(fg, gridBlend).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Series is one line of a chart. Values[i] is plotted at x = i.
type Series struct {
	Name   string
	Color  color.RGBA
	Values []int
}

// Render draws every series over a shared x domain [0, n-1], where n is the
// longest series length, with the y axis starting at zero.
func Render(theme Theme, series []Series) (*image.RGBA, error) {
	if err := theme.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.BackgroundColor = theme.Background
	p.Title.Text = theme.Title
	p.Title.TextStyle.Color = theme.Foreground
	p.Legend.TextStyle.Color = theme.Foreground
	p.Legend.Top = true
	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.Color = theme.Foreground
		axis.Label.TextStyle.Color = theme.Foreground
		axis.Tick.Color = theme.Foreground
		axis.Tick.Label.Color = theme.Foreground
	}
	p.X.Label.Text = theme.XLabel
	p.Y.Label.Text = theme.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = theme.GridColor()
	grid.Horizontal.Color = theme.GridColor()
	p.Add(grid)

	n := 1
	for _, s := range series {
		n = max(n, len(s.Values))
	}
	p.X.Min, p.X.Max = 0, float64(n-1)
	p.Y.Min = 0

	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Values))
		for i, v := range s.Values {
			xys[i] = plotter.XY{X: float64(i), Y: float64(v)}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", s.Name, err)
		}
		l.LineStyle.Color = s.Color
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	// Single-point and all-zero charts still need visible ranges.
	if p.X.Max <= p.X.Min {
		p.X.Max = p.X.Min + 1
	}
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}

	img := image.NewRGBA(image.Rect(0, 0, theme.Width, theme.Height))
	c := vgimg.NewWith(vgimg.UseImage(img), vgimg.UseBackgroundColor(theme.Background))
	p.Draw(draw.New(c))
	return img, nil
}
