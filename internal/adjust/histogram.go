package adjust

import (
	"fmt"
	"image"

	"golang.org/x/image/colornames"

	"github.com/ironsheep/image-adjust-mcp/internal/chart"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// HistogramResult holds the 256-bin intensity counts of each channel.
type HistogramResult struct {
	Blue        []int       `json:"blue"`
	Green       []int       `json:"green"`
	Red         []int       `json:"red"`
	TotalPixels int         `json:"total_pixels"`
	Chart       *image.RGBA `json:"-"`
}

// Histogram counts pixel intensities per channel and renders the counts as
// a line chart, one line per channel.
func (p *Processor) Histogram(img *imaging.Buffer) (*HistogramResult, error) {
	res, err := p.Tally(img)
	if err != nil {
		return nil, err
	}
	res.Chart, err = p.Chart(res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Tally is Histogram without the chart.
func (p *Processor) Tally(img *imaging.Buffer) (*HistogramResult, error) {
	if err := imaging.Validate("Histogram", img, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	h, err := p.tk.Histogram(img)
	if err != nil {
		return nil, fmt.Errorf("failed to compute histogram: %w", err)
	}
	total := img.Width * img.Height
	for ch := range h {
		if n := h.Sum(ch); n != total {
			return nil, fmt.Errorf("failed to compute histogram: channel %d counts %d pixels, want %d", ch, n, total)
		}
	}
	return &HistogramResult{
		Blue:        append([]int(nil), h[0][:]...),
		Green:       append([]int(nil), h[1][:]...),
		Red:         append([]int(nil), h[2][:]...),
		TotalPixels: total,
	}, nil
}

// Chart renders res with the processor's theme. Blue, green and red counts
// are drawn in the matching color.
func (p *Processor) Chart(res *HistogramResult) (*image.RGBA, error) {
	img, err := chart.Render(p.theme, []chart.Series{
		{Name: "Blue", Color: colornames.Blue, Values: res.Blue},
		{Name: "Green", Color: colornames.Green, Values: res.Green},
		{Name: "Red", Color: colornames.Red, Values: res.Red},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render histogram chart: %w", err)
	}
	return img, nil
}
