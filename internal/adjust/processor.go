package adjust

import (
	"github.com/ironsheep/image-adjust-mcp/internal/chart"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

// Processor runs the adjustment operations on a vision backend.
type Processor struct {
	tk    vision.Toolkit
	theme chart.Theme
}

// New returns a Processor using tk for pixel work and theme for the
// histogram chart.
func New(tk vision.Toolkit, theme chart.Theme) *Processor {
	return &Processor{tk: tk, theme: theme}
}

// Backend returns the name of the vision backend in use.
func (p *Processor) Backend() string {
	return p.tk.Name()
}

// Theme returns the chart theme.
func (p *Processor) Theme() chart.Theme {
	return p.theme
}
