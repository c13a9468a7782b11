package adjust

import (
	"fmt"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// contrastScale maps the contrast parameter to a gain: contrast 127 is the
// identity and contrast 0 flattens the image to the brightness offset.
const contrastScale = 127.0

// Adjust applies out = clamp(round(in*contrast/127 + brightness), 0, 255) to
// every sample. The parameters are not range checked here.
func (p *Processor) Adjust(img *imaging.Buffer, brightness, contrast int) (*imaging.Buffer, error) {
	if err := imaging.Validate("Adjust", img, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	out, err := p.tk.ConvertScale(img, float64(contrast)/contrastScale, float64(brightness))
	if err != nil {
		return nil, fmt.Errorf("failed to adjust brightness/contrast: %w", err)
	}
	return out, nil
}
