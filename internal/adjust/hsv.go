package adjust

import (
	"fmt"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// ToHSV converts a BGR image to 8-bit HSV of the same shape, with hue in
// [0,180) and saturation and value in [0,255].
func (p *Processor) ToHSV(img *imaging.Buffer) (*imaging.Buffer, error) {
	if err := imaging.Validate("ToHSV", img, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	out, err := p.tk.BGRToHSV(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to HSV: %w", err)
	}
	return out, nil
}
