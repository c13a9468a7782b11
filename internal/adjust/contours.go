package adjust

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

// Contour overlay style.
var (
	ContourColor     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ContourThickness = 2
)

// Binarization parameters. Every non-black gray pixel is foreground.
const (
	foregroundThreshold = 0
	foregroundValue     = 255
)

// Contours returns the external borders of the non-black regions of img in
// discovery order. Holes and regions nested inside holes are not reported.
func (p *Processor) Contours(img *imaging.Buffer) ([]vision.Contour, error) {
	if err := imaging.Validate("Contours", img, imaging.SpaceBGR); err != nil {
		return nil, err
	}

	gray, err := p.tk.BGRToGray(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to gray: %w", err)
	}
	bin, err := p.tk.Threshold(gray, foregroundThreshold, foregroundValue)
	if err != nil {
		return nil, fmt.Errorf("failed to threshold: %w", err)
	}
	contours, err := p.tk.FindContours(bin)
	if err != nil {
		return nil, fmt.Errorf("failed to find contours: %w", err)
	}
	return contours, nil
}

// DrawContours returns a copy of img with every contour outlined.
func (p *Processor) DrawContours(img *imaging.Buffer, contours []vision.Contour) (*imaging.Buffer, error) {
	if err := imaging.Validate("DrawContours", img, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	out := img.Clone()
	if err := p.tk.DrawContours(out, contours, ContourColor, ContourThickness); err != nil {
		return nil, fmt.Errorf("failed to draw contours: %w", err)
	}
	return out, nil
}
