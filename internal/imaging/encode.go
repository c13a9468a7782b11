package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// EncodedImage is an artifact ready for display: a PNG carried as base64.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// display returns a standard Go image for encoding. A Buffer is copied into
// an NRGBA so encoders can read rows directly.
func display(img image.Image) image.Image {
	if b, ok := img.(*Buffer); ok {
		return b.ToNRGBA()
	}
	return img
}

// FitWidth downscales img to maxWidth pixels wide, keeping the aspect ratio.
// Images already narrow enough, and a maxWidth of zero or less, return img
// unchanged.
func FitWidth(img image.Image, maxWidth int) image.Image {
	w := img.Bounds().Dx()
	if maxWidth <= 0 || w <= maxWidth {
		return img
	}
	// Height 0 tells imaging.Resize to preserve the aspect ratio.
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

// EncodePNG encodes img as a base64 PNG, first fitting it to maxWidth.
func EncodePNG(img image.Image, maxWidth int) (*EncodedImage, error) {
	out := FitWidth(display(img), maxWidth)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path. The format follows the file extension, so
// path should end in ".png".
func SavePNG(img image.Image, path string) error {
	if err := imaging.Save(display(img), path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
