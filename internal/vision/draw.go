package vision

import (
	"image"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

// strokeClosed draws the closed polyline through the contour's vertices.
// A single-vertex contour is drawn as one brush stamp.
func strokeClosed(dst *imaging.Buffer, c Contour, pen [imaging.Channels]uint8, thickness int) {
	switch len(c) {
	case 0:
		return
	case 1:
		stamp(dst, c[0].X, c[0].Y, pen, thickness)
		return
	}
	for i := range c {
		strokeLine(dst, c[i], c[(i+1)%len(c)], pen, thickness)
	}
}

// strokeLine walks the Bresenham line from p0 to p1 inclusive and stamps a
// square brush at every step.
func strokeLine(dst *imaging.Buffer, p0, p1 image.Point, pen [imaging.Channels]uint8, thickness int) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}

	err := dx + dy
	x, y := p0.X, p0.Y
	for {
		stamp(dst, x, y, pen, thickness)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// stamp paints a thickness x thickness square around (cx, cy), clipped to
// the buffer.
func stamp(dst *imaging.Buffer, cx, cy int, pen [imaging.Channels]uint8, thickness int) {
	lo := -thickness / 2
	hi := lo + thickness - 1
	for y := cy + lo; y <= cy+hi; y++ {
		if y < 0 || y >= dst.Height {
			continue
		}
		for x := cx + lo; x <= cx+hi; x++ {
			if x < 0 || x >= dst.Width {
				continue
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = pen[0], pen[1], pen[2]
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
