package vision

import (
	"image"
)

// Freeman chain codes, counter-clockwise on screen starting east. The y axis
// grows downward, so code 2 (north) is dy = -1.
var (
	chainDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	chainDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// tracer holds the label plane for Suzuki-Abe border following.
//
// The plane is the source image padded with a one-pixel background frame.
// A cell is 0 for background, 1 for untraced foreground, +n for a pixel of
// border n and -n for a pixel of border n whose east neighbour is
// background.
type tracer struct {
	label  []int32
	stride int
	delta  [8]int
}

// traceExternal returns the outer borders of all non-zero regions of src
// that are not nested inside a hole of another region, in the raster order
// of their first pixel. Only the vertices where the chain direction changes
// are kept.
func traceExternal(src *image.Gray) []Contour {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	t := &tracer{
		label:  make([]int32, (w+2)*(h+2)),
		stride: w + 2,
	}
	for k := range t.delta {
		t.delta[k] = chainDY[k]*t.stride + chainDX[k]
	}
	for y := 0; y < h; y++ {
		row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < w; x++ {
			if row[x] != 0 {
				t.label[(y+1)*t.stride+x+1] = 1
			}
		}
	}

	// Border 1 is the frame, which behaves as a hole border.
	isHole := []bool{false, true}
	parent := []int32{0, 0}
	nbd := int32(1)

	var contours []Contour
	for y := 1; y <= h; y++ {
		lnbd := int32(1)
		for x := 1; x <= w; x++ {
			i := y*t.stride + x
			v := t.label[i]
			if v == 0 {
				continue
			}

			start, hole := -1, false
			switch {
			case v == 1 && t.label[i-1] == 0:
				start = 4
			case v >= 1 && t.label[i+1] == 0:
				start, hole = 0, true
				if v > 1 {
					lnbd = v
				}
			}

			if start >= 0 {
				nbd++
				p := lnbd
				if hole == isHole[lnbd] {
					p = parent[lnbd]
				}
				isHole = append(isHole, hole)
				parent = append(parent, p)

				pts := t.follow(i, start, nbd)
				if !hole && p == 1 {
					contours = append(contours, t.points(pts))
				}
			}

			if lv := t.label[i]; lv != 1 {
				if lv < 0 {
					lv = -lv
				}
				lnbd = lv
			}
		}
	}
	return contours
}

// follow traces border nbd starting at cell i0. start is the chain code of
// the background neighbour the border was entered from. It returns the
// cells at which the chain changes direction.
func (t *tracer) follow(i0, start int, nbd int32) []int {
	lab := t.label

	s := start
	found := false
	for k := 0; k < 8; k++ {
		s = (s + 7) & 7
		if lab[i0+t.delta[s]] != 0 {
			found = true
			break
		}
	}
	if !found {
		lab[i0] = -nbd
		return []int{i0}
	}

	i1 := i0 + t.delta[s]
	i3 := i0
	prev := s ^ 4
	var pts []int

	for {
		from := s
		i4 := i3
		for k := 1; k <= 8; k++ {
			s = (from + k) & 7
			i4 = i3 + t.delta[s]
			if lab[i4] != 0 {
				break
			}
		}

		// The search wrapped past code 0, so the east neighbour was
		// examined and found to be background.
		if s >= 1 && s <= from {
			lab[i3] = -nbd
		} else if lab[i3] == 1 {
			lab[i3] = nbd
		}

		if s != prev {
			pts = append(pts, i3)
			prev = s
		}

		if i4 == i0 && i3 == i1 {
			break
		}
		i3 = i4
		s = (s + 4) & 7
	}
	return pts
}

// points converts padded cell indices to image coordinates.
func (t *tracer) points(cells []int) Contour {
	c := make(Contour, len(cells))
	for k, i := range cells {
		c[k] = image.Pt(i%t.stride-1, i/t.stride-1)
	}
	return c
}
