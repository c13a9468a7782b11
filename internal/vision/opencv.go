//go:build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
)

func init() {
	register("opencv", func() Toolkit { return NewOpenCV() })
}

// OpenCV is the Toolkit backed by gocv. It is only compiled with the gocv
// build tag and requires OpenCV 4 at link time.
type OpenCV struct{}

// NewOpenCV returns the gocv-backed toolkit.
func NewOpenCV() *OpenCV { return &OpenCV{} }

// Name implements Toolkit.
func (o *OpenCV) Name() string { return "opencv" }

// BGRToHSV implements Toolkit.
func (o *OpenCV) BGRToHSV(src *imaging.Buffer) (*imaging.Buffer, error) {
	if err := imaging.Validate("opencv.BGRToHSV", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	m, err := bufferToMat(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	if err := gocv.CvtColor(m, &dst, gocv.ColorBGRToHSV); err != nil {
		return nil, fmt.Errorf("opencv.BGRToHSV: %w", err)
	}
	return matToBuffer(dst, imaging.SpaceHSV)
}

// BGRToGray implements Toolkit.
func (o *OpenCV) BGRToGray(src *imaging.Buffer) (*image.Gray, error) {
	if err := imaging.Validate("opencv.BGRToGray", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	m, err := bufferToMat(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	if err := gocv.CvtColor(m, &dst, gocv.ColorBGRToGray); err != nil {
		return nil, fmt.Errorf("opencv.BGRToGray: %w", err)
	}
	return matToGray(dst), nil
}

// Threshold implements Toolkit.
func (o *OpenCV) Threshold(src *image.Gray, thresh, maxValue uint8) (*image.Gray, error) {
	if err := checkGray("opencv.Threshold", src); err != nil {
		return nil, err
	}
	m, err := grayToMat(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Threshold(m, &dst, float32(thresh), float32(maxValue), gocv.ThresholdBinary)
	return matToGray(dst), nil
}

// FindContours implements Toolkit.
func (o *OpenCV) FindContours(src *image.Gray) ([]Contour, error) {
	if err := checkGray("opencv.FindContours", src); err != nil {
		return nil, err
	}
	m, err := grayToMat(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	pv := gocv.FindContours(m, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer pv.Close()

	contours := make([]Contour, 0, pv.Size())
	for i := 0; i < pv.Size(); i++ {
		contours = append(contours, Contour(pv.At(i).ToPoints()))
	}
	return contours, nil
}

// Histogram implements Toolkit.
func (o *OpenCV) Histogram(src *imaging.Buffer) (*Histogram, error) {
	if err := imaging.Validate("opencv.Histogram", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	m, err := bufferToMat(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	var h Histogram
	for ch := 0; ch < imaging.Channels; ch++ {
		hist := gocv.NewMat()
		err := gocv.CalcHist([]gocv.Mat{m}, []int{ch}, mask, &hist, []int{Bins}, []float64{0, Bins}, false)
		if err != nil {
			hist.Close()
			return nil, fmt.Errorf("opencv.Histogram: channel %d: %w", ch, err)
		}
		for i := 0; i < Bins; i++ {
			h[ch][i] = int(math.Round(float64(hist.GetFloatAt(i, 0))))
		}
		hist.Close()
	}
	return &h, nil
}

// ConvertScale implements Toolkit.
func (o *OpenCV) ConvertScale(src *imaging.Buffer, alpha, beta float64) (*imaging.Buffer, error) {
	if err := imaging.Validate("opencv.ConvertScale", src, imaging.SpaceBGR); err != nil {
		return nil, err
	}
	m, err := bufferToMat(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	if err := m.ConvertToWithParams(&dst, gocv.MatTypeCV8UC3, float32(alpha), float32(beta)); err != nil {
		return nil, fmt.Errorf("opencv.ConvertScale: %w", err)
	}
	return matToBuffer(dst, imaging.SpaceBGR)
}

// DrawContours implements Toolkit.
func (o *OpenCV) DrawContours(dst *imaging.Buffer, contours []Contour, c color.RGBA, thickness int) error {
	if err := imaging.Validate("opencv.DrawContours", dst, imaging.SpaceBGR); err != nil {
		return err
	}
	if thickness < 1 {
		return fmt.Errorf("opencv.DrawContours: thickness must be >= 1, got %d", thickness)
	}
	if len(contours) == 0 {
		return nil
	}

	m, err := bufferToMat(dst)
	if err != nil {
		return err
	}
	defer m.Close()

	pts := make([][]image.Point, len(contours))
	for i, contour := range contours {
		pts[i] = contour
	}
	pv := gocv.NewPointsVectorFromPoints(pts)
	defer pv.Close()

	// gocv converts the RGBA color to OpenCV's BGR scalar itself.
	if err := gocv.DrawContours(&m, pv, -1, c, thickness); err != nil {
		return fmt.Errorf("opencv.DrawContours: %w", err)
	}
	copy(dst.Pix, m.ToBytes())
	return nil
}

// bufferToMat copies b into a matrix owned by OpenCV.
func bufferToMat(b *imaging.Buffer) (gocv.Mat, error) {
	view, err := gocv.NewMatFromBytes(b.Height, b.Width, gocv.MatTypeCV8UC3, b.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create matrix: %w", err)
	}
	defer view.Close()
	return view.Clone(), nil
}

func matToBuffer(m gocv.Mat, space imaging.ColorSpace) (*imaging.Buffer, error) {
	data := m.ToBytes()
	if want := m.Rows() * m.Cols() * imaging.Channels; len(data) != want {
		return nil, fmt.Errorf("%w: matrix holds %d bytes, want %d", imaging.ErrShapeMismatch, len(data), want)
	}
	return &imaging.Buffer{Width: m.Cols(), Height: m.Rows(), Space: space, Pix: data}, nil
}

// grayToMat packs the rows of g contiguously and copies them into a
// single-channel matrix.
func grayToMat(g *image.Gray) (gocv.Mat, error) {
	bounds := g.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(pix[y*w:(y+1)*w], g.Pix[g.PixOffset(bounds.Min.X, bounds.Min.Y+y):])
	}
	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create matrix: %w", err)
	}
	defer view.Close()
	return view.Clone(), nil
}

func matToGray(m gocv.Mat) *image.Gray {
	return &image.Gray{
		Pix:    m.ToBytes(),
		Stride: m.Cols(),
		Rect:   image.Rect(0, 0, m.Cols(), m.Rows()),
	}
}
