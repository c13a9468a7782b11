package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/image-adjust-mcp/internal/adjust"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

// Artifact names, in the order they are rendered.
const (
	ArtifactOriginal  = "original"
	ArtifactHSV       = "hsv"
	ArtifactHistogram = "histogram"
	ArtifactAdjusted  = "adjusted"
	ArtifactContours  = "contours"
)

// Artifacts lists every artifact name in render order.
var Artifacts = []string{ArtifactOriginal, ArtifactHSV, ArtifactHistogram, ArtifactAdjusted, ArtifactContours}

// CompletionMessage is reported once every artifact of a render has been
// produced or has failed.
const CompletionMessage = "Image Manipulation Completed!"

// Report is one complete rendering of an image with a set of parameters.
// A failed artifact leaves its field nil and records the cause in Errors;
// the remaining artifacts are unaffected.
type Report struct {
	Params    Params
	Original  *imaging.Buffer
	HSV       *imaging.Buffer
	Histogram *adjust.HistogramResult
	Adjusted  *imaging.Buffer
	Contours  []vision.Contour
	Overlay   *imaging.Buffer
	Errors    map[string]error
	Elapsed   time.Duration
}

// OK reports whether every artifact was produced.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err joins the artifact errors in render order, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, name := range Artifacts {
		if err, ok := r.Errors[name]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Report) fail(artifact string, err error) {
	if r.Errors == nil {
		r.Errors = make(map[string]error)
	}
	r.Errors[artifact] = err
}

// Render runs every operation on img. Each artifact is computed
// independently from img, so one failure never prevents another artifact.
// The contour overlay is part of the contours artifact.
func Render(proc *adjust.Processor, img *imaging.Buffer, params Params) *Report {
	start := time.Now()
	r := &Report{Params: params}

	if err := imaging.Validate("Render", img, imaging.SpaceBGR); err != nil {
		r.fail(ArtifactOriginal, err)
	} else {
		r.Original = img.Clone()
	}

	var err error
	if r.HSV, err = proc.ToHSV(img); err != nil {
		r.fail(ArtifactHSV, err)
	}
	if r.Histogram, err = proc.Histogram(img); err != nil {
		r.fail(ArtifactHistogram, err)
	}
	if r.Adjusted, err = proc.Adjust(img, params.Brightness, params.Contrast); err != nil {
		r.fail(ArtifactAdjusted, err)
	}
	if r.Contours, err = proc.Contours(img); err != nil {
		r.fail(ArtifactContours, err)
	} else if r.Overlay, err = proc.DrawContours(img, r.Contours); err != nil {
		r.fail(ArtifactContours, err)
	}

	r.Elapsed = time.Since(start)
	return r
}
