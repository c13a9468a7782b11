// Package adjust implements the four image-adjustment operations: color
// space conversion, per-channel histograms, brightness/contrast adjustment
// and external contour extraction.
//
// Every operation is a pure function of its arguments. Input buffers are
// never modified; DrawContours draws onto a copy. A Processor only carries
// the vision backend and the chart theme, so one Processor may be shared by
// any number of goroutines.
//
// All operations expect a non-empty BGR buffer and fail fast with an error
// matching imaging.ErrShapeMismatch otherwise.
package adjust
