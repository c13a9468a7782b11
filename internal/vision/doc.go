// Package vision provides the low-level computer-vision primitives used by
// the image-adjustment operations: color conversion, thresholding, border
// following, histograms, affine intensity scaling and contour drawing.
//
// The primitives sit behind the Toolkit interface so the backend can be
// chosen at startup. Two backends exist:
//
//   - "native" is pure Go and always available. Histograms and per-pixel
//     remapping use bild, and contours are traced with Suzuki-Abe border
//     following.
//   - "opencv" wraps gocv and is compiled in only with the gocv build tag.
//
// Both backends follow OpenCV's 8-bit conventions: hue is halved into
// [0,180), HSV and gray conversion use OpenCV's fixed-point arithmetic,
// scaled intensities are rounded half to even and saturated, and contours are the external borders
// with horizontal, vertical and diagonal runs reduced to their end points.
//
// # Thread Safety
//
// Toolkits hold no state and may be shared between goroutines.
package vision
