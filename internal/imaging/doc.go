// Package imaging holds the image buffer shared by every operation of the
// server, together with upload decoding, caching and PNG output.
//
// # Buffers
//
// A Buffer is an 8-bit three-channel raster. Decoded uploads are stored in
// BGR order, the layout OpenCV uses, and the HSV conversion produces a
// buffer tagged SpaceHSV. Validate checks a buffer's shape and color space
// before an operation touches it and reports problems as a *ShapeError.
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward.
//
// # Decoding
//
// Decode accepts JPEG and PNG only. Empty, oversize, unsupported and corrupt
// inputs all fail with an error wrapping ErrDecodeFailure. Alpha is dropped
// and JPEG orientation tags are honoured.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Buffers returned by the
// cache are shared and must be treated as read-only.
//
// # Output
//
// EncodePNG produces the base64 PNG payload returned to MCP clients,
// optionally downscaled to a maximum width. SavePNG writes an artifact to
// disk for the command-line renderer.
package imaging
