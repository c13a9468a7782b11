// Package server implements the MCP (Model Context Protocol) server for the
// image adjustment tools.
//
// The server speaks JSON-RPC 2.0 over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Single operations take an image path, or use the active image when the
// path is omitted:
//   - image_load: Load an image, make it the active image and render it
//   - image_to_hsv: Convert to HSV
//   - image_histogram: Per-channel histogram counts and chart
//   - image_adjust: Brightness and contrast adjustment
//   - image_find_contours: External contours and their green overlay
//
// Session tools:
//   - image_process: Render every artifact in one call
//   - image_set_params: Change brightness and contrast and re-render the
//     active image
//
// Brightness and contrast are integers in [-100, 100]. Values outside that
// range are rejected before any processing.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: invalid or out-of-range arguments
//   - -32000: the tool failed, for example on an undecodable image
//   - -32601: unknown method
//
// The message field carries a human-readable description and data carries
// the underlying error string.
//
// # Usage
//
//	srv, err := server.New(config.Default(), logrus.New())
//	if err != nil {
//	    return err
//	}
//	return srv.Run()
package server
