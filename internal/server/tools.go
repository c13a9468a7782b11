package server

import "github.com/ironsheep/image-adjust-mcp/internal/session"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Shared schema fragments.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a JPEG or PNG file. Defaults to the active image set by image_load",
	}
	maxWidthProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Downscale returned images to at most this width in pixels (0 keeps full size). Defaults to the server setting",
		"minimum":     0,
	}
	brightnessProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Brightness offset added to every channel",
		"minimum":     session.MinParam,
		"maximum":     session.MaxParam,
	}
	contrastProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Contrast; each channel is multiplied by contrast/127",
		"minimum":     session.MinParam,
		"maximum":     session.MaxParam,
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Input
		{
			Name:        "image_load",
			Description: "Load a JPEG or PNG file and return its dimensions and format. Sets this as the active image for subsequent operations and renders it with the current parameters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Core Operations
		{
			Name:        "image_to_hsv",
			Description: "Convert an image from BGR to HSV. Returns the raw H, S and V planes as the R, G and B channels of a PNG. Hue is in [0,180), saturation and value in [0,255].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty,
					"max_width": maxWidthProperty,
				},
			},
		},
		{
			Name:        "image_histogram",
			Description: "Count pixel intensities per channel. Returns 256 bins each for blue, green and red, and optionally a line chart of the counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"include_chart": map[string]interface{}{
						"type":        "boolean",
						"description": "Render the histogram chart as a PNG. Default true",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "image_adjust",
			Description: "Adjust brightness and contrast: out = clamp(in * contrast/127 + brightness, 0, 255) on every channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"brightness": brightnessProperty,
					"contrast":   contrastProperty,
					"max_width":  maxWidthProperty,
				},
				"required": []string{"brightness", "contrast"},
			},
		},
		{
			Name:        "image_find_contours",
			Description: "Find the external contours of all non-black regions. Returns the corner points of each contour and optionally the image with contours drawn in green.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"draw": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the image with contours outlined. Default true",
						"default":     true,
					},
					"max_width": maxWidthProperty,
				},
			},
		},

		// Combined Rendering
		{
			Name:        "image_process",
			Description: "Run every operation on an image and return the original, HSV, histogram, adjusted and contour images together. A failing operation is reported in errors without affecting the others.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"brightness": brightnessProperty,
					"contrast":   contrastProperty,
					"max_width":  maxWidthProperty,
				},
			},
		},
		{
			Name:        "image_set_params",
			Description: "Set the brightness and contrast of the session and re-render the active image with them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"brightness": brightnessProperty,
					"contrast":   contrastProperty,
					"max_width":  maxWidthProperty,
				},
				"required": []string{"brightness", "contrast"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
