package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-adjust-mcp/internal/adjust"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
	"github.com/ironsheep/image-adjust-mcp/internal/session"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

// errInvalidArgs marks tool arguments that are malformed or missing. Such
// failures are reported with the JSON-RPC invalid params code.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_adjust").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors, including parameters outside the slider range, return
// code -32602. Other tool errors return code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	entry := s.log.WithFields(logrus.Fields{
		"tool":     params.Name,
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("tool failed")
		if errors.Is(err, errInvalidArgs) || errors.Is(err, session.ErrParamRange) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	entry.Debug("tool completed")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves the image from the cache or the session
//  4. Calls the adjust or session operation
//  5. Encodes image artifacts as base64 PNG
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Input
	case "image_load":
		return s.handleImageLoad(args)

	// Core Operations
	case "image_to_hsv":
		return s.handleImageToHSV(args)
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_adjust":
		return s.handleImageAdjust(args)
	case "image_find_contours":
		return s.handleImageFindContours(args)

	// Combined Rendering
	case "image_process":
		return s.handleImageProcess(args)
	case "image_set_params":
		return s.handleImageSetParams(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// resolveImage returns the image at path, or the active image if path is
// empty, together with its label.
func (s *Server) resolveImage(path string) (string, *imaging.Buffer, error) {
	if path != "" {
		img, err := s.cache.Load(path)
		if err != nil {
			return "", nil, err
		}
		return path, img, nil
	}
	source, img := s.session.Image()
	if img == nil {
		return "", nil, fmt.Errorf("%w: no path given and %v; call image_load first", errInvalidArgs, session.ErrNoImage)
	}
	return source, img, nil
}

// maxWidth returns the requested preview width or the configured default.
func (s *Server) maxWidth(requested *int) (int, error) {
	if requested == nil {
		return s.cfg.MaxWidth, nil
	}
	if *requested < 0 {
		return 0, fmt.Errorf("%w: max_width must be >= 0, got %d", errInvalidArgs, *requested)
	}
	return *requested, nil
}

// requireParams checks that both slider values were supplied and in range.
func requireParams(brightness, contrast *int) (session.Params, error) {
	if brightness == nil || contrast == nil {
		return session.Params{}, fmt.Errorf("%w: brightness and contrast are required", errInvalidArgs)
	}
	p := session.Params{Brightness: *brightness, Contrast: *contrast}
	return p, p.Validate()
}

// === Image Input Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

type imageLoadResult struct {
	*imaging.ImageInfo
	Active bool `json:"active"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}

	// A load is an upload: the file may have been replaced since it was cached.
	s.cache.Evict(a.Path)
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if _, err := s.session.SetImage(a.Path, img); err != nil {
		return nil, err
	}
	return &imageLoadResult{ImageInfo: info, Active: true}, nil
}

// === Core Operation Handlers ===

type imageArgs struct {
	Path     string `json:"path"`
	MaxWidth *int   `json:"max_width"`
}

type imageArtifactResult struct {
	Source string                `json:"source"`
	Space  string                `json:"space"`
	Image  *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleImageToHSV(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	maxWidth, err := s.maxWidth(a.MaxWidth)
	if err != nil {
		return nil, err
	}
	source, img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	hsv, err := s.proc.ToHSV(img)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(hsv, maxWidth)
	if err != nil {
		return nil, err
	}
	return &imageArtifactResult{Source: source, Space: hsv.Space.String(), Image: enc}, nil
}

type imageHistogramArgs struct {
	Path         string `json:"path"`
	IncludeChart *bool  `json:"include_chart"`
}

type histogramResult struct {
	Source string `json:"source"`
	*adjust.HistogramResult
	ChartImage *imaging.EncodedImage `json:"chart,omitempty"`
}

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	var a imageHistogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	includeChart := a.IncludeChart == nil || *a.IncludeChart

	source, img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	var res *adjust.HistogramResult
	if includeChart {
		res, err = s.proc.Histogram(img)
	} else {
		res, err = s.proc.Tally(img)
	}
	if err != nil {
		return nil, err
	}
	return newHistogramResult(source, res)
}

func newHistogramResult(source string, res *adjust.HistogramResult) (*histogramResult, error) {
	out := &histogramResult{Source: source, HistogramResult: res}
	if res.Chart != nil {
		enc, err := imaging.EncodePNG(res.Chart, 0)
		if err != nil {
			return nil, err
		}
		out.ChartImage = enc
	}
	return out, nil
}

type imageAdjustArgs struct {
	Path       string `json:"path"`
	Brightness *int   `json:"brightness"`
	Contrast   *int   `json:"contrast"`
	MaxWidth   *int   `json:"max_width"`
}

type adjustResult struct {
	Source     string                `json:"source"`
	Brightness int                   `json:"brightness"`
	Contrast   int                   `json:"contrast"`
	Image      *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleImageAdjust(args json.RawMessage) (interface{}, error) {
	var a imageAdjustArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	params, err := requireParams(a.Brightness, a.Contrast)
	if err != nil {
		return nil, err
	}
	maxWidth, err := s.maxWidth(a.MaxWidth)
	if err != nil {
		return nil, err
	}
	source, img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	out, err := s.proc.Adjust(img, params.Brightness, params.Contrast)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(out, maxWidth)
	if err != nil {
		return nil, err
	}
	return &adjustResult{
		Source:     source,
		Brightness: params.Brightness,
		Contrast:   params.Contrast,
		Image:      enc,
	}, nil
}

type imageFindContoursArgs struct {
	Path     string `json:"path"`
	Draw     *bool  `json:"draw"`
	MaxWidth *int   `json:"max_width"`
}

// point is a contour vertex in image coordinates.
type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type contoursResult struct {
	Source   string                `json:"source"`
	Count    int                   `json:"count"`
	Contours [][]point             `json:"contours"`
	Overlay  *imaging.EncodedImage `json:"overlay,omitempty"`
}

func (s *Server) handleImageFindContours(args json.RawMessage) (interface{}, error) {
	var a imageFindContoursArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	draw := a.Draw == nil || *a.Draw
	maxWidth, err := s.maxWidth(a.MaxWidth)
	if err != nil {
		return nil, err
	}
	source, img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	contours, err := s.proc.Contours(img)
	if err != nil {
		return nil, err
	}
	res := newContoursResult(source, contours)
	if draw {
		overlay, err := s.proc.DrawContours(img, contours)
		if err != nil {
			return nil, err
		}
		if res.Overlay, err = imaging.EncodePNG(overlay, maxWidth); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func newContoursResult(source string, contours []vision.Contour) *contoursResult {
	res := &contoursResult{
		Source:   source,
		Count:    len(contours),
		Contours: make([][]point, len(contours)),
	}
	for i, c := range contours {
		pts := make([]point, len(c))
		for j, p := range c {
			pts[j] = point{X: p.X, Y: p.Y}
		}
		res.Contours[i] = pts
	}
	return res
}

// === Combined Rendering Handlers ===

type processResult struct {
	Source    string                `json:"source"`
	Params    session.Params        `json:"params"`
	Original  *imaging.EncodedImage `json:"original,omitempty"`
	HSV       *imaging.EncodedImage `json:"hsv,omitempty"`
	Histogram *histogramResult      `json:"histogram,omitempty"`
	Adjusted  *imaging.EncodedImage `json:"adjusted,omitempty"`
	Contours  *contoursResult       `json:"contours,omitempty"`
	Errors    map[string]string     `json:"errors,omitempty"`
	ElapsedMS int64                 `json:"elapsed_ms"`
	Message   string                `json:"message"`
}

// newProcessResult encodes every artifact of r. An encoding failure is
// recorded against its artifact like a processing failure.
func newProcessResult(source string, r *session.Report, maxWidth int) *processResult {
	out := &processResult{
		Source:    source,
		Params:    r.Params,
		ElapsedMS: r.Elapsed.Milliseconds(),
		Message:   session.CompletionMessage,
	}
	fail := func(artifact string, err error) {
		if out.Errors == nil {
			out.Errors = make(map[string]string)
		}
		out.Errors[artifact] = err.Error()
	}
	for name, err := range r.Errors {
		fail(name, err)
	}

	encode := func(artifact string, b *imaging.Buffer) *imaging.EncodedImage {
		if b == nil {
			return nil
		}
		enc, err := imaging.EncodePNG(b, maxWidth)
		if err != nil {
			fail(artifact, err)
			return nil
		}
		return enc
	}
	out.Original = encode(session.ArtifactOriginal, r.Original)
	out.HSV = encode(session.ArtifactHSV, r.HSV)
	out.Adjusted = encode(session.ArtifactAdjusted, r.Adjusted)

	if r.Histogram != nil {
		h, err := newHistogramResult(source, r.Histogram)
		if err != nil {
			fail(session.ArtifactHistogram, err)
		} else {
			out.Histogram = h
		}
	}
	if r.Overlay != nil {
		out.Contours = newContoursResult(source, r.Contours)
		out.Contours.Overlay = encode(session.ArtifactContours, r.Overlay)
	}
	return out
}

type imageProcessArgs struct {
	Path       string `json:"path"`
	Brightness *int   `json:"brightness"`
	Contrast   *int   `json:"contrast"`
	MaxWidth   *int   `json:"max_width"`
}

func (s *Server) handleImageProcess(args json.RawMessage) (interface{}, error) {
	var a imageProcessArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	params := s.session.Params()
	if a.Brightness != nil {
		params.Brightness = *a.Brightness
	}
	if a.Contrast != nil {
		params.Contrast = *a.Contrast
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	maxWidth, err := s.maxWidth(a.MaxWidth)
	if err != nil {
		return nil, err
	}
	// The active image with its own parameters has already been rendered.
	if a.Path == "" && a.Brightness == nil && a.Contrast == nil {
		if last := s.session.Last(); last != nil {
			return newProcessResult(s.session.Source(), last, maxWidth), nil
		}
	}
	source, img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	return newProcessResult(source, session.Render(s.proc, img, params), maxWidth), nil
}

type imageSetParamsArgs struct {
	Brightness *int `json:"brightness"`
	Contrast   *int `json:"contrast"`
	MaxWidth   *int `json:"max_width"`
}

func (s *Server) handleImageSetParams(args json.RawMessage) (interface{}, error) {
	var a imageSetParamsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	params, err := requireParams(a.Brightness, a.Contrast)
	if err != nil {
		return nil, err
	}
	maxWidth, err := s.maxWidth(a.MaxWidth)
	if err != nil {
		return nil, err
	}

	r, err := s.session.SetParams(params)
	if errors.Is(err, session.ErrNoImage) {
		return nil, fmt.Errorf("%w: %v; call image_load first", errInvalidArgs, err)
	}
	if err != nil {
		return nil, err
	}
	return newProcessResult(s.session.Source(), r, maxWidth), nil
}
