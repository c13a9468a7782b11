package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// Supported upload formats, as reported by image.DecodeConfig.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// Limits bounds what Decode will accept. Zero or negative fields mean no
// limit.
type Limits struct {
	// MaxBytes caps the encoded size.
	MaxBytes int64
	// MaxPixels caps width*height as declared in the image header, checked
	// before any pixel data is decoded.
	MaxPixels int64
}

// Decode reads an uploaded JPEG or PNG and returns it as a SpaceBGR buffer.
//
// Parameters:
//   - r: The encoded image bytes.
//   - lim: Size limits on the encoded bytes and the decoded canvas.
//
// Returns:
//   - *Buffer: The decoded three-channel image.
//   - string: The detected format, FormatJPEG or FormatPNG.
//   - error: Wraps ErrDecodeFailure for empty, oversize, unsupported or
//     corrupt input, or a canvas larger than lim.MaxPixels.
//
// JPEG EXIF orientation is applied during decoding, so the buffer is upright
// the way a browser would show it. Any alpha channel is discarded.
func Decode(r io.Reader, lim Limits) (*Buffer, string, error) {
	maxBytes := lim.MaxBytes
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read image: %v", ErrDecodeFailure, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecodeFailure)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("%w: input exceeds %d bytes", ErrDecodeFailure, maxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	if format != FormatJPEG && format != FormatPNG {
		return nil, "", fmt.Errorf("%w: unsupported format %q (want jpeg or png)", ErrDecodeFailure, format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, "", fmt.Errorf("%w: image has zero dimension", ErrDecodeFailure)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); lim.MaxPixels > 0 && pixels > lim.MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d image exceeds %d pixels", ErrDecodeFailure, cfg.Width, cfg.Height, lim.MaxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	return FromImage(img), format, nil
}

// ImageCache provides thread-safe caching of decoded buffers to avoid
// redundant disk reads and decodes.
//
// Buffers are keyed by the exact path string given to Load. Cached buffers
// are shared between callers and must not be modified; every operation in
// this module returns a new buffer instead of writing to its input.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*cachedImage
	limits Limits
}

type cachedImage struct {
	buf    *Buffer
	format string
}

// NewImageCache creates an empty cache that decodes files within lim.
func NewImageCache(lim Limits) *ImageCache {
	return &ImageCache{
		images: make(map[string]*cachedImage),
		limits: lim,
	}
}

// Load retrieves a buffer from the cache or decodes it from disk.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns an ErrDecodeFailure error if the file is not a valid JPEG or PNG
func (c *ImageCache) Load(path string) (*Buffer, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.buf, nil
}

func (c *ImageCache) load(path string) (*cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	buf, format, err := Decode(f, c.limits)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	entry := &cachedImage{buf: buf, format: format}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Clear removes all buffers from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific buffer from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached buffers.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a loaded upload.
type ImageInfo struct {
	// Path is the file the image was loaded from.
	Path string `json:"path"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is always 3; the buffer is stored as BGR.
	Channels int `json:"channels"`

	// Format is the detected encoding: "jpeg" or "png".
	// Detection is based on file contents, not the extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache (if not already cached) and
// returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Path:          path,
		Width:         entry.buf.Width,
		Height:        entry.buf.Height,
		Channels:      Channels,
		Format:        entry.format,
		FileSizeBytes: stat.Size(),
	}, nil
}
