package pptx

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// imageDPI is the resolution assumed when deriving physical image dimensions
// from pixels. 96 matches what presentation software assumes for untagged images.
const imageDPI = 96.0

// ImageRef is a decoded, type-detected image ready to be placed on a slide.
type ImageRef struct {
	Data []byte
	Mime string
	Ext  string // without leading dot

	// Natural size at 96 DPI, zero when the dimensions could not be decoded.
	Width  EMU
	Height EMU
}

// LoadImageFile reads and probes an image from disk.
func LoadImageFile(path string) (*ImageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImageNotFoundError{Path: path}
	}
	return LoadImageBytes(data), nil
}

// LoadImageBytes probes an in-memory image buffer. Content type comes from
// magic bytes, never from a filename.
func LoadImageBytes(data []byte) *ImageRef {
	mt := mimetype.Detect(data)
	ext := mt.Extension()
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	if ext == "" {
		ext = "png"
	}
	ref := &ImageRef{Data: data, Mime: mt.String(), Ext: ext}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		ref.Width = Inches(float64(cfg.Width) / imageDPI)
		ref.Height = Inches(float64(cfg.Height) / imageDPI)
	}
	return ref
}

// ScaleTo resolves the final display size. With neither dimension given the
// image is defaultWidth wide with the aspect ratio preserved; with exactly one
// given the other follows the aspect ratio; with both given the image is
// stretched to the exact dimensions.
func (r *ImageRef) ScaleTo(width, height EMU, defaultWidth EMU) (EMU, EMU) {
	aspect := 0.75 // fallback when dimensions are unknown
	if r.Width > 0 && r.Height > 0 {
		aspect = float64(r.Height) / float64(r.Width)
	}
	switch {
	case width == 0 && height == 0:
		return defaultWidth, EMU(float64(defaultWidth) * aspect)
	case height == 0:
		return width, EMU(float64(width) * aspect)
	case width == 0:
		return EMU(float64(height) / aspect), height
	default:
		return width, height
	}
}
