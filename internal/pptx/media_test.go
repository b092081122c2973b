package pptx

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLoadImageBytesDetectsType(t *testing.T) {
	ref := LoadImageBytes(pngBytes(t, 192, 96))
	if ref.Mime != "image/png" {
		t.Errorf("Mime = %q, want image/png", ref.Mime)
	}
	if ref.Ext != "png" {
		t.Errorf("Ext = %q, want png", ref.Ext)
	}
	if ref.Width != Inches(2.0) || ref.Height != Inches(1.0) {
		t.Errorf("natural size = %d x %d, want 2in x 1in at 96 DPI", ref.Width, ref.Height)
	}
}

func TestLoadImageFileMissing(t *testing.T) {
	_, err := LoadImageFile(filepath.Join(t.TempDir(), "missing.png"))
	if _, ok := err.(*ImageNotFoundError); !ok {
		t.Fatalf("err = %v, want ImageNotFoundError", err)
	}
}

func TestScaleTo(t *testing.T) {
	// 2:1 image
	ref := LoadImageBytes(pngBytes(t, 200, 100))
	def := Inches(4)

	w, h := ref.ScaleTo(0, 0, def)
	if w != def || h != Inches(2) {
		t.Errorf("both unset: %d x %d, want 4in x 2in", w, h)
	}

	w, h = ref.ScaleTo(Inches(6), 0, def)
	if w != Inches(6) || h != Inches(3) {
		t.Errorf("width only: %d x %d, want 6in x 3in", w, h)
	}

	w, h = ref.ScaleTo(0, Inches(1), def)
	if w != Inches(2) || h != Inches(1) {
		t.Errorf("height only: %d x %d, want 2in x 1in", w, h)
	}

	// both given: stretch, no aspect preservation
	w, h = ref.ScaleTo(Inches(5), Inches(5), def)
	if w != Inches(5) || h != Inches(5) {
		t.Errorf("both given: %d x %d, want 5in x 5in", w, h)
	}
}
