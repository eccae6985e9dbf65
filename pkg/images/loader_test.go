package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoader_DataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 2, 3))
	l := NewLoader("")
	img, err := l.Load(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Errorf("expected 2x3 image, got %dx%d", b.Dx(), b.Dy())
	}

	img2, err := l.Load(uri)
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if img != img2 {
		t.Error("expected cached image to be the same value")
	}
}

func TestLoader_RelativeFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), encodePNG(t, 7, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	w, h, err := NewLoader(dir).Size("pic.png")
	if err != nil {
		t.Fatal(err)
	}
	if w != 7 || h != 5 {
		t.Errorf("expected 7x5, got %dx%d", w, h)
	}
}

func TestLoader_Errors(t *testing.T) {
	l := NewLoader(t.TempDir())
	tests := []string{
		"missing.png",
		"data:image/png;base64",
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=",
	}
	for _, src := range tests {
		if _, err := l.Load(src); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
	if _, err := l.Load("https://example.com/a.png"); !errors.Is(err, ErrRemoteImage) {
		t.Errorf("expected ErrRemoteImage, got %v", err)
	}
}
