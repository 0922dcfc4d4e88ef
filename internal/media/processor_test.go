package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResizerDownscalesLargeImages(t *testing.T) {
	data := encodePNG(t, 200, 100)
	res, err := NewResizer(0).Process(context.Background(), Upload{
		Reader:   bytes.NewReader(data),
		Size:     int64(len(data)),
		FileName: "hero.png",
	}, 50)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !res.Resized {
		t.Fatalf("expected image to be resized")
	}
	if res.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %s", res.ContentType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Bytes))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Fatalf("expected 50x25, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestResizerPassesThroughSmallAndUnknownInput(t *testing.T) {
	small := encodePNG(t, 10, 10)
	res, err := NewResizer(100).Process(context.Background(), Upload{Reader: bytes.NewReader(small), FileName: "a.png"}, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if res.Resized || !bytes.Equal(res.Bytes, small) {
		t.Fatalf("expected small image to pass through unchanged")
	}

	text := []byte("not an image at all")
	res, err = NewResizer(100).Process(context.Background(), Upload{Reader: bytes.NewReader(text), FileName: "notes.pdf"}, 0)
	if err != nil {
		t.Fatalf("Process returned error for non-image: %v", err)
	}
	if res.Resized || !bytes.Equal(res.Bytes, text) {
		t.Fatalf("expected non-image to pass through unchanged")
	}
	if res.ContentType != "application/pdf" {
		t.Fatalf("expected content type from extension, got %s", res.ContentType)
	}
}

func TestNormalizeContentType(t *testing.T) {
	cases := []struct {
		declared, file, want string
	}{
		{"image/JPG", "x", "image/jpeg"},
		{"", "photo.JPEG", "image/jpeg"},
		{"", "photo.webp", "image/webp"},
		{"", "noext", "application/octet-stream"},
		{"image/png", "photo.jpg", "image/png"},
	}
	for _, tc := range cases {
		if got := NormalizeContentType(tc.declared, tc.file); got != tc.want {
			t.Fatalf("NormalizeContentType(%q, %q) = %q, want %q", tc.declared, tc.file, got, tc.want)
		}
	}
}
