package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/media"
)

func TestMediaGateway_UploadKeysAndPublicBase(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	g := NewMediaGateway(storage, MediaGatewayConfig{
		Bucket:        testBucket,
		PublicBaseURL: "https://cdn.hens.travel/media/",
		Logger:        zerolog.Nop(),
	})
	g.SetClock(fixedClock)

	url, err := g.Upload(ctx, PrefixHomeHero, ImageUpload{Reader: strings.NewReader("x"), FileName: `C:\photos\notre dame.jpg`})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	objectName := "home/hero/1717237800000_notre dame.jpg"
	if !storage.has(objectName) {
		t.Fatalf("expected object %q, have %v", objectName, storage.objects)
	}
	if want := "https://cdn.hens.travel/media/home/hero/1717237800000_notre%20dame.jpg"; url != want {
		t.Fatalf("expected %s, got %s", want, url)
	}
	if storage.types[objectName] != "image/jpeg" {
		t.Fatalf("expected content type from extension, got %s", storage.types[objectName])
	}

	if err := g.Remove(ctx, url); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if storage.has(objectName) {
		t.Fatalf("expected object removed via public url")
	}
}

func TestMediaGateway_RemoveMapsStorageURLs(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	g := newTestGateway(storage)

	url, err := g.Upload(ctx, PrefixTours, ImageUpload{Reader: strings.NewReader("x"), FileName: "walk.webp"})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if err := g.Remove(ctx, url); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(storage.removed) != 1 || storage.removed[0] != "tours/1717237800000_walk.webp" {
		t.Fatalf("unexpected removals %v", storage.removed)
	}

	for _, foreign := range []string{"", "https://images.example.com/hens-media/tours/a.jpg", "http://minio.local:9000/other-bucket/a.jpg"} {
		if err := g.Remove(ctx, foreign); err != nil {
			t.Fatalf("Remove(%q) returned error: %v", foreign, err)
		}
	}
	if len(storage.removed) != 1 {
		t.Fatalf("expected foreign urls to be ignored, got %v", storage.removed)
	}

	storage.removeErr = errBackend
	if err := g.Remove(ctx, "http://minio.local:9000/hens-media/tours/b.jpg"); !errors.Is(err, ErrMedia) {
		t.Fatalf("expected ErrMedia, got %v", err)
	}
}

func TestMediaGateway_DownscalesThroughProcessor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	storage := newMemoryStorage()
	g := NewMediaGateway(storage, MediaGatewayConfig{
		Bucket:            testBucket,
		ImageMaxDimension: 100,
		ImageProcessor:    media.NewResizer(0),
		Logger:            zerolog.Nop(),
	})
	g.SetClock(fixedClock)

	if _, err := g.Upload(context.Background(), PrefixTours, ImageUpload{Reader: &buf, Size: int64(buf.Len()), FileName: "wide.png"}); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	stored := storage.objects["tours/1717237800000_wide.png"]
	cfg, _, err := image.DecodeConfig(bytes.NewReader(stored))
	if err != nil {
		t.Fatalf("decode stored: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}
}
