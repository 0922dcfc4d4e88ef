package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 2560
	defaultJPEGQuality  = 85
	fallbackContentType = "application/octet-stream"
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// Resizer downscales oversized jpeg, png and gif images in process. Anything
// it cannot decode or re-encode (webp, svg, non-images) passes through
// untouched.
type Resizer struct {
	maxDimension int
	jpegQuality  int
	scaler       draw.Scaler
}

func NewResizer(maxDimension int) *Resizer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Resizer{
		maxDimension: maxDimension,
		jpegQuality:  defaultJPEGQuality,
		scaler:       draw.CatmullRom,
	}
}

func (p *Resizer) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	contentType := NormalizeContentType(upload.ContentType, upload.FileName)
	passthrough := &Result{Bytes: data, ContentType: contentType}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return passthrough, nil
	}
	targetMax := maxDimension
	if targetMax <= 0 {
		targetMax = p.maxDimension
	}
	if cfg.Width <= targetMax && cfg.Height <= targetMax {
		return passthrough, nil
	}
	if format != "jpeg" && format != "png" && format != "gif" {
		return passthrough, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", format, err)
	}
	w, h := scaleToFit(cfg.Width, cfg.Height, targetMax)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	p.scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("media: encode %s: %w", format, err)
	}

	return &Result{
		Bytes:       buf.Bytes(),
		ContentType: "image/" + format,
		Resized:     true,
	}, nil
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width >= height {
		newH := int(math.Round(float64(height) * float64(maxDim) / float64(width)))
		return maxDim, atLeastOne(newH)
	}
	newW := int(math.Round(float64(width) * float64(maxDim) / float64(height)))
	return atLeastOne(newW), maxDim
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// NormalizeContentType prefers the declared type, then the file extension.
func NormalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	if ct != "" {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return fallbackContentType
}
