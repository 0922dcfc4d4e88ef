package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/media"
	"github.com/zachrizzo/hens-travel/internal/metrics"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

const (
	PrefixTours     = "tours"
	PrefixHomeHero  = "home/hero"
	PrefixHomeAbout = "home/about"
)

// ImageUpload is a file picked in an admin form.
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type MediaGatewayConfig struct {
	Bucket string
	// PublicBaseURL replaces the storage URL in returned links when set.
	PublicBaseURL string
	// EndpointURL is the object store origin, used to recognise our own URLs.
	EndpointURL       string
	ImageMaxDimension int
	ImageProcessor    media.Processor
	Logger            zerolog.Logger
}

type MediaGateway struct {
	storage    ports.ObjectStorage
	bucket     string
	publicBase string
	endpoint   *url.URL
	maxDim     int
	processor  media.Processor
	now        func() time.Time
	logger     zerolog.Logger
}

func NewMediaGateway(storage ports.ObjectStorage, cfg MediaGatewayConfig) *MediaGateway {
	maxDim := cfg.ImageMaxDimension
	if maxDim <= 0 {
		maxDim = media.DefaultMaxDimension
	}
	var endpoint *url.URL
	if cfg.EndpointURL != "" {
		if u, err := url.Parse(cfg.EndpointURL); err == nil && u.Host != "" {
			endpoint = u
		}
	}
	return &MediaGateway{
		storage:    storage,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		endpoint:   endpoint,
		maxDim:     maxDim,
		processor:  cfg.ImageProcessor,
		now:        time.Now,
		logger:     cfg.Logger,
	}
}

func (g *MediaGateway) SetClock(now func() time.Time) {
	if now != nil {
		g.now = now
	}
}

// Upload stores file under {prefix}/{unixMillis}_{fileName} and returns its
// public URL.
func (g *MediaGateway) Upload(ctx context.Context, prefix string, file ImageUpload) (string, error) {
	if file.Reader == nil {
		return "", mediaErr("upload", errors.New("empty file"))
	}
	objectName := g.ObjectName(prefix, file.FileName)
	contentType := media.NormalizeContentType(file.ContentType, file.FileName)

	reader, size, contentType, err := g.prepare(ctx, file, contentType)
	if err != nil {
		metrics.ObserveMedia("upload", err)
		return "", mediaErr("process image", err)
	}

	publicURL, err := g.storage.Upload(ctx, g.bucket, objectName, contentType, reader, size)
	metrics.ObserveMedia("upload", err)
	if err != nil {
		return "", mediaErr("upload "+objectName, err)
	}
	if g.publicBase != "" {
		publicURL = g.publicBase + "/" + escapeObjectName(objectName)
	}
	g.logger.Debug().Str("object", objectName).Str("content_type", contentType).Msg("media uploaded")
	return publicURL, nil
}

func (g *MediaGateway) ObjectName(prefix, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	return fmt.Sprintf("%s/%d_%s", prefix, g.now().UnixMilli(), baseFileName(fileName))
}

func (g *MediaGateway) prepare(ctx context.Context, file ImageUpload, contentType string) (io.Reader, int64, string, error) {
	if g.processor == nil {
		return file.Reader, file.Size, contentType, nil
	}
	result, err := g.processor.Process(ctx, media.Upload{
		Reader:      file.Reader,
		Size:        file.Size,
		FileName:    file.FileName,
		ContentType: contentType,
	}, g.maxDim)
	if err != nil {
		return nil, 0, "", err
	}
	return bytes.NewReader(result.Bytes), int64(len(result.Bytes)), result.ContentType, nil
}

// Remove deletes the object behind rawURL. URLs that do not point into the
// bucket are ignored.
func (g *MediaGateway) Remove(ctx context.Context, rawURL string) error {
	objectName, ok := g.objectNameFromURL(rawURL)
	if !ok {
		g.logger.Debug().Str("url", rawURL).Msg("media remove skipped: foreign url")
		return nil
	}
	err := g.storage.Remove(ctx, g.bucket, objectName)
	metrics.ObserveMedia("remove", err)
	if err != nil {
		return mediaErr("remove "+objectName, err)
	}
	return nil
}

func (g *MediaGateway) objectNameFromURL(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}
	if g.publicBase != "" && strings.HasPrefix(rawURL, g.publicBase+"/") {
		rest := strings.TrimPrefix(rawURL, g.publicBase+"/")
		if i := strings.IndexAny(rest, "?#"); i >= 0 {
			rest = rest[:i]
		}
		name, err := url.PathUnescape(rest)
		if err != nil || name == "" {
			return "", false
		}
		return name, true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if g.endpoint != nil && !strings.EqualFold(u.Host, g.endpoint.Host) {
		return "", false
	}
	bucketPrefix := "/" + g.bucket + "/"
	if !strings.HasPrefix(u.Path, bucketPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(u.Path, bucketPrefix)
	return name, name != ""
}

func baseFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return base
}

func escapeObjectName(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
