package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
)

// formImage opens the optional file in field. No file, or a request that is
// not multipart, yields a nil upload. The returned func closes the file.
func formImage(c echo.Context, field string) (*service.ImageUpload, func(), error) {
	noop := func() {}
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	if fileHeader.Size == 0 && fileHeader.Filename == "" {
		return nil, noop, nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, noop, err
	}
	return &service.ImageUpload{
		Reader:      src,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, func() { _ = src.Close() }, nil
}
