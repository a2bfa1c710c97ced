package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/metrics"
	"github.com/iliyamo/studio-site/internal/storage"
)

// Uploader stores media and returns its public URL.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// UploadHandler serves POST /admin/api/uploads (multipart field "file").
type UploadHandler struct {
	Storage  Uploader
	MaxBytes int64
	Metrics  *metrics.Collector
	Log      *zap.Logger
}

func (h *UploadHandler) Upload(c echo.Context) error {
	if h.Storage == nil || !h.Storage.Configured() {
		h.Metrics.Upload("not_configured")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Storage not configured"})
	}
	if h.MaxBytes > 0 {
		if c.Request().ContentLength > h.MaxBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
		}
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.MaxBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file unreadable"})
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	url, err := h.Storage.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
	switch {
	case errors.Is(err, storage.ErrStorageNotConfigured):
		h.Metrics.Upload("not_configured")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Storage not configured"})
	case err != nil:
		h.Metrics.Upload("error")
		h.Log.Error("upload failed", zap.String("filename", fh.Filename), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Upload failed"})
	}
	h.Metrics.Upload("ok")
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
