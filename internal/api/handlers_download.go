// handlers_download.go - One-shot download of a session's file
package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/orsaadi/FileSenderBackhend/internal/transfer"
)

// HandleDownload streams the session's file and, once every byte has been
// written, closes the session and deletes the file. A failed stream leaves
// both in place so the client can retry.
func (h *Handler) HandleDownload(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("code")

	d, err := h.relay.OpenDownload(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrCodeNotFound):
			return NewNotFoundError(CodeNotFound, msgNoFile)
		case errors.Is(err, transfer.ErrNoFile):
			return NewNotFoundError(CodeNoFile, msgNoFile)
		default:
			return NewInternalError("Failed to read file.", err)
		}
	}

	contentType := d.Blob.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.Header().Set(echo.HeaderContentDisposition, attachment(d.FileName))
	res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(d.Blob.Size, 10))
	res.WriteHeader(http.StatusOK)

	n, err := io.Copy(res, d)
	d.Close()
	if err != nil {
		c.Logger().Warnf("[Download] %s: stream interrupted after %d bytes: %v", code, n, err)
		return nil
	}
	if n != d.Blob.Size {
		c.Logger().Warnf("[Download] %s: sent %d of %d bytes", code, n, d.Blob.Size)
		return nil
	}

	h.relay.CompleteDownload(ctx, d)
	return nil
}

func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
