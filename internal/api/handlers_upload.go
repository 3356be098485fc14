// handlers_upload.go - Multipart upload bound to a session code
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orsaadi/FileSenderBackhend/internal/transfer"
)

type uploadResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}

// HandleUpload stores the multipart "file" field as the session's file.
func (h *Handler) HandleUpload(c echo.Context) error {
	code := c.Param("code")
	if !h.relay.Exists(code) {
		return NewNotFoundError(CodeNotFound, msgCodeNotFound)
	}

	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return echo.ErrStatusRequestEntityTooLarge
		}
		return NewBadRequestError(msgNoFileProvided, err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("Failed to read uploaded file.", err)
	}
	defer src.Close()

	if _, err := h.relay.Upload(c.Request().Context(), code, file.Filename, src); err != nil {
		if errors.Is(err, transfer.ErrCodeNotFound) {
			return NewNotFoundError(CodeNotFound, msgCodeNotFound)
		}
		return NewInternalError("Failed to store file.", err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:  msgUploaded,
		FileName: file.Filename,
	})
}
