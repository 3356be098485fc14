// handlers_session.go - Code generation, joining and session status
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/orsaadi/FileSenderBackhend/internal/codegen"
	"github.com/orsaadi/FileSenderBackhend/internal/transfer"
	"github.com/vmihailenco/msgpack/v5"
)

const mimeMsgpack = "application/msgpack"

type generateCodeResponse struct {
	Code string `json:"code"`
}

type joinSessionRequest struct {
	Code string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleGenerateCode registers a new session and returns its code.
func (h *Handler) HandleGenerateCode(c echo.Context) error {
	s := h.relay.NewSession(c.Request().Context())
	return c.JSON(http.StatusOK, generateCodeResponse{Code: s.Code})
}

// HandleJoinSession confirms that a code names a live session.
func (h *Handler) HandleJoinSession(c echo.Context) error {
	var req joinSessionRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid request body.", err)
	}

	if err := h.relay.Join(c.Request().Context(), req.Code); err != nil {
		if errors.Is(err, transfer.ErrCodeNotFound) {
			return NewNotFoundError(CodeNotFound, msgCodeNotFound)
		}
		return NewInternalError("Failed to join session.", err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: msgJoined})
}

// HandleSessionStatus describes a session. Clients asking for
// application/msgpack get the same document msgpack-encoded.
func (h *Handler) HandleSessionStatus(c echo.Context) error {
	code := c.Param("code")
	if !codegen.Valid(code) {
		return NewNotFoundError(CodeNotFound, msgCodeNotFound)
	}

	st, err := h.relay.Status(code)
	if err != nil {
		return NewNotFoundError(CodeNotFound, msgCodeNotFound)
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), mimeMsgpack) {
		data, err := msgpack.Marshal(st)
		if err != nil {
			return NewInternalError("Failed to encode msgpack.", err)
		}
		return c.Blob(http.StatusOK, mimeMsgpack, data)
	}

	return c.JSON(http.StatusOK, st)
}
