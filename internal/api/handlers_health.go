// handlers_health.go - Health and ledger stats
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orsaadi/FileSenderBackhend/internal/audit"
)

// HandleHealth returns server health status
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"sessions": h.relay.SessionCount(),
	})
}

// HandleStats returns the transfer ledger summary.
func (h *Handler) HandleStats(c echo.Context) error {
	sum, err := h.relay.Stats(c.Request().Context())
	if err != nil {
		if errors.Is(err, audit.ErrDisabled) {
			return NewServiceUnavailableError("Transfer ledger is disabled.")
		}
		return NewInternalError("Failed to read stats.", err)
	}
	return c.JSON(http.StatusOK, sum)
}
