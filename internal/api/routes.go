// routes.go - Route and middleware registration
package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RegisterRoutes registers all relay routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/generate_code", h.HandleGenerateCode)
	e.POST("/join-session", h.HandleJoinSession)
	e.POST("/upload/:code", h.HandleUpload)
	e.GET("/download/:code", h.HandleDownload)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.GET("/stats", h.HandleStats)
	apiGroup.GET("/sessions/:code", h.HandleSessionStatus)
}

// MiddlewareConfig selects optional middleware
type MiddlewareConfig struct {
	BodyLimit      string
	RequestLogging bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	if cfg.RequestLogging {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Skipper: func(c echo.Context) bool {
				return c.Request().URL.Path == "/api/health"
			},
		}))
	}

	// Any origin may call the relay.
	e.Use(middleware.CORS())

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
}
