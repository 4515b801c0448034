// ABOUTME: Centralized error handling for the Echo framework
// ABOUTME: Maps domain errors to status codes and hides internal details from clients
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"ai-digest/domain"
)

// errorResponse is the uniform error body served to clients.
type errorResponse struct {
	Error string `json:"error"`
}

// CustomHTTPErrorHandler creates the centralized HTTP error handler for Echo.
// Handlers normally answer domain errors themselves; this catches anything
// that escapes, plus echo's own routing errors.
func CustomHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()

		status := http.StatusInternalServerError
		message := "internal server error"

		var httpErr *echo.HTTPError
		switch {
		case errors.Is(err, domain.ErrArchiveNotFound):
			status, message = http.StatusNotFound, "archive not found"
		case errors.Is(err, domain.ErrRunInProgress):
			status, message = http.StatusConflict, "a pipeline run is already in progress"
		case errors.Is(err, domain.ErrInvalidContentType):
			status, message = http.StatusBadRequest, "invalid content type"
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok && status < 500 {
				message = m
			} else if status < 500 {
				message = http.StatusText(status)
			}
		}

		if status >= 500 {
			logger.ErrorContext(ctx, "unhandled error", "error", err, "status", status)
		} else {
			logger.WarnContext(ctx, "request error", "error", err, "status", status)
		}

		if err := c.JSON(status, errorResponse{Error: message}); err != nil {
			logger.ErrorContext(ctx, "failed to send error response", "error", err)
		}
	}
}
