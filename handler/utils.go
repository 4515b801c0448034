package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ai-digest/domain"
)

// handleError maps domain errors onto HTTP responses. Anything unknown is a
// plain 500; the detailed error stays in the logs, not the response.
func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrArchiveNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "archive not found"})
	case errors.Is(err, domain.ErrRunInProgress):
		return c.JSON(http.StatusConflict, map[string]string{"error": "a pipeline run is already in progress"})
	case errors.Is(err, domain.ErrInvalidContentType):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid content type"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// intQuery parses an integer query parameter, falling back when absent or
// malformed.
func intQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := parsePositiveInt(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parsePositiveInt(raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("value must be positive: %d", value)
	}
	return value, nil
}
