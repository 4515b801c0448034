package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func handleListTopics(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		topics, err := h.Topics.ListEnabled(ctx)
		if err != nil {
			h.Logger.ErrorContext(ctx, "failed to list topics", "error", err)
			return handleError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{"topics": topics})
	}
}

func handleListSources(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sources, err := h.Sources.ListEnabled(ctx)
		if err != nil {
			h.Logger.ErrorContext(ctx, "failed to list sources", "error", err)
			return handleError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{"sources": sources})
	}
}

// handleHealth reports liveness plus database reachability.
func handleHealth(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var one int
		if err := h.DB.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
			h.Logger.ErrorContext(ctx, "health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unreachable",
			})
		}

		return c.JSON(http.StatusOK, map[string]string{
			"status":   "healthy",
			"database": "ok",
		})
	}
}
