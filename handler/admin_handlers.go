// ABOUTME: This file serves the scrape and rescore trigger endpoints
// ABOUTME: Both share the pipeline run lock and answer 409 when a run is active
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleScrape triggers a pipeline run synchronously and reports its counts.
func handleScrape(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		result, err := h.Ingest.Run(ctx)
		if err != nil {
			h.Logger.ErrorContext(ctx, "scrape run failed", "error", err)
			return handleError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"status":        "completed",
			"sources":       result.Sources,
			"sourceErrors":  result.SourceErrors,
			"fetched":       result.Fetched,
			"inserted":      result.Inserted,
			"duplicateUrl":  result.DuplicateURL,
			"duplicateHash": result.DuplicateHash,
			"rejected":      result.Rejected,
			"durationMs":    result.Duration.Milliseconds(),
		})
	}
}

// handleRescore re-derives scores and topics for all stored items.
func handleRescore(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		result, err := h.Rescore.Run(ctx)
		if err != nil {
			h.Logger.ErrorContext(ctx, "rescore run failed", "error", err)
			return handleError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"status":    "completed",
			"processed": result.Processed,
			"updated":   result.Updated,
			"errors":    len(result.Errors),
		})
	}
}
