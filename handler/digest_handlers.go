// ABOUTME: This file serves the digest, content and archive read endpoints
// ABOUTME: All responses are JSON; domain errors map to 4xx, everything else to 500
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ai-digest/domain"
)

const defaultContentLimit = 20

// handleGetDigest serves the composed digest for the current window.
// ?refresh=true triggers a pipeline run first and overwrites today's
// archive snapshot.
func handleGetDigest(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		refresh := c.QueryParam("refresh") == "true"

		payload, err := h.Digest.GetDigest(ctx, refresh)
		if err != nil {
			h.Logger.ErrorContext(ctx, "failed to get digest", "error", err)
			return handleError(c, err)
		}

		return c.JSON(http.StatusOK, payload)
	}
}

// handleGetContent serves one content bucket. ?hours bounds the lookback
// window and ?limit the item count.
func handleGetContent(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		contentType := domain.ContentType(c.Param("type"))
		hours := intQuery(c, "hours", 0)
		limit := intQuery(c, "limit", defaultContentLimit)

		views, err := h.Digest.GetContent(ctx, contentType, hours, limit)
		if err != nil {
			h.Logger.ErrorContext(ctx, "failed to get content", "type", contentType, "error", err)
			return handleError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"type":  contentType,
			"items": views,
			"count": len(views),
		})
	}
}

func handleListArchives(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		days := intQuery(c, "days", 7)

		archives, err := h.Digest.ListArchives(ctx, days)
		if err != nil {
			h.Logger.ErrorContext(ctx, "failed to list archives", "error", err)
			return handleError(c, err)
		}

		summaries := make([]map[string]any, 0, len(archives))
		for _, a := range archives {
			summaries = append(summaries, map[string]any{
				"date":      a.Date.Format("2006-01-02"),
				"itemCount": a.ItemCount,
			})
		}

		return c.JSON(http.StatusOK, map[string]any{"archives": summaries})
	}
}

func handleGetArchive(h *Handlers) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		date, err := time.Parse("2006-01-02", c.Param("date"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		}

		archive, err := h.Digest.GetArchive(ctx, date)
		if err != nil {
			return handleError(c, err)
		}

		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, archive.Payload)
	}
}
