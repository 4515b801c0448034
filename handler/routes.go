package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"ai-digest/driver"
	"ai-digest/repository"
	"ai-digest/service"
)

// Handlers bundles everything the HTTP surface needs.
type Handlers struct {
	Digest  service.DigestService
	Ingest  service.IngestService
	Rescore service.RescoreService
	Topics  repository.TopicRepository
	Sources repository.SourceRepository
	DB      driver.DB
	Logger  *slog.Logger
}

// RegisterRoutes wires the API routes onto the echo instance.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	v1 := e.Group("/api/v1")

	v1.GET("/health", handleHealth(h))

	v1.GET("/digest", handleGetDigest(h))
	v1.GET("/content/:type", handleGetContent(h))
	v1.GET("/topics", handleListTopics(h))
	v1.GET("/sources", handleListSources(h))
	v1.GET("/archives", handleListArchives(h))
	v1.GET("/archives/:date", handleGetArchive(h))

	v1.POST("/scrape", handleScrape(h))
	v1.POST("/rescore", handleRescore(h))
}
