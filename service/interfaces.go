package service

import (
	"context"
	"time"

	"ai-digest/domain"
	"ai-digest/normalizer"
)

// FeedFetcher retrieves the raw entries of one source feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, source domain.Source) ([]normalizer.RawItem, error)
}

// IngestService runs the scrape pipeline: fetch, normalize, dedup, persist,
// score and classify.
type IngestService interface {
	Run(ctx context.Context) (*IngestResult, error)
}

// DigestService composes digest payloads and manages daily archives.
type DigestService interface {
	GetDigest(ctx context.Context, refresh bool) (*domain.DigestPayload, error)
	GetContent(ctx context.Context, contentType domain.ContentType, hours, limit int) ([]domain.ContentItemView, error)
	GetArchive(ctx context.Context, date time.Time) (*domain.DailyArchive, error)
	ListArchives(ctx context.Context, days int) ([]domain.DailyArchive, error)
}

// RescoreService re-derives significance and topics for stored items after a
// scoring table or taxonomy change.
type RescoreService interface {
	Run(ctx context.Context) (*RescoreResult, error)
}

// IngestResult summarizes one pipeline run.
type IngestResult struct {
	Sources       int           `json:"sources"`
	SourceErrors  int           `json:"sourceErrors"`
	Fetched       int           `json:"fetched"`
	Inserted      int           `json:"inserted"`
	DuplicateURL  int           `json:"duplicateUrl"`
	DuplicateHash int           `json:"duplicateHash"`
	Rejected      int           `json:"rejected"`
	Duration      time.Duration `json:"-"`
	Errors        []error       `json:"-"`
}

// RescoreResult summarizes one retroactive rescore run.
type RescoreResult struct {
	Processed int     `json:"processed"`
	Updated   int     `json:"updated"`
	Errors    []error `json:"-"`
}
