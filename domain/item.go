package domain

import (
	"time"
)

// ContentType discriminates the media kind of a ContentItem.
type ContentType string

const (
	ContentTypeBlog  ContentType = "blog"
	ContentTypeAudio ContentType = "audio"
	ContentTypeVideo ContentType = "video"
)

// ValidContentType reports whether t is one of the known content types.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeBlog, ContentTypeAudio, ContentTypeVideo:
		return true
	}
	return false
}

// ImpactLevel is derived from the significance score via fixed thresholds.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Impact thresholds. Score >= 8 is high, 5 <= score < 8 is medium, below 5 is low.
const (
	HighImpactThreshold   = 8.0
	MediumImpactThreshold = 5.0
)

// ImpactLevelFor maps a significance score to its impact level.
func ImpactLevelFor(score float64) ImpactLevel {
	switch {
	case score >= HighImpactThreshold:
		return ImpactHigh
	case score >= MediumImpactThreshold:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// ContentItem is a normalized unit of scraped content. URL is the primary
// dedup key (unique in the store); ContentHash catches syndicated reposts
// under a different URL. Once persisted an item is immutable except for
// SignificanceScore and Topics, which rescoring passes may recompute.
type ContentItem struct {
	ID                string      `db:"id"`
	Title             string      `db:"title"`
	SourceName        string      `db:"source_name"`
	ContentType       ContentType `db:"content_type"`
	URL               string      `db:"url"`
	ContentHash       string      `db:"content_hash"`
	Summary           string      `db:"summary"`
	Body              string      `db:"body"`
	SignificanceScore float64     `db:"significance_score"`
	Topics            []string    `db:"-"`
	PublishedAt       *time.Time  `db:"published_at"`
	ScrapedAt         time.Time   `db:"scraped_at"`

	// Media fields, set only for the matching content type.
	AudioURL     string `db:"audio_url"`
	ThumbnailURL string `db:"thumbnail_url"`
	Duration     string `db:"duration"`
}

// ImpactLevel returns the impact level derived from the item's score.
func (c *ContentItem) ImpactLevel() ImpactLevel {
	return ImpactLevelFor(c.SignificanceScore)
}

// EffectivePublishedAt returns the source-reported publication time, falling
// back to the scrape time when the source did not report one.
func (c *ContentItem) EffectivePublishedAt() time.Time {
	if c.PublishedAt != nil {
		return *c.PublishedAt
	}
	return c.ScrapedAt
}
