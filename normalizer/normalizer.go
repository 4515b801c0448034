// ABOUTME: This file maps heterogeneous scraped items into the canonical ContentItem shape
// ABOUTME: Validation, HTML stripping and content hashing happen here, before dedup
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"ai-digest/domain"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// hashBodyPrefix is how many body characters participate in the content hash.
const hashBodyPrefix = 500

// RawItem is one entry as produced by a fetcher, before normalization.
// Feed entries, podcast enclosures and video metadata all collapse into this
// shape; only the media fields differ per source type.
type RawItem struct {
	Title       string
	Link        string
	Description string
	Content     string
	Published   *time.Time

	AudioURL     string
	ThumbnailURL string
	Duration     string
}

// Normalizer converts RawItems into ContentItems.
type Normalizer struct {
	policy *bluemonday.Policy
	logger *slog.Logger
}

// New creates a Normalizer.
func New(logger *slog.Logger) *Normalizer {
	return &Normalizer{
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// Normalize validates and converts a raw item fetched from the given source.
// A missing title or URL is a structured rejection, never fatal to the batch.
func (n *Normalizer) Normalize(raw RawItem, source domain.Source, scrapedAt time.Time) (*domain.ContentItem, error) {
	title := CollapseWhitespace(n.stripHTML(raw.Title))
	if title == "" {
		return nil, domain.ErrMissingTitle
	}

	link := strings.TrimSpace(raw.Link)
	if link == "" {
		return nil, domain.ErrMissingURL
	}

	if _, err := url.ParseRequestURI(link); err != nil {
		return nil, fmt.Errorf("failed to parse item URL %q: %w", link, domain.ErrMissingURL)
	}

	if !domain.ValidContentType(source.Type) {
		return nil, domain.ErrInvalidContentType
	}

	summary := CollapseWhitespace(n.stripHTML(raw.Description))
	body := CollapseWhitespace(n.stripHTML(raw.Content))
	if body == "" {
		body = summary
	}

	item := &domain.ContentItem{
		ID:          uuid.NewString(),
		Title:       title,
		SourceName:  source.Name,
		ContentType: source.Type,
		URL:         link,
		ContentHash: ContentHash(title, body),
		Summary:     summary,
		Body:        body,
		PublishedAt: raw.Published,
		ScrapedAt:   scrapedAt,
	}

	switch source.Type {
	case domain.ContentTypeAudio:
		item.AudioURL = strings.TrimSpace(raw.AudioURL)
		item.Duration = strings.TrimSpace(raw.Duration)
	case domain.ContentTypeVideo:
		item.ThumbnailURL = strings.TrimSpace(raw.ThumbnailURL)
		item.Duration = strings.TrimSpace(raw.Duration)
	}

	return item, nil
}

// ContentHash computes the secondary dedup key: a stable hash of the
// lower-cased, whitespace-normalized title plus the first 500 characters of
// the body. Items syndicated under different URLs hash identically.
func ContentHash(title, body string) string {
	normalized := strings.ToLower(CollapseWhitespace(title))

	b := strings.ToLower(CollapseWhitespace(body))
	if runes := []rune(b); len(runes) > hashBodyPrefix {
		b = string(runes[:hashBodyPrefix])
	}

	sum := sha256.Sum256([]byte(normalized + "\x00" + b))
	return hex.EncodeToString(sum[:])
}

// CollapseWhitespace trims the string and folds any internal whitespace run
// into a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (n *Normalizer) stripHTML(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(n.policy.Sanitize(s))
}
