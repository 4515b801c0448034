// ABOUTME: This file fetches and maps RSS/Atom feed entries into raw items
// ABOUTME: Handles podcast enclosures, video thumbnails and page enrichment for thin entries
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"ai-digest/domain"
	"ai-digest/normalizer"
)

// enrichBodyLimit bounds how much of an article page is read when a feed
// entry carries no description of its own.
const enrichBodyLimit = 1 << 20

type feedFetcher struct {
	parser        *gofeed.Parser
	client        *http.Client
	userAgent     string
	sourceTimeout time.Duration
	logger        *slog.Logger
}

// NewFeedFetcher creates a feed fetcher. The client is shared between feed
// parsing and page enrichment requests.
func NewFeedFetcher(client *http.Client, userAgent string, sourceTimeout time.Duration, logger *slog.Logger) FeedFetcher {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &feedFetcher{
		parser:        parser,
		client:        client,
		userAgent:     userAgent,
		sourceTimeout: sourceTimeout,
		logger:        logger,
	}
}

func (f *feedFetcher) Fetch(ctx context.Context, source domain.Source) ([]normalizer.RawItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.sourceTimeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(source.FeedURL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", source.Name, err)
	}

	raws := make([]normalizer.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		raw := f.mapEntry(entry, source)

		if source.Type == domain.ContentTypeBlog && raw.Description == "" && raw.Content == "" {
			f.enrichFromPage(fetchCtx, &raw)
		}

		raws = append(raws, raw)
	}

	f.logger.InfoContext(ctx, "feed fetched", "source", source.Name, "entries", len(raws))

	return raws, nil
}

func (f *feedFetcher) mapEntry(entry *gofeed.Item, source domain.Source) normalizer.RawItem {
	raw := normalizer.RawItem{
		Title:       entry.Title,
		Link:        entry.Link,
		Description: entry.Description,
		Content:     entry.Content,
	}

	if entry.PublishedParsed != nil {
		raw.Published = entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		raw.Published = entry.UpdatedParsed
	}

	switch source.Type {
	case domain.ContentTypeAudio:
		raw.AudioURL = audioEnclosure(entry)
		if entry.ITunesExt != nil {
			raw.Duration = entry.ITunesExt.Duration
		}
	case domain.ContentTypeVideo:
		raw.ThumbnailURL = videoThumbnail(entry)
	}

	return raw
}

// audioEnclosure picks the first audio enclosure URL from a podcast entry.
func audioEnclosure(entry *gofeed.Item) string {
	for _, enc := range entry.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "audio/") || enc.Type == "" {
			return enc.URL
		}
	}
	return ""
}

// videoThumbnail extracts a thumbnail from the media RSS extension used by
// YouTube channel feeds, falling back to the entry image.
func videoThumbnail(entry *gofeed.Item) string {
	if media, ok := entry.Extensions["media"]; ok {
		if groups, ok := media["group"]; ok && len(groups) > 0 {
			if thumbs, ok := groups[0].Children["thumbnail"]; ok && len(thumbs) > 0 {
				if url := thumbs[0].Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}
	if entry.Image != nil {
		return entry.Image.URL
	}
	return ""
}

// enrichFromPage fills in a description for feed entries that ship without
// one, from the linked page's og:description or first paragraph. Failures
// are logged and the entry proceeds with an empty description.
func (f *feedFetcher) enrichFromPage(ctx context.Context, raw *normalizer.RawItem) {
	if raw.Link == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw.Link, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.DebugContext(ctx, "page enrichment fetch failed", "url", raw.Link, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.DebugContext(ctx, "page enrichment skipped", "url", raw.Link, "status", resp.StatusCode)
		return
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, enrichBodyLimit))
	if err != nil {
		f.logger.DebugContext(ctx, "page enrichment parse failed", "url", raw.Link, "error", err)
		return
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && desc != "" {
		raw.Description = desc
		return
	}

	if para := strings.TrimSpace(doc.Find("p").First().Text()); para != "" {
		raw.Description = para
	}
}
