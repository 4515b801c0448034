// ABOUTME: This file composes the time-windowed, ranked digest payload
// ABOUTME: Composition is a pure function of the item set and the window parameters
package composer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ai-digest/domain"
)

// Ranking weights: significance dominates, recency breaks the spread.
const (
	weightSignificance = 0.6
	weightRecency      = 0.4
)

// Caps bound the size of each digest section.
type Caps struct {
	Blog       int
	Audio      int
	Video      int
	TopStories int
	KeyPoints  int
}

// DefaultCaps mirrors the sizes served by the public digest.
func DefaultCaps() Caps {
	return Caps{Blog: 20, Audio: 15, Video: 15, TopStories: 3, KeyPoints: 6}
}

// Composer assembles digest payloads. topicCategories maps topic IDs to
// their taxonomy category and drives the research/industry metrics.
type Composer struct {
	caps            Caps
	topicCategories map[string]string
}

// New creates a Composer.
func New(caps Caps, topicCategories map[string]string) *Composer {
	return &Composer{caps: caps, topicCategories: topicCategories}
}

// Compose selects, ranks and groups the given items into a digest payload for
// the window [now-windowHours, now]. Rerunning with the same inputs yields
// identical output. An empty window produces an empty, valid payload.
func (c *Composer) Compose(items []domain.ContentItem, windowHours int, now time.Time) domain.DigestPayload {
	windowStart := now.Add(-time.Duration(windowHours) * time.Hour)

	selected := filterWindow(items, windowStart, now)
	rankAll(selected, windowStart, now)

	blog := truncate(bucket(selected, domain.ContentTypeBlog), c.caps.Blog)
	audio := truncate(bucket(selected, domain.ContentTypeAudio), c.caps.Audio)
	video := truncate(bucket(selected, domain.ContentTypeVideo), c.caps.Video)

	kept := make([]rankedItem, 0, len(blog)+len(audio)+len(video))
	kept = append(kept, blog...)
	kept = append(kept, audio...)
	kept = append(kept, video...)

	topStories := truncate(selected, c.caps.TopStories)

	payload := domain.DigestPayload{
		Summary: domain.DigestSummary{
			KeyPoints: c.keyPoints(selected),
			Metrics:   c.metrics(kept),
		},
		TopStories: make([]domain.TopStory, 0, len(topStories)),
		Content: domain.DigestContent{
			Blog:  views(blog, now),
			Audio: views(audio, now),
			Video: views(video, now),
		},
		Timestamp: now.Format(time.RFC3339),
		Badge:     badge(now),
	}

	for _, r := range topStories {
		payload.TopStories = append(payload.TopStories, domain.TopStory{
			Title:             r.item.Title,
			Source:            r.item.SourceName,
			SignificanceScore: round1(r.item.SignificanceScore),
			URL:               r.item.URL,
		})
	}

	return payload
}

type rankedItem struct {
	item domain.ContentItem
	rank float64
}

// RankScore computes the composite ranking score for an item inside a window:
// 0.6 * significance + 0.4 * recency, where recency decays linearly from 1.0
// at now to 0.0 at the window boundary.
func RankScore(item *domain.ContentItem, windowStart, now time.Time) float64 {
	window := now.Sub(windowStart)
	if window <= 0 {
		return weightSignificance * item.SignificanceScore
	}

	age := now.Sub(item.EffectivePublishedAt())
	recency := 1.0 - float64(age)/float64(window)
	if recency < 0 {
		recency = 0
	}
	if recency > 1 {
		recency = 1
	}

	return weightSignificance*item.SignificanceScore + weightRecency*recency
}

func filterWindow(items []domain.ContentItem, windowStart, now time.Time) []rankedItem {
	selected := make([]rankedItem, 0, len(items))
	for i := range items {
		ts := items[i].EffectivePublishedAt()
		// Inclusive lower bound: an item published exactly at the boundary
		// belongs to the window.
		if ts.Before(windowStart) || ts.After(now) {
			continue
		}
		selected = append(selected, rankedItem{item: items[i]})
	}
	return selected
}

// rankAll orders items by ranking score descending, breaking ties by more
// recent publication and finally lexicographic URL so the order is total.
func rankAll(items []rankedItem, windowStart, now time.Time) {
	for i := range items {
		items[i].rank = RankScore(&items[i].item, windowStart, now)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.rank != b.rank {
			return a.rank > b.rank
		}
		at, bt := a.item.EffectivePublishedAt(), b.item.EffectivePublishedAt()
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.item.URL < b.item.URL
	})
}

func bucket(items []rankedItem, t domain.ContentType) []rankedItem {
	var out []rankedItem
	for _, r := range items {
		if r.item.ContentType == t {
			out = append(out, r)
		}
	}
	return out
}

func truncate(items []rankedItem, limit int) []rankedItem {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (c *Composer) metrics(kept []rankedItem) domain.DigestMetrics {
	m := domain.DigestMetrics{TotalUpdates: len(kept)}
	for _, r := range kept {
		if r.item.ImpactLevel() == domain.ImpactHigh {
			m.HighImpact++
		}

		research, industry := false, false
		for _, topicID := range r.item.Topics {
			switch c.topicCategories[topicID] {
			case domain.TopicCategoryResearch:
				research = true
			case domain.TopicCategoryIndustry:
				industry = true
			}
		}
		if research {
			m.NewResearch++
		}
		if industry {
			m.IndustryMoves++
		}
	}
	return m
}

func (c *Composer) keyPoints(selected []rankedItem) []string {
	top := truncate(selected, c.caps.KeyPoints)
	points := make([]string, 0, len(top))
	for _, r := range top {
		points = append(points, "• "+r.item.Title)
	}
	return points
}

// Views renders items in their stored order, without window filtering or
// ranking. The per-type content endpoints use this directly.
func Views(items []domain.ContentItem, now time.Time) []domain.ContentItemView {
	ranked := make([]rankedItem, 0, len(items))
	for i := range items {
		ranked = append(ranked, rankedItem{item: items[i]})
	}
	return views(ranked, now)
}

func views(items []rankedItem, now time.Time) []domain.ContentItemView {
	out := make([]domain.ContentItemView, 0, len(items))
	for _, r := range items {
		item := r.item
		out = append(out, domain.ContentItemView{
			Title:             item.Title,
			Description:       description(&item),
			Source:            item.SourceName,
			Time:              FormatTimeAgo(item.PublishedAt, now),
			Impact:            string(item.ImpactLevel()),
			Type:              string(item.ContentType),
			URL:               item.URL,
			SignificanceScore: round1(item.SignificanceScore),
			AudioURL:          item.AudioURL,
			ThumbnailURL:      item.ThumbnailURL,
			Duration:          item.Duration,
		})
	}
	return out
}

func description(item *domain.ContentItem) string {
	if item.Summary != "" {
		return item.Summary
	}
	runes := []rune(item.Body)
	if len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return item.Body
}

// FormatTimeAgo renders a publication time as the relative label shown in the
// digest. A missing time reads "Recently".
func FormatTimeAgo(published *time.Time, now time.Time) string {
	if published == nil {
		return "Recently"
	}

	hours := now.Sub(*published).Hours()
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", int(hours))
	default:
		return fmt.Sprintf("%dd ago", int(hours/24))
	}
}

// badge labels the digest by time of day: before 14:00 it is the morning
// edition, afterwards the evening one.
func badge(now time.Time) string {
	if now.Hour() < 14 {
		return "Morning Digest"
	}
	return "Evening Digest"
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
