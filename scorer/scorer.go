// ABOUTME: This file assigns significance scores (0-10) to content items
// ABOUTME: Scoring is a pure function of the item text and publication time
package scorer

import (
	"strings"
	"time"

	"ai-digest/domain"
)

const (
	minScore = 0.0
	maxScore = 10.0
)

// Scorer computes significance scores from a keyword table. It holds no
// mutable state, so rescoring the same item is idempotent.
type Scorer struct {
	table  Table
	high   []string
	medium []string
}

// New creates a Scorer from a keyword table. Keywords are matched
// case-insensitively, so they are lowered once up front.
func New(table Table) *Scorer {
	return &Scorer{
		table:  table,
		high:   lowerAll(table.HighImpact.Keywords),
		medium: lowerAll(table.MediumImpact.Keywords),
	}
}

// Score computes the significance score for an item. windowStart and now
// bound the current digest window: items published inside it receive the
// recency bonus, items without a reported publication time stay neutral.
func (s *Scorer) Score(item *domain.ContentItem, windowStart, now time.Time) float64 {
	text := strings.ToLower(item.Title + " " + item.Summary)

	score := s.table.BaseScore
	score += bandContribution(text, s.high, s.table.HighImpact)
	score += bandContribution(text, s.medium, s.table.MediumImpact)

	if item.PublishedAt != nil {
		published := *item.PublishedAt
		if !published.Before(windowStart) && !published.After(now) {
			score += s.table.RecencyBonus
		}
	}

	return clamp(score)
}

// bandContribution sums the increments for every keyword found in text,
// capped at the band's maximum contribution.
func bandContribution(text string, keywords []string, band KeywordBand) float64 {
	var contribution float64
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			contribution += band.Increment
		}
	}
	if band.Cap > 0 && contribution > band.Cap {
		contribution = band.Cap
	}
	return contribution
}

func clamp(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func lowerAll(keywords []string) []string {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return lowered
}
