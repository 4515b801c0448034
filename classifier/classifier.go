// ABOUTME: This file assigns topic tags to content items by keyword matching
// ABOUTME: Classification is multi-label, order-independent and deterministic
package classifier

import (
	"sort"
	"strings"

	"ai-digest/domain"
)

// Classifier tags items against a fixed topic taxonomy. An item may match
// zero, one or many topics; no match is a valid outcome.
type Classifier struct {
	topics []compiledTopic
}

type compiledTopic struct {
	id       string
	keywords []string
}

// New creates a Classifier over the enabled topics of a taxonomy. Disabled
// topics never match.
func New(taxonomy []domain.Topic) *Classifier {
	compiled := make([]compiledTopic, 0, len(taxonomy))
	for _, topic := range taxonomy {
		if !topic.Enabled || len(topic.Keywords) == 0 {
			continue
		}
		keywords := make([]string, len(topic.Keywords))
		for i, kw := range topic.Keywords {
			keywords[i] = strings.ToLower(kw)
		}
		compiled = append(compiled, compiledTopic{id: topic.ID, keywords: keywords})
	}
	return &Classifier{topics: compiled}
}

// Classify returns the sorted set of topic IDs whose keywords appear in the
// item's title or body. Same input always yields the same set.
func (c *Classifier) Classify(item *domain.ContentItem) []string {
	text := strings.ToLower(item.Title + " " + item.Body)

	var matched []string
	for _, topic := range c.topics {
		for _, kw := range topic.keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, topic.id)
				break
			}
		}
	}

	sort.Strings(matched)
	return matched
}
