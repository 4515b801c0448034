// ABOUTME: Topic taxonomy loading for multi-label classification
// ABOUTME: The taxonomy ships as embedded YAML and can be overridden by file at startup
package classifier

import (
	_ "embed"
	"fmt"
	"os"

	"ai-digest/domain"

	"gopkg.in/yaml.v3"
)

//go:embed default_topics.yaml
var defaultTopicsYAML []byte

type taxonomyFile struct {
	Topics []domain.Topic `yaml:"topics"`
}

// DefaultTaxonomy returns the embedded topic taxonomy.
func DefaultTaxonomy() ([]domain.Topic, error) {
	return parseTaxonomy(defaultTopicsYAML)
}

// LoadTaxonomyFile reads a topic taxonomy from a YAML file.
func LoadTaxonomyFile(path string) ([]domain.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy %s: %w", path, err)
	}
	return parseTaxonomy(data)
}

func parseTaxonomy(data []byte) ([]domain.Topic, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	seen := make(map[string]bool, len(f.Topics))
	for _, topic := range f.Topics {
		if topic.ID == "" {
			return nil, fmt.Errorf("taxonomy entry %q has no id", topic.Name)
		}
		if seen[topic.ID] {
			return nil, fmt.Errorf("duplicate topic id %q", topic.ID)
		}
		seen[topic.ID] = true
	}

	return f.Topics, nil
}
