package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ai-digest/domain"
)

//go:embed default_sources.yaml
var defaultSourcesYAML []byte

type sourcesFile struct {
	Sources []domain.Source `yaml:"sources"`
}

// DefaultSources returns the built-in source registry.
func DefaultSources() ([]domain.Source, error) {
	return parseSources(defaultSourcesYAML)
}

// LoadSourcesFile reads a source registry from a YAML file. Used when
// DIGEST_SOURCES_PATH overrides the built-in registry.
func LoadSourcesFile(path string) ([]domain.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return parseSources(data)
}

func parseSources(data []byte) ([]domain.Source, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources yaml: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources registry is empty")
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		s := &file.Sources[i]
		if s.Name == "" {
			return nil, fmt.Errorf("source at index %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate source name: %s", s.Name)
		}
		seen[s.Name] = true
		if s.FeedURL == "" {
			return nil, fmt.Errorf("source %s has no feed url", s.Name)
		}
		if !domain.ValidContentType(s.Type) {
			return nil, fmt.Errorf("source %s has invalid type: %s", s.Name, s.Type)
		}
		if s.Priority == 0 {
			s.Priority = 5
		}
	}

	return file.Sources, nil
}
