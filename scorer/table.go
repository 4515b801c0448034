// ABOUTME: Declarative keyword table for significance scoring
// ABOUTME: Weights ship as embedded YAML and can be overridden by file at startup
package scorer

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_keywords.yaml
var defaultKeywordsYAML []byte

// KeywordBand is one weighted keyword set. Each keyword found in the item
// text adds Increment to the score; the band's total contribution never
// exceeds Cap.
type KeywordBand struct {
	Keywords  []string `yaml:"keywords"`
	Increment float64  `yaml:"increment"`
	Cap       float64  `yaml:"cap"`
}

// Table is the full scoring configuration.
type Table struct {
	BaseScore    float64     `yaml:"base_score"`
	RecencyBonus float64     `yaml:"recency_bonus"`
	HighImpact   KeywordBand `yaml:"high_impact"`
	MediumImpact KeywordBand `yaml:"medium_impact"`
}

// DefaultTable returns the embedded keyword table.
func DefaultTable() (Table, error) {
	return parseTable(defaultKeywordsYAML)
}

// LoadTableFile reads a keyword table from a YAML file.
func LoadTableFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read keyword table %s: %w", path, err)
	}
	return parseTable(data)
}

func parseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("failed to parse keyword table: %w", err)
	}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func (t Table) validate() error {
	if t.BaseScore < 0 || t.BaseScore > maxScore {
		return fmt.Errorf("base_score %v out of range [0,%v]", t.BaseScore, maxScore)
	}
	if len(t.HighImpact.Keywords) == 0 {
		return fmt.Errorf("high_impact keyword set is empty")
	}
	for _, band := range []KeywordBand{t.HighImpact, t.MediumImpact} {
		if band.Increment < 0 || band.Cap < 0 {
			return fmt.Errorf("keyword band weights must be non-negative")
		}
	}
	return nil
}
