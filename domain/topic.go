package domain

// Topic is a fixed taxonomy entry. Topics are seeded once at startup and
// rarely mutated; items may reference topics that are later disabled, so
// disabled topics are filtered at query time rather than cascade-deleted.
type Topic struct {
	ID       string   `db:"id" yaml:"id"`
	Name     string   `db:"name" yaml:"name"`
	Category string   `db:"category" yaml:"category"`
	Enabled  bool     `db:"enabled" yaml:"enabled"`
	Keywords []string `db:"-" yaml:"keywords"`
}

// Topic categories used by the digest metrics.
const (
	TopicCategoryResearch = "research"
	TopicCategoryIndustry = "industry"
)
