package domain

// Source is one entry of the source registry: a feed or page to scrape.
type Source struct {
	Name     string      `db:"name" yaml:"name"`
	FeedURL  string      `db:"feed_url" yaml:"feed_url"`
	Type     ContentType `db:"content_type" yaml:"type"`
	Priority int         `db:"priority" yaml:"priority"`
	Enabled  bool        `db:"enabled" yaml:"enabled"`
}
