package driver

import (
	"context"
	"fmt"

	"ai-digest/domain"
)

// UpsertSource seeds or refreshes one source registry entry.
func UpsertSource(ctx context.Context, db DB, source *domain.Source) error {
	query := `
		INSERT INTO sources (name, feed_url, content_type, priority, enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			feed_url = EXCLUDED.feed_url,
			content_type = EXCLUDED.content_type,
			priority = EXCLUDED.priority,
			enabled = EXCLUDED.enabled
	`

	if _, err := db.Exec(ctx, query, source.Name, source.FeedURL, string(source.Type), source.Priority, source.Enabled); err != nil {
		return fmt.Errorf("failed to upsert source %s: %w", source.Name, err)
	}

	return nil
}

// ListEnabledSources returns the enabled sources ordered by priority.
func ListEnabledSources(ctx context.Context, db DB) ([]domain.Source, error) {
	query := `
		SELECT name, feed_url, content_type, priority, enabled
		FROM sources
		WHERE enabled = TRUE
		ORDER BY priority ASC, name ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var source domain.Source
		var contentType string
		if err := rows.Scan(&source.Name, &source.FeedURL, &contentType, &source.Priority, &source.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		source.Type = domain.ContentType(contentType)
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sources: %w", err)
	}

	return sources, nil
}
