package driver

import (
	"context"
	"fmt"

	"ai-digest/domain"
)

// UpsertTopic seeds or refreshes one taxonomy entry.
func UpsertTopic(ctx context.Context, db DB, topic *domain.Topic) error {
	query := `
		INSERT INTO topics (id, name, category, enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			enabled = EXCLUDED.enabled
	`

	if _, err := db.Exec(ctx, query, topic.ID, topic.Name, topic.Category, topic.Enabled); err != nil {
		return fmt.Errorf("failed to upsert topic %s: %w", topic.ID, err)
	}

	return nil
}

// ListEnabledTopics returns the enabled taxonomy entries, ordered by name.
// Disabled topics stay in the table (items may still reference them) but are
// filtered here.
func ListEnabledTopics(ctx context.Context, db DB) ([]domain.Topic, error) {
	query := `
		SELECT id, name, category, enabled
		FROM topics
		WHERE enabled = TRUE
		ORDER BY name ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var topic domain.Topic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Category, &topic.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topics: %w", err)
	}

	return topics, nil
}
