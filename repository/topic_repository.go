package repository

import (
	"context"
	"fmt"
	"log/slog"

	"ai-digest/domain"
	"ai-digest/driver"
)

type topicRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db driver.DB, logger *slog.Logger) TopicRepository {
	return &topicRepository{
		db:     db,
		logger: logger,
	}
}

// Seed upserts the taxonomy into the store. Existing topic references are
// preserved; disabled topics simply stop matching and listing.
func (r *topicRepository) Seed(ctx context.Context, topics []domain.Topic) error {
	for i := range topics {
		if err := driver.UpsertTopic(ctx, r.db, &topics[i]); err != nil {
			return fmt.Errorf("failed to seed topics: %w", err)
		}
	}

	r.logger.InfoContext(ctx, "topic taxonomy seeded", "count", len(topics))

	return nil
}

func (r *topicRepository) ListEnabled(ctx context.Context) ([]domain.Topic, error) {
	topics, err := driver.ListEnabledTopics(ctx, r.db)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to list topics", "error", err)
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	return topics, nil
}
