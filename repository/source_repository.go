package repository

import (
	"context"
	"fmt"
	"log/slog"

	"ai-digest/domain"
	"ai-digest/driver"
)

type sourceRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewSourceRepository creates a new source registry repository.
func NewSourceRepository(db driver.DB, logger *slog.Logger) SourceRepository {
	return &sourceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sourceRepository) Seed(ctx context.Context, sources []domain.Source) error {
	for i := range sources {
		if err := driver.UpsertSource(ctx, r.db, &sources[i]); err != nil {
			return fmt.Errorf("failed to seed sources: %w", err)
		}
	}

	r.logger.InfoContext(ctx, "source registry seeded", "count", len(sources))

	return nil
}

func (r *sourceRepository) ListEnabled(ctx context.Context) ([]domain.Source, error) {
	sources, err := driver.ListEnabledSources(ctx, r.db)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to list sources", "error", err)
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	return sources, nil
}
