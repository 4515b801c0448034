package repository

import (
	"context"
	"fmt"
	"log/slog"

	"ai-digest/driver"
)

type runLockRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewRunLockRepository creates the repository guarding pipeline runs.
func NewRunLockRepository(db driver.DB, logger *slog.Logger) RunLockRepository {
	return &runLockRepository{
		db:     db,
		logger: logger,
	}
}

func (r *runLockRepository) TryAcquire(ctx context.Context) (bool, error) {
	acquired, err := driver.TryAcquireRunLock(ctx, r.db)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to acquire run lock", "error", err)
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	if !acquired {
		r.logger.WarnContext(ctx, "run lock held by another pipeline run")
	}

	return acquired, nil
}

func (r *runLockRepository) Release(ctx context.Context) error {
	if err := driver.ReleaseRunLock(ctx, r.db); err != nil {
		r.logger.ErrorContext(ctx, "failed to release run lock", "error", err)
		return fmt.Errorf("failed to release run lock: %w", err)
	}

	return nil
}
