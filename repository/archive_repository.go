package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ai-digest/domain"
	"ai-digest/driver"
)

type archiveRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewArchiveRepository creates a new daily archive repository.
func NewArchiveRepository(db driver.DB, logger *slog.Logger) ArchiveRepository {
	return &archiveRepository{
		db:     db,
		logger: logger,
	}
}

// Save writes the snapshot for a date. Without force, the first archive of a
// date wins and a second write surfaces domain.ErrArchiveExists.
func (r *archiveRepository) Save(ctx context.Context, archive *domain.DailyArchive, force bool) error {
	err := driver.InsertArchive(ctx, r.db, archive, force)
	if err != nil {
		if errors.Is(err, domain.ErrArchiveExists) {
			r.logger.InfoContext(ctx, "archive already exists, keeping first snapshot", "date", archive.Date.Format("2006-01-02"))
			return err
		}
		r.logger.ErrorContext(ctx, "failed to save archive", "error", err, "date", archive.Date.Format("2006-01-02"))
		return fmt.Errorf("failed to save archive: %w", err)
	}

	r.logger.InfoContext(ctx, "archive saved", "date", archive.Date.Format("2006-01-02"), "item_count", archive.ItemCount, "forced", force)

	return nil
}

func (r *archiveRepository) FindByDate(ctx context.Context, date time.Time) (*domain.DailyArchive, error) {
	archive, err := driver.GetArchiveByDate(ctx, r.db, date)
	if err != nil {
		if errors.Is(err, domain.ErrArchiveNotFound) {
			return nil, err
		}
		r.logger.ErrorContext(ctx, "failed to find archive", "error", err, "date", date.Format("2006-01-02"))
		return nil, fmt.Errorf("failed to find archive: %w", err)
	}

	return archive, nil
}

func (r *archiveRepository) FindLatest(ctx context.Context) (*domain.DailyArchive, error) {
	archive, err := driver.GetLatestArchive(ctx, r.db)
	if err != nil {
		if errors.Is(err, domain.ErrArchiveNotFound) {
			return nil, err
		}
		r.logger.ErrorContext(ctx, "failed to find latest archive", "error", err)
		return nil, fmt.Errorf("failed to find latest archive: %w", err)
	}

	return archive, nil
}

func (r *archiveRepository) ListRecent(ctx context.Context, days int) ([]domain.DailyArchive, error) {
	archives, err := driver.ListArchives(ctx, r.db, days)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to list archives", "error", err)
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	return archives, nil
}
