// ABOUTME: This file composes digests from the stored item window and manages archives
// ABOUTME: A failed composition falls back to the most recent archived snapshot
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ai-digest/composer"
	"ai-digest/domain"
	"ai-digest/repository"
)

type digestService struct {
	items       repository.ItemRepository
	archives    repository.ArchiveRepository
	ingest      IngestService
	composer    *composer.Composer
	windowHours int
	logger      *slog.Logger
	now         func() time.Time
}

// NewDigestService creates the digest composition service.
func NewDigestService(
	items repository.ItemRepository,
	archives repository.ArchiveRepository,
	ingest IngestService,
	comp *composer.Composer,
	windowHours int,
	logger *slog.Logger,
) DigestService {
	return &digestService{
		items:       items,
		archives:    archives,
		ingest:      ingest,
		composer:    comp,
		windowHours: windowHours,
		logger:      logger,
		now:         time.Now,
	}
}

// GetDigest composes the digest for the current window and snapshots it as
// today's archive. With refresh, a pipeline run is triggered first so the
// window holds fresh items, and the snapshot overwrites any existing one for
// the date; without it, the first snapshot of the day wins.
func (s *digestService) GetDigest(ctx context.Context, refresh bool) (*domain.DigestPayload, error) {
	if refresh {
		s.refreshItems(ctx)
	}

	now := s.now()
	since := now.Add(-time.Duration(s.windowHours) * time.Hour)

	items, err := s.items.FindInWindow(ctx, since, now)
	if err != nil {
		s.logger.WarnContext(ctx, "composition failed, falling back to latest archive", "error", err)
		return s.latestArchivedPayload(ctx, err)
	}

	payload := s.composer.Compose(items, s.windowHours, now)

	if err := s.snapshot(ctx, &payload, now, refresh); err != nil {
		// The digest itself is fine; archiving is best effort here.
		s.logger.ErrorContext(ctx, "failed to snapshot digest", "error", err)
	}

	return &payload, nil
}

// refreshItems runs the ingest pipeline before composing. A run already in
// progress means fresh items are on their way; any other failure degrades to
// serving what is stored.
func (s *digestService) refreshItems(ctx context.Context) {
	_, err := s.ingest.Run(ctx)
	switch {
	case err == nil:
	case IsRunConflict(err):
		s.logger.InfoContext(ctx, "refresh skipped, pipeline run already active")
	default:
		s.logger.ErrorContext(ctx, "refresh run failed, serving stored items", "error", err)
	}
}

func (s *digestService) snapshot(ctx context.Context, payload *domain.DigestPayload, now time.Time, force bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal digest payload: %w", err)
	}

	archive := &domain.DailyArchive{
		Date:      now.Truncate(24 * time.Hour),
		Payload:   data,
		ItemCount: payload.Summary.Metrics.TotalUpdates,
	}

	err = s.archives.Save(ctx, archive, force)
	if errors.Is(err, domain.ErrArchiveExists) {
		return nil
	}
	return err
}

// latestArchivedPayload serves the newest snapshot when live composition is
// unavailable. composeErr is returned when no snapshot exists either.
func (s *digestService) latestArchivedPayload(ctx context.Context, composeErr error) (*domain.DigestPayload, error) {
	archive, err := s.archives.FindLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compose digest and no archive available: %w", composeErr)
	}

	var payload domain.DigestPayload
	if err := json.Unmarshal(archive.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode archived digest: %w", err)
	}

	s.logger.InfoContext(ctx, "served archived digest", "date", archive.Date.Format("2006-01-02"))

	return &payload, nil
}

func (s *digestService) GetContent(ctx context.Context, contentType domain.ContentType, hours, limit int) ([]domain.ContentItemView, error) {
	if !domain.ValidContentType(contentType) {
		return nil, domain.ErrInvalidContentType
	}
	if hours <= 0 {
		hours = s.windowHours
	}

	now := s.now()
	since := now.Add(-time.Duration(hours) * time.Hour)

	items, err := s.items.FindByType(ctx, contentType, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s content: %w", contentType, err)
	}

	return composer.Views(items, now), nil
}

func (s *digestService) GetArchive(ctx context.Context, date time.Time) (*domain.DailyArchive, error) {
	return s.archives.FindByDate(ctx, date)
}

func (s *digestService) ListArchives(ctx context.Context, days int) ([]domain.DailyArchive, error) {
	if days <= 0 {
		days = 7
	}
	return s.archives.ListRecent(ctx, days)
}
