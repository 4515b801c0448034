// ABOUTME: This file re-derives significance scores and topics for stored items
// ABOUTME: Used after keyword table or taxonomy changes, paging through the full store
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ai-digest/classifier"
	"ai-digest/domain"
	"ai-digest/repository"
	"ai-digest/scorer"
)

const rescorePageSize = 200

type rescoreService struct {
	items       repository.ItemRepository
	lock        repository.RunLockRepository
	scorer      *scorer.Scorer
	classifier  *classifier.Classifier
	windowHours int
	logger      *slog.Logger
	now         func() time.Time
}

// NewRescoreService creates the retroactive rescore service.
func NewRescoreService(
	items repository.ItemRepository,
	lock repository.RunLockRepository,
	sc *scorer.Scorer,
	cl *classifier.Classifier,
	windowHours int,
	logger *slog.Logger,
) RescoreService {
	return &rescoreService{
		items:       items,
		lock:        lock,
		scorer:      sc,
		classifier:  cl,
		windowHours: windowHours,
		logger:      logger,
		now:         time.Now,
	}
}

// Run rescores every stored item with the current keyword table and taxonomy.
// It shares the pipeline lock with ingestion so the two never interleave.
func (s *rescoreService) Run(ctx context.Context) (*RescoreResult, error) {
	acquired, err := s.lock.TryAcquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start rescore run: %w", err)
	}
	if !acquired {
		return nil, domain.ErrRunInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.ErrorContext(ctx, "failed to release run lock", "error", err)
		}
	}()

	now := s.now()
	windowStart := now.Add(-time.Duration(s.windowHours) * time.Hour)

	result := &RescoreResult{}
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("rescore cancelled: %w", err)
		}

		page, err := s.items.FindPage(ctx, rescorePageSize, offset)
		if err != nil {
			return result, fmt.Errorf("failed to page items: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			item := &page[i]
			result.Processed++

			score := s.scorer.Score(item, windowStart, now)
			topics := s.classifier.Classify(item)

			if err := s.items.UpdateDerived(ctx, item.ID, score, topics); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("item %s: %w", item.ID, err))
				continue
			}
			result.Updated++
		}

		if len(page) < rescorePageSize {
			break
		}
		offset += rescorePageSize
	}

	s.logger.InfoContext(ctx, "rescore run finished",
		"processed", result.Processed,
		"updated", result.Updated,
		"errors", len(result.Errors))

	return result, nil
}
