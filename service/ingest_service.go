// ABOUTME: This file implements the scrape pipeline over all enabled sources
// ABOUTME: Per-source and per-item failures degrade the run, never abort it
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ai-digest/classifier"
	"ai-digest/domain"
	"ai-digest/normalizer"
	"ai-digest/orchestrator"
	"ai-digest/repository"
	"ai-digest/retry"
	"ai-digest/scorer"
)

type ingestService struct {
	fetcher     FeedFetcher
	normalizer  *normalizer.Normalizer
	scorer      *scorer.Scorer
	classifier  *classifier.Classifier
	items       repository.ItemRepository
	sources     repository.SourceRepository
	lock        repository.RunLockRepository
	retrier     *retry.Retrier
	concurrency int
	windowHours int
	logger      *slog.Logger
	now         func() time.Time
}

// NewIngestService creates the ingest pipeline service.
func NewIngestService(
	fetcher FeedFetcher,
	norm *normalizer.Normalizer,
	sc *scorer.Scorer,
	cl *classifier.Classifier,
	items repository.ItemRepository,
	sources repository.SourceRepository,
	lock repository.RunLockRepository,
	retrier *retry.Retrier,
	concurrency int,
	windowHours int,
	logger *slog.Logger,
) IngestService {
	return &ingestService{
		fetcher:     fetcher,
		normalizer:  norm,
		scorer:      sc,
		classifier:  cl,
		items:       items,
		sources:     sources,
		lock:        lock,
		retrier:     retrier,
		concurrency: concurrency,
		windowHours: windowHours,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one pipeline pass. Exactly one run may be active at a time;
// a concurrent call returns domain.ErrRunInProgress.
func (s *ingestService) Run(ctx context.Context) (*IngestResult, error) {
	acquired, err := s.lock.TryAcquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start pipeline run: %w", err)
	}
	if !acquired {
		return nil, domain.ErrRunInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.ErrorContext(ctx, "failed to release run lock", "error", err)
		}
	}()

	start := s.now()

	sources, err := s.sources.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	stage := orchestrator.Stage[domain.Source, sourceOutcome]{
		Name:        "scrape-sources",
		Concurrency: s.concurrency,
		Process:     s.processSource,
	}
	results := orchestrator.RunStage(ctx, stage, sources)

	result := &IngestResult{Sources: len(sources)}
	for i, r := range results {
		if r.Err != nil {
			result.SourceErrors++
			result.Errors = append(result.Errors, fmt.Errorf("source %s: %w", sources[i].Name, r.Err))
			continue
		}
		result.Fetched += r.Value.fetched
		result.Inserted += r.Value.inserted
		result.DuplicateURL += r.Value.duplicateURL
		result.DuplicateHash += r.Value.duplicateHash
		result.Rejected += r.Value.rejected
		result.Errors = append(result.Errors, r.Value.errs...)
	}
	result.Duration = s.now().Sub(start)

	s.logger.InfoContext(ctx, "pipeline run finished",
		"sources", result.Sources,
		"source_errors", result.SourceErrors,
		"fetched", result.Fetched,
		"inserted", result.Inserted,
		"duplicate_url", result.DuplicateURL,
		"duplicate_hash", result.DuplicateHash,
		"rejected", result.Rejected,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

type sourceOutcome struct {
	fetched       int
	inserted      int
	duplicateURL  int
	duplicateHash int
	rejected      int
	errs          []error
}

func (s *ingestService) processSource(ctx context.Context, source domain.Source) (sourceOutcome, error) {
	var outcome sourceOutcome

	var raws []normalizer.RawItem
	err := s.retrier.Do(ctx, func() error {
		fetched, fetchErr := s.fetcher.Fetch(ctx, source)
		if fetchErr != nil {
			return fetchErr
		}
		raws = fetched
		return nil
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to fetch source: %w", err)
	}

	outcome.fetched = len(raws)
	scrapedAt := s.now()

	for _, raw := range raws {
		s.processItem(ctx, raw, source, scrapedAt, &outcome)
	}

	return outcome, nil
}

// processItem runs one raw entry through normalize, dedup, persist, score and
// classify. Every failure is recorded in the outcome and the next entry
// proceeds.
func (s *ingestService) processItem(ctx context.Context, raw normalizer.RawItem, source domain.Source, scrapedAt time.Time, outcome *sourceOutcome) {
	item, err := s.normalizer.Normalize(raw, source, scrapedAt)
	if err != nil {
		outcome.rejected++
		s.logger.DebugContext(ctx, "item rejected", "source", source.Name, "link", raw.Link, "error", err)
		return
	}

	dup, err := s.checkDuplicate(ctx, item, outcome)
	if err != nil {
		outcome.errs = append(outcome.errs, err)
		return
	}
	if dup {
		return
	}

	inserted, err := s.items.Insert(ctx, item)
	if err != nil {
		outcome.errs = append(outcome.errs, fmt.Errorf("item %s: %w", item.URL, err))
		return
	}
	if !inserted {
		// Lost an insert race with a concurrent worker: the unique
		// constraints on url and content_hash absorbed the row. Attribute
		// the duplicate to whichever constraint fired.
		if byURL, urlErr := s.items.ExistsByURL(ctx, item.URL); urlErr == nil && !byURL {
			outcome.duplicateHash++
		} else {
			outcome.duplicateURL++
		}
		return
	}
	outcome.inserted++

	now := s.now()
	windowStart := now.Add(-time.Duration(s.windowHours) * time.Hour)
	score := s.scorer.Score(item, windowStart, now)
	topics := s.classifier.Classify(item)

	if err := s.items.UpdateDerived(ctx, item.ID, score, topics); err != nil {
		// The item is persisted; scoring picks it up on the next rescore.
		outcome.errs = append(outcome.errs, fmt.Errorf("item %s: %w", item.URL, err))
	}
}

func (s *ingestService) checkDuplicate(ctx context.Context, item *domain.ContentItem, outcome *sourceOutcome) (bool, error) {
	exists, err := s.items.ExistsByURL(ctx, item.URL)
	if err != nil {
		return false, fmt.Errorf("item %s: %w", item.URL, err)
	}
	if exists {
		outcome.duplicateURL++
		return true, nil
	}

	exists, err = s.items.ExistsByHash(ctx, item.ContentHash)
	if err != nil {
		return false, fmt.Errorf("item %s: %w", item.URL, err)
	}
	if exists {
		outcome.duplicateHash++
		return true, nil
	}

	return false, nil
}

// IsRunConflict reports whether the error means another pipeline run holds
// the lock.
func IsRunConflict(err error) bool {
	return errors.Is(err, domain.ErrRunInProgress)
}
