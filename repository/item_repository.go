package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ai-digest/domain"
	"ai-digest/driver"
)

// ItemRepository implementation.
type itemRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewItemRepository creates a new content item repository.
func NewItemRepository(db driver.DB, logger *slog.Logger) ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists a new content item. Returns false when the URL conflicted
// and the insert was a no-op.
func (r *itemRepository) Insert(ctx context.Context, item *domain.ContentItem) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("failed to insert item: database connection is nil")
	}

	inserted, err := driver.InsertItem(ctx, r.db, item)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to insert item", "error", err, "url", item.URL)
		return false, fmt.Errorf("failed to insert item: %w", err)
	}

	if inserted {
		r.logger.InfoContext(ctx, "item inserted", "url", item.URL, "type", item.ContentType)
	}

	return inserted, nil
}

func (r *itemRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("failed to check item url: database connection is nil")
	}

	exists, err := driver.ItemExistsByURL(ctx, r.db, url)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to check item url", "error", err, "url", url)
		return false, fmt.Errorf("failed to check item url: %w", err)
	}

	return exists, nil
}

func (r *itemRepository) ExistsByHash(ctx context.Context, contentHash string) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("failed to check item hash: database connection is nil")
	}

	exists, err := driver.ItemExistsByHash(ctx, r.db, contentHash)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to check item hash", "error", err)
		return false, fmt.Errorf("failed to check item hash: %w", err)
	}

	return exists, nil
}

func (r *itemRepository) FindInWindow(ctx context.Context, since, until time.Time) ([]domain.ContentItem, error) {
	items, err := driver.GetItemsInWindow(ctx, r.db, since, until)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find items in window", "error", err)
		return nil, fmt.Errorf("failed to find items in window: %w", err)
	}

	r.logger.InfoContext(ctx, "found items in window", "count", len(items), "since", since, "until", until)

	return items, nil
}

func (r *itemRepository) FindByType(ctx context.Context, contentType domain.ContentType, since time.Time, limit int) ([]domain.ContentItem, error) {
	items, err := driver.GetItemsByType(ctx, r.db, contentType, since, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find items by type", "error", err, "type", contentType)
		return nil, fmt.Errorf("failed to find items by type: %w", err)
	}

	return items, nil
}

func (r *itemRepository) FindPage(ctx context.Context, limit, offset int) ([]domain.ContentItem, error) {
	items, err := driver.GetAllItems(ctx, r.db, limit, offset)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find items page", "error", err, "offset", offset)
		return nil, fmt.Errorf("failed to find items page: %w", err)
	}

	return items, nil
}

func (r *itemRepository) UpdateDerived(ctx context.Context, itemID string, score float64, topics []string) error {
	if err := driver.UpdateItemDerived(ctx, r.db, itemID, score, topics); err != nil {
		r.logger.ErrorContext(ctx, "failed to update derived fields", "error", err, "item_id", itemID)
		return fmt.Errorf("failed to update derived fields: %w", err)
	}

	return nil
}
