package driver

import (
	"context"
	"fmt"
	"time"

	"ai-digest/domain"

	"github.com/jackc/pgx/v5"
)

// InsertItem persists a content item. Both url and content_hash carry unique
// constraints, so concurrent workers racing on the same story (same URL, or a
// syndicated copy under a different one) collapse to a single row: the losing
// insert is a no-op and the function reports whether a row was written.
func InsertItem(ctx context.Context, db DB, item *domain.ContentItem) (bool, error) {
	query := `
		INSERT INTO content_items
			(id, title, source_name, content_type, url, content_hash, summary, body,
			 significance_score, published_at, scraped_at, audio_url, thumbnail_url, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT DO NOTHING
	`

	tag, err := db.Exec(ctx, query,
		item.ID, item.Title, item.SourceName, string(item.ContentType), item.URL,
		item.ContentHash, item.Summary, item.Body, item.SignificanceScore,
		item.PublishedAt, item.ScrapedAt, item.AudioURL, item.ThumbnailURL, item.Duration,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert content item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ItemExistsByURL reports whether an item with this exact URL is stored.
func ItemExistsByURL(ctx context.Context, db DB, url string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM content_items WHERE url = $1)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item existence by url: %w", err)
	}
	return exists, nil
}

// ItemExistsByHash reports whether any stored item shares this content hash.
func ItemExistsByHash(ctx context.Context, db DB, contentHash string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM content_items WHERE content_hash = $1)`, contentHash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item existence by hash: %w", err)
	}
	return exists, nil
}

const itemColumns = `
	i.id, i.title, i.source_name, i.content_type, i.url, i.content_hash,
	i.summary, i.body, i.significance_score, i.published_at, i.scraped_at,
	i.audio_url, i.thumbnail_url, i.duration,
	COALESCE(array_agg(it.topic_id ORDER BY it.topic_id) FILTER (WHERE it.topic_id IS NOT NULL), '{}')
`

// GetItemsInWindow returns all items whose effective publication time
// (published_at, falling back to scraped_at) lies in [since, until].
func GetItemsInWindow(ctx context.Context, db DB, since, until time.Time) ([]domain.ContentItem, error) {
	var items []domain.ContentItem

	err := retryDBOperation(ctx, func() error {
		query := `
			SELECT ` + itemColumns + `
			FROM content_items i
			LEFT JOIN item_topics it ON it.item_id = i.id
			WHERE COALESCE(i.published_at, i.scraped_at) >= $1
			  AND COALESCE(i.published_at, i.scraped_at) <= $2
			GROUP BY i.id
			ORDER BY i.significance_score DESC, COALESCE(i.published_at, i.scraped_at) DESC, i.url ASC
		`

		rows, err := db.Query(ctx, query, since, until)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = nil // Reset for retry
		for rows.Next() {
			item, err := scanItem(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		return rows.Err()
	}, "GetItemsInWindow")

	if err != nil {
		return nil, fmt.Errorf("failed to get items in window: %w", err)
	}

	return items, nil
}

// GetItemsByType returns the most significant items of one content type
// published since the given time.
func GetItemsByType(ctx context.Context, db DB, contentType domain.ContentType, since time.Time, limit int) ([]domain.ContentItem, error) {
	var items []domain.ContentItem

	err := retryDBOperation(ctx, func() error {
		query := `
			SELECT ` + itemColumns + `
			FROM content_items i
			LEFT JOIN item_topics it ON it.item_id = i.id
			WHERE i.content_type = $1
			  AND COALESCE(i.published_at, i.scraped_at) >= $2
			GROUP BY i.id
			ORDER BY i.significance_score DESC, COALESCE(i.published_at, i.scraped_at) DESC, i.url ASC
			LIMIT $3
		`

		rows, err := db.Query(ctx, query, string(contentType), since, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = nil // Reset for retry
		for rows.Next() {
			item, err := scanItem(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		return rows.Err()
	}, "GetItemsByType")

	if err != nil {
		return nil, fmt.Errorf("failed to get items by type: %w", err)
	}

	return items, nil
}

// GetAllItems pages through every stored item, for rescoring passes.
func GetAllItems(ctx context.Context, db DB, limit, offset int) ([]domain.ContentItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM content_items i
		LEFT JOIN item_topics it ON it.item_id = i.id
		GROUP BY i.id
		ORDER BY i.scraped_at ASC, i.url ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get items page: %w", err)
	}
	defer rows.Close()

	var items []domain.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items page: %w", err)
	}

	return items, nil
}

// UpdateItemDerived replaces the derived fields of a stored item: its
// significance score and topic set. Everything else stays immutable.
func UpdateItemDerived(ctx context.Context, db DB, itemID string, score float64, topics []string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE content_items SET significance_score = $1 WHERE id = $2`, score, itemID); err != nil {
		return fmt.Errorf("failed to update item score: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM item_topics WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear item topics: %w", err)
	}

	for _, topicID := range topics {
		if _, err := tx.Exec(ctx, `INSERT INTO item_topics (item_id, topic_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, itemID, topicID); err != nil {
			return fmt.Errorf("failed to insert item topic: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanItem(rows pgx.Rows) (domain.ContentItem, error) {
	var item domain.ContentItem
	var contentType string

	err := rows.Scan(
		&item.ID, &item.Title, &item.SourceName, &contentType, &item.URL,
		&item.ContentHash, &item.Summary, &item.Body, &item.SignificanceScore,
		&item.PublishedAt, &item.ScrapedAt,
		&item.AudioURL, &item.ThumbnailURL, &item.Duration,
		&item.Topics,
	)
	if err != nil {
		return domain.ContentItem{}, err
	}

	item.ContentType = domain.ContentType(contentType)
	return item, nil
}
