package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-digest/domain"

	"github.com/jackc/pgx/v5"
)

// InsertArchive writes the digest snapshot for a calendar date. The default
// is first-write-wins: a later write for the same date is rejected with
// domain.ErrArchiveExists. With force set, the existing snapshot is replaced.
func InsertArchive(ctx context.Context, db DB, archive *domain.DailyArchive, force bool) error {
	if force {
		query := `
			INSERT INTO daily_archives (archive_date, digest_payload, item_count)
			VALUES ($1, $2, $3)
			ON CONFLICT (archive_date) DO UPDATE SET
				digest_payload = EXCLUDED.digest_payload,
				item_count = EXCLUDED.item_count,
				created_at = NOW()
		`
		if _, err := db.Exec(ctx, query, archive.Date, archive.Payload, archive.ItemCount); err != nil {
			return fmt.Errorf("failed to force-insert archive: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO daily_archives (archive_date, digest_payload, item_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (archive_date) DO NOTHING
	`

	tag, err := db.Exec(ctx, query, archive.Date, archive.Payload, archive.ItemCount)
	if err != nil {
		return fmt.Errorf("failed to insert archive: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrArchiveExists
	}

	return nil
}

// GetArchiveByDate returns the snapshot archived for the given date.
func GetArchiveByDate(ctx context.Context, db DB, date time.Time) (*domain.DailyArchive, error) {
	query := `
		SELECT archive_date, digest_payload, item_count, created_at
		FROM daily_archives
		WHERE archive_date = $1
	`

	var archive domain.DailyArchive
	err := db.QueryRow(ctx, query, date).Scan(&archive.Date, &archive.Payload, &archive.ItemCount, &archive.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to get archive: %w", err)
	}

	return &archive, nil
}

// GetLatestArchive returns the most recently archived snapshot.
func GetLatestArchive(ctx context.Context, db DB) (*domain.DailyArchive, error) {
	query := `
		SELECT archive_date, digest_payload, item_count, created_at
		FROM daily_archives
		ORDER BY archive_date DESC
		LIMIT 1
	`

	var archive domain.DailyArchive
	err := db.QueryRow(ctx, query).Scan(&archive.Date, &archive.Payload, &archive.ItemCount, &archive.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to get latest archive: %w", err)
	}

	return &archive, nil
}

// ListArchives returns the snapshots of the last N days, newest first.
func ListArchives(ctx context.Context, db DB, days int) ([]domain.DailyArchive, error) {
	query := `
		SELECT archive_date, digest_payload, item_count, created_at
		FROM daily_archives
		WHERE archive_date >= CURRENT_DATE - $1::int
		ORDER BY archive_date DESC
	`

	rows, err := db.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	defer rows.Close()

	var archives []domain.DailyArchive
	for rows.Next() {
		var archive domain.DailyArchive
		if err := rows.Scan(&archive.Date, &archive.Payload, &archive.ItemCount, &archive.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archive: %w", err)
		}
		archives = append(archives, archive)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archives: %w", err)
	}

	return archives, nil
}
