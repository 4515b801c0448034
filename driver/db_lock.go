package driver

import (
	"context"
	"fmt"
	"time"
)

// staleLockAge is how long a held lock is honored before a new run may take
// it over. Protects against a crashed run leaving the lock stuck forever.
const staleLockAge = 30 * time.Minute

// TryAcquireRunLock attempts to take the single pipeline run lock. It
// reports false without error when another run holds a fresh lock.
func TryAcquireRunLock(ctx context.Context, db DB) (bool, error) {
	query := `
		UPDATE run_lock
		SET locked_at = NOW()
		WHERE id = 1
		  AND (locked_at IS NULL OR locked_at < NOW() - make_interval(mins => $1))
	`

	tag, err := db.Exec(ctx, query, int(staleLockAge.Minutes()))
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ReleaseRunLock releases the pipeline run lock.
func ReleaseRunLock(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `UPDATE run_lock SET locked_at = NULL WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}
