package domain

import (
	"encoding/json"
	"time"
)

// DailyArchive is an immutable snapshot of one day's composed digest.
// At most one archive exists per calendar date; a second composition on the
// same date is a no-op unless explicitly forced.
type DailyArchive struct {
	Date      time.Time       `db:"archive_date"`
	Payload   json.RawMessage `db:"digest_payload"`
	ItemCount int             `db:"item_count"`
	CreatedAt time.Time       `db:"created_at"`
}
