// ABOUTME: Domain-level sentinel errors for the ai-digest service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Item validation errors. A malformed item is rejected and skipped, never
// fatal to the batch it arrived in.
var (
	// ErrMissingTitle indicates a scraped item has no usable title
	ErrMissingTitle = errors.New("item title is required")

	// ErrMissingURL indicates a scraped item has no canonical URL
	ErrMissingURL = errors.New("item URL is required")

	// ErrInvalidContentType indicates an unknown content type discriminant
	ErrInvalidContentType = errors.New("invalid content type")
)

// Dedup rejections. Duplicates are a normal outcome, not failures.
var (
	// ErrDuplicateURL indicates an item with the same URL is already stored
	ErrDuplicateURL = errors.New("duplicate item URL")

	// ErrDuplicateContent indicates an item with the same content hash is
	// already stored under a different URL (syndicated repost)
	ErrDuplicateContent = errors.New("duplicate item content")
)

// Archive errors
var (
	// ErrArchiveExists indicates an archive already exists for the date and
	// the write was not forced
	ErrArchiveExists = errors.New("archive already exists for date")

	// ErrArchiveNotFound indicates no archive exists for the requested date
	ErrArchiveNotFound = errors.New("archive not found")
)

// Run coordination errors
var (
	// ErrRunInProgress indicates another pipeline run holds the run lock
	ErrRunInProgress = errors.New("pipeline run already in progress")
)
