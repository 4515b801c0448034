package repository

import (
	"context"
	"time"

	"ai-digest/domain"
)

// ItemRepository handles content item persistence.
type ItemRepository interface {
	Insert(ctx context.Context, item *domain.ContentItem) (bool, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	ExistsByHash(ctx context.Context, contentHash string) (bool, error)
	FindInWindow(ctx context.Context, since, until time.Time) ([]domain.ContentItem, error)
	FindByType(ctx context.Context, contentType domain.ContentType, since time.Time, limit int) ([]domain.ContentItem, error)
	FindPage(ctx context.Context, limit, offset int) ([]domain.ContentItem, error)
	UpdateDerived(ctx context.Context, itemID string, score float64, topics []string) error
}

// TopicRepository handles the topic taxonomy.
type TopicRepository interface {
	Seed(ctx context.Context, topics []domain.Topic) error
	ListEnabled(ctx context.Context) ([]domain.Topic, error)
}

// SourceRepository handles the source registry.
type SourceRepository interface {
	Seed(ctx context.Context, sources []domain.Source) error
	ListEnabled(ctx context.Context) ([]domain.Source, error)
}

// ArchiveRepository handles daily digest snapshots.
type ArchiveRepository interface {
	Save(ctx context.Context, archive *domain.DailyArchive, force bool) error
	FindByDate(ctx context.Context, date time.Time) (*domain.DailyArchive, error)
	FindLatest(ctx context.Context) (*domain.DailyArchive, error)
	ListRecent(ctx context.Context, days int) ([]domain.DailyArchive, error)
}

// RunLockRepository guards against overlapping pipeline runs.
type RunLockRepository interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}
