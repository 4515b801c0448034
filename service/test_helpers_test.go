package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ai-digest/classifier"
	"ai-digest/domain"
	"ai-digest/normalizer"
	"ai-digest/scorer"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScorer(t *testing.T) *scorer.Scorer {
	t.Helper()
	table, err := scorer.DefaultTable()
	require.NoError(t, err)
	return scorer.New(table)
}

func testClassifier(t *testing.T) *classifier.Classifier {
	t.Helper()
	taxonomy, err := classifier.DefaultTaxonomy()
	require.NoError(t, err)
	return classifier.New(taxonomy)
}

// fakeFetcher serves canned raw items per source name.
type fakeFetcher struct {
	items map[string][]normalizer.RawItem
	errs  map[string]error
	calls map[string]int
	mu    sync.Mutex
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		items: make(map[string][]normalizer.RawItem),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, source domain.Source) ([]normalizer.RawItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[source.Name]++
	if err := f.errs[source.Name]; err != nil {
		return nil, err
	}
	return f.items[source.Name], nil
}

// fakeItemRepo is an in-memory ItemRepository.
type fakeItemRepo struct {
	mu          sync.Mutex
	byID        map[string]*domain.ContentItem
	windowItems []domain.ContentItem
	typedItems  []domain.ContentItem
	pageItems   []domain.ContentItem

	insertErr  error
	existsErr  error
	findErr    error
	updateErr  error
	derivedFor []string

	// hashCheckMiss makes ExistsByHash report false even for stored hashes,
	// modeling workers whose checks all read the store before any insert
	// commits. The Insert uniqueness below still holds, like the database
	// constraint does.
	hashCheckMiss bool
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{byID: make(map[string]*domain.ContentItem)}
}

func (r *fakeItemRepo) Insert(_ context.Context, item *domain.ContentItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return false, r.insertErr
	}
	for _, existing := range r.byID {
		if existing.URL == item.URL || existing.ContentHash == item.ContentHash {
			return false, nil
		}
	}
	copied := *item
	r.byID[item.ID] = &copied
	return true, nil
}

func (r *fakeItemRepo) ExistsByURL(_ context.Context, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, item := range r.byID {
		if item.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeItemRepo) ExistsByHash(_ context.Context, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	if r.hashCheckMiss {
		return false, nil
	}
	for _, item := range r.byID {
		if item.ContentHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeItemRepo) FindInWindow(_ context.Context, _, _ time.Time) ([]domain.ContentItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.windowItems, nil
}

func (r *fakeItemRepo) FindByType(_ context.Context, _ domain.ContentType, _ time.Time, _ int) ([]domain.ContentItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.typedItems, nil
}

func (r *fakeItemRepo) FindPage(_ context.Context, limit, offset int) ([]domain.ContentItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if offset >= len(r.pageItems) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.pageItems) {
		end = len(r.pageItems)
	}
	return r.pageItems[offset:end], nil
}

func (r *fakeItemRepo) UpdateDerived(_ context.Context, itemID string, score float64, topics []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.derivedFor = append(r.derivedFor, itemID)
	if item, ok := r.byID[itemID]; ok {
		item.SignificanceScore = score
		item.Topics = topics
	}
	return nil
}

func (r *fakeItemRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// fakeSourceRepo serves a fixed source list.
type fakeSourceRepo struct {
	sources []domain.Source
	listErr error
}

func (r *fakeSourceRepo) Seed(context.Context, []domain.Source) error { return nil }

func (r *fakeSourceRepo) ListEnabled(context.Context) ([]domain.Source, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sources, nil
}

// fakeLockRepo models the run lock.
type fakeLockRepo struct {
	mu         sync.Mutex
	held       bool
	acquireErr error
	released   int
}

func (r *fakeLockRepo) TryAcquire(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acquireErr != nil {
		return false, r.acquireErr
	}
	if r.held {
		return false, nil
	}
	r.held = true
	return true, nil
}

func (r *fakeLockRepo) Release(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held = false
	r.released++
	return nil
}

// fakeArchiveRepo records saved snapshots.
type savedArchive struct {
	archive domain.DailyArchive
	force   bool
}

type fakeArchiveRepo struct {
	mu      sync.Mutex
	saved   []savedArchive
	saveErr error

	latest    *domain.DailyArchive
	latestErr error
	byDate    map[string]*domain.DailyArchive
	recent    []domain.DailyArchive
}

func newFakeArchiveRepo() *fakeArchiveRepo {
	return &fakeArchiveRepo{byDate: make(map[string]*domain.DailyArchive)}
}

func (r *fakeArchiveRepo) Save(_ context.Context, archive *domain.DailyArchive, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, savedArchive{archive: *archive, force: force})
	return nil
}

func (r *fakeArchiveRepo) FindByDate(_ context.Context, date time.Time) (*domain.DailyArchive, error) {
	archive, ok := r.byDate[date.Format("2006-01-02")]
	if !ok {
		return nil, domain.ErrArchiveNotFound
	}
	return archive, nil
}

func (r *fakeArchiveRepo) FindLatest(context.Context) (*domain.DailyArchive, error) {
	if r.latestErr != nil {
		return nil, r.latestErr
	}
	if r.latest == nil {
		return nil, domain.ErrArchiveNotFound
	}
	return r.latest, nil
}

func (r *fakeArchiveRepo) ListRecent(context.Context, int) ([]domain.DailyArchive, error) {
	return r.recent, nil
}
