package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-digest/domain"
	"ai-digest/service"
)

type fakeDigestService struct {
	payload     *domain.DigestPayload
	views       []domain.ContentItemView
	archive     *domain.DailyArchive
	archives    []domain.DailyArchive
	err         error
	refreshSeen bool
	hoursSeen   int
	limitSeen   int
}

func (f *fakeDigestService) GetDigest(_ context.Context, refresh bool) (*domain.DigestPayload, error) {
	f.refreshSeen = refresh
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func (f *fakeDigestService) GetContent(_ context.Context, _ domain.ContentType, hours, limit int) ([]domain.ContentItemView, error) {
	f.hoursSeen, f.limitSeen = hours, limit
	if f.err != nil {
		return nil, f.err
	}
	return f.views, nil
}

func (f *fakeDigestService) GetArchive(context.Context, time.Time) (*domain.DailyArchive, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.archive, nil
}

func (f *fakeDigestService) ListArchives(context.Context, int) ([]domain.DailyArchive, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.archives, nil
}

type fakeIngestService struct {
	result *service.IngestResult
	err    error
}

func (f *fakeIngestService) Run(context.Context) (*service.IngestResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeRescoreService struct {
	result *service.RescoreResult
	err    error
}

func (f *fakeRescoreService) Run(context.Context) (*service.RescoreResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeTopicRepo struct {
	topics []domain.Topic
	err    error
}

func (f *fakeTopicRepo) Seed(context.Context, []domain.Topic) error { return nil }
func (f *fakeTopicRepo) ListEnabled(context.Context) ([]domain.Topic, error) {
	return f.topics, f.err
}

type fakeSourceRepo struct {
	sources []domain.Source
	err     error
}

func (f *fakeSourceRepo) Seed(context.Context, []domain.Source) error { return nil }
func (f *fakeSourceRepo) ListEnabled(context.Context) ([]domain.Source, error) {
	return f.sources, f.err
}

func testHandlers() *Handlers {
	return &Handlers{
		Digest:  &fakeDigestService{payload: &domain.DigestPayload{Badge: "Morning Digest"}},
		Ingest:  &fakeIngestService{result: &service.IngestResult{Sources: 2, Inserted: 5}},
		Rescore: &fakeRescoreService{result: &service.RescoreResult{Processed: 10, Updated: 10}},
		Topics:  &fakeTopicRepo{},
		Sources: &fakeSourceRepo{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func doRequest(h *Handlers, fn func(*Handlers) echo.HandlerFunc, method, target string, params map[string]string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	err := fn(h)(c)
	return rec, err
}

func TestHandleGetDigest(t *testing.T) {
	t.Run("should serve the composed digest", func(t *testing.T) {
		h := testHandlers()
		rec, err := doRequest(h, handleGetDigest, http.MethodGet, "/api/v1/digest", nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Morning Digest")
		assert.False(t, h.Digest.(*fakeDigestService).refreshSeen)
	})

	t.Run("should pass refresh through to the service", func(t *testing.T) {
		h := testHandlers()
		_, err := doRequest(h, handleGetDigest, http.MethodGet, "/api/v1/digest?refresh=true", nil)
		require.NoError(t, err)
		assert.True(t, h.Digest.(*fakeDigestService).refreshSeen)
	})

	t.Run("should answer 500 on service failure", func(t *testing.T) {
		h := testHandlers()
		h.Digest = &fakeDigestService{err: errors.New("db down")}
		rec, err := doRequest(h, handleGetDigest, http.MethodGet, "/api/v1/digest", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}

func TestHandleGetContent(t *testing.T) {
	t.Run("should serve the requested bucket with defaults", func(t *testing.T) {
		h := testHandlers()
		h.Digest = &fakeDigestService{views: []domain.ContentItemView{{Title: "Ep 1", Type: "audio"}}}

		rec, err := doRequest(h, handleGetContent, http.MethodGet, "/api/v1/content/audio", map[string]string{"type": "audio"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Type  string                   `json:"type"`
			Items []domain.ContentItemView `json:"items"`
			Count int                      `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "audio", body.Type)
		assert.Equal(t, 1, body.Count)
		assert.Equal(t, defaultContentLimit, h.Digest.(*fakeDigestService).limitSeen)
	})

	t.Run("should honor hours and limit parameters", func(t *testing.T) {
		h := testHandlers()
		fake := &fakeDigestService{}
		h.Digest = fake

		_, err := doRequest(h, handleGetContent, http.MethodGet, "/api/v1/content/blog?hours=48&limit=5", map[string]string{"type": "blog"})
		require.NoError(t, err)
		assert.Equal(t, 48, fake.hoursSeen)
		assert.Equal(t, 5, fake.limitSeen)
	})

	t.Run("should answer 400 for an unknown type", func(t *testing.T) {
		h := testHandlers()
		h.Digest = &fakeDigestService{err: domain.ErrInvalidContentType}

		rec, err := doRequest(h, handleGetContent, http.MethodGet, "/api/v1/content/newsletter", map[string]string{"type": "newsletter"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleArchives(t *testing.T) {
	t.Run("should list archive summaries", func(t *testing.T) {
		h := testHandlers()
		h.Digest = &fakeDigestService{archives: []domain.DailyArchive{
			{Date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), ItemCount: 12},
		}}

		rec, err := doRequest(h, handleListArchives, http.MethodGet, "/api/v1/archives", nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "2026-08-31")
	})

	t.Run("should serve the archived payload verbatim", func(t *testing.T) {
		h := testHandlers()
		h.Digest = &fakeDigestService{archive: &domain.DailyArchive{
			Payload: json.RawMessage(`{"badge":"Evening Digest"}`),
		}}

		rec, err := doRequest(h, handleGetArchive, http.MethodGet, "/api/v1/archives/2026-08-30", map[string]string{"date": "2026-08-30"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"badge":"Evening Digest"}`, rec.Body.String())
	})

	t.Run("should answer 400 for a malformed date", func(t *testing.T) {
		h := testHandlers()
		rec, err := doRequest(h, handleGetArchive, http.MethodGet, "/api/v1/archives/yesterday", map[string]string{"date": "yesterday"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should answer 404 for a missing archive", func(t *testing.T) {
		h := testHandlers()
		h.Digest = &fakeDigestService{err: domain.ErrArchiveNotFound}

		rec, err := doRequest(h, handleGetArchive, http.MethodGet, "/api/v1/archives/2026-01-01", map[string]string{"date": "2026-01-01"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleScrape(t *testing.T) {
	t.Run("should report run counts", func(t *testing.T) {
		h := testHandlers()
		rec, err := doRequest(h, handleScrape, http.MethodPost, "/api/v1/scrape", nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"inserted":5`)
	})

	t.Run("should answer 409 while a run is active", func(t *testing.T) {
		h := testHandlers()
		h.Ingest = &fakeIngestService{err: domain.ErrRunInProgress}

		rec, err := doRequest(h, handleScrape, http.MethodPost, "/api/v1/scrape", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleRescore(t *testing.T) {
	t.Run("should report rescore counts", func(t *testing.T) {
		h := testHandlers()
		rec, err := doRequest(h, handleRescore, http.MethodPost, "/api/v1/rescore", nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"processed":10`)
	})

	t.Run("should answer 409 while a run is active", func(t *testing.T) {
		h := testHandlers()
		h.Rescore = &fakeRescoreService{err: domain.ErrRunInProgress}

		rec, err := doRequest(h, handleRescore, http.MethodPost, "/api/v1/rescore", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleMeta(t *testing.T) {
	t.Run("should list topics", func(t *testing.T) {
		h := testHandlers()
		h.Topics = &fakeTopicRepo{topics: []domain.Topic{{ID: "ai-research", Name: "AI Research"}}}

		rec, err := doRequest(h, handleListTopics, http.MethodGet, "/api/v1/topics", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ai-research")
	})

	t.Run("should list sources", func(t *testing.T) {
		h := testHandlers()
		h.Sources = &fakeSourceRepo{sources: []domain.Source{{Name: "OpenAI Blog", Type: domain.ContentTypeBlog}}}

		rec, err := doRequest(h, handleListSources, http.MethodGet, "/api/v1/sources", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "OpenAI Blog")
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("should report healthy when the database answers", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT 1").
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

		h := testHandlers()
		h.DB = mock

		rec, err := doRequest(h, handleHealth, http.MethodGet, "/api/v1/health", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("should report degraded when the database is unreachable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection refused"))

		h := testHandlers()
		h.DB = mock

		rec, err := doRequest(h, handleHealth, http.MethodGet, "/api/v1/health", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "degraded")
	})
}
