package driver

import (
	"context"
	"testing"
	"time"

	"ai-digest/domain"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem() *domain.ContentItem {
	published := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	return &domain.ContentItem{
		ID:                "11111111-1111-1111-1111-111111111111",
		Title:             "OpenAI Releases GPT-5",
		SourceName:        "OpenAI Blog",
		ContentType:       domain.ContentTypeBlog,
		URL:               "https://openai.com/blog/gpt-5",
		ContentHash:       "abc123",
		Summary:           "A new model.",
		SignificanceScore: 8.5,
		PublishedAt:       &published,
		ScrapedAt:         published.Add(time.Hour),
	}
}

func TestInsertItem(t *testing.T) {
	t.Run("should report an inserted row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO content_items").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		inserted, err := InsertItem(context.Background(), mock, testItem())
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should report a conflict no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO content_items").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		inserted, err := InsertItem(context.Background(), mock, testItem())
		require.NoError(t, err)
		assert.False(t, inserted)
	})
}

func TestItemExistsByURL(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("https://openai.com/blog/gpt-5").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ItemExistsByURL(context.Background(), mock, "https://openai.com/blog/gpt-5")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestItemExistsByHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("abc123").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := ItemExistsByHash(context.Background(), mock, "abc123")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateItemDerived(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE content_items SET significance_score").
		WithArgs(7.5, "item-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM item_topics").
		WithArgs("item-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO item_topics").
		WithArgs("item-1", "ai-research").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = UpdateItemDerived(context.Background(), mock, "item-1", 7.5, []string{"ai-research"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
