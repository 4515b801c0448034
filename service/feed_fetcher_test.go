package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-digest/domain"
)

const blogFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <item>
      <title>New Model Announced</title>
      <link>https://blog.example.com/new-model</link>
      <description>A new model has been announced.</description>
      <pubDate>Mon, 31 Aug 2026 09:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://blog.example.com/second</link>
      <description>Another post.</description>
      <pubDate>Sun, 30 Aug 2026 12:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const podcastFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Example Podcast</title>
    <item>
      <title>Episode 1</title>
      <link>https://pod.example.com/ep1</link>
      <description>The first episode.</description>
      <enclosure url="https://pod.example.com/ep1.mp3" length="1000" type="audio/mpeg"/>
      <itunes:duration>45:30</itunes:duration>
      <pubDate>Mon, 31 Aug 2026 06:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const videoFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
  <title>Example Channel</title>
  <entry>
    <title>Paper Explained</title>
    <link rel="alternate" href="https://video.example.com/watch?v=abc"/>
    <published>2026-08-31T07:00:00+00:00</published>
    <media:group>
      <media:title>Paper Explained</media:title>
      <media:description>We look at a new paper.</media:description>
      <media:thumbnail url="https://video.example.com/thumb/abc.jpg" width="480" height="360"/>
    </media:group>
  </entry>
</feed>`

func newTestFetcher(client *http.Client) FeedFetcher {
	return NewFeedFetcher(client, "test-agent", 5*time.Second, testLogger())
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFeedFetcher_Fetch(t *testing.T) {
	t.Run("should map blog feed entries", func(t *testing.T) {
		server := feedServer(t, blogFeedXML)
		fetcher := newTestFetcher(server.Client())

		raws, err := fetcher.Fetch(context.Background(), domain.Source{
			Name: "Example Blog", FeedURL: server.URL, Type: domain.ContentTypeBlog,
		})
		require.NoError(t, err)

		require.Len(t, raws, 2)
		assert.Equal(t, "New Model Announced", raws[0].Title)
		assert.Equal(t, "https://blog.example.com/new-model", raws[0].Link)
		assert.Equal(t, "A new model has been announced.", raws[0].Description)
		require.NotNil(t, raws[0].Published)
		assert.Equal(t, 2026, raws[0].Published.Year())
		assert.Empty(t, raws[0].AudioURL)
	})

	t.Run("should map podcast enclosures and duration", func(t *testing.T) {
		server := feedServer(t, podcastFeedXML)
		fetcher := newTestFetcher(server.Client())

		raws, err := fetcher.Fetch(context.Background(), domain.Source{
			Name: "Example Podcast", FeedURL: server.URL, Type: domain.ContentTypeAudio,
		})
		require.NoError(t, err)

		require.Len(t, raws, 1)
		assert.Equal(t, "https://pod.example.com/ep1.mp3", raws[0].AudioURL)
		assert.Equal(t, "45:30", raws[0].Duration)
	})

	t.Run("should map video thumbnails from the media extension", func(t *testing.T) {
		server := feedServer(t, videoFeedXML)
		fetcher := newTestFetcher(server.Client())

		raws, err := fetcher.Fetch(context.Background(), domain.Source{
			Name: "Example Channel", FeedURL: server.URL, Type: domain.ContentTypeVideo,
		})
		require.NoError(t, err)

		require.Len(t, raws, 1)
		assert.Equal(t, "https://video.example.com/thumb/abc.jpg", raws[0].ThumbnailURL)
	})

	t.Run("should enrich thin blog entries from the linked page", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head>
<meta property="og:description" content="Extracted page description."/>
</head><body><p>Ignored.</p></body></html>`))
		})
		mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Thin</title>
<item><title>Thin Entry</title><link>` + server.URL + `/article</link></item>
</channel></rss>`))
		})

		fetcher := newTestFetcher(server.Client())
		raws, err := fetcher.Fetch(context.Background(), domain.Source{
			Name: "Thin", FeedURL: server.URL + "/feed", Type: domain.ContentTypeBlog,
		})
		require.NoError(t, err)

		require.Len(t, raws, 1)
		assert.Equal(t, "Extracted page description.", raws[0].Description)
	})

	t.Run("should fail on http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		fetcher := newTestFetcher(server.Client())
		_, err := fetcher.Fetch(context.Background(), domain.Source{
			Name: "Gone", FeedURL: server.URL, Type: domain.ContentTypeBlog,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Gone")
	})
}
