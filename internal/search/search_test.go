package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verinews/internal/cache"
	"github.com/ppiankov/verinews/internal/model"
)

func googleServer(t *testing.T, failPage int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "test-cx", q.Get("cx"))
		assert.Equal(t, "active", q.Get("safe"))

		start, _ := strconv.Atoi(q.Get("start"))
		num, _ := strconv.Atoi(q.Get("num"))
		page := (start-1)/10 + 1
		if page == failPage {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		items := make([]map[string]any, 0, num)
		for i := 0; i < num; i++ {
			n := start + i
			items = append(items, map[string]any{
				"link":        fmt.Sprintf("https://news%d.example.com/story", n),
				"title":       fmt.Sprintf("Story %d", n),
				"snippet":     "snippet",
				"displayLink": fmt.Sprintf("news%d.example.com", n),
				"pagemap": map[string]any{
					"metatags": []map[string]any{{"article:published_time": "2024-01-02T03:04:05Z"}},
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTestGoogle(baseURL string) *GoogleProvider {
	return NewGoogleProvider(model.SearchConfig{APIKey: "test-key", CX: "test-cx", BaseURL: baseURL}, nil, nil)
}

func TestGoogleSearch_SinglePage(t *testing.T) {
	server, calls := googleServer(t, 0)

	results, err := newTestGoogle(server.URL).Search(context.Background(), Query{Text: "water on mars", MaxResults: 4})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "https://news1.example.com/story", results[0].URL)
	assert.Equal(t, "2024-01-02T03:04:05Z", results[0].PublishedDate)
	assert.Equal(t, "news1.example.com", results[0].Source)
}

func TestGoogleSearch_PagesKeepOrder(t *testing.T) {
	server, calls := googleServer(t, 0)

	results, err := newTestGoogle(server.URL).Search(context.Background(), Query{Text: "q", MaxResults: 15})
	require.NoError(t, err)
	require.Len(t, results, 15)
	assert.Equal(t, int32(2), calls.Load())
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("Story %d", i+1), r.Title)
	}
}

func TestGoogleSearch_FailedPageSkipped(t *testing.T) {
	server, _ := googleServer(t, 2)

	results, err := newTestGoogle(server.URL).Search(context.Background(), Query{Text: "q", MaxResults: 15})
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestGoogleSearch_AllPagesFail(t *testing.T) {
	server, _ := googleServer(t, 1)

	_, err := newTestGoogle(server.URL).Search(context.Background(), Query{Text: "q", MaxResults: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchFailed))
}

func TestGoogleSearch_MissingCredentials(t *testing.T) {
	p := NewGoogleProvider(model.SearchConfig{APIKey: "key"}, nil, nil)
	_, err := p.Search(context.Background(), Query{Text: "q"})
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestGoogleSearch_ClampsMaxResults(t *testing.T) {
	server, calls := googleServer(t, 0)

	results, err := newTestGoogle(server.URL).Search(context.Background(), Query{Text: "q", MaxResults: 500})
	require.NoError(t, err)
	assert.Len(t, results, 20)
	assert.Equal(t, int32(2), calls.Load())
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Search results</title>
<item>
  <title>Rover finds water ice - Reuters</title>
  <link>https://example.com/a</link>
  <description>First</description>
  <pubDate>Tue, 02 Jan 2024 03:04:05 GMT</pubDate>
</item>
<item>
  <title>Plain headline</title>
  <link>https://www.example.org/b</link>
  <description>Second</description>
</item>
<item>
  <title>Third</title>
  <link>https://example.net/c</link>
</item>
</channel>
</rss>`

func TestFeedSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mars water", r.URL.Query().Get("q"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, testFeed)
	}))
	defer server.Close()

	p := NewFeedProvider(server.URL, "test-agent", nil, nil)
	results, err := p.Search(context.Background(), Query{Text: "mars water", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Rover finds water ice", results[0].Title)
	assert.Equal(t, "Reuters", results[0].Source)
	assert.Equal(t, "2024-01-02T03:04:05Z", results[0].PublishedDate)
	assert.Equal(t, "example.org", results[1].Source)
	assert.Equal(t, "", results[1].PublishedDate)
}

func TestFeedSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewFeedProvider(server.URL, "", nil, nil).Search(context.Background(), Query{Text: "q"})
	assert.True(t, errors.Is(err, ErrSearchFailed))
}

type countingProvider struct {
	calls atomic.Int32
	err   error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	n := p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return []Result{{URL: fmt.Sprintf("https://example.com/%d", n), Title: q.Text}}, nil
}

func TestCachedProvider_HitAvoidsCall(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, cache.NewMemoryCache(time.Minute, 0), time.Minute, nil)

	first, err := p.Search(context.Background(), Query{Text: "claim", MaxResults: 4})
	require.NoError(t, err)
	second, err := p.Search(context.Background(), Query{Text: "claim", MaxResults: 4})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())

	_, err = p.Search(context.Background(), Query{Text: "claim", MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load(), "different count is a different key")
}

func TestCachedProvider_ExpiredEntryRefetches(t *testing.T) {
	inner := &countingProvider{}
	ttl := 20 * time.Millisecond
	p := NewCachedProvider(inner, cache.NewMemoryCache(ttl, 0), ttl, nil)

	_, err := p.Search(context.Background(), Query{Text: "claim"})
	require.NoError(t, err)
	time.Sleep(3 * ttl)
	_, err = p.Search(context.Background(), Query{Text: "claim"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: ErrSearchFailed}
	p := NewCachedProvider(inner, cache.NewMemoryCache(time.Minute, 0), time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := p.Search(context.Background(), Query{Text: "claim"})
		assert.True(t, errors.Is(err, ErrSearchFailed))
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(model.SearchConfig{Provider: "newsfeed", CacheTTL: time.Minute}, model.HTTPConfig{}, nil)
	require.NoError(t, err)
	_, cached := p.(*CachedProvider)
	assert.True(t, cached)
	assert.Equal(t, "newsfeed", p.Name())

	p, err = NewProvider(model.SearchConfig{Provider: "google"}, model.HTTPConfig{}, nil)
	require.NoError(t, err)
	_, isGoogle := p.(*GoogleProvider)
	assert.True(t, isGoogle)

	_, err = NewProvider(model.SearchConfig{Provider: "altavista"}, model.HTTPConfig{}, nil)
	assert.Error(t, err)
}

func TestResultArticle(t *testing.T) {
	a := Result{URL: "https://www.bbc.co.uk/news/x", Title: "T"}.Article()
	assert.Equal(t, "bbc.co.uk", a.Source)
	assert.Equal(t, model.FetchUnknown, a.Status)
}
