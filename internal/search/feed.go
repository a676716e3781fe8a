package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/validate"
)

// NewsFeedBaseURL is the Google News RSS search endpoint
const NewsFeedBaseURL = "https://news.google.com/rss/search"

const maxFeedBytes = 4 << 20

// FeedProvider searches a news RSS endpoint; it needs no credentials
type FeedProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
	parser    *gofeed.Parser
	logger    *zap.Logger
}

// NewFeedProvider creates an RSS search provider; empty baseURL uses Google News
func NewFeedProvider(baseURL, userAgent string, client *http.Client, logger *zap.Logger) *FeedProvider {
	if baseURL == "" {
		baseURL = NewsFeedBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedProvider{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		parser:    gofeed.NewParser(),
		logger:    logger,
	}
}

func (f *FeedProvider) Name() string { return "newsfeed" }

func (f *FeedProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	q = q.normalize()

	params := url.Values{}
	params.Set("q", q.Text)
	if lang := strings.TrimPrefix(q.Lang, "lang_"); lang != "" {
		params.Set("hl", lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrSearchFailed, resp.StatusCode)
	}

	feed, err := f.parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %w", ErrSearchFailed, err)
	}

	results := make([]Result, 0, q.MaxResults)
	for _, item := range feed.Items {
		if len(results) == q.MaxResults {
			break
		}
		if item.Link == "" {
			continue
		}
		title, source := splitPublisher(item.Title)
		if source == "" {
			source = validate.HostOf(item.Link)
		}
		date := item.Published
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.UTC().Format(time.RFC3339)
		}
		results = append(results, Result{
			URL:           item.Link,
			Title:         title,
			Snippet:       strings.TrimSpace(item.Description),
			Source:        source,
			PublishedDate: date,
		})
	}

	f.logger.Info("feed search completed", zap.String("query", q.Text), zap.Int("results", len(results)))
	return results, nil
}

// splitPublisher separates the " - Publisher" suffix news feeds append to titles
func splitPublisher(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}
