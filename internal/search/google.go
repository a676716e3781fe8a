package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/verinews/internal/model"
)

// GoogleBaseURL is the Custom Search JSON API endpoint
const GoogleBaseURL = "https://www.googleapis.com/customsearch/v1"

// googlePageSize is the most results the API returns per request
const googlePageSize = 10

// GoogleProvider queries Google Custom Search
type GoogleProvider struct {
	apiKey  string
	cx      string
	baseURL string
	lang    string
	client  *http.Client
	logger  *zap.Logger
}

// NewGoogleProvider creates a provider; credentials are checked per search
func NewGoogleProvider(cfg model.SearchConfig, client *http.Client, logger *zap.Logger) *GoogleProvider {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GoogleBaseURL
	}
	return &GoogleProvider{
		apiKey:  cfg.APIKey,
		cx:      cfg.CX,
		baseURL: baseURL,
		lang:    cfg.Lang,
		client:  client,
		logger:  logger,
	}
}

func (g *GoogleProvider) Name() string { return "google" }

// Search requests every needed page concurrently. A failed page is logged
// and skipped; only when every page fails is the search an error.
func (g *GoogleProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	if g.apiKey == "" || g.cx == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY and GOOGLE_CX must be set", ErrMissingCredentials)
	}
	q = q.normalize()
	if q.Lang == "" {
		q.Lang = g.lang
	}

	pages := (q.MaxResults + googlePageSize - 1) / googlePageSize
	results := make([][]Result, pages)
	errs := make([]error, pages)

	start := time.Now()
	var group errgroup.Group
	for i := 0; i < pages; i++ {
		page := i + 1
		num := q.MaxResults - i*googlePageSize
		if num > googlePageSize {
			num = googlePageSize
		}
		group.Go(func() error {
			results[page-1], errs[page-1] = g.searchPage(ctx, q, num, page)
			return nil
		})
	}
	_ = group.Wait()

	var merged []Result
	failed := 0
	for i := range results {
		if errs[i] != nil {
			failed++
			g.logger.Warn("search page failed", zap.Int("page", i+1), zap.Error(errs[i]))
			continue
		}
		merged = append(merged, results[i]...)
	}
	if failed == pages {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, errs[0])
	}

	if len(merged) > q.MaxResults {
		merged = merged[:q.MaxResults]
	}
	g.logger.Info("search completed",
		zap.String("query", q.Text),
		zap.Int("results", len(merged)),
		zap.Duration("elapsed", time.Since(start)))
	return merged, nil
}

type googleResponse struct {
	Items []struct {
		Link        string `json:"link"`
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
		Pagemap     struct {
			Metatags []map[string]any `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
}

func (g *GoogleProvider) searchPage(ctx context.Context, q Query, num, page int) ([]Result, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", q.Text)
	params.Set("num", strconv.Itoa(num))
	params.Set("start", strconv.Itoa((page-1)*googlePageSize+1))
	params.Set("safe", "active")
	if q.Lang != "" {
		params.Set("lr", q.Lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("page %d: HTTP %d: %s", page, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("page %d: decode: %w", page, err)
	}

	results := make([]Result, 0, len(data.Items))
	for _, item := range data.Items {
		date := ""
		if len(item.Pagemap.Metatags) > 0 {
			if s, ok := item.Pagemap.Metatags[0]["article:published_time"].(string); ok {
				date = s
			}
		}
		results = append(results, Result{
			URL:           item.Link,
			Title:         item.Title,
			Snippet:       item.Snippet,
			Source:        item.DisplayLink,
			PublishedDate: date,
		})
	}
	return results, nil
}
