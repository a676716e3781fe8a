// Package search finds candidate evidence articles for a claim.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/cache"
	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/util"
	"github.com/ppiankov/verinews/internal/validate"
)

var (
	// ErrMissingCredentials means the provider cannot run without an API key
	ErrMissingCredentials = errors.New("search credentials not configured")

	// ErrSearchFailed means no results could be retrieved at all
	ErrSearchFailed = errors.New("search failed")
)

// Query is one search request
type Query struct {
	Text       string
	MaxResults int
	Lang       string // Optional language restriction, e.g. "lang_en"
}

// Result is one search hit
type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	Source        string `json:"source,omitempty"`
	PublishedDate string `json:"date"`
}

// Article converts the hit into an unscraped evidence article
func (r Result) Article() model.EvidenceArticle {
	source := r.Source
	if source == "" {
		source = validate.HostOf(r.URL)
	}
	return model.EvidenceArticle{
		URL:           r.URL,
		Title:         r.Title,
		Snippet:       r.Snippet,
		Source:        source,
		PublishedDate: r.PublishedDate,
		Status:        model.FetchUnknown,
	}
}

// Provider searches the web
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Result, error)
}

// normalize trims the query and clamps MaxResults to the provider limits
func (q Query) normalize() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.MaxResults = validate.ClampResults(q.MaxResults, model.DefaultConfig().Search.MaxResults)
	return q
}

// NewProvider builds the configured provider, wrapped in a result cache
// unless the TTL is zero
func NewProvider(cfg model.SearchConfig, httpCfg model.HTTPConfig, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &http.Client{
		Timeout:   searchTimeout(httpCfg),
		Transport: util.NewTransport(httpCfg),
	}

	var p Provider
	switch strings.ToLower(cfg.Provider) {
	case "", "google":
		p = NewGoogleProvider(cfg, client, logger)
	case "newsfeed", "rss", "news":
		p = NewFeedProvider(cfg.BaseURL, httpCfg.UserAgent, client, logger)
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}

	if cfg.CacheTTL <= 0 {
		return p, nil
	}
	var c cache.Cache
	if cfg.CacheDir != "" {
		c = cache.NewLayeredCache(cfg.CacheTTL, cfg.CacheDir)
	} else {
		c = cache.NewMemoryCache(cfg.CacheTTL, 0)
	}
	return NewCachedProvider(p, c, cfg.CacheTTL, logger), nil
}

func searchTimeout(httpCfg model.HTTPConfig) time.Duration {
	if httpCfg.Timeout > 0 {
		return httpCfg.Timeout
	}
	return 10 * time.Second
}
