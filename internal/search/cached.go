package search

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/cache"
)

// CachedProvider serves repeated queries from a cache for ttl
type CachedProvider struct {
	inner  Provider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps inner with c
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{inner: inner, cache: c, ttl: ttl, logger: logger}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

// Search returns a cached response when one is live; otherwise it calls the
// wrapped provider and stores a successful response. Errors are never cached.
func (p *CachedProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	q = q.normalize()
	key := cache.SearchKey(q.Text, q.MaxResults, q.Lang)

	if data, ok := p.cache.Get(key); ok {
		var results []Result
		if err := json.Unmarshal(data, &results); err == nil {
			p.logger.Debug("search cache hit", zap.String("query", q.Text))
			return results, nil
		}
		_ = p.cache.Delete(key)
	}

	results, err := p.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		if err := p.cache.Set(key, data, p.ttl); err != nil {
			p.logger.Warn("search cache write failed", zap.Error(err))
		}
	}
	return results, nil
}
