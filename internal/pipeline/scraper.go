package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/extract"
	"github.com/ppiankov/verinews/internal/extract/adapters"
	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/util"
	"github.com/ppiankov/verinews/internal/worker"
)

// DefaultMaxConcurrent bounds in-flight page fetches
const DefaultMaxConcurrent = 10

// errDisallowed marks a URL excluded by robots.txt
var errDisallowed = errors.New("disallowed by robots.txt")

// ScrapeResult is the outcome for one URL. A failed fetch has status error
// and a message; a page whose text could not be extracted is still a success
// with empty content.
type ScrapeResult struct {
	URL     string
	Content string
	Meta    extract.Meta
	Status  model.FetchStatus
	Error   string
}

// ScraperOptions tunes a Scraper; zero values take the defaults
type ScraperOptions struct {
	MaxConcurrent  int
	ExtractWorkers int
	Limiter        *worker.Limiter      // Optional per-domain rate limit
	Robots         *util.RobotsChecker // Optional robots.txt check
	Logger         *zap.Logger
}

// Scraper fetches many article pages concurrently and extracts their text
type Scraper struct {
	fetcher        PageFetcher
	registry       *adapters.Registry
	maxConcurrent  int
	extractWorkers int
	limiter        *worker.Limiter
	robots         *util.RobotsChecker
	logger         *zap.Logger
}

// NewScraper creates a scraper; nil registry uses the default site adapters
func NewScraper(fetcher PageFetcher, registry *adapters.Registry, opts ScraperOptions) *Scraper {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if registry == nil {
		registry = adapters.NewRegistry(extract.DefaultMaxChars, opts.Logger)
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.ExtractWorkers <= 0 {
		opts.ExtractWorkers = 8
	}
	return &Scraper{
		fetcher:        fetcher,
		registry:       registry,
		maxConcurrent:  opts.MaxConcurrent,
		extractWorkers: opts.ExtractWorkers,
		limiter:        opts.Limiter,
		robots:         opts.Robots,
		logger:         opts.Logger,
	}
}

type retryFetcher interface {
	FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error)
}

type extractResult struct {
	url     string
	content string
	meta    extract.Meta
}

func (r *extractResult) GetError() error { return nil }

// FetchMany returns one entry per distinct URL. At most maxConcurrent fetches
// are in flight; the rest queue. Fetched markup goes to a bounded extraction
// pool so parsing never holds a fetch slot.
func (s *Scraper) FetchMany(ctx context.Context, urls []string) map[string]ScrapeResult {
	results := make(map[string]ScrapeResult, len(urls))
	if len(urls) == 0 {
		return results
	}
	start := time.Now()

	pool := worker.NewPool(ctx, s.extractWorkers)
	pool.Start()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		submitted = make(map[int]string)
		sem       = make(chan struct{}, s.maxConcurrent)
		seen      = make(map[string]bool, len(urls))
	)

	fail := func(u string, err error) {
		s.logger.Warn("scrape failed", zap.String("url", u), zap.Error(err))
		mu.Lock()
		results[u] = ScrapeResult{URL: u, Status: model.FetchError, Error: err.Error()}
		mu.Unlock()
	}

	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true

		wg.Add(1)
		go func(u string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				fail(u, ctx.Err())
				return
			}
			page, err := s.fetch(ctx, u)
			<-sem
			if err != nil {
				fail(u, err)
				return
			}

			idx := pool.Submit(worker.JobFunc(func(context.Context) worker.Result {
				return &extractResult{
					url:     u,
					content: s.registry.Extract(page.HTML, u),
					meta:    extract.Metadata(page.HTML),
				}
			}))
			mu.Lock()
			submitted[idx] = u
			mu.Unlock()
		}(u)
	}

	wg.Wait()
	extracted := pool.Wait()

	for idx, u := range submitted {
		r, ok := extracted[idx].(*extractResult)
		if !ok || r == nil {
			err := ctx.Err()
			if err == nil {
				err = errors.New("extraction skipped")
			}
			results[u] = ScrapeResult{URL: u, Status: model.FetchError, Error: err.Error()}
			continue
		}
		results[u] = ScrapeResult{URL: u, Content: r.content, Meta: r.meta, Status: model.FetchSuccess}
	}

	s.logger.Info("scraping completed",
		zap.Int("urls", len(seen)),
		zap.Int("extracted", len(submitted)),
		zap.Duration("elapsed", time.Since(start)))
	return results
}

func (s *Scraper) fetch(ctx context.Context, u string) (*FetchResult, error) {
	if s.robots != nil && !s.robots.Allowed(ctx, u) {
		return nil, errDisallowed
	}
	if err := s.limiter.Wait(ctx, u); err != nil {
		return nil, err
	}
	if rf, ok := s.fetcher.(retryFetcher); ok {
		return rf.FetchWithRetry(ctx, u)
	}
	return s.fetcher.Fetch(ctx, u)
}
