// Package pipeline runs a claim through search, scraping, judgment,
// aggregation and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/analyze"
	"github.com/ppiankov/verinews/internal/extract/adapters"
	"github.com/ppiankov/verinews/internal/llm"
	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/score"
	"github.com/ppiankov/verinews/internal/search"
	"github.com/ppiankov/verinews/internal/store"
	"github.com/ppiankov/verinews/internal/util"
	"github.com/ppiankov/verinews/internal/validate"
	"github.com/ppiankov/verinews/internal/worker"
)

// Pipeline orchestrates the complete verification process
type Pipeline struct {
	search     search.Provider
	scraper    *Scraper // nil disables scraping; snippets are judged instead
	judge      *analyze.Judge
	aggregator *score.Aggregator
	store      store.RecordStore
	config     *model.Config
	logger     *zap.Logger
	now        func() time.Time
	closers    []func() error
}

// Deps are the collaborators of a Pipeline
type Deps struct {
	Search     search.Provider
	Scraper    *Scraper
	Judge      *analyze.Judge
	Aggregator *score.Aggregator
	Store      store.RecordStore
	Logger     *zap.Logger
}

// New assembles a pipeline from ready collaborators
func New(cfg *model.Config, deps Deps) *Pipeline {
	if cfg == nil {
		def := model.DefaultConfig()
		cfg = &def
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Aggregator == nil {
		deps.Aggregator = score.NewAggregator(cfg.Credibility, deps.Logger)
	}
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	return &Pipeline{
		search:     deps.Search,
		scraper:    deps.Scraper,
		judge:      deps.Judge,
		aggregator: deps.Aggregator,
		store:      deps.Store,
		config:     cfg,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// NewPipeline builds every collaborator from configuration
func NewPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	searcher, err := search.NewProvider(cfg.Search, cfg.HTTP, logger.Named("search"))
	if err != nil {
		return nil, err
	}

	var closers []func() error
	var fetcher PageFetcher
	switch cfg.Fetch.Backend {
	case "", "http":
		fetcher = NewFetcher(cfg.HTTP, cfg.Fetch.MaxRetries)
	case "browser":
		bf := NewBrowserFetcher(cfg.Fetch.BrowserBin, cfg.HTTP.Timeout, cfg.HTTP.UserAgent, logger.Named("browser"))
		fetcher = bf
		closers = append(closers, bf.Close)
	default:
		return nil, fmt.Errorf("unknown fetch backend: %s", cfg.Fetch.Backend)
	}

	var robots *util.RobotsChecker
	if cfg.Fetch.RespectRobots {
		robots = util.NewRobotsChecker(&http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: util.NewTransport(cfg.HTTP),
		}, cfg.HTTP.UserAgent)
	}

	scraper := NewScraper(fetcher, adapters.NewRegistry(cfg.Fetch.MaxContentChars, logger.Named("extract")), ScraperOptions{
		MaxConcurrent:  cfg.Fetch.MaxConcurrent,
		ExtractWorkers: cfg.Fetch.ExtractWorkers,
		Limiter:        worker.NewLimiter(cfg.Fetch.RequestsPerSecond, 1),
		Robots:         robots,
		Logger:         logger.Named("scrape"),
	})

	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	policy := llm.DefaultRetryPolicy()
	if cfg.LLM.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.LLM.MaxAttempts
	}
	if cfg.LLM.BackoffBase > 0 {
		policy.Base = cfg.LLM.BackoffBase
	}
	if cfg.LLM.BackoffFactor > 0 {
		policy.Factor = cfg.LLM.BackoffFactor
	}

	judge := analyze.NewJudge(provider, analyze.Options{
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       cfg.LLM.Temperature,
		CallTimeout:       cfg.LLM.Timeout,
		Workers:           cfg.Analysis.Workers,
		ContentChars:      cfg.Analysis.ContentChars,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		Policy:            &policy,
		Authority:         validate.NewAuthorityClassifier(&cfg.Authority),
		Logger:            logger.Named("judge"),
	})

	st, err := store.Open(ctx, cfg.Store, logger.Named("store"))
	if err != nil {
		return nil, err
	}

	p := New(cfg, Deps{
		Search:     searcher,
		Scraper:    scraper,
		Judge:      judge,
		Aggregator: score.NewAggregator(cfg.Credibility, logger.Named("score")),
		Store:      st,
		Logger:     logger,
	})
	p.closers = closers
	return p, nil
}

// Close releases the store and any browser
func (p *Pipeline) Close() error {
	errs := []error{p.store.Close()}
	for _, c := range p.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Verify runs the full pipeline for one claim. Stage failures produce an
// error-status result carrying the timings gathered so far, alongside the
// error itself. Per-article failures only degrade the evidence.
func (p *Pipeline) Verify(ctx context.Context, claimText string) (*model.VerificationResult, error) {
	res := &model.VerificationResult{
		Claim:     claimText,
		Sources:   []model.SourceJudgment{},
		CheckedAt: p.now().UTC(),
	}

	claim, err := validate.ValidateClaim(claimText)
	if err != nil {
		return p.fail(res, "Invalid claim", err)
	}
	res.Claim = claim

	// 1. Search
	start := time.Now()
	hits, err := p.search.Search(ctx, search.Query{
		Text:       claim,
		MaxResults: p.config.Search.MaxResults,
		Lang:       p.config.Search.Lang,
	})
	res.Timings.Observe("search", time.Since(start))
	if err != nil {
		return p.fail(res, "Search failed", err)
	}
	p.logger.Info("search stage done", zap.Int("results", len(hits)), zap.Duration("elapsed", time.Since(start)))

	var (
		verdict  model.VerdictResult
		articles []model.EvidenceArticle
	)
	if len(hits) == 0 {
		verdict = p.aggregator.Empty(claim)
	} else {
		// 2. Scrape
		start = time.Now()
		articles = p.scrape(ctx, hits)
		res.Timings.Observe("scraping", time.Since(start))

		// 3. Judge and aggregate
		start = time.Now()
		judgments, err := p.judge.AnalyzeSources(ctx, claim, articles)
		if err != nil {
			res.Timings.Observe("analysis", time.Since(start))
			return p.fail(res, "Analysis failed: the judgment model is unavailable", err)
		}
		verdict = p.aggregator.Aggregate(claim, judgments)
		res.Timings.Observe("analysis", time.Since(start))
	}
	applyVerdict(res, verdict)

	// 4. Persist
	start = time.Now()
	id, err := p.persist(ctx, claim, verdict)
	res.Timings.Observe("database", time.Since(start))
	if err != nil {
		return p.fail(res, "Failed to save results", err)
	}

	res.ClaimID = id.String()
	res.Status = model.StatusSuccess
	p.logger.Info("claim verified",
		zap.String("claim_id", res.ClaimID),
		zap.String("verdict", string(res.Verdict)),
		zap.Float64("confidence", res.Confidence))
	return res, nil
}

// Analyze judges caller-supplied articles and aggregates them without search
// or persistence
func (p *Pipeline) Analyze(ctx context.Context, claimText string, articles []model.EvidenceArticle) (*model.VerificationResult, error) {
	res := &model.VerificationResult{
		Claim:     claimText,
		Sources:   []model.SourceJudgment{},
		CheckedAt: p.now().UTC(),
	}

	claim, err := validate.ValidateClaim(claimText)
	if err != nil {
		return p.fail(res, "Invalid claim", err)
	}
	res.Claim = claim

	if len(articles) == 0 {
		applyVerdict(res, p.aggregator.Empty(claim))
		res.Status = model.StatusSuccess
		return res, nil
	}

	start := time.Now()
	judgments, err := p.judge.AnalyzeSources(ctx, claim, articles)
	res.Timings.Observe("analysis", time.Since(start))
	if err != nil {
		return p.fail(res, "Analysis failed: the judgment model is unavailable", err)
	}

	applyVerdict(res, p.aggregator.Aggregate(claim, judgments))
	res.Status = model.StatusSuccess
	return res, nil
}

// Search runs the search stage alone, optionally scraping every hit
func (p *Pipeline) Search(ctx context.Context, query string, maxResults int, scrape bool) ([]model.EvidenceArticle, error) {
	query, maxResults, err := validate.ValidateQuery(query, maxResults)
	if err != nil {
		return nil, err
	}

	hits, err := p.search.Search(ctx, search.Query{Text: query, MaxResults: maxResults, Lang: p.config.Search.Lang})
	if err != nil {
		return nil, err
	}
	if scrape {
		return p.scrape(ctx, hits), nil
	}

	articles := make([]model.EvidenceArticle, len(hits))
	for i, h := range hits {
		articles[i] = h.Article()
	}
	return articles, nil
}

// scrape turns hits into articles, filling content and missing metadata from
// the fetched pages
func (p *Pipeline) scrape(ctx context.Context, hits []search.Result) []model.EvidenceArticle {
	articles := make([]model.EvidenceArticle, len(hits))
	urls := make([]string, len(hits))
	for i, h := range hits {
		articles[i] = h.Article()
		urls[i] = h.URL
	}
	if p.scraper == nil {
		return articles
	}

	pages := p.scraper.FetchMany(ctx, urls)
	for i := range articles {
		page, ok := pages[articles[i].URL]
		if !ok {
			continue
		}
		articles[i].Status = page.Status
		articles[i].Error = page.Error
		articles[i].Content = page.Content
		if articles[i].PublishedDate == "" {
			articles[i].PublishedDate = page.Meta.Published
		}
		if articles[i].Title == "" {
			articles[i].Title = page.Meta.Title
		}
	}
	return articles
}

// persist upserts every judged source and writes the claim with one analysis
// per source in a single transaction
func (p *Pipeline) persist(ctx context.Context, claim string, verdict model.VerdictResult) (uuid.UUID, error) {
	analyses := make([]model.AnalysisRecord, 0, len(verdict.Sources))
	for _, j := range verdict.Sources {
		src := model.SourceRecord{
			URL:              j.URL,
			Domain:           validate.HostOf(j.URL),
			Title:            j.Title,
			Snippet:          j.Snippet,
			Content:          j.Content,
			SourceName:       score.SourceName(j.Source),
			CredibilityScore: score.SourceWeight(p.aggregator.Credibility(), j.Source),
			LastScrapedAt:    p.now().UTC(),
		}
		if t, ok := score.ParseDate(j.PublishedDate); ok {
			src.PublishedDate = &t
		}

		// Sources are upserted outside the claim transaction; if the insert
		// below fails they remain as unreferenced rows and the run reports
		// the error.
		sourceID, err := p.store.UpsertSource(ctx, src)
		if err != nil {
			return uuid.Nil, err
		}
		analyses = append(analyses, model.AnalysisRecord{
			SourceID:     sourceID,
			Support:      j.Support,
			Confidence:   j.Confidence,
			Reason:       j.Reason,
			AnalysisText: j.Text(),
		})
	}

	return p.store.InsertClaimWithAnalyses(ctx, model.ClaimRecord{
		Text:        claim,
		Verdict:     verdict.Verdict,
		Confidence:  verdict.Confidence,
		Explanation: verdict.Explanation,
		Conclusion:  verdict.Conclusion,
		Category:    verdict.Category,
		CreatedAt:   p.now().UTC(),
	}, analyses)
}

func applyVerdict(res *model.VerificationResult, v model.VerdictResult) {
	res.Verdict = v.Verdict
	res.Confidence = v.Confidence
	res.Explanation = v.Explanation
	res.Conclusion = v.Conclusion
	res.Category = v.Category
	res.Sources = v.Sources
	breakdown := v.Breakdown
	res.Breakdown = &breakdown
}

func (p *Pipeline) fail(res *model.VerificationResult, message string, err error) (*model.VerificationResult, error) {
	res.Status = model.StatusError
	res.Message = message
	res.Error = err.Error()
	p.logger.Error(message, zap.String("claim", res.Claim), zap.Error(err))
	return res, err
}
