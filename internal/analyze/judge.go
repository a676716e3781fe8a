// Package analyze asks the judgment model how each evidence article bears on
// a claim and turns its replies into structured judgments.
package analyze

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/verinews/internal/llm"
	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Judge sends judgment prompts to the model with retry and optional rate limiting
type Judge struct {
	provider     llm.Provider
	policy       llm.RetryPolicy
	limiter      *rate.Limiter
	authority    *validate.AuthorityClassifier
	logger       *zap.Logger
	req          llm.CompletionRequest
	callTimeout  time.Duration
	workers      int
	contentChars int
	now          func() time.Time
}

// Options configures a Judge; zero values take the documented defaults
type Options struct {
	Model             string
	MaxTokens         int     // default 512
	Temperature       float64 // default 0.8
	CallTimeout       time.Duration
	Workers           int // default 5
	ContentChars      int // default 3000
	RequestsPerSecond float64
	Policy            *llm.RetryPolicy
	Authority         *validate.AuthorityClassifier
	Logger            *zap.Logger
}

// NewJudge creates a judge around provider
func NewJudge(provider llm.Provider, opts Options) *Judge {
	j := &Judge{
		provider:     provider,
		policy:       llm.DefaultRetryPolicy(),
		authority:    opts.Authority,
		logger:       opts.Logger,
		callTimeout:  opts.CallTimeout,
		workers:      opts.Workers,
		contentChars: opts.ContentChars,
		now:          time.Now,
		req: llm.CompletionRequest{
			Model:       opts.Model,
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
		},
	}
	if opts.Policy != nil {
		j.policy = *opts.Policy
	}
	if j.logger == nil {
		j.logger = zap.NewNop()
	}
	if j.authority == nil {
		j.authority = validate.NewAuthorityClassifier(nil)
	}
	if j.req.MaxTokens <= 0 {
		j.req.MaxTokens = 512
	}
	if j.req.Temperature == 0 {
		j.req.Temperature = 0.8
	}
	if j.workers <= 0 {
		j.workers = 5
	}
	if j.contentChars <= 0 {
		j.contentChars = 3000
	}
	if opts.RequestsPerSecond > 0 {
		j.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	policy := j.policy
	j.policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		j.logger.Warn("model call failed, retrying",
			zap.String("provider", provider.Name()),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, delay, err)
		}
	}
	return j
}

// Ask sends one prompt and returns the raw reply. Every failure is retried
// per the policy; exhaustion yields llm.ErrServiceUnavailable.
func (j *Judge) Ask(ctx context.Context, prompt, system string) (string, error) {
	req := j.req
	req.Messages = nil
	if system != "" {
		req.Messages = append(req.Messages, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	req.Messages = append(req.Messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	return j.policy.Do(ctx, func(ctx context.Context) (string, error) {
		if j.limiter != nil {
			if err := j.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		if j.callTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, j.callTimeout)
			defer cancel()
		}
		return j.provider.Complete(ctx, req)
	})
}

// AnalyzeSource judges one article. An unparsable reply is retried once with
// a JSON-only reminder; a second failure yields a degraded judgment rather
// than an error. Only transport exhaustion is returned as an error.
func (j *Judge) AnalyzeSource(ctx context.Context, claim string, article model.EvidenceArticle) (model.SourceJudgment, error) {
	prompt := BuildPrompt(claim, article, j.contentChars)
	system := SystemPrompt(j.now())

	parsed, err := j.askParsed(ctx, prompt, system)
	if errors.Is(err, ErrUnparsableOutput) {
		j.logger.Warn("unparsable judgment, retrying with JSON-only reminder",
			zap.String("url", article.URL), zap.Error(err))
		parsed, err = j.askParsed(ctx, prompt+jsonOnlySuffix, system)
	}
	if errors.Is(err, ErrUnparsableOutput) {
		j.logger.Error("failed to parse model response", zap.String("url", article.URL), zap.Error(err))
		return j.degraded(article), nil
	}
	if err != nil {
		return model.SourceJudgment{EvidenceArticle: article, Support: model.SupportUnknown}, err
	}

	judgment := model.SourceJudgment{
		EvidenceArticle: article,
		Relevant:        parsed.Relevant,
		Support:         parsed.Support,
		Confidence:      parsed.Confidence,
		Reason:          parsed.Reason,
		Authoritative:   j.authority.IsAuthoritative(article.Source),
	}
	if parsed.Authoritative != nil && *parsed.Authoritative {
		judgment.Authoritative = true
	}

	j.logger.Info("analyzed source",
		zap.String("source", article.Source),
		zap.String("support", string(judgment.Support)),
		zap.Float64("confidence", judgment.Confidence),
		zap.Bool("authoritative", judgment.Authoritative))
	return judgment, nil
}

func (j *Judge) askParsed(ctx context.Context, prompt, system string) (Parsed, error) {
	raw, err := j.Ask(ctx, prompt, system)
	if err != nil {
		return Parsed{}, err
	}
	return ParseJudgment(raw)
}

// degraded is the judgment recorded when the model never produced usable JSON.
// It is filtered out by aggregation since it is not relevant.
func (j *Judge) degraded(article model.EvidenceArticle) model.SourceJudgment {
	return model.SourceJudgment{
		EvidenceArticle: article,
		Relevant:        false,
		Support:         model.SupportUnknown,
		Confidence:      0,
		Reason:          "Failed to parse JSON",
		Authoritative:   false,
	}
}

// AnalyzeSources judges every article concurrently with at most the
// configured number of calls in flight. Result i pairs with articles[i] and
// every call completes before returning. If any call exhausted its retries
// the judgments are still returned alongside llm.ErrServiceUnavailable.
func (j *Judge) AnalyzeSources(ctx context.Context, claim string, articles []model.EvidenceArticle) ([]model.SourceJudgment, error) {
	judgments := make([]model.SourceJudgment, len(articles))
	errs := make([]error, len(articles))

	// Plain group: a failed unit never cancels its siblings.
	var g errgroup.Group
	g.SetLimit(j.workers)

	for i, article := range articles {
		g.Go(func() error {
			judgments[i], errs[i] = j.AnalyzeSource(ctx, claim, article)
			return nil
		})
	}
	_ = g.Wait()

	return judgments, errors.Join(errs...)
}
