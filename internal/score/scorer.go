// Package score combines per-source judgments into a single verdict. Every
// step is deterministic given the judgments, the credibility table and the
// clock.
package score

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/model"
)

// Aggregation constants
const (
	MinConfidence      = 30.0 // Judgments must exceed this to count
	OverrideConfidence = 80.0 // Authoritative True at or above this decides alone
	TrueThreshold      = 0.75
	PartialThreshold   = 0.4
	UncertainThreshold = 0.1
)

// Fixed texts
const (
	NoConsensusExplanation = "The sources do not provide a clear consensus on this claim."
	OverrideConclusion     = "✅ This claim is strongly supported by a top-tier source."
	NoSourcesConclusion    = "No relevant sources were found to verify this claim."

	conclusionTrue       = "✅ This claim is supported by credible sources."
	conclusionTrueStrong = "✅ Strong evidence confirms this claim."
	conclusionPartial    = "🟡 The claim is partially supported, with mixed or uncertain evidence."
	conclusionLeaning    = "❓ Some sources suggest support, but overall evidence is weak."
	conclusionUnverified = "🔍 We couldn't definitively verify this claim due to lack of consistent evidence."
	conclusionFalse      = "❌ Most sources contradict this claim."
)

// Aggregator turns judgments into a verdict
type Aggregator struct {
	credibility map[string]float64
	logger      *zap.Logger
	now         func() time.Time
}

// NewAggregator creates an aggregator; nil credibility uses the defaults
func NewAggregator(credibility map[string]float64, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if credibility == nil {
		credibility = model.DefaultCredibility()
	}
	table := make(map[string]float64, len(credibility))
	for k, v := range credibility {
		table[SourceName(k)] = v
	}
	return &Aggregator{credibility: table, logger: logger, now: time.Now}
}

// WithClock returns a copy of a that reads "today" from now
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	c := *a
	c.now = now
	return &c
}

// Credibility returns the credibility table keyed by normalized source name
func (a *Aggregator) Credibility() map[string]float64 {
	return a.credibility
}

// Aggregate computes the verdict for claim. The returned Sources is the full
// input list, including judgments the filter excluded.
func (a *Aggregator) Aggregate(claim string, judgments []model.SourceJudgment) model.VerdictResult {
	now := a.now()
	sources := append([]model.SourceJudgment{}, judgments...)

	// 1. Filter & weight
	kept := a.filterAndWeight(claim, judgments, now)
	breakdown := model.Breakdown{
		Considered: len(kept),
		Excluded:   len(judgments) - len(kept),
	}
	breakdown.Signals = append(breakdown.Signals, model.Signal{
		Type:        model.SignalFilter,
		Description: fmt.Sprintf("%d of %d sources relevant with confidence above %.0f", len(kept), len(judgments), MinConfidence),
		Data: map[string]interface{}{
			"considered": len(kept),
			"excluded":   len(judgments) - len(kept),
			"rule":       "relevant && confidence > 30",
		},
	})

	category := Classify(claim)
	breakdown.Signals = append(breakdown.Signals, model.Signal{
		Type:        model.SignalCategory,
		Description: fmt.Sprintf("Claim classified as %s", category),
		Data:        map[string]interface{}{"category": string(category)},
	})

	// 2. Authoritative override
	if w, ok := override(kept); ok {
		a.logger.Debug("authoritative override",
			zap.String("source", w.Source),
			zap.Float64("confidence", w.Confidence))
		breakdown.Override = true
		breakdown.OverrideSource = w.Source
		breakdown.Signals = append(breakdown.Signals, model.Signal{
			Type:        model.SignalOverride,
			Description: fmt.Sprintf("Authoritative source %s supports the claim with confidence %.0f", w.Source, w.Confidence),
			Data: map[string]interface{}{
				"source":     w.Source,
				"url":        w.URL,
				"confidence": w.Confidence,
				"rule":       "support == True && confidence >= 80 && authoritative",
			},
		})
		return model.VerdictResult{
			Verdict:     model.VerdictTrue,
			Confidence:  model.ClampConfidence(w.Confidence),
			Explanation: fmt.Sprintf("This claim is confirmed by the authoritative source %s with high confidence.", w.Source),
			Conclusion:  OverrideConclusion,
			Category:    category,
			Sources:     sources,
			Breakdown:   breakdown,
		}
	}

	// 3. Weighted scoring
	verdict, confidence := a.weightedVerdict(kept, &breakdown)
	confidence = model.ClampConfidence(confidence)
	a.logger.Debug("weighted verdict",
		zap.String("verdict", string(verdict)),
		zap.Float64("confidence", confidence),
		zap.Int("considered", len(kept)),
		zap.Float64("total_weight", breakdown.TotalWeight))

	// 4. Explanation
	explanation := explain(claim, verdict, kept)
	if strings.TrimSpace(explanation) == "" {
		explanation = NoConsensusExplanation
	}

	return model.VerdictResult{
		Verdict:     verdict,
		Confidence:  confidence,
		Explanation: explanation,
		Conclusion:  conclude(verdict, confidence, kept), // 5. Conclusion
		Category:    category,
		Sources:     sources,
		Breakdown:   breakdown,
	}
}

// Empty is the result when search returned nothing to judge
func (a *Aggregator) Empty(claim string) model.VerdictResult {
	return model.VerdictResult{
		Verdict:     model.VerdictUncertain,
		Confidence:  0,
		Explanation: fmt.Sprintf("No sources provided to verify: '%s'", claim),
		Conclusion:  NoSourcesConclusion,
		Category:    Classify(claim),
		Sources:     []model.SourceJudgment{},
	}
}

func (a *Aggregator) filterAndWeight(claim string, judgments []model.SourceJudgment, now time.Time) []model.WeightedJudgment {
	var kept []model.WeightedJudgment
	for _, j := range judgments {
		if !j.Relevant || !(j.Confidence > MinConfidence) {
			continue
		}
		recent := ClaimRecent(claim, j.PublishedDate, now)
		kept = append(kept, model.WeightedJudgment{
			SourceJudgment: j,
			TemporalWeight: TemporalWeight(j.PublishedDate, recent, now),
			SourceWeight:   SourceWeight(a.credibility, j.Source),
		})
	}
	return kept
}

// override returns the first kept judgment, in input order, that may decide
// the verdict on its own
func override(kept []model.WeightedJudgment) (model.WeightedJudgment, bool) {
	for _, w := range kept {
		if w.Support == model.SupportTrue && w.Confidence >= OverrideConfidence && w.Authoritative {
			return w, true
		}
	}
	return model.WeightedJudgment{}, false
}

func (a *Aggregator) weightedVerdict(kept []model.WeightedJudgment, b *model.Breakdown) (model.Verdict, float64) {
	var total, support, conf float64
	for _, w := range kept {
		weight := w.Weight()
		total += weight
		support += weight * w.Support.Score()
		conf += weight * w.Confidence
	}
	b.TotalWeight = total

	if len(kept) == 0 || total <= 0 {
		b.Signals = append(b.Signals, model.Signal{
			Type:        model.SignalWeightedScore,
			Description: "No weighted evidence; verdict is Uncertain",
			Data:        map[string]interface{}{"total_weight": total},
		})
		return model.VerdictUncertain, 0
	}

	s := support / total
	c := conf / total
	b.WeightedSupport = s
	b.WeightedConfidence = c

	var verdict model.Verdict
	var confidence float64
	switch {
	case s >= TrueThreshold:
		verdict, confidence = model.VerdictTrue, c
	case s >= PartialThreshold:
		verdict, confidence = model.VerdictPartial, c*0.8
	case s > UncertainThreshold:
		verdict, confidence = model.VerdictUncertain, c*0.5+5
	default:
		verdict, confidence = model.VerdictFalse, c*0.3
	}

	b.Signals = append(b.Signals, model.Signal{
		Type:        model.SignalWeightedScore,
		Description: fmt.Sprintf("Weighted support %.2f over %d sources", s, len(kept)),
		Data: map[string]interface{}{
			"weighted_support":    s,
			"weighted_confidence": c,
			"total_weight":        total,
			"verdict":             string(verdict),
			"confidence":          confidence,
			"formula":             "S = sum(w*score)/sum(w), C = sum(w*conf)/sum(w), w = source_weight*temporal_weight",
		},
	})
	return verdict, confidence
}

func countSupport(kept []model.WeightedJudgment, s model.Support) int {
	n := 0
	for _, w := range kept {
		if w.Support == s {
			n++
		}
	}
	return n
}

// explain renders the templated explanation. It is empty when nothing passed
// the filter so the caller substitutes the no-consensus sentence.
func explain(claim string, verdict model.Verdict, kept []model.WeightedJudgment) string {
	if len(kept) == 0 {
		return ""
	}
	t := countSupport(kept, model.SupportTrue)
	p := countSupport(kept, model.SupportPartial)
	f := countSupport(kept, model.SupportFalse)

	base := fmt.Sprintf("Regarding '%s', the verdict is '%s' based on %d relevant sources. ", claim, verdict, len(kept))
	switch verdict {
	case model.VerdictTrue:
		return base + fmt.Sprintf("%d sources strongly support it and %d provide partial support.", t, p)
	case model.VerdictPartial:
		return base + fmt.Sprintf("%d support, %d partial, and %d contradict the claim.", t, p, f)
	case model.VerdictUncertain:
		return base + fmt.Sprintf("Inconclusive evidence: %d support, %d partial, %d contradict.", t, p, f)
	}
	return base + fmt.Sprintf("%d sources contradict the claim.", f)
}

func conclude(verdict model.Verdict, confidence float64, kept []model.WeightedJudgment) string {
	switch verdict {
	case model.VerdictTrue:
		if confidence < OverrideConfidence {
			return conclusionTrue
		}
		return conclusionTrueStrong
	case model.VerdictPartial:
		return conclusionPartial
	case model.VerdictUncertain:
		if top, ok := topConfidence(kept); ok && (top.Support == model.SupportTrue || top.Support == model.SupportPartial) {
			return conclusionLeaning
		}
		return conclusionUnverified
	}
	return conclusionFalse
}

// topConfidence returns the first judgment with the highest confidence
func topConfidence(kept []model.WeightedJudgment) (model.WeightedJudgment, bool) {
	if len(kept) == 0 {
		return model.WeightedJudgment{}, false
	}
	top := kept[0]
	for _, w := range kept[1:] {
		if w.Confidence > top.Confidence {
			top = w
		}
	}
	return top, true
}
