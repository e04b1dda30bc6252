package matching

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Engine is the scoring facade: reweight -> concurrent criteria -> combine ->
// insights, with result caching in front. It holds no per-call state beyond
// the cache and the in-flight table; a Score call is a stateless pipeline.
type Engine struct {
	evaluators []Evaluator
	base       WeightTable
	cache      ResultCache
	logger     *zap.Logger

	mu       sync.Mutex
	inflight map[string]*inflightCall

	now func() time.Time
}

type inflightCall struct {
	done   chan struct{}
	result MatchResult
	err    error
}

// Config assembles an Engine. Zero values select defaults: base reference
// weights, an in-process LRU cache, no distance provider (geometric fallback
// only), and a nop logger.
type Config struct {
	Weights         WeightTable
	Cache           ResultCache
	CacheTTL        time.Duration
	CacheMaxEntries int
	Distance        DistanceProvider
	DistanceTimeout time.Duration
	Logger          *zap.Logger
}

// NewEngine validates configuration once, up front: a bad weight table or a
// motivation table referencing an unknown criterion fails here, never during
// a call.
func NewEngine(cfg Config) (*Engine, error) {
	weights := cfg.Weights
	if weights == nil {
		weights = BaseWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := validateMotivationTable(weights); err != nil {
		return nil, err
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	evaluators := []Evaluator{
		semanticEvaluator{},
		newLocationEvaluator(cfg.Distance, cfg.DistanceTimeout),
		compensationEvaluator{},
		motivationEvaluator{},
		companySizeEvaluator{},
		workEnvironmentEvaluator{},
		industryEvaluator{},
		availabilityEvaluator{},
		contractTypeEvaluator{},
		listenReasonsEvaluator{},
		processPositionEvaluator{},
	}

	return &Engine{
		evaluators: evaluators,
		base:       weights.Clone(),
		cache:      cache,
		logger:     logger,
		inflight:   make(map[string]*inflightCall),
		now:        time.Now,
	}, nil
}

// BaseWeights exposes a copy of the engine's configured weight table.
func (e *Engine) BaseWeights() WeightTable {
	return e.base.Clone()
}

// Score computes the match between one candidate and one opportunity.
// Concurrent calls for the same derived key coalesce onto a single
// computation; different keys never block each other. Cancelled calls leave
// the cache untouched.
func (e *Engine) Score(ctx context.Context, cand Candidate, opp Opportunity, org *Organization, opts Options) (MatchResult, error) {
	if len(e.evaluators) == 0 {
		return MatchResult{}, ErrNoEvaluators
	}

	dynamic := opts.dynamicWeightingEnabled()
	key := CacheKey(cand.ID.String(), opp.ID.String(), cand.Motivations, dynamic)

	if !opts.ForceRefresh {
		if cached, ok := e.cache.Get(ctx, key); ok {
			cached.Performance.CacheUsed = true
			cached.Performance.CalculationTimeMs = 0
			return cached, nil
		}
	}

	for {
		e.mu.Lock()
		if call, ok := e.inflight[key]; ok && !opts.ForceRefresh {
			e.mu.Unlock()
			select {
			case <-call.done:
				if call.err == nil {
					res := call.result
					res.Performance.CacheUsed = true
					return res, nil
				}
				// The leading call failed; retry from the top.
			case <-ctx.Done():
				return MatchResult{}, ctx.Err()
			}
			continue
		}

		call := &inflightCall{done: make(chan struct{})}
		e.inflight[key] = call
		e.mu.Unlock()

		result, err := e.compute(ctx, cand, opp, org, dynamic)

		call.result = result
		call.err = err
		close(call.done)

		e.mu.Lock()
		delete(e.inflight, key)
		e.mu.Unlock()

		if err != nil {
			return MatchResult{}, err
		}

		// Cache whole results only, and only when the call ran to
		// completion.
		e.cache.Set(ctx, key, result)
		return result, nil
	}
}

// Invalidate drops the cached result for one scoring pair.
func (e *Engine) Invalidate(ctx context.Context, cand Candidate, opp Opportunity, opts Options) {
	key := CacheKey(cand.ID.String(), opp.ID.String(), cand.Motivations, opts.dynamicWeightingEnabled())
	e.cache.Invalidate(ctx, key)
}

func (e *Engine) compute(ctx context.Context, cand Candidate, opp Opportunity, org *Organization, dynamic bool) (MatchResult, error) {
	start := e.now()

	in := Input{
		Candidate:    cand,
		Opportunity:  opp,
		Organization: org,
		Now:          start,
	}

	weights := e.base
	reweight := ReweightResult{Weights: e.base, Adjustments: []WeightAdjustment{}}
	if dynamic {
		reweight = AdjustWeights(e.base, cand.Motivations)
		weights = reweight.Weights
	}

	results := e.runCriteria(ctx, in)
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}

	finalScore, breakdown, used := combine(results, weights)

	out := MatchResult{
		CandidateID:   cand.ID,
		OpportunityID: opp.ID,
		FinalScore:    finalScore,
		Percentage:    int(finalScore*100 + 0.5),
		QualityLevel:  qualityLevel(finalScore),
		Mode:          ModeNormal,
		Breakdown:     breakdown,
		DynamicWeighting: DynamicWeighting{
			Applied:          reweight.Adjusted,
			Adjustments:      reweight.Adjustments,
			WeightComparison: weightComparison(e.base, weights, reweight.Adjusted),
		},
		Performance: Performance{
			CalculationTimeMs: float64(e.now().Sub(start).Microseconds()) / 1000.0,
			CriteriaUsed:      used,
		},
	}

	if used == 0 {
		// Every criterion failed, fallbacks included. Surface a
		// renderable degraded result instead of an error.
		out.QualityLevel = ModeError
		out.Mode = ModeError
		out.Insights = Insights{
			Strengths:       []Insight{},
			Improvements:    []Insight{},
			Recommendations: []string{"Scoring failed for every criterion: verify both records and retry."},
		}
		e.logger.Error("aggregation produced no usable criterion",
			zap.String("candidate_id", cand.ID.String()),
			zap.String("opportunity_id", opp.ID.String()),
		)
		return out, nil
	}

	out.Insights = buildInsights(finalScore, breakdown)
	return out, nil
}

func weightComparison(base, effective WeightTable, adjusted bool) map[Criterion]WeightDelta {
	if !adjusted {
		return nil
	}
	out := make(map[Criterion]WeightDelta, len(base))
	for _, c := range Criteria() {
		out[c] = WeightDelta{Base: base[c], Effective: effective[c]}
	}
	return out
}
