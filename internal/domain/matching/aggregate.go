package matching

import (
	"context"

	"go.uber.org/zap"
)

// runCriteria fans the eleven evaluators out concurrently. Each goroutine
// writes only its own slot, so no locking is needed. A primary failure or
// panic dispatches the criterion fallback; the aggregate never fails because
// one dimension did.
func (e *Engine) runCriteria(ctx context.Context, in Input) []Result {
	results := make([]Result, len(e.evaluators))
	done := make(chan int, len(e.evaluators))

	for i, ev := range e.evaluators {
		go func(i int, ev Evaluator) {
			defer func() { done <- i }()
			results[i] = e.evaluateOne(ctx, ev, in)
		}(i, ev)
	}

	for range e.evaluators {
		<-done
	}
	return results
}

func (e *Engine) evaluateOne(ctx context.Context, ev Evaluator, in Input) (out Result) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Warn("criterion panicked, using fallback",
					zap.String("criterion", string(ev.Criterion())),
					zap.Any("panic", r),
				)
			}
			out = resolveFallback(ev.Criterion(), in)
		}
	}()

	res, err := ev.Evaluate(ctx, in)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("criterion fell back",
				zap.String("criterion", string(ev.Criterion())),
				zap.Error(err),
			)
		}
		return resolveFallback(ev.Criterion(), in)
	}

	res.Criterion = ev.Criterion()
	res.Score = clamp01(res.Score)
	res.Confidence = clamp01(res.Confidence)
	return res
}

// combine folds per-criterion results into the weighted final score. The
// denominator only counts weights of criteria that produced a usable result,
// so a missing dimension degrades the score instead of zeroing it.
func combine(results []Result, weights WeightTable) (float64, map[Criterion]CriterionBreakdown, int) {
	breakdown := make(map[Criterion]CriterionBreakdown, len(results))

	weightedSum := 0.0
	usedWeight := 0.0
	used := 0

	for _, r := range results {
		w := weights[r.Criterion]
		contribution := r.Score * w

		breakdown[r.Criterion] = CriterionBreakdown{
			Score:          r.Score,
			Weight:         w,
			Contribution:   contribution,
			Confidence:     r.Confidence,
			Fallback:       r.Fallback,
			Detail:         r.Detail,
			PenaltyReasons: r.PenaltyReasons,
		}

		if r.Confidence <= 0 {
			continue
		}
		weightedSum += contribution
		usedWeight += w
		used++
	}

	if usedWeight <= 0 {
		return 0, breakdown, 0
	}
	return clamp01(weightedSum / usedWeight), breakdown, used
}
