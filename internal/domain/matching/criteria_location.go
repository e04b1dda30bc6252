package matching

import (
	"context"
	"fmt"
	"time"
)

// locationEvaluator is the only criterion allowed to touch I/O: it asks the
// injected DistanceProvider for travel time and decays the score past two
// thresholds. Remote opportunities short-circuit without any dependency call.
// When the provider is absent, errors out, or exceeds its budget, the
// geometric haversine estimate takes over and the result is flagged fallback.
type locationEvaluator struct {
	provider DistanceProvider
	timeout  time.Duration
}

const defaultDistanceTimeout = 150 * time.Millisecond

func newLocationEvaluator(provider DistanceProvider, timeout time.Duration) locationEvaluator {
	if timeout <= 0 {
		timeout = defaultDistanceTimeout
	}
	return locationEvaluator{provider: provider, timeout: timeout}
}

func (locationEvaluator) Criterion() Criterion { return CriterionLocation }

// Travel-time decay thresholds (minutes): mild penalty past the first,
// steep past the second.
const (
	commuteMildMin  = 30.0
	commuteSteepMin = 60.0
	commuteMaxMin   = 120.0
)

func (e locationEvaluator) Evaluate(ctx context.Context, in Input) (Result, error) {
	opp := in.Opportunity
	cand := in.Candidate

	if opp.WorkMode == WorkModeRemoteFull {
		return Result{
			Criterion:  CriterionLocation,
			Score:      1.0,
			Confidence: 1.0,
			Detail:     "fully remote, location irrelevant",
		}, nil
	}

	if cand.Location == nil || opp.Location == nil {
		if cand.City != "" && opp.City != "" {
			if normalizeKey(cand.City) == normalizeKey(opp.City) {
				score := 0.9
				if opp.WorkMode == WorkModeHybrid {
					score = 0.95
				}
				return Result{
					Criterion:  CriterionLocation,
					Score:      score,
					Confidence: 0.6,
					Detail:     "same city, no coordinates",
				}, nil
			}
			return Result{}, fmt.Errorf("%w: coordinates for cross-city commute", ErrMissingField)
		}
		return Result{}, fmt.Errorf("%w: candidate or opportunity location", ErrMissingField)
	}

	minutes, detail, usedFallback := e.travelMinutes(ctx, *cand.Location, *opp.Location)

	limit := commuteMaxMin
	if cand.MaxCommuteMinutes != nil && *cand.MaxCommuteMinutes > 0 {
		limit = float64(*cand.MaxCommuteMinutes)
	}

	score := commuteScore(minutes, limit)
	if opp.WorkMode == WorkModeHybrid {
		// Part-time presence softens a long commute.
		score = clamp01(score + (1-score)*0.3)
	}

	confidence := 0.9
	if usedFallback {
		confidence = 0.6
	}

	return Result{
		Criterion:  CriterionLocation,
		Score:      score,
		Confidence: confidence,
		Fallback:   usedFallback,
		Detail:     detail,
	}, nil
}

// travelMinutes resolves the commute estimate, falling back to geometry when
// the provider is unavailable or slow.
func (e locationEvaluator) travelMinutes(ctx context.Context, origin, dest Geo) (float64, string, bool) {
	if e.provider != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		res, err := e.provider.Distance(callCtx, origin, dest, "driving")
		if err == nil && res.TravelTimeMin > 0 {
			return res.TravelTimeMin, fmt.Sprintf("provider travel_time=%.0fmin distance=%.1fkm", res.TravelTimeMin, res.DistanceKm), false
		}
	}

	km := haversineKm(origin, dest)
	minutes := km * 1.4 // road factor over great-circle distance
	return minutes, fmt.Sprintf("geometric estimate distance=%.1fkm", km), true
}

func commuteScore(minutes, limit float64) float64 {
	if minutes <= commuteMildMin {
		return 1.0
	}
	if minutes <= commuteSteepMin {
		// Mild decay: 1.0 -> 0.7 between the thresholds.
		return 1.0 - 0.3*(minutes-commuteMildMin)/(commuteSteepMin-commuteMildMin)
	}
	if minutes >= limit {
		return 0.0
	}
	// Steep decay: 0.7 -> 0 between the second threshold and the limit.
	span := limit - commuteSteepMin
	if span <= 0 {
		return 0.0
	}
	return clamp01(0.7 * (1.0 - (minutes-commuteSteepMin)/span))
}
