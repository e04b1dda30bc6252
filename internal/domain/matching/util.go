package matching

import (
	"math"
	"strings"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), "_")
	return s
}

var titleStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {},
	"de": {}, "du": {}, "la": {}, "le": {}, "et": {},
	"h/f": {}, "f/h": {}, "m/f": {}, "(h/f)": {}, "(f/h)": {},
}

func tokenize(s string) []string {
	s = strings.ToLower(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', ';', '-', '_', '(', ')', '[', ']', '|':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, stop := titleStopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// tokenOverlap is the share of a's tokens also present in b.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	hits := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(a))
}

func containsFold(list []string, v string) bool {
	v = normalizeKey(v)
	for _, it := range list {
		if normalizeKey(it) == v {
			return true
		}
	}
	return false
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance used by the geometric fallback.
func haversineKm(a, b Geo) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
