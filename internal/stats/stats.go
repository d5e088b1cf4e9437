// Package stats computes summary statistics over materialized numeric
// dataset values. The input is whatever subset the sampler chose; the
// renderer is responsible for disclosing sampled-vs-full provenance.
package stats

import (
	"math"
	"sort"
)

// Summary holds the numeric statistics for one dataset.
//
// StdDev is the population standard deviation (divide by N, not N-1);
// the rendered output states this convention. UniqueCount counts
// distinct finite values. NonFinite counts NaN and infinite inputs,
// which are excluded from everything else.
type Summary struct {
	Min       float64
	Max       float64
	Mean      float64
	Median    float64
	StdDev    float64
	Unique    int
	NonFinite int
}

// Compute summarizes the given values. ok is false when there is
// nothing to summarize: an empty input, or one whose values are all
// non-finite. In the latter case the returned Summary still carries
// the NonFinite count so callers can report what was excluded.
func Compute(values []float64) (Summary, bool) {
	var s Summary
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.NonFinite++
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return s, false
	}

	sort.Float64s(finite)
	s.Min = finite[0]
	s.Max = finite[len(finite)-1]
	s.Median = median(finite)

	var sum float64
	for _, v := range finite {
		sum += v
	}
	s.Mean = sum / float64(len(finite))

	var sq float64
	for _, v := range finite {
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(finite)))

	seen := make(map[float64]struct{}, len(finite))
	for _, v := range finite {
		seen[v] = struct{}{}
	}
	s.Unique = len(seen)

	return s, true
}

// median expects sorted input. Even-length inputs average the two
// middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
