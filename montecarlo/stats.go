// Package montecarlo implements the simulator: a fixed-size worker pool
// that plays out each candidate move many times against a randomized
// opponent rack, collecting incremental win-percentage, equity, leftover,
// and bingo-rate statistics per play (spec §4.F, §5).
package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stat is a Welford-style incremental mean/variance accumulator, safe to
// push from a single goroutine at a time but readable concurrently once
// pushing has stopped for the read (ported from stats.c's push/mean/
// variance; weight generalizes cardinality to a weighted push, unused here
// but kept since the original always threads a weight through).
type Stat struct {
	cardinality uint64
	weight      float64
	mean        float64
	m2          float64
}

// Push folds value into the running mean and variance with the given
// weight (1 for an ordinary unweighted sample).
func (s *Stat) Push(value, weight float64) {
	s.cardinality++
	s.weight += weight
	delta := value - s.mean
	s.mean += (weight / s.weight) * delta
	s.m2 += weight * delta * (value - s.mean)
}

// Cardinality returns the number of samples pushed.
func (s *Stat) Cardinality() uint64 { return s.cardinality }

// Mean returns the running mean.
func (s *Stat) Mean() float64 { return s.mean }

// Variance returns the population variance (the full probability space is
// observed incrementally, not sampled, so no Bessel correction is applied).
func (s *Stat) Variance() float64 {
	if s.weight <= 1 {
		return 0
	}
	return s.m2 / s.weight
}

// Stdev returns the population standard deviation.
func (s *Stat) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns z times the standard error of the mean
// (stdev/sqrt(weight)), the half-width of a z-confidence interval around
// Mean(). z comes from zValueFor(confidence) for the stopping rule, or any
// caller-chosen value for reporting.
func (s *Stat) StandardError(z float64) float64 {
	if s.weight <= 1 {
		return 0
	}
	return z * s.Stdev() / math.Sqrt(s.weight)
}

// zValueFor converts a two-sided confidence level (e.g. 0.95) to its normal
// z critical value. The original hardcodes a STATS_Z99-style constant per
// confidence tier; that table isn't present in the retrieved source, so the
// values are derived here from the standard normal quantile function
// instead of copied from an unseen literal.
func zValueFor(confidence float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.Quantile(1 - (1-confidence)/2)
}
