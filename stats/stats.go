package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// Epsilon is the tolerance for probability bookkeeping. The enumeration
	// sums around a million terms, which stays well inside it.
	Epsilon = 1e-9
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Sum adds up the given values.
func Sum(vals ...float64) float64 {
	return floats.Sum(vals)
}

// Statistic keeps a running mean and variance over pushed values.
type Statistic struct {
	n   int
	min float64
	max float64

	// Welford's algorithm
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	if s.n == 1 {
		s.mean = val
		s.m2 = 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.mean
	}
	return 0.0
}

// Variance is the sample variance.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Min() float64 { return s.min }
func (s *Statistic) Max() float64 { return s.max }

func (s *Statistic) Count() int {
	return s.n
}
