// Package calculator is the entry point for computing every wager's odds and
// expected value from a shoe and a payout schedule.
package calculator

import (
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/cache"
	"github.com/domino14/banco/config"
	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/outcome"
	"github.com/domino14/banco/shoe"
	"github.com/domino14/banco/stats"
)

// Compute returns the probabilities and expected values of every wager for
// the cards in s, with English labels. It is a pure function: identical
// inputs give bit-identical results.
func Compute(s *shoe.Shoe, sched equity.Schedule) equity.CalculationResult {
	return compute(s, sched, equity.EnglishLabels)
}

func compute(s *shoe.Shoe, sched equity.Schedule, labels equity.Labels) equity.CalculationResult {
	total := s.Total()
	if total < outcome.MinCards {
		return equity.Zero(sched, labels, total)
	}
	probs := outcome.Enumerate(s.Histogram(), total)
	pair := outcome.PairProbability(s)
	return equity.Project(probs, pair, sched, labels, total)
}

// Calculator wraps Compute with labels, logging and an optional result
// cache. It is safe for concurrent use.
type Calculator struct {
	labels  equity.Labels
	cache   *cache.Cache
	threads int
}

type Option func(*Calculator)

func WithLabels(l equity.Labels) Option {
	return func(c *Calculator) { c.labels = l }
}

// WithCache keeps up to size results. A size of 0 disables caching.
func WithCache(size int) Option {
	return func(c *Calculator) {
		if size > 0 {
			c.cache = cache.New(size)
		} else {
			c.cache = nil
		}
	}
}

// WithThreads sets how many computations RemovalEffects runs at once.
func WithThreads(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.threads = n
		}
	}
}

func New(opts ...Option) *Calculator {
	c := &Calculator{
		labels:  equity.EnglishLabels,
		threads: max(1, runtime.NumCPU()-1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FromConfig builds a calculator from the labels, cache-size and threads
// settings.
func FromConfig(cfg *config.Config) (*Calculator, error) {
	labels, err := equity.LabelsFor(cfg.GetString(config.ConfigLabels))
	if err != nil {
		return nil, err
	}
	return New(
		WithLabels(labels),
		WithCache(cfg.GetInt(config.ConfigCacheSize)),
		WithThreads(cfg.GetInt(config.ConfigThreads)),
	), nil
}

func (c *Calculator) Labels() equity.Labels {
	return c.labels
}

// Compute is the package-level Compute with this calculator's labels and
// cache.
func (c *Calculator) Compute(s *shoe.Shoe, sched equity.Schedule) equity.CalculationResult {
	start := time.Now()
	var r equity.CalculationResult
	if c.cache == nil {
		r = compute(s, sched, c.labels)
	} else {
		key := cache.Key(s, sched, c.labels)
		// compute cannot fail, so neither can the load.
		r, _ = c.cache.Load(key, func() (equity.CalculationResult, error) {
			return compute(s, sched, c.labels), nil
		})
	}
	log.Debug().
		Int("total-cards", r.TotalCards).
		Float64("player-ev", r.Player.EV).
		Float64("banker-ev", r.Banker.EV).
		Float64("tie-ev", r.Tie.EV).
		Dur("elapsed", time.Since(start)).
		Msg("computed")

	if r.TotalCards >= outcome.MinCards {
		sum := stats.Sum(r.Player.Probability, r.Banker.Probability, r.Tie.Probability)
		if !stats.FuzzyEqual(sum, 1.0) {
			log.Warn().Float64("sum", sum).Str("shoe", s.String()).Msg("probabilities-not-conserved")
		}
	}
	return r
}
