package calculator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/outcome"
	"github.com/domino14/banco/shoe"
	"github.com/domino14/banco/stats"
)

// ErrShoeTooSmall means a shoe cannot lose a card and still be dealt from.
var ErrShoeTooSmall = errors.New("shoe too small for removal effects")

// Effect is the change in EV of the main wagers when one card of Rank is
// taken out of the shoe.
type Effect struct {
	Rank   shoe.Rank `json:"rank"`
	Player float64   `json:"player"`
	Banker float64   `json:"banker"`
	Tie    float64   `json:"tie"`
	Pair   float64   `json:"pair"`
}

type Summary struct {
	Mean  float64 `json:"mean"`
	Stdev float64 `json:"stdev"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func summarize(st *stats.Statistic) Summary {
	return Summary{Mean: st.Mean(), Stdev: st.Stdev(), Min: st.Min(), Max: st.Max()}
}

// Effects is the result of RemovalEffects. Only ranks still present in the
// shoe get an entry.
type Effects struct {
	Base    equity.CalculationResult `json:"base"`
	Effects []Effect                 `json:"effects"`
	Player  Summary                  `json:"playerSummary"`
	Banker  Summary                  `json:"bankerSummary"`
	Tie     Summary                  `json:"tieSummary"`
	Pair    Summary                  `json:"pairSummary"`
}

// RemovalEffects computes, for each rank in the shoe, how the EVs move when
// a single card of that rank is dealt. Ranks are computed in parallel.
func (c *Calculator) RemovalEffects(ctx context.Context, s *shoe.Shoe, sched equity.Schedule) (*Effects, error) {
	if s.Total() < outcome.MinCards+1 {
		return nil, fmt.Errorf("%w: %d cards", ErrShoeTooSmall, s.Total())
	}
	start := time.Now()
	base := compute(s, sched, c.labels)

	found := make([]bool, len(shoe.Ranks))
	effects := make([]Effect, len(shoe.Ranks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.threads)
	for idx, r := range shoe.Ranks {
		if s.Count(r) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			depleted, err := s.Remove(r)
			if err != nil {
				return err
			}
			res := compute(depleted, sched, c.labels)
			effects[idx] = Effect{
				Rank:   r,
				Player: res.Player.EV - base.Player.EV,
				Banker: res.Banker.EV - base.Banker.EV,
				Tie:    res.Tie.EV - base.Tie.EV,
				Pair:   res.PlayerPair.EV - base.PlayerPair.EV,
			}
			found[idx] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Effects{
		Base: base,
		Effects: lo.Filter(effects, func(_ Effect, idx int) bool {
			return found[idx]
		}),
	}
	var player, banker, tie, pair stats.Statistic
	for _, e := range out.Effects {
		player.Push(e.Player)
		banker.Push(e.Banker)
		tie.Push(e.Tie)
		pair.Push(e.Pair)
	}
	out.Player = summarize(&player)
	out.Banker = summarize(&banker)
	out.Tie = summarize(&tie)
	out.Pair = summarize(&pair)

	log.Debug().Int("ranks", len(out.Effects)).Dur("elapsed", time.Since(start)).
		Msg("removal-effects")
	return out, nil
}

// ToDisplayText shows each effect in hundredths of a percent of EV.
func (e *Effects) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Removal effects (x 10^-4), %d cards remaining\n", e.Base.TotalCards)
	fmt.Fprintf(&sb, "%-5s %9s %9s %9s %9s\n", "Rank", "Player", "Banker", "Tie", "Pair")
	for _, eff := range e.Effects {
		fmt.Fprintf(&sb, "%-5s %+9.3f %+9.3f %+9.3f %+9.3f\n", eff.Rank.String(),
			eff.Player*1e4, eff.Banker*1e4, eff.Tie*1e4, eff.Pair*1e4)
	}
	fmt.Fprintf(&sb, "%-5s %9.3f %9.3f %9.3f %9.3f\n", "sd",
		e.Player.Stdev*1e4, e.Banker.Stdev*1e4, e.Tie.Stdev*1e4, e.Pair.Stdev*1e4)
	return sb.String()
}
