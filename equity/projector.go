// Package equity turns outcome probabilities and a payout schedule into an
// expected value for every wager.
package equity

import (
	"github.com/domino14/banco/outcome"
)

// Project combines the enumerated probabilities and the pair probability
// with the payouts. Stakes are one unit; a tie pushes Player and Banker bets.
func Project(p outcome.Probabilities, pair float64, s Schedule, l Labels, totalCards int) CalculationResult {
	r := CalculationResult{
		Player: EVResult{
			Label:       l.Player,
			Probability: p.PlayerWin,
			Payout:      s.Player,
			EV:          p.PlayerWin*s.Player - p.BankerWin,
		},
		Banker: EVResult{
			Label:       l.Banker,
			Probability: p.BankerWin,
			Payout:      s.Banker,
			EV:          p.BankerWin*s.Banker - p.PlayerWin,
		},
		Tie:        simpleBet(l.Tie, p.Tie, s.Tie),
		PlayerPair: simpleBet(l.PlayerPair, pair, s.PlayerPair),
		BankerPair: simpleBet(l.BankerPair, pair, s.BankerPair),
		TotalCards: totalCards,
	}
	for pt := range NumPoints {
		r.TieBonuses[pt] = simpleBet(l.TiePointLabel(pt), p.TiePoints[pt], s.TieBonus[pt])
	}
	return r
}

// simpleBet is a bet that either wins payout or loses the stake.
func simpleBet(label string, prob, payout float64) EVResult {
	return EVResult{
		Label:       label,
		Probability: prob,
		Payout:      payout,
		EV:          prob*(payout+1) - 1,
	}
}

// Zero is the result for a shoe too small to deal from. Every probability and
// EV is zero; only the tie-point bets report their payouts.
func Zero(s Schedule, l Labels, totalCards int) CalculationResult {
	r := CalculationResult{
		Player:     EVResult{Label: l.Player},
		Banker:     EVResult{Label: l.Banker},
		Tie:        EVResult{Label: l.Tie},
		PlayerPair: EVResult{Label: l.PlayerPair},
		BankerPair: EVResult{Label: l.BankerPair},
		TotalCards: totalCards,
	}
	for pt := range NumPoints {
		r.TieBonuses[pt] = EVResult{Label: l.TiePointLabel(pt), Payout: s.TieBonus[pt]}
	}
	return r
}
