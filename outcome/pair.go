package outcome

import (
	"github.com/domino14/banco/shoe"
)

// PairProbability is the probability that the first two cards drawn from s
// share a rank. Pairs are by rank, so a ten and a king do not pair even
// though both count zero.
//
// The same figure serves as the Player Pair and the Banker Pair estimate.
// It is not the positional probability of either hand's two cards.
func PairProbability(s *shoe.Shoe) float64 {
	total := s.Total()
	if total < 2 {
		return 0
	}
	prob := 0.0
	for _, r := range shoe.Ranks {
		c := s.Count(r)
		if c < 2 {
			continue
		}
		prob += (float64(c) / float64(total)) * (float64(c-1) / float64(total-1))
	}
	return prob
}
