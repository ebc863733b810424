// Package outcome computes exact Baccarat outcome probabilities for a given
// shoe composition by enumerating every ordered deal of up to six cards.
package outcome

import (
	"github.com/domino14/banco/shoe"
)

// MinCards is the fewest cards that guarantee a coup can be dealt to the end.
const MinCards = 6

// Probabilities are the aggregate outcome probabilities of one coup.
type Probabilities struct {
	PlayerWin float64
	BankerWin float64
	Tie       float64
	// TiePoints[i] is the probability of a tie on i points. They sum to Tie.
	TiePoints [shoe.NumValues]float64
	// Natural is the probability that the coup ends on a natural 8 or 9,
	// whoever wins it.
	Natural float64
}

// enumerator holds the scratch histogram and the accumulators for one call.
// It must not be shared.
type enumerator struct {
	counts shoe.Histogram
	total  int
	acc    Probabilities
}

// Enumerate walks every deal sequence for the cards in h, where total is the
// number of cards in the shoe. With fewer than MinCards cards every
// probability is zero.
func Enumerate(h shoe.Histogram, total int) Probabilities {
	if total < MinCards {
		return Probabilities{}
	}
	// h is an array, so counts is a private copy.
	e := &enumerator{counts: h, total: total}
	e.deal()
	return e.acc
}

// draw is the probability that the next card has value v after drawn cards
// have left the shoe. An empty bucket is zero and never divides.
func (e *enumerator) draw(v, drawn int) float64 {
	if e.counts[v] <= 0 {
		return 0
	}
	return float64(e.counts[v]) / float64(e.total-drawn)
}

// deal enumerates the first four cards in dealing order: player, banker,
// player, banker. Every decrement is restored before the loop moves on.
func (e *enumerator) deal() {
	for p1 := range shoe.NumValues {
		prob1 := e.draw(p1, 0)
		if prob1 == 0 {
			continue
		}
		e.counts[p1]--

		for b1 := range shoe.NumValues {
			prob2 := prob1 * e.draw(b1, 1)
			if prob2 == 0 {
				continue
			}
			e.counts[b1]--

			for p2 := range shoe.NumValues {
				prob3 := prob2 * e.draw(p2, 2)
				if prob3 == 0 {
					continue
				}
				e.counts[p2]--

				for b2 := range shoe.NumValues {
					prob4 := prob3 * e.draw(b2, 3)
					if prob4 == 0 {
						continue
					}
					e.counts[b2]--
					e.thirdCards((p1+p2)%10, (b1+b2)%10, prob4)
					e.counts[b2]++
				}
				e.counts[p2]++
			}
			e.counts[b1]++
		}
		e.counts[p1]++
	}
}

// thirdCards applies the drawing rules to two-card totals p and b, reached
// with probability prob after four cards were dealt.
func (e *enumerator) thirdCards(p, b int, prob float64) {
	switch {
	case IsNatural(p, b):
		e.acc.Natural += prob
		e.tally(p, b, prob)

	case PlayerDraws(p):
		for p3 := range shoe.NumValues {
			prob5 := prob * e.draw(p3, 4)
			if prob5 == 0 {
				continue
			}
			e.counts[p3]--
			pFinal := (p + p3) % 10
			if BankerDraws(b, p3) {
				e.bankerThird(pFinal, b, prob5, 5)
			} else {
				e.tally(pFinal, b, prob5)
			}
			e.counts[p3]++
		}

	case BankerDrawsOnStand(b):
		e.bankerThird(p, b, prob, 4)

	default:
		// Both stand on 6 or 7.
		e.tally(p, b, prob)
	}
}

// bankerThird enumerates the banker's third card. It is the last card of the
// coup, so nothing needs to be decremented.
func (e *enumerator) bankerThird(p, b int, prob float64, drawn int) {
	for b3 := range shoe.NumValues {
		prob6 := prob * e.draw(b3, drawn)
		if prob6 == 0 {
			continue
		}
		e.tally(p, (b+b3)%10, prob6)
	}
}

func (e *enumerator) tally(p, b int, prob float64) {
	switch {
	case p > b:
		e.acc.PlayerWin += prob
	case b > p:
		e.acc.BankerWin += prob
	default:
		e.acc.Tie += prob
		e.acc.TiePoints[p] += prob
	}
}
