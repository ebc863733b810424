// Package shoe models the cards remaining in a Baccarat shoe.
package shoe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// NumRanks is the number of card ranks, Ace through King.
	NumRanks = 13
	// NumValues is the number of distinct Baccarat card values (0-9).
	NumValues = 10
	// CardsPerDeckPerRank is one of each suit.
	CardsPerDeckPerRank = 4
	// DefaultDecks is the usual number of decks in a Baccarat shoe.
	DefaultDecks = 8
	// MaxCount caps the cards of any one rank so totals cannot overflow.
	MaxCount = 1 << 20
)

var (
	ErrUnknownRank = errors.New("unknown rank")
	ErrNotInShoe   = errors.New("no cards of that rank left in the shoe")
	ErrTooMany     = errors.New("too many cards of one rank")
)

// Rank is a card rank from Ace (1) to King (13).
type Rank int

const (
	Ace   Rank = 1
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

var rankLabels = [NumRanks + 1]string{
	"?", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K",
}

// Ranks lists every rank in order.
var Ranks = lo.Map(lo.Range(NumRanks), func(i int, _ int) Rank { return Rank(i + 1) })

func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// Value is the Baccarat point value of the rank. Tens and face cards are
// worth zero.
func (r Rank) Value() int {
	if r >= Ten {
		return 0
	}
	return int(r)
}

func (r Rank) String() string {
	if !r.Valid() {
		return rankLabels[0]
	}
	return rankLabels[r]
}

// Histogram is a count of cards per Baccarat value, indexed 0 to 9.
type Histogram [NumValues]int

// Total returns the number of cards in the histogram.
func (h Histogram) Total() int {
	return lo.Sum(h[:])
}

// Shoe is an immutable snapshot of the remaining card counts by rank.
// Methods that change the composition return a new Shoe.
type Shoe struct {
	counts [NumRanks + 1]int
	total  int
}

// New creates a shoe from counts keyed by rank. Ranks outside 1-13 are
// ignored and counts are clamped to [0, MaxCount].
func New(counts map[Rank]int) *Shoe {
	s := &Shoe{}
	for r, c := range counts {
		if !r.Valid() {
			continue
		}
		s.counts[r] = min(max(c, 0), MaxCount)
	}
	s.recount()
	return s
}

// Full returns an undealt shoe of the given number of decks.
func Full(decks int) *Shoe {
	s := &Shoe{}
	for _, r := range Ranks {
		s.counts[r] = min(max(decks, 0), MaxCount/CardsPerDeckPerRank) * CardsPerDeckPerRank
	}
	s.recount()
	return s
}

func (s *Shoe) recount() {
	s.total = lo.Sum(s.counts[1:])
}

func (s *Shoe) copy() *Shoe {
	n := &Shoe{counts: s.counts, total: s.total}
	return n
}

// Count returns the number of cards of rank r left.
func (s *Shoe) Count(r Rank) int {
	if !r.Valid() {
		return 0
	}
	return s.counts[r]
}

// Total returns the number of cards left in the shoe.
func (s *Shoe) Total() int {
	return s.total
}

// Counts returns a copy of the counts keyed by rank.
func (s *Shoe) Counts() map[Rank]int {
	m := make(map[Rank]int, NumRanks)
	for _, r := range Ranks {
		m[r] = s.counts[r]
	}
	return m
}

// Histogram collapses the rank counts into Baccarat values.
func (s *Shoe) Histogram() Histogram {
	var h Histogram
	for _, r := range Ranks {
		h[r.Value()] += s.counts[r]
	}
	return h
}

// Remove returns a new shoe with one card of each given rank taken out.
// The receiver is left untouched, even on error.
func (s *Shoe) Remove(ranks ...Rank) (*Shoe, error) {
	n := s.copy()
	for _, r := range ranks {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownRank, r)
		}
		if n.counts[r] <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotInShoe, r)
		}
		n.counts[r]--
	}
	n.recount()
	return n, nil
}

// Add returns a new shoe with one card of each given rank put back.
func (s *Shoe) Add(ranks ...Rank) (*Shoe, error) {
	n := s.copy()
	for _, r := range ranks {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownRank, r)
		}
		if n.counts[r] >= MaxCount {
			return nil, fmt.Errorf("%w: %s", ErrTooMany, r)
		}
		n.counts[r]++
	}
	n.recount()
	return n, nil
}

// WithCount returns a new shoe where rank r has exactly c cards, clamped to
// [0, MaxCount].
func (s *Shoe) WithCount(r Rank, c int) (*Shoe, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRank, r)
	}
	n := s.copy()
	n.counts[r] = min(max(c, 0), MaxCount)
	n.recount()
	return n, nil
}

// Equal reports whether both shoes hold the same composition.
func (s *Shoe) Equal(o *Shoe) bool {
	return s.counts == o.counts
}

func (s *Shoe) String() string {
	var sb strings.Builder
	for _, r := range Ranks {
		fmt.Fprintf(&sb, "%s:%d ", r, s.counts[r])
	}
	fmt.Fprintf(&sb, "(%d cards)", s.total)
	return sb.String()
}
