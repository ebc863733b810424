package shoe

import (
	"fmt"
	"strings"
)

// RankFromString parses a single rank label. Accepts A, 1-10, T, J, Q, K in
// any case.
func RankFromString(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "1":
		return Ace, nil
	case "2":
		return 2, nil
	case "3":
		return 3, nil
	case "4":
		return 4, nil
	case "5":
		return 5, nil
	case "6":
		return 6, nil
	case "7":
		return 7, nil
	case "8":
		return 8, nil
	case "9":
		return 9, nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRank, s)
}

// ParseCards turns a card string into ranks. Tokens may be separated by
// whitespace or commas ("A K 10 5") or run together ("AK5T"). Within a run,
// "10" is read as a ten.
func ParseCards(s string) ([]Rank, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	ranks := []Rank{}
	for _, f := range fields {
		if r, err := RankFromString(f); err == nil {
			ranks = append(ranks, r)
			continue
		}
		runes := []rune(f)
		for i := 0; i < len(runes); i++ {
			tok := string(runes[i])
			if runes[i] == '1' && i+1 < len(runes) && runes[i+1] == '0' {
				tok = "10"
				i++
			}
			r, err := RankFromString(tok)
			if err != nil {
				return nil, err
			}
			ranks = append(ranks, r)
		}
	}
	return ranks, nil
}
