package equity

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/width"
)

// EVResult is one wager's probability of winning, its payout and its
// expected value per unit staked. A positive EV favours the bettor.
type EVResult struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Payout      float64 `json:"payout"`
	EV          float64 `json:"ev"`
}

// CalculationResult holds every wager for one shoe and schedule.
type CalculationResult struct {
	Player     EVResult            `json:"player"`
	Banker     EVResult            `json:"banker"`
	Tie        EVResult            `json:"tie"`
	PlayerPair EVResult            `json:"playerPair"`
	BankerPair EVResult            `json:"bankerPair"`
	TieBonuses [NumPoints]EVResult `json:"tieBonuses"`
	TotalCards int                 `json:"totalCards"`
}

// Wagers lists every wager in display order: the five main bets followed by
// the tie points 0 through 9.
func (r *CalculationResult) Wagers() []EVResult {
	w := []EVResult{r.Player, r.Banker, r.Tie, r.PlayerPair, r.BankerPair}
	return append(w, r.TieBonuses[:]...)
}

// Advantageous returns the wagers with a positive expectation.
func (r *CalculationResult) Advantageous() []EVResult {
	return lo.Filter(r.Wagers(), func(w EVResult, _ int) bool {
		return w.EV > 0
	})
}

// displayWidth counts terminal columns; CJK labels take two per rune.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func padRight(s string, n int) string {
	return s + strings.Repeat(" ", max(n-displayWidth(s), 0))
}

func (r *CalculationResult) ToDisplayText() string {
	wagers := r.Wagers()
	labelWidth := lo.Max(lo.Map(wagers, func(w EVResult, _ int) int {
		return displayWidth(w.Label)
	}))
	labelWidth = max(labelWidth, displayWidth("Wager"))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cards remaining: %d\n", r.TotalCards)
	fmt.Fprintf(&sb, "%s  %9s  %8s  %9s\n", padRight("Wager", labelWidth), "Prob", "Payout", "EV")
	for idx, w := range wagers {
		if idx == 5 {
			sb.WriteString("\n")
		}
		mark := ""
		if w.EV > 0 {
			mark = "  <=="
		}
		fmt.Fprintf(&sb, "%s  %8.4f%%  %8.2f  %+8.4f%%%s\n",
			padRight(w.Label, labelWidth), w.Probability*100, w.Payout, w.EV*100, mark)
	}
	return sb.String()
}
