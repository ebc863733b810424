package equity

import (
	"fmt"
	"strings"
)

// Labels are the display names of the wagers. TiePoint is a format string
// taking the point.
type Labels struct {
	Player     string
	Banker     string
	Tie        string
	PlayerPair string
	BankerPair string
	TiePoint   string
}

var EnglishLabels = Labels{
	Player:     "Player",
	Banker:     "Banker",
	Tie:        "Tie",
	PlayerPair: "Player Pair",
	BankerPair: "Banker Pair",
	TiePoint:   "Tie on %d",
}

var ChineseLabels = Labels{
	Player:     "閒",
	Banker:     "莊",
	Tie:        "和",
	PlayerPair: "閒對",
	BankerPair: "莊對",
	TiePoint:   "%d點和",
}

// LabelsFor returns the label set for a language code, "en" or "zh".
func LabelsFor(lang string) (Labels, error) {
	switch strings.ToLower(lang) {
	case "", "en", "english":
		return EnglishLabels, nil
	case "zh", "chinese":
		return ChineseLabels, nil
	}
	return EnglishLabels, fmt.Errorf("no labels for language %q", lang)
}

func (l Labels) TiePointLabel(pt int) string {
	return fmt.Sprintf(l.TiePoint, pt)
}
