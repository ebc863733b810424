package equity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// NumPoints is the number of tie points, 0 through 9.
const NumPoints = 10

var ErrBadTiePoint = errors.New("tie point must be between 0 and 9")

// TieBonus holds the payout for a tie on each point, indexed by point. It
// decodes from either a list of ten payouts or a map keyed by point; a map
// only overrides the points it names.
type TieBonus [NumPoints]float64

// Schedule is a payout schedule. Payouts are per unit staked, so a banker
// payout of 0.95 encodes a 5% commission.
type Schedule struct {
	Banker     float64  `json:"banker" yaml:"banker"`
	Player     float64  `json:"player" yaml:"player"`
	Tie        float64  `json:"tie" yaml:"tie"`
	PlayerPair float64  `json:"playerPair" yaml:"playerPair"`
	BankerPair float64  `json:"bankerPair" yaml:"bankerPair"`
	TieBonus   TieBonus `json:"tieBonus" yaml:"tieBonus"`
}

// DefaultSchedule is the common commission game with an 8:1 tie, 11:1 pairs
// and a tie-point side bet.
func DefaultSchedule() Schedule {
	return Schedule{
		Banker:     0.95,
		Player:     1.0,
		Tie:        8.0,
		PlayerPair: 11.0,
		BankerPair: 11.0,
		TieBonus:   TieBonus{140, 200, 210, 190, 110, 100, 40, 40, 70, 70},
	}
}

// Set changes a single payout by wager name. Tie points are named
// "tie0" through "tie9".
func (s *Schedule) Set(wager string, payout float64) error {
	switch wager {
	case "banker", "b":
		s.Banker = payout
	case "player", "p":
		s.Player = payout
	case "tie", "t":
		s.Tie = payout
	case "playerpair", "pp":
		s.PlayerPair = payout
	case "bankerpair", "bp":
		s.BankerPair = payout
	default:
		var pt int
		if _, err := fmt.Sscanf(wager, "tie%d", &pt); err != nil {
			return fmt.Errorf("unknown wager %q", wager)
		}
		if pt < 0 || pt >= NumPoints {
			return ErrBadTiePoint
		}
		s.TieBonus[pt] = payout
	}
	return nil
}

// LoadSchedule reads a YAML payout file. Keys missing from the file keep
// their default values.
func LoadSchedule(path string) (Schedule, error) {
	sched := DefaultSchedule()
	bts, err := os.ReadFile(path)
	if err != nil {
		return sched, fmt.Errorf("reading payout file: %w", err)
	}
	if err := yaml.Unmarshal(bts, &sched); err != nil {
		return DefaultSchedule(), fmt.Errorf("parsing payout file %s: %w", path, err)
	}
	log.Debug().Str("path", path).Interface("payouts", sched).Msg("loaded-payouts")
	return sched, nil
}

// WriteSchedule saves s as YAML.
func WriteSchedule(path string, s Schedule) error {
	bts, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bts, 0o644)
}

func (tb *TieBonus) set(m map[int]float64) error {
	for pt, v := range m {
		if pt < 0 || pt >= NumPoints {
			return fmt.Errorf("%w: got %d", ErrBadTiePoint, pt)
		}
		tb[pt] = v
	}
	return nil
}

func (tb *TieBonus) setList(l []float64) error {
	if len(l) != NumPoints {
		return fmt.Errorf("tie bonus list needs %d payouts, got %d", NumPoints, len(l))
	}
	copy(tb[:], l)
	return nil
}

func (tb *TieBonus) UnmarshalJSON(data []byte) error {
	var l []float64
	if err := json.Unmarshal(data, &l); err == nil {
		return tb.setList(l)
	}
	var m map[int]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return tb.set(m)
}

func (tb *TieBonus) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var l []float64
		if err := value.Decode(&l); err != nil {
			return err
		}
		return tb.setList(l)
	case yaml.MappingNode:
		var m map[int]float64
		if err := value.Decode(&m); err != nil {
			return err
		}
		return tb.set(m)
	}
	return fmt.Errorf("line %d: tie bonus must be a list or a map", value.Line)
}

func (tb TieBonus) MarshalYAML() (interface{}, error) {
	m := make(map[int]float64, NumPoints)
	for pt, v := range tb {
		m[pt] = v
	}
	return m, nil
}
