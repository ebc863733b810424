package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"github.com/domino14/banco/calculator"
	"github.com/domino14/banco/config"
	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/shoe"
)

var errExit = errors.New("exit")

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) newShoe(cmd *shellcmd) (*Response, error) {
	decks := sc.config.GetInt(config.ConfigDecks)
	var err error
	if len(cmd.args) > 0 {
		decks, err = strconv.Atoi(cmd.args[0])
	} else {
		decks, err = cmd.options.IntDefault("decks", decks)
	}
	if err != nil {
		return nil, err
	}
	if decks <= 0 {
		return nil, errors.New("need at least one deck")
	}
	sc.pushShoe(shoe.Full(decks))
	return msg(fmt.Sprintf("new %d-deck shoe\n%s", decks, sc.shoe)), nil
}

func cardsArg(cmd *shellcmd) ([]shoe.Rank, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: " + cmd.cmd + " <cards>")
	}
	return shoe.ParseCards(strings.Join(cmd.args, " "))
}

func (sc *ShellController) remove(cmd *shellcmd) (*Response, error) {
	ranks, err := cardsArg(cmd)
	if err != nil {
		return nil, err
	}
	s, err := sc.shoe.Remove(ranks...)
	if err != nil {
		return nil, err
	}
	sc.pushShoe(s)
	return msg(fmt.Sprintf("removed %d cards; %d left", len(ranks), s.Total())), nil
}

func (sc *ShellController) add(cmd *shellcmd) (*Response, error) {
	ranks, err := cardsArg(cmd)
	if err != nil {
		return nil, err
	}
	s, err := sc.shoe.Add(ranks...)
	if err != nil {
		return nil, err
	}
	sc.pushShoe(s)
	return msg(fmt.Sprintf("added %d cards; %d left", len(ranks), s.Total())), nil
}

func (sc *ShellController) setCount(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <rank> <count>")
	}
	r, err := shoe.RankFromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	c, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	s, err := sc.shoe.WithCount(r, c)
	if err != nil {
		return nil, err
	}
	sc.pushShoe(s)
	return msg(fmt.Sprintf("set %s to %d; %d left", r, s.Count(r), s.Total())), nil
}

// burn deals n cards at random, as a dealer would from a shuffled shoe.
func (sc *ShellController) burn(cmd *shellcmd) (*Response, error) {
	n := 1
	var err error
	if len(cmd.args) > 0 {
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if n < 0 || n > sc.shoe.Total() {
		return nil, fmt.Errorf("cannot burn %d cards from a shoe of %d", n, sc.shoe.Total())
	}
	s := sc.shoe
	burned := make([]string, 0, n)
	for range n {
		idx := frand.Intn(s.Total())
		for _, r := range shoe.Ranks {
			if idx < s.Count(r) {
				s, err = s.Remove(r)
				if err != nil {
					return nil, err
				}
				burned = append(burned, r.String())
				break
			}
			idx -= s.Count(r)
		}
	}
	sc.pushShoe(s)
	return msg(fmt.Sprintf("burned %s; %d left", strings.Join(burned, " "), s.Total())), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if err := sc.popShoe(); err != nil {
		return nil, err
	}
	return msg(sc.shoe.String()), nil
}

func (sc *ShellController) ev(cmd *shellcmd) (*Response, error) {
	res := sc.calc.Compute(sc.shoe, sc.schedule)
	var sb strings.Builder
	sb.WriteString(res.ToDisplayText())
	adv := res.Advantageous()
	if len(adv) > 0 {
		labels := make([]string, len(adv))
		for i, w := range adv {
			labels[i] = w.Label
		}
		fmt.Fprintf(&sb, "\nPositive expectation: %s\n", strings.Join(labels, ", "))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) effects(cmd *shellcmd) (*Response, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	eff, err := sc.calc.RemovalEffects(ctx, sc.shoe, sc.schedule)
	if err != nil {
		return nil, err
	}
	return msg(eff.ToDisplayText()), nil
}

func scheduleText(s equity.Schedule, l equity.Labels) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-12s %8.2f\n", l.Player, s.Player)
	fmt.Fprintf(&sb, "%-12s %8.2f\n", l.Banker, s.Banker)
	fmt.Fprintf(&sb, "%-12s %8.2f\n", l.Tie, s.Tie)
	fmt.Fprintf(&sb, "%-12s %8.2f\n", l.PlayerPair, s.PlayerPair)
	fmt.Fprintf(&sb, "%-12s %8.2f\n", l.BankerPair, s.BankerPair)
	for pt, v := range s.TieBonus {
		fmt.Fprintf(&sb, "%-12s %8.2f\n", l.TiePointLabel(pt), v)
	}
	return sb.String()
}

// payout shows or edits the payout schedule:
//
//	payout
//	payout <wager> <value>
//	payout load|save <file>
//	payout reset
func (sc *ShellController) payout(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(scheduleText(sc.schedule, sc.calc.Labels())), nil
	}
	switch cmd.args[0] {
	case "reset":
		sc.schedule = equity.DefaultSchedule()
		return msg("payouts reset to defaults"), nil
	case "load":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: payout load <file>")
		}
		s, err := equity.LoadSchedule(cmd.args[1])
		if err != nil {
			return nil, err
		}
		sc.schedule = s
		return msg("loaded payouts from " + cmd.args[1]), nil
	case "save":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: payout save <file>")
		}
		if err := equity.WriteSchedule(cmd.args[1], sc.schedule); err != nil {
			return nil, err
		}
		return msg("saved payouts to " + cmd.args[1]), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: payout <wager> <value>")
	}
	v, err := strconv.ParseFloat(cmd.args[1], 64)
	if err != nil {
		return nil, err
	}
	if err := sc.schedule.Set(strings.ToLower(cmd.args[0]), v); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("set %s payout to %g", cmd.args[0], v)), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil || len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}

	key := cmd.args[0]
	value := cmd.args[1]

	prev := sc.config.Get(key)
	sc.config.Set(key, value)
	calc, err := calculator.FromConfig(sc.config)
	if err != nil {
		sc.config.Set(key, prev)
		return nil, err
	}
	sc.calc = calc

	err = sc.config.Write()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}
