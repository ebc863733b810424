package shell

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/banco/config"
	"github.com/domino14/banco/shoe"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"new -decks 6",
			&shellcmd{"new", nil, CmdOptions{"decks": {"6"}}},
			nil},
		{"rm A K 10",
			&shellcmd{"rm", []string{"A", "K", "10"}, CmdOptions{}},
			nil},
		{"payout tie0 -5",
			&shellcmd{"payout", []string{"tie0", "-5"}, CmdOptions{}},
			nil},
		{"payout save 'my payouts.yaml'",
			&shellcmd{"payout", []string{"save", "my payouts.yaml"}, CmdOptions{}},
			nil},
		{"new -decks",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newTestController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Chdir(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDecks, 1)
	out := &bytes.Buffer{}
	sc, err := newController(cfg, out)
	if err != nil {
		t.Fatal(err)
	}
	return sc, out
}

func TestShoeEditing(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	is.Equal(sc.shoe.Total(), 52)

	_, err := sc.handle("rm A K 10 5")
	is.NoErr(err)
	is.Equal(sc.shoe.Total(), 48)
	is.Equal(sc.shoe.Count(shoe.Ace), 3)

	_, err = sc.handle("add AK")
	is.NoErr(err)
	is.Equal(sc.shoe.Total(), 50)

	_, err = sc.handle("set q 0")
	is.NoErr(err)
	is.Equal(sc.shoe.Count(shoe.Queen), 0)

	_, err = sc.handle("rm Q")
	is.True(errors.Is(err, shoe.ErrNotInShoe))
	is.Equal(sc.shoe.Total(), 46)

	_, err = sc.handle("rm X")
	is.True(errors.Is(err, shoe.ErrUnknownRank))

	is.NoErr(undo(sc))
	is.Equal(sc.shoe.Count(shoe.Queen), 4)
	is.NoErr(undo(sc))
	is.NoErr(undo(sc))
	is.Equal(sc.shoe.Total(), 52)
	is.True(errors.Is(undo(sc), errNothingToUndo))

	_, err = sc.handle("new 8")
	is.NoErr(err)
	is.Equal(sc.shoe.Total(), 416)
	_, err = sc.handle("new 0")
	is.True(err != nil)
}

func undo(sc *ShellController) error {
	_, err := sc.handle("undo")
	return err
}

func TestBurn(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	resp, err := sc.handle("burn 10")
	is.NoErr(err)
	is.Equal(sc.shoe.Total(), 42)
	is.True(strings.HasPrefix(resp.message, "burned "))
	_, err = sc.handle("burn 43")
	is.True(err != nil)
	_, err = sc.handle("burn 42")
	is.NoErr(err)
	is.Equal(sc.shoe.Total(), 0)
}

func TestEVAndEffects(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	resp, err := sc.handle("ev")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Cards remaining: 52"))
	is.True(strings.Contains(resp.message, "Banker"))

	resp, err = sc.handle("effects")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Removal effects"))

	// A generous tie payout shows up as an advantage.
	_, err = sc.handle("payout tie 20")
	is.NoErr(err)
	resp, err = sc.handle("ev")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Positive expectation: Tie"))
}

func TestPayout(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	_, err := sc.handle("payout banker 1")
	is.NoErr(err)
	is.Equal(sc.schedule.Banker, 1.0)
	_, err = sc.handle("payout tie12 1")
	is.True(err != nil)

	path := filepath.Join(t.TempDir(), "p.yaml")
	_, err = sc.handle("payout save " + path)
	is.NoErr(err)
	_, err = sc.handle("payout reset")
	is.NoErr(err)
	is.Equal(sc.schedule.Banker, 0.95)
	_, err = sc.handle("payout load " + path)
	is.NoErr(err)
	is.Equal(sc.schedule.Banker, 1.0)

	resp, err := sc.handle("payout")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Tie on 9"))
}

func TestSetConfigAndHelp(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController(t)
	_, err := sc.handle("setconfig labels zh")
	is.NoErr(err)
	resp, err := sc.handle("ev")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "莊"))

	// A rejected value leaves the previous one in place.
	_, err = sc.handle("setconfig labels fr")
	is.True(err != nil)
	is.Equal(sc.config.GetString(config.ConfigLabels), "zh")
	_, err = sc.handle("setconfig threads 2")
	is.NoErr(err)
	is.NoErr(sc.config.Load(nil))
	is.Equal(sc.config.GetString(config.ConfigLabels), "zh")

	_, err = sc.handle("help")
	is.NoErr(err)
	is.True(strings.Contains(out.String(), "remove|rm"))
	_, err = sc.handle("help cards")
	is.NoErr(err)
	is.True(strings.Contains(out.String(), "rm AK105"))

	_, err = sc.handle("exit")
	is.True(errors.Is(err, errExit))
	_, err = sc.handle("frobnicate")
	is.True(err != nil)
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	c := NewShellCompleter(sc)
	line := []rune("eff")
	matches, n := c.Do(line, len(line))
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("ects")})

	line = []rune("payout ba")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("nker"), []rune("nkerpair")})
}
