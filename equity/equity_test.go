package equity

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/banco/outcome"
)

func sampleProbabilities() outcome.Probabilities {
	p := outcome.Probabilities{
		PlayerWin: 0.45,
		BankerWin: 0.45,
		Tie:       0.10,
	}
	p.TiePoints[0] = 0.01
	p.TiePoints[9] = 0.09
	return p
}

func TestProject(t *testing.T) {
	is := is.New(t)
	s := DefaultSchedule()
	r := Project(sampleProbabilities(), 0.08, s, EnglishLabels, 300)

	is.Equal(r.TotalCards, 300)
	is.Equal(r.Player.Label, "Player")
	is.Equal(r.Player.Payout, 1.0)
	assert.InDelta(t, 0.0, r.Player.EV, 1e-12)
	assert.InDelta(t, 0.45*0.95-0.45, r.Banker.EV, 1e-12)
	assert.InDelta(t, 0.10*9-1, r.Tie.EV, 1e-12)
	assert.InDelta(t, 0.08*12-1, r.PlayerPair.EV, 1e-12)
	is.Equal(r.PlayerPair.Probability, r.BankerPair.Probability)
	is.Equal(r.PlayerPair.EV, r.BankerPair.EV)

	is.Equal(len(r.TieBonuses), NumPoints)
	for pt, tb := range r.TieBonuses {
		is.Equal(tb.Label, EnglishLabels.TiePointLabel(pt))
		is.Equal(tb.Payout, s.TieBonus[pt])
	}
	assert.InDelta(t, 0.01*141-1, r.TieBonuses[0].EV, 1e-12)
	assert.InDelta(t, 0.09*71-1, r.TieBonuses[9].EV, 1e-12)
	// A point that never ties loses the whole stake.
	is.Equal(r.TieBonuses[5].EV, -1.0)
}

func TestProjectNegativePayouts(t *testing.T) {
	is := is.New(t)
	s := DefaultSchedule()
	s.Player = -2
	r := Project(sampleProbabilities(), 0, s, EnglishLabels, 100)
	is.True(r.Player.EV < -0.9)
	is.Equal(r.PlayerPair.EV, -1.0)
}

func TestZero(t *testing.T) {
	is := is.New(t)
	s := DefaultSchedule()
	r := Zero(s, ChineseLabels, 4)
	is.Equal(r.TotalCards, 4)
	for _, w := range []EVResult{r.Player, r.Banker, r.Tie, r.PlayerPair, r.BankerPair} {
		is.Equal(w.Probability, 0.0)
		is.Equal(w.EV, 0.0)
	}
	is.Equal(r.Banker.Label, "莊")
	is.Equal(len(r.TieBonuses), 10)
	for pt, tb := range r.TieBonuses {
		is.Equal(tb.Probability, 0.0)
		is.Equal(tb.EV, 0.0)
		is.Equal(tb.Payout, s.TieBonus[pt])
	}
	is.Equal(r.TieBonuses[3].Label, "3點和")
	is.Equal(len(r.Advantageous()), 0)
}

func TestWagersAndAdvantageous(t *testing.T) {
	is := is.New(t)
	p := sampleProbabilities()
	s := DefaultSchedule()
	s.TieBonus[9] = 100
	r := Project(p, 0.08, s, EnglishLabels, 200)
	is.Equal(len(r.Wagers()), 15)
	is.Equal(r.Wagers()[5].Label, "Tie on 0")

	adv := r.Advantageous()
	// tie on 9: 0.09*101 - 1 > 0; tie on 0: 0.01*141 - 1 > 0.
	is.Equal(len(adv), 2)
	is.Equal(adv[0].Label, "Tie on 0")
	is.Equal(adv[1].Label, "Tie on 9")

	text := r.ToDisplayText()
	is.True(strings.Contains(text, "Cards remaining: 200"))
	is.Equal(strings.Count(text, "<=="), 2)
}

func TestDisplayWidth(t *testing.T) {
	is := is.New(t)
	is.Equal(displayWidth("Tie"), 3)
	is.Equal(displayWidth("莊對"), 4)
	is.Equal(displayWidth("9點和"), 5)
	is.Equal(padRight("和", 4), "和  ")
}

func TestScheduleSet(t *testing.T) {
	is := is.New(t)
	s := DefaultSchedule()
	is.NoErr(s.Set("banker", 1.0))
	is.NoErr(s.Set("pp", 25))
	is.NoErr(s.Set("tie7", 45))
	is.Equal(s.Banker, 1.0)
	is.Equal(s.PlayerPair, 25.0)
	is.Equal(s.TieBonus[7], 45.0)
	is.True(errors.Is(s.Set("tie10", 1), ErrBadTiePoint))
	is.True(s.Set("dragon", 1) != nil)
}

func TestLoadSchedule(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "partial.yaml")
	is.NoErr(os.WriteFile(path, []byte("banker: 1.0\ntie: 9\ntieBonus:\n  4: 120\n"), 0o644))
	s, err := LoadSchedule(path)
	is.NoErr(err)
	is.Equal(s.Banker, 1.0)
	is.Equal(s.Tie, 9.0)
	is.Equal(s.Player, 1.0)
	is.Equal(s.TieBonus[4], 120.0)
	is.Equal(s.TieBonus[0], 140.0)

	path = filepath.Join(dir, "list.yaml")
	is.NoErr(os.WriteFile(path, []byte("tieBonus: [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]\n"), 0o644))
	s, err = LoadSchedule(path)
	is.NoErr(err)
	is.Equal(s.TieBonus, TieBonus{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	path = filepath.Join(dir, "bad.yaml")
	is.NoErr(os.WriteFile(path, []byte("tieBonus: [1, 2]\n"), 0o644))
	_, err = LoadSchedule(path)
	is.True(err != nil)

	_, err = LoadSchedule(filepath.Join(dir, "missing.yaml"))
	is.True(err != nil)
}

func TestWriteScheduleRoundTrip(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "payouts.yaml")
	s := DefaultSchedule()
	s.TieBonus[2] = 222
	is.NoErr(WriteSchedule(path, s))
	loaded, err := LoadSchedule(path)
	is.NoErr(err)
	is.Equal(loaded, s)
}

func TestScheduleJSON(t *testing.T) {
	is := is.New(t)
	var s Schedule
	err := json.Unmarshal([]byte(`{"banker":0.95,"player":1,"tie":8,"playerPair":11,"bankerPair":11,
		"tieBonus":{"0":140,"1":200,"2":210,"3":190,"4":110,"5":100,"6":40,"7":40,"8":70,"9":70}}`), &s)
	is.NoErr(err)
	is.Equal(s, DefaultSchedule())

	err = json.Unmarshal([]byte(`{"tieBonus":[0,1,2,3,4,5,6,7,8,9]}`), &s)
	is.NoErr(err)
	is.Equal(s.TieBonus[9], 9.0)

	err = json.Unmarshal([]byte(`{"tieBonus":{"12":1}}`), &s)
	is.True(errors.Is(err, ErrBadTiePoint))
}

func TestLabelsFor(t *testing.T) {
	is := is.New(t)
	l, err := LabelsFor("zh")
	is.NoErr(err)
	is.Equal(l, ChineseLabels)
	l, err = LabelsFor("")
	is.NoErr(err)
	is.Equal(l, EnglishLabels)
	_, err = LabelsFor("fr")
	is.True(err != nil)
}
