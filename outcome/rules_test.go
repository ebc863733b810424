package outcome

import (
	"testing"

	"github.com/matryer/is"
)

func TestBankerThirdCardTable(t *testing.T) {
	is := is.New(t)
	// draws[b] lists the player third-card values that make the banker draw.
	draws := map[int][]int{
		0: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		1: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		2: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		3: {0, 1, 2, 3, 4, 5, 6, 7, 9},
		4: {2, 3, 4, 5, 6, 7},
		5: {4, 5, 6, 7},
		6: {6, 7},
		7: {},
	}
	for b, want := range draws {
		set := map[int]bool{}
		for _, v := range want {
			set[v] = true
		}
		for p3 := 0; p3 <= 9; p3++ {
			if BankerDraws(b, p3) != set[p3] {
				t.Errorf("banker %d, player third %d: expected draw=%v", b, p3, set[p3])
			}
		}
	}
	is.True(!BankerDraws(8, 0))
	is.True(!BankerDraws(9, 0))
}

func TestPlayerAndStandRules(t *testing.T) {
	is := is.New(t)
	for p := 0; p <= 9; p++ {
		is.Equal(PlayerDraws(p), p <= 5)
	}
	for b := 0; b <= 7; b++ {
		is.Equal(BankerDrawsOnStand(b), b <= 5)
	}
	is.True(IsNatural(8, 0))
	is.True(IsNatural(0, 9))
	is.True(IsNatural(9, 8))
	is.True(!IsNatural(7, 7))
}
