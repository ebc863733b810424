package outcome

// The fixed Baccarat drawing rules. Hand totals are points 0-9; a third
// card value is also 0-9.

// IsNatural reports whether either two-card hand totals 8 or 9, which ends
// the coup with no draws.
func IsNatural(player, banker int) bool {
	return player >= 8 || banker >= 8
}

// PlayerDraws reports whether the player takes a third card.
func PlayerDraws(player int) bool {
	return player <= 5
}

// BankerDraws reports whether the banker takes a third card after the player
// drew playerThird.
func BankerDraws(banker, playerThird int) bool {
	switch banker {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird == 6 || playerThird == 7
	default:
		return false
	}
}

// BankerDrawsOnStand reports whether the banker draws when the player stood
// on 6 or 7.
func BankerDrawsOnStand(banker int) bool {
	return banker <= 5
}
