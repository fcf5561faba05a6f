package domain

// WinningPosition is the number of advances a suit needs to win a race.
// Only one suit moves per draw, so the first suit to reach it wins alone.
const WinningPosition = 10

// NewPositions returns zeroed position counters for all four suits.
func NewPositions() map[Suit]int {
	positions := make(map[Suit]int, len(Suits()))
	for _, suit := range Suits() {
		positions[suit] = 0
	}
	return positions
}

// WinnerAtThreshold returns the suit whose position has reached the winning
// threshold, if any.
func WinnerAtThreshold(positions map[Suit]int) (Suit, bool) {
	for _, suit := range Suits() {
		if positions[suit] >= WinningPosition {
			return suit, true
		}
	}
	return "", false
}
