package bot

import (
	"math/rand/v2"

	"github.com/mondrodigital/horse-race/internal/domain"
)

// Bet is a bot's chosen suit and stake for the current race.
type Bet struct {
	Suit   domain.Suit
	Amount int
}

// PickBet draws a uniformly random suit and a stake in [minStake, maxStake].
// Bots have no strategy; the pick exists to keep a race interesting when
// humans are short-handed.
func PickBet(rng *rand.Rand, minStake, maxStake int) Bet {
	if maxStake < minStake {
		maxStake = minStake
	}
	suits := domain.Suits()
	return Bet{
		Suit:   suits[rng.IntN(len(suits))],
		Amount: minStake + rng.IntN(maxStake-minStake+1),
	}
}
