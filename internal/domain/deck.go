package domain

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of cards in a race deck: 4 suits x 12 ranks, no aces.
const DeckSize = 48

// ErrDeckExhausted is returned when a draw is attempted past the end of the deck.
var ErrDeckExhausted = errors.New("deck exhausted")

// NewDeck returns the ordered 48-card race deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
