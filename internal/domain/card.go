package domain

// Suit identifies one of the four race lanes.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Suits returns the four suits in their canonical order.
func Suits() [4]Suit {
	return [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}
}

// ValidSuit reports whether s names one of the four suits.
func ValidSuit(s Suit) bool {
	switch s {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return true
	}
	return false
}

// Rank is a card face value. The race deck runs 2 through king; aces are
// excluded so each suit contributes exactly twelve cards.
type Rank string

// Ranks returns the twelve ranks in ascending order.
func Ranks() []Rank {
	return []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
}

// Card is a single playing card in the race deck.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}
