package nakama

import "github.com/mondrodigital/horse-race/internal/domain"

// WirePlayer is the serialized roster entry sent to clients.
type WirePlayer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar"`
	BetSuit   *string `json:"betSuit"` // null until a bet is placed
	BetAmount int     `json:"betAmount"`
	IsBot     bool    `json:"isBot"`
}

// toWirePlayer maps a domain player to its wire representation.
func toWirePlayer(p *domain.Player) WirePlayer {
	wire := WirePlayer{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		BetAmount: p.BetAmount,
		IsBot:     p.IsBot,
	}
	if p.BetSuit != "" {
		suit := string(p.BetSuit)
		wire.BetSuit = &suit
	}
	return wire
}

func toWirePlayers(players []*domain.Player) []WirePlayer {
	out := make([]WirePlayer, len(players))
	for i, p := range players {
		out[i] = toWirePlayer(p)
	}
	return out
}

// Inbound message payloads.

type placeBetRequest struct {
	Suit   string `json:"suit"`
	Amount int    `json:"amount"`
}

type raceWonRequest struct {
	Winner string `json:"winner"`
}

// Outbound message payloads.

type roomWelcomeMessage struct {
	RoomID  string       `json:"roomId"`
	Players []WirePlayer `json:"players"`
	HostID  string       `json:"hostId"`
}

type rosterUpdateMessage struct {
	Players []WirePlayer `json:"players"`
	HostID  string       `json:"hostId"`
}

type raceEndedMessage struct {
	WinningSuit string `json:"winningSuit"`
}

type betRejectedMessage struct {
	Message string `json:"message"`
}
