package app

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mondrodigital/horse-race/internal/domain"
)

// Service contains the race use-cases operating on room state. Every method
// mutates the room to completion and returns the events to dispatch, so a
// single-threaded caller never observes a half-updated room.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a crypto-seeded
// default. The shuffle fairness guarantee rests on this source.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		var seed [32]byte
		if _, err := crand.Read(seed[:]); err != nil {
			panic(fmt.Sprintf("seed rng: %v", err))
		}
		rng = rand.New(rand.NewChaCha8(seed))
	}
	return &Service{rng: rng}
}

var (
	ErrRoomFull      = errors.New("room is at player capacity")
	ErrUnknownPlayer = errors.New("player not found in room")
	ErrInvalidBet    = errors.New("bet must name a suit and a positive amount")
	ErrBetsClosed    = errors.New("bets are closed while a race is running")
	ErrNotRacing     = errors.New("no race in progress")
	ErrInvalidWinner = errors.New("winner must name a suit")
)

// JoinRoom adds the player to the room, or refreshes name/avatar in place on
// rejoin. The first player to join becomes host. Returns a private welcome for
// the joiner plus a roster broadcast.
func (s *Service) JoinRoom(room *domain.Room, playerID, name, avatar string) []Event {
	if existing := room.FindPlayer(playerID); existing != nil {
		if name != "" {
			existing.Name = name
		}
		if avatar != "" {
			existing.Avatar = avatar
		}
	} else {
		if name == "" {
			name = fmt.Sprintf("Player %d", len(room.Players)+1)
		}
		if avatar == "" {
			avatar = DefaultAvatar
		}
		room.Players = append(room.Players, &domain.Player{
			ID:     playerID,
			Name:   name,
			Avatar: avatar,
		})
	}

	if room.HostID == "" {
		room.HostID = playerID
	}

	return []Event{
		{
			Kind: EventRoomWelcome,
			Payload: RoomWelcomePayload{
				Code:    room.Code,
				Players: room.Players,
				HostID:  room.HostID,
			},
			Recipients: []string{playerID},
		},
		rosterEvent(room),
	}
}

// AddBot appends a bot player with the given identity. Fails with ErrRoomFull
// once the roster reaches maxPlayers.
func (s *Service) AddBot(room *domain.Room, botID, name, avatar string, maxPlayers int) ([]Event, error) {
	if len(room.Players) >= maxPlayers {
		return nil, ErrRoomFull
	}

	room.Players = append(room.Players, &domain.Player{
		ID:     botID,
		Name:   name,
		Avatar: avatar,
		IsBot:  true,
	})

	return []Event{rosterEvent(room)}, nil
}

// PlaceBet records the caller's own bet. Bets are accepted in any phase
// except racing.
func (s *Service) PlaceBet(room *domain.Room, playerID string, suit domain.Suit, amount int) ([]Event, error) {
	player := room.FindPlayer(playerID)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if !domain.ValidSuit(suit) || amount <= 0 {
		return nil, ErrInvalidBet
	}
	if room.Phase == domain.PhaseRacing {
		return nil, ErrBetsClosed
	}

	player.BetSuit = suit
	player.BetAmount = amount

	return []Event{rosterEvent(room)}, nil
}

// ApplyBotBet records a bot's delayed auto-bet. The bot decided its stake some
// time ago, so the room is re-validated: a stale bot id, a non-bot id, or a
// race already underway drops the bet without touching state.
func (s *Service) ApplyBotBet(room *domain.Room, botID string, suit domain.Suit, amount int) []Event {
	player := room.FindPlayer(botID)
	if player == nil || !player.IsBot {
		return nil
	}
	if room.Phase == domain.PhaseRacing {
		return nil
	}

	player.BetSuit = suit
	player.BetAmount = amount

	return []Event{rosterEvent(room)}
}

// StartRace zeroes the positions, deals a fresh shuffled deck and moves the
// room into the racing phase. The deck contents are never broadcast.
func (s *Service) StartRace(room *domain.Room) []Event {
	room.Positions = domain.NewPositions()
	room.Deck = domain.ShuffleDeck(domain.NewDeck(), s.rng)
	room.Cursor = 0
	room.Winner = ""
	room.Phase = domain.PhaseRacing

	return []Event{{Kind: EventRaceStarted}}
}

// DealCard draws the next card, advances its suit and evaluates the win
// condition. The first suit to reach the winning position finishes the race
// immediately; if the deck empties with no winner a uniformly random suit is
// chosen as a fallback. Dealing past an exhausted deck is a no-op.
func (s *Service) DealCard(room *domain.Room) ([]Event, error) {
	if room.Phase != domain.PhaseRacing {
		return nil, ErrNotRacing
	}

	card, err := room.DrawCard()
	if err != nil {
		return nil, nil
	}

	room.Positions[card.Suit]++
	events := []Event{{Kind: EventCardDrawn, Payload: CardDrawnPayload{Card: card}}}

	if winner, ok := domain.WinnerAtThreshold(room.Positions); ok {
		events = append(events, s.finishRace(room, winner))
	} else if room.Cursor >= len(room.Deck) {
		suits := domain.Suits()
		events = append(events, s.finishRace(room, suits[s.rng.IntN(len(suits))]))
	}

	return events, nil
}

// FinishRace marks the race won by the given suit. Used when the host client
// reports the animated finish ahead of the server's own card evaluation.
func (s *Service) FinishRace(room *domain.Room, winner domain.Suit) ([]Event, error) {
	if room.Phase != domain.PhaseRacing {
		return nil, ErrNotRacing
	}
	if !domain.ValidSuit(winner) {
		return nil, ErrInvalidWinner
	}
	return []Event{s.finishRace(room, winner)}, nil
}

func (s *Service) finishRace(room *domain.Room, winner domain.Suit) Event {
	room.Phase = domain.PhaseFinished
	room.Winner = winner
	return Event{Kind: EventRaceEnded, Payload: RaceEndedPayload{Winner: winner}}
}

// ResetRace returns the room to idle: positions zeroed, deck discarded and
// every player's bet cleared, bots included. Bots re-bet via their scheduled
// tasks after a reset.
func (s *Service) ResetRace(room *domain.Room) []Event {
	room.Phase = domain.PhaseIdle
	room.Positions = domain.NewPositions()
	room.Deck = nil
	room.Cursor = 0
	room.Winner = ""
	room.ResetBets()

	return []Event{
		{Kind: EventRaceReset},
		rosterEvent(room),
	}
}

// RemovePlayer drops the player and reassigns the host to the roster's first
// entry when the host left. The second return reports whether the roster is
// now empty; the caller tears the room down in that case.
func (s *Service) RemovePlayer(room *domain.Room, playerID string) ([]Event, bool) {
	if !room.RemovePlayer(playerID) {
		return nil, len(room.Players) == 0
	}

	if room.HostID == playerID {
		room.HostID = ""
		if len(room.Players) > 0 {
			room.HostID = room.Players[0].ID
		}
	}

	if len(room.Players) == 0 {
		return nil, true
	}

	return []Event{rosterEvent(room)}, false
}

func rosterEvent(room *domain.Room) Event {
	return Event{
		Kind: EventRosterUpdated,
		Payload: RosterUpdatedPayload{
			Players: room.Players,
			HostID:  room.HostID,
		},
	}
}
