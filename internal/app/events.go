package app

import "github.com/mondrodigital/horse-race/internal/domain"

// EventKind identifies emitted domain events for dispatch to clients.
type EventKind string

const (
	EventRoomWelcome   EventKind = "room_welcome"
	EventRosterUpdated EventKind = "roster_updated"
	EventRaceStarted   EventKind = "race_started"
	EventCardDrawn     EventKind = "card_drawn"
	EventRaceEnded     EventKind = "race_ended"
	EventRaceReset     EventKind = "race_reset"
	EventBetRejected   EventKind = "bet_rejected"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast to the room
}

// RoomWelcomePayload is sent privately to a joiner with the room context.
type RoomWelcomePayload struct {
	Code    string
	Players []*domain.Player
	HostID  string
}

// RosterUpdatedPayload carries the full roster after any roster or bet mutation.
type RosterUpdatedPayload struct {
	Players []*domain.Player
	HostID  string
}

// CardDrawnPayload carries the single card revealed by a deal.
type CardDrawnPayload struct {
	Card domain.Card
}

// RaceEndedPayload names the winning suit of a finished race.
type RaceEndedPayload struct {
	Winner domain.Suit
}

// BetRejectedPayload is sent privately to a caller whose bet failed validation.
type BetRejectedPayload struct {
	PlayerID string
	Reason   string
}
