package integration

import (
	"encoding/json"
	"testing"
	"time"
)

// Opcodes mirrored from the server module.
const (
	OpPlaceBet  = 1
	OpStartRace = 2
	OpDealCard  = 3
	OpAddBot    = 4

	OpRoomWelcome   = 101
	OpRosterUpdated = 102
	OpRaceStarted   = 103
	OpCardDrawn     = 104
	OpRaceEnded     = 105
)

type wirePlayer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar"`
	BetSuit   *string `json:"betSuit"`
	BetAmount int     `json:"betAmount"`
	IsBot     bool    `json:"isBot"`
}

type welcomeMessage struct {
	RoomID  string       `json:"roomId"`
	Players []wirePlayer `json:"players"`
	HostID  string       `json:"hostId"`
}

type rosterMessage struct {
	Players []wirePlayer `json:"players"`
	HostID  string       `json:"hostId"`
}

type raceEndedMessage struct {
	WinningSuit string `json:"winningSuit"`
}

func TestFullRaceFlow(t *testing.T) {
	host := NewTestClient(t)
	defer host.Close()
	guest := NewTestClient(t)
	defer guest.Close()

	// 1. Host creates a room and receives its welcome.
	room := host.CreateRoom(t, "Hosty")
	t.Logf("Created room %s (match %s)", room.Code, room.MatchID)

	welcomeData := host.WaitForMatchData(t, OpRoomWelcome, 5*time.Second)
	var welcome welcomeMessage
	if err := json.Unmarshal(welcomeData.Data, &welcome); err != nil {
		t.Fatalf("Failed to unmarshal welcome: %v", err)
	}
	if welcome.RoomID != room.Code {
		t.Fatalf("Welcome room id = %s, want %s", welcome.RoomID, room.Code)
	}
	if welcome.HostID != host.UserID {
		t.Fatalf("First joiner should be host, got %s", welcome.HostID)
	}

	// 2. Guest resolves the code and joins; everyone sees the roster grow.
	guest.JoinRoomByCode(t, room.Code, "Guesty")
	guest.WaitForMatchData(t, OpRoomWelcome, 5*time.Second)

	// 3. Host adds a bot; after its short delay the bot bets on its own.
	host.SendOp(t, room.MatchID, OpAddBot, nil)

	deadline := time.Now().Add(10 * time.Second)
	botHasBet := false
	for !botHasBet && time.Now().Before(deadline) {
		rosterData := host.WaitForMatchData(t, OpRosterUpdated, 5*time.Second)
		var roster rosterMessage
		if err := json.Unmarshal(rosterData.Data, &roster); err != nil {
			t.Fatalf("Failed to unmarshal roster: %v", err)
		}
		for _, p := range roster.Players {
			if p.IsBot && p.BetSuit != nil && p.BetAmount > 0 {
				botHasBet = true
				t.Logf("Bot %s bet %d on %s", p.Name, p.BetAmount, *p.BetSuit)
			}
		}
	}
	if !botHasBet {
		t.Fatalf("Bot never placed its automatic bet")
	}

	// 4. Both humans bet.
	host.SendOp(t, room.MatchID, OpPlaceBet, map[string]any{"suit": "hearts", "amount": 3})
	guest.SendOp(t, room.MatchID, OpPlaceBet, map[string]any{"suit": "spades", "amount": 2})
	guest.WaitForMatchData(t, OpRosterUpdated, 5*time.Second)

	// 5. Host starts the race and deals until a suit wins.
	host.SendOp(t, room.MatchID, OpStartRace, nil)
	host.WaitForMatchData(t, OpRaceStarted, 5*time.Second)
	guest.WaitForMatchData(t, OpRaceStarted, 5*time.Second)

	endedCh := make(chan raceEndedMessage, 1)
	go func() {
		data := guest.WaitForMatchData(t, OpRaceEnded, 60*time.Second)
		var ended raceEndedMessage
		if err := json.Unmarshal(data.Data, &ended); err == nil {
			endedCh <- ended
		}
	}()

	// A full deck is 48 cards; the race always ends before that.
	var ended raceEndedMessage
	dealt := 0
	for dealt < 48 {
		host.SendOp(t, room.MatchID, OpDealCard, nil)
		dealt++

		select {
		case ended = <-endedCh:
			dealt = 48
		case <-time.After(100 * time.Millisecond):
		}
	}

	if ended.WinningSuit == "" {
		t.Fatalf("Race never ended after dealing the whole deck")
	}
	t.Logf("Race won by %s after %d deals", ended.WinningSuit, dealt)
}
