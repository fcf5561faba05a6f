package domain

// Phase represents the lifecycle stage of a room's race.
type Phase string

const (
	// PhaseIdle is the pre-race state. Betting is open.
	PhaseIdle Phase = "idle"
	// PhaseRacing is the active state where cards are being dealt.
	PhaseRacing Phase = "racing"
	// PhaseFinished is the state after a winner has been determined.
	// Betting reopens for the next race.
	PhaseFinished Phase = "finished"
)

// Player holds roster state for a human or bot in a room.
type Player struct {
	ID        string
	Name      string
	Avatar    string
	BetSuit   Suit // empty string means no bet placed
	BetAmount int
	IsBot     bool
}

// Room is the authoritative state of one game session.
type Room struct {
	Code      string
	Players   []*Player // join order; index 0 is next in line for host
	HostID    string
	Phase     Phase
	Positions map[Suit]int
	Deck      []Card
	Cursor    int
	Winner    Suit // set once Phase is PhaseFinished
}

// NewRoom returns an empty room in the idle phase.
func NewRoom(code string) *Room {
	return &Room{
		Code:      code,
		Phase:     PhaseIdle,
		Positions: NewPositions(),
	}
}

// FindPlayer returns the player with the given id, or nil.
func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer drops the player with the given id, preserving join order.
// It reports whether a player was removed.
func (r *Room) RemovePlayer(id string) bool {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

// IsHost reports whether the given id is the room's current host.
func (r *Room) IsHost(id string) bool {
	return id != "" && r.HostID == id
}

// HumanCount returns the number of non-bot players.
func (r *Room) HumanCount() int {
	count := 0
	for _, p := range r.Players {
		if !p.IsBot {
			count++
		}
	}
	return count
}

// BotCount returns the number of bot players.
func (r *Room) BotCount() int {
	count := 0
	for _, p := range r.Players {
		if p.IsBot {
			count++
		}
	}
	return count
}

// ResetBets clears the bet fields of every player, bots included.
func (r *Room) ResetBets() {
	for _, p := range r.Players {
		p.BetSuit = ""
		p.BetAmount = 0
	}
}

// DrawCard returns the next card in the deck and advances the cursor.
func (r *Room) DrawCard() (Card, error) {
	if r.Cursor >= len(r.Deck) {
		return Card{}, ErrDeckExhausted
	}
	card := r.Deck[r.Cursor]
	r.Cursor++
	return card, nil
}
