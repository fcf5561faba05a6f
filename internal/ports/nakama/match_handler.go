package nakama

import (
	"context"
	crand "crypto/rand"
	"database/sql"
	"encoding/json"
	"math/rand/v2"
	"strconv"

	"github.com/mondrodigital/horse-race/internal/app"
	"github.com/mondrodigital/horse-race/internal/bot"
	"github.com/mondrodigital/horse-race/internal/config"
	"github.com/mondrodigital/horse-race/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// profile carries the name/avatar a client sent as join metadata, stashed
// between MatchJoinAttempt and MatchJoin.
type profile struct {
	Name   string
	Avatar string
}

// MatchState holds the authoritative runtime state for one room.
type MatchState struct {
	Room      *domain.Room
	Presences map[string]runtime.Presence // player id -> presence for targeted messaging
	App       *app.Service
	Tick      int64

	MaxPlayers       int
	BotBetDelayTicks int64
	BotMinStake      int
	BotMaxStake      int

	// PendingBotBets maps a bot id to the tick its automatic bet lands.
	// Entries are dropped when applied; the whole map dies with the match,
	// which is what cancels the tasks of a deleted room.
	PendingBotBets map[string]int64

	PendingProfiles map[string]profile

	rng *rand.Rand
}

// Label is the match label advertised for room-code lookup.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Code  string `json:"code"`
	Phase string `json:"phase"`
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	code, _ := params["code"].(string)
	if code == "" {
		generated, err := NewRoomCode()
		if err != nil {
			logger.Error("MatchInit: Failed to generate room code: %v", err)
			return nil, 0, ""
		}
		code = generated
		logger.Warn("MatchInit: No room code in params, generated %s", code)
	}

	minStake, maxStake := config.GetBotStakeRange()
	state := &MatchState{
		Room:             domain.NewRoom(code),
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		MaxPlayers:       config.GetMaxPlayers(),
		BotBetDelayTicks: int64(config.GetBotBetDelaySeconds()),
		BotMinStake:      minStake,
		BotMaxStake:      maxStake,
		PendingBotBets:   make(map[string]int64),
		PendingProfiles:  make(map[string]profile),
		rng:              newRng(),
	}

	// Environment overrides, same keys the ops side sets on the runtime.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["horserace_max_players"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			state.MaxPlayers = i
		}
	}
	if val, ok := env["horserace_bot_bet_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			state.BotBetDelayTicks = int64(i)
		}
	}

	labelBytes, err := json.Marshal(buildLabel(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second drives the bot bet delay
	return state, tickRate, string(labelBytes)
}

func newRng() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

func buildLabel(state *MatchState) Label {
	return Label{
		Open:  len(state.Room.Players) < state.MaxPlayers,
		Game:  "horserace",
		Code:  state.Room.Code,
		Phase: string(state.Room.Phase),
	}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Humans are never turned away; only bot additions enforce the roster
	// cap. Rejoins update the existing roster entry in place.
	matchState.PendingProfiles[presence.GetUserId()] = profile{
		Name:   metadata["playerName"],
		Avatar: metadata["avatar"],
	}

	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p

		prof := matchState.PendingProfiles[uid]
		delete(matchState.PendingProfiles, uid)
		if prof.Name == "" {
			prof.Name = p.GetUsername()
		}

		events := matchState.App.JoinRoom(matchState.Room, uid, prof.Name, prof.Avatar)
		mh.broadcastEvents(matchState, dispatcher, logger, events)

		logger.Debug("MatchJoin: Player %s joined room %s (host=%s)", uid, matchState.Room.Code, matchState.Room.HostID)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave or disconnect.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)
		// Covers an approved join attempt whose client never completed the
		// join; the stashed profile must not outlive the presence.
		delete(matchState.PendingProfiles, uid)

		events, empty := matchState.App.RemovePlayer(matchState.Room, uid)
		mh.broadcastEvents(matchState, dispatcher, logger, events)
		if empty {
			logger.Info("MatchLeave: Room %s is empty, tearing it down.", matchState.Room.Code)
			return nil
		}
	}

	// Bots cannot keep a room alive on their own; their pending bet tasks
	// die with the match.
	if matchState.Room.HumanCount() == 0 {
		logger.Info("MatchLeave: No humans left in room %s, tearing it down.", matchState.Room.Code)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpPlaceBet:
			mh.handlePlaceBet(matchState, dispatcher, logger, msg)
		case OpStartRace:
			mh.handleStartRace(matchState, dispatcher, logger, msg)
		case OpDealCard:
			mh.handleDealCard(matchState, dispatcher, logger, msg)
		case OpAddBot:
			mh.handleAddBot(matchState, dispatcher, logger, msg)
		case OpResetRace:
			mh.handleResetRace(matchState, dispatcher, logger, msg)
		case OpRaceWon:
			mh.handleRaceWon(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBotBets(matchState, dispatcher, logger)

	return matchState
}

// processBotBets applies every scheduled bot bet that has come due. The bet is
// decided at apply time, not schedule time, so a reset in between simply
// yields a fresh pick. Bets are closed while a race runs; due entries stay
// scheduled and land on the first tick after the room leaves the racing phase.
func (mh *matchHandler) processBotBets(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Room.Phase == domain.PhaseRacing {
		return
	}

	for botID, due := range state.PendingBotBets {
		if state.Tick < due {
			continue
		}
		delete(state.PendingBotBets, botID)

		pick := bot.PickBet(state.rng, state.BotMinStake, state.BotMaxStake)
		events := state.App.ApplyBotBet(state.Room, botID, pick.Suit, pick.Amount)
		if len(events) == 0 {
			logger.Debug("processBotBets: Dropped stale auto-bet for %s", botID)
			continue
		}
		mh.broadcastEvents(state, dispatcher, logger, events)
	}
}

func (mh *matchHandler) handlePlaceBet(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	var request placeBetRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handlePlaceBet: Invalid payload from %s: %v", uid, err)
		return
	}

	events, err := state.App.PlaceBet(state.Room, uid, domain.Suit(request.Suit), request.Amount)
	if err != nil {
		logger.Warn("handlePlaceBet: Rejected bet from %s (suit=%q amount=%d): %v", uid, request.Suit, request.Amount, err)
		// A malformed bet sent directly gets an explicit rejection; every
		// other failure stays a silent no-op.
		if err == app.ErrInvalidBet {
			mh.sendBetRejected(state, dispatcher, logger, uid, err.Error())
		}
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleStartRace(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Room.IsHost(msg.GetUserId()) {
		logger.Warn("handleStartRace: %s is not host, ignoring.", msg.GetUserId())
		return
	}

	events := state.App.StartRace(state.Room)
	mh.broadcastEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)

	logger.Info("handleStartRace: Race started in room %s with %d players.", state.Room.Code, len(state.Room.Players))
}

func (mh *matchHandler) handleDealCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Room.IsHost(msg.GetUserId()) {
		logger.Warn("handleDealCard: %s is not host, ignoring.", msg.GetUserId())
		return
	}

	events, err := state.App.DealCard(state.Room)
	if err != nil {
		logger.Warn("handleDealCard: %v", err)
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)
	if state.Room.Phase == domain.PhaseFinished {
		mh.updateLabel(state, dispatcher, logger)
		logger.Info("handleDealCard: Race in room %s won by %s.", state.Room.Code, state.Room.Winner)
	}
}

func (mh *matchHandler) handleAddBot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Room.IsHost(msg.GetUserId()) {
		logger.Warn("handleAddBot: %s is not host, ignoring.", msg.GetUserId())
		return
	}

	identity := bot.GetIdentity(state.Room.BotCount())
	botID := bot.NewBotID()

	events, err := state.App.AddBot(state.Room, botID, identity.Name, identity.Avatar, state.MaxPlayers)
	if err != nil {
		logger.Warn("handleAddBot: %v", err)
		return
	}

	state.PendingBotBets[botID] = state.Tick + state.BotBetDelayTicks

	mh.broadcastEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)

	logger.Info("handleAddBot: Added %s (%s) to room %s.", identity.Name, botID, state.Room.Code)
}

func (mh *matchHandler) handleResetRace(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Room.IsHost(msg.GetUserId()) {
		logger.Warn("handleResetRace: %s is not host, ignoring.", msg.GetUserId())
		return
	}

	events := state.App.ResetRace(state.Room)

	// All bets were cleared, bots included; schedule their re-bets.
	for _, p := range state.Room.Players {
		if p.IsBot {
			state.PendingBotBets[p.ID] = state.Tick + state.BotBetDelayTicks
		}
	}

	mh.broadcastEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleRaceWon(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Room.IsHost(msg.GetUserId()) {
		logger.Warn("handleRaceWon: %s is not host, ignoring.", msg.GetUserId())
		return
	}

	var request raceWonRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleRaceWon: Invalid payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.FinishRace(state.Room, domain.Suit(request.Winner))
	if err != nil {
		logger.Warn("handleRaceWon: %v", err)
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastEvents converts app events to wire messages and dispatches them.
func (mh *matchHandler) broadcastEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, payload, ok := toWireMessage(ev)
		if !ok {
			logger.Warn("broadcastEvents: Unknown event kind: %v", ev.Kind)
			continue
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("broadcastEvents: Failed to marshal %v: %v", ev.Kind, err)
			continue
		}

		// Default to room broadcast; resolve targeted recipients to live
		// presences. If every intended recipient is offline (or a bot) the
		// message must not leak to the rest of the room.
		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}

		if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
			logger.Error("broadcastEvents: Failed to dispatch %v: %v", ev.Kind, err)
		}
	}
}

func toWireMessage(ev app.Event) (int64, any, bool) {
	switch ev.Kind {
	case app.EventRoomWelcome:
		p := ev.Payload.(app.RoomWelcomePayload)
		return OpRoomWelcome, roomWelcomeMessage{
			RoomID:  p.Code,
			Players: toWirePlayers(p.Players),
			HostID:  p.HostID,
		}, true
	case app.EventRosterUpdated:
		p := ev.Payload.(app.RosterUpdatedPayload)
		return OpRosterUpdated, rosterUpdateMessage{
			Players: toWirePlayers(p.Players),
			HostID:  p.HostID,
		}, true
	case app.EventRaceStarted:
		return OpRaceStarted, struct{}{}, true
	case app.EventCardDrawn:
		p := ev.Payload.(app.CardDrawnPayload)
		return OpCardDrawn, p.Card, true
	case app.EventRaceEnded:
		p := ev.Payload.(app.RaceEndedPayload)
		return OpRaceEnded, raceEndedMessage{WinningSuit: string(p.Winner)}, true
	case app.EventRaceReset:
		return OpRaceReset, struct{}{}, true
	case app.EventBetRejected:
		p := ev.Payload.(app.BetRejectedPayload)
		return OpBetRejected, betRejectedMessage{Message: p.Reason}, true
	}
	return 0, nil, false
}

// sendBetRejected notifies a single caller that a directly-sent bet failed
// validation.
func (mh *matchHandler) sendBetRejected(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, reason string) {
	events := []app.Event{{
		Kind:       app.EventBetRejected,
		Payload:    app.BetRejectedPayload{PlayerID: userID, Reason: reason},
		Recipients: []string{userID},
	}}
	mh.broadcastEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(buildLabel(state))
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
