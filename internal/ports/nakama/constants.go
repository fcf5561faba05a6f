package nakama

const (
	// RpcCreateRoom is the Nakama RPC id clients call to open a new room.
	RpcCreateRoom = "create_room"

	// RpcJoinRoom is the Nakama RPC id clients call to resolve a room code
	// to a joinable match.
	RpcJoinRoom = "join_room"

	// MatchNameHorseRace is the authoritative match handler name registered with Nakama.
	MatchNameHorseRace = "horserace_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlaceBet  int64 = 1
	OpStartRace int64 = 2
	OpDealCard  int64 = 3
	OpAddBot    int64 = 4
	OpResetRace int64 = 5
	OpRaceWon   int64 = 6

	// Server -> Client events
	OpRoomWelcome   int64 = 101 // sent privately to the joiner
	OpRosterUpdated int64 = 102
	OpRaceStarted   int64 = 103
	OpCardDrawn     int64 = 104
	OpRaceEnded     int64 = 105
	OpRaceReset     int64 = 106
	OpBetRejected   int64 = 107 // sent privately to the bettor
)
