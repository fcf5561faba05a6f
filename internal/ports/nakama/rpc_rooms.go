package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RoomResponse is the payload returned to clients for both room RPCs. The
// client joins the returned match over its realtime socket, passing
// playerName/avatar as join metadata.
type RoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

// JoinRoomRequest carries the short room code to resolve.
type JoinRoomRequest struct {
	Code string `json:"code"`
}

// RegisterRPCs registers the room RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateRoom, rpcCreateRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcJoinRoom, rpcJoinRoom)
}

func rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	code, err := NewRoomCode()
	if err != nil {
		logger.Error("rpcCreateRoom: %v", err)
		return "", runtime.NewError("failed to allocate room", 13)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameHorseRace, map[string]interface{}{"code": code})
	if err != nil {
		logger.Error("rpcCreateRoom: MatchCreate error: %v", err)
		return "", runtime.NewError("failed to create room", 13)
	}

	resp, _ := json.Marshal(RoomResponse{MatchID: matchID, Code: code})
	return string(resp), nil
}

func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var request JoinRoomRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil || request.Code == "" {
		return "", runtime.NewError("room code required", 3)
	}

	query := fmt.Sprintf("+label.game:horserace +label.code:%s", request.Code)
	matches, err := nk.MatchList(ctx, 2, true, "", nil, nil, query)
	if err != nil {
		logger.Error("rpcJoinRoom: MatchList error: %v", err)
		return "", runtime.NewError("failed to look up room", 13)
	}
	if len(matches) == 0 {
		// The one caller-visible error of the protocol.
		return "", runtime.NewError("Room not found", 5)
	}

	resp, _ := json.Marshal(RoomResponse{MatchID: matches[0].MatchId, Code: request.Code})
	return string(resp), nil
}
