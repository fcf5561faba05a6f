package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())

	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	return &TestClient{
		Client:  client,
		Session: session,
		Socket:  socket,
		UserID:  session.UserId,
	}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

type roomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

// CreateRoom calls the 'create_room' RPC and joins the created match.
func (tc *TestClient) CreateRoom(t *testing.T, playerName string) roomResponse {
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "create_room", "{}")
	if err != nil {
		t.Fatalf("RPC create_room failed: %v", err)
	}

	var room roomResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &room); err != nil {
		t.Fatalf("Failed to parse create_room response: %v", err)
	}
	if room.MatchID == "" || room.Code == "" {
		t.Fatalf("create_room returned incomplete response: %+v", room)
	}

	tc.joinMatch(t, room.MatchID, playerName)
	return room
}

// JoinRoomByCode resolves a room code via the 'join_room' RPC and joins the match.
func (tc *TestClient) JoinRoomByCode(t *testing.T, code, playerName string) string {
	payload, _ := json.Marshal(map[string]string{"code": code})
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "join_room", string(payload))
	if err != nil {
		t.Fatalf("RPC join_room failed for code %s: %v", code, err)
	}

	var room roomResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &room); err != nil {
		t.Fatalf("Failed to parse join_room response: %v", err)
	}

	tc.joinMatch(t, room.MatchID, playerName)
	return room.MatchID
}

func (tc *TestClient) joinMatch(t *testing.T, matchID, playerName string) {
	metadata := map[string]string{"playerName": playerName}
	if _, err := tc.Socket.JoinMatch(context.Background(), nil, matchID, metadata); err != nil {
		t.Fatalf("Failed to join match %s: %v", matchID, err)
	}
}

// SendOp sends a match message with a JSON payload; pass nil for opcode-only messages.
func (tc *TestClient) SendOp(t *testing.T, matchID string, opCode int64, payload any) {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload for opcode %d: %v", opCode, err)
		}
	}

	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, data, nil); err != nil {
		t.Fatalf("Failed to send opcode %d: %v", opCode, err)
	}
}

// WaitForMatchData waits for a specific opcode from the socket.
func (tc *TestClient) WaitForMatchData(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	ch := make(chan *rtapi.MatchData)

	originalHandler := tc.Socket.OnMatchData
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		if data.OpCode == opCode {
			ch <- data
		}
		if originalHandler != nil {
			originalHandler(data)
		}
	}

	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for OpCode %d", opCode)
		return nil
	}
}
