package nakama

import (
	"crypto/rand"
	"fmt"
)

const (
	roomCodeLength   = 8
	roomCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// NewRoomCode returns a short opaque room token. Eight base-36 characters
// carry ~41 bits of entropy, enough that collisions across live rooms are
// negligible.
func NewRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}

	code := make([]byte, roomCodeLength)
	for i, b := range buf {
		code[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(code), nil
}
