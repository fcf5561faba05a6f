package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Identity describes the name and avatar a bot presents in the roster.
type Identity struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// defaultPool is used when no identity file is loaded. Identities are cycled
// by bot ordinal, so a room never shows two bots with the same face until the
// pool wraps.
var defaultPool = []Identity{
	{Name: "Bot Alice", Avatar: "🤖"},
	{Name: "Bot Bob", Avatar: "👾"},
	{Name: "Bot Charlie", Avatar: "🎯"},
	{Name: "Bot Diana", Avatar: "🎲"},
	{Name: "Bot Echo", Avatar: "🎪"},
}

var (
	pool     = defaultPool
	loadOnce sync.Once
	loadErr  error
)

// LoadIdentities replaces the default identity pool from a JSON file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var loaded []Identity
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		if len(loaded) > 0 {
			pool = loaded
		}
	})
	return loadErr
}

// GetIdentity returns the pool identity for the given bot ordinal, cycling
// modulo the pool size.
func GetIdentity(index int) Identity {
	if index < 0 {
		index = 0
	}
	return pool[index%len(pool)]
}

const idPrefix = "bot:"

// NewBotID returns a fresh synthetic player id for a bot. Bot ids are unique
// per bot instance; the identity pool only governs presentation.
func NewBotID() string {
	return idPrefix + uuid.NewString()
}

// IsBot reports whether the given player id belongs to a bot.
func IsBot(id string) bool {
	return strings.HasPrefix(id, idPrefix)
}
