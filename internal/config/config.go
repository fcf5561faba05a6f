package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig tunes room capacity and bot pacing.
type GameConfig struct {
	MaxPlayers int `json:"max_players"`
	// BotBetDelaySeconds configures how long an added bot waits before
	// placing its automatic bet.
	BotBetDelaySeconds int `json:"bot_bet_delay_seconds"`
	BotMinStake        int `json:"bot_min_stake"`
	BotMaxStake        int `json:"bot_max_stake"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil if none loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetMaxPlayers returns the roster cap for a room.
func GetMaxPlayers() int {
	if cfg == nil || cfg.MaxPlayers <= 0 {
		return 6 // Safe default
	}
	return cfg.MaxPlayers
}

// GetBotBetDelaySeconds returns the delay before a bot's automatic bet lands.
func GetBotBetDelaySeconds() int {
	if cfg == nil || cfg.BotBetDelaySeconds <= 0 {
		return 1
	}
	return cfg.BotBetDelaySeconds
}

// GetBotStakeRange returns the inclusive bounds for a bot's random stake.
func GetBotStakeRange() (int, int) {
	if cfg == nil || cfg.BotMinStake <= 0 || cfg.BotMaxStake < cfg.BotMinStake {
		return 1, 5
	}
	return cfg.BotMinStake, cfg.BotMaxStake
}
