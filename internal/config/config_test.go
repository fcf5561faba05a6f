package config

import "testing"

// Getter defaults are exercised before LoadGameConfig so the package-level
// load guard has not populated cfg yet.
func TestDefaultsWithoutConfig(t *testing.T) {
	if cfg != nil {
		t.Skip("config already loaded by another test")
	}

	if got := GetMaxPlayers(); got != 6 {
		t.Fatalf("GetMaxPlayers() default = %d, want 6", got)
	}
	if got := GetBotBetDelaySeconds(); got != 1 {
		t.Fatalf("GetBotBetDelaySeconds() default = %d, want 1", got)
	}
	min, max := GetBotStakeRange()
	if min != 1 || max != 5 {
		t.Fatalf("GetBotStakeRange() default = %d..%d, want 1..5", min, max)
	}
}

func TestLoadGameConfig(t *testing.T) {
	if err := LoadGameConfig("testdata/game_config.json"); err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}

	if got := GetMaxPlayers(); got != 4 {
		t.Fatalf("GetMaxPlayers() = %d, want 4", got)
	}
	if got := GetBotBetDelaySeconds(); got != 2 {
		t.Fatalf("GetBotBetDelaySeconds() = %d, want 2", got)
	}
	min, max := GetBotStakeRange()
	if min != 2 || max != 3 {
		t.Fatalf("GetBotStakeRange() = %d..%d, want 2..3", min, max)
	}
}
