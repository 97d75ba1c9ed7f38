package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// GameConfig holds tunables for running tables. Values come from a JSON file
// shipped next to the plugin; zero values fall back to defaults at the
// accessors.
type GameConfig struct {
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before
	// seating bots at a lobby that is short of players.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	VoiceIssuer             string `json:"voice_issuer"`
	VoiceDomain             string `json:"voice_domain"`
}

const (
	defaultTurnDurationSeconds     = 30
	defaultBotAutoFillDelaySeconds = 15
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only the
// first call reads the file; later calls return the first outcome.
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

// GetGameConfig returns the global game configuration, nil when never loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// TurnDuration returns how long a seat may think before the table acts for it.
func TurnDuration() time.Duration {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return defaultTurnDurationSeconds * time.Second
	}
	return time.Duration(cfg.TurnDurationSeconds) * time.Second
}

// BotAutoFillDelay returns how long a short-handed lobby waits before bots
// take the open seats.
func BotAutoFillDelay() time.Duration {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return defaultBotAutoFillDelaySeconds * time.Second
	}
	return time.Duration(cfg.BotAutoFillDelaySeconds) * time.Second
}

// VoiceDefaults returns the configured Vivox issuer and domain, empty when
// voice is not configured.
func VoiceDefaults() (issuer, domain string) {
	if cfg == nil {
		return "", ""
	}
	return cfg.VoiceIssuer, cfg.VoiceDomain
}
