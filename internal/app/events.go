package app

import "callbreak/internal/domain"

// EventKind identifies emitted game events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventGameStarted  EventKind = "game_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventCallMade     EventKind = "call_made"
	EventCardPlayed   EventKind = "card_played"
	EventTrickWon     EventKind = "trick_won"
	EventRoundStarted EventKind = "round_started"
	EventRoundEnded   EventKind = "round_ended"
	EventGameEnded    EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	// DisplayName is filled by the transport, which knows presence usernames
	// and the bot pool.
	DisplayName string `json:"display_name,omitempty"`
	Seated      int    `json:"seated"`
	Waiting     int    `json:"waiting"`
}

type GameStartedPayload struct {
	GameID string   `json:"game_id"`
	Seats  []string `json:"seats"`
}

// HandDealtPayload is always sent privately to its owner.
type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Round  int           `json:"round"`
	Cards  []domain.Card `json:"cards"`
}

type RoundStartedPayload struct {
	Round      int    `json:"round"`
	LeadUserID string `json:"lead_user_id"`
}

type CallMadePayload struct {
	UserID     string `json:"user_id"`
	Call       int    `json:"call"`
	NextUserID string `json:"next_user_id"`
}

type CardPlayedPayload struct {
	UserID     string      `json:"user_id"`
	Card       domain.Card `json:"card"`
	NextUserID string      `json:"next_user_id,omitempty"`
}

type TrickWonPayload struct {
	UserID string      `json:"user_id"`
	Card   domain.Card `json:"card"`
	Trick  int         `json:"trick"`
}

type RoundEndedPayload struct {
	Round int `json:"round"`
}

type GameEndedPayload struct {
	GameID string `json:"game_id"`
	Rounds int    `json:"rounds"`
}
