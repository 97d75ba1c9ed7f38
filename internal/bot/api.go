package bot

import "callbreak/internal/domain"

// Move is one decision by a bot: a bid during the call phase or a card during
// the break phase.
type Move struct {
	IsCall bool
	Call   int
	Card   domain.Card
}

// Brain is the interface all bot strategies implement. Call receives the
// bot's dealt hand; Break receives the legal-move set, never empty, and the
// trick in progress.
type Brain interface {
	Call(hand []domain.Card) int
	Break(legal []domain.Card, trick *domain.Trick) domain.Card
}

// BotLevel selects a strategy strength.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelSmart
)
