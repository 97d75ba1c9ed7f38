package bot

import "fmt"

// NewBrain creates a strategy for the given level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return &EasyBot{}, nil
	case BotLevelSmart:
		return &SmartBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent creates an agent for a provisioned bot user id, picking the
// strategy from the identity's difficulty.
func NewAgent(userID string) (*Agent, error) {
	identity, ok := GetBotConfig(userID)
	if !ok {
		return nil, fmt.Errorf("unknown bot user id: %s", userID)
	}

	level := BotLevelEasy
	if identity.Difficulty == "smart" {
		level = BotLevelSmart
	}
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}

	return &Agent{
		ID:       userID,
		Name:     identity.Username,
		Strategy: brain,
	}, nil
}
