package bot

import (
	"fmt"

	"callbreak/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to decide its move for the current game state. It is
// the caller's responsibility to only invoke Play on the agent's turn.
func (a *Agent) Play(game *domain.Game) (Move, error) {
	turn, err := game.PlayerTurn(domain.PlayerInfo{ID: a.ID})
	if err != nil {
		return Move{}, fmt.Errorf("agent %s is not seated: %w", a.ID, err)
	}

	next, err := game.NextTurn()
	if err != nil {
		return Move{}, err
	}
	if next != turn {
		return Move{}, domain.ErrNotYourTurn
	}

	round, ok := game.CurrentRound()
	if !ok {
		return Move{}, domain.ErrGameWaitingForPlayers
	}

	if round.Phase() == domain.RoundPhaseCall {
		return Move{
			IsCall: true,
			Call:   a.Strategy.Call(round.HandCards(turn)),
		}, nil
	}

	legal, err := round.LegalMoves(turn)
	if err != nil {
		return Move{}, err
	}
	trick, _ := round.CurrentTrick()
	return Move{Card: a.Strategy.Break(legal, trick)}, nil
}
