package domain

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GamePhase is the lifecycle stage of a game, derived from player count and
// round progress rather than stored.
type GamePhase string

const (
	// GamePhaseJoin is the stage where seats are still being filled.
	GamePhaseJoin GamePhase = "join"
	// GamePhasePlay is the stage where rounds are in progress.
	GamePhasePlay GamePhase = "play"
	// GamePhaseOver is the terminal stage after five rounds.
	GamePhaseOver GamePhase = "over"
)

// PlayerInfo is an opaque player identity. Only the identifier is carried so
// game-state payloads never leak display names.
type PlayerInfo struct {
	ID string
}

// Game drives the join phase and a sequence of up to five rounds, mapping
// player identity to seat index. Not safe for concurrent use; callers hold a
// per-game lock (see app.Registry).
type Game struct {
	id      string
	rng     *rand.Rand
	players []PlayerInfo
	rounds  []*Round
}

// NewGame creates an empty game with a fresh identifier. rng may be nil to
// use a time-seeded source.
func NewGame(rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		id:  uuid.NewString(),
		rng: rng,
	}
}

// ID returns the game's opaque identifier.
func (g *Game) ID() string {
	return g.id
}

// Players returns the joined players in seat order.
func (g *Game) Players() []PlayerInfo {
	out := make([]PlayerInfo, len(g.players))
	copy(out, g.players)
	return out
}

// RoundCount returns how many rounds have been started.
func (g *Game) RoundCount() int {
	return len(g.rounds)
}

// CurrentRound returns the round in progress, if any.
func (g *Game) CurrentRound() (*Round, bool) {
	if len(g.rounds) == 0 {
		return nil, false
	}
	return g.rounds[len(g.rounds)-1], true
}

// next derives the game phase and rolls rounds forward: it starts round 0
// once four players are seated and replaces a finished round with the next
// one, up to five rounds total.
func (g *Game) next() (GamePhase, error) {
	if len(g.players) != NumSeats {
		return GamePhaseJoin, nil
	}

	if len(g.rounds) == 0 {
		if err := g.startRound(0); err != nil {
			return GamePhasePlay, err
		}
	}

	_, err := g.rounds[len(g.rounds)-1].Next()
	switch {
	case err == nil:
		return GamePhasePlay, nil
	case errors.Is(err, ErrRoundOver):
		if len(g.rounds) == MaxRounds {
			return GamePhaseOver, ErrGameOver
		}
		if err := g.startRound(len(g.rounds)); err != nil {
			return GamePhasePlay, err
		}
		return GamePhasePlay, nil
	default:
		return GamePhasePlay, err
	}
}

func (g *Game) startRound(index int) error {
	id, err := NewRoundID(index)
	if err != nil {
		return err
	}
	round := NewRound(id)
	if err := round.Deal(g.rng); err != nil {
		return err
	}
	g.rounds = append(g.rounds, round)
	return nil
}

// State reports the derived game phase without surfacing transition errors.
func (g *Game) State() GamePhase {
	phase, _ := g.next()
	return phase
}

// AddPlayer seats a player while the game is still joining. Seat order is
// reshuffled on every join so the final assignment is not predictable from
// join order.
func (g *Game) AddPlayer(player PlayerInfo) error {
	phase, err := g.next()
	if err != nil {
		return err
	}
	if phase != GamePhaseJoin {
		return ErrGameNotAcceptingPlayers
	}
	g.players = append(g.players, player)
	g.rng.Shuffle(len(g.players), func(i, j int) {
		g.players[i], g.players[j] = g.players[j], g.players[i]
	})
	return nil
}

// PlayerTurn resolves a player identity to its seat index.
func (g *Game) PlayerTurn(player PlayerInfo) (Turn, error) {
	for i, p := range g.players {
		if p == player {
			return NewTurn(i)
		}
	}
	return 0, ErrPlayerNotFound
}

// NextTurn reports whose turn it is in the current round.
func (g *Game) NextTurn() (Turn, error) {
	if _, err := g.next(); err != nil {
		return 0, err
	}
	round, ok := g.CurrentRound()
	if !ok {
		return 0, ErrGameWaitingForPlayers
	}
	return round.Next()
}

// MakeCall records the player's bid in the current round.
func (g *Game) MakeCall(player PlayerInfo, call Call) error {
	phase, err := g.next()
	if err != nil {
		return err
	}
	if phase != GamePhasePlay {
		return ErrGameWaitingForPlayers
	}
	turn, err := g.PlayerTurn(player)
	if err != nil {
		return err
	}
	return g.rounds[len(g.rounds)-1].MakeCall(turn, call)
}

// MakeBreak plays the player's card into the current round's trick.
func (g *Game) MakeBreak(player PlayerInfo, card Card) error {
	phase, err := g.next()
	if err != nil {
		return err
	}
	if phase != GamePhasePlay {
		return ErrGameWaitingForPlayers
	}
	turn, err := g.PlayerTurn(player)
	if err != nil {
		return err
	}
	return g.rounds[len(g.rounds)-1].MakeBreak(turn, card)
}
