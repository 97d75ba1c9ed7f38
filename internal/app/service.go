package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"callbreak/internal/domain"
)

// Service contains Call Break use-cases operating on domain state. Each method
// applies one player action and returns the events the transport should
// dispatch. The Service itself holds no game state and is safe to share; the
// caller serializes access per game.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// NewGame creates a game with its own rng stream so concurrent tables do not
// contend on the service rng.
func (s *Service) NewGame() *domain.Game {
	return domain.NewGame(rand.New(rand.NewSource(s.rng.Int63())))
}

// Join seats a player. When the fourth seat fills, the first round is dealt
// and the start events (including private hand_dealt messages) are emitted.
func (s *Service) Join(game *domain.Game, userID string) ([]Event, error) {
	if err := game.AddPlayer(domain.PlayerInfo{ID: userID}); err != nil {
		return nil, err
	}

	players := game.Players()
	events := []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			UserID:  userID,
			Seated:  len(players),
			Waiting: domain.NumSeats - len(players),
		},
	}}

	if game.State() != domain.GamePhasePlay {
		return events, nil
	}

	round, ok := game.CurrentRound()
	if !ok {
		return events, fmt.Errorf("game %s is playing without a round", game.ID())
	}
	players = game.Players() // final seat order after the last reshuffle
	seats := make([]string, len(players))
	for i, p := range players {
		seats[i] = p.ID
	}
	events = append(events,
		Event{
			Kind:    EventGameStarted,
			Payload: GameStartedPayload{GameID: game.ID(), Seats: seats},
		},
		Event{
			Kind: EventRoundStarted,
			Payload: RoundStartedPayload{
				Round:      int(round.ID()),
				LeadUserID: seats[int(round.ID())%domain.NumSeats],
			},
		},
	)
	return append(events, s.dealEvents(game, round)...), nil
}

// MakeCall records a player's bid for the current round.
func (s *Service) MakeCall(game *domain.Game, userID string, value int) ([]Event, error) {
	call, err := domain.NewCall(value)
	if err != nil {
		return nil, err
	}
	if err := game.MakeCall(domain.PlayerInfo{ID: userID}, call); err != nil {
		return nil, err
	}
	next, err := game.NextTurn()
	if err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventCallMade,
		Payload: CallMadePayload{
			UserID:     userID,
			Call:       value,
			NextUserID: s.seatUser(game, next),
		},
	}}, nil
}

// PlayCard plays a card into the current trick and emits the follow-up
// events: trick_won when the trick completes, round_ended plus the next
// round's start events when the thirteenth trick completes, and game_ended
// after the final round.
func (s *Service) PlayCard(game *domain.Game, userID string, card domain.Card) ([]Event, error) {
	round, ok := game.CurrentRound()
	if !ok {
		return nil, domain.ErrGameWaitingForPlayers
	}
	if err := game.MakeBreak(domain.PlayerInfo{ID: userID}, card); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{UserID: userID, Card: card},
	}}

	if trick, ok := round.CurrentTrick(); ok && trick.IsFull() {
		winSeat, winCard, err := trick.Winner()
		if err != nil {
			return events, err
		}
		events = append(events, Event{
			Kind: EventTrickWon,
			Payload: TrickWonPayload{
				UserID: s.seatUser(game, winSeat),
				Card:   winCard,
				Trick:  round.TrickCount(),
			},
		})
	}

	prevRounds := game.RoundCount()
	next, err := game.NextTurn()
	switch {
	case errors.Is(err, domain.ErrGameOver):
		return append(events,
			Event{
				Kind:    EventRoundEnded,
				Payload: RoundEndedPayload{Round: int(round.ID())},
			},
			Event{
				Kind:    EventGameEnded,
				Payload: GameEndedPayload{GameID: game.ID(), Rounds: game.RoundCount()},
			},
		), nil
	case err != nil:
		return events, err
	}

	if game.RoundCount() > prevRounds {
		nextRound, ok := game.CurrentRound()
		if !ok {
			return events, fmt.Errorf("game %s rolled rounds without a round", game.ID())
		}
		events = append(events,
			Event{
				Kind:    EventRoundEnded,
				Payload: RoundEndedPayload{Round: int(round.ID())},
			},
			Event{
				Kind: EventRoundStarted,
				Payload: RoundStartedPayload{
					Round:      int(nextRound.ID()),
					LeadUserID: s.seatUser(game, next),
				},
			},
		)
		return append(events, s.dealEvents(game, nextRound)...), nil
	}

	played := events[0].Payload.(CardPlayedPayload)
	played.NextUserID = s.seatUser(game, next)
	events[0].Payload = played
	return events, nil
}

func (s *Service) dealEvents(game *domain.Game, round *domain.Round) []Event {
	players := game.Players()
	events := make([]Event, 0, len(players))
	for i, p := range players {
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: p.ID,
				Round:  int(round.ID()),
				Cards:  round.HandCards(domain.Turn(i)),
			},
			Recipients: []string{p.ID},
		})
	}
	return events
}

func (s *Service) seatUser(game *domain.Game, turn domain.Turn) string {
	players := game.Players()
	if int(turn) < len(players) {
		return players[turn].ID
	}
	return ""
}
