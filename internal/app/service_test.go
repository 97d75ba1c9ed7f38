package app

import (
	"errors"
	"math/rand"
	"testing"

	"callbreak/internal/domain"
)

func seatFour(t *testing.T, svc *Service, game *domain.Game) []string {
	t.Helper()
	var last []Event
	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		evs, err := svc.Join(game, id)
		if err != nil {
			t.Fatalf("Join(%s) error: %v", id, err)
		}
		last = evs
	}

	for _, ev := range last {
		if ev.Kind == EventGameStarted {
			return ev.Payload.(GameStartedPayload).Seats
		}
	}
	t.Fatal("fourth join emitted no game_started event")
	return nil
}

func TestJoinEmitsStartEventsOnFourthSeat(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)))
	game := svc.NewGame()

	evs, err := svc.Join(game, "u1")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if len(evs) != 1 || evs[0].Kind != EventPlayerJoined {
		t.Fatalf("first join events = %v, want single player_joined", evs)
	}
	joined := evs[0].Payload.(PlayerJoinedPayload)
	if joined.Seated != 1 || joined.Waiting != 3 {
		t.Fatalf("payload = %+v, want seated 1 waiting 3", joined)
	}

	for _, id := range []string{"u2", "u3"} {
		if _, err := svc.Join(game, id); err != nil {
			t.Fatalf("Join(%s) error: %v", id, err)
		}
	}

	evs, err = svc.Join(game, "u4")
	if err != nil {
		t.Fatalf("Join(u4) error: %v", err)
	}

	kinds := map[EventKind]int{}
	for _, ev := range evs {
		kinds[ev.Kind]++
	}
	if kinds[EventPlayerJoined] != 1 || kinds[EventGameStarted] != 1 ||
		kinds[EventRoundStarted] != 1 || kinds[EventHandDealt] != 4 {
		t.Fatalf("fourth join event kinds = %v", kinds)
	}

	for _, ev := range evs {
		if ev.Kind != EventHandDealt {
			continue
		}
		payload := ev.Payload.(HandDealtPayload)
		if len(payload.Cards) != domain.HandSize {
			t.Errorf("hand size = %d, want %d", len(payload.Cards), domain.HandSize)
		}
		if len(ev.Recipients) != 1 || ev.Recipients[0] != payload.UserID {
			t.Errorf("hand for %s sent to %v, want private delivery", payload.UserID, ev.Recipients)
		}
	}
}

func TestMakeCallEmitsNextActor(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game := svc.NewGame()
	seats := seatFour(t, svc, game)

	evs, err := svc.MakeCall(game, seats[0], 3)
	if err != nil {
		t.Fatalf("MakeCall error: %v", err)
	}
	if len(evs) != 1 || evs[0].Kind != EventCallMade {
		t.Fatalf("events = %v, want single call_made", evs)
	}
	payload := evs[0].Payload.(CallMadePayload)
	if payload.UserID != seats[0] || payload.Call != 3 {
		t.Errorf("payload = %+v", payload)
	}
	if payload.NextUserID != seats[1] {
		t.Errorf("next actor = %s, want %s", payload.NextUserID, seats[1])
	}
}

func TestMakeCallRejectsOutOfRangeValue(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game := svc.NewGame()
	seats := seatFour(t, svc, game)

	if _, err := svc.MakeCall(game, seats[0], 9); !errors.Is(err, domain.ErrCallTooHigh) {
		t.Errorf("MakeCall(9) = %v, want ErrCallTooHigh", err)
	}
	if _, err := svc.MakeCall(game, seats[0], 0); !errors.Is(err, domain.ErrCallTooLow) {
		t.Errorf("MakeCall(0) = %v, want ErrCallTooLow", err)
	}
}

func TestPlayCardRejectsIllegalCard(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(11)))
	game := svc.NewGame()
	seats := seatFour(t, svc, game)

	for _, id := range seats {
		if _, err := svc.MakeCall(game, id, 2); err != nil {
			t.Fatalf("MakeCall(%s) error: %v", id, err)
		}
	}

	round, _ := game.CurrentRound()
	// The lead may play anything it holds, so seat 1's card is illegal.
	foreign := round.HandCards(1)[0]
	if _, err := svc.PlayCard(game, seats[0], foreign); !errors.Is(err, domain.ErrIllegalBreak) {
		t.Errorf("PlayCard with foreign card = %v, want ErrIllegalBreak", err)
	}
}

// playGame drives a seated game to completion and returns every emitted event.
func playGame(t *testing.T, svc *Service, game *domain.Game, seats []string) []Event {
	t.Helper()
	var all []Event
	for roundIdx := 0; roundIdx < domain.MaxRounds; roundIdx++ {
		for bid := 0; bid < domain.NumSeats; bid++ {
			turn, err := game.NextTurn()
			if err != nil {
				t.Fatalf("round %d: NextTurn error: %v", roundIdx, err)
			}
			evs, err := svc.MakeCall(game, seats[turn], 2)
			if err != nil {
				t.Fatalf("round %d: MakeCall error: %v", roundIdx, err)
			}
			all = append(all, evs...)
		}
		for play := 0; play < domain.NumSeats*domain.TricksPerRound; play++ {
			turn, err := game.NextTurn()
			if err != nil {
				t.Fatalf("round %d play %d: NextTurn error: %v", roundIdx, play, err)
			}
			round, _ := game.CurrentRound()
			moves, err := round.LegalMoves(turn)
			if err != nil {
				t.Fatalf("round %d play %d: LegalMoves error: %v", roundIdx, play, err)
			}
			evs, err := svc.PlayCard(game, seats[turn], moves[0])
			if err != nil {
				t.Fatalf("round %d play %d: PlayCard error: %v", roundIdx, play, err)
			}
			all = append(all, evs...)
		}
	}
	return all
}

func TestPlayCardEmitsTrickRoundAndGameLifecycle(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(21)))
	game := svc.NewGame()
	seats := seatFour(t, svc, game)

	all := playGame(t, svc, game, seats)

	kinds := map[EventKind]int{}
	for _, ev := range all {
		kinds[ev.Kind]++
	}
	if got := kinds[EventCardPlayed]; got != domain.MaxRounds*domain.NumSeats*domain.TricksPerRound {
		t.Errorf("card_played events = %d, want %d", got, domain.MaxRounds*domain.NumSeats*domain.TricksPerRound)
	}
	if got := kinds[EventTrickWon]; got != domain.MaxRounds*domain.TricksPerRound {
		t.Errorf("trick_won events = %d, want %d", got, domain.MaxRounds*domain.TricksPerRound)
	}
	if got := kinds[EventRoundEnded]; got != domain.MaxRounds {
		t.Errorf("round_ended events = %d, want %d", got, domain.MaxRounds)
	}
	// Rounds 1..4 start mid-game; round 0 starts from the fourth join.
	if got := kinds[EventRoundStarted]; got != domain.MaxRounds-1 {
		t.Errorf("round_started events = %d, want %d", got, domain.MaxRounds-1)
	}
	if got := kinds[EventGameEnded]; got != 1 {
		t.Errorf("game_ended events = %d, want 1", got)
	}
	if got := kinds[EventHandDealt]; got != (domain.MaxRounds-1)*domain.NumSeats {
		t.Errorf("hand_dealt events = %d, want %d", got, (domain.MaxRounds-1)*domain.NumSeats)
	}

	if game.State() != domain.GamePhaseOver {
		t.Errorf("State() = %q, want %q", game.State(), domain.GamePhaseOver)
	}
	last := all[len(all)-1]
	if last.Kind != EventGameEnded {
		t.Errorf("final event = %s, want %s", last.Kind, EventGameEnded)
	}
	ended := last.Payload.(GameEndedPayload)
	if ended.GameID != game.ID() || ended.Rounds != domain.MaxRounds {
		t.Errorf("game_ended payload = %+v", ended)
	}
}
