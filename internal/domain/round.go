package domain

import "math/rand"

const (
	// NumSeats is the number of players at the table.
	NumSeats = 4
	// TricksPerRound is the number of tricks played after the call phase.
	TricksPerRound = 13
	// MaxRounds is the number of rounds in a full game.
	MaxRounds = 5
)

// RoundID indexes one of the five rounds in a game. The round's lead seat is
// derived from it (id % 4) so the lead rotates each round.
type RoundID int

// NewRoundID validates a round index.
func NewRoundID(value int) (RoundID, error) {
	if value < 0 || value >= MaxRounds {
		return 0, ErrRoundIDTooLarge
	}
	return RoundID(value), nil
}

// RoundPhase is the lifecycle stage of a round.
type RoundPhase string

const (
	// RoundPhaseCall is the bidding stage before any card is played.
	RoundPhaseCall RoundPhase = "call"
	// RoundPhaseBreak is the trick-taking stage.
	RoundPhaseBreak RoundPhase = "break"
)

// Round runs one deal-call-play cycle: a call phase gathering four bids, then
// thirteen tricks. Not safe for concurrent use; callers serialize access.
type Round struct {
	id     RoundID
	phase  RoundPhase
	hands  [NumSeats]*Hand
	calls  [NumSeats]*Call
	tricks []*Trick
}

// NewRound creates an undealt round in the call phase. Call Deal before use.
func NewRound(id RoundID) *Round {
	return &Round{
		id:     id,
		phase:  RoundPhaseCall,
		tricks: make([]*Trick, 0, TricksPerRound),
	}
}

// Deal shuffles a fresh deck into the round's four hands. Dealing twice is an
// error; the hand composition is fixed for the round's lifetime.
func (r *Round) Deal(rng *rand.Rand) error {
	if r.hands[0] != nil {
		return ErrRoundAlreadyDealt
	}
	hands, err := NewDeck(rng).Deal()
	if err != nil {
		return err
	}
	r.hands = hands
	return nil
}

// ID returns the round's index in the game.
func (r *Round) ID() RoundID {
	return r.id
}

// Phase returns the current phase tag.
func (r *Round) Phase() RoundPhase {
	return r.phase
}

// lead is the seat that opens both the call phase and the first trick.
func (r *Round) lead() Turn {
	return Turn(int(r.id) % NumSeats)
}

// Call returns the bid recorded for the seat, if any.
func (r *Round) Call(seat Turn) (Call, bool) {
	if c := r.calls[seat]; c != nil {
		return *c, true
	}
	return 0, false
}

// HandCards returns a copy of the seat's dealt cards.
func (r *Round) HandCards(seat Turn) []Card {
	if r.hands[seat] == nil {
		return nil
	}
	return r.hands[seat].Cards()
}

// CurrentTrick returns the trick in progress, if one exists.
func (r *Round) CurrentTrick() (*Trick, bool) {
	if len(r.tricks) == 0 {
		return nil, false
	}
	return r.tricks[len(r.tricks)-1], true
}

// TrickCount returns how many tricks have been started.
func (r *Round) TrickCount() int {
	return len(r.tricks)
}

// Next reports whose turn it is and rolls the round's bookkeeping forward:
// during the call phase it returns the first seat (scanning cyclically from
// the lead) without a recorded call, flipping to the break phase once all
// four calls are in; during the break phase it creates tricks lazily, each
// led by the previous trick's winner. Once the thirteenth trick is full the
// round terminally reports ErrRoundOver.
func (r *Round) Next() (Turn, error) {
	if r.phase == RoundPhaseCall {
		seat := r.lead()
		for i := 0; i < NumSeats; i++ {
			if r.calls[seat] == nil {
				return seat, nil
			}
			seat = seat.Advance()
		}
		r.phase = RoundPhaseBreak
	}

	if len(r.tricks) == 0 {
		next := r.lead()
		r.tricks = append(r.tricks, NewTrick(next))
		return next, nil
	}

	last := r.tricks[len(r.tricks)-1]
	if last.IsFull() {
		if len(r.tricks) == TricksPerRound {
			return 0, ErrRoundOver
		}
		winner, _, err := last.Winner()
		if err != nil {
			return 0, err
		}
		r.tricks = append(r.tricks, NewTrick(winner))
		return winner, nil
	}
	return last.Next()
}

// LegalMoves computes the seat's legal-move set against the current trick,
// rolling the round forward first so a fresh trick exists when needed.
func (r *Round) LegalMoves(seat Turn) ([]Card, error) {
	if _, err := r.Next(); err != nil {
		return nil, err
	}
	if r.phase != RoundPhaseBreak {
		return nil, ErrRoundNotBreaking
	}
	trick, ok := r.CurrentTrick()
	if !ok {
		return nil, ErrRoundMissingTrick
	}
	return r.hands[seat].ValidCardsFor(trick)
}

// MakeCall records the seat's bid. The seat must be next to act and the
// round must still be in the call phase.
func (r *Round) MakeCall(turn Turn, call Call) error {
	next, err := r.Next()
	if err != nil {
		return err
	}
	if r.phase != RoundPhaseCall {
		return ErrRoundNotCalling
	}
	if next != turn {
		return ErrNotYourTurn
	}
	r.calls[turn] = &call
	return nil
}

// MakeBreak plays a card into the current trick. The seat must be next to
// act, the round must be in the break phase, and the card must be in the
// seat's legal-move set. The card's playable tag is cleared on success.
func (r *Round) MakeBreak(turn Turn, card Card) error {
	next, err := r.Next()
	if err != nil {
		return err
	}
	if r.phase != RoundPhaseBreak {
		return ErrRoundNotBreaking
	}
	if next != turn {
		return ErrNotYourTurn
	}
	trick, ok := r.CurrentTrick()
	if !ok {
		return ErrRoundMissingTrick
	}
	moves, err := r.hands[turn].ValidCardsFor(trick)
	if err != nil {
		return err
	}
	legal := false
	for _, m := range moves {
		if m == card {
			legal = true
			break
		}
	}
	if !legal {
		return ErrIllegalBreak
	}
	if err := trick.Add(card); err != nil {
		return err
	}
	r.hands[turn].MarkPlayed(card)
	return nil
}
