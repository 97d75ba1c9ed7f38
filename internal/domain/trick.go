package domain

// Turn is a seat index in 0..3. Advancing wraps modulo 4.
type Turn int

// NewTurn validates a seat index.
func NewTurn(value int) (Turn, error) {
	if value < 0 || value > 3 {
		return 0, ErrTurnOutOfRange
	}
	return Turn(value), nil
}

// Advance returns the following seat, wrapping after seat 3.
func (t Turn) Advance() Turn {
	return (t + 1) % 4
}

// Trick is one exchange of up to four cards, one per seat, starting from a
// designated lead seat. Cards are appended in turn order; once full the trick
// is only consulted for its winner.
type Trick struct {
	start Turn
	cards [4]*Card
}

// NewTrick creates an empty trick led by the given seat.
func NewTrick(start Turn) *Trick {
	return &Trick{start: start}
}

// Lead returns the seat that leads this trick.
func (t *Trick) Lead() Turn {
	return t.start
}

// IsFull reports whether all four seats have played.
func (t *Trick) IsFull() bool {
	for _, c := range t.cards {
		if c == nil {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no seat has played yet.
func (t *Trick) IsEmpty() bool {
	for _, c := range t.cards {
		if c != nil {
			return false
		}
	}
	return true
}

// Next returns the next unfilled seat scanning cyclically from the lead.
// A full trick yields ErrTrickFull.
func (t *Trick) Next() (Turn, error) {
	if t.IsFull() {
		return 0, ErrTrickFull
	}
	next := t.start
	for t.cards[next] != nil {
		next = next.Advance()
	}
	return next, nil
}

// Add places card in the slot for Next()'s seat. Legality against the
// player's hand is the round's responsibility, not the trick's.
func (t *Trick) Add(card Card) error {
	next, err := t.Next()
	if err != nil {
		return err
	}
	t.cards[next] = &card
	return nil
}

// Card returns the card played by the given seat, if any.
func (t *Trick) Card(seat Turn) (Card, bool) {
	if c := t.cards[seat]; c != nil {
		return *c, true
	}
	return Card{}, false
}

// Starter returns the lead seat's card. ok is false while the lead has not
// played, meaning the trick imposes no suit restriction yet.
func (t *Trick) Starter() (Card, bool) {
	if c := t.cards[t.start]; c != nil {
		return *c, true
	}
	return Card{}, false
}

// Winner resolves the currently winning (seat, card) pair. Starting from the
// lead card, a later card overtakes when it follows the provisional winner's
// suit with a higher rank, or when it is a spade and the provisional winner
// is not. A spade winner can only be beaten by a higher spade.
func (t *Trick) Winner() (Turn, Card, error) {
	if t.IsEmpty() {
		return 0, Card{}, ErrTrickEmpty
	}
	lead := t.cards[t.start]
	if lead == nil {
		return 0, Card{}, ErrTrickMissingCard
	}

	winSeat, winCard := t.start, *lead
	seat := t.start
	for i := 1; i < 4; i++ {
		seat = seat.Advance()
		c := t.cards[seat]
		if c == nil {
			return winSeat, winCard, nil
		}
		sameSuitHigher := c.Suit == winCard.Suit && c.Rank > winCard.Rank
		trumps := c.Suit == SuitSpades && winCard.Suit != SuitSpades
		if sameSuitHigher || trumps {
			winSeat, winCard = seat, *c
		}
	}
	return winSeat, winCard, nil
}
