package domain

// HandSize is the number of cards dealt to each seat.
const HandSize = 13

// Call is a seat's bid for the number of tricks it expects to win, strictly
// within 1..8.
type Call int

// NewCall validates a bid value. Out-of-range values yield a CallRangeError
// wrapping ErrCallTooLow or ErrCallTooHigh.
func NewCall(value int) (Call, error) {
	switch {
	case value < 1:
		return 0, &CallRangeError{Value: value, Err: ErrCallTooLow}
	case value > 8:
		return 0, &CallRangeError{Value: value, Err: ErrCallTooHigh}
	}
	return Call(value), nil
}

type handCard struct {
	card     Card
	playable bool
}

// Hand holds the 13 cards dealt to one seat. The card set never changes for
// the Hand's lifetime; only the per-card playable tag flips as cards are
// committed to tricks.
type Hand struct {
	cards [HandSize]handCard
}

// ValidateHand returns the first violated hand invariant, checked in priority
// order: wrong count, missing spade, missing face card, duplicate card.
func ValidateHand(cards []Card) error {
	switch {
	case len(cards) < HandSize:
		return ErrNotEnoughCards
	case len(cards) > HandSize:
		return ErrTooManyCards
	}

	spades := 0
	faces := 0
	for _, c := range cards {
		if c.Suit == SuitSpades {
			spades++
		}
		if c.Rank.IsFace() {
			faces++
		}
	}
	if spades == 0 {
		return ErrNoSpadeInHand
	}
	if faces == 0 {
		return ErrNoFaceCardInHand
	}

	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i] == cards[j] {
				return ErrDuplicateCard
			}
		}
	}
	return nil
}

// NewHand validates the 13-card sequence and, on success, tags every card
// playable.
func NewHand(cards []Card) (*Hand, error) {
	if err := ValidateHand(cards); err != nil {
		return nil, err
	}
	h := &Hand{}
	for i, c := range cards {
		h.cards[i] = handCard{card: c, playable: true}
	}
	return h, nil
}

// Cards returns the full 13-card composition in deal order.
func (h *Hand) Cards() []Card {
	out := make([]Card, 0, HandSize)
	for _, hc := range h.cards {
		out = append(out, hc.card)
	}
	return out
}

// playables collects the cards not yet committed to a trick.
func (h *Hand) playables() []Card {
	out := make([]Card, 0, HandSize)
	for _, hc := range h.cards {
		if hc.playable {
			out = append(out, hc.card)
		}
	}
	return out
}

// Holds reports whether the card is in this hand and still playable.
func (h *Hand) Holds(card Card) bool {
	for _, hc := range h.cards {
		if hc.playable && hc.card == card {
			return true
		}
	}
	return false
}

// MarkPlayed clears the playable tag on a card once it has been committed to
// a trick, so later legality queries never re-offer it.
func (h *Hand) MarkPlayed(card Card) {
	for i := range h.cards {
		if h.cards[i].card == card {
			h.cards[i].playable = false
			return
		}
	}
}

// ValidCardsFor computes the legal-move set for this hand given the current
// trick: follow suit and beat if you can, else follow suit, else trump, else
// discard anything.
func (h *Hand) ValidCardsFor(trick *Trick) ([]Card, error) {
	playables := h.playables()

	// A full trick means the caller forgot to roll the round forward.
	if _, err := trick.Next(); err != nil {
		return nil, err
	}

	starter, led := trick.Starter()
	if !led {
		// Leading: no suit restriction.
		return playables, nil
	}
	_, winning, err := trick.Winner()
	if err != nil {
		return nil, err
	}

	if starter.Suit != winning.Suit {
		// The trick has been trumped: a spade sits over a non-spade lead.
		// Follow the lead suit if possible, else overtrump, else discard.
		if followers := filterCards(playables, func(c Card) bool {
			return c.Suit == starter.Suit
		}); len(followers) > 0 {
			return followers, nil
		}
		if overtrumps := filterCards(playables, func(c Card) bool {
			return c.Suit == SuitSpades && c.Rank > winning.Rank
		}); len(overtrumps) > 0 {
			return overtrumps, nil
		}
		return playables, nil
	}

	// Not yet trumped: beat within the led suit if possible, else follow,
	// else trump, else discard.
	if beaters := filterCards(playables, func(c Card) bool {
		return c.Suit == winning.Suit && c.Rank > winning.Rank
	}); len(beaters) > 0 {
		return beaters, nil
	}
	if followers := filterCards(playables, func(c Card) bool {
		return c.Suit == starter.Suit
	}); len(followers) > 0 {
		return followers, nil
	}
	if spades := filterCards(playables, func(c Card) bool {
		return c.Suit == SuitSpades
	}); len(spades) > 0 {
		return spades, nil
	}
	return playables, nil
}

func filterCards(cards []Card, keep func(Card) bool) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
