package domain

import (
	"math/rand"
	"time"
)

// NumCards is the size of a full deck.
const NumCards = 52

// maxDealAttempts bounds the reshuffle loop in Deal. Rejection probability of
// a random partition is low, so hitting this cap indicates a broken RNG
// rather than bad luck.
const maxDealAttempts = 1000

// Deck is a full set of 52 distinct cards. A Deck is created ordered,
// consumed once by Deal, and discarded.
type Deck struct {
	cards [NumCards]Card
	rng   *rand.Rand
}

// NewDeck returns an ordered deck. rng may be nil to use a time-seeded
// source; tests inject a seeded one for reproducible deals.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng}
	idx := 0
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			d.cards[idx] = Card{Suit: suit, Rank: rank}
			idx++
		}
	}
	return d
}

// Cards returns a copy of the deck's current card order.
func (d *Deck) Cards() []Card {
	out := make([]Card, NumCards)
	copy(out, d.cards[:])
	return out
}

// Deal shuffles the deck and partitions it into four contiguous hands of 13.
// If any hand fails validation the whole partition is voided and the full
// deck reshuffled, mirroring the table convention that a hand without a spade
// or a face card voids the entire deal.
func (d *Deck) Deal() ([4]*Hand, error) {
	var hands [4]*Hand
	for attempt := 0; attempt < maxDealAttempts; attempt++ {
		d.rng.Shuffle(NumCards, func(i, j int) {
			d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
		})

		ok := true
		for seat := 0; seat < 4; seat++ {
			hand, err := NewHand(d.cards[seat*13 : (seat+1)*13])
			if err != nil {
				ok = false
				break
			}
			hands[seat] = hand
		}
		if ok {
			return hands, nil
		}
	}
	return hands, ErrDealRetriesExhausted
}
