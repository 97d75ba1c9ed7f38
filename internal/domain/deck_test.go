package domain

import (
	"math/rand"
	"testing"
)

func TestNewDeckHasAllCards(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	cards := deck.Cards()
	if len(cards) != NumCards {
		t.Fatalf("deck size = %d, want %d", len(cards), NumCards)
	}

	seen := make(map[Card]bool, NumCards)
	for _, c := range cards {
		if seen[c] {
			t.Fatalf("duplicate card in fresh deck: %s", c)
		}
		seen[c] = true
	}
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			if !seen[(Card{Suit: suit, Rank: rank})] {
				t.Fatalf("missing card: %s of %s", rank, suit)
			}
		}
	}
}

func TestDealProducesFourValidHands(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		deck := NewDeck(rand.New(rand.NewSource(seed)))
		hands, err := deck.Deal()
		if err != nil {
			t.Fatalf("seed %d: deal error: %v", seed, err)
		}

		seen := make(map[Card]bool, NumCards)
		for seat, hand := range hands {
			cards := hand.Cards()
			if err := ValidateHand(cards); err != nil {
				t.Fatalf("seed %d seat %d: dealt hand invalid: %v", seed, seat, err)
			}
			for _, c := range cards {
				if seen[c] {
					t.Fatalf("seed %d: card %s dealt twice", seed, c)
				}
				seen[c] = true
			}
		}
		if len(seen) != NumCards {
			t.Fatalf("seed %d: deal covered %d cards, want %d", seed, len(seen), NumCards)
		}
	}
}
