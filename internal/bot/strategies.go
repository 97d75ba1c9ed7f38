package bot

import "callbreak/internal/domain"

// EasyBot bids the minimum and sheds its cheapest legal card every trick.
type EasyBot struct{}

func (b *EasyBot) Call(hand []domain.Card) int {
	return 1
}

func (b *EasyBot) Break(legal []domain.Card, trick *domain.Trick) domain.Card {
	return lowestCard(legal)
}

// SmartBot estimates its trick count from trump length and off-suit honors,
// and during play spends the cheapest card that takes the trick, discarding
// low when it cannot win.
type SmartBot struct{}

func (b *SmartBot) Call(hand []domain.Card) int {
	score := 0
	spades := 0
	for _, c := range hand {
		if c.Suit == domain.SuitSpades {
			spades++
			if c.Rank >= domain.RankTen {
				score++
			}
			continue
		}
		if c.Rank >= domain.RankKing {
			score++
		}
	}
	// Long trump suits win extra tricks beyond their honors.
	if spades > 4 {
		score += spades - 4
	}
	if score < 1 {
		return 1
	}
	if score > 8 {
		return 8
	}
	return score
}

func (b *SmartBot) Break(legal []domain.Card, trick *domain.Trick) domain.Card {
	winCard, contested := currentWinner(trick)
	if !contested {
		// Leading: open cheap and keep trumps back.
		return lowestCard(legal)
	}

	cheapest := domain.Card{}
	found := false
	for _, c := range legal {
		if !beats(c, winCard) {
			continue
		}
		if !found || ranksBelow(c, cheapest) {
			cheapest = c
			found = true
		}
	}
	if found {
		return cheapest
	}
	return lowestCard(legal)
}

func currentWinner(trick *domain.Trick) (domain.Card, bool) {
	if trick == nil {
		return domain.Card{}, false
	}
	_, winCard, err := trick.Winner()
	if err != nil {
		return domain.Card{}, false
	}
	return winCard, true
}

func beats(c, winner domain.Card) bool {
	if c.Suit == winner.Suit {
		return c.Rank > winner.Rank
	}
	return c.Suit == domain.SuitSpades && winner.Suit != domain.SuitSpades
}

// ranksBelow orders by rank first so a cheap trump is preferred over a high
// follow, then keeps spades as the last resort within a rank.
func ranksBelow(a, b domain.Card) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Suit < b.Suit
}

func lowestCard(cards []domain.Card) domain.Card {
	lowest := cards[0]
	for _, c := range cards[1:] {
		if ranksBelow(c, lowest) {
			lowest = c
		}
	}
	return lowest
}
