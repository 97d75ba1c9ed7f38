package domain

import "fmt"

// Suit identifies one of the four card suits. The ordering matters: Spades is
// the highest suit and doubles as trump for the whole game.
type Suit int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// Suits lists all suits in ascending order.
func Suits() [4]Suit {
	return [4]Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}
}

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "Clubs"
	case SuitDiamonds:
		return "Diamonds"
	case SuitHearts:
		return "Hearts"
	case SuitSpades:
		return "Spades"
	}
	return fmt.Sprintf("Suit(%d)", int(s))
}

// Rank identifies a card rank, ordered low to high with Ace highest.
type Rank int

const (
	RankTwo Rank = iota
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

// Ranks lists all ranks in ascending order.
func Ranks() [13]Rank {
	return [13]Rank{
		RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
		RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
	}
}

// IsFace reports whether the rank is Jack or above.
func (r Rank) IsFace() bool {
	return r >= RankJack
}

func (r Rank) String() string {
	names := [...]string{
		"Two", "Three", "Four", "Five", "Six", "Seven",
		"Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace",
	}
	if r < RankTwo || r > RankAce {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return names[r]
}

// Card is an immutable (suit, rank) pair. It is a comparable value type;
// equality considers both fields.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
