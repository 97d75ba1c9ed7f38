package domain

import (
	"errors"
	"fmt"
)

// Errors are small closed taxonomies, one family per component. Callers
// compare with errors.Is; the engine never aborts the process on bad input.
var (
	// Hand errors.
	ErrNotEnoughCards  = errors.New("hand has fewer than 13 cards")
	ErrTooManyCards    = errors.New("hand has more than 13 cards")
	ErrNoSpadeInHand   = errors.New("hand has no spade")
	ErrNoFaceCardInHand = errors.New("hand has no face card")
	ErrDuplicateCard   = errors.New("hand has a duplicate card")

	// Trick errors.
	ErrTrickFull        = errors.New("trick already has four cards")
	ErrTrickEmpty       = errors.New("trick has no cards")
	ErrTrickMissingCard = errors.New("trick expected a card but found none")

	// Round errors.
	ErrRoundIDTooLarge   = errors.New("round id out of range")
	ErrRoundAlreadyDealt = errors.New("round hands have already been dealt")
	ErrRoundOver         = errors.New("round is over")
	ErrRoundMissingTrick = errors.New("round expected a trick but found none")
	ErrRoundNotCalling  = errors.New("round is not in the call phase")
	ErrRoundNotBreaking = errors.New("round is not in the break phase")

	// Turn errors.
	ErrTurnOutOfRange = errors.New("turn must be a seat in 0..3")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrIllegalBreak   = errors.New("card is not a legal move for this trick")

	// Game errors.
	ErrGameNotAcceptingPlayers = errors.New("game is not accepting players")
	ErrGameWaitingForPlayers   = errors.New("game is waiting for players to join")
	ErrGameOver                = errors.New("game is over")
	ErrPlayerNotFound          = errors.New("player not found in game")

	// Call errors.
	ErrCallTooLow  = errors.New("call is below the minimum of 1")
	ErrCallTooHigh = errors.New("call is above the maximum of 8")

	// Deck errors.
	ErrDealRetriesExhausted = errors.New("deal could not produce four valid hands")
)

// CallRangeError carries the offending bid value alongside the range
// sentinel, so boundaries can echo what the caller sent.
type CallRangeError struct {
	Value int
	Err   error
}

func (e *CallRangeError) Error() string {
	return fmt.Sprintf("%v: %d", e.Err, e.Value)
}

func (e *CallRangeError) Unwrap() error {
	return e.Err
}
