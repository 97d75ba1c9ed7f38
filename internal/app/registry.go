package app

import (
	"errors"
	"sync"

	"callbreak/internal/domain"
)

// ErrGameNotFound is returned for operations keyed by an unknown game id.
var ErrGameNotFound = errors.New("game not found")

type gameEntry struct {
	mu   sync.Mutex
	game *domain.Game
}

// Registry keys live games by id and serializes all mutations per game, so
// concurrent callers acting on the same table never interleave inside the
// rules engine. Games for different ids proceed in parallel.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*gameEntry
	svc   *Service
}

// NewRegistry constructs an empty registry over the given service.
func NewRegistry(svc *Service) *Registry {
	return &Registry{
		games: make(map[string]*gameEntry),
		svc:   svc,
	}
}

// CreateGame mints a new game and seats its creator. Returns the game id and
// the join events.
func (r *Registry) CreateGame(creatorID string) (string, []Event, error) {
	r.mu.Lock()
	game := r.svc.NewGame() // under the lock; the service rng is not goroutine safe
	r.games[game.ID()] = &gameEntry{game: game}
	r.mu.Unlock()

	events, err := r.Join(game.ID(), creatorID)
	return game.ID(), events, err
}

// Join seats a player at the identified table.
func (r *Registry) Join(gameID, userID string) ([]Event, error) {
	return r.withGame(gameID, func(game *domain.Game) ([]Event, error) {
		return r.svc.Join(game, userID)
	})
}

// MakeCall records a bid at the identified table.
func (r *Registry) MakeCall(gameID, userID string, value int) ([]Event, error) {
	return r.withGame(gameID, func(game *domain.Game) ([]Event, error) {
		return r.svc.MakeCall(game, userID, value)
	})
}

// PlayCard plays a card at the identified table.
func (r *Registry) PlayCard(gameID, userID string, card domain.Card) ([]Event, error) {
	return r.withGame(gameID, func(game *domain.Game) ([]Event, error) {
		return r.svc.PlayCard(game, userID, card)
	})
}

// View runs fn against the identified game under its lock. fn must not retain
// the game past the call.
func (r *Registry) View(gameID string, fn func(*domain.Game) error) error {
	_, err := r.withGame(gameID, func(game *domain.Game) ([]Event, error) {
		return nil, fn(game)
	})
	return err
}

// Remove drops a finished or abandoned game from the registry.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	delete(r.games, gameID)
	r.mu.Unlock()
}

// Len reports how many games are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

func (r *Registry) withGame(gameID string, fn func(*domain.Game) ([]Event, error)) ([]Event, error) {
	r.mu.RLock()
	entry, ok := r.games[gameID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.game)
}
