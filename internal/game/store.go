package game

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store manages active games in memory. It provides thread-safe access to
// add, retrieve, and delete game instances.
type Store struct {
	mu    sync.Mutex
	games map[uuid.UUID]*Game
}

// NewStore initializes and returns an empty Store.
func NewStore() *Store {
	return &Store{
		games: make(map[uuid.UUID]*Game),
	}
}

// AddGame adds a game instance to the store.
func (s *Store) AddGame(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[g.ID]; exists {
		log.Warnf("Store: attempted to add game %s which already exists", g.ID)
		return
	}
	s.games[g.ID] = g
}

// GetGame retrieves a game by id, with a boolean indicating if it was found.
func (s *Store) GetGame(id uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	return g, ok
}

// DeleteGame removes a game from the store, typically once it completes.
func (s *Store) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Games returns a copy of the map of active games, so callers can iterate
// without racing against concurrent mutation.
func (s *Store) Games() map[uuid.UUID]*Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]*Game, len(s.games))
	for k, v := range s.games {
		out[k] = v
	}
	return out
}
