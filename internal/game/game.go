package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/jverbeek/warfront/internal/models"
)

// Game is the live, in-memory session created for two matched players. The
// turn engine operates on it; matchmaking only ever needs its id.
type Game struct {
	ID        uuid.UUID           `json:"id"`
	Players   []models.User       `json:"players"`
	Settings  models.GameSettings `json:"settings"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewGame builds a freshly created game for the two users.
func NewGame(userA, userB models.User, settings models.GameSettings) (*Game, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:        id,
		Players:   []models.User{userA, userB},
		Settings:  settings,
		Status:    "created",
		CreatedAt: time.Now(),
	}, nil
}

// HasPlayer reports whether the user participates in this game.
func (g *Game) HasPlayer(userID uuid.UUID) bool {
	for _, p := range g.Players {
		if p.ID == userID {
			return true
		}
	}
	return false
}
