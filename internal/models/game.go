package models

import (
	"time"

	"github.com/google/uuid"
)

// Game represents a row in the games table: a persistent game session created
// for two matched players. The turn engine owns everything past 'created'.
type Game struct {
	ID        uuid.UUID    `json:"id"`
	Status    string       `json:"status"` // 'created', 'in_progress', 'completed'
	Settings  GameSettings `json:"settings"`
	PlayerIDs []uuid.UUID  `json:"player_ids"`
	CreatedAt time.Time    `json:"created_at"`
}
