package models

// DefaultBoardVariant is used when a join request leaves the variant empty.
const DefaultBoardVariant = "classic"

// GameSettings describes what kind of match a player wants. It is immutable
// once attached to a waiting candidate; a player who changes their mind
// re-joins the pool with new settings.
type GameSettings struct {
	// AutoMatching indicates the player wants the pool to pair them with a
	// compatible opponent immediately on join. Without it the player just
	// waits to be challenged.
	AutoMatching bool `json:"autoMatching"`

	// BoardVariant selects the board layout ('classic', 'quick' or 'duel').
	BoardVariant string `json:"boardVariant"`

	// TurnTimerSec is how many seconds each turn lasts (0 => no limit).
	TurnTimerSec int `json:"turnTimerSec"`
}

// Normalized returns a copy with defaults filled in for unset fields.
func (s GameSettings) Normalized() GameSettings {
	if s.BoardVariant == "" {
		s.BoardVariant = DefaultBoardVariant
	}
	return s
}
