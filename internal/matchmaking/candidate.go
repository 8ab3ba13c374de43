// Package matchmaking holds the waiting pool: players who want to start a
// game, the strategy that picks opponents for them, and the orchestration
// that turns a pair of waiting candidates into a created game.
package matchmaking

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jverbeek/warfront/internal/models"
)

// GameCandidate is one user's open intent to play. It starts out waiting and
// becomes matched exactly once, when the pool writes the created game's id.
//
// Challenge and AcceptChallenge are the two halves of the pairing handshake
// the pool drives: the joining candidate challenges the selected opponent,
// the opponent accepts, and only then is the game created and its id assigned
// to both sides. Neither call assigns the id itself. The recorded handshake
// also acts as a reservation: a candidate with either half recorded is
// skipped by the repository's challengeable query until the handshake
// resolves. The required call order (Challenge before AcceptChallenge) is the
// pool's responsibility.
type GameCandidate struct {
	mu sync.Mutex

	user     models.User
	settings models.GameSettings
	joinedAt time.Time

	gameID      uuid.UUID      // uuid.Nil while waiting; write-once
	challenging *GameCandidate // opponent this candidate challenged
	challenger  *GameCandidate // candidate whose challenge this one accepted
}

// User returns the owning user. Immutable after construction.
func (c *GameCandidate) User() models.User { return c.user }

// Settings returns the match configuration the user joined with.
func (c *GameCandidate) Settings() models.GameSettings { return c.settings }

// JoinedAt returns when the candidate entered the pool.
func (c *GameCandidate) JoinedAt() time.Time { return c.joinedAt }

// Challenge records that this candidate is initiating a pairing attempt with
// other.
func (c *GameCandidate) Challenge(other *GameCandidate) {
	c.mu.Lock()
	c.challenging = other
	c.mu.Unlock()
}

// AcceptChallenge records that this candidate agrees to pair with initiator.
// initiator.Challenge(c) must have been called first.
func (c *GameCandidate) AcceptChallenge(initiator *GameCandidate) {
	c.mu.Lock()
	c.challenger = initiator
	c.mu.Unlock()
}

// ResetChallenge clears both handshake annotations, returning the candidate
// to plain waiting. The pool calls this on both sides when game creation
// fails, so they are eligible to be matched again.
func (c *GameCandidate) ResetChallenge() {
	c.mu.Lock()
	c.challenging = nil
	c.challenger = nil
	c.mu.Unlock()
}

// AssignGame writes the created game's id onto the candidate. The id is
// write-once; once set it never changes and later assignments are ignored.
// Returns whether this call performed the write.
func (c *GameCandidate) AssignGame(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gameID != uuid.Nil {
		return false
	}
	c.gameID = id
	return true
}

// GameID returns the assigned game id, or uuid.Nil while waiting.
func (c *GameCandidate) GameID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameID
}

// IsMatched reports whether a game id has been assigned.
func (c *GameCandidate) IsMatched() bool {
	return c.GameID() != uuid.Nil
}

// isReserved reports whether the candidate is in a pending handshake.
func (c *GameCandidate) isReserved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.challenging != nil || c.challenger != nil
}

// CandidateFactory constructs a fresh waiting candidate for a user.
type CandidateFactory interface {
	CreateNewForUser(user models.User, settings models.GameSettings) *GameCandidate
}

// DefaultFactory builds plain waiting candidates stamped with the join time.
type DefaultFactory struct{}

func (DefaultFactory) CreateNewForUser(user models.User, settings models.GameSettings) *GameCandidate {
	return &GameCandidate{
		user:     user,
		settings: settings,
		joinedAt: time.Now(),
	}
}
