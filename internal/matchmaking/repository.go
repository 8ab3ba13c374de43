package matchmaking

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jverbeek/warfront/internal/metrics"
)

// CompatibilityPolicy decides whether other is a valid opponent for
// challenger. The mandatory exclusions (self, already matched, reserved in a
// pending handshake) are enforced by the repository itself; the policy only
// judges settings and player affinity.
type CompatibilityPolicy func(challenger, other *GameCandidate) bool

// NewSettingsCompatibility returns the default policy: the other candidate
// must itself want auto matching, both sides must ask for the same board
// variant and turn timer, and when maxRankGap > 0 the two users' ranks must
// be within maxRankGap of each other.
func NewSettingsCompatibility(maxRankGap int) CompatibilityPolicy {
	return func(challenger, other *GameCandidate) bool {
		cs, os := challenger.Settings(), other.Settings()
		if !os.AutoMatching {
			return false
		}
		if cs.BoardVariant != os.BoardVariant || cs.TurnTimerSec != os.TurnTimerSec {
			return false
		}
		if maxRankGap > 0 {
			gap := challenger.User().Rank - other.User().Rank
			if gap < 0 {
				gap = -gap
			}
			if gap > maxRankGap {
				return false
			}
		}
		return true
	}
}

// CandidateRepository is the single source of truth for pool membership:
// a mapping from user id to that user's current candidate, at most one per
// user. All operations must be safe under concurrent invocation.
type CandidateRepository interface {
	// AddOrReplace upserts by the candidate's owning user id. Any previous
	// candidate for that user is discarded and never returned again.
	AddOrReplace(candidate *GameCandidate)

	// RemoveCandidate removes the entry for the user if present. Idempotent.
	RemoveCandidate(userID uuid.UUID)

	// GetCandidate is a point lookup.
	GetCandidate(userID uuid.UUID) (*GameCandidate, bool)

	// FindCandidatesThatCanBeChallengedBy returns every waiting candidate the
	// given user could challenge: never the user's own candidate, never a
	// matched candidate, never one reserved in a pending handshake, and only
	// those the compatibility policy accepts. The result is ordered by join
	// time (oldest first), ties broken by user id, so matchers can apply a
	// deterministic tie-break.
	FindCandidatesThatCanBeChallengedBy(userID uuid.UUID) []*GameCandidate
}

// InMemoryCandidateRepository keeps candidates in a mutex-guarded map keyed
// by user id. The pool is ephemeral; membership does not survive a restart.
type InMemoryCandidateRepository struct {
	mu         sync.Mutex
	policy     CompatibilityPolicy
	candidates map[uuid.UUID]*GameCandidate
}

// NewInMemoryCandidateRepository builds an empty repository. A nil policy
// falls back to NewSettingsCompatibility with no rank cap.
func NewInMemoryCandidateRepository(policy CompatibilityPolicy) *InMemoryCandidateRepository {
	if policy == nil {
		policy = NewSettingsCompatibility(0)
	}
	return &InMemoryCandidateRepository{
		policy:     policy,
		candidates: make(map[uuid.UUID]*GameCandidate),
	}
}

func (r *InMemoryCandidateRepository) AddOrReplace(candidate *GameCandidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[candidate.User().ID] = candidate
	metrics.PoolSize.Set(float64(len(r.candidates)))
}

func (r *InMemoryCandidateRepository) RemoveCandidate(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.candidates, userID)
	metrics.PoolSize.Set(float64(len(r.candidates)))
}

func (r *InMemoryCandidateRepository) GetCandidate(userID uuid.UUID) (*GameCandidate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[userID]
	return c, ok
}

func (r *InMemoryCandidateRepository) FindCandidatesThatCanBeChallengedBy(userID uuid.UUID) []*GameCandidate {
	r.mu.Lock()
	defer r.mu.Unlock()

	challenger, ok := r.candidates[userID]
	if !ok {
		return nil
	}

	var out []*GameCandidate
	for id, cand := range r.candidates {
		if id == userID {
			continue
		}
		if cand.IsMatched() || cand.isReserved() {
			continue
		}
		if !r.policy(challenger, cand) {
			continue
		}
		out = append(out, cand)
	}

	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].JoinedAt(), out[j].JoinedAt()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].User().ID.String() < out[j].User().ID.String()
	})
	return out
}

// Size returns the current number of candidates in the pool.
func (r *InMemoryCandidateRepository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.candidates)
}
