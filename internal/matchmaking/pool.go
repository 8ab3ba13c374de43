package matchmaking

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jverbeek/warfront/internal/metrics"
	"github.com/jverbeek/warfront/internal/models"
)

// GameService creates the persistent game once two candidates are paired.
// It may fail; the pool then rolls the pair back to waiting. It must be
// called at most once per successful match.
type GameService interface {
	CreateGameForUsers(ctx context.Context, userA, userB models.User, settings models.GameSettings) (uuid.UUID, error)
}

// WaitingPool pairs players who want to start a game. It composes the
// candidate factory, the repository, the opponent matcher and the game
// service behind Join / Leave / GetCandidate, and holds no pool state of its
// own beyond the lock: the repository is the single source of truth.
//
// Concurrency: Join's select-and-reserve step runs under a pool-wide mutex,
// so two racing joins can never both pair with the same waiting candidate.
// The external game-creation call runs outside the lock (it may be slow);
// assigning the created game's id, or rolling back on failure, re-enters it.
type WaitingPool struct {
	mu      sync.Mutex
	factory CandidateFactory
	repo    CandidateRepository
	matcher OpponentMatcher
	games   GameService
}

// NewWaitingPool wires a pool. A nil factory or matcher falls back to the
// defaults (DefaultFactory, LongestWaitingMatcher).
func NewWaitingPool(factory CandidateFactory, repo CandidateRepository, matcher OpponentMatcher, games GameService) *WaitingPool {
	if factory == nil {
		factory = DefaultFactory{}
	}
	if matcher == nil {
		matcher = LongestWaitingMatcher{}
	}
	return &WaitingPool{
		factory: factory,
		repo:    repo,
		matcher: matcher,
		games:   games,
	}
}

// Join places the user in the pool and, when their settings ask for auto
// matching, tries to pair them immediately.
//
// The upsert always happens, replacing any previous candidate for the user.
// If a compatible opponent is found, the handshake reserves both sides before
// the lock is released, the game service creates the game, and the returned
// id is written onto both candidates. If game creation fails, both sides are
// reset to waiting and the error is returned; a later join can pair them
// again.
func (p *WaitingPool) Join(ctx context.Context, user models.User, settings models.GameSettings) error {
	candidate := p.factory.CreateNewForUser(user, settings)
	metrics.PoolJoinsTotal.WithLabelValues(strconv.FormatBool(settings.AutoMatching)).Inc()

	p.mu.Lock()
	p.repo.AddOrReplace(candidate)

	if !settings.AutoMatching {
		p.mu.Unlock()
		return nil
	}

	challengeable := p.repo.FindCandidatesThatCanBeChallengedBy(user.ID)
	opponent := p.matcher.SelectOpponentToChallenge(challengeable)
	if opponent == nil {
		p.mu.Unlock()
		return nil
	}

	// Reserve both sides before releasing the lock so no concurrent join can
	// select either of them while the game is being created.
	candidate.Challenge(opponent)
	opponent.AcceptChallenge(candidate)
	p.mu.Unlock()

	gameID, err := p.games.CreateGameForUsers(ctx, user, opponent.User(), settings)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		candidate.ResetChallenge()
		opponent.ResetChallenge()
		metrics.MatchCreationFailures.Inc()
		log.WithFields(log.Fields{
			"user_a": user.ID,
			"user_b": opponent.User().ID,
		}).Warnf("game creation failed, both candidates back to waiting: %v", err)
		return fmt.Errorf("create game for users %s and %s: %w", user.ID, opponent.User().ID, err)
	}

	candidate.AssignGame(gameID)
	opponent.AssignGame(gameID)
	metrics.MatchesCreatedTotal.Inc()
	metrics.MatchWaitSeconds.Observe(time.Since(opponent.JoinedAt()).Seconds())

	log.WithFields(log.Fields{
		"game_id": gameID,
		"user_a":  user.ID,
		"user_b":  opponent.User().ID,
		"variant": settings.BoardVariant,
	}).Info("candidates matched")
	return nil
}

// Leave removes the user's candidate if present. Leaving without having
// joined is not an error.
func (p *WaitingPool) Leave(userID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.repo.RemoveCandidate(userID)
}

// GetCandidate returns the user's current candidate, if any.
func (p *WaitingPool) GetCandidate(userID uuid.UUID) (*GameCandidate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repo.GetCandidate(userID)
}
