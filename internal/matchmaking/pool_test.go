package matchmaking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jverbeek/warfront/internal/models"
)

// fakeGameService records every creation call and hands out fresh game ids.
// An optional delay widens the race window in the concurrency test.
type fakeGameService struct {
	mu    sync.Mutex
	delay time.Duration
	err   error
	pairs [][2]uuid.UUID
	ids   []uuid.UUID
}

func (f *fakeGameService) CreateGameForUsers(_ context.Context, userA, userB models.User, _ models.GameSettings) (uuid.UUID, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	id := uuid.New()
	f.pairs = append(f.pairs, [2]uuid.UUID{userA.ID, userB.ID})
	f.ids = append(f.ids, id)
	return id, nil
}

func (f *fakeGameService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pairs)
}

// recordingRepo wraps the in-memory repository to count challengeable
// queries, so tests can assert the pool never queries without auto matching.
type recordingRepo struct {
	*InMemoryCandidateRepository
	findCalls int32
}

func (r *recordingRepo) FindCandidatesThatCanBeChallengedBy(userID uuid.UUID) []*GameCandidate {
	atomic.AddInt32(&r.findCalls, 1)
	return r.InMemoryCandidateRepository.FindCandidatesThatCanBeChallengedBy(userID)
}

func newTestPool(svc GameService) (*WaitingPool, *recordingRepo) {
	repo := &recordingRepo{InMemoryCandidateRepository: NewInMemoryCandidateRepository(nil)}
	return NewWaitingPool(nil, repo, nil, svc), repo
}

func TestJoin_AddsCandidateToRepository(t *testing.T) {
	svc := &fakeGameService{}
	pool, repo := newTestPool(svc)

	alice := testUser("alice", 1)
	settings := models.GameSettings{AutoMatching: false, BoardVariant: "classic"}

	require.NoError(t, pool.Join(context.Background(), alice, settings))

	candidate, ok := pool.GetCandidate(alice.ID)
	require.True(t, ok)
	assert.Equal(t, alice, candidate.User())
	assert.False(t, candidate.IsMatched())

	// Without auto matching there is no challengeable query and no game.
	assert.EqualValues(t, 0, atomic.LoadInt32(&repo.findCalls))
	assert.Equal(t, 0, svc.calls())
}

func TestJoin_AutoMatchingPairsWithWaitingOpponent(t *testing.T) {
	svc := &fakeGameService{}
	pool, repo := newTestPool(svc)
	ctx := context.Background()

	bob := testUser("bob", 2)
	require.NoError(t, pool.Join(ctx, bob, autoSettings()))

	alice := testUser("alice", 1)
	require.NoError(t, pool.Join(ctx, alice, autoSettings()))

	// Both joins query for opponents; only the second one finds any.
	assert.EqualValues(t, 2, atomic.LoadInt32(&repo.findCalls))
	require.Equal(t, 1, svc.calls())
	assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, svc.pairs[0][:])

	aliceCand, ok := pool.GetCandidate(alice.ID)
	require.True(t, ok)
	bobCand, ok := pool.GetCandidate(bob.ID)
	require.True(t, ok)

	assert.Equal(t, svc.ids[0], aliceCand.GameID(), "joining candidate gets the created game's id")
	assert.Equal(t, svc.ids[0], bobCand.GameID(), "waiting candidate gets the created game's id")

	// A matched pair is invisible to later challengeable queries.
	carol := testUser("carol", 3)
	require.NoError(t, pool.Join(ctx, carol, autoSettings()))
	assert.Equal(t, 1, svc.calls())
	carolCand, _ := pool.GetCandidate(carol.ID)
	assert.False(t, carolCand.IsMatched())
}

func TestJoin_AutoMatchingWithoutCompatibleOpponent(t *testing.T) {
	svc := &fakeGameService{}
	pool, repo := newTestPool(svc)
	ctx := context.Background()

	duel := autoSettings()
	duel.BoardVariant = "duel"
	bob := testUser("bob", 2)
	require.NoError(t, pool.Join(ctx, bob, duel))

	alice := testUser("alice", 1)
	require.NoError(t, pool.Join(ctx, alice, autoSettings()))

	assert.EqualValues(t, 2, atomic.LoadInt32(&repo.findCalls))
	assert.Equal(t, 0, svc.calls())

	aliceCand, _ := pool.GetCandidate(alice.ID)
	assert.False(t, aliceCand.IsMatched())
}

func TestJoin_GameCreationFailureLeavesBothWaiting(t *testing.T) {
	svc := &fakeGameService{err: errors.New("game backend down")}
	pool, _ := newTestPool(svc)
	ctx := context.Background()

	bob := testUser("bob", 2)
	require.NoError(t, pool.Join(ctx, bob, autoSettings()))

	alice := testUser("alice", 1)
	err := pool.Join(ctx, alice, autoSettings())
	require.Error(t, err)

	aliceCand, ok := pool.GetCandidate(alice.ID)
	require.True(t, ok)
	bobCand, ok := pool.GetCandidate(bob.ID)
	require.True(t, ok)
	assert.False(t, aliceCand.IsMatched())
	assert.False(t, bobCand.IsMatched())

	// Both are eligible again: once the backend recovers, a retry pairs them.
	svc.mu.Lock()
	svc.err = nil
	svc.mu.Unlock()

	require.NoError(t, pool.Join(ctx, alice, autoSettings()))
	require.Equal(t, 1, svc.calls(), "only the successful attempt created a game")

	bobCand, _ = pool.GetCandidate(bob.ID)
	assert.True(t, bobCand.IsMatched())
}

func TestJoin_RejoinReplacesPriorCandidate(t *testing.T) {
	svc := &fakeGameService{}
	pool, _ := newTestPool(svc)
	ctx := context.Background()

	alice := testUser("alice", 1)
	require.NoError(t, pool.Join(ctx, alice, models.GameSettings{BoardVariant: "classic"}))
	old, ok := pool.GetCandidate(alice.ID)
	require.True(t, ok)

	require.NoError(t, pool.Join(ctx, alice, autoSettings()))
	replacement, ok := pool.GetCandidate(alice.ID)
	require.True(t, ok)
	require.NotSame(t, old, replacement)

	// Only the replacement is visible to other users' queries.
	bob := testUser("bob", 2)
	require.NoError(t, pool.Join(ctx, bob, autoSettings()))
	require.Equal(t, 1, svc.calls())
	assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, svc.pairs[0][:])
	assert.False(t, old.IsMatched(), "the discarded candidate must never be matched")
	assert.True(t, replacement.IsMatched())
}

func TestLeaveThenGetCandidate(t *testing.T) {
	svc := &fakeGameService{}
	pool, _ := newTestPool(svc)
	ctx := context.Background()

	alice := testUser("alice", 1)
	require.NoError(t, pool.Join(ctx, alice, autoSettings()))

	pool.Leave(alice.ID)
	_, ok := pool.GetCandidate(alice.ID)
	assert.False(t, ok)

	// Leaving again, or without ever joining, is not an error.
	pool.Leave(alice.ID)
	pool.Leave(uuid.New())
}

func TestConcurrentJoins_NoCandidateIsDoubleMatched(t *testing.T) {
	svc := &fakeGameService{delay: 2 * time.Millisecond}
	pool, _ := newTestPool(svc)
	ctx := context.Background()

	bob := testUser("bob", 0)
	require.NoError(t, pool.Join(ctx, bob, autoSettings()))

	const joiners = 16
	users := make([]models.User, joiners)
	var wg sync.WaitGroup
	for i := range users {
		users[i] = testUser("joiner", i+1)
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()
			_ = pool.Join(ctx, u, autoSettings())
		}(users[i])
	}
	wg.Wait()

	// Every user participates in at most one created game.
	seen := make(map[uuid.UUID]uuid.UUID) // userID -> gameID
	svc.mu.Lock()
	pairs, ids := svc.pairs, svc.ids
	svc.mu.Unlock()
	for i, pair := range pairs {
		for _, userID := range pair {
			_, dup := seen[userID]
			require.False(t, dup, "user %s was matched into two games", userID)
			seen[userID] = ids[i]
		}
	}

	// Bob was the longest-waiting compatible candidate, so the first join to
	// win the selection lock pairs with him; he can only be matched once.
	bobCand, ok := pool.GetCandidate(bob.ID)
	require.True(t, ok)
	require.True(t, bobCand.IsMatched())
	assert.Equal(t, seen[bob.ID], bobCand.GameID())

	// Candidate state agrees with the games the service actually created,
	// and no game id was ever overwritten.
	for _, u := range append(users, bob) {
		cand, ok := pool.GetCandidate(u.ID)
		require.True(t, ok)
		if gameID, matched := seen[u.ID]; matched {
			assert.Equal(t, gameID, cand.GameID())
		} else {
			assert.False(t, cand.IsMatched())
		}
	}
}
