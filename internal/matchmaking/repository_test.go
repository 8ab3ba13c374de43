package matchmaking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_AddOrReplaceUpserts(t *testing.T) {
	repo := NewInMemoryCandidateRepository(nil)

	alice := testUser("alice", 1)
	bob := testUser("bob", 2)
	base := time.Now()

	old := waitingCandidate(alice, autoSettings(), base)
	repo.AddOrReplace(old)
	repo.AddOrReplace(waitingCandidate(bob, autoSettings(), base.Add(time.Second)))

	replacement := waitingCandidate(alice, autoSettings(), base.Add(2*time.Second))
	repo.AddOrReplace(replacement)

	got, ok := repo.GetCandidate(alice.ID)
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 2, repo.Size())

	// The replaced candidate must never surface again.
	challengeable := repo.FindCandidatesThatCanBeChallengedBy(bob.ID)
	require.Len(t, challengeable, 1)
	assert.Same(t, replacement, challengeable[0])
}

func TestRepository_RemoveCandidateIsIdempotent(t *testing.T) {
	repo := NewInMemoryCandidateRepository(nil)
	alice := testUser("alice", 1)

	repo.AddOrReplace(waitingCandidate(alice, autoSettings(), time.Now()))
	repo.RemoveCandidate(alice.ID)
	repo.RemoveCandidate(alice.ID) // absent, still fine
	repo.RemoveCandidate(uuid.New())

	_, ok := repo.GetCandidate(alice.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, repo.Size())
}

func TestRepository_FindExcludesSelfMatchedAndReserved(t *testing.T) {
	repo := NewInMemoryCandidateRepository(nil)
	base := time.Now()

	alice := waitingCandidate(testUser("alice", 1), autoSettings(), base)
	matched := waitingCandidate(testUser("bob", 2), autoSettings(), base.Add(time.Second))
	reserved := waitingCandidate(testUser("carol", 3), autoSettings(), base.Add(2*time.Second))
	free := waitingCandidate(testUser("dave", 4), autoSettings(), base.Add(3*time.Second))

	matched.AssignGame(uuid.New())
	reserved.AcceptChallenge(free)

	for _, c := range []*GameCandidate{alice, matched, reserved, free} {
		repo.AddOrReplace(c)
	}

	challengeable := repo.FindCandidatesThatCanBeChallengedBy(alice.User().ID)
	require.Len(t, challengeable, 1)
	assert.Same(t, free, challengeable[0])
}

func TestRepository_FindForUnknownUserReturnsNothing(t *testing.T) {
	repo := NewInMemoryCandidateRepository(nil)
	repo.AddOrReplace(waitingCandidate(testUser("alice", 1), autoSettings(), time.Now()))

	assert.Empty(t, repo.FindCandidatesThatCanBeChallengedBy(uuid.New()))
}

func TestRepository_FindAppliesCompatibilityPolicy(t *testing.T) {
	repo := NewInMemoryCandidateRepository(NewSettingsCompatibility(2))
	base := time.Now()

	alice := waitingCandidate(testUser("alice", 5), autoSettings(), base)

	duel := autoSettings()
	duel.BoardVariant = "duel"
	wrongVariant := waitingCandidate(testUser("bob", 5), duel, base.Add(time.Second))

	manual := autoSettings()
	manual.AutoMatching = false
	notAuto := waitingCandidate(testUser("carol", 5), manual, base.Add(2*time.Second))

	farRank := waitingCandidate(testUser("dave", 20), autoSettings(), base.Add(3*time.Second))
	nearRank := waitingCandidate(testUser("erin", 6), autoSettings(), base.Add(4*time.Second))

	for _, c := range []*GameCandidate{alice, wrongVariant, notAuto, farRank, nearRank} {
		repo.AddOrReplace(c)
	}

	challengeable := repo.FindCandidatesThatCanBeChallengedBy(alice.User().ID)
	require.Len(t, challengeable, 1)
	assert.Same(t, nearRank, challengeable[0])
}

func TestRepository_FindOrdersByJoinTime(t *testing.T) {
	repo := NewInMemoryCandidateRepository(nil)
	base := time.Now()

	alice := waitingCandidate(testUser("alice", 1), autoSettings(), base)
	second := waitingCandidate(testUser("bob", 2), autoSettings(), base.Add(2*time.Second))
	first := waitingCandidate(testUser("carol", 3), autoSettings(), base.Add(time.Second))
	third := waitingCandidate(testUser("dave", 4), autoSettings(), base.Add(3*time.Second))

	for _, c := range []*GameCandidate{alice, second, first, third} {
		repo.AddOrReplace(c)
	}

	challengeable := repo.FindCandidatesThatCanBeChallengedBy(alice.User().ID)
	require.Len(t, challengeable, 3)
	assert.Same(t, first, challengeable[0])
	assert.Same(t, second, challengeable[1])
	assert.Same(t, third, challengeable[2])
}
