package matchmaking

// OpponentMatcher is the pluggable selection strategy: given the candidates a
// user may challenge, pick one or none. Implementations must be pure and
// deterministic given their input, and must tolerate an empty input by
// returning nil.
type OpponentMatcher interface {
	SelectOpponentToChallenge(candidates []*GameCandidate) *GameCandidate
}

// MatcherFunc adapts a plain selection function to the OpponentMatcher
// interface.
type MatcherFunc func(candidates []*GameCandidate) *GameCandidate

func (f MatcherFunc) SelectOpponentToChallenge(candidates []*GameCandidate) *GameCandidate {
	return f(candidates)
}

// LongestWaitingMatcher picks the candidate that has been waiting the
// longest. The repository orders candidates oldest first, so that is the head
// of the list.
type LongestWaitingMatcher struct{}

func (LongestWaitingMatcher) SelectOpponentToChallenge(candidates []*GameCandidate) *GameCandidate {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// ClosestRankMatcher picks the candidate whose rank is closest to a reference
// rank, ties going to the longer-waiting candidate. Useful for pools that
// want rank affinity in the matcher rather than (or on top of) a rank cap in
// the repository policy.
type ClosestRankMatcher struct {
	ReferenceRank int
}

func (m ClosestRankMatcher) SelectOpponentToChallenge(candidates []*GameCandidate) *GameCandidate {
	var best *GameCandidate
	bestGap := 0
	for _, cand := range candidates {
		gap := cand.User().Rank - m.ReferenceRank
		if gap < 0 {
			gap = -gap
		}
		if best == nil || gap < bestGap {
			best = cand
			bestGap = gap
		}
	}
	return best
}
