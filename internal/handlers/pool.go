package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jverbeek/warfront/internal/matchmaking"
	"github.com/jverbeek/warfront/internal/models"
)

type joinPoolRequest struct {
	AutoMatching bool   `json:"autoMatching"`
	BoardVariant string `json:"boardVariant"`
	TurnTimerSec int    `json:"turnTimerSec"`
}

// candidateStatusResponse is what the status and join endpoints return.
// Status is "none" when the user has no candidate, "waiting" while in the
// pool, and "matched" once a game has been created.
type candidateStatusResponse struct {
	Status string `json:"status"`
	GameID string `json:"gameId,omitempty"`
}

func candidateStatus(candidate *matchmaking.GameCandidate, ok bool) candidateStatusResponse {
	if !ok {
		return candidateStatusResponse{Status: "none"}
	}
	if gameID := candidate.GameID(); gameID != uuid.Nil {
		return candidateStatusResponse{Status: "matched", GameID: gameID.String()}
	}
	return candidateStatusResponse{Status: "waiting"}
}

func writeCandidateStatus(w http.ResponseWriter, resp candidateStatusResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// JoinPoolHandler places the authenticated user in the waiting pool. An empty
// body joins with default settings (no auto matching, classic board).
func JoinPoolHandler(s *PoolServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, status, msg := authenticateRequest(r)
		if status != 0 {
			http.Error(w, msg, status)
			return
		}

		user, err := s.Users.GetUserByID(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		var req joinPoolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			http.Error(w, "bad join request payload", http.StatusBadRequest)
			return
		}

		settings := models.GameSettings{
			AutoMatching: req.AutoMatching,
			BoardVariant: req.BoardVariant,
			TurnTimerSec: req.TurnTimerSec,
		}.Normalized()

		if err := s.Pool.Join(r.Context(), *user, settings); err != nil {
			// The user is still waiting in the pool; a later join can pair
			// them again.
			s.Logger.WithError(err).Error("game creation failed during join")
			http.Error(w, "match found but game creation failed; still waiting", http.StatusInternalServerError)
			return
		}

		writeCandidateStatus(w, candidateStatus(s.Pool.GetCandidate(userID)))
	}
}

// LeavePoolHandler removes the authenticated user from the waiting pool.
// Leaving without having joined is fine.
func LeavePoolHandler(s *PoolServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, status, msg := authenticateRequest(r)
		if status != 0 {
			http.Error(w, msg, status)
			return
		}

		s.Pool.Leave(userID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PoolStatusHandler reports the authenticated user's candidate state so
// clients can poll for a match.
func PoolStatusHandler(s *PoolServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, status, msg := authenticateRequest(r)
		if status != 0 {
			http.Error(w, msg, status)
			return
		}

		writeCandidateStatus(w, candidateStatus(s.Pool.GetCandidate(userID)))
	}
}
