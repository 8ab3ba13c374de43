package handlers

import (
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/jverbeek/warfront/internal/middleware"
)

// matchNotification is pushed to a waiting client over the pool websocket.
type matchNotification struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
}

// PoolWSHandler upgrades the connection and pushes a match_found message as
// soon as the user's candidate is matched, so clients do not have to poll the
// status endpoint. If the candidate disappears (leave or replacement from
// another session) the client gets pool_left instead.
func PoolWSHandler(logger *logrus.Logger, s *PoolServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, status, msg := authenticateRequest(r)
		if status != 0 {
			http.Error(w, msg, status)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for user %s: %v", userID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx := r.Context()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, ctx.Err())
				c.Close(websocket.StatusGoingAway, "client gone")
				return
			case <-ticker.C:
				candidate, ok := s.Pool.GetCandidate(userID)
				if !ok {
					wsjson.Write(ctx, c, matchNotification{Type: "pool_left"})
					c.Close(websocket.StatusNormalClosure, "left pool")
					middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
					return
				}
				if candidate.IsMatched() {
					if err := wsjson.Write(ctx, c, matchNotification{
						Type:   "match_found",
						GameID: candidate.GameID().String(),
					}); err != nil {
						logger.Warnf("failed to push match notification to %s: %v", userID, err)
					}
					c.Close(websocket.StatusNormalClosure, "matched")
					middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
					return
				}
			}
		}
	}
}
