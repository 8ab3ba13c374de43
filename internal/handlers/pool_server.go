package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jverbeek/warfront/internal/auth"
	"github.com/jverbeek/warfront/internal/database"
	"github.com/jverbeek/warfront/internal/matchmaking"
	"github.com/jverbeek/warfront/internal/models"
)

// UserDirectory resolves authenticated user ids to full user records. The
// production implementation reads from Postgres; tests inject a fake.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// databaseDirectory is the pgx-backed directory used in production.
type databaseDirectory struct{}

func (databaseDirectory) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return database.GetUserByID(ctx, id)
}

// PoolServer holds the waiting pool and its collaborators for the HTTP and
// websocket handlers.
type PoolServer struct {
	Logger *logrus.Logger
	Pool   *matchmaking.WaitingPool
	Users  UserDirectory
}

// NewPoolServer wires a PoolServer with the default in-memory repository,
// factory and matcher around the given game service.
func NewPoolServer(logger *logrus.Logger, games matchmaking.GameService) *PoolServer {
	repo := matchmaking.NewInMemoryCandidateRepository(nil)
	pool := matchmaking.NewWaitingPool(nil, repo, nil, games)
	return &PoolServer{
		Logger: logger,
		Pool:   pool,
		Users:  databaseDirectory{},
	}
}

// authenticateRequest extracts the auth_token cookie and returns the user id
// it carries. The returned status code tells the caller which error to send.
func authenticateRequest(r *http.Request) (uuid.UUID, int, string) {
	cookie := r.Header.Get("Cookie")
	token := extractCookieToken(cookie, "auth_token")
	if token == "" {
		return uuid.Nil, http.StatusUnauthorized, "missing auth_token"
	}

	userIDStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		return uuid.Nil, http.StatusForbidden, "invalid token"
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, http.StatusBadRequest, "invalid user id format in token"
	}
	return userID, 0, ""
}
