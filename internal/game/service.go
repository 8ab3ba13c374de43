package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jverbeek/warfront/internal/cache"
	"github.com/jverbeek/warfront/internal/database"
	"github.com/jverbeek/warfront/internal/models"
)

// Service creates persistent games for matched players. It implements the
// matchmaking GameService interface: the game row is inserted first, the live
// Game is registered in the in-memory store, and a match record is pushed
// onto the Redis queue for downstream consumers. Publishing is best-effort;
// a queue failure never fails the match.
type Service struct {
	Store *Store
}

// NewService builds a Service with an empty store.
func NewService() *Service {
	return &Service{Store: NewStore()}
}

// CreateGameForUsers persists and registers a new game for the two users.
func (s *Service) CreateGameForUsers(ctx context.Context, userA, userB models.User, settings models.GameSettings) (uuid.UUID, error) {
	g, err := NewGame(userA, userB, settings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("new game: %w", err)
	}

	row := &models.Game{
		ID:        g.ID,
		Status:    g.Status,
		Settings:  settings,
		PlayerIDs: []uuid.UUID{userA.ID, userB.ID},
		CreatedAt: g.CreatedAt,
	}
	if err := database.InsertGame(ctx, row); err != nil {
		return uuid.Nil, fmt.Errorf("persist game: %w", err)
	}

	s.Store.AddGame(g)

	if cache.Rdb != nil {
		record := cache.MatchRecord{
			GameID:       g.ID,
			UserA:        userA.ID,
			UserB:        userB.ID,
			BoardVariant: settings.BoardVariant,
			MatchedAt:    time.Now().Unix(),
		}
		if err := cache.PublishMatchRecord(ctx, record); err != nil {
			log.Warnf("failed to publish match record for game %s: %v", g.ID, err)
		}
	}

	return g.ID, nil
}
