package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jverbeek/warfront/internal/models"
)

// InsertGame persists a freshly created game and its two participants.
func InsertGame(ctx context.Context, game *models.Game) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `INSERT INTO games (id, status, board_variant, turn_timer_sec, auto_matched, created_at)
		      VALUES ($1, $2, $3, $4, $5, $6)`
		if _, e := tx.Exec(ctx, q,
			game.ID, game.Status, game.Settings.BoardVariant,
			game.Settings.TurnTimerSec, game.Settings.AutoMatching, game.CreatedAt,
		); e != nil {
			return e
		}

		for seat, playerID := range game.PlayerIDs {
			pq := `INSERT INTO game_players (game_id, player_id, seat) VALUES ($1, $2, $3)`
			if _, e := tx.Exec(ctx, pq, game.ID, playerID, seat); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert game: %w", err)
	}
	return nil
}
