package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
// Publishing is skipped by callers when it stays nil (local dev without Redis).
var Rdb *redis.Client

// DefaultQueueName is the Redis list downstream consumers (stats, history)
// read match records from.
var DefaultQueueName = "warfront_matches"

// MatchRecord is what gets queued for every successfully created match.
type MatchRecord struct {
	GameID       uuid.UUID `json:"game_id"`
	UserA        uuid.UUID `json:"user_a"`
	UserB        uuid.UUID `json:"user_b"`
	BoardVariant string    `json:"board_variant"`
	MatchedAt    int64     `json:"matched_at"`
}

// ConnectRedis initializes the global Redis client from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishMatchRecord serializes the record and pushes it onto the match queue.
func PublishMatchRecord(ctx context.Context, record MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchRecord: %w", err)
	}

	queueName := getEnv("MATCH_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
