package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-quiz/internal/domain"
)

const resultsKey = "quiz:results"

// GameTracker is a Redis implementation of app.GameTracker.
// Notes:
//   - A running game is marked with a key that expires shortly after the game's
//     duration, so a crashed process leaves no permanent marker.
//   - Results are pushed to a capped list for external dashboards. The game never
//     reads them back; the high score lives only in the running process.
type GameTracker struct {
	client *redis.Client
	grace  time.Duration
	limit  int64
}

func NewGameTracker(client *redis.Client, grace time.Duration, limit int64) *GameTracker {
	if limit <= 0 {
		limit = 100
	}
	return &GameTracker{client: client, grace: grace, limit: limit}
}

func (t *GameTracker) GameStarted(ctx context.Context, info domain.GameInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	ttl := time.Duration(info.Duration.Seconds())*time.Second + t.grace
	return t.client.Set(ctx, t.activeKey(info.GameID), raw, ttl).Err()
}

func (t *GameTracker) GameEnded(ctx context.Context, result domain.GameResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	pipe := t.client.TxPipeline()
	pipe.Del(ctx, t.activeKey(result.GameID))
	pipe.LPush(ctx, resultsKey, raw)
	pipe.LTrim(ctx, resultsKey, 0, t.limit-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (t *GameTracker) activeKey(gameID string) string {
	return "quiz:game:" + gameID
}
