package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-quiz/internal/domain"
)

// QuestionLoader fetches raw question records from a backing store (file, Postgres, ...).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error)
}

// QuestionRepository caches a question set in Redis and falls back to a loader on cache miss.
// Questions are stored in dataset order as: RPUSH quiz:questions:{setID} {json}
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (*domain.QuestionSet, error) {
	key := r.key(setID)

	if set, ok := r.fromCache(ctx, key, setID); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.fromCache(ctx, key, setID); ok {
			return set, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, setID)
		if err != nil {
			return nil, err
		}
		set, err := domain.NewQuestionSet(setID, questions)
		if err != nil {
			return nil, err
		}

		values := make([]interface{}, 0, set.Len())
		for _, q := range set.Questions() {
			raw, err := json.Marshal(q)
			if err != nil {
				return nil, fmt.Errorf("encode question %s: %w", q.ID, err)
			}
			values = append(values, raw)
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, values...)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.QuestionSet), nil
}

// fromCache rebuilds the set from Redis. Corrupt or invalid entries count as a miss.
func (r *QuestionRepository) fromCache(ctx context.Context, key, setID string) (*domain.QuestionSet, bool) {
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	questions := make([]domain.Question, 0, len(raw))
	for _, item := range raw {
		var q domain.Question
		if err := json.Unmarshal([]byte(item), &q); err != nil {
			return nil, false
		}
		questions = append(questions, q)
	}
	set, err := domain.NewQuestionSet(setID, questions)
	if err != nil {
		return nil, false
	}
	return set, true
}

func (r *QuestionRepository) key(setID string) string {
	return "quiz:questions:" + setID
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter; the package-level source is safe for concurrent loads
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
