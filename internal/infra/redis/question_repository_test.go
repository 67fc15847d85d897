package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"default": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "default"); err != nil {
		t.Fatalf("get question set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:questions:default") {
		t.Fatalf("expected redis key to be set")
	}

	// A fresh repository (another process) should be served from Redis.
	other := NewQuestionRepository(client, loader, time.Minute)
	set, err := other.GetQuestionSet(context.Background(), "default")
	if err != nil {
		t.Fatalf("get cached set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	questions := set.Questions()
	if len(questions) != 2 || questions[0].Prompt != "What is 2 + 2?" || questions[1].Answer != "Mars" {
		t.Fatalf("expected dataset order preserved, got %+v", questions)
	}
}

func TestQuestionRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if _, err := mr.Push("quiz:questions:default", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"default": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	set, err := repo.GetQuestionSet(context.Background(), "default")
	if err != nil {
		t.Fatalf("get question set: %v", err)
	}
	if loader.calls != 1 || set.Len() != 2 {
		t.Fatalf("expected reload from loader, calls=%d len=%d", loader.calls, set.Len())
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, setID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Category: "Math", Prompt: "What is 2 + 2?", Options: []string{"3", "4"}, Answer: "4"},
		{Category: "Space", Prompt: "Which planet is red?", Options: []string{"Mars", "Venus"}, Answer: "Mars"},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
