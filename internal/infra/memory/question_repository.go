package memory

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"trivia-quiz/internal/domain"
)

// QuestionLoader fetches raw question records from a backing store (file, Postgres, ...).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error)
}

// QuestionRepository validates loaded questions into a QuestionSet and keeps it for
// the life of the process. Failed loads are not cached.
type QuestionRepository struct {
	loader QuestionLoader
	sf     singleflight.Group

	mu   sync.RWMutex
	sets map[string]*domain.QuestionSet
}

func NewQuestionRepository(loader QuestionLoader) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		sets:   make(map[string]*domain.QuestionSet),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (*domain.QuestionSet, error) {
	if set, ok := r.cached(setID); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		if set, ok := r.cached(setID); ok {
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

		r.mu.Lock()
		r.sets[setID] = set
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.QuestionSet), nil
}

func (r *QuestionRepository) cached(setID string) (*domain.QuestionSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[setID]
	return set, ok
}

// StaticQuestionLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, setID string) ([]domain.Question, error) {
	if questions, ok := l.sets[setID]; ok {
		return questions, nil
	}
	return nil, domain.ErrQuestionSetNotFound
}
