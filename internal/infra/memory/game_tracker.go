package memory

import (
	"context"
	"sync"

	"trivia-quiz/internal/domain"
)

// GameTracker is an in-memory implementation of app.GameTracker.
// It keeps the active game and the most recent results, newest first.
type GameTracker struct {
	mu      sync.RWMutex
	limit   int
	active  *domain.GameInfo
	results []domain.GameResult
}

func NewGameTracker(limit int) *GameTracker {
	if limit <= 0 {
		limit = 10
	}
	return &GameTracker{limit: limit}
}

func (t *GameTracker) GameStarted(_ context.Context, info domain.GameInfo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = &info
	return nil
}

func (t *GameTracker) GameEnded(_ context.Context, result domain.GameResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil && t.active.GameID == result.GameID {
		t.active = nil
	}
	t.results = append([]domain.GameResult{result}, t.results...)
	if len(t.results) > t.limit {
		t.results = t.results[:t.limit]
	}
	return nil
}

// Active returns the game in progress, if any.
func (t *GameTracker) Active() (domain.GameInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.active == nil {
		return domain.GameInfo{}, false
	}
	return *t.active, true
}

// Results returns the recorded results, newest first.
func (t *GameTracker) Results() []domain.GameResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.GameResult(nil), t.results...)
}
