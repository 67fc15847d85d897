package app

import (
	"context"
	"log"
	"sync"
	"time"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/game"
)

// QuestionRepository loads the question dataset (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (*domain.QuestionSet, error)
}

// GameTracker records game lifecycle events (in-memory, Redis, etc).
type GameTracker interface {
	GameStarted(ctx context.Context, info domain.GameInfo) error
	GameEnded(ctx context.Context, result domain.GameResult) error
}

// GameService drives a session: it serializes user commands and timer events,
// owns the countdown and reveal timers, and publishes snapshots.
type GameService struct {
	mu          sync.Mutex
	ctrl        *game.Controller
	sched       Scheduler
	tracker     GameTracker
	tick        timerSlot
	reveal      timerSlot
	pending     []func(ctx context.Context)
	subscribers map[chan domain.Snapshot]struct{}
}

// LoadGameService fetches the question set through repo and builds a service around it.
func LoadGameService(ctx context.Context, repo QuestionRepository, setID string, sched Scheduler, tracker GameTracker) (*GameService, error) {
	set, err := repo.GetQuestionSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	return NewGameService(game.NewController(set), sched, tracker), nil
}

func NewGameService(ctrl *game.Controller, sched Scheduler, tracker GameTracker) *GameService {
	if sched == nil {
		sched = RealScheduler{}
	}
	s := &GameService{
		ctrl:        ctrl,
		sched:       sched,
		tracker:     tracker,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
	ctrl.OnStart = s.gameStartedLocked
	ctrl.OnEnd = s.gameEndedLocked
	return s
}

// Snapshot returns the current session view.
func (s *GameService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Snapshot()
}

// SetDuration selects the next game's length; ignored during a game or for unsupported values.
func (s *GameService) SetDuration(d domain.Duration) bool {
	return s.apply(func() bool { return s.ctrl.SetDuration(d) })
}

// ToggleCategory includes or excludes a category for the next game.
func (s *GameService) ToggleCategory(name string, included bool) bool {
	return s.apply(func() bool { return s.ctrl.ToggleCategory(name, included) })
}

// StartGame begins a game if the selection allows it and arms the countdown.
func (s *GameService) StartGame() bool {
	return s.apply(func() bool {
		if !s.ctrl.StartGame() {
			return false
		}
		if s.ctrl.Running() {
			s.tick.arm(s.sched, domain.TickInterval, s.onTick)
		}
		return true
	})
}

// SubmitAnswer scores the selected option and schedules the move to the next question.
func (s *GameService) SubmitAnswer(option string) (domain.AnswerResult, bool) {
	return s.submit(func(e *game.Engine) (domain.AnswerResult, bool) { return e.Submit(option) })
}

// SubmitOption answers with the option at index (0-based) of whichever question
// is current when the call is serialized. It is ignored while an answer is revealed.
func (s *GameService) SubmitOption(index int) (domain.AnswerResult, bool) {
	return s.submit(func(e *game.Engine) (domain.AnswerResult, bool) { return e.SubmitOption(index) })
}

func (s *GameService) submit(answer func(e *game.Engine) (domain.AnswerResult, bool)) (domain.AnswerResult, bool) {
	var result domain.AnswerResult
	ok := s.apply(func() bool {
		var accepted bool
		result, accepted = answer(s.ctrl.Engine())
		if !accepted {
			return false
		}
		seq := s.ctrl.Engine().State().RevealSeq
		s.reveal.arm(s.sched, domain.RevealDelay, func(gen uint64) { s.onReveal(gen, seq) })
		return true
	})
	return result, ok
}

// Subscribe returns a channel that receives session snapshots.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.ctrl.Snapshot()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close cancels pending timers. A running game stays frozen where it is.
func (s *GameService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick.cancel()
	s.reveal.cancel()
}

func (s *GameService) onTick(gen uint64) {
	s.apply(func() bool {
		if !s.tick.current(gen) {
			return false
		}
		if s.ctrl.Engine().Tick() {
			s.tick.cancel()
			s.reveal.cancel()
			return true
		}
		if s.ctrl.Running() {
			s.tick.arm(s.sched, domain.TickInterval, s.onTick)
		}
		return true
	})
}

func (s *GameService) onReveal(gen, seq uint64) {
	s.apply(func() bool {
		if !s.reveal.current(gen) {
			return false
		}
		s.reveal.timer = nil
		return s.ctrl.Engine().RevealTimeout(seq)
	})
}

// apply runs one event under the lock, broadcasts if it changed anything,
// then flushes tracker notifications outside the lock.
func (s *GameService) apply(event func() bool) bool {
	s.mu.Lock()
	changed := event()
	if changed {
		s.broadcastLocked()
	}
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, notify := range pending {
		notify(context.Background())
	}
	return changed
}

func (s *GameService) gameStartedLocked(info domain.GameInfo) {
	log.Printf("game %s started: %s, %d questions, categories %v", info.GameID, info.Duration, info.Questions, info.Categories)
	if s.tracker == nil {
		return
	}
	s.pending = append(s.pending, func(ctx context.Context) {
		if err := s.tracker.GameStarted(ctx, info); err != nil {
			log.Printf("track game start %s: %v", info.GameID, err)
		}
	})
}

func (s *GameService) gameEndedLocked(result domain.GameResult) {
	log.Printf("game %s ended: score %d, high score %d", result.GameID, result.Score, result.HighScore)
	if s.tracker == nil {
		return
	}
	s.pending = append(s.pending, func(ctx context.Context) {
		if err := s.tracker.GameEnded(ctx, result); err != nil {
			log.Printf("track game end %s: %v", result.GameID, err)
		}
	})
}

func (s *GameService) broadcastLocked() {
	snap := s.ctrl.Snapshot()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot so a slow reader only sees the latest one
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// timerSlot holds at most one scheduled callback. Every arm or cancel bumps the
// generation, so a callback that fires after being replaced sees a stale value.
type timerSlot struct {
	timer Timer
	gen   uint64
}

func (t *timerSlot) arm(sched Scheduler, d time.Duration, fire func(gen uint64)) {
	t.cancel()
	gen := t.gen
	t.timer = sched.AfterFunc(d, func() { fire(gen) })
}

func (t *timerSlot) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *timerSlot) current(gen uint64) bool {
	return t.timer != nil && gen == t.gen
}
