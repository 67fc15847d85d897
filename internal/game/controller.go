package game

import (
	"time"

	"github.com/google/uuid"

	"trivia-quiz/internal/domain"
)

// Controller owns the session configuration and the boundary between games.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	set       *domain.QuestionSet
	config    domain.SessionConfig
	engine    *Engine
	highScore int
	gameID    string
	started   domain.GameInfo
	last      *domain.GameResult
	now       func() time.Time
	newID     func() string

	// OnStart and OnEnd are optional hooks fired when a game starts or ends.
	OnStart func(domain.GameInfo)
	OnEnd   func(domain.GameResult)
}

// NewController returns a controller in setup with every category selected and the shortest duration.
func NewController(set *domain.QuestionSet) *Controller {
	return NewControllerWithClock(set, time.Now)
}

// NewControllerWithClock is test-only for deterministic timestamps.
func NewControllerWithClock(set *domain.QuestionSet, now func() time.Time) *Controller {
	c := &Controller{
		set:   set,
		now:   now,
		newID: uuid.NewString,
	}
	c.engine = NewEngine(c.EndGame)
	c.config.Duration = domain.Durations[0]
	c.config.Categories = make(map[string]struct{})
	for _, name := range set.Categories() {
		c.config.Categories[name] = struct{}{}
	}
	return c
}

// Engine exposes the running game's state machine.
func (c *Controller) Engine() *Engine {
	return c.engine
}

// Running reports whether a game is in progress.
func (c *Controller) Running() bool {
	return c.engine.State().Phase.Running()
}

// HighScore is the best final score of this process.
func (c *Controller) HighScore() int {
	return c.highScore
}

// SetDuration selects the session length. Only 1, 3 and 5 minutes are accepted, and only outside a game.
func (c *Controller) SetDuration(d domain.Duration) bool {
	if c.Running() || !d.Valid() {
		return false
	}
	c.config.Duration = d
	return true
}

// ToggleCategory includes or excludes a category. Unknown names and calls during a game are ignored.
func (c *Controller) ToggleCategory(name string, included bool) bool {
	if c.Running() || !c.set.HasCategory(name) {
		return false
	}
	if included {
		c.config.Categories[name] = struct{}{}
	} else {
		delete(c.config.Categories, name)
	}
	return true
}

// CanStart reports whether the current selection is complete.
func (c *Controller) CanStart() bool {
	return !c.Running() && c.config.Duration.Valid() && len(c.config.Categories) > 0
}

// StartGame begins a game over the questions of the selected categories.
func (c *Controller) StartGame() bool {
	if !c.CanStart() {
		return false
	}
	pool := c.set.Filter(c.config.Categories)
	if len(pool) == 0 {
		return false
	}
	c.gameID = c.newID()
	c.started = domain.GameInfo{
		GameID:     c.gameID,
		Duration:   c.config.Duration,
		Categories: c.Selected(),
		Questions:  len(pool),
		StartedAt:  c.now(),
	}
	if c.OnStart != nil {
		c.OnStart(c.started)
	}
	c.engine.Start(pool, c.config.Duration.Seconds())
	return true
}

// EndGame is called by the engine when a game ends. It records the result, raises the
// high score when beaten, and clears the selection so the next game must be configured again.
func (c *Controller) EndGame(finalScore int) {
	record := finalScore > c.highScore
	if record {
		c.highScore = finalScore
	}
	result := domain.GameResult{
		GameID:       c.gameID,
		Score:        finalScore,
		HighScore:    c.highScore,
		NewHighScore: record,
		Duration:     c.started.Duration,
		Categories:   c.started.Categories,
		EndedAt:      c.now(),
	}
	c.last = &result
	c.config.Duration = domain.DurationUnset
	c.config.Categories = make(map[string]struct{})
	if c.OnEnd != nil {
		c.OnEnd(result)
	}
}

// Selected returns the selected categories in dataset order.
func (c *Controller) Selected() []string {
	out := make([]string, 0, len(c.config.Categories))
	for _, name := range c.set.Categories() {
		if _, ok := c.config.Categories[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Snapshot builds a read-only view of the session.
func (c *Controller) Snapshot() domain.Snapshot {
	st := c.engine.State()
	snap := domain.Snapshot{
		Phase:         st.Phase,
		Score:         st.Score,
		HighScore:     c.highScore,
		TimeRemaining: st.TimeRemaining,
		QuestionIndex: st.QuestionIndex,
		QuestionCount: c.engine.PoolSize(),
		Config: domain.ConfigView{
			Duration:   c.config.Duration,
			Selected:   c.Selected(),
			Categories: c.set.Categories(),
			CanStart:   c.CanStart(),
		},
	}
	if st.Phase != domain.PhaseSetup {
		snap.GameID = c.gameID
	}
	if q, ok := c.engine.Current(); ok {
		snap.Question = &domain.QuestionView{
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Options:  append([]string(nil), q.Options...),
		}
	}
	if st.Phase == domain.PhaseRevealingAnswer {
		snap.Reveal = &domain.Reveal{Correct: st.LastAnswerCorrect, Answer: st.LastRevealedAnswer}
	}
	if c.last != nil {
		last := *c.last
		snap.LastResult = &last
	}
	return snap
}
