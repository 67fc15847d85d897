package game

import (
	"slices"

	"trivia-quiz/internal/domain"
)

// Engine is the state machine of a single running game. It performs no I/O and
// owns no timers: callers deliver Tick, Submit and RevealTimeout events one at a time.
type Engine struct {
	state    domain.GameState
	pool     []domain.Question
	onEnd    func(score int)
	notified bool
}

// NewEngine returns an idle engine. onEnd is called exactly once per game, when it ends.
func NewEngine(onEnd func(score int)) *Engine {
	return &Engine{onEnd: onEnd}
}

// Start resets the state and begins a game over pool lasting seconds.
// A game with no time or no questions ends immediately.
func (e *Engine) Start(pool []domain.Question, seconds int) {
	e.pool = slices.Clone(pool)
	e.notified = false
	e.state = domain.GameState{
		Score:         0,
		QuestionIndex: 0,
		TimeRemaining: seconds,
		RevealSeq:     e.state.RevealSeq,
	}
	if seconds <= 0 || len(e.pool) == 0 {
		e.state.TimeRemaining = 0
		e.end()
		return
	}
	e.state.Phase = domain.PhaseAwaitingAnswer
}

// Tick advances the countdown by one second. It reports whether this tick ended the game.
func (e *Engine) Tick() bool {
	if !e.state.Phase.Running() {
		return false
	}
	e.state.TimeRemaining--
	if e.state.TimeRemaining <= 0 {
		e.state.TimeRemaining = 0
		e.end()
		return true
	}
	return false
}

// Submit scores an answer to the current question. It is ignored unless a question is awaiting an answer.
func (e *Engine) Submit(option string) (domain.AnswerResult, bool) {
	if e.state.Phase != domain.PhaseAwaitingAnswer {
		return domain.AnswerResult{}, false
	}
	q := e.pool[e.state.QuestionIndex]
	correct := option == q.Answer
	awarded := -domain.IncorrectPenalty
	if correct {
		awarded = domain.CorrectPoints
	}
	e.state.Score += awarded
	e.state.LastAnswerCorrect = correct
	e.state.LastRevealedAnswer = q.Answer
	e.state.RevealSeq++
	e.state.Phase = domain.PhaseRevealingAnswer

	return domain.AnswerResult{
		QuestionID: q.ID,
		Correct:    correct,
		Answer:     q.Answer,
		Awarded:    awarded,
		TotalScore: e.state.Score,
	}, true
}

// SubmitOption answers with the option at index (0-based) of the current question.
// An out-of-range index is ignored like any submission outside AwaitingAnswer.
func (e *Engine) SubmitOption(index int) (domain.AnswerResult, bool) {
	if e.state.Phase != domain.PhaseAwaitingAnswer {
		return domain.AnswerResult{}, false
	}
	options := e.pool[e.state.QuestionIndex].Options
	if index < 0 || index >= len(options) {
		return domain.AnswerResult{}, false
	}
	return e.Submit(options[index])
}

// RevealTimeout moves past the revealed question. seq must match the reveal it was
// scheduled for; timeouts of an older reveal or arriving after the game ended do nothing.
func (e *Engine) RevealTimeout(seq uint64) bool {
	if e.state.Phase != domain.PhaseRevealingAnswer || seq != e.state.RevealSeq {
		return false
	}
	e.state.QuestionIndex = (e.state.QuestionIndex + 1) % len(e.pool)
	e.state.LastAnswerCorrect = false
	e.state.LastRevealedAnswer = ""
	e.state.Phase = domain.PhaseAwaitingAnswer
	return true
}

// State returns a copy of the current state.
func (e *Engine) State() domain.GameState {
	return e.state
}

// Current returns the question being asked, if a game is running.
func (e *Engine) Current() (domain.Question, bool) {
	if !e.state.Phase.Running() || len(e.pool) == 0 {
		return domain.Question{}, false
	}
	return e.pool[e.state.QuestionIndex], true
}

// PoolSize is the number of questions in the active pool.
func (e *Engine) PoolSize() int {
	return len(e.pool)
}

func (e *Engine) end() {
	e.state.Phase = domain.PhaseEnded
	e.state.LastAnswerCorrect = false
	e.state.LastRevealedAnswer = ""
	if e.notified {
		return
	}
	e.notified = true
	if e.onEnd != nil {
		e.onEnd(e.state.Score)
	}
}
