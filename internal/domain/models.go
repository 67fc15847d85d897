package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

const (
	// CorrectPoints is added to the score for a correct answer.
	CorrectPoints = 10
	// IncorrectPenalty is subtracted from the score for a wrong answer. The score has no floor.
	IncorrectPenalty = 5
	// TickInterval is the countdown resolution.
	TickInterval = time.Second
	// RevealDelay is how long the correct answer stays on screen after a submission.
	RevealDelay = 5 * time.Second
)

// Question is a single multiple choice question. Answer must be one of Options.
type Question struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Category string   `json:"category" yaml:"category"`
	Prompt   string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// Validate checks the question invariants expected by the game engine.
func (q Question) Validate() error {
	if q.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidQuestion)
	}
	if q.Prompt == "" {
		return fmt.Errorf("%w: missing prompt", ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %q needs at least 2 options", ErrInvalidQuestion, q.Prompt)
	}
	if !slices.Contains(q.Options, q.Answer) {
		return fmt.Errorf("%w: answer of %q is not one of its options", ErrInvalidQuestion, q.Prompt)
	}
	return nil
}

// QuestionSet is the immutable dataset loaded once at startup.
type QuestionSet struct {
	id         string
	questions  []Question
	categories []string
}

// NewQuestionSet validates the questions and computes the category list once.
func NewQuestionSet(id string, questions []Question) (*QuestionSet, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}
	qs := make([]Question, len(questions))
	seen := make(map[string]struct{})
	var categories []string
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		q.Options = slices.Clone(q.Options)
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i+1)
		}
		qs[i] = q
		if _, ok := seen[q.Category]; !ok {
			seen[q.Category] = struct{}{}
			categories = append(categories, q.Category)
		}
	}
	return &QuestionSet{id: id, questions: qs, categories: categories}, nil
}

func (s *QuestionSet) ID() string { return s.id }

func (s *QuestionSet) Len() int { return len(s.questions) }

// Questions returns a copy of the questions in dataset order.
func (s *QuestionSet) Questions() []Question {
	return slices.Clone(s.questions)
}

// Categories returns the distinct categories in order of first appearance.
func (s *QuestionSet) Categories() []string {
	return slices.Clone(s.categories)
}

// HasCategory reports whether any question belongs to the category.
func (s *QuestionSet) HasCategory(name string) bool {
	return slices.Contains(s.categories, name)
}

// CountByCategory returns how many questions each category holds.
func (s *QuestionSet) CountByCategory() map[string]int {
	counts := make(map[string]int, len(s.categories))
	for _, q := range s.questions {
		counts[q.Category]++
	}
	return counts
}

// Filter returns the questions whose category is selected, keeping dataset order.
func (s *QuestionSet) Filter(selected map[string]struct{}) []Question {
	out := make([]Question, 0, len(s.questions))
	for _, q := range s.questions {
		if _, ok := selected[q.Category]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Duration is a session length in minutes. The zero value means unset.
type Duration int

const (
	DurationUnset Duration = 0
	OneMinute     Duration = 1
	ThreeMinutes  Duration = 3
	FiveMinutes   Duration = 5
)

// Durations lists the selectable session lengths, shortest first.
var Durations = []Duration{OneMinute, ThreeMinutes, FiveMinutes}

func (d Duration) Valid() bool {
	return slices.Contains(Durations, d)
}

func (d Duration) Seconds() int {
	return int(d) * 60
}

func (d Duration) String() string {
	if d == 1 {
		return "1 minute"
	}
	return strconv.Itoa(int(d)) + " minutes"
}

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseAwaitingAnswer
	PhaseRevealingAnswer
	PhaseEnded
)

var phaseNames = [...]string{"setup", "awaiting_answer", "revealing_answer", "ended"}

func (p Phase) String() string {
	if int(p) < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Running reports whether a game is in progress.
func (p Phase) Running() bool {
	return p == PhaseAwaitingAnswer || p == PhaseRevealingAnswer
}

// SessionConfig is the pre-game selection.
type SessionConfig struct {
	Duration   Duration
	Categories map[string]struct{}
}

// GameState is the in-progress state of one game.
type GameState struct {
	Score              int
	QuestionIndex      int
	TimeRemaining      int
	Phase              Phase
	LastAnswerCorrect  bool
	LastRevealedAnswer string
	// RevealSeq identifies the current reveal; a reveal timeout carrying an older value is ignored.
	RevealSeq uint64
}

// AnswerResult summarizes the outcome of a submission.
type AnswerResult struct {
	QuestionID string
	Correct    bool
	Answer     string
	Awarded    int
	TotalScore int
}

// GameInfo describes a game that just started.
type GameInfo struct {
	GameID     string    `json:"gameId"`
	Duration   Duration  `json:"duration"`
	Categories []string  `json:"categories"`
	Questions  int       `json:"questions"`
	StartedAt  time.Time `json:"startedAt"`
}

// GameResult captures how a game ended.
type GameResult struct {
	GameID       string    `json:"gameId"`
	Score        int       `json:"score"`
	HighScore    int       `json:"highScore"`
	NewHighScore bool      `json:"newHighScore"`
	Duration     Duration  `json:"duration"`
	Categories   []string  `json:"categories"`
	EndedAt      time.Time `json:"endedAt"`
}

// QuestionView is a question as shown to the player, without its answer.
type QuestionView struct {
	ID       string
	Category string
	Prompt   string
	Options  []string
}

// Reveal is the banner shown after an answer.
type Reveal struct {
	Correct bool
	Answer  string
}

// ConfigView is the setup state shown to the player.
type ConfigView struct {
	Duration   Duration
	Selected   []string
	Categories []string
	CanStart   bool
}

// Snapshot is a read-only view of the whole session.
type Snapshot struct {
	GameID        string
	Phase         Phase
	Score         int
	HighScore     int
	TimeRemaining int
	QuestionIndex int
	QuestionCount int
	Question      *QuestionView
	Reveal        *Reveal
	Config        ConfigView
	LastResult    *GameResult
}
