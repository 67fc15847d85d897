package terminal

import (
	"fmt"
	"slices"
	"strings"

	"trivia-quiz/internal/domain"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiDim   = "\033[2m"
)

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Render draws the setup view or the in-game view for a snapshot.
func Render(snap domain.Snapshot) string {
	if snap.Phase.Running() {
		return renderGame(snap)
	}
	return renderSetup(snap)
}

func renderSetup(snap domain.Snapshot) string {
	var b strings.Builder
	b.WriteString("== Trivia ==\n")
	if r := snap.LastResult; r != nil && snap.Phase == domain.PhaseEnded {
		fmt.Fprintf(&b, "Time's up! Final score: %d", r.Score)
		if r.NewHighScore {
			b.WriteString(" (new high score!)")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "High score: %d\n", snap.HighScore)

	b.WriteString("Categories:\n")
	for i, name := range snap.Config.Categories {
		mark := " "
		if slices.Contains(snap.Config.Selected, name) {
			mark = "x"
		}
		fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, mark, name)
	}

	b.WriteString("Duration:\n")
	for _, d := range domain.Durations {
		mark := " "
		if snap.Config.Duration == d {
			mark = "*"
		}
		fmt.Fprintf(&b, "  (%s) %s\n", mark, d)
	}

	if snap.Config.CanStart {
		b.WriteString("Start: ready, type s\n")
	} else {
		b.WriteString("Start: disabled, choose a duration and at least one category\n")
	}
	b.WriteString("Commands: c <n|name> toggle category, d <1|3|5> duration, s start, q quit\n")
	return b.String()
}

func renderGame(snap domain.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d   High score: %d   Time left: %s\n", snap.Score, snap.HighScore, FormatClock(snap.TimeRemaining))

	if r := snap.Reveal; r != nil {
		if r.Correct {
			fmt.Fprintf(&b, "%sCorrect! The correct answer is: %s.%s\n", ansiGreen, r.Answer, ansiReset)
		} else {
			fmt.Fprintf(&b, "%sIncorrect. The correct answer is: %s.%s\n", ansiRed, r.Answer, ansiReset)
		}
	}

	if q := snap.Question; q != nil {
		fmt.Fprintf(&b, "[%s] %s\n", q.Category, q.Prompt)
		for i, opt := range q.Options {
			if snap.Reveal != nil {
				fmt.Fprintf(&b, "  %s-) %s%s\n", ansiDim, opt, ansiReset)
				continue
			}
			fmt.Fprintf(&b, "  %d) %s\n", i+1, opt)
		}
	}
	if snap.Reveal == nil {
		b.WriteString("Answer with the option number, q to quit\n")
	}
	return b.String()
}
