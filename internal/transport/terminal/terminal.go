package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/domain"
)

// Game is the session surface the terminal drives.
type Game interface {
	Snapshot() domain.Snapshot
	SetDuration(d domain.Duration) bool
	ToggleCategory(name string, included bool) bool
	StartGame() bool
	SubmitOption(index int) (domain.AnswerResult, bool)
	Subscribe() (<-chan domain.Snapshot, func())
}

var errUnknownCommand = errors.New("unknown command")

type commandKind int

const (
	cmdNone commandKind = iota
	cmdQuit
	cmdStart
	cmdDuration
	cmdCategory
	cmdAnswer
)

type command struct {
	kind commandKind
	arg  string
	n    int
}

func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: cmdNone}, nil
	}
	if n, err := strconv.Atoi(line); err == nil {
		return command{kind: cmdAnswer, n: n}, nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "q", "quit":
		return command{kind: cmdQuit}, nil
	case "s", "start":
		return command{kind: cmdStart}, nil
	case "d", "duration":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return command{}, fmt.Errorf("%w: duration needs a number of minutes", errUnknownCommand)
		}
		return command{kind: cmdDuration, n: n}, nil
	case "c", "category":
		if rest == "" {
			return command{}, fmt.Errorf("%w: category needs a name or number", errUnknownCommand)
		}
		return command{kind: cmdCategory, arg: rest}, nil
	}
	return command{}, fmt.Errorf("%w: %q", errUnknownCommand, line)
}

// Run renders every snapshot of game to out and applies the commands read from in.
// It returns when the player quits, in reaches EOF, or ctx is cancelled.
func Run(ctx context.Context, game Game, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := &lockedWriter{w: out}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		updates, unsubscribe := game.Subscribe()
		defer unsubscribe()
		for {
			select {
			case <-gctx.Done():
				return nil
			case snap, ok := <-updates:
				if !ok {
					return nil
				}
				if _, err := io.WriteString(w, "\n"+Render(snap)); err != nil {
					return err
				}
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				cmd, err := parseCommand(line)
				if err != nil {
					fmt.Fprintf(w, "%v\n", err)
					continue
				}
				if cmd.kind == cmdQuit {
					return nil
				}
				apply(game, cmd)
			}
		}
	})

	return g.Wait()
}

func apply(game Game, cmd command) {
	snap := game.Snapshot()
	switch cmd.kind {
	case cmdStart:
		game.StartGame()
	case cmdDuration:
		game.SetDuration(domain.Duration(cmd.n))
	case cmdCategory:
		name := cmd.arg
		if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= len(snap.Config.Categories) {
			name = snap.Config.Categories[n-1]
		}
		game.ToggleCategory(name, !slices.Contains(snap.Config.Selected, name))
	case cmdAnswer:
		if snap.Phase != domain.PhaseAwaitingAnswer {
			return
		}
		game.SubmitOption(cmd.n - 1)
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
