package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/file"
	"trivia-quiz/internal/infra/memory"
	pgloader "trivia-quiz/internal/infra/postgres"
	redisinfra "trivia-quiz/internal/infra/redis"
	"trivia-quiz/internal/transport/terminal"
)

// NewPlayCmd builds the CLI subcommand that runs a quiz session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runPlay(ctx context.Context, configPath string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	deps, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	service, err := app.LoadGameService(ctx, deps.questions, cfg.Questions.Set, app.RealScheduler{}, deps.tracker)
	if err != nil {
		return err
	}
	defer service.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("loaded question set %q", cfg.Questions.Set)
	return terminal.Run(ctx, service, in, out)
}

type deps struct {
	questions app.QuestionRepository
	tracker   app.GameTracker
	closers   []func()
}

func (d *deps) close() {
	for _, c := range d.closers {
		c()
	}
}

// buildDeps picks the question source (Postgres, file, built-in sample) and the
// cache/tracker backend (Redis when configured, memory otherwise).
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			d.close()
			return nil, err
		}
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.close()
			return nil, err
		}
		d.closers = append(d.closers, pool.Close)
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(map[string][]domain.Question{
		cfg.Questions.Set: sampleQuestions(),
	})
	switch {
	case pool != nil:
		loader = pgloader.NewQuestionLoader(pool)
	case cfg.Questions.File != "":
		loader = file.NewFileQuestionLoader(cfg.Questions.File)
	case cfg.Questions.Dir != "":
		loader = file.NewQuestionLoader(cfg.Questions.Dir)
	}

	if redisClient != nil {
		questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
		d.questions = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
		d.tracker = redisinfra.NewGameTracker(redisClient, config.TTLDuration(cfg.Redis.TTL, time.Minute), int64(cfg.Results.Keep))
	} else {
		d.questions = memory.NewQuestionRepository(loader)
		d.tracker = memory.NewGameTracker(cfg.Results.Keep)
	}
	return d, nil
}

// sampleQuestions provides a minimal dataset; point questions.file or Postgres at a real one.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Category: "Geography", Prompt: "What is the capital of France?", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, Answer: "Paris"},
		{Category: "Science", Prompt: "Which planet is known as the Red Planet?", Options: []string{"Earth", "Venus", "Mars", "Jupiter"}, Answer: "Mars"},
		{Category: "History", Prompt: "In which year did World War II end?", Options: []string{"1943", "1944", "1945", "1946"}, Answer: "1945"},
		{Category: "Geography", Prompt: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, Answer: "Pacific"},
		{Category: "Science", Prompt: "What is the chemical symbol for gold?", Options: []string{"Go", "Gd", "Au", "Ag"}, Answer: "Au"},
		{Category: "Art", Prompt: "Who painted the Mona Lisa?", Options: []string{"Van Gogh", "Picasso", "Da Vinci", "Monet"}, Answer: "Da Vinci"},
		{Category: "History", Prompt: "Who wrote 'Romeo and Juliet'?", Options: []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, Answer: "William Shakespeare"},
		{Category: "Science", Prompt: "How many legs does a spider have?", Options: []string{"6", "8", "10", "12"}, Answer: "8"},
	}
}
