package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/config"
	"trivia-quiz/internal/infra/file"
	pgloader "trivia-quiz/internal/infra/postgres"
)

// NewImportCmd loads a YAML/JSON dataset into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var setID string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a question dataset into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if setID == "" {
				setID = cfg.Questions.Set
			}
			questions, err := file.ReadQuestions(args[0])
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}

			db := pgloader.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			n, err := pgloader.ImportQuestions(ctx, db, setID, questions)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			log.Printf("imported %d questions into set %q", n, setID)
			return nil
		},
	}
	cmd.Flags().StringVar(&setID, "set", "", "question set id (defaults to questions.set)")
	return cmd
}
