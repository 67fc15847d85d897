package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/config"
)

// NewCategoriesCmd lists the categories of the configured question set.
func NewCategoriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List question categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			deps, err := buildDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer deps.close()

			set, err := deps.questions.GetQuestionSet(ctx, cfg.Questions.Set)
			if err != nil {
				return err
			}
			counts := set.CountByCategory()
			out := cmd.OutOrStdout()
			for _, name := range set.Categories() {
				fmt.Fprintf(out, "%-20s %d\n", name, counts[name])
			}
			fmt.Fprintf(out, "%-20s %d\n", "total", set.Len())
			return nil
		},
	}
}
