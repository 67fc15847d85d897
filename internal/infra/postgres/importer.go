package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"trivia-quiz/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	SetID    string   `bun:"set_id,pk"`
	Position int      `bun:"position,pk"`
	ID       string   `bun:"id"`
	Category string   `bun:"category"`
	Prompt   string   `bun:"prompt"`
	Options  []string `bun:"options,array"`
	Answer   string   `bun:"answer"`
}

// OpenDB opens a bun handle on the Postgres DSN.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// ImportQuestions replaces the stored set with the given questions. The set is
// validated first, so malformed data never reaches the table.
func ImportQuestions(ctx context.Context, db *bun.DB, setID string, questions []domain.Question) (int, error) {
	set, err := domain.NewQuestionSet(setID, questions)
	if err != nil {
		return 0, err
	}
	rows := make([]questionRow, 0, set.Len())
	for i, q := range set.Questions() {
		rows = append(rows, questionRow{
			SetID:    setID,
			Position: i,
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("set_id = ?", setID).Exec(ctx); err != nil {
			return fmt.Errorf("clear set: %w", err)
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
