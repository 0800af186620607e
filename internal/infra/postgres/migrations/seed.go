package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"wiki-quiz-engine/internal/domain"
)

// QuizRow is one row of the quizzes table.
type QuizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID            int64     `bun:"id,pk,autoincrement"`
	URL           string    `bun:"url,notnull"`
	Title         string    `bun:"title,notnull"`
	DateGenerated time.Time `bun:"date_generated,notnull"`
	FullQuizData  string    `bun:"full_quiz_data,notnull"`
}

// Seed inserts quizzes as the generation service would store them and returns
// the assigned ids in input order.
func Seed(ctx context.Context, db *bun.DB, generated time.Time, quizzes ...domain.QuizData) ([]int64, error) {
	ids := make([]int64, 0, len(quizzes))
	for i, quiz := range quizzes {
		raw, err := json.Marshal(quiz)
		if err != nil {
			return nil, fmt.Errorf("marshal quiz %q: %w", quiz.Title, err)
		}
		row := &QuizRow{
			URL:           domain.TopicURL(quiz.Title),
			Title:         quiz.Title,
			DateGenerated: generated.Add(time.Duration(i) * time.Minute).UTC(),
			FullQuizData:  string(raw),
		}
		if _, err := db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			return nil, fmt.Errorf("insert quiz %q: %w", quiz.Title, err)
		}
		ids = append(ids, row.ID)
	}
	return ids, nil
}
