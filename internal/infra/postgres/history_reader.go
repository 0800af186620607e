package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// HistoryReader reads the generation service's quizzes table directly. It
// never writes.
type HistoryReader struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewHistoryReader(pool *pgxpool.Pool, log *zap.Logger) *HistoryReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryReader{pool: pool, log: log.Named("history_reader")}
}

// History lists every quiz, newest first.
func (r *HistoryReader) History(ctx context.Context) ([]domain.QuizSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, url, date_generated FROM quizzes ORDER BY date_generated DESC`)
	if err != nil {
		return nil, r.failure(http.StatusInternalServerError, domain.MsgHistoryFailed, fmt.Errorf("query history: %w", err))
	}
	defer rows.Close()

	out := make([]domain.QuizSummary, 0)
	for rows.Next() {
		var (
			id        int64
			summary   domain.QuizSummary
			generated time.Time
		)
		if err := rows.Scan(&id, &summary.Title, &summary.URL, &generated); err != nil {
			return nil, r.failure(http.StatusInternalServerError, domain.MsgHistoryFailed, fmt.Errorf("scan history: %w", err))
		}
		summary.ID = domain.QuizID(strconv.FormatInt(id, 10))
		summary.DateGenerated = domain.Timestamp{Time: generated.UTC()}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, r.failure(http.StatusInternalServerError, domain.MsgHistoryFailed, fmt.Errorf("read history: %w", err))
	}
	return out, nil
}

// QuizDetail loads one quiz with its stored content.
func (r *HistoryReader) QuizDetail(ctx context.Context, id domain.QuizID) (domain.QuizDetailRecord, error) {
	key, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return domain.QuizDetailRecord{}, r.failure(http.StatusUnprocessableEntity, domain.MsgDetailFailed, fmt.Errorf("quiz id %q: %w", id, err))
	}

	var (
		record    domain.QuizDetailRecord
		generated time.Time
		raw       string
	)
	err = r.pool.QueryRow(ctx,
		`SELECT title, url, date_generated, full_quiz_data FROM quizzes WHERE id=$1`, key,
	).Scan(&record.Title, &record.URL, &generated, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDetailRecord{}, r.failure(http.StatusNotFound, domain.MsgDetailFailed, fmt.Errorf("quiz %d not found", key))
	}
	if err != nil {
		return domain.QuizDetailRecord{}, r.failure(http.StatusInternalServerError, domain.MsgDetailFailed, fmt.Errorf("load quiz: %w", err))
	}
	if err := json.Unmarshal([]byte(raw), &record.QuizData); err != nil {
		return domain.QuizDetailRecord{}, r.failure(http.StatusInternalServerError, domain.MsgDetailFailed, fmt.Errorf("unmarshal quiz: %w", err))
	}
	record.ID = domain.QuizID(strconv.FormatInt(key, 10))
	record.DateGenerated = domain.Timestamp{Time: generated.UTC()}
	return record, nil
}

func (r *HistoryReader) failure(status int, message string, err error) error {
	r.log.Warn(message, zap.Int("status", status), zap.Error(err))
	return domain.NewRemoteError(status, message, err)
}
