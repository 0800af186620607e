package memory

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"wiki-quiz-engine/internal/domain"
)

// Catalog is a fixed set of quizzes served in place of the remote service,
// useful for tests and offline demos. GenerateQuiz only "generates" quizzes
// whose URL is already in the catalog.
type Catalog struct {
	mu      sync.RWMutex
	records []domain.QuizDetailRecord
}

func NewCatalog(records ...domain.QuizDetailRecord) *Catalog {
	cp := make([]domain.QuizDetailRecord, len(records))
	copy(cp, records)
	return &Catalog{records: cp}
}

// History lists entries newest first, the order the remote service uses.
func (c *Catalog) History(ctx context.Context) ([]domain.QuizSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewRemoteError(0, domain.MsgHistoryFailed, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.QuizSummary, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.QuizSummary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateGenerated.After(out[j].DateGenerated.Time)
	})
	return out, nil
}

func (c *Catalog) QuizDetail(ctx context.Context, id domain.QuizID) (domain.QuizDetailRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.QuizDetailRecord{}, domain.NewRemoteError(0, domain.MsgDetailFailed, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.QuizDetailRecord{}, domain.NewRemoteError(http.StatusNotFound, domain.MsgDetailFailed, nil)
}

func (c *Catalog) GenerateQuiz(ctx context.Context, articleURL string) (domain.QuizData, error) {
	if err := ctx.Err(); err != nil {
		return domain.QuizData{}, domain.NewRemoteError(0, domain.MsgGenerateFailed, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if strings.EqualFold(r.URL, articleURL) {
			return r.QuizData, nil
		}
	}
	return domain.QuizData{}, domain.NewRemoteError(http.StatusBadRequest,
		"Error generating quiz: article is not available offline", nil)
}
