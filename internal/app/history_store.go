package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// HistorySource retrieves the list of previously generated quizzes.
type HistorySource interface {
	History(ctx context.Context) ([]domain.QuizSummary, error)
}

// HistoryStatus is the lifecycle of a history retrieval.
type HistoryStatus string

const (
	HistoryIdle    HistoryStatus = "idle"
	HistoryLoading HistoryStatus = "loading"
	HistoryLoaded  HistoryStatus = "loaded"
	HistoryFailed  HistoryStatus = "failed"
)

// HistorySnapshot is the render state of the history list. Error is set
// with Status HistoryFailed when the list itself could not be loaded, and
// alongside HistoryLoaded when a detail load for one of the listed rows failed;
// in that case Items is still valid. The next successful Load clears it.
type HistorySnapshot struct {
	Status HistoryStatus        `json:"status"`
	Items  []domain.QuizSummary `json:"items"`
	Count  int                  `json:"count"`
	Error  string               `json:"error,omitempty"`
}

// HistoryStore holds the history list in the order the source returned it.
type HistoryStore struct {
	source HistorySource
	log    *zap.Logger

	mu     sync.Mutex
	status HistoryStatus
	items  []domain.QuizSummary
	errMsg string
	feed   *feed[HistorySnapshot]
}

func NewHistoryStore(source HistorySource, log *zap.Logger) *HistoryStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryStore{
		source: source,
		log:    log.Named("history"),
		status: HistoryIdle,
		feed:   newFeed[HistorySnapshot](),
	}
}

// Load retrieves the full list. On failure the previous list is discarded and
// the error message kept. Concurrent loads are not coalesced; whichever
// response arrives last is what the store holds.
func (s *HistoryStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.status = HistoryLoading
	s.feed.publish(s.snapshotLocked())
	s.mu.Unlock()

	items, err := s.source.History(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = HistoryFailed
		s.items = nil
		s.errMsg = domain.UserMessage(err)
		s.log.Warn("history load failed", zap.Error(err))
		s.feed.publish(s.snapshotLocked())
		return err
	}
	s.status = HistoryLoaded
	s.items = items
	s.errMsg = ""
	s.log.Debug("history loaded", zap.Int("count", len(items)))
	s.feed.publish(s.snapshotLocked())
	return nil
}

// ReportError surfaces a failure from a related operation, such as a detail
// load, without touching the list.
func (s *HistoryStore) ReportError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = message
	s.feed.publish(s.snapshotLocked())
}

func (s *HistoryStore) Snapshot() HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe streams snapshots after every state change.
func (s *HistoryStore) Subscribe() (<-chan HistorySnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.subscribe(s.snapshotLocked())
}

func (s *HistoryStore) snapshotLocked() HistorySnapshot {
	items := make([]domain.QuizSummary, len(s.items))
	copy(items, s.items)
	return HistorySnapshot{
		Status: s.status,
		Items:  items,
		Count:  len(items),
		Error:  s.errMsg,
	}
}
