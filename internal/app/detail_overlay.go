package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// DetailSource retrieves the full content of one history entry.
type DetailSource interface {
	QuizDetail(ctx context.Context, id domain.QuizID) (domain.QuizDetailRecord, error)
}

// OverlayPhase is the state of an open overlay.
type OverlayPhase string

const (
	OverlayClosed  OverlayPhase = "closed"
	OverlayLoading OverlayPhase = "loading"
	OverlayLoaded  OverlayPhase = "loaded"
	OverlayFailed  OverlayPhase = "failed"
)

const defaultOverlayTitle = "Quiz Details"

// OverlaySnapshot is the render state of the detail overlay.
type OverlaySnapshot struct {
	Open   bool                `json:"open"`
	Phase  OverlayPhase        `json:"phase"`
	ID     domain.QuizID       `json:"id,omitempty"`
	Title  string              `json:"title,omitempty"`
	Record *domain.QuizSummary `json:"record,omitempty"`
	Quiz   *QuizSnapshot       `json:"quiz,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// DetailOverlay shows one history entry at a time. Every Open fetches anew and
// each fetch carries a token; a response is applied only if its token is still
// current, so Close and later Opens always win over pending responses.
type DetailOverlay struct {
	source  DetailSource
	history *HistoryStore
	log     *zap.Logger

	mu     sync.Mutex
	token  uint64
	open   bool
	phase  OverlayPhase
	id     domain.QuizID
	record *domain.QuizDetailRecord
	view   *QuizView
	feed   *feed[OverlaySnapshot]
}

// NewDetailOverlay builds a closed overlay. Failed detail loads are reported
// through history.
func NewDetailOverlay(source DetailSource, history *HistoryStore, log *zap.Logger) *DetailOverlay {
	if log == nil {
		log = zap.NewNop()
	}
	return &DetailOverlay{
		source:  source,
		history: history,
		log:     log.Named("detail_overlay"),
		phase:   OverlayClosed,
		feed:    newFeed[OverlaySnapshot](),
	}
}

// Open shows the overlay in loading state and fetches id. It returns
// domain.ErrStaleResponse when the overlay was closed or reopened for another
// request before the response arrived; that response is dropped.
func (o *DetailOverlay) Open(ctx context.Context, id domain.QuizID) error {
	o.mu.Lock()
	o.token++
	token := o.token
	o.open = true
	o.phase = OverlayLoading
	o.id = id
	o.record = nil
	o.view = nil
	o.feed.publish(o.snapshotLocked())
	o.mu.Unlock()

	record, err := o.source.QuizDetail(ctx, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open || o.token != token {
		o.log.Debug("discarding stale detail response", zap.Stringer("id", id), zap.Error(err))
		return domain.ErrStaleResponse
	}

	if err != nil {
		o.log.Warn("detail load failed", zap.Stringer("id", id), zap.Error(err))
		o.closeLocked()
		if o.history != nil {
			o.history.ReportError(domain.UserMessage(err))
		}
		return err
	}

	view := NewQuizView(o.log)
	loadErr := view.Load(record.QuizData, ModeReview, ReviewOnly())
	o.record = &record
	o.view = view
	if loadErr != nil {
		o.phase = OverlayFailed
		o.feed.publish(o.snapshotLocked())
		return loadErr
	}
	o.phase = OverlayLoaded
	o.feed.publish(o.snapshotLocked())
	return nil
}

// Close hides the overlay and discards its record and any pending response.
func (o *DetailOverlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closeLocked()
}

func (o *DetailOverlay) closeLocked() {
	o.token++
	o.open = false
	o.phase = OverlayClosed
	o.id = ""
	o.record = nil
	o.view = nil
	o.feed.publish(o.snapshotLocked())
}

// View returns the review-only quiz view of the loaded record, if any.
func (o *DetailOverlay) View() (*QuizView, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view, o.view != nil
}

func (o *DetailOverlay) Snapshot() OverlaySnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Subscribe streams snapshots after every state change.
func (o *DetailOverlay) Subscribe() (<-chan OverlaySnapshot, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.feed.subscribe(o.snapshotLocked())
}

func (o *DetailOverlay) snapshotLocked() OverlaySnapshot {
	if !o.open {
		return OverlaySnapshot{Phase: OverlayClosed}
	}
	snap := OverlaySnapshot{
		Open:  true,
		Phase: o.phase,
		ID:    o.id,
		Title: defaultOverlayTitle,
	}
	if o.record != nil {
		summary := o.record.QuizSummary
		snap.Record = &summary
		if summary.Title != "" {
			snap.Title = summary.Title
		}
	}
	if o.view != nil {
		quiz := o.view.Snapshot()
		snap.Quiz = &quiz
		snap.Error = quiz.Error
	}
	return snap
}

// IsStale reports whether err only signals a superseded response.
func IsStale(err error) bool {
	return errors.Is(err, domain.ErrStaleResponse)
}
