package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// Sources are the remote collaborators a Session talks to. History and detail
// may come from a different backend than generation.
type Sources struct {
	Generator QuizGenerator
	History   HistorySource
	Detail    DetailSource
}

// Session is the engine state of one UI instance. Sessions share nothing with
// each other and keep nothing beyond their lifetime.
type Session struct {
	ID        string
	CreatedAt time.Time

	Quiz      *QuizView
	Generator *Generator
	History   *HistoryStore
	Overlay   *DetailOverlay
}

// SessionFactory builds the Session for an id.
type SessionFactory func(id string) *Session

// NewSession wires a fresh set of components over sources.
func NewSession(id string, sources Sources, log *zap.Logger) *Session {
	return newSessionWithClock(id, sources, log, time.Now)
}

func newSessionWithClock(id string, sources Sources, log *zap.Logger, now func() time.Time) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id))
	quiz := NewQuizView(log)
	history := NewHistoryStore(sources.History, log)
	return &Session{
		ID:        id,
		CreatedAt: now(),
		Quiz:      quiz,
		Generator: NewGenerator(sources.Generator, quiz, log),
		History:   history,
		Overlay:   NewDetailOverlay(sources.Detail, history, log),
	}
}

// NewSessionFactory returns a factory that wires every session over sources.
func NewSessionFactory(sources Sources, log *zap.Logger) SessionFactory {
	return func(id string) *Session {
		return NewSession(id, sources, log)
	}
}

// ActivateHistory loads the history list, as done when the history view is
// shown.
func (s *Session) ActivateHistory(ctx context.Context) error {
	return s.History.Load(ctx)
}

// OpenDetail opens the overlay for a history entry.
func (s *Session) OpenDetail(ctx context.Context, id domain.QuizID) error {
	return s.Overlay.Open(ctx, id)
}
