package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// SessionRepository abstracts where live shell sessions are registered
// (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Create(id string) *Session
	Get(id string) (*Session, bool)
	Delete(id string)
	Len() int
}

// Toucher is implemented by repositories whose registrations expire unless
// refreshed.
type Toucher interface {
	Touch(ctx context.Context, id string) error
}

// SessionGauge tracks the number of live sessions.
type SessionGauge interface {
	Inc()
	Dec()
}

// ShellService manages the lifetime of UI sessions.
type ShellService struct {
	sessions SessionRepository
	gauge    SessionGauge
	log      *zap.Logger
}

func NewShellService(store SessionRepository, gauge SessionGauge, log *zap.Logger) *ShellService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShellService{
		sessions: store,
		gauge:    gauge,
		log:      log.Named("shell"),
	}
}

// Start creates a session under a new random id.
func (s *ShellService) Start(_ context.Context) *Session {
	id := uuid.NewString()
	session := s.sessions.Create(id)
	if s.gauge != nil {
		s.gauge.Inc()
	}
	s.log.Info("session started", zap.String("session", id))
	return session
}

// Session looks up a live session.
func (s *ShellService) Session(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// End closes the session's overlay and unregisters it. Ending twice is a no-op.
func (s *ShellService) End(_ context.Context, id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.Overlay.Close()
	s.sessions.Delete(id)
	if s.gauge != nil {
		s.gauge.Dec()
	}
	s.log.Info("session ended", zap.String("session", id))
}

// Touch refreshes the registration of a session that is still in use.
func (s *ShellService) Touch(ctx context.Context, id string) {
	t, ok := s.sessions.(Toucher)
	if !ok {
		return
	}
	if err := t.Touch(ctx, id); err != nil {
		s.log.Debug("session touch failed", zap.String("session", id), zap.Error(err))
	}
}

// Active returns the number of registered sessions.
func (s *ShellService) Active() int {
	return s.sessions.Len()
}
