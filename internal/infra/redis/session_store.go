package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wiki-quiz-engine/internal/app"
)

const keyPrefix = "wikiquiz:session:"

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions themselves live in a local map; their subscriptions are in-process.
//   - Redis only carries a liveness marker per session so other instances and
//     operators can see which shells are open.
type SessionStore struct {
	client   *redis.Client
	factory  app.SessionFactory
	ttl      time.Duration
	log      *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, factory app.SessionFactory, ttl time.Duration, log *zap.Logger) *SessionStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionStore{
		client:   client,
		factory:  factory,
		ttl:      ttl,
		log:      log.Named("session_store"),
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(id string) *app.Session {
	session := s.factory(id)
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	// best-effort liveness marker
	value := session.CreatedAt.UTC().Format(time.RFC3339)
	if err := s.client.Set(context.Background(), Key(id), value, s.ttl).Err(); err != nil {
		s.log.Warn("liveness marker not written", zap.String("session", id), zap.Error(err))
	}
	return session
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := s.client.Del(context.Background(), Key(id)).Err(); err != nil {
		s.log.Warn("liveness marker not removed", zap.String("session", id), zap.Error(err))
	}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Touch extends the liveness marker of an open session.
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		return nil
	}
	return s.client.Expire(ctx, Key(id), s.ttl).Err()
}

// Key is the Redis key holding the liveness marker of session id.
func Key(id string) string {
	return keyPrefix + id
}
