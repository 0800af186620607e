package memory

import (
	"sync"

	"wiki-quiz-engine/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	factory  app.SessionFactory
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(factory app.SessionFactory) *SessionStore {
	return &SessionStore{
		factory:  factory,
		sessions: make(map[string]*app.Session),
	}
}

// Create registers a new session under id, replacing any previous one.
func (s *SessionStore) Create(id string) *app.Session {
	session := s.factory(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
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
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
