package memory

import (
	"sync"

	"quiz-runner/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Engine
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Engine),
	}
}

func (s *SessionStore) Put(id string, engine *app.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = engine
}

func (s *SessionStore) Get(id string) (*app.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.sessions[id]
	return engine, ok
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
