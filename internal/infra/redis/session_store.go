package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-runner/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Engines live in a local map; an engine owns goroutines and cannot move
//     between processes.
//   - Redis holds a liveness marker per session so operators can count live
//     sessions across instances (SCAN quiz:session:*).
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Engine
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Engine),
	}
}

func (s *SessionStore) Put(id string, engine *app.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = engine
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), "1", s.ttl).Err()
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
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Touch extends the liveness marker of a session that is still active.
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, s.key(id), s.ttl).Err()
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
