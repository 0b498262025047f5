package app_test

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"quiz-runner/internal/app"
	"quiz-runner/internal/domain"
)

// sampleBank builds n questions numbered 1..n whose answer is 1000+number.
func sampleBank(n int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, domain.Question{
			Number: i,
			Text:   "Question " + itoa(i),
			Options: []domain.Option{
				{Label: "right", Number: 1000 + i},
				{Label: "wrong", Number: 1},
			},
			Answer: 1000 + i,
		})
	}
	return questions
}

func newTestSession(questions []domain.Question, now func() time.Time) *app.Session {
	return app.NewSession(questions, rand.New(rand.NewSource(99)), now, app.Timing{})
}

func fixedNow(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// eventRecorder is a buffered sink that lets tests wait for specific events.
type eventRecorder struct {
	ch chan domain.Event
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{ch: make(chan domain.Event, 4096)}
}

func (r *eventRecorder) Emit(ev domain.Event) {
	r.ch <- ev
}

// next returns the next event of the given type, skipping time updates.
func (r *eventRecorder) next(t *testing.T, eventType string) domain.Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-r.ch:
			if ev.EventType() == eventType {
				return ev
			}
			if _, ok := ev.(domain.TimeUpdated); ok {
				continue
			}
			t.Fatalf("expected %s, got %s (%+v)", eventType, ev.EventType(), ev)
		case <-timeout:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}

// memoryResults is a ResultStore that keeps entries in a slice.
type memoryResults struct {
	mu      sync.Mutex
	entries []domain.ResultEntry
	err     error
}

func (m *memoryResults) Append(_ context.Context, entry domain.ResultEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryResults) all() []domain.ResultEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ResultEntry(nil), m.entries...)
}

type staticBanks map[string][]domain.Question

func (s staticBanks) GetBank(_ context.Context, bankID string) ([]domain.Question, error) {
	questions, ok := s[bankID]
	if !ok {
		return nil, domain.ErrBankNotFound
	}
	return questions, nil
}

type sessionMap struct {
	mu      sync.Mutex
	engines map[string]*app.Engine
}

func newSessionMap() *sessionMap {
	return &sessionMap{engines: make(map[string]*app.Engine)}
}

func (s *sessionMap) Put(id string, engine *app.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engines[id] = engine
}

func (s *sessionMap) Get(id string) (*app.Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.engines[id]
	return e, ok
}

func (s *sessionMap) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, id)
}

func (s *sessionMap) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engines)
}
