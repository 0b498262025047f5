package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"quiz-runner/internal/domain"
)

// SessionRepository tracks the engines of live sessions (in-memory, Redis, etc).
type SessionRepository interface {
	Put(id string, engine *Engine)
	Get(id string) (*Engine, bool)
	Delete(id string)
	Len() int
}

// BankRepository loads validated question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// Settings configures the engines a QuizService opens. Zero fields get defaults.
type Settings struct {
	Timing      Timing
	DefaultBank string
	NewClock    func() Clock
	NewRand     func() *rand.Rand
	Now         func() time.Time
	Logger      *log.Logger
}

func (s Settings) withDefaults() Settings {
	s.Timing = s.Timing.withDefaults()
	if s.DefaultBank == "" {
		s.DefaultBank = "default"
	}
	if s.NewClock == nil {
		s.NewClock = func() Clock { return NewTickerClock() }
	}
	if s.NewRand == nil {
		s.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	return s
}

// QuizService opens one engine per player connection.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	results  ResultStore
	settings Settings
}

func NewQuizService(sessions SessionRepository, banks BankRepository, results ResultStore, settings Settings) *QuizService {
	return &QuizService{
		sessions: sessions,
		banks:    banks,
		results:  results,
		settings: settings.withDefaults(),
	}
}

// Open loads a bank and registers a new engine for it. The caller runs the
// engine and must call Close when the player leaves.
func (s *QuizService) Open(ctx context.Context, bankID string, sink EventSink) (*Engine, error) {
	if bankID == "" {
		bankID = s.settings.DefaultBank
	}
	questions, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	session := NewSession(questions, s.settings.NewRand(), s.settings.Now, s.settings.Timing)
	engine := NewEngine(id, session, s.settings.NewClock(), s.results, sink, s.settings.Logger)
	s.sessions.Put(id, engine)
	return engine, nil
}

// Engine looks up a live session.
func (s *QuizService) Engine(id string) (*Engine, error) {
	engine, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return engine, nil
}

// Close forgets a session.
func (s *QuizService) Close(id string) {
	s.sessions.Delete(id)
}

// ActiveSessions reports how many sessions are registered.
func (s *QuizService) ActiveSessions() int {
	return s.sessions.Len()
}

type toucher interface {
	Touch(ctx context.Context, id string) error
}

// Touch refreshes the liveness of a session in repositories that expire them.
func (s *QuizService) Touch(ctx context.Context, id string) {
	t, ok := s.sessions.(toucher)
	if !ok {
		return
	}
	if err := t.Touch(ctx, id); err != nil {
		s.settings.Logger.Printf("session %s: touch: %v", id, err)
	}
}
