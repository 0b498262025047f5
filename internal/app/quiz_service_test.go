package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-runner/internal/app"
	"quiz-runner/internal/domain"
)

func TestOpenRegistersSession(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionMap()
	clock := app.NewManualClock()
	service := app.NewQuizService(sessions, staticBanks{"default": sampleBank(2)}, &memoryResults{}, app.Settings{
		NewClock: func() app.Clock { return clock },
	})

	events := newEventRecorder()
	engine, err := service.Open(ctx, "", events)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if service.ActiveSessions() != 1 {
		t.Fatalf("expected one active session, got %d", service.ActiveSessions())
	}
	if got, err := service.Engine(engine.ID()); err != nil || got != engine {
		t.Fatalf("lookup failed: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- engine.Run(runCtx) }()

	shown := events.next(t, "questionShown").(domain.QuestionShown)
	if shown.Total != 2 || shown.TimeLimitMs != 30000 {
		t.Fatalf("unexpected first question %+v", shown)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	service.Close(engine.ID())
	if _, err := service.Engine(engine.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session removed, got %v", err)
	}
}

func TestOpenUnknownBank(t *testing.T) {
	service := app.NewQuizService(newSessionMap(), staticBanks{}, &memoryResults{}, app.Settings{})

	_, err := service.Open(context.Background(), "missing", nil)
	if !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
	if service.ActiveSessions() != 0 {
		t.Fatalf("failed open must not register a session")
	}
}

type touchingSessions struct {
	*sessionMap
	touched []string
}

func (s *touchingSessions) Touch(_ context.Context, id string) error {
	s.touched = append(s.touched, id)
	return nil
}

func TestTouchRefreshesExpiringRepositories(t *testing.T) {
	sessions := &touchingSessions{sessionMap: newSessionMap()}
	service := app.NewQuizService(sessions, staticBanks{}, &memoryResults{}, app.Settings{})
	service.Touch(context.Background(), "abc")
	if len(sessions.touched) != 1 || sessions.touched[0] != "abc" {
		t.Fatalf("expected touch for abc, got %v", sessions.touched)
	}

	// Repositories without expiry are left alone.
	app.NewQuizService(newSessionMap(), staticBanks{}, &memoryResults{}, app.Settings{}).Touch(context.Background(), "abc")
}
