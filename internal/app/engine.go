package app

import (
	"context"
	"log"

	"quiz-runner/internal/domain"
)

// EventSink receives engine events. Emit is called from the engine's command loop.
type EventSink interface {
	Emit(event domain.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event domain.Event)

func (f EventSinkFunc) Emit(event domain.Event) { f(event) }

// ResultStore persists finished-session summaries.
type ResultStore interface {
	Append(ctx context.Context, entry domain.ResultEntry) error
}

type command interface{}

type tickCmd struct{ gen uint64 }

type submitCmd struct{ text string }

type replayCmd struct{}

type snapshotCmd struct{ reply chan Snapshot }

// Engine owns one Session and applies clock ticks, submissions and replays to
// it strictly one at a time from a single command queue.
type Engine struct {
	id      string
	session *Session
	clock   Clock
	results ResultStore
	sink    EventSink
	logger  *log.Logger

	cmds chan command
	done chan struct{}

	// gen identifies the current clock run; ticks from older runs are dropped.
	// Only touched by the Run goroutine.
	gen uint64
}

func NewEngine(id string, session *Session, clock Clock, results ResultStore, sink EventSink, logger *log.Logger) *Engine {
	if clock == nil {
		clock = NewTickerClock()
	}
	if sink == nil {
		sink = EventSinkFunc(func(domain.Event) {})
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		id:      id,
		session: session,
		clock:   clock,
		results: results,
		sink:    sink,
		logger:  logger,
		cmds:    make(chan command, 16),
		done:    make(chan struct{}),
	}
}

func (e *Engine) ID() string {
	return e.id
}

// Run starts the session and processes commands until ctx is done.
// It must be called exactly once.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)
	defer e.stopClock()

	e.restart()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-e.cmds:
			e.dispatch(ctx, cmd)
		}
	}
}

// Submit queues a raw answer for the active question.
func (e *Engine) Submit(ctx context.Context, text string) error {
	return e.enqueue(ctx, submitCmd{text: text})
}

// Replay queues a restart of the session with a fresh shuffle.
func (e *Engine) Replay(ctx context.Context) error {
	return e.enqueue(ctx, replayCmd{})
}

// Snapshot returns the session state as seen by the command loop, after every
// command queued before it has been applied.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := e.enqueue(ctx, snapshotCmd{reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-e.done:
		return Snapshot{}, domain.ErrEngineStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (e *Engine) enqueue(ctx context.Context, cmd command) error {
	select {
	case e.cmds <- cmd:
		return nil
	case <-e.done:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) dispatch(ctx context.Context, cmd command) {
	switch c := cmd.(type) {
	case tickCmd:
		if c.gen != e.gen {
			return
		}
		events, tr := e.session.Tick()
		if tr != TransitionNone {
			e.stopClock()
		}
		e.apply(ctx, events, tr)
	case submitCmd:
		if e.session.State() != StateAwaitingAnswer {
			e.logger.Printf("session %s: submission ignored, session is %s", e.id, e.session.State())
			return
		}
		e.stopClock()
		events, tr := e.session.Submit(c.text)
		e.apply(ctx, events, tr)
	case replayCmd:
		e.restart()
	case snapshotCmd:
		c.reply <- e.session.Snapshot()
	}
}

// apply arms the clock for the transition before emitting, so a front end that
// reacts to an event never observes a stopped clock for an active question.
func (e *Engine) apply(ctx context.Context, events []domain.Event, tr Transition) {
	switch tr {
	case TransitionRetry, TransitionNext:
		e.armClock()
		e.emit(events)
	case TransitionFinished:
		e.emit(events)
		e.finish(ctx)
	default:
		e.emit(events)
	}
}

func (e *Engine) restart() {
	e.stopClock()
	events := e.session.Reset()
	if e.session.State() == StateAwaitingAnswer {
		e.armClock()
	}
	e.emit(events)
}

func (e *Engine) finish(ctx context.Context) {
	entry := e.session.Result()
	finished := domain.SessionFinished{
		Correct:  entry.Correct,
		Wrong:    entry.Wrong,
		Duration: entry.Duration,
	}
	if e.results != nil {
		// The score is already final; a cancelled session must still be recorded.
		if err := e.results.Append(context.WithoutCancel(ctx), entry); err != nil {
			e.logger.Printf("session %s: save result: %v", e.id, err)
			finished.SaveError = err.Error()
		}
	}
	e.sink.Emit(finished)
}

func (e *Engine) armClock() {
	e.gen++
	gen := e.gen
	e.clock.Start(e.session.Timing().TickInterval, func() {
		select {
		case e.cmds <- tickCmd{gen: gen}:
		case <-e.done:
		}
	})
}

func (e *Engine) stopClock() {
	e.clock.Stop()
	e.gen++
}

func (e *Engine) emit(events []domain.Event) {
	for _, ev := range events {
		e.sink.Emit(ev)
	}
}
