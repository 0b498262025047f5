package app

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"quiz-runner/internal/bank"
	"quiz-runner/internal/domain"
)

const (
	DefaultQuestionTime = 30 * time.Second
	DefaultTickInterval = 100 * time.Millisecond

	// resultTimeLayout is ISO-8601 local date-time without zone.
	resultTimeLayout = "2006-01-02T15:04:05"
)

// State of a quiz session.
type State int

const (
	StateAwaitingAnswer State = iota
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Transition tells the engine what to do with the clock after a session step.
type Transition int

const (
	// TransitionNone leaves the running clock alone.
	TransitionNone Transition = iota
	// TransitionIgnored means the step did not apply in the current state.
	TransitionIgnored
	// TransitionRetry resumes the clock with the remaining time unchanged.
	TransitionRetry
	// TransitionNext arms the clock for a fresh question.
	TransitionNext
	// TransitionFinished ends the session; the clock stays stopped.
	TransitionFinished
)

// Timing holds the per-question budget and the tick interval.
type Timing struct {
	QuestionTime time.Duration
	TickInterval time.Duration
}

func (t Timing) withDefaults() Timing {
	if t.QuestionTime <= 0 {
		t.QuestionTime = DefaultQuestionTime
	}
	if t.TickInterval <= 0 {
		t.TickInterval = DefaultTickInterval
	}
	return t
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	State     State
	Index     int
	Total     int
	Correct   int
	Incorrect int
	TimeLeft  time.Duration
	Order     []int
}

// Session is the single live quiz run. It is not safe for concurrent use;
// the Engine owns it and serializes every step through its command queue.
// Invariant: correct+incorrect == index at all times.
type Session struct {
	bank      []domain.Question
	questions []domain.Question
	index     int
	correct   int
	incorrect int
	startedAt time.Time
	timeLeft  time.Duration
	state     State

	timing Timing
	rnd    *rand.Rand
	now    func() time.Time
}

// NewSession builds a session over an immutable bank. Call Reset to start it.
func NewSession(questions []domain.Question, rnd *rand.Rand, now func() time.Time, timing Timing) *Session {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Session{
		bank:   questions,
		timing: timing.withDefaults(),
		rnd:    rnd,
		now:    now,
		state:  StateFinished,
	}
}

// Reset starts (or replays) the session in place: counters and index go back
// to zero, the bank is reshuffled and the first question is shown.
func (s *Session) Reset() []domain.Event {
	s.index = 0
	s.correct = 0
	s.incorrect = 0
	s.questions = bank.Shuffled(s.bank, s.rnd)
	s.startedAt = s.now()
	if len(s.questions) == 0 {
		s.state = StateFinished
		return nil
	}
	s.state = StateAwaitingAnswer
	s.timeLeft = s.timing.QuestionTime
	return []domain.Event{s.questionShown()}
}

// Tick consumes one interval of the active question's time.
func (s *Session) Tick() ([]domain.Event, Transition) {
	if s.state != StateAwaitingAnswer {
		return nil, TransitionIgnored
	}

	s.timeLeft -= s.timing.TickInterval
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		q := s.questions[s.index]
		s.incorrect++
		answer := q.Answer
		events := []domain.Event{domain.AnswerFeedback{
			Kind:          domain.FeedbackTimeout,
			Message:       fmt.Sprintf("Time's up! Correct was: %d", q.Answer),
			CorrectAnswer: &answer,
		}}
		return s.advance(events)
	}

	return []domain.Event{domain.TimeUpdated{
		TimeLeftMs: s.timeLeft.Milliseconds(),
		Band:       s.band(),
	}}, TransitionNone
}

// Submit judges a raw answer. Input that is not a run of decimal digits
// changes nothing and asks for a retry.
func (s *Session) Submit(raw string) ([]domain.Event, Transition) {
	if s.state != StateAwaitingAnswer {
		return nil, TransitionIgnored
	}

	input := strings.TrimSpace(raw)
	if !isDigits(input) {
		return []domain.Event{domain.AnswerFeedback{
			Kind:    domain.FeedbackInvalid,
			Message: "Please enter a number.",
		}}, TransitionRetry
	}

	q := s.questions[s.index]
	// An out-of-range number cannot match any answer.
	ans, err := strconv.Atoi(input)
	var events []domain.Event
	if err == nil && ans == q.Answer {
		s.correct++
		events = append(events, domain.AnswerFeedback{Kind: domain.FeedbackCorrect, Message: "Correct!"})
	} else {
		s.incorrect++
		answer := q.Answer
		events = append(events, domain.AnswerFeedback{
			Kind:          domain.FeedbackWrong,
			Message:       fmt.Sprintf("Wrong. Correct was: %d", q.Answer),
			CorrectAnswer: &answer,
		})
	}
	return s.advance(events)
}

// advance moves past the judged question. Scoring and advancing happen in the
// same step so the counters always add up to the index.
func (s *Session) advance(events []domain.Event) ([]domain.Event, Transition) {
	s.index++
	if s.index >= len(s.questions) {
		s.state = StateFinished
		s.timeLeft = 0
		return events, TransitionFinished
	}
	s.timeLeft = s.timing.QuestionTime
	return append(events, s.questionShown()), TransitionNext
}

// Result builds the log entry for a finished session.
func (s *Session) Result() domain.ResultEntry {
	now := s.now()
	return domain.ResultEntry{
		DateTime: now.Format(resultTimeLayout),
		Correct:  s.correct,
		Wrong:    s.incorrect,
		Duration: FormatDuration(now.Sub(s.startedAt)),
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Timing() Timing {
	return s.timing
}

func (s *Session) Snapshot() Snapshot {
	order := make([]int, 0, len(s.questions))
	for _, q := range s.questions {
		order = append(order, q.Number)
	}
	return Snapshot{
		State:     s.state,
		Index:     s.index,
		Total:     len(s.questions),
		Correct:   s.correct,
		Incorrect: s.incorrect,
		TimeLeft:  s.timeLeft,
		Order:     order,
	}
}

func (s *Session) questionShown() domain.Event {
	q := s.questions[s.index]
	opts := make([]domain.Option, len(q.Options))
	copy(opts, q.Options)
	return domain.QuestionShown{
		Number:      q.Number,
		Text:        q.Text,
		Options:     opts,
		Position:    s.index + 1,
		Total:       len(s.questions),
		TimeLimitMs: s.timing.QuestionTime.Milliseconds(),
	}
}

// band classifies timeLeft/questionTime: >= 0.6 normal, >= 0.3 warning, else critical.
func (s *Session) band() domain.Band {
	left, total := int64(s.timeLeft), int64(s.timing.QuestionTime)
	switch {
	case left*10 >= total*6:
		return domain.BandNormal
	case left*10 >= total*3:
		return domain.BandWarning
	default:
		return domain.BandCritical
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
