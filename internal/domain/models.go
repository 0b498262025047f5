package domain

// Option pairs a human-readable label with the number a player types to pick it.
type Option struct {
	Label  string `json:"label"`
	Number int    `json:"number"`
}

// Question is an immutable multiple-choice question from a bank.
// Number is a display identifier and need not match the position in the bank.
type Question struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
	Answer  int      `json:"answer"`
}

// ResultEntry is one persisted summary of a finished session.
// Duration holds an HH:MM:SS string even though the field is named duration_ms;
// the name is kept for compatibility with existing result logs.
type ResultEntry struct {
	DateTime string `json:"date_time"`
	Correct  int    `json:"correct"`
	Wrong    int    `json:"wrong"`
	Duration string `json:"duration_ms"`
}

// Band is the severity of the remaining time on the active question.
type Band string

const (
	BandNormal   Band = "normal"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// FeedbackKind classifies an AnswerFeedback event.
type FeedbackKind string

const (
	FeedbackCorrect FeedbackKind = "correct"
	FeedbackWrong   FeedbackKind = "wrong"
	FeedbackTimeout FeedbackKind = "timeout"
	FeedbackInvalid FeedbackKind = "invalid"
)

// Event is emitted by a quiz engine towards whatever front end renders it.
type Event interface {
	EventType() string
}

// QuestionShown announces the question that is now awaiting an answer.
type QuestionShown struct {
	Number      int      `json:"number"`
	Text        string   `json:"text"`
	Options     []Option `json:"options"`
	Position    int      `json:"position"`
	Total       int      `json:"total"`
	TimeLimitMs int64    `json:"timeLimitMs"`
}

// TimeUpdated reports the remaining time on the active question.
type TimeUpdated struct {
	TimeLeftMs int64 `json:"timeLeftMs"`
	Band       Band  `json:"band"`
}

// AnswerFeedback tells the player how the last submission (or timeout) was judged.
// CorrectAnswer is set for wrong answers and timeouts only.
type AnswerFeedback struct {
	Kind          FeedbackKind `json:"kind"`
	Message       string       `json:"message"`
	CorrectAnswer *int         `json:"correctAnswer,omitempty"`
}

// SessionFinished carries the final score of a session.
// SaveError is set when the result could not be persisted; the score stands regardless.
type SessionFinished struct {
	Correct   int    `json:"correct"`
	Wrong     int    `json:"wrong"`
	Duration  string `json:"duration"`
	SaveError string `json:"saveError,omitempty"`
}

func (QuestionShown) EventType() string   { return "questionShown" }
func (TimeUpdated) EventType() string     { return "timeUpdated" }
func (AnswerFeedback) EventType() string  { return "answerFeedback" }
func (SessionFinished) EventType() string { return "sessionFinished" }
