package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBankNotFound is returned when no question bank exists for an id.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank is returned when a question source holds no questions.
	ErrEmptyBank = errors.New("question bank has no questions")
	// ErrInvalidQuestion is wrapped by every ValidationError.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrCorruptLog matches any CorruptLogError.
	ErrCorruptLog = errors.New("corrupt result log")
	// ErrEngineStopped is returned when a command is sent to an engine that no longer runs.
	ErrEngineStopped = errors.New("quiz engine stopped")
	// ErrSessionNotFound is returned when a live session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
)

// ValidationError names the question record that failed validation.
// Position is the zero-based index of the record in the source list.
type ValidationError struct {
	Number   int
	Position int
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d (entry %d): %s", e.Number, e.Position+1, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidQuestion
}

// CorruptLogError is returned when an existing result log is not a sequence of entries.
type CorruptLogError struct {
	Path string
	Err  error
}

func (e *CorruptLogError) Error() string {
	return fmt.Sprintf("corrupt result log %s: %v", e.Path, e.Err)
}

func (e *CorruptLogError) Unwrap() error {
	return e.Err
}

func (e *CorruptLogError) Is(target error) bool {
	return target == ErrCorruptLog
}
