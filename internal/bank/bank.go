// Package bank turns question sources into validated, immutable question banks.
package bank

import (
	"fmt"
	"math/rand"
	"strings"

	"quiz-runner/internal/domain"
)

// Parse decodes and validates a question source in one step.
func Parse(data []byte) ([]domain.Question, error) {
	raw, err := ParseSource(data)
	if err != nil {
		return nil, err
	}
	return Load(raw)
}

// Load validates raw records and returns the question bank.
// The first invalid record fails the whole load with a *domain.ValidationError.
func Load(raw []RawQuestion) ([]domain.Question, error) {
	if len(raw) == 0 {
		return nil, domain.ErrEmptyBank
	}
	questions := make([]domain.Question, 0, len(raw))
	for i, rq := range raw {
		q, err := validate(i, rq)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func validate(pos int, rq RawQuestion) (domain.Question, error) {
	number := 0
	if rq.Number != nil {
		number = *rq.Number
	}
	invalid := func(format string, args ...any) error {
		return &domain.ValidationError{Number: number, Position: pos, Reason: fmt.Sprintf(format, args...)}
	}

	if rq.Number == nil {
		return domain.Question{}, invalid("missing question_number")
	}
	if strings.TrimSpace(rq.Text) == "" {
		return domain.Question{}, invalid("empty question text")
	}

	var options []domain.Option
	for _, group := range rq.Options {
		options = append(options, group...)
	}
	if len(options) == 0 {
		return domain.Question{}, invalid("no options")
	}
	if rq.Answer == nil {
		return domain.Question{}, invalid("missing answer")
	}

	found := false
	for _, opt := range options {
		if opt.Number == *rq.Answer {
			found = true
			break
		}
	}
	if !found {
		return domain.Question{}, invalid("answer %d is not among the option numbers", *rq.Answer)
	}

	return domain.Question{
		Number:  number,
		Text:    rq.Text,
		Options: options,
		Answer:  *rq.Answer,
	}, nil
}

// Shuffled returns a uniformly random permutation of questions drawn from rnd.
// The input slice is left untouched.
func Shuffled(questions []domain.Question, rnd *rand.Rand) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
