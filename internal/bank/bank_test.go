package bank

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"quiz-runner/internal/domain"
)

const sampleSource = `{
  "questions": [
    {"question_number": 7, "question": "Capital of France?",
     "options": [{"Berlin": 1}, {"Paris": 2}, {"Rome": 3}], "answer": 2},
    {"question_number": 3, "question": "2 + 2?",
     "options": [{"three": 3, "four": 4, "five": 5}], "answer": 4}
  ]
}`

func TestParseKeepsOptionOrder(t *testing.T) {
	questions, err := Parse([]byte(sampleSource))
	require.NoError(t, err)
	require.Len(t, questions, 2)

	require.Equal(t, 7, questions[0].Number)
	require.Equal(t, []domain.Option{
		{Label: "Berlin", Number: 1},
		{Label: "Paris", Number: 2},
		{Label: "Rome", Number: 3},
	}, questions[0].Options)

	// several pairs inside one option object are flattened in key order
	require.Equal(t, []domain.Option{
		{Label: "three", Number: 3},
		{Label: "four", Number: 4},
		{Label: "five", Number: 5},
	}, questions[1].Options)
}

func TestParseSourceErrors(t *testing.T) {
	_, err := ParseSource([]byte(`{"items": []}`))
	require.Error(t, err)

	_, err = ParseSource([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseSource([]byte(`{"questions": [{"options": ["Paris"]}]}`))
	require.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name   string
		source string
		number int
	}{
		{
			name:   "empty text",
			source: `{"questions": [{"question_number": 4, "question": "  ", "options": [{"a": 1}], "answer": 1}]}`,
			number: 4,
		},
		{
			name:   "no options",
			source: `{"questions": [{"question_number": 5, "question": "Q", "options": [], "answer": 1}]}`,
			number: 5,
		},
		{
			name:   "answer not an option",
			source: `{"questions": [{"question_number": 6, "question": "Q", "options": [{"a": 1}, {"b": 2}], "answer": 9}]}`,
			number: 6,
		},
		{
			name:   "missing answer",
			source: `{"questions": [{"question_number": 8, "question": "Q", "options": [{"a": 1}]}]}`,
			number: 8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.source))
			require.ErrorIs(t, err, domain.ErrInvalidQuestion)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.number, verr.Number)
		})
	}
}

func TestLoadRejectsEmptyBank(t *testing.T) {
	_, err := Parse([]byte(`{"questions": []}`))
	require.ErrorIs(t, err, domain.ErrEmptyBank)
}

func TestEncodeRoundTrip(t *testing.T) {
	questions, err := Parse([]byte(sampleSource))
	require.NoError(t, err)

	data, err := Encode(questions)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, questions, again)
}

func TestShuffledIsPermutation(t *testing.T) {
	var questions []domain.Question
	for i := 1; i <= 20; i++ {
		questions = append(questions, domain.Question{
			Number:  i * 10,
			Text:    "q",
			Options: []domain.Option{{Label: "a", Number: 1}},
			Answer:  1,
		})
	}
	original := make([]domain.Question, len(questions))
	copy(original, questions)

	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 5; round++ {
		shuffled := Shuffled(questions, rnd)
		require.Len(t, shuffled, len(questions))
		require.Equal(t, numbers(questions), numbers(shuffled))
	}
	require.Equal(t, original, questions, "bank must not be mutated")
}

func TestShuffledDeterministicWithSeed(t *testing.T) {
	questions, err := Parse([]byte(sampleSource))
	require.NoError(t, err)

	a := Shuffled(questions, rand.New(rand.NewSource(7)))
	b := Shuffled(questions, rand.New(rand.NewSource(7)))
	require.Equal(t, a, b)
}

func numbers(questions []domain.Question) []int {
	out := make([]int, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Number)
	}
	sort.Ints(out)
	return out
}
