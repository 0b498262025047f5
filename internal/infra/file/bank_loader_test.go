package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"quiz-runner/internal/domain"
)

const twoQuestions = `{"questions": [
  {"question_number": 1, "question": "One?", "options": [{"yes": 1}, {"no": 2}], "answer": 1},
  {"question_number": 2, "question": "Two?", "options": [{"yes": 1}, {"no": 2}], "answer": 2}
]}`

func TestBankLoaderEmbeddedDefault(t *testing.T) {
	loader := NewBankLoader("")
	questions, err := loader.LoadBank(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, questions)
}

func TestBankLoaderReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basics.json"), []byte(twoQuestions), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"), []byte(twoQuestions), 0o644))

	loader := NewBankLoader(dir)
	questions, err := loader.LoadBank(context.Background(), "basics")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	// a default.json on disk overrides the embedded bank
	questions, err = loader.LoadBank(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, questions, 2)
}

func TestBankLoaderUnknownAndUnsafeIDs(t *testing.T) {
	loader := NewBankLoader(t.TempDir())
	for _, id := range []string{"missing", "../etc/passwd", "a/b", ".hidden"} {
		_, err := loader.LoadBank(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrBankNotFound, id)
	}
}

func TestLoadFileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"questions": [
	  {"question_number": 9, "question": "Q", "options": [{"a": 1}], "answer": 3}
	]}`), 0o644))

	_, err := LoadFile(path)
	require.ErrorIs(t, err, domain.ErrInvalidQuestion)
	require.Contains(t, err.Error(), "question 9")
}
