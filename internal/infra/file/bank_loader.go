package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"quiz-runner/internal/assets"
	"quiz-runner/internal/bank"
	"quiz-runner/internal/domain"
)

// BankLoader reads question banks from <dir>/<bankID>.json. The default bank
// falls back to the embedded one when no file overrides it.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) ([]domain.Question, error) {
	if bankID == "" {
		bankID = assets.DefaultBankID
	}
	if bankID != filepath.Base(bankID) || strings.HasPrefix(bankID, ".") {
		return nil, domain.ErrBankNotFound
	}

	var data []byte
	var err error
	if l.dir != "" {
		data, err = os.ReadFile(filepath.Join(l.dir, bankID+".json"))
	} else {
		err = fs.ErrNotExist
	}
	switch {
	case errors.Is(err, fs.ErrNotExist) && bankID == assets.DefaultBankID:
		data = assets.DefaultQuestions
	case errors.Is(err, fs.ErrNotExist):
		return nil, domain.ErrBankNotFound
	case err != nil:
		return nil, fmt.Errorf("read bank %s: %w", bankID, err)
	}

	questions, err := bank.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", bankID, err)
	}
	return questions, nil
}

// LoadFile reads and validates a single question source file.
func LoadFile(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	questions, err := bank.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return questions, nil
}
