package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"quiz-runner/internal/bank"
	"quiz-runner/internal/domain"
)

// BankImporter upserts validated question banks into the question_banks table.
type BankImporter struct {
	db *bun.DB
}

func NewBankImporter(db *bun.DB) *BankImporter {
	return &BankImporter{db: db}
}

// Import stores questions under bankID, replacing any previous version.
func (i *BankImporter) Import(ctx context.Context, bankID string, questions []domain.Question) error {
	if bankID == "" {
		return fmt.Errorf("import bank: empty id")
	}
	if len(questions) == 0 {
		return domain.ErrEmptyBank
	}
	data, err := bank.Encode(questions)
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	_, err = i.db.ExecContext(ctx,
		`INSERT INTO question_banks (id, data) VALUES (?, ?::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		bankID, string(data))
	if err != nil {
		return fmt.Errorf("import bank %s: %w", bankID, err)
	}
	return nil
}
