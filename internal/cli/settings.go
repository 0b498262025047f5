package cli

import (
	"context"
	"fmt"

	"quiz-runner/internal/app"
	"quiz-runner/internal/config"
	"quiz-runner/internal/domain"
	"quiz-runner/internal/infra/file"
)

const defaultResultsPath = "quiz_results.json"

func settingsFromConfig(cfg config.Config) app.Settings {
	return app.Settings{
		Timing: app.Timing{
			QuestionTime: config.Duration(cfg.Quiz.QuestionTime, app.DefaultQuestionTime),
			TickInterval: config.Duration(cfg.Quiz.TickInterval, app.DefaultTickInterval),
		},
		DefaultBank: cfg.Quiz.DefaultBank,
	}
}

// loadQuestions reads an explicit question file, or the named bank from the
// configured bank directory (falling back to the embedded default bank).
func loadQuestions(ctx context.Context, cfg config.Config, questionsPath, bankID string) ([]domain.Question, error) {
	if questionsPath != "" {
		return file.LoadFile(questionsPath)
	}
	bankID = config.Or(bankID, cfg.Quiz.DefaultBank)
	questions, err := file.NewBankLoader(cfg.Quiz.BankDir).LoadBank(ctx, bankID)
	if err != nil {
		return nil, fmt.Errorf("bank %q: %w", bankID, err)
	}
	return questions, nil
}
