package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"quiz-runner/internal/app"
	"quiz-runner/internal/config"
	"quiz-runner/internal/infra/file"
	"quiz-runner/internal/transport/terminal"
)

type playOptions struct {
	questions string
	bank      string
	results   string
}

// NewPlayCmd runs a single quiz session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, *configPath, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.questions, "questions", "", "path to a question source file")
	cmd.Flags().StringVar(&opts.bank, "bank", "", "bank id to load from the bank directory")
	cmd.Flags().StringVar(&opts.results, "results", "", "path to the result log")
	return cmd
}

func runPlay(ctx context.Context, configPath string, opts playOptions, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	questions, err := loadQuestions(ctx, cfg, opts.questions, opts.bank)
	if err != nil {
		return err
	}

	settings := settingsFromConfig(cfg)
	results := file.NewResultStore(config.Or(opts.results, config.Or(cfg.Quiz.ResultsPath, defaultResultsPath)))
	console := terminal.NewConsole(out)
	logger := log.New(os.Stderr, "quiz: ", log.LstdFlags)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	session := app.NewSession(questions, rnd, time.Now, settings.Timing)
	engine := app.NewEngine(uuid.NewString(), session, app.NewTickerClock(), results, console, logger)

	fmt.Fprintf(out, "Loaded %d questions, %s per question. Type quit to exit.\n", len(questions), settings.Timing.QuestionTime)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		// Leaving the input loop ends the session.
		defer cancel()
		return terminal.ReadCommands(gctx, in, console, engine)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
