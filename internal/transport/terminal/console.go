package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"quiz-runner/internal/domain"
)

// Commander is the part of an engine the console drives.
type Commander interface {
	Submit(ctx context.Context, text string) error
	Replay(ctx context.Context) error
}

// Console renders engine events as plain text lines.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	lastBand domain.Band
	finished atomic.Bool
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Finished reports whether the last rendered session has ended.
func (c *Console) Finished() bool {
	return c.finished.Load()
}

func (c *Console) Emit(ev domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case domain.QuestionShown:
		c.finished.Store(false)
		c.lastBand = domain.BandNormal
		fmt.Fprintf(c.out, "\n[%d/%d] Q%d: %s\n", e.Position, e.Total, e.Number, e.Text)
		for _, opt := range e.Options {
			fmt.Fprintf(c.out, "  %d. %s\n", opt.Number, opt.Label)
		}
		fmt.Fprintf(c.out, "(%s to answer)\n", time.Duration(e.TimeLimitMs)*time.Millisecond)
	case domain.TimeUpdated:
		// Only band changes are printed.
		if e.Band == c.lastBand {
			return
		}
		c.lastBand = e.Band
		fmt.Fprintf(c.out, "... %.1fs left\n", float64(e.TimeLeftMs)/1000)
	case domain.AnswerFeedback:
		fmt.Fprintln(c.out, e.Message)
	case domain.SessionFinished:
		fmt.Fprintf(c.out, "\nQuiz Finished!\nCorrect: %d\nWrong: %d\nDuration: %s\n", e.Correct, e.Wrong, e.Duration)
		if e.SaveError != "" {
			fmt.Fprintf(c.out, "Result was not saved: %s\n", e.SaveError)
		}
		fmt.Fprintln(c.out, "Press Enter to replay or type quit to exit.")
		c.finished.Store(true)
	}
}

// ReadCommands turns input lines into engine commands until ctx is done, the
// input ends or the player types quit. Once a session has finished any line
// starts a replay.
func ReadCommands(ctx context.Context, in io.Reader, console *Console, cmds Commander) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			text := strings.TrimSpace(line)
			if strings.EqualFold(text, "quit") || strings.EqualFold(text, "q") {
				return nil
			}
			var err error
			if console.Finished() {
				err = cmds.Replay(ctx)
			} else {
				err = cmds.Submit(ctx, line)
			}
			if err != nil {
				return err
			}
		}
	}
}
