package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"quiz-runner/internal/config"
	"quiz-runner/internal/infra/file"
)

// NewHistoryCmd prints past session results from the result log.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var (
		resultsPath string
		limit       int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved quiz results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			path := config.Or(resultsPath, config.Or(cfg.Quiz.ResultsPath, defaultResultsPath))
			return printHistory(cmd.OutOrStdout(), file.NewResultStore(path), limit)
		},
	}
	cmd.Flags().StringVar(&resultsPath, "results", "", "path to the result log")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent N results (0 for all)")
	return cmd
}

func printHistory(out io.Writer, store *file.ResultStore, limit int) error {
	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(out, "no results in %s\n", store.Path())
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCORRECT\tWRONG\tDURATION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", e.DateTime, e.Correct, e.Wrong, e.Duration)
	}
	return w.Flush()
}
