package cmd

import (
	"fmt"

	"github.com/beanwright/jbgen/internal/output"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded generate and batch runs",
	Long: `Display the runs recorded in .jbgen/history.db, newest first.

Each entry includes:
  - Run id (pass it to 'jbgen undo')
  - Start time and command
  - File totals: processed, changed, failed
  - Whether the run has been undone

With --stats, print the database location and how many runs, recorded
file changes and indexed files it holds instead of the run list.

Flags:
  --limit N      Number of runs to show (default: 10, 0 for all)
  --stats        Summarize the history database instead
  --format       Output format: yaml|json (default: yaml)`,
	Example: `  jbgen history
  jbgen history --limit 3 --format json
  jbgen history --stats`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyLimit int
	historyStats bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Summarize the history database")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	if historyStats {
		stats, err := st.GetStats()
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), output.NewStatsOutput(st.Path(), stats))
	}

	runs, err := st.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded. Run 'jbgen generate' or 'jbgen batch' first.")
		return nil
	}

	return writeOutput(cmd.OutOrStdout(), output.NewRunsOutput(runs))
}
