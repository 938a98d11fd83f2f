package cmd

import (
	"errors"
	"fmt"

	"github.com/beanwright/jbgen/internal/history"
	"github.com/spf13/cobra"
)

// undoCmd represents the undo command
var undoCmd = &cobra.Command{
	Use:   "undo [run-id]",
	Short: "Restore the files a run rewrote",
	Long: `Restore every file a generate or batch run rewrote to its content
before the run. Without a run id the most recent run that wrote files and
has not been undone is used.

A file is restored only when its current content is exactly what the run
wrote. Files edited since are reported as drifted and left untouched, and
files that no longer exist are reported as missing. A run can be undone
once.`,
	Example: `  jbgen undo
  jbgen undo 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	var runID string
	if len(args) == 1 {
		runID = args[0]
	} else {
		run, err := st.LatestRun()
		if errors.Is(err, history.ErrRunNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo.")
			return nil
		}
		if err != nil {
			return err
		}
		runID = run.ID
	}

	result, err := st.Undo(runID)
	if err != nil {
		return err
	}

	if formatRequested(cmd) {
		return writeOutput(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	for _, f := range result.Restored {
		fmt.Fprintln(w, successColor.Sprint("restored ")+f)
	}
	for _, f := range result.Drifted {
		fmt.Fprintln(w, warnColor.Sprint("drifted  ")+f+dimColor.Sprint(" (modified since the run, left as is)"))
	}
	for _, f := range result.Missing {
		fmt.Fprintln(w, warnColor.Sprint("missing  ")+f)
	}
	fmt.Fprintf(w, "Undid run %s: %d restored, %d drifted, %d missing\n",
		result.RunID, len(result.Restored), len(result.Drifted), len(result.Missing))
	return nil
}
