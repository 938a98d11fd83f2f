package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/beanwright/jbgen/internal/batch"
	"github.com/beanwright/jbgen/internal/engine"
	"github.com/beanwright/jbgen/internal/exclude"
	"github.com/beanwright/jbgen/internal/history"
	"github.com/beanwright/jbgen/internal/output"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Generate members for every Java file under the given paths",
	Long: `Walk the given files and directories (default: current directory) for
.java files and run generation on each one. Paths are processed in the
order given; the files found under a directory are processed sorted by path.

Files are processed one at a time. A file that fails to parse or generate is
recorded and skipped; the others are still processed. Interrupting with
Ctrl-C stops the run between files, so no file is left half written.

Files whose content still matches what jbgen last wrote are skipped unless
--force is given. The final report lists every failure when there are five
or fewer, and only their count otherwise.

Flags:
  --exclude GLOB  Additional exclude pattern (repeatable)
  --force         Process files even when unchanged since the last run
  --dry-run       Report what would change without writing`,
	Example: `  jbgen batch
  jbgen batch src/main/java --exclude "**/legacy/**"
  jbgen batch src --dry-run --format yaml`,
	RunE: runBatch,
}

var (
	batchExcludes []string
	batchForce    bool
	batchDryRun   bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringSliceVar(&batchExcludes, "exclude", nil, "Additional exclude glob (repeatable)")
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "Process files even when unchanged since the last run")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Report changes without writing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, opts, err := loadOptions()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	excludes := append(append([]string{}, cfg.Batch.Exclude...), batchExcludes...)

	files, err := collectJavaFiles(roots, excludes)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No .java files found.")
		return nil
	}

	// Nothing is touched when the history cannot be opened.
	var st *history.Store
	var run *history.Run
	if !batchDryRun {
		if st, err = openHistory(); err != nil {
			return err
		}
		defer st.Close()
		if run, err = st.BeginRun("batch"); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	op := &batchOp{
		engine:        engine.New(opts, logger),
		store:         st,
		run:           run,
		skipUnchanged: cfg.Batch.SkipUnchanged && !batchForce,
		dryRun:        batchDryRun,
	}

	coordinator := batch.New(logger).OnProgress(func(done, total int, file string, status batch.Status) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s %s\n", done, total, statusLabel(status), file)
	})
	report := <-coordinator.Start(ctx, files, op.process)

	out := &output.BatchOutput{DryRun: batchDryRun, Report: report}
	if run != nil {
		out.RunID = run.ID
		err := st.FinishRun(run.ID, history.Totals{
			Total:     report.Total,
			Succeeded: report.Succeeded,
			Failed:    report.Failed,
			Changed:   report.Changed,
		})
		if err != nil {
			return err
		}
	}

	if formatRequested(cmd) {
		if err := writeOutput(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else {
		printBatchSummary(cmd, out)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed, report.Total)
	}
	return nil
}

// collectJavaFiles collects each root separately so the build output
// directories detected under a root are excluded relative to that root.
func collectJavaFiles(roots, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		patterns := excludes
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			auto := exclude.DetectAutoExcludes(root)
			for _, dir := range auto.Directories {
				logger.Debug("auto-excluding", "root", root, "dir", dir, "reason", auto.Reasons[dir])
			}
			patterns = append(append([]string{}, excludes...), auto.Directories...)
		}

		found, err := batch.CollectFiles([]string{root}, patterns)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// batchOp is the per-file operation of a batch run.
type batchOp struct {
	engine        *engine.Engine
	store         *history.Store
	run           *history.Run
	skipUnchanged bool
	dryRun        bool
}

func (o *batchOp) process(ctx context.Context, file string) (batch.Status, error) {
	src, err := readJavaFile(file)
	if err != nil {
		return batch.StatusFailed, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return batch.StatusFailed, err
	}

	if o.skipUnchanged && o.store != nil {
		unchanged, err := o.store.IsUnchanged(abs, history.ComputeHash(src))
		if err != nil {
			return batch.StatusFailed, err
		}
		if unchanged {
			return batch.StatusSkipped, nil
		}
	}

	out, _, err := o.engine.Generate(ctx, file, src, nil)
	if err != nil {
		return batch.StatusFailed, err
	}
	if string(out) == string(src) {
		return batch.StatusUnchanged, nil
	}
	if o.dryRun {
		return batch.StatusChanged, nil
	}

	if err := o.store.WriteFile(o.run.ID, abs, src, out); err != nil {
		return batch.StatusFailed, err
	}
	return batch.StatusChanged, nil
}

func statusLabel(s batch.Status) string {
	switch s {
	case batch.StatusChanged:
		return successColor.Sprint("changed  ")
	case batch.StatusFailed:
		return errorColor.Sprint("failed   ")
	case batch.StatusSkipped:
		return dimColor.Sprint("skipped  ")
	default:
		return dimColor.Sprint("unchanged")
	}
}

func printBatchSummary(cmd *cobra.Command, out *output.BatchOutput) {
	w := cmd.OutOrStdout()
	r := out.Report

	summaryColor := successColor
	switch {
	case r.Failed > 0:
		summaryColor = errorColor
	case r.Cancelled:
		summaryColor = warnColor
	}
	fmt.Fprintln(w, summaryColor.Sprint(r.Summary()))

	switch {
	case out.DryRun:
		fmt.Fprintln(w, dimColor.Sprint("dry run: no files written"))
	case out.RunID != "" && r.Changed > 0:
		fmt.Fprintln(w, dimColor.Sprintf("run %s (undo with 'jbgen undo %s')", out.RunID, out.RunID))
	}
}
