package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/beanwright/jbgen/internal/engine"
	"github.com/beanwright/jbgen/internal/history"
	"github.com/beanwright/jbgen/internal/output"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Regenerate accessors, toString and logger for one class",
	Long: `Regenerate the JavaBean members of one class in a Java file and write the
file back.

The target class is the first top-level class unless --class or --line
names another one. Missing getters and setters are added in field order,
existing ones are kept, and toString is always replaced. Business classes
keep their business methods ahead of a separator comment and receive a logger
field when none exists.

The file is written only when its content changes. The previous content is
recorded in the run history, so 'jbgen undo' can restore it.

Flags:
  --class NAME   Simple name of the class to generate for (nested allowed)
  --line N       1-based line inside the class to generate for
  --dry-run      Print the plan instead of writing
  --diff         Print a unified diff instead of writing
  --no-logger    Do not inject a logger field`,
	Example: `  jbgen generate src/Foo.java
  jbgen generate src/Foo.java --class Inner
  jbgen generate src/Foo.java --line 42 --diff
  jbgen generate src/Foo.java --dry-run --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	generateClass    string
	generateLine     int
	generateDryRun   bool
	generateDiff     bool
	generateNoLogger bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateClass, "class", "", "Simple name of the target class")
	generateCmd.Flags().IntVar(&generateLine, "line", 0, "1-based line inside the target class")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print the plan without writing")
	generateCmd.Flags().BoolVar(&generateDiff, "diff", false, "Print a unified diff without writing")
	generateCmd.Flags().BoolVar(&generateNoLogger, "no-logger", false, "Do not inject a logger field")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := args[0]
	if generateClass != "" && generateLine > 0 {
		return fmt.Errorf("--class and --line are mutually exclusive")
	}

	_, opts, err := loadOptions()
	if err != nil {
		return err
	}
	if generateNoLogger {
		opts.InjectLogger = false
	}

	src, err := readJavaFile(path)
	if err != nil {
		return err
	}

	eng := engine.New(opts, logger)
	target := &engine.Target{ClassName: generateClass, Line: generateLine}
	out, plan, err := eng.Generate(commandContext(cmd), path, src, target)
	if err != nil {
		return err
	}
	changed := string(out) != string(src)

	w := cmd.OutOrStdout()
	switch {
	case generateDryRun:
		return writeOutput(w, output.NewPlanOutput(plan, changed))
	case generateDiff:
		return writeDiff(w, path, src, out)
	case !changed:
		fmt.Fprintln(w, dimColor.Sprintf("%s: up to date", path))
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.BeginRun("generate " + path)
	if err != nil {
		return err
	}
	if err := st.WriteFile(run.ID, abs, src, out); err != nil {
		st.FinishRun(run.ID, history.Totals{Total: 1, Failed: 1})
		return err
	}
	if err := st.FinishRun(run.ID, history.Totals{Total: 1, Succeeded: 1, Changed: 1}); err != nil {
		return err
	}

	for _, cp := range plan.Classes {
		logger.Debug("generated", "class", cp.Class, "tag", cp.Classification.Tag)
	}
	fmt.Fprintln(w, successColor.Sprintf("%s: updated", path)+dimColor.Sprintf(" (run %s)", run.ID))
	return nil
}

// writeDiff prints a unified diff of the rewrite.
func writeDiff(w io.Writer, path string, before, after []byte) error {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("diff %s: %w", path, err)
	}
	_, err = io.WriteString(w, text)
	return err
}
