package cmd

import (
	"github.com/beanwright/jbgen/internal/extract"
	"github.com/beanwright/jbgen/internal/output"
	"github.com/spf13/cobra"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify each class in a Java file as JavaBean or business class",
	Long: `Parse a Java file and report, for every class including nested ones,
whether it is treated as a JAVA_BEAN or a BUSINESS_CLASS.

The bean score counts private instance fields plus accessor methods. The
business score counts every other instance method; constructors and static
methods are not counted. A class is a business class only when its business
score is strictly greater than its bean score.

The file is never modified.`,
	Example: `  jbgen classify src/main/java/com/x/Foo.java
  jbgen classify Foo.java --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := readJavaFile(path)
	if err != nil {
		return err
	}

	unit, err := extract.ParseUnit(commandContext(cmd), path, src)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), output.NewClassifyOutput(unit))
}
