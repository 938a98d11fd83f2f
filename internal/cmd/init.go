package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beanwright/jbgen/internal/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .jbgen/config.yaml with the default settings",
	Long: `Create the .jbgen directory and a config.yaml holding the default
generation settings in the current directory.

The file documents every option: which members to generate, the toString
style, the logger framework and field name, and the batch exclude globs.

Examples:
  jbgen init          # Write defaults
  jbgen init --force  # Overwrite an existing config.yaml`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfgPath := filepath.Join(cwd, config.ConfigDirName, config.ConfigFileName)

	_, err = os.Stat(cfgPath)
	if err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, cfgPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	written, err := config.SaveDefault(cwd)
	if err != nil {
		return err
	}

	relPath, _ := filepath.Rel(cwd, written)
	fmt.Fprintln(cmd.OutOrStdout(), successColor.Sprintf("Initialized jbgen config at %s", relPath))
	return nil
}
