// Package cmd contains all CLI commands for jbgen.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the current version of jbgen
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	forAgents    bool
	outputFormat string

	// logger is built from --verbose before any command runs
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jbgen",
	Short: "Generate JavaBean accessors, toString and loggers for Java classes",
	Long: `jbgen rewrites Java source files in place so that every class carries
up-to-date JavaBean accessors and a toString, and business classes get a
logger field.

Each class is first classified as a plain JavaBean or a business class by
counting its fields, accessors and other methods. Missing accessors are added,
existing ones are kept, and toString is regenerated. For business classes the
generated block is kept apart from the business methods behind a separator
comment.

Every run that writes files is recorded in .jbgen/history.db and can be
reverted with 'jbgen undo'.

Output Format:
  Machine-readable output is YAML by default. Use --format json to switch.

Examples:
  jbgen init                          # Write .jbgen/config.yaml
  jbgen classify src/Foo.java         # Show how each class is classified
  jbgen generate src/Foo.java         # Regenerate members of the first class
  jbgen generate Foo.java --dry-run   # Show the plan without writing
  jbgen batch src/                    # Process every .java file under src/
  jbgen undo                          # Revert the most recent run

See 'jbgen <command> --help' for command-specific options.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(os.Stderr, verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .jbgen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "Output format (yaml|json)")
	rootCmd.PersistentFlags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd.OutOrStdout(), cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// newLogger returns a text logger on w: Debug with verbose, Warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(w io.Writer, cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	var globals []FlagInfo
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		globals = append(globals, flagInfo(f))
	})

	output := map[string]any{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": globals,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func flagInfo(f *pflag.Flag) FlagInfo {
	return FlagInfo{
		Name:        f.Name,
		Shorthand:   f.Shorthand,
		Description: f.Usage,
		Type:        f.Value.Type(),
		Default:     f.DefValue,
	}
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, flagInfo(f))
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
