package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/beanwright/jbgen/internal/config"
	"github.com/beanwright/jbgen/internal/engine"
	"github.com/beanwright/jbgen/internal/history"
	"github.com/beanwright/jbgen/internal/output"
	"github.com/beanwright/jbgen/internal/parser"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Shared utility functions for command implementations

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// loadConfig reads --config when given, else walks up from the working
// directory. A missing file yields defaults; an invalid one is an error.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load(".")
}

// loadOptions builds engine options from the active configuration.
func loadOptions() (*config.Config, engine.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, engine.Options{}, err
	}
	return cfg, engine.OptionsFromConfig(cfg), nil
}

// openHistory opens the run history next to the config directory.
func openHistory() (*history.Store, error) {
	path, err := config.HistoryPath(".")
	if err != nil {
		return nil, fmt.Errorf("locate history: %w", err)
	}
	st, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return st, nil
}

// readJavaFile reads a single source file for the per-file commands.
func readJavaFile(path string) ([]byte, error) {
	if !parser.IsJavaFile(path) {
		return nil, fmt.Errorf("%s: not a .java file", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &parser.FileReadError{Path: path, Err: err}
	}
	return src, nil
}

// writeOutput renders v in the --format output format.
func writeOutput(w io.Writer, v any) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	return output.Write(w, format, v)
}

// commandContext returns the command's context, or Background when the
// command is run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatRequested reports whether --format was given explicitly. Commands
// with a human summary only switch to structured output when it was.
func formatRequested(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("format")
	return f != nil && f.Changed
}
