// Package batch runs a per-file operation over many files, one file at a
// time, isolating failures and honoring cancellation between files.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
)

// MaxListedErrors is how many failures Summary spells out before it
// switches to a count.
const MaxListedErrors = 5

// Status is the outcome of one file.
type Status string

const (
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Op processes one file. It reports whether the file was changed,
// left as is, or skipped; any error marks the file failed.
type Op func(ctx context.Context, file string) (Status, error)

// FileError records one failed file.
type FileError struct {
	File    string `json:"file" yaml:"file"`
	Message string `json:"message" yaml:"message"`
}

// String renders the error as "file: message".
func (e FileError) String() string {
	return e.File + ": " + e.Message
}

// FileResult is the per-file line of a report.
type FileResult struct {
	File   string `json:"file" yaml:"file"`
	Status Status `json:"status" yaml:"status"`
}

// Report aggregates a batch run. Errors always carries every failure;
// only Summary abbreviates.
type Report struct {
	Total     int          `json:"total" yaml:"total"`
	Processed int          `json:"processed" yaml:"processed"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
	Changed   int          `json:"changed" yaml:"changed"`
	Skipped   int          `json:"skipped" yaml:"skipped"`
	Cancelled bool         `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	Files     []FileResult `json:"files,omitempty" yaml:"files,omitempty"`
	Errors    []FileError  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ErrorLines returns the failures as "file: message" strings.
func (r *Report) ErrorLines() []string {
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = e.String()
	}
	return lines
}

// Summary renders the report for humans. Up to MaxListedErrors failures
// are listed one per line; beyond that only their count is given.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d files: %d succeeded (%d changed, %d skipped), %d failed",
		r.Total, r.Succeeded, r.Changed, r.Skipped, r.Failed)
	if r.Cancelled {
		fmt.Fprintf(&sb, ", cancelled after %d", r.Processed)
	}

	switch n := len(r.Errors); {
	case n == 0:
	case n <= MaxListedErrors:
		for _, e := range r.Errors {
			sb.WriteString("\n  ")
			sb.WriteString(e.String())
		}
	default:
		fmt.Fprintf(&sb, "\n  %d files failed; run with --format yaml for the full list", n)
	}
	return sb.String()
}

// ProgressFunc is called after each file with its 1-based position.
type ProgressFunc func(done, total int, file string, status Status)

// Coordinator runs batches.
type Coordinator struct {
	logger   *slog.Logger
	progress ProgressFunc
}

// New returns a Coordinator. A nil logger discards output.
func New(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{logger: logger}
}

// OnProgress installs a progress callback.
func (c *Coordinator) OnProgress(fn ProgressFunc) *Coordinator {
	c.progress = fn
	return c
}

// Run applies op to files in order. Cancellation is checked before each
// file; a cancelled run leaves the remaining files untouched. A failing
// or panicking file is recorded and the run moves on.
func (c *Coordinator) Run(ctx context.Context, files []string, op Op) *Report {
	report := &Report{Total: len(files)}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			c.logger.Warn("batch cancelled", "processed", report.Processed, "remaining", len(files)-i)
			break
		}

		status, err := c.runOne(ctx, file, op)
		report.Processed++
		if err != nil {
			status = StatusFailed
			report.Failed++
			report.Errors = append(report.Errors, FileError{File: file, Message: err.Error()})
			c.logger.Warn("file failed", "file", file, "error", err)
		} else {
			report.Succeeded++
			switch status {
			case StatusChanged:
				report.Changed++
			case StatusSkipped:
				report.Skipped++
			}
			c.logger.Debug("file done", "file", file, "status", status)
		}
		report.Files = append(report.Files, FileResult{File: file, Status: status})

		if c.progress != nil {
			c.progress(i+1, len(files), file, status)
		}
	}

	return report
}

// runOne shields the batch from a panicking operation.
func (c *Coordinator) runOne(ctx context.Context, file string, op Op) (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("recovered panic", "file", file, "stack", string(debug.Stack()))
			status, err = StatusFailed, fmt.Errorf("internal error: %v", r)
		}
	}()
	return op(ctx, file)
}

// Start runs the batch on its own goroutine so the caller stays free to
// cancel ctx. The channel yields the report once and is then closed.
func (c *Coordinator) Start(ctx context.Context, files []string, op Op) <-chan *Report {
	done := make(chan *Report, 1)
	go func() {
		defer close(done)
		done <- c.Run(ctx, files, op)
	}()
	return done
}
