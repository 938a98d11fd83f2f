package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beanwright/jbgen/internal/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// generateOp runs the engine over a file on disk and writes the result.
func generateOp(e *engine.Engine) Op {
	return func(ctx context.Context, file string) (Status, error) {
		src, err := os.ReadFile(file)
		if err != nil {
			return StatusFailed, err
		}
		out, _, err := e.Generate(ctx, file, src, nil)
		if err != nil {
			return StatusFailed, err
		}
		if string(out) == string(src) {
			return StatusUnchanged, nil
		}
		return StatusChanged, os.WriteFile(file, out, 0644)
	}
}

func TestRunIsolatesInvalidFile(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "file1.java", "class A {\n    private int a;\n}\n"),
		writeFile(t, dir, "file2.java", "class B {\n    private int b\n"),
		writeFile(t, dir, "file3.java", "class C {\n    private int c;\n}\n"),
	}

	report := New(nil).Run(context.Background(), files, generateOp(engine.New(engine.DefaultOptions(), nil)))

	if report.Total != 3 || report.Succeeded != 2 || report.Failed != 1 || len(report.Errors) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Errors[0].File != files[1] {
		t.Errorf("failure recorded for %s, want %s", report.Errors[0].File, files[1])
	}
	line := report.ErrorLines()[0]
	if !strings.HasPrefix(line, files[1]+": ") || !strings.Contains(line, "syntax error") {
		t.Errorf("unexpected error line %q", line)
	}

	third, _ := os.ReadFile(files[2])
	if !strings.Contains(string(third), "public int getC()") {
		t.Error("file after the failure must still be processed")
	}
	second, _ := os.ReadFile(files[1])
	if string(second) != "class B {\n    private int b\n" {
		t.Error("failed file must be left untouched")
	}
}

func TestRunRecoversPanics(t *testing.T) {
	op := func(ctx context.Context, file string) (Status, error) {
		if file == "b" {
			panic("boom")
		}
		return StatusChanged, nil
	}

	report := New(nil).Run(context.Background(), []string{"a", "b", "c"}, op)
	if report.Processed != 3 || report.Failed != 1 || report.Changed != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
	if !strings.Contains(report.Errors[0].Message, "boom") {
		t.Errorf("panic value not recorded: %q", report.Errors[0].Message)
	}
	if report.Files[1].Status != StatusFailed {
		t.Errorf("file b status = %s", report.Files[1].Status)
	}
}

func TestRunCancelsBetweenFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []string
	op := func(ctx context.Context, file string) (Status, error) {
		seen = append(seen, file)
		if file == "b" {
			cancel()
		}
		return StatusUnchanged, nil
	}

	report := New(nil).Run(ctx, []string{"a", "b", "c", "d"}, op)
	if !report.Cancelled {
		t.Error("expected cancelled report")
	}
	if strings.Join(seen, ",") != "a,b" {
		t.Errorf("files attempted = %v, want [a b]", seen)
	}
	if report.Total != 4 || report.Processed != 2 || report.Succeeded != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunProgress(t *testing.T) {
	var calls []string
	c := New(nil).OnProgress(func(done, total int, file string, status Status) {
		calls = append(calls, fmt.Sprintf("%d/%d %s %s", done, total, file, status))
	})
	op := func(ctx context.Context, file string) (Status, error) {
		if file == "y" {
			return StatusSkipped, nil
		}
		return StatusFailed, errors.New("nope")
	}

	report := c.Run(context.Background(), []string{"x", "y"}, op)
	want := "1/2 x failed,2/2 y skipped"
	if strings.Join(calls, ",") != want {
		t.Errorf("progress = %v, want %s", calls, want)
	}
	if report.Skipped != 1 || report.Succeeded != 1 {
		t.Errorf("skipped files count as succeeded: %+v", report)
	}
}

func TestSummary(t *testing.T) {
	few := &Report{Total: 3, Succeeded: 2, Failed: 1, Errors: []FileError{{File: "file2.java", Message: "syntax error"}}}
	if s := few.Summary(); !strings.Contains(s, "\n  file2.java: syntax error") {
		t.Errorf("few errors should be listed:\n%s", s)
	}

	many := &Report{Total: 10, Failed: 6}
	for i := 0; i < 6; i++ {
		many.Errors = append(many.Errors, FileError{File: fmt.Sprintf("f%d.java", i), Message: "bad"})
	}
	s := many.Summary()
	if strings.Contains(s, "f0.java") || !strings.Contains(s, "6 files failed") {
		t.Errorf("many errors should be counted, not listed:\n%s", s)
	}
	if len(many.ErrorLines()) != 6 {
		t.Error("the report itself keeps every error")
	}
}

func TestStart(t *testing.T) {
	op := func(ctx context.Context, file string) (Status, error) { return StatusUnchanged, nil }
	report := <-New(nil).Start(context.Background(), []string{"a", "b"}, op)
	if report == nil || report.Succeeded != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/main/java/com/x/A.java", "class A {}")
	writeFile(t, dir, "src/main/java/com/x/B.java", "class B {}")
	writeFile(t, dir, "src/main/java/com/x/notes.txt", "")
	writeFile(t, dir, "target/classes/Gen.java", "class Gen {}")
	writeFile(t, dir, "module/build/Out.java", "class Out {}")
	writeFile(t, dir, ".hidden/H.java", "class H {}")
	single := writeFile(t, dir, "Single.java", "class Single {}")

	cfgExcludes := []string{"**/target/**", "**/build/**", "**/generated/**"}
	files, err := CollectFiles([]string{dir, single}, cfgExcludes)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := "Single.java,src/main/java/com/x/A.java,src/main/java/com/x/B.java"
	if strings.Join(rel, ",") != want {
		t.Errorf("files = %v, want %s", rel, want)
	}

	if _, err := CollectFiles([]string{filepath.Join(dir, "missing")}, nil); err == nil {
		t.Error("expected error for a missing root")
	}
}

func TestCollectFilesKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.java", "class B {}")
	a := writeFile(t, dir, "a.java", "class A {}")
	writeFile(t, dir, "pkg/d.java", "class D {}")
	writeFile(t, dir, "pkg/c.java", "class C {}")

	files, err := CollectFiles([]string{b, filepath.Join(dir, "pkg"), a, b}, nil)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := "b.java,pkg/c.java,pkg/d.java,a.java"
	if strings.Join(rel, ",") != want {
		t.Errorf("files = %v, want %s", rel, want)
	}
}
