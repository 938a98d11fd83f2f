package edit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestApply(t *testing.T) {
	src := []byte("0123456789")

	tests := []struct {
		name  string
		edits []Edit
		want  string
	}{
		{"no edits", nil, "0123456789"},
		{"insert at start", []Edit{Insert(0, "X", "")}, "X0123456789"},
		{"insert at end", []Edit{Insert(10, "X", "")}, "0123456789X"},
		{"delete middle", []Edit{Delete(3, 6, "")}, "0126789"},
		{
			name:  "offsets are relative to the original text",
			edits: []Edit{Insert(8, "B", ""), Delete(1, 3, ""), Insert(5, "A", "")},
			want:  "034A567B89",
		},
		{
			name:  "same-offset inserts keep order",
			edits: []Edit{Insert(2, "a", ""), Insert(2, "b", "")},
			want:  "01ab23456789",
		},
		{
			name:  "insert at delete start lands before deletion",
			edits: []Edit{Delete(2, 5, ""), Insert(2, "X", "")},
			want:  "01X56789",
		},
		{
			name:  "insert at delete end lands after deletion",
			edits: []Edit{Delete(2, 5, ""), Insert(5, "X", "")},
			want:  "01X56789",
		},
		{
			name:  "adjacent deletes",
			edits: []Edit{Delete(0, 2, ""), Delete(2, 4, "")},
			want:  "456789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(src, tt.edits)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Apply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyRejectsInvalidPlans(t *testing.T) {
	src := []byte("0123456789")

	tests := []struct {
		name  string
		edits []Edit
	}{
		{"overlapping deletes", []Edit{Delete(1, 5, ""), Delete(4, 8, "")}},
		{"insert inside delete", []Edit{Delete(1, 5, ""), Insert(3, "X", "")}},
		{"insert out of range", []Edit{Insert(11, "X", "")}},
		{"negative delete", []Edit{Delete(-1, 2, "")}},
		{"inverted delete", []Edit{Delete(5, 2, "")}},
		{"unknown op", []Edit{{Op: "move", Start: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(src, tt.edits)
			if err == nil {
				t.Fatalf("expected error, got %q", out)
			}
			var ce *ConflictError
			if !errors.As(err, &ce) {
				t.Errorf("expected *ConflictError, got %T", err)
			}
			if out != nil {
				t.Error("no output should be produced for a rejected plan")
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.java")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
