// Package edit applies structural edit plans to source text.
//
// Every offset in a plan refers to the original text. Apply validates the
// whole plan before producing output, so a plan is either applied in full
// or not at all.
package edit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Op is the kind of an edit.
type Op string

const (
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Edit is a single insertion or deletion against the original text.
// Inserts use Start as the insertion offset and ignore End.
type Edit struct {
	Op    Op     `json:"op" yaml:"op"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end,omitempty" yaml:"end,omitempty"`
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	// Label describes the edit for previews, e.g. "delete toString".
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Insert returns an edit inserting text at offset.
func Insert(at int, text, label string) Edit {
	return Edit{Op: OpInsert, Start: at, End: at, Text: text, Label: label}
}

// Delete returns an edit removing [start, end).
func Delete(start, end int, label string) Edit {
	return Edit{Op: OpDelete, Start: start, End: end, Label: label}
}

// ConflictError reports a plan that cannot be applied atomically.
type ConflictError struct {
	First  Edit
	Second Edit
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Second.Op == "" {
		return fmt.Sprintf("invalid edit %s [%d,%d): %s", e.First.Op, e.First.Start, e.First.End, e.Reason)
	}
	return fmt.Sprintf("conflicting edits %s [%d,%d) and %s [%d,%d): %s",
		e.First.Op, e.First.Start, e.First.End, e.Second.Op, e.Second.Start, e.Second.End, e.Reason)
}

// Validate checks bounds and overlaps of edits against a text of length n.
func Validate(n int, edits []Edit) error {
	for _, e := range edits {
		switch e.Op {
		case OpInsert:
			if e.Start < 0 || e.Start > n {
				return &ConflictError{First: e, Reason: "insert offset out of range"}
			}
		case OpDelete:
			if e.Start < 0 || e.End > n || e.Start > e.End {
				return &ConflictError{First: e, Reason: "delete range out of bounds"}
			}
		default:
			return &ConflictError{First: e, Reason: "unknown op"}
		}
	}

	for i, a := range edits {
		if a.Op != OpDelete {
			continue
		}
		for j, b := range edits {
			if i == j {
				continue
			}
			switch b.Op {
			case OpDelete:
				if j > i && a.Start < b.End && b.Start < a.End {
					return &ConflictError{First: a, Second: b, Reason: "overlapping deletes"}
				}
			case OpInsert:
				if a.Start < b.Start && b.Start < a.End {
					return &ConflictError{First: a, Second: b, Reason: "insert inside deleted range"}
				}
			}
		}
	}
	return nil
}

// Apply returns src with all edits applied. Inserts at the same offset
// keep their relative order; an insert at the start of a deleted range
// lands before the deletion.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	if err := Validate(len(src), edits); err != nil {
		return nil, err
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Op == OpInsert && sorted[j].Op == OpDelete
	})

	out := make([]byte, 0, len(src)+growth(edits))
	cursor := 0
	for _, e := range sorted {
		out = append(out, src[cursor:e.Start]...)
		cursor = e.Start
		switch e.Op {
		case OpInsert:
			out = append(out, e.Text...)
		case OpDelete:
			cursor = e.End
		}
	}
	out = append(out, src[cursor:]...)
	return out, nil
}

func growth(edits []Edit) int {
	n := 0
	for _, e := range edits {
		n += len(e.Text)
	}
	return n
}

// WriteFileAtomic replaces path with data through a temporary file in the
// same directory, keeping the existing file mode when there is one.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".jbgen-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
