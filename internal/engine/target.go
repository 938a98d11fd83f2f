package engine

import (
	"fmt"

	"github.com/beanwright/jbgen/internal/model"
)

// Target selects the class to generate for, the way a caret would: by
// simple class name or by 1-based line. The zero Target selects the first
// top-level class.
type Target struct {
	ClassName string
	Line      int
}

// String describes the target for messages.
func (t Target) String() string {
	switch {
	case t.ClassName != "":
		return "class " + t.ClassName
	case t.Line > 0:
		return fmt.Sprintf("line %d", t.Line)
	default:
		return "first class"
	}
}

// AmbiguityError reports a target that does not resolve to exactly one
// class. Only the operation for that target is aborted.
type AmbiguityError struct {
	Target string
	Reason string
}

// Error implements the error interface.
func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %s", e.Target, e.Reason)
}

// ResolveTarget finds the class t refers to in u.
func ResolveTarget(u *model.Unit, t Target) (*model.Class, error) {
	switch {
	case t.ClassName != "":
		var found []*model.Class
		for _, c := range u.AllClasses() {
			if c.Name == t.ClassName {
				found = append(found, c)
			}
		}
		switch len(found) {
		case 0:
			return nil, &AmbiguityError{Target: t.String(), Reason: "no such class in file"}
		case 1:
			return found[0], nil
		default:
			return nil, &AmbiguityError{Target: t.String(), Reason: fmt.Sprintf("%d classes share this name", len(found))}
		}

	case t.Line > 0:
		offset := u.LineOffset(t.Line)
		if offset < 0 {
			return nil, &AmbiguityError{Target: t.String(), Reason: "line is past the end of the file"}
		}
		c := u.ClassAt(lineContentOffset(u.Source, offset))
		if c == nil {
			return nil, &AmbiguityError{Target: t.String(), Reason: "line is not inside a class"}
		}
		return c, nil

	default:
		if len(u.Classes) == 0 {
			return nil, &AmbiguityError{Target: t.String(), Reason: "file declares no class"}
		}
		return u.Classes[0], nil
	}
}

// lineContentOffset moves offset past leading indentation so a line that
// starts a class declaration resolves to that class.
func lineContentOffset(src []byte, offset int) int {
	for offset < len(src) && (src[offset] == ' ' || src[offset] == '\t') {
		offset++
	}
	return offset
}
