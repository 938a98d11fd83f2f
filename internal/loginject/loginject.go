// Package loginject decides whether a business class needs a logger field
// and renders the declaration for the configured logging library.
package loginject

import (
	"fmt"
	"strings"

	"github.com/beanwright/jbgen/internal/classify"
	"github.com/beanwright/jbgen/internal/edit"
	"github.com/beanwright/jbgen/internal/model"
)

// Kind selects the logging library.
type Kind string

const (
	SLF4J Kind = "slf4j"
	Log4J Kind = "log4j"
	JUL   Kind = "jul"
)

// DefaultFieldName is the logger field name when none is configured.
const DefaultFieldName = "LOGGER"

// ValidKinds lists the supported logger kinds.
var ValidKinds = []Kind{SLF4J, Log4J, JUL}

// IsValidKind reports whether s names a supported logger kind.
func IsValidKind(s string) bool {
	for _, k := range ValidKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

type idiom struct {
	factory string
	imports []string
}

var idioms = map[Kind]idiom{
	SLF4J: {
		factory: "LoggerFactory.getLogger(%s.class)",
		imports: []string{"org.slf4j.Logger", "org.slf4j.LoggerFactory"},
	},
	Log4J: {
		factory: "Logger.getLogger(%s.class)",
		imports: []string{"org.apache.log4j.Logger"},
	},
	JUL: {
		factory: "Logger.getLogger(%s.class.getName())",
		imports: []string{"java.util.logging.Logger"},
	},
}

// Injection is a planned logger field for one class.
type Injection struct {
	Class     string `json:"class" yaml:"class"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	FieldName string `json:"field_name" yaml:"field_name"`
	// Declaration is the unindented field declaration.
	Declaration string `json:"declaration" yaml:"declaration"`
	// Imports lists the types the declaration needs, missing or not.
	Imports []string `json:"imports" yaml:"imports"`
	// Offset is just past the class body's opening brace.
	Offset int `json:"offset" yaml:"offset"`

	indent string
}

// HasLogger reports whether c already declares a logger: a field whose
// type names a logger and whose name contains "LOG" in any case. A
// logger-typed field with an unrelated name does not count.
func HasLogger(c *model.Class) bool {
	for _, f := range c.Fields {
		if classify.IsLoggerType(f.Type) && strings.Contains(strings.ToUpper(f.Name), "LOG") {
			return true
		}
	}
	return false
}

// Plan returns the logger field to add to c, or nil when c already has
// one. An unknown kind falls back to SLF4J and an empty field name to
// DefaultFieldName.
func Plan(c *model.Class, kind Kind, fieldName string) *Injection {
	if c == nil || HasLogger(c) {
		return nil
	}
	id, ok := idioms[kind]
	if !ok {
		kind, id = SLF4J, idioms[SLF4J]
	}
	if fieldName == "" {
		fieldName = DefaultFieldName
	}

	decl := fmt.Sprintf("private static final Logger %s = %s;", fieldName, fmt.Sprintf(id.factory, c.Name))
	return &Injection{
		Class:       c.Name,
		Kind:        kind,
		FieldName:   fieldName,
		Declaration: decl,
		Imports:     append([]string(nil), id.imports...),
		Offset:      c.BodyOpen + 1,
		indent:      c.Indent,
	}
}

// Edit lowers the injection to a single insert at the top of the class
// body, leaving a blank line before the first existing member.
func (in *Injection) Edit() edit.Edit {
	return edit.Insert(in.Offset, "\n"+in.indent+in.Declaration+"\n", "insert "+in.Class+"."+in.FieldName)
}
