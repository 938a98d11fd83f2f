// Package synth computes the JavaBean members a class should have and
// renders their source text.
//
// Synthesis never fails. Fields with no name or type render with
// placeholders so one malformed declaration cannot stop a batch.
package synth

import (
	"fmt"
	"strings"

	"github.com/beanwright/jbgen/internal/bean"
	"github.com/beanwright/jbgen/internal/model"
)

// Options controls what gets synthesized.
type Options struct {
	GetterSetter bool
	ToString     bool
	Style        Style
	// ClassName is used by the simple toString style.
	ClassName string
	// IndentUnit indents method bodies relative to the method line.
	IndentUnit string
}

// DefaultOptions generates everything in the json style.
func DefaultOptions() Options {
	return Options{
		GetterSetter: true,
		ToString:     true,
		Style:        StyleJSON,
		IndentUnit:   "    ",
	}
}

// Member is one rendered method. Text is unindented; body lines carry one
// IndentUnit.
type Member struct {
	Name  string           `json:"name" yaml:"name"`
	Kind  model.MethodKind `json:"kind" yaml:"kind"`
	Field string           `json:"field,omitempty" yaml:"field,omitempty"`
	Text  string           `json:"-" yaml:"-"`
}

// MemberSet is the ordered output of Synthesize: getter then setter per
// field in declaration order, then at most one toString.
type MemberSet struct {
	Members []Member `json:"members" yaml:"members"`
	// Imports lists fully-qualified types the rendered text relies on.
	Imports []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// Len returns the number of members.
func (s MemberSet) Len() int {
	return len(s.Members)
}

// ToString returns the synthesized toString member, if any.
func (s MemberSet) ToString() (Member, bool) {
	for _, m := range s.Members {
		if m.Kind == model.KindToString {
			return m, true
		}
	}
	return Member{}, false
}

// Participating returns the fields that get accessors: everything that is
// neither static nor final, in declaration order.
func Participating(fields []model.Field) []model.Field {
	var out []model.Field
	for _, f := range fields {
		if f.IsStatic() || f.IsFinal() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Synthesize computes the members to add for fields. A getter or setter
// is skipped when existing already has a method of the same name and
// arity. toString is always rendered when enabled and at least one field
// participates; callers replace any existing one.
func Synthesize(fields []model.Field, existing []model.Method, opts Options) MemberSet {
	if opts.IndentUnit == "" {
		opts.IndentUnit = "    "
	}
	if opts.Style == "" {
		opts.Style = StyleJSON
	}

	var set MemberSet
	participating := sanitize(Participating(fields))

	if opts.GetterSetter {
		for _, f := range participating {
			getter := bean.AccessorName(f)
			if !hasMethod(existing, getter, 0) {
				set.Members = append(set.Members, Member{
					Name:  getter,
					Kind:  model.KindGetter,
					Field: f.Name,
					Text:  renderGetter(f, getter, opts.IndentUnit),
				})
			}
			setter := bean.MutatorName(f)
			if !hasMethod(existing, setter, 1) {
				set.Members = append(set.Members, Member{
					Name:  setter,
					Kind:  model.KindSetter,
					Field: f.Name,
					Text:  renderSetter(f, setter, opts.IndentUnit),
				})
			}
		}
	}

	if opts.ToString && len(participating) > 0 {
		text, imports := renderToString(participating, opts)
		set.Members = append(set.Members, Member{
			Name: "toString",
			Kind: model.KindToString,
			Text: text,
		})
		set.Imports = append(set.Imports, imports...)
	}

	return set
}

func renderGetter(f model.Field, name, indent string) string {
	return fmt.Sprintf("public %s %s() {\n%sreturn %s;\n}", model.CanonicalType(f.Type), name, indent, f.Name)
}

func renderSetter(f model.Field, name, indent string) string {
	return fmt.Sprintf("public void %s(%s %s) {\n%sthis.%s = %s;\n}",
		name, model.CanonicalType(f.Type), f.Name, indent, f.Name, f.Name)
}

// sanitize degrades malformed fields to renderable placeholders.
func sanitize(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			f.Name = fmt.Sprintf("field%d", f.Order)
		}
		f.Type = model.CanonicalType(f.Type)
		out[i] = f
	}
	return out
}

func hasMethod(methods []model.Method, name string, arity int) bool {
	for _, m := range methods {
		if !m.Constructor && m.Name == name && m.Arity() == arity {
			return true
		}
	}
	return false
}
