// Package model defines the read-only structured view of a Java compilation
// unit that the generation core consumes: classes, fields, methods and
// imports, each carrying byte-offset spans into the original source.
//
// Values in this package are snapshots. Nothing in jbgen mutates a Unit after
// it is built; planners return edits against the snapshot instead.
package model

import "strings"

// Span is a half-open byte range [Start, End) into the unit source.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Modifier keywords as they appear in source.
const (
	ModStatic    = "static"
	ModFinal     = "final"
	ModPrivate   = "private"
	ModPublic    = "public"
	ModProtected = "protected"
)

// MethodKind tags what a method is with respect to JavaBean synthesis.
type MethodKind string

const (
	KindGetter      MethodKind = "getter"
	KindSetter      MethodKind = "setter"
	KindToString    MethodKind = "to_string"
	KindBusiness    MethodKind = "business"
	KindConstructor MethodKind = "constructor"
	KindUnknown     MethodKind = "unknown"
)

// Field is one declared variable. A declaration such as `int x, y;` yields
// two Fields sharing the same Span.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Modifiers   []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Annotations []string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	// Order is the declaration index within the owning class.
	Order int  `json:"order" yaml:"order"`
	Span  Span `json:"span" yaml:"span"`
}

// HasModifier reports whether mod is among the field modifiers.
func (f Field) HasModifier(mod string) bool {
	return hasString(f.Modifiers, mod)
}

// IsStatic reports whether the field is static.
func (f Field) IsStatic() bool { return f.HasModifier(ModStatic) }

// IsFinal reports whether the field is final.
func (f Field) IsFinal() bool { return f.HasModifier(ModFinal) }

// IsPrivate reports whether the field is private.
func (f Field) IsPrivate() bool { return f.HasModifier(ModPrivate) }

// IsPrimitiveBoolean reports whether the field type is the boolean primitive.
func (f Field) IsPrimitiveBoolean() bool {
	return CanonicalType(f.Type) == "boolean"
}

// IsBoxedBoolean reports whether the field type is java.lang.Boolean.
func (f Field) IsBoxedBoolean() bool {
	t := CanonicalType(f.Type)
	return t == "Boolean" || t == "java.lang.Boolean"
}

// IsString reports whether the field type is java.lang.String.
func (f Field) IsString() bool {
	t := CanonicalType(f.Type)
	return t == "String" || t == "java.lang.String"
}

// Method is a method or constructor declaration.
type Method struct {
	Name           string     `json:"name" yaml:"name"`
	ParameterTypes []string   `json:"parameter_types,omitempty" yaml:"parameter_types,omitempty"`
	ParameterNames []string   `json:"parameter_names,omitempty" yaml:"parameter_names,omitempty"`
	ReturnType     string     `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Body           string     `json:"-" yaml:"-"`
	Modifiers      []string   `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Annotations    []string   `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Constructor    bool       `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Kind           MethodKind `json:"kind" yaml:"kind"`
	// Field names the field a getter/setter belongs to, when Kind says so.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	Span  Span   `json:"span" yaml:"span"`
}

// Arity returns the number of declared parameters.
func (m Method) Arity() int {
	return len(m.ParameterTypes)
}

// Class is a class declaration. Interfaces, enums and records are not
// modelled.
type Class struct {
	Name        string   `json:"name" yaml:"name"`
	Package     string   `json:"package,omitempty" yaml:"package,omitempty"`
	Annotations []string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Modifiers   []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Fields      []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods     []Method `json:"methods,omitempty" yaml:"methods,omitempty"`
	Superclass  string   `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces  []string `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Inner       []*Class `json:"inner,omitempty" yaml:"inner,omitempty"`

	Span Span `json:"span" yaml:"span"`
	// BodyOpen is the offset of the opening brace, BodyClose of the closing one.
	BodyOpen  int `json:"body_open" yaml:"body_open"`
	BodyClose int `json:"body_close" yaml:"body_close"`
	// Indent is the whitespace prefix used for members of this class.
	Indent string `json:"-" yaml:"-"`
}

// HasAnnotation reports whether the class carries the simple-named annotation.
func (c *Class) HasAnnotation(name string) bool {
	return hasString(c.Annotations, name)
}

// FieldNamed returns the field with the given name.
func (c *Class) FieldNamed(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasMethod reports whether a method with this name and arity exists.
// Constructors never match.
func (c *Class) HasMethod(name string, arity int) bool {
	for _, m := range c.Methods {
		if !m.Constructor && m.Name == name && m.Arity() == arity {
			return true
		}
	}
	return false
}

// Import is a single import declaration.
type Import struct {
	Path     string `json:"path" yaml:"path"`
	Static   bool   `json:"static,omitempty" yaml:"static,omitempty"`
	Wildcard bool   `json:"wildcard,omitempty" yaml:"wildcard,omitempty"`
	Span     Span   `json:"span" yaml:"span"`
}

// Unit is one parsed compilation unit.
type Unit struct {
	Path    string   `json:"path,omitempty" yaml:"path,omitempty"`
	Source  []byte   `json:"-" yaml:"-"`
	Package string   `json:"package,omitempty" yaml:"package,omitempty"`
	Imports []Import `json:"imports,omitempty" yaml:"imports,omitempty"`
	Classes []*Class `json:"classes,omitempty" yaml:"classes,omitempty"`
	// PackageSpan is zero when the unit has no package declaration.
	PackageSpan Span `json:"package_span" yaml:"package_span"`
}

// AllClasses returns top-level classes followed, depth-first, by their
// nested classes.
func (u *Unit) AllClasses() []*Class {
	var out []*Class
	var walk func(cs []*Class)
	walk = func(cs []*Class) {
		for _, c := range cs {
			out = append(out, c)
			walk(c.Inner)
		}
	}
	walk(u.Classes)
	return out
}

// ClassNamed finds a class by simple name, searching nested classes too.
func (u *Unit) ClassNamed(name string) *Class {
	for _, c := range u.AllClasses() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ClassAt returns the innermost class whose span contains offset.
func (u *Unit) ClassAt(offset int) *Class {
	var found *Class
	for _, c := range u.AllClasses() {
		if !c.Span.Contains(offset) {
			continue
		}
		if found == nil || c.Span.End-c.Span.Start < found.Span.End-found.Span.Start {
			found = c
		}
	}
	return found
}

// LineOffset returns the byte offset of the start of a 1-based line, or -1
// when the line is out of range.
func (u *Unit) LineOffset(line int) int {
	if line < 1 {
		return -1
	}
	if line == 1 {
		return 0
	}
	current := 1
	for i, b := range u.Source {
		if b == '\n' {
			current++
			if current == line {
				return i + 1
			}
		}
	}
	return -1
}

// HasImport reports whether path is imported explicitly or by a wildcard
// import of its package.
func (u *Unit) HasImport(path string) bool {
	pkg := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		pkg = path[:i]
	}
	for _, imp := range u.Imports {
		if imp.Static {
			continue
		}
		if imp.Path == path {
			return true
		}
		if imp.Wildcard && imp.Path == pkg {
			return true
		}
	}
	return false
}

// CanonicalType normalizes a declared type for rendering: surrounding and
// repeated whitespace is collapsed and spaces after generic commas are
// kept uniform. Empty input degrades to Object.
func CanonicalType(t string) string {
	t = strings.Join(strings.Fields(t), " ")
	if t == "" {
		return "Object"
	}
	t = strings.ReplaceAll(t, " <", "<")
	t = strings.ReplaceAll(t, "< ", "<")
	t = strings.ReplaceAll(t, " >", ">")
	t = strings.ReplaceAll(t, " ,", ",")
	t = strings.ReplaceAll(t, ",", ", ")
	t = strings.ReplaceAll(t, ",  ", ", ")
	t = strings.ReplaceAll(t, " [", "[")
	return t
}

// SimpleName strips a package qualifier and generic arguments:
// java.util.List<String> -> List.
func SimpleName(t string) string {
	if i := strings.Index(t, "<"); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimSpace(t)
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return t
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
