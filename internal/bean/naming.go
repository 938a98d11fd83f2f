// Package bean holds the JavaBean naming rules shared by classification,
// synthesis and reconciliation: how accessor and mutator names are derived
// from a field, and how an existing method is recognized as one of them.
package bean

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beanwright/jbgen/internal/model"
)

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Decapitalize lower-cases the first rune of s.
func Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// AccessorName returns the getter name for a field.
//
// A primitive boolean already named isX keeps its name; other primitive
// booleans get the is prefix. Everything else, boxed Boolean included,
// gets the get prefix.
func AccessorName(f model.Field) string {
	if f.IsPrimitiveBoolean() {
		if strings.HasPrefix(f.Name, "is") {
			return f.Name
		}
		return "is" + Capitalize(f.Name)
	}
	return "get" + Capitalize(f.Name)
}

// MutatorName returns the setter name for a field. A primitive boolean
// named isX gets setX rather than setIsX.
func MutatorName(f model.Field) string {
	if f.IsPrimitiveBoolean() && strings.HasPrefix(f.Name, "is") && len(f.Name) > 2 {
		return "set" + Capitalize(f.Name[2:])
	}
	return "set" + Capitalize(f.Name)
}
