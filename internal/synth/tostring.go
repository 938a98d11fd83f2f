package synth

import (
	"fmt"
	"strings"

	"github.com/beanwright/jbgen/internal/model"
)

// Style selects the toString rendering.
type Style string

const (
	// StyleJSON renders a JSON-shaped string concatenation.
	StyleJSON Style = "json"
	// StyleSimple renders Name{field=value, ...}.
	StyleSimple Style = "simple"
	// StyleApache delegates to commons-lang ToStringBuilder.
	StyleApache Style = "apache"
)

// ValidStyles lists the accepted toString styles.
var ValidStyles = []Style{StyleJSON, StyleSimple, StyleApache}

const toStringBuilderImport = "org.apache.commons.lang3.builder.ToStringBuilder"

// renderToString returns the full toString method and the imports it needs.
func renderToString(fields []model.Field, opts Options) (string, []string) {
	var expr string
	var imports []string

	switch opts.Style {
	case StyleSimple:
		expr = simpleExpr(fields, opts.ClassName)
	case StyleApache:
		expr = apacheExpr(fields)
		imports = append(imports, toStringBuilderImport)
	default:
		expr = JSONExpr(fields)
	}

	text := fmt.Sprintf("@Override\npublic String toString() {\n%sreturn %s;\n}", opts.IndentUnit, expr)
	return text, imports
}

// JSONExpr renders the json-style toString expression:
//
//	"{" + "\"name\":\"" + name + "\"" + "," + "\"age\":" + age + "}"
//
// String fields are wrapped in escaped quotes, everything else is
// interpolated raw.
func JSONExpr(fields []model.Field) string {
	var sb strings.Builder
	sb.WriteString(`"{"`)
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(` + ","`)
		}
		if f.IsString() {
			fmt.Fprintf(&sb, ` + "\"%s\":\"" + %s + "\""`, f.Name, f.Name)
		} else {
			fmt.Fprintf(&sb, ` + "\"%s\":" + %s`, f.Name, f.Name)
		}
	}
	sb.WriteString(` + "}"`)
	return sb.String()
}

func simpleExpr(fields []model.Field, className string) string {
	if className == "" {
		className = "Object"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `"%s{"`, className)
	for i, f := range fields {
		sep := ""
		if i > 0 {
			sep = ", "
		}
		if f.IsString() {
			fmt.Fprintf(&sb, ` + "%s%s='" + %s + '\''`, sep, f.Name, f.Name)
		} else {
			fmt.Fprintf(&sb, ` + "%s%s=" + %s`, sep, f.Name, f.Name)
		}
	}
	sb.WriteString(` + '}'`)
	return sb.String()
}

func apacheExpr(fields []model.Field) string {
	var sb strings.Builder
	sb.WriteString("new ToStringBuilder(this)")
	for _, f := range fields {
		fmt.Fprintf(&sb, `.append("%s", %s)`, f.Name, f.Name)
	}
	sb.WriteString(".toString()")
	return sb.String()
}

// IsValidStyle reports whether s names a known style.
func IsValidStyle(s string) bool {
	for _, v := range ValidStyles {
		if string(v) == s {
			return true
		}
	}
	return false
}
