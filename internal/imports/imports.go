// Package imports registers missing import declarations in a compilation
// unit.
package imports

import (
	"sort"
	"strings"

	"github.com/beanwright/jbgen/internal/edit"
	"github.com/beanwright/jbgen/internal/model"
)

// Missing returns the paths from wanted that u does not import yet,
// deduplicated and in first-seen order. java.lang types and types from
// the unit's own package never need an import.
func Missing(u *model.Unit, wanted []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, path := range wanted {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if implicit(u, path) || u.HasImport(path) {
			continue
		}
		out = append(out, path)
	}
	return out
}

func implicit(u *model.Unit, path string) bool {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return true
	}
	pkg := path[:i]
	return pkg == "java.lang" || (u.Package != "" && pkg == u.Package)
}

// Edits returns at most one insert adding the missing imports among
// wanted. New imports go after the last existing import, else after the
// package declaration, else at the top of the file.
func Edits(u *model.Unit, wanted []string) []edit.Edit {
	missing := Missing(u, wanted)
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)

	var sb strings.Builder
	label := "import " + strings.Join(missing, ", ")

	if n := len(u.Imports); n > 0 {
		for _, p := range missing {
			sb.WriteString("\nimport " + p + ";")
		}
		return []edit.Edit{edit.Insert(u.Imports[n-1].Span.End, sb.String(), label)}
	}

	if u.PackageSpan.End > 0 {
		sb.WriteString("\n")
		for _, p := range missing {
			sb.WriteString("\nimport " + p + ";")
		}
		return []edit.Edit{edit.Insert(u.PackageSpan.End, sb.String(), label)}
	}

	for _, p := range missing {
		sb.WriteString("import " + p + ";\n")
	}
	sb.WriteString("\n")
	return []edit.Edit{edit.Insert(0, sb.String(), label)}
}
