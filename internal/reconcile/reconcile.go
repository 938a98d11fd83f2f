// Package reconcile decides how a class's existing members and the
// synthesized JavaBean members fit together: which existing members go,
// which synthesized members are new, and where the new block is placed.
package reconcile

import (
	"bytes"
	"strings"

	"github.com/beanwright/jbgen/internal/bean"
	"github.com/beanwright/jbgen/internal/edit"
	"github.com/beanwright/jbgen/internal/model"
	"github.com/beanwright/jbgen/internal/synth"
)

// SeparatorComment marks where business logic ends and generated
// accessors begin.
const SeparatorComment = "// ================================ JavaBean Methods ================================"

// separatorMarker is what identifies an existing separator line, so a
// separator whose rule was shortened by hand is still recognized.
const separatorMarker = "JavaBean Methods"

// InsertionPlan is where the generated block goes.
type InsertionPlan struct {
	Offset int `json:"offset" yaml:"offset"`
	// PrecededBySeparator is true when the block sits after business
	// methods, below the separator comment.
	PrecededBySeparator bool `json:"preceded_by_separator" yaml:"preceded_by_separator"`
	// EmitSeparator is true when the separator does not exist yet and must
	// be written at the head of the block.
	EmitSeparator bool `json:"emit_separator" yaml:"emit_separator"`
	// Anchor names the member the block follows.
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// Plan is the reconciliation outcome for one class.
type Plan struct {
	Class      string          `json:"class" yaml:"class"`
	Deletions  []model.Method  `json:"deletions,omitempty" yaml:"deletions,omitempty"`
	Insertions synth.MemberSet `json:"insertions" yaml:"insertions"`
	Insertion  InsertionPlan   `json:"insertion" yaml:"insertion"`

	indent string
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return len(p.Deletions) == 0 && p.Insertions.Len() == 0
}

// Compute plans class c against its source text.
//
// Existing getters and setters are kept and only missing ones are added.
// Every no-arg toString is deleted whenever a new one is synthesized.
// The new members go in one block right after the last business method
// (below the separator comment) or, with no business methods, right after
// the last field.
func Compute(c *model.Class, src []byte, opts synth.Options) *Plan {
	if opts.ClassName == "" {
		opts.ClassName = c.Name
	}
	if opts.IndentUnit == "" {
		opts.IndentUnit = indentUnit(c.Indent)
	}

	p := &Plan{
		Class:      c.Name,
		Insertions: synth.Synthesize(c.Fields, c.Methods, opts),
		indent:     c.Indent,
	}

	if _, ok := p.Insertions.ToString(); ok {
		for _, m := range c.Methods {
			if bean.IsToString(m) {
				p.Deletions = append(p.Deletions, m)
			}
		}
	}

	p.Insertion = insertionPoint(c, src)
	return p
}

// BusinessMethods returns the business methods of c in declaration order.
func BusinessMethods(c *model.Class) []model.Method {
	var out []model.Method
	for _, m := range c.Methods {
		if bean.IsBusiness(m, c.Fields) {
			out = append(out, m)
		}
	}
	return out
}

func insertionPoint(c *model.Class, src []byte) InsertionPlan {
	if business := BusinessMethods(c); len(business) > 0 {
		last := business[len(business)-1]
		ip := InsertionPlan{
			Offset:              pastTrailingComment(src, last.Span.End),
			PrecededBySeparator: true,
			EmitSeparator:       true,
			Anchor:              last.Name,
		}
		if end, ok := separatorAfter(src, ip.Offset); ok {
			ip.Offset = end
			ip.EmitSeparator = false
		}
		return ip
	}

	if len(c.Fields) > 0 {
		end, name := 0, ""
		for _, f := range c.Fields {
			if f.Span.End >= end {
				end, name = f.Span.End, f.Name
			}
		}
		return InsertionPlan{Offset: pastTrailingComment(src, end), Anchor: name}
	}

	return InsertionPlan{Offset: c.BodyOpen + 1}
}

// pastTrailingComment moves offset past a comment that follows it on the
// same line, so text inserted there lands on a new line.
func pastTrailingComment(src []byte, offset int) int {
	i := offset
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	rest := src[i:]
	switch {
	case bytes.HasPrefix(rest, []byte("//")):
		for i < len(src) && src[i] != '\n' && src[i] != '\r' {
			i++
		}
		return i
	case bytes.HasPrefix(rest, []byte("/*")):
		end := bytes.Index(rest, []byte("*/"))
		if end < 0 || bytes.IndexByte(rest[:end], '\n') >= 0 {
			return offset
		}
		next := pastTrailingComment(src, i+end+2)
		if !restOfLineBlank(src, next) {
			return offset
		}
		return next
	}
	return offset
}

func restOfLineBlank(src []byte, offset int) bool {
	for i := offset; i < len(src) && src[i] != '\n'; i++ {
		if !isSpace(src[i]) {
			return false
		}
	}
	return true
}

// separatorAfter reports whether the first non-blank line after offset is
// the separator comment, returning the offset just past it.
func separatorAfter(src []byte, offset int) (int, bool) {
	i := offset
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	lineEnd := i
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}
	line := strings.TrimRight(string(src[i:lineEnd]), " \t\r")
	if strings.HasPrefix(line, "//") && strings.Contains(line, separatorMarker) {
		return i + len(line), true
	}
	return 0, false
}

// Edits lowers the plan to text edits against src.
func (p *Plan) Edits(src []byte) []edit.Edit {
	var edits []edit.Edit

	for _, m := range p.Deletions {
		start := m.Span.Start
		if off := p.Insertion.Offset; p.Insertions.Len() > 0 && start < off && off < m.Span.End {
			// The comments above m end at the insertion point, e.g. an
			// existing separator. They stay.
			start = off
		}
		for start > 0 && isSpace(src[start-1]) {
			start--
		}
		edits = append(edits, edit.Delete(start, m.Span.End, "delete "+m.Name))
	}

	if p.Insertions.Len() == 0 {
		return edits
	}

	var sb strings.Builder
	if p.Insertion.EmitSeparator {
		sb.WriteString("\n\n")
		sb.WriteString(p.indent)
		sb.WriteString(SeparatorComment)
	}
	for _, m := range p.Insertions.Members {
		sb.WriteString("\n\n")
		sb.WriteString(indentLines(m.Text, p.indent))
	}
	text := sb.String()
	if off := p.Insertion.Offset; off > 0 && off <= len(src) && src[off-1] == '{' {
		// Directly after the opening brace there is no member to leave a
		// blank line after.
		text = strings.TrimPrefix(text, "\n") + "\n"
	}

	edits = append(edits, edit.Insert(p.Insertion.Offset, text, "insert "+p.Class+" members"))
	return edits
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

// indentUnit guesses one level of indentation from a member indent.
func indentUnit(memberIndent string) string {
	if strings.Contains(memberIndent, "\t") {
		return "\t"
	}
	return "    "
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
