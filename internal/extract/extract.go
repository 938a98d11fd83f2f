// Package extract builds the model view of a Java compilation unit from a
// tree-sitter parse tree.
package extract

import (
	"context"
	"strings"

	"github.com/beanwright/jbgen/internal/model"
	"github.com/beanwright/jbgen/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseUnit parses src and extracts its model. Source that is not valid
// Java is rejected with a *parser.ParseError.
func ParseUnit(ctx context.Context, path string, src []byte) (*model.Unit, error) {
	p, err := parser.NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := p.ParseCtx(ctx, src)
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			pe.File = path
		}
		return nil, err
	}
	defer result.Close()
	result.FilePath = path

	return NewJavaExtractor(result).ExtractUnit()
}

// findChildByType finds the first direct child node of the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// findChildByFieldName finds the child node with the given field name.
func findChildByFieldName(node *sitter.Node, fieldName string) *sitter.Node {
	return node.ChildByFieldName(fieldName)
}

// findChildrenByType finds all direct child nodes of the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var children []*sitter.Node
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() == nodeType {
			children = append(children, child)
		}
	}
	return children
}

// spanOf returns the byte span of a node.
func spanOf(node *sitter.Node) model.Span {
	return model.Span{Start: int(node.StartByte()), End: int(node.EndByte())}
}

// memberSpan returns the span of a class member, widened to the comments
// directly above it. A comment belongs to the member when it starts its own
// line and no blank line separates it from what follows.
func memberSpan(node *sitter.Node, src []byte) model.Span {
	span := spanOf(node)
	for prev := node.PrevSibling(); prev != nil && parser.IsCommentNode(prev); prev = prev.PrevSibling() {
		start, end := int(prev.StartByte()), int(prev.EndByte())
		if strings.Count(string(src[end:span.Start]), "\n") > 1 || !startsLine(src, start) {
			break
		}
		span.Start = start
	}
	return span
}

// startsLine reports whether only indentation precedes offset on its line.
func startsLine(src []byte, offset int) bool {
	for i := offset - 1; i >= 0 && src[i] != '\n'; i-- {
		if src[i] != ' ' && src[i] != '\t' {
			return false
		}
	}
	return true
}
