package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// newJavaParser creates a tree-sitter parser configured for Java.
func newJavaParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	return parser, nil
}

// MemberNodeTypes lists the class-body node types jbgen models as members.
var MemberNodeTypes = map[string]string{
	"field_declaration":       "field",
	"method_declaration":      "method",
	"constructor_declaration": "constructor",
	"class_declaration":       "class",
}

// IsCommentNode reports whether a node is a Java comment. Older grammars
// emit a single "comment" type, newer ones split line and block comments.
func IsCommentNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "comment", "line_comment", "block_comment":
		return true
	}
	return false
}
