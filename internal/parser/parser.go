// Package parser provides tree-sitter based parsing of Java source code.
//
// The parser package wraps the tree-sitter library so the rest of jbgen can
// work with a parse tree plus the original bytes, and turns syntax errors
// into a ParseError carrying a file position.
package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser wraps tree-sitter for Java parsing.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the AST.
	Root *sitter.Node
	// Source is the original source code that was parsed.
	Source []byte
	// FilePath is the path to the source file (empty for in-memory parsing).
	FilePath string
}

// NewParser creates a Java parser.
func NewParser() (*Parser, error) {
	p, err := newJavaParser()
	if err != nil {
		return nil, err
	}
	return &Parser{parser: p}, nil
}

// Parse parses source code and returns the AST.
func (p *Parser) Parse(source []byte) (*ParseResult, error) {
	return p.ParseCtx(context.Background(), source)
}

// ParseCtx parses source code, honoring cancellation of ctx.
func (p *Parser) ParseCtx(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{
			Message: err.Error(),
		}
	}

	return &ParseResult{
		Tree:   tree,
		Root:   tree.RootNode(),
		Source: source,
	}, nil
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	if r.Root == nil {
		return false
	}
	return r.Root.HasError()
}

// SyntaxError returns a ParseError describing the first ERROR or MISSING
// node in the tree, or nil when the tree is clean.
func (r *ParseResult) SyntaxError() *ParseError {
	if !r.HasErrors() {
		return nil
	}

	var bad *sitter.Node
	r.WalkNodes(func(node *sitter.Node) bool {
		if node.Type() == "ERROR" || node.IsMissing() {
			bad = node
			return false
		}
		return true
	})

	pe := &ParseError{File: r.FilePath, Line: 1, Column: 1, Message: "syntax error"}
	if bad != nil {
		pos := bad.StartPoint()
		pe.Line = pos.Row + 1
		pe.Column = pos.Column + 1
		if bad.IsMissing() {
			pe.Message = "syntax error: missing " + bad.Type()
		}
	}
	return pe
}

// WalkNodes traverses the AST depth-first, calling the visitor function
// for each node. If the visitor returns false, traversal stops.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	walkNode(r.Root, visitor)
}

// walkNode is a helper for depth-first AST traversal.
func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		if !walkNode(node.Child(int(i)), visitor) {
			return false
		}
	}
	return true
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}

// IsJavaFile reports whether path has a Java source extension.
func IsJavaFile(path string) bool {
	n := len(path)
	return n > 5 && path[n-5:] == ".java"
}
