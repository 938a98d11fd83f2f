package extract

import (
	"strings"

	"github.com/beanwright/jbgen/internal/bean"
	"github.com/beanwright/jbgen/internal/model"
	"github.com/beanwright/jbgen/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// defaultIndentUnit is used when a class body has no members to copy
// indentation from.
const defaultIndentUnit = "    "

// JavaExtractor extracts the model of a compilation unit from a parsed Java AST.
type JavaExtractor struct {
	result *parser.ParseResult
}

// NewJavaExtractor creates an extractor for the given Java parse result.
func NewJavaExtractor(result *parser.ParseResult) *JavaExtractor {
	return &JavaExtractor{
		result: result,
	}
}

// ExtractUnit extracts package, imports and class declarations (with their
// nested classes). It fails with a *parser.ParseError when the tree has
// syntax errors, since offsets into a broken tree cannot be trusted.
func (e *JavaExtractor) ExtractUnit() (*model.Unit, error) {
	if pe := e.result.SyntaxError(); pe != nil {
		return nil, pe
	}

	unit := &model.Unit{
		Path:   e.result.FilePath,
		Source: e.result.Source,
	}

	root := e.result.Root
	for i := uint32(0); i < root.ChildCount(); i++ {
		child := root.Child(int(i))
		switch child.Type() {
		case "package_declaration":
			unit.Package = e.extractPackageName(child)
			unit.PackageSpan = spanOf(child)
		case "import_declaration":
			if imp, ok := e.extractImport(child); ok {
				unit.Imports = append(unit.Imports, imp)
			}
		case "class_declaration":
			if c := e.extractClass(child, unit.Package); c != nil {
				unit.Classes = append(unit.Classes, c)
			}
		}
	}

	return unit, nil
}

// extractPackageName returns the dotted name of a package declaration.
func (e *JavaExtractor) extractPackageName(node *sitter.Node) string {
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return e.nodeText(child)
		}
	}
	return ""
}

// extractImport extracts an import declaration from its AST node.
func (e *JavaExtractor) extractImport(node *sitter.Node) (model.Import, bool) {
	imp := model.Import{Span: spanOf(node)}

	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case "static":
			imp.Static = true
		case "scoped_identifier", "identifier":
			imp.Path = e.nodeText(child)
		case "asterisk":
			imp.Wildcard = true
		}
	}

	return imp, imp.Path != ""
}

// extractClass extracts a class declaration and, recursively, the classes
// declared in its body.
func (e *JavaExtractor) extractClass(node *sitter.Node, pkg string) *model.Class {
	if node == nil || node.Type() != "class_declaration" {
		return nil
	}

	nameNode := findChildByFieldName(node, "name")
	bodyNode := findChildByFieldName(node, "body")
	if nameNode == nil || bodyNode == nil {
		return nil
	}

	modifiers, annotations := e.extractModifiers(node)

	c := &model.Class{
		Name:        e.nodeText(nameNode),
		Package:     pkg,
		Modifiers:   modifiers,
		Annotations: annotations,
		Span:        spanOf(node),
		BodyOpen:    int(bodyNode.StartByte()),
		BodyClose:   int(bodyNode.EndByte()) - 1,
	}

	if superNode := findChildByFieldName(node, "superclass"); superNode != nil && superNode.NamedChildCount() > 0 {
		c.Superclass = e.nodeText(superNode.NamedChild(0))
	}

	if interfacesNode := findChildByFieldName(node, "interfaces"); interfacesNode != nil {
		c.Interfaces = e.extractTypeList(interfacesNode)
	}

	var firstMember *sitter.Node
	order := 0
	for i := uint32(0); i < bodyNode.ChildCount(); i++ {
		child := bodyNode.Child(int(i))
		kind, isMember := parser.MemberNodeTypes[child.Type()]
		if !isMember && !parser.IsCommentNode(child) {
			continue
		}
		if firstMember == nil {
			firstMember = child
		}

		switch kind {
		case "field":
			fields := e.extractField(child, order)
			order += len(fields)
			c.Fields = append(c.Fields, fields...)
		case "method":
			if m, ok := e.extractMethod(child); ok {
				c.Methods = append(c.Methods, m)
			}
		case "constructor":
			if m, ok := e.extractConstructor(child); ok {
				c.Methods = append(c.Methods, m)
			}
		case "class":
			if inner := e.extractClass(child, pkg); inner != nil {
				c.Inner = append(c.Inner, inner)
			}
		}
	}

	for i := range c.Methods {
		c.Methods[i].Kind, c.Methods[i].Field = bean.Kind(c.Methods[i], c.Fields)
	}

	c.Indent = e.memberIndent(node, firstMember)
	return c
}

// extractField extracts every declarator of a field declaration.
func (e *JavaExtractor) extractField(node *sitter.Node, order int) []model.Field {
	modifiers, annotations := e.extractModifiers(node)

	typeName := ""
	if typeNode := findChildByFieldName(node, "type"); typeNode != nil {
		typeName = model.CanonicalType(e.nodeText(typeNode))
	}

	var fields []model.Field
	for _, decl := range findChildrenByType(node, "variable_declarator") {
		nameNode := findChildByFieldName(decl, "name")
		if nameNode == nil {
			continue
		}
		fieldType := typeName
		// int x[]; puts the dimensions on the declarator
		if dims := findChildByFieldName(decl, "dimensions"); dims != nil {
			fieldType += strings.Join(strings.Fields(e.nodeText(dims)), "")
		}
		fields = append(fields, model.Field{
			Name:        e.nodeText(nameNode),
			Type:        fieldType,
			Modifiers:   modifiers,
			Annotations: annotations,
			Order:       order + len(fields),
			Span:        memberSpan(node, e.result.Source),
		})
	}
	return fields
}

// extractMethod extracts a method declaration from its AST node.
func (e *JavaExtractor) extractMethod(node *sitter.Node) (model.Method, bool) {
	nameNode := findChildByFieldName(node, "name")
	if nameNode == nil {
		return model.Method{}, false
	}

	modifiers, annotations := e.extractModifiers(node)

	returnType := ""
	if typeNode := findChildByFieldName(node, "type"); typeNode != nil {
		returnType = model.CanonicalType(e.nodeText(typeNode))
	}

	types, names := e.extractJavaParameters(findChildByFieldName(node, "parameters"))

	body := ""
	if bodyNode := findChildByFieldName(node, "body"); bodyNode != nil {
		body = e.nodeText(bodyNode)
	}

	return model.Method{
		Name:           e.nodeText(nameNode),
		ParameterTypes: types,
		ParameterNames: names,
		ReturnType:     returnType,
		Body:           body,
		Modifiers:      modifiers,
		Annotations:    annotations,
		Span:           memberSpan(node, e.result.Source),
	}, true
}

// extractConstructor extracts a constructor declaration from its AST node.
func (e *JavaExtractor) extractConstructor(node *sitter.Node) (model.Method, bool) {
	nameNode := findChildByFieldName(node, "name")
	if nameNode == nil {
		return model.Method{}, false
	}

	modifiers, annotations := e.extractModifiers(node)
	types, names := e.extractJavaParameters(findChildByFieldName(node, "parameters"))

	body := ""
	if bodyNode := findChildByFieldName(node, "body"); bodyNode != nil {
		body = e.nodeText(bodyNode)
	}

	return model.Method{
		Name:           e.nodeText(nameNode),
		ParameterTypes: types,
		ParameterNames: names,
		Body:           body,
		Modifiers:      modifiers,
		Annotations:    annotations,
		Constructor:    true,
		Span:           memberSpan(node, e.result.Source),
	}, true
}

// extractModifiers splits a declaration's modifiers node into keyword
// modifiers and annotation simple names.
func (e *JavaExtractor) extractModifiers(node *sitter.Node) ([]string, []string) {
	var modifiers, annotations []string

	mods := findChildByType(node, "modifiers")
	if mods == nil {
		return nil, nil
	}
	for i := uint32(0); i < mods.ChildCount(); i++ {
		mod := mods.Child(int(i))
		modType := mod.Type()
		if isJavaModifier(modType) {
			modifiers = append(modifiers, modType)
		} else if modType == "marker_annotation" || modType == "annotation" {
			if name := e.extractAnnotationName(mod); name != "" {
				annotations = append(annotations, name)
			}
		}
	}

	return modifiers, annotations
}

// extractAnnotationName extracts the simple name of an annotation, so
// @javax.persistence.Entity yields Entity.
func (e *JavaExtractor) extractAnnotationName(node *sitter.Node) string {
	if nameNode := findChildByFieldName(node, "name"); nameNode != nil {
		return model.SimpleName(e.nodeText(nameNode))
	}

	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() == "identifier" || child.Type() == "scoped_identifier" {
			return model.SimpleName(e.nodeText(child))
		}
	}

	return ""
}

// extractTypeList extracts a list of types from a type list node (for extends/implements).
func (e *JavaExtractor) extractTypeList(node *sitter.Node) []string {
	var types []string

	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case "type_identifier", "generic_type", "scoped_type_identifier":
			types = append(types, e.nodeText(child))
		case "type_list":
			types = append(types, e.extractTypeList(child)...)
		}
	}

	return types
}

// extractJavaParameters extracts parameter types and names from a
// formal_parameters node, in declaration order.
func (e *JavaExtractor) extractJavaParameters(node *sitter.Node) ([]string, []string) {
	if node == nil {
		return nil, nil
	}

	var types, names []string
	for i := uint32(0); i < node.ChildCount(); i++ {
		decl := node.Child(int(i))
		switch decl.Type() {
		case "formal_parameter":
			typeName := ""
			if typeNode := findChildByFieldName(decl, "type"); typeNode != nil {
				typeName = model.CanonicalType(e.nodeText(typeNode))
			}
			name := ""
			if nameNode := findChildByFieldName(decl, "name"); nameNode != nil {
				name = e.nodeText(nameNode)
			}
			types = append(types, typeName)
			names = append(names, name)
		case "spread_parameter":
			typeName := ""
			if typeNode := findChildByFieldName(decl, "type"); typeNode != nil {
				typeName = model.CanonicalType(e.nodeText(typeNode)) + "..."
			} else if decl.NamedChildCount() > 0 {
				typeName = model.CanonicalType(e.nodeText(decl.NamedChild(0))) + "..."
			}
			name := ""
			if d := findChildByType(decl, "variable_declarator"); d != nil {
				if nameNode := findChildByFieldName(d, "name"); nameNode != nil {
					name = e.nodeText(nameNode)
				}
			}
			types = append(types, typeName)
			names = append(names, name)
		}
	}
	return types, names
}

// memberIndent returns the indentation of the first member line, falling
// back to the class line indentation plus one unit.
func (e *JavaExtractor) memberIndent(classNode, firstMember *sitter.Node) string {
	if firstMember != nil {
		if prefix, ok := e.linePrefix(int(firstMember.StartByte())); ok {
			return prefix
		}
	}
	prefix, _ := e.linePrefix(int(classNode.StartByte()))
	prefix = prefix[:len(prefix)-len(strings.TrimLeft(prefix, " \t"))]
	if strings.Contains(prefix, "\t") {
		return prefix + "\t"
	}
	return prefix + defaultIndentUnit
}

// linePrefix returns the text between the start of the line containing
// offset and offset, and whether it is pure whitespace.
func (e *JavaExtractor) linePrefix(offset int) (string, bool) {
	src := e.result.Source
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	prefix := string(src[start:offset])
	return prefix, strings.TrimSpace(prefix) == ""
}

// nodeText returns the source text for a node.
func (e *JavaExtractor) nodeText(node *sitter.Node) string {
	return e.result.NodeText(node)
}

// isJavaModifier checks if a node type is a Java modifier keyword.
func isJavaModifier(nodeType string) bool {
	switch nodeType {
	case "public", "private", "protected", "static", "final", "abstract",
		"synchronized", "native", "transient", "volatile", "strictfp", "default":
		return true
	}
	return false
}
