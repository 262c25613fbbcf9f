package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/rich-iannone/great-docs/internal/catalog"
)

// symbol is one top-level binding of a Python module.
type symbol struct {
	name    string
	kind    catalog.Kind
	doc     string
	loc     catalog.Location
	methods []catalog.Method

	// Set for `from X import Y [as name]` bindings. fromModule is the absolute
	// dotted module name; origName is "*" for star imports.
	fromModule string
	origName   string
	imported   bool
}

// pyModule is the parsed top level of one Python source file.
type pyModule struct {
	path      string
	dotted    string
	symbols   []symbol
	all       []string
	hasAll    bool
	gtExclude []string
	hasErrors bool
}

func (m *pyModule) lookup(name string) (symbol, bool) {
	for _, s := range m.symbols {
		if s.name == name {
			return s, true
		}
	}
	return symbol{}, false
}

// parsePython parses a Python file. isPackage marks __init__.py files, whose relative
// imports resolve against the module itself rather than its parent.
func parsePython(ctx context.Context, path, dotted string, isPackage bool) (*pyModule, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- package source under the project root
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	root := tree.RootNode()

	base := dotted
	if !isPackage {
		if i := strings.LastIndex(dotted, "."); i >= 0 {
			base = dotted[:i]
		}
	}

	mod := &pyModule{path: path, dotted: dotted, hasErrors: root.HasError()}
	seen := map[string]bool{}
	add := func(s symbol) {
		if s.name == "" || seen[s.name] {
			return
		}
		seen[s.name] = true
		mod.symbols = append(mod.symbols, s)
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "class_definition", "function_definition", "decorated_definition":
			if s, ok := definitionSymbol(node, src, path); ok {
				add(s)
			}
		case "import_from_statement":
			for _, s := range importSymbols(node, src, base, path) {
				add(s)
			}
		case "expression_statement":
			parseAssignment(mod, node, src, path, add)
		}
	}
	return mod, nil
}

func definitionSymbol(node *sitter.Node, src []byte, path string) (symbol, bool) {
	def := node
	if node.Type() == "decorated_definition" {
		def = node.ChildByFieldName("definition")
		if def == nil {
			return symbol{}, false
		}
	}
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return symbol{}, false
	}
	s := symbol{
		name: nameNode.Content(src),
		doc:  docstring(def.ChildByFieldName("body"), src),
		loc:  location(node, path),
	}
	switch def.Type() {
	case "class_definition":
		s.kind = catalog.KindClass
		s.methods = classMethods(s.name, def.ChildByFieldName("body"), src, path)
	case "function_definition":
		s.kind = catalog.KindFunction
	default:
		return symbol{}, false
	}
	return s, true
}

// classMethods lists the public methods of a class body in source order. Properties
// are attributes, not methods, and overloads collapse to the first definition.
func classMethods(className string, body *sitter.Node, src []byte, path string) []catalog.Method {
	if body == nil {
		return nil
	}
	var out []catalog.Method
	seen := map[string]bool{}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		node := body.NamedChild(i)
		def := node
		if node.Type() == "decorated_definition" {
			if isPropertyAccessor(node, src) {
				continue
			}
			def = node.ChildByFieldName("definition")
		}
		if def == nil || def.Type() != "function_definition" {
			continue
		}
		nameNode := def.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(src)
		if strings.HasPrefix(name, "_") || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, catalog.Method{
			Name:          name,
			QualifiedName: className + "." + name,
			Docstring:     docstring(def.ChildByFieldName("body"), src),
			Location:      location(node, path),
		})
	}
	return out
}

func isPropertyAccessor(decorated *sitter.Node, src []byte) bool {
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(child.Content(src), "@"))
		if text == "property" || text == "cached_property" || text == "functools.cached_property" ||
			strings.HasSuffix(text, ".setter") || strings.HasSuffix(text, ".getter") ||
			strings.HasSuffix(text, ".deleter") {
			return true
		}
	}
	return false
}

// importSymbols handles `from X import a, b as c` and `from X import *`.
func importSymbols(node *sitter.Node, src []byte, base, path string) []symbol {
	modNode := node.ChildByFieldName("module_name")
	if modNode == nil {
		return nil
	}
	from := resolveModule(modNode.Content(src), base)
	if from == "" {
		return nil
	}

	var out []symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() == modNode.StartByte() && child.EndByte() == modNode.EndByte() {
			continue
		}
		s := symbol{imported: true, fromModule: from, loc: location(node, path)}
		switch child.Type() {
		case "dotted_name":
			s.origName = child.Content(src)
			s.name = s.origName
		case "aliased_import":
			nameNode, alias := child.ChildByFieldName("name"), child.ChildByFieldName("alias")
			if nameNode == nil || alias == nil {
				continue
			}
			s.origName = nameNode.Content(src)
			s.name = alias.Content(src)
		case "wildcard_import":
			s.origName = "*"
			s.name = "*" + from
		default:
			continue
		}
		out = append(out, s)
	}
	return out
}

// resolveModule turns the module part of a from-import into an absolute dotted name.
// base is the package the importing module lives in.
func resolveModule(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, ".") {
		return raw
	}
	dots := len(raw) - len(strings.TrimLeft(raw, "."))
	rest := raw[dots:]
	parts := strings.Split(base, ".")
	up := dots - 1
	if up >= len(parts) {
		return ""
	}
	parts = parts[:len(parts)-up]
	if rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, ".")
}

func parseAssignment(mod *pyModule, stmt *sitter.Node, src []byte, path string, add func(symbol)) {
	if stmt.NamedChildCount() == 0 {
		return
	}
	node := stmt.NamedChild(0)
	if node.Type() != "assignment" && node.Type() != "augmented_assignment" {
		return
	}
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := left.Content(src)
	right := node.ChildByFieldName("right")

	switch name {
	case "__all__":
		if node.Type() == "assignment" {
			mod.all = nil
		}
		mod.hasAll = true
		mod.all = append(mod.all, stringLiterals(right, src)...)
		return
	case "__gt_exclude__":
		mod.gtExclude = append(mod.gtExclude, stringLiterals(right, src)...)
		return
	}
	if node.Type() == "assignment" {
		add(symbol{name: name, kind: catalog.KindOther, loc: location(stmt, path)})
	}
}

func stringLiterals(node *sitter.Node, src []byte) []string {
	if node == nil {
		return nil
	}
	if node.Type() == "string" {
		return []string{stringValue(node.Content(src))}
	}
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		out = append(out, stringLiterals(node.NamedChild(i), src)...)
	}
	return out
}

func docstring(body *sitter.Node, src []byte) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return cleanDoc(stringValue(str.Content(src)))
}

// stringValue strips the prefix and quotes of a Python string literal.
func stringValue(raw string) string {
	s := strings.TrimLeft(raw, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// cleanDoc trims a docstring and removes the indentation shared by its continuation
// lines.
func cleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "    "), "\n")
	indent := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}
	lines[0] = strings.TrimSpace(lines[0])
	if indent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= indent {
				lines[i] = lines[i][indent:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func location(node *sitter.Node, path string) catalog.Location {
	return catalog.Location{
		File:      path,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}
}
