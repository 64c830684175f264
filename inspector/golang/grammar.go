package golang

import (
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/viant/iamgen/inspector/graph"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// Grammar maps tree-sitter go nodes to graph categories
type Grammar struct{}

// New creates go grammar
func New() *Grammar {
	return &Grammar{}
}

func (g *Grammar) Language() *sitter.Language {
	return golang.GetLanguage()
}

func (g *Grammar) Kind(n *sitter.Node) graph.Kind {
	switch n.Type() {
	case "call_expression":
		return graph.KindCall
	case "selector_expression":
		return graph.KindMember
	case "identifier":
		return graph.KindIdentifier
	case "interpreted_string_literal", "raw_string_literal":
		return graph.KindString
	case "int_literal", "float_literal":
		return graph.KindNumber
	case "composite_literal":
		return graph.KindObject
	case "binary_expression":
		return graph.KindBinary
	case "import_declaration":
		return graph.KindImport
	case "short_var_declaration", "assignment_statement", "var_declaration", "const_declaration":
		return graph.KindAssignment
	case "function_declaration", "method_declaration", "func_literal":
		return graph.KindFunction
	case "block":
		return graph.KindBlock
	case "parenthesized_expression", "unary_expression":
		return graph.KindWrapper
	case "type_declaration":
		return graph.KindTypeDecl
	}
	return graph.KindOther
}

func (g *Grammar) Imports(n *sitter.Node, src []byte) []graph.Import {
	var result []graph.Import
	var specs []*sitter.Node
	for _, child := range graph.NamedChildren(n) {
		switch child.Type() {
		case "import_spec":
			specs = append(specs, child)
		case "import_spec_list":
			for _, spec := range graph.NamedChildren(child) {
				if spec.Type() == "import_spec" {
					specs = append(specs, spec)
				}
			}
		}
	}
	for _, spec := range specs {
		path, ok := g.StringValue(spec.ChildByFieldName("path"), src)
		if !ok {
			continue
		}
		name := PackageName(path)
		if alias := spec.ChildByFieldName("name"); alias != nil {
			if alias.Type() != "package_identifier" {
				continue // dot and blank imports bind no name
			}
			name = graph.Text(alias, src)
		}
		result = append(result, graph.Import{Name: name, Module: path, Location: graph.LocationOf(spec)})
	}
	return result
}

// PackageName returns default package name for import path
func PackageName(path string) string {
	segments := strings.Split(path, "/")
	name := segments[len(segments)-1]
	if majorVersion.MatchString(name) && len(segments) > 1 {
		name = segments[len(segments)-2]
	}
	if index := strings.Index(name, ".v"); index != -1 {
		name = name[:index]
	}
	return strings.TrimPrefix(name, "go-")
}

func (g *Grammar) Assignments(n *sitter.Node, src []byte) []graph.Assignment {
	switch n.Type() {
	case "short_var_declaration":
		return g.pairs(n.ChildByFieldName("left"), n.ChildByFieldName("right"), "", true, false, src)
	case "assignment_statement":
		operator := strings.TrimSpace(graph.Text(n.ChildByFieldName("operator"), src))
		return g.pairs(n.ChildByFieldName("left"), n.ChildByFieldName("right"), "", false, operator != "" && operator != "=", src)
	case "var_declaration", "const_declaration":
		var result []graph.Assignment
		for _, spec := range g.specs(n) {
			var names []*sitter.Node
			for _, child := range graph.NamedChildren(spec) {
				if child.Type() == "identifier" {
					names = append(names, child)
				}
			}
			typeName := graph.Text(spec.ChildByFieldName("type"), src)
			value := spec.ChildByFieldName("value")
			if value == nil {
				for _, name := range names {
					result = append(result, graph.Assignment{Targets: g.targets([]*sitter.Node{name}, src), Type: typeName, Declare: true})
				}
				continue
			}
			result = append(result, g.pairsOf(names, graph.NamedChildren(value), typeName, true, false, src)...)
		}
		return result
	}
	return nil
}

func (g *Grammar) specs(n *sitter.Node) []*sitter.Node {
	var result []*sitter.Node
	for _, child := range graph.NamedChildren(n) {
		switch child.Type() {
		case "var_spec", "const_spec":
			result = append(result, child)
		case "var_spec_list", "const_spec_list":
			result = append(result, g.specs(child)...)
		}
	}
	return result
}

func (g *Grammar) pairs(left, right *sitter.Node, typeName string, declare, opaque bool, src []byte) []graph.Assignment {
	if left == nil || right == nil {
		return nil
	}
	return g.pairsOf(graph.NamedChildren(left), graph.NamedChildren(right), typeName, declare, opaque, src)
}

// pairsOf matches targets with values; for a multi value call the first target takes the call value
func (g *Grammar) pairsOf(lefts, rights []*sitter.Node, typeName string, declare, opaque bool, src []byte) []graph.Assignment {
	if len(lefts) == len(rights) {
		result := make([]graph.Assignment, 0, len(lefts))
		for i := range lefts {
			result = append(result, graph.Assignment{Targets: g.targets(lefts[i:i+1], src), Value: rights[i], Type: typeName, Declare: declare, Opaque: opaque})
		}
		return result
	}
	if len(rights) != 1 {
		return nil
	}
	targets := g.targets(lefts, src)
	for i := range targets {
		if i > 0 {
			targets[i].Index = i
		}
	}
	return []graph.Assignment{{Targets: targets, Value: rights[0], Type: typeName, Declare: declare, Opaque: opaque}}
}

func (g *Grammar) targets(nodes []*sitter.Node, src []byte) []graph.Target {
	var result []graph.Target
	for _, node := range nodes {
		switch node.Type() {
		case "identifier":
			name := graph.Text(node, src)
			if name == "_" {
				continue
			}
			result = append(result, graph.Target{Name: name, Index: -1})
		case "selector_expression":
			var path []string
			current := node
			for current != nil && current.Type() == "selector_expression" {
				path = append([]string{graph.Text(current.ChildByFieldName("field"), src)}, path...)
				current = current.ChildByFieldName("operand")
			}
			if current != nil && current.Type() == "identifier" {
				result = append(result, graph.Target{Name: graph.Text(current, src), Path: path, Index: -1})
			}
		}
	}
	return result
}

func (g *Grammar) Callee(n *sitter.Node) *sitter.Node {
	return n.ChildByFieldName("function")
}

func (g *Grammar) Arguments(n *sitter.Node, src []byte) []graph.Argument {
	var result []graph.Argument
	for _, child := range graph.NamedChildren(n.ChildByFieldName("arguments")) {
		if child.Type() == "comment" {
			continue
		}
		result = append(result, graph.Argument{Value: child})
	}
	return result
}

func (g *Grammar) Member(n *sitter.Node, src []byte) (*sitter.Node, string, bool) {
	if n.Type() != "selector_expression" {
		return nil, "", false
	}
	return n.ChildByFieldName("operand"), graph.Text(n.ChildByFieldName("field"), src), true
}

func (g *Grammar) Fields(n *sitter.Node, src []byte) (string, []graph.Field) {
	typeName := graph.Text(n.ChildByFieldName("type"), src)
	var result []graph.Field
	for _, element := range graph.NamedChildren(n.ChildByFieldName("body")) {
		if element.Type() != "keyed_element" {
			continue
		}
		parts := graph.NamedChildren(element)
		if len(parts) < 2 {
			continue
		}
		key := literalElement(parts[0])
		value := literalElement(parts[len(parts)-1])
		result = append(result, graph.Field{Key: strings.TrimSpace(graph.Text(key, src)), Value: value})
	}
	return typeName, result
}

func literalElement(n *sitter.Node) *sitter.Node {
	if n.Type() == "literal_element" && n.NamedChildCount() > 0 {
		return n.NamedChild(0)
	}
	return n
}

func (g *Grammar) StringValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "interpreted_string_literal", "raw_string_literal":
		text := graph.Text(n, src)
		if value, err := strconv.Unquote(text); err == nil {
			return value, true
		}
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
	}
	return "", false
}

func (g *Grammar) Operands(n *sitter.Node, src []byte) (*sitter.Node, *sitter.Node, string) {
	return n.ChildByFieldName("left"), n.ChildByFieldName("right"), graph.Text(n.ChildByFieldName("operator"), src)
}

func (g *Grammar) Unwrap(n *sitter.Node) *sitter.Node {
	if n.Type() == "unary_expression" {
		return n.ChildByFieldName("operand")
	}
	return n.NamedChild(0)
}

func (g *Grammar) Function(n *sitter.Node, src []byte) *graph.Function {
	fn := &graph.Function{
		Name:   graph.Text(n.ChildByFieldName("name"), src),
		Body:   n.ChildByFieldName("body"),
		Params: g.params(n.ChildByFieldName("parameters"), src),
	}
	if receiver := g.params(n.ChildByFieldName("receiver"), src); len(receiver) > 0 {
		fn.Receiver = &receiver[0]
	}
	if result := n.ChildByFieldName("result"); result != nil {
		if result.Type() == "parameter_list" {
			if decl := graph.ChildOfType(result, "parameter_declaration"); decl != nil {
				fn.Result = graph.Text(decl.ChildByFieldName("type"), src)
			}
		} else {
			fn.Result = graph.Text(result, src)
		}
	}
	return fn
}

func (g *Grammar) params(list *sitter.Node, src []byte) []graph.Param {
	var result []graph.Param
	for _, decl := range graph.NamedChildren(list) {
		switch decl.Type() {
		case "parameter_declaration", "variadic_parameter_declaration":
			typeName := graph.Text(decl.ChildByFieldName("type"), src)
			for _, child := range graph.NamedChildren(decl) {
				if child.Type() == "identifier" {
					result = append(result, graph.Param{Name: graph.Text(child, src), Type: typeName})
				}
			}
		}
	}
	return result
}

func (g *Grammar) Class(n *sitter.Node, src []byte) (string, *sitter.Node) {
	return "", nil
}

func (g *Grammar) Types(n *sitter.Node, src []byte) []graph.TypeSpec {
	var result []graph.TypeSpec
	for _, spec := range graph.NamedChildren(n) {
		if spec.Type() != "type_spec" {
			continue
		}
		typeSpec := graph.TypeSpec{Name: graph.Text(spec.ChildByFieldName("name"), src), Fields: map[string]string{}}
		typeNode := spec.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		switch typeNode.Type() {
		case "interface_type":
			typeSpec.Interface = true
		case "struct_type":
			for _, decl := range graph.NamedChildren(graph.ChildOfType(typeNode, "field_declaration_list")) {
				if decl.Type() != "field_declaration" {
					continue
				}
				typeName := graph.Text(decl.ChildByFieldName("type"), src)
				for _, child := range graph.NamedChildren(decl) {
					if child.Type() == "field_identifier" {
						typeSpec.Fields[graph.Text(child, src)] = typeName
					}
				}
			}
		default:
			continue
		}
		result = append(result, typeSpec)
	}
	return result
}
