package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/iamgen/inspector/graph"
)

// Grammar maps tree-sitter python nodes to graph categories
type Grammar struct{}

// New creates python grammar
func New() *Grammar {
	return &Grammar{}
}

func (g *Grammar) Language() *sitter.Language {
	return python.GetLanguage()
}

func (g *Grammar) Kind(n *sitter.Node) graph.Kind {
	switch n.Type() {
	case "call":
		return graph.KindCall
	case "attribute", "subscript":
		return graph.KindMember
	case "identifier":
		return graph.KindIdentifier
	case "string", "concatenated_string":
		return graph.KindString
	case "integer", "float":
		return graph.KindNumber
	case "dictionary":
		return graph.KindObject
	case "binary_operator":
		return graph.KindBinary
	case "import_statement", "import_from_statement":
		return graph.KindImport
	case "assignment", "augmented_assignment", "as_pattern":
		return graph.KindAssignment
	case "function_definition", "lambda":
		return graph.KindFunction
	case "class_definition":
		return graph.KindClass
	case "with_item":
		if n.ChildByFieldName("alias") != nil {
			return graph.KindAssignment
		}
	case "block":
		return graph.KindBlock
	case "parenthesized_expression", "await":
		return graph.KindWrapper
	}
	return graph.KindOther
}

func (g *Grammar) Imports(n *sitter.Node, src []byte) []graph.Import {
	location := graph.LocationOf(n)
	var result []graph.Import
	switch n.Type() {
	case "import_statement":
		for _, child := range graph.NamedChildren(n) {
			switch child.Type() {
			case "dotted_name":
				module := graph.Text(child, src)
				name := module
				if index := strings.Index(name, "."); index != -1 {
					name = name[:index]
				}
				result = append(result, graph.Import{Name: name, Module: name, Location: location})
			case "aliased_import":
				module := graph.Text(child.ChildByFieldName("name"), src)
				alias := graph.Text(child.ChildByFieldName("alias"), src)
				result = append(result, graph.Import{Name: alias, Module: module, Location: location})
			}
		}
	case "import_from_statement":
		moduleNode := n.ChildByFieldName("module_name")
		if moduleNode == nil {
			return nil
		}
		module := graph.Text(moduleNode, src)
		for _, child := range graph.NamedChildren(n) {
			if child.StartByte() == moduleNode.StartByte() {
				continue
			}
			switch child.Type() {
			case "dotted_name":
				member := graph.Text(child, src)
				result = append(result, graph.Import{Name: member, Module: module, Member: member, Location: location})
			case "aliased_import":
				member := graph.Text(child.ChildByFieldName("name"), src)
				alias := graph.Text(child.ChildByFieldName("alias"), src)
				result = append(result, graph.Import{Name: alias, Module: module, Member: member, Location: location})
			}
		}
	}
	return result
}

func (g *Grammar) Assignments(n *sitter.Node, src []byte) []graph.Assignment {
	if n.Type() == "as_pattern" || n.Type() == "with_item" {
		return g.alias(n, src)
	}
	if n.Type() == "augmented_assignment" {
		return []graph.Assignment{{Targets: g.targets(n.ChildByFieldName("left"), src), Value: n.ChildByFieldName("right"), Opaque: true}}
	}
	var lefts []*sitter.Node
	node := n
	for node != nil && node.Type() == "assignment" {
		lefts = append(lefts, node.ChildByFieldName("left"))
		node = node.ChildByFieldName("right")
	}
	var annotation string
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		annotation = graph.Text(typeNode, src)
	}
	var result []graph.Assignment
	for _, left := range lefts {
		if left == nil {
			continue
		}
		if isSequence(left) && node != nil && isSequence(node) {
			targets := graph.NamedChildren(left)
			values := graph.NamedChildren(node)
			if len(targets) == len(values) {
				for i := range targets {
					result = append(result, graph.Assignment{Targets: g.targets(targets[i], src), Value: values[i]})
				}
				continue
			}
		}
		result = append(result, graph.Assignment{Targets: g.targets(left, src), Value: node, Type: annotation})
	}
	return result
}

// alias binds the target of a with item or except clause
func (g *Grammar) alias(n *sitter.Node, src []byte) []graph.Assignment {
	target := n.ChildByFieldName("alias")
	if target == nil || n.NamedChildCount() == 0 {
		return nil
	}
	if target.Type() != "identifier" {
		target = graph.ChildOfType(target, "identifier")
	}
	if target == nil {
		return nil
	}
	value := n.ChildByFieldName("value")
	if value == nil || value.Type() == "as_pattern" {
		value = n.NamedChild(0)
	}
	return []graph.Assignment{{Targets: g.targets(target, src), Value: value}}
}

func isSequence(n *sitter.Node) bool {
	switch n.Type() {
	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list", "tuple":
		return true
	}
	return false
}

func (g *Grammar) targets(n *sitter.Node, src []byte) []graph.Target {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return []graph.Target{{Name: graph.Text(n, src), Index: -1}}
	case "attribute", "subscript":
		if target, ok := g.memberTarget(n, src); ok {
			return []graph.Target{target}
		}
	case "pattern_list", "tuple_pattern", "list_pattern":
		var result []graph.Target
		for i, child := range graph.NamedChildren(n) {
			if child.Type() == "identifier" {
				result = append(result, graph.Target{Name: graph.Text(child, src), Index: i})
			}
		}
		return result
	}
	return nil
}

func (g *Grammar) memberTarget(n *sitter.Node, src []byte) (graph.Target, bool) {
	var path []string
	node := n
	for node != nil && g.Kind(node) == graph.KindMember {
		object, property, ok := g.Member(node, src)
		if !ok {
			return graph.Target{}, false
		}
		path = append([]string{property}, path...)
		node = object
	}
	if node == nil || node.Type() != "identifier" {
		return graph.Target{}, false
	}
	return graph.Target{Name: graph.Text(node, src), Path: path, Index: -1}, true
}

func (g *Grammar) Callee(n *sitter.Node) *sitter.Node {
	return n.ChildByFieldName("function")
}

func (g *Grammar) Arguments(n *sitter.Node, src []byte) []graph.Argument {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	if args.Type() != "argument_list" {
		return []graph.Argument{{Value: args}}
	}
	var result []graph.Argument
	for _, child := range graph.NamedChildren(args) {
		switch child.Type() {
		case "comment", "list_splat":
		case "keyword_argument":
			result = append(result, graph.Argument{Name: graph.Text(child.ChildByFieldName("name"), src), Value: child.ChildByFieldName("value")})
		case "dictionary_splat":
			result = append(result, graph.Argument{Value: child.NamedChild(0), Spread: true})
		default:
			result = append(result, graph.Argument{Value: child})
		}
	}
	return result
}

func (g *Grammar) Member(n *sitter.Node, src []byte) (*sitter.Node, string, bool) {
	switch n.Type() {
	case "attribute":
		return n.ChildByFieldName("object"), graph.Text(n.ChildByFieldName("attribute"), src), true
	case "subscript":
		key := n.ChildByFieldName("subscript")
		if key == nil || key.Type() != "string" {
			return n.ChildByFieldName("value"), "", false
		}
		value, ok := g.StringValue(key, src)
		return n.ChildByFieldName("value"), value, ok
	}
	return nil, "", false
}

func (g *Grammar) Fields(n *sitter.Node, src []byte) (string, []graph.Field) {
	var result []graph.Field
	for _, child := range graph.NamedChildren(n) {
		switch child.Type() {
		case "pair":
			key, ok := g.StringValue(child.ChildByFieldName("key"), src)
			if !ok {
				continue
			}
			result = append(result, graph.Field{Key: key, Value: child.ChildByFieldName("value")})
		case "dictionary_splat":
			result = append(result, graph.Field{Value: child.NamedChild(0), Spread: true})
		}
	}
	return "", result
}

func (g *Grammar) StringValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "concatenated_string":
		builder := strings.Builder{}
		for _, child := range graph.NamedChildren(n) {
			value, ok := g.StringValue(child, src)
			if !ok {
				return "", false
			}
			builder.WriteString(value)
		}
		return builder.String(), true
	case "string":
		if graph.ChildOfType(n, "interpolation") != nil {
			return "", false
		}
		return unquote(graph.Text(n, src))
	}
	return "", false
}

func unquote(text string) (string, bool) {
	text = strings.TrimLeft(text, "rRbBuUfF")
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(text) >= 2*len(quote) && strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) {
			return text[len(quote) : len(text)-len(quote)], true
		}
	}
	return "", false
}

func (g *Grammar) Operands(n *sitter.Node, src []byte) (*sitter.Node, *sitter.Node, string) {
	return n.ChildByFieldName("left"), n.ChildByFieldName("right"), graph.Text(n.ChildByFieldName("operator"), src)
}

func (g *Grammar) Unwrap(n *sitter.Node) *sitter.Node {
	return n.NamedChild(0)
}

func (g *Grammar) Function(n *sitter.Node, src []byte) *graph.Function {
	fn := &graph.Function{
		Name:   graph.Text(n.ChildByFieldName("name"), src),
		Body:   n.ChildByFieldName("body"),
		Result: graph.Text(n.ChildByFieldName("return_type"), src),
	}
	for _, param := range graph.NamedChildren(n.ChildByFieldName("parameters")) {
		switch param.Type() {
		case "identifier":
			fn.Params = append(fn.Params, graph.Param{Name: graph.Text(param, src)})
		case "typed_parameter":
			name := graph.ChildOfType(param, "identifier")
			if name == nil {
				continue
			}
			fn.Params = append(fn.Params, graph.Param{Name: graph.Text(name, src), Type: graph.Text(param.ChildByFieldName("type"), src)})
		case "default_parameter", "typed_default_parameter":
			fn.Params = append(fn.Params, graph.Param{Name: graph.Text(param.ChildByFieldName("name"), src), Type: graph.Text(param.ChildByFieldName("type"), src)})
		}
	}
	return fn
}

func (g *Grammar) Class(n *sitter.Node, src []byte) (string, *sitter.Node) {
	return graph.Text(n.ChildByFieldName("name"), src), n.ChildByFieldName("body")
}

func (g *Grammar) Types(n *sitter.Node, src []byte) []graph.TypeSpec {
	return nil
}
