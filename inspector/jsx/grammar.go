package jsx

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/viant/iamgen/inspector/graph"
)

// Grammar maps tree-sitter javascript and typescript nodes to graph categories
type Grammar struct {
	language *sitter.Language
}

// JavaScript creates javascript (and jsx) grammar
func JavaScript() *Grammar {
	return &Grammar{language: javascript.GetLanguage()}
}

// TypeScript creates typescript grammar
func TypeScript() *Grammar {
	return &Grammar{language: typescript.GetLanguage()}
}

// TSX creates typescript jsx grammar
func TSX() *Grammar {
	return &Grammar{language: tsx.GetLanguage()}
}

func (g *Grammar) Language() *sitter.Language {
	return g.language
}

func (g *Grammar) Kind(n *sitter.Node) graph.Kind {
	switch n.Type() {
	case "call_expression":
		return graph.KindCall
	case "new_expression":
		return graph.KindNew
	case "member_expression", "subscript_expression":
		return graph.KindMember
	case "identifier", "this", "shorthand_property_identifier":
		return graph.KindIdentifier
	case "string", "template_string":
		return graph.KindString
	case "number":
		return graph.KindNumber
	case "object":
		return graph.KindObject
	case "binary_expression":
		return graph.KindBinary
	case "import_statement":
		return graph.KindImport
	case "lexical_declaration", "variable_declaration", "assignment_expression",
		"augmented_assignment_expression", "field_definition", "public_field_definition":
		return graph.KindAssignment
	case "function_declaration", "function_expression", "function", "arrow_function",
		"method_definition", "generator_function_declaration", "generator_function":
		return graph.KindFunction
	case "class_declaration", "class":
		return graph.KindClass
	case "statement_block":
		return graph.KindBlock
	case "parenthesized_expression", "await_expression", "as_expression",
		"non_null_expression", "satisfies_expression", "type_assertion":
		return graph.KindWrapper
	}
	return graph.KindOther
}

func (g *Grammar) Imports(n *sitter.Node, src []byte) []graph.Import {
	source, ok := g.StringValue(n.ChildByFieldName("source"), src)
	if !ok {
		return nil
	}
	location := graph.LocationOf(n)
	clause := graph.ChildOfType(n, "import_clause")
	if clause == nil {
		return nil
	}
	var result []graph.Import
	for _, child := range graph.NamedChildren(clause) {
		switch child.Type() {
		case "identifier":
			result = append(result, graph.Import{Name: graph.Text(child, src), Module: source, Member: "default", Location: location})
		case "namespace_import":
			if name := graph.ChildOfType(child, "identifier"); name != nil {
				result = append(result, graph.Import{Name: graph.Text(name, src), Module: source, Location: location})
			}
		case "named_imports":
			for _, specifier := range graph.NamedChildren(child) {
				if specifier.Type() != "import_specifier" {
					continue
				}
				member := g.name(specifier.ChildByFieldName("name"), src)
				local := member
				if alias := specifier.ChildByFieldName("alias"); alias != nil {
					local = g.name(alias, src)
				}
				result = append(result, graph.Import{Name: local, Module: source, Member: member, Location: location})
			}
		}
	}
	return result
}

func (g *Grammar) name(n *sitter.Node, src []byte) string {
	if n != nil && n.Type() == "string" {
		value, _ := g.StringValue(n, src)
		return value
	}
	return graph.Text(n, src)
}

func (g *Grammar) Assignments(n *sitter.Node, src []byte) []graph.Assignment {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		var result []graph.Assignment
		for _, declarator := range graph.NamedChildren(n) {
			if declarator.Type() != "variable_declarator" {
				continue
			}
			assignment := graph.Assignment{
				Targets: g.targets(declarator.ChildByFieldName("name"), src),
				Value:   declarator.ChildByFieldName("value"),
				Declare: true,
			}
			if typeNode := declarator.ChildByFieldName("type"); typeNode != nil {
				assignment.Type = typeAnnotation(graph.Text(typeNode, src))
			}
			result = append(result, assignment)
		}
		return result
	case "assignment_expression":
		return []graph.Assignment{{Targets: g.targets(n.ChildByFieldName("left"), src), Value: n.ChildByFieldName("right")}}
	case "augmented_assignment_expression":
		return []graph.Assignment{{Targets: g.targets(n.ChildByFieldName("left"), src), Value: n.ChildByFieldName("right"), Opaque: true}}
	case "field_definition", "public_field_definition":
		property := n.ChildByFieldName("property")
		if property == nil {
			property = n.ChildByFieldName("name")
		}
		if property == nil {
			return nil
		}
		return []graph.Assignment{{
			Targets: []graph.Target{{Name: "this", Path: []string{graph.Text(property, src)}, Index: -1}},
			Value:   n.ChildByFieldName("value"),
			Type:    typeAnnotation(graph.Text(n.ChildByFieldName("type"), src)),
		}}
	}
	return nil
}

func typeAnnotation(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), ":"))
}

func (g *Grammar) targets(n *sitter.Node, src []byte) []graph.Target {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return []graph.Target{{Name: graph.Text(n, src), Index: -1}}
	case "parenthesized_expression":
		return g.targets(n.NamedChild(0), src)
	case "member_expression", "subscript_expression":
		var path []string
		node := n
		for node != nil && g.Kind(node) == graph.KindMember {
			object, property, ok := g.Member(node, src)
			if !ok {
				return nil
			}
			path = append([]string{property}, path...)
			node = object
		}
		if node == nil || (node.Type() != "identifier" && node.Type() != "this") {
			return nil
		}
		return []graph.Target{{Name: graph.Text(node, src), Path: path, Index: -1}}
	case "object_pattern":
		var result []graph.Target
		for _, child := range graph.NamedChildren(n) {
			switch child.Type() {
			case "shorthand_property_identifier_pattern":
				name := graph.Text(child, src)
				result = append(result, graph.Target{Name: name, Key: name, Index: -1})
			case "object_assignment_pattern":
				left := child.ChildByFieldName("left")
				if left != nil && left.Type() == "shorthand_property_identifier_pattern" {
					name := graph.Text(left, src)
					result = append(result, graph.Target{Name: name, Key: name, Index: -1})
				}
			case "pair_pattern":
				key := g.name(child.ChildByFieldName("key"), src)
				value := child.ChildByFieldName("value")
				if value != nil && value.Type() == "assignment_pattern" {
					value = value.ChildByFieldName("left")
				}
				if value != nil && value.Type() == "identifier" {
					result = append(result, graph.Target{Name: graph.Text(value, src), Key: key, Index: -1})
				}
			}
		}
		return result
	case "array_pattern":
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

func (g *Grammar) Callee(n *sitter.Node) *sitter.Node {
	if n.Type() == "new_expression" {
		return n.ChildByFieldName("constructor")
	}
	return n.ChildByFieldName("function")
}

func (g *Grammar) Arguments(n *sitter.Node, src []byte) []graph.Argument {
	args := n.ChildByFieldName("arguments")
	if args == nil || args.Type() != "arguments" {
		return nil
	}
	var result []graph.Argument
	for _, child := range graph.NamedChildren(args) {
		switch child.Type() {
		case "comment":
		case "spread_element":
			result = append(result, graph.Argument{Value: child.NamedChild(0), Spread: true})
		default:
			result = append(result, graph.Argument{Value: child})
		}
	}
	return result
}

func (g *Grammar) Member(n *sitter.Node, src []byte) (*sitter.Node, string, bool) {
	switch n.Type() {
	case "member_expression":
		return n.ChildByFieldName("object"), graph.Text(n.ChildByFieldName("property"), src), true
	case "subscript_expression":
		value, ok := g.StringValue(n.ChildByFieldName("index"), src)
		return n.ChildByFieldName("object"), value, ok
	}
	return nil, "", false
}

func (g *Grammar) Fields(n *sitter.Node, src []byte) (string, []graph.Field) {
	var result []graph.Field
	for _, child := range graph.NamedChildren(n) {
		switch child.Type() {
		case "pair":
			keyNode := child.ChildByFieldName("key")
			if keyNode == nil || keyNode.Type() == "computed_property_name" {
				continue
			}
			result = append(result, graph.Field{Key: g.name(keyNode, src), Value: child.ChildByFieldName("value")})
		case "shorthand_property_identifier":
			result = append(result, graph.Field{Key: graph.Text(child, src), Value: child})
		case "spread_element":
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
	case "string":
		text := graph.Text(n, src)
		if len(text) < 2 {
			return "", false
		}
		return text[1 : len(text)-1], true
	case "template_string":
		if graph.ChildOfType(n, "template_substitution") != nil {
			return "", false
		}
		text := graph.Text(n, src)
		if len(text) < 2 {
			return "", false
		}
		return text[1 : len(text)-1], true
	}
	return "", false
}

func (g *Grammar) Operands(n *sitter.Node, src []byte) (*sitter.Node, *sitter.Node, string) {
	return n.ChildByFieldName("left"), n.ChildByFieldName("right"), graph.Text(n.ChildByFieldName("operator"), src)
}

func (g *Grammar) Unwrap(n *sitter.Node) *sitter.Node {
	if n.Type() == "type_assertion" {
		count := int(n.NamedChildCount())
		if count == 0 {
			return nil
		}
		return n.NamedChild(count - 1)
	}
	return n.NamedChild(0)
}

func (g *Grammar) Function(n *sitter.Node, src []byte) *graph.Function {
	fn := &graph.Function{
		Name:   graph.Text(n.ChildByFieldName("name"), src),
		Body:   n.ChildByFieldName("body"),
		Result: typeAnnotation(graph.Text(n.ChildByFieldName("return_type"), src)),
	}
	if param := n.ChildByFieldName("parameter"); param != nil {
		fn.Params = append(fn.Params, graph.Param{Name: graph.Text(param, src)})
		return fn
	}
	for _, param := range graph.NamedChildren(n.ChildByFieldName("parameters")) {
		switch param.Type() {
		case "identifier":
			fn.Params = append(fn.Params, graph.Param{Name: graph.Text(param, src)})
		case "assignment_pattern":
			if left := param.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				fn.Params = append(fn.Params, graph.Param{Name: graph.Text(left, src)})
			}
		case "required_parameter", "optional_parameter":
			pattern := param.ChildByFieldName("pattern")
			if pattern == nil || pattern.Type() != "identifier" {
				continue
			}
			fn.Params = append(fn.Params, graph.Param{
				Name: graph.Text(pattern, src),
				Type: typeAnnotation(graph.Text(param.ChildByFieldName("type"), src)),
			})
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
