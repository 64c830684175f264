package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/inspector/graph"
)

// invocation represents evaluated call or constructor expression
type invocation struct {
	node     *sitter.Node
	isNew    bool
	name     string          // callee identifier or method name
	method   string          // method name for member callee
	receiver *symbol.Binding // member callee object
	target   *symbol.Binding // identifier callee binding
	args     []graph.Argument
	values   []*symbol.Binding
}

// reference returns import referenced by the callee, or nil
func (i *invocation) reference() *symbol.Binding {
	if i.receiver != nil {
		if i.method == "" || i.receiver.Terminal().Kind != symbol.Import {
			return nil
		}
		return i.receiver.Attribute(i.method)
	}
	if i.target != nil && i.target.Terminal().Kind == symbol.Import {
		return i.target.Terminal()
	}
	return nil
}

// value returns positional argument value
func (i *invocation) value(index int) *symbol.Binding {
	position := 0
	for k, arg := range i.args {
		if arg.Name != "" || arg.Spread {
			continue
		}
		if position == index {
			return i.values[k]
		}
		position++
	}
	return symbol.NewUnknown()
}

// keyword returns keyword argument value
func (i *invocation) keyword(name string) (*symbol.Binding, bool) {
	for k, arg := range i.args {
		if arg.Name == name {
			return i.values[k], true
		}
	}
	return nil, false
}

// literal returns positional string literal argument
func (i *invocation) literal(index int) (string, bool) {
	terminal := i.value(index).Terminal()
	if terminal.Kind != symbol.Literal || terminal.Numeric {
		return "", false
	}
	return terminal.Value, true
}

// eval returns binding of expression node, walking nested constructs as a side effect
func (w *walker) eval(n *sitter.Node) *symbol.Binding {
	if n == nil {
		return symbol.NewUnknown()
	}
	switch w.grammar.Kind(n) {
	case graph.KindIdentifier:
		return w.identifier(n)
	case graph.KindString:
		if value, ok := w.grammar.StringValue(n, w.src); ok {
			return symbol.NewLiteral(value)
		}
		w.children(n)
		return symbol.NewUnknown()
	case graph.KindNumber:
		return symbol.NewNumber(graph.Text(n, w.src))
	case graph.KindBinary:
		return w.binary(n)
	case graph.KindWrapper:
		return w.eval(w.grammar.Unwrap(n))
	case graph.KindMember:
		return w.member(n)
	case graph.KindObject:
		return w.object(n)
	case graph.KindCall, graph.KindNew:
		return w.call(n)
	case graph.KindFunction:
		return w.function(n)
	case graph.KindAssignment:
		return w.assign(n)
	case graph.KindClass:
		return w.class(n)
	}
	w.walk(n)
	return symbol.NewUnknown()
}

func (w *walker) identifier(n *sitter.Node) *symbol.Binding {
	name := graph.Text(n, w.src)
	if self := w.conv.self(); self != "" && name == self {
		if class := w.scope.Class(); class != nil {
			return symbol.NewLocal(class.Name)
		}
	}
	if binding, ok := w.scope.Lookup(name); ok {
		return binding
	}
	return symbol.NewUnknown()
}

func (w *walker) binary(n *sitter.Node) *symbol.Binding {
	left, right, operator := w.grammar.Operands(n, w.src)
	leftValue, rightValue := w.eval(left).Terminal(), w.eval(right).Terminal()
	if operator != "+" || leftValue.Kind != symbol.Literal || rightValue.Kind != symbol.Literal {
		return symbol.NewUnknown()
	}
	if leftValue.Numeric || rightValue.Numeric {
		return symbol.NewUnknown()
	}
	return symbol.NewLiteral(leftValue.Value + rightValue.Value)
}

func (w *walker) member(n *sitter.Node) *symbol.Binding {
	object, property, ok := w.grammar.Member(n, w.src)
	base := w.eval(object)
	if !ok {
		return symbol.NewUnknown()
	}
	terminal := base.Terminal()
	switch {
	case terminal.Kind == symbol.Local:
		if member, ok := w.memberOf(terminal, property); ok {
			return member
		}
		return symbol.NewUnknown()
	case terminal.Kind == symbol.Client && terminal.Variant == symbol.VariantResource:
		return w.resourceMember(terminal, property)
	}
	return base.Attribute(property)
}

func (w *walker) object(n *sitter.Node) *symbol.Binding {
	typeName, fields := w.grammar.Fields(n, w.src)
	values := map[string]*symbol.Binding{}
	for _, field := range fields {
		value := w.eval(field.Value)
		if field.Spread {
			for key, item := range fieldsOf(value) {
				values[key] = item
			}
			continue
		}
		if field.Key != "" {
			values[field.Key] = value
		}
	}
	if typeName == "" {
		return symbol.NewRecord(values)
	}
	typed := w.conv.typed(w, typeName).Terminal()
	switch typed.Kind {
	case symbol.Command:
		command := *typed
		command.Fields = values
		return &command
	case symbol.Local, symbol.Client:
		return typed
	}
	return symbol.NewRecord(values)
}

func (w *walker) call(n *sitter.Node) *symbol.Binding {
	inv := &invocation{node: n, isNew: w.grammar.Kind(n) == graph.KindNew}
	callee := w.grammar.Callee(n)
	for callee != nil && w.grammar.Kind(callee) == graph.KindWrapper {
		callee = w.grammar.Unwrap(callee)
	}
	if callee != nil {
		switch w.grammar.Kind(callee) {
		case graph.KindMember:
			object, property, ok := w.grammar.Member(callee, w.src)
			inv.receiver = w.eval(object)
			if ok {
				inv.method = property
				inv.name = property
			}
		case graph.KindIdentifier:
			inv.name = graph.Text(callee, w.src)
			inv.target = w.identifier(callee)
		default:
			inv.target = w.eval(callee)
		}
	}
	inv.args = w.grammar.Arguments(n, w.src)
	inv.values = make([]*symbol.Binding, len(inv.args))
	for i, arg := range inv.args {
		inv.values[i] = w.eval(arg.Value)
	}
	return w.dispatch(inv)
}
