package analyzer

import (
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/catalog"
	"github.com/viant/iamgen/inspector/graph"
)

// dispatch classifies an invocation, emitting call sites and returning the call result binding
func (w *walker) dispatch(inv *invocation) *symbol.Binding {
	if binding, ok := w.conv.construct(w, inv); ok {
		return binding
	}
	if inv.receiver != nil {
		if inv.method == "" {
			return symbol.NewUnknown()
		}
		return w.method(inv)
	}
	if inv.target == nil {
		return symbol.NewUnknown()
	}
	target := inv.target.Terminal()
	if target.Kind != symbol.Local {
		return symbol.NewUnknown()
	}
	switch target.Variant {
	case symbol.VariantFunction:
		if target.Returns != nil {
			return target.Returns
		}
	case symbol.VariantClass:
		return symbol.NewLocal(target.Type)
	}
	return symbol.NewUnknown()
}

func (w *walker) method(inv *invocation) *symbol.Binding {
	receiver := inv.receiver.Terminal()
	switch receiver.Kind {
	case symbol.Command:
		w.drive(receiver, inv)
		return symbol.NewUnknown()
	case symbol.Local:
		if member, ok := w.memberOf(receiver, inv.method); ok {
			if returns := member.Terminal().Returns; returns != nil {
				return returns
			}
		}
		return symbol.NewUnknown()
	case symbol.Client:
	case symbol.Unknown:
		if !w.sdkImported {
			return symbol.NewUnknown()
		}
	case symbol.Import:
		if receiver.Member == "" || !w.conv.candidate(w, receiver.Module) {
			return symbol.NewUnknown()
		}
	default:
		return symbol.NewUnknown()
	}
	if binding, ok := w.conv.invoke(w, inv); ok {
		return binding
	}
	service := clientService(inv.receiver)
	if w.expand(inv, service) {
		return symbol.NewUnknown()
	}
	token := w.conv.token(w, inv.method)
	operation := w.operation(service, token)
	if !w.isOperation(service, token) {
		if service == "" || !w.conv.operational(w, inv) {
			return symbol.NewUnknown()
		}
		operation = pascal(token)
	}
	w.emit(inv.node, call.ShapeDirect, operation, inv.receiver, w.input(inv), w.arguments(inv, nil))
	return symbol.NewUnknown()
}

func (w *walker) isOperation(service, token string) bool {
	if service != "" {
		if _, ok := w.catalog.Operation(service, token); ok {
			return true
		}
	}
	return w.catalog.IsOperation(token)
}

// expand emits one synthetic site per operation a composite helper performs
func (w *walker) expand(inv *invocation, service string) bool {
	var hints []string
	if service == "" {
		services := w.catalog.CompositeServices(inv.method)
		if len(services) != 1 {
			return false
		}
		if !w.file.Imported(services[0]) && !w.conv.helpers() {
			return false
		}
		service = services[0]
		hints = []string{service}
	}
	composite, ok := w.catalog.Composite(service, inv.method)
	if !ok {
		return false
	}
	args := w.arguments(inv, composite.Positional)
	w.composite(inv.node, composite, inv.receiver, args, hints)
	return true
}

func (w *walker) composite(node *sitter.Node, composite *catalog.Composite, client *symbol.Binding, args call.Arguments, hints []string) {
	for _, operation := range composite.Operations {
		site := w.emit(node, call.ShapeComposite, operation, client, nil, args.Clone())
		site.Synthetic = true
		site.Hints = hints
	}
}

// input returns first operation input passed to the invocation
func (w *walker) input(inv *invocation) *symbol.Binding {
	for _, value := range inv.values {
		terminal := value.Terminal()
		if terminal.Kind == symbol.Command && terminal.Variant == symbol.VariantInput {
			return terminal
		}
	}
	return nil
}

// arguments maps invocation arguments to parameter names; positional names apply in order, record arguments contribute their fields
func (w *walker) arguments(inv *invocation, positional []string) call.Arguments {
	result := call.Arguments{}
	var merged []call.Arguments
	position := 0
	for i, arg := range inv.args {
		value := inv.values[i]
		switch {
		case arg.Spread:
			merged = append(merged, argumentsOf(fieldsOf(value)))
		case arg.Name != "":
			result[arg.Name] = valueOf(value)
		default:
			if position < len(positional) {
				result[positional[position]] = valueOf(value)
			} else {
				merged = append(merged, argumentsOf(fieldsOf(value)))
			}
			position++
		}
	}
	for _, args := range merged {
		result.Merge(args)
	}
	return result
}

// drive marks pending paginator or waiter as driven and records its runtime arguments
func (w *walker) drive(command *symbol.Binding, inv *invocation) {
	site, ok := w.pending[command]
	if !ok || !w.conv.drives(command.Variant, inv.method) {
		return
	}
	site.Driven = true
	site.Args.Merge(w.arguments(inv, nil))
}

func (w *walker) emit(node *sitter.Node, shape call.Shape, token string, client, command *symbol.Binding, args call.Arguments) *call.Site {
	if args == nil {
		args = call.Arguments{}
	}
	site := &call.Site{
		File:     w.file.Path,
		Location: graph.LocationOf(node),
		Language: w.file.Language,
		Shape:    shape,
		Token:    token,
		Command:  command,
		Args:     args,
		Scope:    w.scope.Function().ID,
	}
	if client != nil {
		if _, err := client.Resolve(); errors.Is(err, symbol.ErrAliasCycle) {
			w.diagnose(node, call.AliasCycle, "client binding of "+token+" loops")
			client = symbol.NewUnknown()
		}
		site.Client = client
		if !client.IsUnknown() {
			site.Receiver = client.String()
		}
		if service := site.ClientService(); service != "" {
			w.file.addClient(site.Scope, service)
		}
	}
	w.file.Sites = append(w.file.Sites, site)
	return site
}

// paginator creates pending paginator of operation and its synthetic site
func (w *walker) paginator(node *sitter.Node, service, token string, client, input *symbol.Binding, driven bool) *symbol.Binding {
	if service == "" {
		service = clientService(client)
	}
	operation := w.operation(service, token)
	binding := symbol.NewCommand(service, operation, symbol.VariantPaginator)
	binding.Client = client
	binding.Fields = fieldsOf(input)
	site := w.emit(node, call.ShapePaginator, operation, client, binding, argumentsOf(binding.Fields))
	site.Synthetic = true
	site.Driven = driven
	w.pending[binding] = site
	return binding
}

// waiter creates pending waiter and its synthetic site
func (w *walker) waiter(node *sitter.Node, service, name string, client, input *symbol.Binding, driven bool) *symbol.Binding {
	if service == "" {
		service = clientService(client)
	}
	binding := symbol.NewCommand(service, name, symbol.VariantWaiter)
	binding.Client = client
	binding.Fields = fieldsOf(input)
	site := w.emit(node, call.ShapeWaiter, name, client, binding, argumentsOf(binding.Fields))
	site.Synthetic = true
	site.Driven = driven
	w.pending[binding] = site
	return binding
}
