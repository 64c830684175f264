package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/analyzer/symbol"
)

const (
	scriptSDKRoot      = "aws-sdk"
	scriptSDKScope     = "@aws-sdk/"
	scriptClientPrefix = "@aws-sdk/client-"
	scriptV2Clients    = "aws-sdk/clients/"
	scriptDocument     = "@aws-sdk/lib-dynamodb"
	scriptStorage      = "@aws-sdk/lib-storage"
)

// scriptConvention recognizes AWS SDK v2 and v3 usage in JavaScript and TypeScript
type scriptConvention struct{}

func (c *scriptConvention) sdk(module string) (string, bool) {
	switch {
	case strings.HasPrefix(module, scriptClientPrefix):
		return strings.TrimPrefix(module, scriptClientPrefix), true
	case module == scriptDocument:
		return "dynamodb", true
	case module == scriptStorage:
		return "s3", true
	case strings.HasPrefix(module, scriptSDKScope), module == scriptSDKRoot:
		return "", true
	case strings.HasPrefix(module, scriptV2Clients):
		return strings.TrimPrefix(module, scriptV2Clients), true
	}
	return "", false
}

// jsMember strips default export prefix
func jsMember(member string) string {
	if member == "default" {
		return ""
	}
	return strings.TrimPrefix(member, "default.")
}

func (c *scriptConvention) self() string {
	return "this"
}

func (c *scriptConvention) constructor(name string) bool {
	return name == "constructor"
}

func (c *scriptConvention) token(w *walker, method string) string {
	return method
}

func (c *scriptConvention) construct(w *walker, inv *invocation) (*symbol.Binding, bool) {
	if inv.name == "require" && inv.receiver == nil && inv.target.IsUnknown() {
		module, ok := inv.literal(0)
		if !ok {
			return nil, false
		}
		if service, ok := c.sdk(module); ok {
			w.sdkImported = true
			w.file.addService(w.service(service))
		}
		return symbol.NewImport(module, ""), true
	}
	reference := inv.reference()
	if reference == nil {
		return nil, false
	}
	member := jsMember(reference.Member)
	service, ok := c.sdk(reference.Module)
	if !ok {
		return c.reexport(w, inv, reference.Module, lastSegment(member))
	}
	if reference.Module == scriptSDKRoot {
		if !inv.isNew {
			return nil, false
		}
		if strings.HasSuffix(member, ".DocumentClient") {
			return w.client("dynamodb", symbol.VariantDocument, reference.Module), true
		}
		if canonical, ok := w.catalog.Service(member); ok {
			return w.client(canonical, "", reference.Module), true
		}
		return nil, false
	}
	service = w.service(service)
	last := lastSegment(member)
	switch {
	case last == "from" && strings.HasPrefix(member, "DynamoDBDocument"):
		return w.client("dynamodb", symbol.VariantDocument, reference.Module), true
	case inv.isNew && len(last) > len("Command") && strings.HasSuffix(last, "Command"):
		token := strings.TrimSuffix(last, "Command")
		command := symbol.NewCommand(service, w.operation(service, token), symbol.VariantCommand)
		command.Fields = fieldsOf(inv.value(0))
		command.Origin = reference.Module
		return command, true
	case inv.isNew && reference.Module == scriptStorage && last == "Upload":
		c.upload(w, inv)
		return symbol.NewLocal(last), true
	case inv.isNew && (last == "" || strings.HasSuffix(last, "Client") || c.known(w, last)):
		variant := ""
		if reference.Module == scriptDocument || strings.HasPrefix(last, "DynamoDBDocument") {
			variant = symbol.VariantDocument
		}
		return w.client(service, variant, reference.Module), true
	case inv.isNew:
		return symbol.NewLocal(last), true
	case len(last) > len("paginate") && strings.HasPrefix(last, "paginate"):
		token := strings.TrimPrefix(last, "paginate")
		return w.paginator(inv.node, service, token, inv.value(0).Attribute("client"), inv.value(1), false), true
	case len(last) > len("waitUntil") && strings.HasPrefix(last, "waitUntil"):
		name := strings.TrimPrefix(last, "waitUntil")
		return w.waiter(inv.node, service, name, inv.value(0).Attribute("client"), inv.value(1), true), true
	}
	return nil, false
}

func (c *scriptConvention) known(w *walker, name string) bool {
	_, ok := w.catalog.Service(name)
	return ok
}

// reexport recognizes commands, paginators and waiters imported through a local module
func (c *scriptConvention) reexport(w *walker, inv *invocation, module, name string) (*symbol.Binding, bool) {
	switch {
	case inv.isNew && strings.HasSuffix(name, "Command"):
		token := strings.TrimSuffix(name, "Command")
		if !w.catalog.IsOperation(token) {
			return nil, false
		}
		command := symbol.NewCommand("", token, symbol.VariantCommand)
		command.Fields = fieldsOf(inv.value(0))
		command.Origin = module
		return command, true
	case !inv.isNew && strings.HasPrefix(name, "paginate"):
		token := strings.TrimPrefix(name, "paginate")
		if !w.catalog.IsOperation(token) {
			return nil, false
		}
		return w.paginator(inv.node, "", token, inv.value(0).Attribute("client"), inv.value(1), false), true
	case !inv.isNew && strings.HasPrefix(name, "waitUntil"):
		waiter := strings.TrimPrefix(name, "waitUntil")
		if len(w.catalog.WaiterServices(waiter)) == 0 {
			return nil, false
		}
		return w.waiter(inv.node, "", waiter, inv.value(0).Attribute("client"), inv.value(1), true), true
	}
	return nil, false
}

// upload expands managed upload into its composite operations
func (c *scriptConvention) upload(w *walker, inv *invocation) {
	options := inv.value(0)
	composite, ok := w.catalog.Composite("s3", "Upload")
	if !ok {
		return
	}
	client := options.Attribute("client")
	var hints []string
	if clientService(client) == "" {
		hints = []string{"s3"}
	}
	w.composite(inv.node, composite, client, argumentsOf(fieldsOf(options.Attribute("params"))), hints)
}

// invoke recognizes generic send dispatch of a command object
func (c *scriptConvention) invoke(w *walker, inv *invocation) (*symbol.Binding, bool) {
	if inv.method != "send" {
		return nil, false
	}
	command := inv.value(0).Terminal()
	if command.Kind != symbol.Command || command.Variant != symbol.VariantCommand {
		return nil, false
	}
	w.emit(inv.node, call.ShapeCommand, command.Operation, inv.receiver, command, argumentsOf(command.Fields))
	return symbol.NewUnknown(), true
}

func (c *scriptConvention) drives(variant, method string) bool {
	return variant == symbol.VariantPaginator && method == "next"
}

func (c *scriptConvention) typed(w *walker, typeName string) *symbol.Binding {
	name := cleanType(typeName)
	if name == "" {
		return symbol.NewUnknown()
	}
	binding, ok := w.resolveType(name)
	if !ok {
		return symbol.NewUnknown()
	}
	terminal := binding.Terminal()
	switch terminal.Kind {
	case symbol.Local:
		if terminal.Variant == symbol.VariantClass {
			return symbol.NewLocal(terminal.Type)
		}
	case symbol.Import:
		service, ok := c.sdk(terminal.Module)
		if !ok {
			return symbol.NewUnknown()
		}
		member := jsMember(terminal.Member)
		last := lastSegment(member)
		switch {
		case strings.HasSuffix(last, "CommandInput"):
			service = w.service(service)
			token := strings.TrimSuffix(last, "CommandInput")
			return symbol.NewCommand(service, w.operation(service, token), symbol.VariantInput)
		case strings.HasPrefix(last, "DynamoDBDocument") || last == "DocumentClient":
			return w.client("dynamodb", symbol.VariantDocument, terminal.Module)
		case terminal.Module == scriptSDKRoot:
			if canonical, ok := w.catalog.Service(member); ok {
				return w.client(canonical, "", terminal.Module)
			}
		case last == "" || strings.HasSuffix(last, "Client"):
			return w.client(w.service(service), "", terminal.Module)
		}
	}
	return symbol.NewUnknown()
}

func (c *scriptConvention) loop(n *sitter.Node) *sitter.Node {
	if n.Type() != "for_in_statement" {
		return nil
	}
	return n.ChildByFieldName("right")
}

func (c *scriptConvention) candidate(w *walker, module string) bool {
	_, ok := c.sdk(module)
	return !ok
}

func (c *scriptConvention) helpers() bool {
	return false
}

var scriptClientPlumbing = map[string]bool{"send": true, "destroy": true, "middlewareStack": true, "config": true}

// operational recognizes v2 style methods taking a params object
func (c *scriptConvention) operational(w *walker, inv *invocation) bool {
	if scriptClientPlumbing[inv.method] {
		return false
	}
	return inv.value(0).Terminal().Kind == symbol.Record
}
