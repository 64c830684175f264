package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/symbol"
)

const goSDKPrefix = "github.com/aws/aws-sdk-go"

var goServicePath = regexp.MustCompile(`^github\.com/aws/aws-sdk-go(?:-v2)?/(?:service|feature)/([a-z0-9]+)`)

// goPredeclared lists builtin type names that never hold a client
var goPredeclared = map[string]bool{
	"string": true, "bool": true, "byte": true, "rune": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// goValueHelpers lists aws package helpers returning their argument
var goValueHelpers = map[string]bool{
	"String": true, "Int": true, "Int32": true, "Int64": true, "Bool": true,
	"Float32": true, "Float64": true, "Time": true, "StringValue": true,
}

// golangConvention recognizes aws-sdk-go and aws-sdk-go-v2 usage
type golangConvention struct{}

func (c *golangConvention) sdk(module string) (string, bool) {
	if !strings.HasPrefix(module, goSDKPrefix) {
		return "", false
	}
	if match := goServicePath.FindStringSubmatch(module); len(match) == 2 {
		return match[1], true
	}
	return "", true
}

func (c *golangConvention) self() string {
	return ""
}

func (c *golangConvention) constructor(name string) bool {
	return false
}

func (c *golangConvention) token(w *walker, method string) string {
	method = strings.TrimSuffix(method, "WithContext")
	if trimmed := strings.TrimSuffix(method, "Request"); trimmed != method && w.catalog.IsOperation(trimmed) {
		return trimmed
	}
	return method
}

func (c *golangConvention) construct(w *walker, inv *invocation) (*symbol.Binding, bool) {
	if inv.receiver == nil || inv.method == "" {
		return nil, false
	}
	receiver := inv.receiver.Terminal()
	if receiver.Kind != symbol.Import || receiver.Member != "" {
		return nil, false
	}
	service, ok := c.sdk(receiver.Module)
	if !ok {
		return nil, false
	}
	name := inv.method
	if service == "" {
		if goValueHelpers[name] {
			return inv.value(0), true
		}
		return nil, false
	}
	service = w.service(service)
	switch {
	case isTransferModule(receiver.Module) && (strings.HasPrefix(name, "NewUploader") || strings.HasPrefix(name, "NewDownloader")):
		return w.client(service, symbol.VariantTransfer, receiver.Module), true
	case strings.Contains(receiver.Module, "/feature/"):
		return nil, false
	case name == "NewFromConfig" || name == "New":
		return w.client(service, "", receiver.Module), true
	case len(name) > len("NewPaginator") && strings.HasPrefix(name, "New") && strings.HasSuffix(name, "Paginator"):
		token := strings.TrimSuffix(strings.TrimPrefix(name, "New"), "Paginator")
		return w.paginator(inv.node, service, token, inv.value(0), inv.value(1), false), true
	case len(name) > len("NewWaiter") && strings.HasPrefix(name, "New") && strings.HasSuffix(name, "Waiter"):
		waiter := strings.TrimSuffix(strings.TrimPrefix(name, "New"), "Waiter")
		return w.waiter(inv.node, service, waiter, inv.value(0), nil, false), true
	}
	return nil, false
}

func isTransferModule(module string) bool {
	return strings.HasSuffix(module, "/manager") || strings.HasSuffix(module, "/s3manager")
}

// invoke recognizes v1 WaitUntil and Pages methods, both drive their construct immediately
func (c *golangConvention) invoke(w *walker, inv *invocation) (*symbol.Binding, bool) {
	service := clientService(inv.receiver)
	method := strings.TrimSuffix(inv.method, "WithContext")
	switch {
	case strings.HasPrefix(method, "WaitUntil"):
		name := strings.TrimPrefix(method, "WaitUntil")
		if service != "" {
			if _, ok := w.catalog.Waiter(service, name); !ok {
				return nil, false
			}
		} else if len(w.catalog.WaiterServices(name)) == 0 {
			return nil, false
		}
		w.waiter(inv.node, service, name, inv.receiver, w.input(inv), true)
		return symbol.NewUnknown(), true
	case strings.HasSuffix(method, "Pages"):
		token := strings.TrimSuffix(method, "Pages")
		if !w.isOperation(service, token) {
			return nil, false
		}
		w.paginator(inv.node, service, token, inv.receiver, w.input(inv), true)
		return symbol.NewUnknown(), true
	}
	return nil, false
}

func (c *golangConvention) drives(variant, method string) bool {
	switch variant {
	case symbol.VariantPaginator:
		return method == "NextPage"
	case symbol.VariantWaiter:
		return method == "Wait" || method == "WaitForOutput"
	}
	return false
}

func (c *golangConvention) typed(w *walker, typeName string) *symbol.Binding {
	name := cleanType(typeName)
	if name == "" {
		return symbol.NewUnknown()
	}
	if !strings.Contains(name, ".") {
		if goPredeclared[name] {
			return symbol.NewLocal(name)
		}
		if spec, ok := w.types[name]; ok && !spec.Interface {
			return symbol.NewLocal(name)
		}
		return symbol.NewUnknown()
	}
	binding, ok := w.resolveType(name)
	if !ok {
		return symbol.NewUnknown()
	}
	terminal := binding.Terminal()
	if terminal.Kind != symbol.Import || terminal.Member == "" {
		return symbol.NewUnknown()
	}
	service, ok := c.sdk(terminal.Module)
	if !ok {
		if c.local(w, terminal.Module) {
			return symbol.NewUnknown()
		}
		return symbol.NewLocal(name)
	}
	member := terminal.Member
	if service == "" {
		return symbol.NewLocal(member)
	}
	service = w.service(service)
	switch {
	case member == "Uploader" || member == "Downloader":
		return w.client(service, symbol.VariantTransfer, terminal.Module)
	case member == "Client" || strings.HasSuffix(member, "API") || strings.HasSuffix(member, "Iface"):
		return w.client(service, "", terminal.Module)
	case strings.HasSuffix(member, "Input"):
		token := strings.TrimSuffix(member, "Input")
		return symbol.NewCommand(service, w.operation(service, token), symbol.VariantInput)
	}
	if canonical, ok := w.catalog.Service(member); ok && canonical == service {
		return w.client(service, "", terminal.Module)
	}
	return symbol.NewLocal(member)
}

// local reports whether module belongs to the analyzed go module
func (c *golangConvention) local(w *walker, module string) bool {
	modulePath := w.analyzer.modulePath
	return modulePath != "" && (module == modulePath || strings.HasPrefix(module, modulePath+"/"))
}

func (c *golangConvention) loop(n *sitter.Node) *sitter.Node {
	return nil
}

func (c *golangConvention) candidate(w *walker, module string) bool {
	if w.analyzer.modulePath != "" {
		return c.local(w, module)
	}
	segment, _, _ := strings.Cut(module, "/")
	return strings.Contains(segment, ".")
}

func (c *golangConvention) helpers() bool {
	return false
}

// operational requires an operation input argument, other client methods are SDK plumbing
func (c *golangConvention) operational(w *walker, inv *invocation) bool {
	return w.input(inv) != nil
}
