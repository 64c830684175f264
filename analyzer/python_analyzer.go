package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/catalog"
)

var pythonSDKRoots = map[string]bool{"boto3": true, "botocore": true, "aioboto3": true, "aiobotocore": true}

var pythonStubPrefixes = []string{"mypy_boto3_", "types_aiobotocore_", "types_boto3_"}

// pythonConvention recognizes boto3 and aiobotocore usage
type pythonConvention struct{}

func (c *pythonConvention) sdk(module string) (string, bool) {
	root, _, _ := strings.Cut(module, ".")
	if pythonSDKRoots[root] {
		return "", true
	}
	for _, prefix := range pythonStubPrefixes {
		if strings.HasPrefix(root, prefix) {
			return strings.TrimPrefix(root, prefix), true
		}
	}
	return "", false
}

func (c *pythonConvention) self() string {
	return "self"
}

func (c *pythonConvention) constructor(name string) bool {
	return name == "__init__"
}

func (c *pythonConvention) token(w *walker, method string) string {
	return method
}

func (c *pythonConvention) construct(w *walker, inv *invocation) (*symbol.Binding, bool) {
	reference := inv.reference()
	if reference == nil {
		return nil, false
	}
	if _, ok := c.sdk(reference.Module); !ok {
		return nil, false
	}
	root, _, _ := strings.Cut(reference.Module, ".")
	switch lastSegment(reference.Member) {
	case "client", "create_client":
		service, ok := c.serviceName(w, inv)
		if !ok {
			return symbol.NewUnknown(), true
		}
		return w.client(service, "", root), true
	case "resource":
		service, ok := c.serviceName(w, inv)
		if !ok {
			return symbol.NewUnknown(), true
		}
		return w.resource(service, catalog.ServiceResource, root, nil), true
	case "Session", "get_session":
		return symbol.NewImport(root, ""), true
	}
	return nil, false
}

// serviceName returns canonical service named by a client or resource factory call
func (c *pythonConvention) serviceName(w *walker, inv *invocation) (string, bool) {
	name, ok := inv.keyword("service_name")
	if !ok {
		name = inv.value(0)
	}
	terminal := name.Terminal()
	if terminal.Kind != symbol.Literal || terminal.Numeric {
		return "", false
	}
	return w.service(terminal.Value), true
}

// invoke recognizes resource calls and paginator and waiter factories of a client
func (c *pythonConvention) invoke(w *walker, inv *invocation) (*symbol.Binding, bool) {
	if receiver := inv.receiver.Terminal(); receiver.Kind == symbol.Client {
		switch receiver.Variant {
		case symbol.VariantResource:
			return w.resourceCall(inv, receiver), true
		case symbol.VariantCollection:
			return w.collectionCall(inv, receiver), true
		}
	}
	service := clientService(inv.receiver)
	switch inv.method {
	case "get_paginator":
		token, ok := inv.literal(0)
		if !ok || !w.isOperation(service, token) {
			return symbol.NewUnknown(), true
		}
		return w.paginator(inv.node, service, token, inv.receiver, nil, false), true
	case "get_waiter":
		name, ok := inv.literal(0)
		if !ok {
			return symbol.NewUnknown(), true
		}
		if service != "" {
			if _, ok := w.catalog.Waiter(service, name); !ok {
				return symbol.NewUnknown(), true
			}
		} else if len(w.catalog.WaiterServices(name)) == 0 {
			return symbol.NewUnknown(), true
		}
		return w.waiter(inv.node, service, name, inv.receiver, nil, false), true
	}
	return nil, false
}

func (c *pythonConvention) drives(variant, method string) bool {
	switch variant {
	case symbol.VariantPaginator:
		return method == "paginate"
	case symbol.VariantWaiter:
		return method == "wait"
	}
	return false
}

func (c *pythonConvention) typed(w *walker, typeName string) *symbol.Binding {
	name := strings.Trim(strings.TrimSpace(typeName), `"'`)
	if inner, ok := strings.CutPrefix(name, "Optional["); ok {
		name = strings.TrimSuffix(inner, "]")
	}
	name = cleanType(name)
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
		if !ok || service == "" {
			return symbol.NewUnknown()
		}
		last := lastSegment(terminal.Member)
		service = w.service(service)
		switch {
		case strings.HasSuffix(last, "Client"):
			return w.client(service, "", terminal.Module)
		case strings.HasSuffix(last, catalog.ServiceResource):
			return w.resource(service, catalog.ServiceResource, terminal.Module, nil)
		}
		if _, ok := w.catalog.Resource(service, last); ok {
			return w.resource(service, last, terminal.Module, nil)
		}
	}
	return symbol.NewUnknown()
}

func (c *pythonConvention) loop(n *sitter.Node) *sitter.Node {
	return nil
}

func (c *pythonConvention) candidate(w *walker, module string) bool {
	_, ok := c.sdk(module)
	return !ok
}

func (c *pythonConvention) helpers() bool {
	return true
}

// pythonClientPlumbing lists botocore client members that never reach the service API
var pythonClientPlumbing = map[string]bool{
	"get_paginator": true, "get_waiter": true, "can_paginate": true, "close": true,
	"meta": true, "exceptions": true, "generate_presigned_url": true, "generate_presigned_post": true,
}

func (c *pythonConvention) operational(w *walker, inv *invocation) bool {
	return !strings.HasPrefix(inv.method, "_") && !pythonClientPlumbing[inv.method]
}
