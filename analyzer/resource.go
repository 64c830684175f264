package analyzer

import (
	"strings"

	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/catalog"
)

// collectionMethods list methods of a resource collection issuing its list operation
var collectionMethods = map[string]bool{"all": true, "filter": true, "limit": true, "page_size": true, "pages": true}

// resource creates resource binding of service carrying identifier values
func (w *walker) resource(service, name, origin string, identifiers map[string]*symbol.Binding) *symbol.Binding {
	binding := w.client(service, symbol.VariantResource, origin)
	binding.Type = name
	binding.Fields = identifiers
	return binding
}

// resourceMember returns attribute of a resource: its collections and the meta.client escape hatch
func (w *walker) resourceMember(owner *symbol.Binding, name string) *symbol.Binding {
	if name == "meta" {
		return symbol.NewRecord(map[string]*symbol.Binding{"client": w.client(owner.Service, "", owner.Origin)})
	}
	model, ok := w.catalog.Resource(owner.Service, owner.Type)
	if !ok {
		return symbol.NewUnknown()
	}
	operation, ok := model.Collections[name]
	if !ok {
		return symbol.NewUnknown()
	}
	binding := symbol.NewClient(owner.Service)
	binding.Variant = symbol.VariantCollection
	binding.Type = operation
	binding.Fields = owner.Fields
	binding.Origin = owner.Origin
	return binding
}

// resourceCall recognizes sub-resource construction, actions and waiters of a resource
func (w *walker) resourceCall(inv *invocation, owner *symbol.Binding) *symbol.Binding {
	service := owner.Service
	model, ok := w.catalog.Resource(service, owner.Type)
	if !ok {
		return symbol.NewUnknown()
	}
	if sub, ok := w.catalog.Resource(service, inv.method); ok && inv.method != catalog.ServiceResource {
		return w.resource(service, sub.Name, owner.Origin, w.identify(inv, sub, owner.Fields))
	}
	if waiter, ok := model.Waiters[inv.method]; ok {
		input := symbol.NewRecord(copyFields(owner.Fields))
		w.waiter(inv.node, service, waiter, inv.receiver, input, true)
		return symbol.NewUnknown()
	}
	action, ok := model.Actions[inv.method]
	if !ok {
		return symbol.NewUnknown()
	}
	identifiers := argumentsOf(owner.Fields)
	if composite, ok := w.catalog.Composite(service, action.Operation); ok {
		args := w.arguments(inv, unbound(composite.Positional, owner.Fields))
		args.Merge(identifiers)
		w.composite(inv.node, composite, inv.receiver, args, nil)
	} else {
		args := w.arguments(inv, nil)
		args.Merge(identifiers)
		w.emit(inv.node, call.ShapeDirect, action.Operation, inv.receiver, nil, args)
	}
	if action.Returns == "" {
		return symbol.NewUnknown()
	}
	returned, ok := w.catalog.Resource(service, action.Returns)
	if !ok {
		return symbol.NewUnknown()
	}
	fields := copyFields(owner.Fields)
	for _, identifier := range returned.Identifiers {
		if _, bound := fields[identifier]; bound {
			continue
		}
		if value, ok := keywordOf(inv, identifier); ok {
			fields[identifier] = value
		}
	}
	return w.resource(service, returned.Name, owner.Origin, fields)
}

// collectionCall emits list operation of a resource collection
func (w *walker) collectionCall(inv *invocation, collection *symbol.Binding) *symbol.Binding {
	if !collectionMethods[inv.method] {
		return symbol.NewUnknown()
	}
	args := w.arguments(inv, nil)
	args.Merge(argumentsOf(collection.Fields))
	w.emit(inv.node, call.ShapeDirect, collection.Type, inv.receiver, nil, args)
	return symbol.NewUnknown()
}

// identify binds resource identifiers missing from inherited ones to positional, then keyword, arguments
func (w *walker) identify(inv *invocation, model *catalog.Resource, inherited map[string]*symbol.Binding) map[string]*symbol.Binding {
	fields := copyFields(inherited)
	position := 0
	for _, identifier := range model.Identifiers {
		if _, bound := fields[identifier]; bound {
			continue
		}
		if value, ok := keywordOf(inv, identifier); ok {
			fields[identifier] = value
			continue
		}
		fields[identifier] = inv.value(position)
		position++
	}
	return fields
}

// keywordOf returns keyword argument naming identifier, e.g. bucket_name for Bucket or name for TableName
func keywordOf(inv *invocation, identifier string) (*symbol.Binding, bool) {
	key := catalog.Normalize(identifier)
	for i, arg := range inv.args {
		if arg.Name == "" {
			continue
		}
		name := catalog.Normalize(arg.Name)
		if name == key || name == key+"name" || strings.HasSuffix(key, name) {
			return inv.values[i], true
		}
	}
	return nil, false
}

// unbound returns positional parameter names not carried by resource identifiers
func unbound(positional []string, identifiers map[string]*symbol.Binding) []string {
	var result []string
	for _, name := range positional {
		if _, ok := identifiers[name]; ok {
			continue
		}
		result = append(result, name)
	}
	return result
}

func copyFields(fields map[string]*symbol.Binding) map[string]*symbol.Binding {
	result := make(map[string]*symbol.Binding, len(fields))
	for key, value := range fields {
		result[key] = value
	}
	return result
}
