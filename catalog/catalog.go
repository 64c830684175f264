package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Catalog represents read-only (service, operation) knowledge base, safe for concurrent use
type Catalog struct {
	services   map[string]*Service
	aliases    map[string]string
	operations map[string]map[string]string
	methods    map[string]map[string]string
	owners     map[string][]string
	waiters    map[string]map[string]string
	waitedBy   map[string][]string
	composites map[string]map[string]*Composite
	helpedBy   map[string][]string
}

// Normalize returns case and separator insensitive operation key
func Normalize(name string) string {
	builder := strings.Builder{}
	for _, r := range strings.ToLower(name) {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// Default returns embedded knowledge base
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Load loads knowledge base from URL
func Load(ctx context.Context, fs afs.Service, URL string) (*Catalog, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %v: %w", URL, err)
	}
	return Parse(data)
}

// Parse parses YAML knowledge base
func Parse(data []byte) (*Catalog, error) {
	document := &Document{}
	if err := yaml.Unmarshal(data, document); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(document)
}

// New indexes knowledge base document
func New(document *Document) (*Catalog, error) {
	ret := &Catalog{
		services:   map[string]*Service{},
		aliases:    map[string]string{},
		operations: map[string]map[string]string{},
		methods:    map[string]map[string]string{},
		owners:     map[string][]string{},
		waiters:    map[string]map[string]string{},
		waitedBy:   map[string][]string{},
		composites: map[string]map[string]*Composite{},
		helpedBy:   map[string][]string{},
	}
	for name, service := range document.Services {
		if service == nil {
			continue
		}
		service.Name = name
		ret.services[name] = service
		ret.aliases[Normalize(name)] = name
		for _, alias := range service.Aliases {
			ret.aliases[Normalize(alias)] = name
		}
		operations := map[string]string{}
		for opName, operation := range service.Operations {
			if operation == nil || operation.Action == "" {
				return nil, fmt.Errorf("invalid catalog entry %v.%v: missing action", name, opName)
			}
			for _, action := range operation.Actions {
				if action == nil || !strings.Contains(action.Name, ":") {
					return nil, fmt.Errorf("invalid catalog entry %v.%v: additional action needs service:action name", name, opName)
				}
			}
			operation.Name = opName
			key := Normalize(opName)
			operations[key] = opName
			ret.owners[key] = append(ret.owners[key], name)
		}
		ret.operations[name] = operations
		methods := map[string]string{}
		for method, opName := range service.Methods {
			if _, ok := service.Operations[opName]; !ok {
				return nil, fmt.Errorf("invalid catalog method %v.%v: unknown operation %v", name, method, opName)
			}
			methods[Normalize(method)] = opName
		}
		ret.methods[name] = methods
		waiters := map[string]string{}
		for waiter, opName := range service.Waiters {
			if _, ok := service.Operations[opName]; !ok {
				return nil, fmt.Errorf("invalid catalog waiter %v.%v: unknown operation %v", name, waiter, opName)
			}
			key := Normalize(waiter)
			waiters[key] = opName
			ret.waitedBy[key] = append(ret.waitedBy[key], name)
		}
		ret.waiters[name] = waiters
		composites := map[string]*Composite{}
		for helper, composite := range service.Composites {
			if composite == nil {
				continue
			}
			composite.Name = helper
			for _, opName := range composite.Operations {
				if _, ok := service.Operations[opName]; !ok {
					return nil, fmt.Errorf("invalid catalog composite %v.%v: unknown operation %v", name, helper, opName)
				}
			}
			key := Normalize(helper)
			composites[key] = composite
			ret.helpedBy[key] = append(ret.helpedBy[key], name)
		}
		ret.composites[name] = composites
		if err := validateResources(service, composites); err != nil {
			return nil, err
		}
	}
	for _, index := range []map[string][]string{ret.owners, ret.waitedBy, ret.helpedBy} {
		for key := range index {
			sort.Strings(index[key])
		}
	}
	return ret, nil
}

func validateResources(service *Service, composites map[string]*Composite) error {
	for resourceName, resource := range service.Resources {
		if resource == nil {
			return fmt.Errorf("invalid catalog resource %v.%v: empty definition", service.Name, resourceName)
		}
		resource.Name = resourceName
		for method, action := range resource.Actions {
			if action == nil {
				return fmt.Errorf("invalid catalog resource action %v.%v.%v: empty definition", service.Name, resourceName, method)
			}
			_, isOperation := service.Operations[action.Operation]
			_, isComposite := composites[Normalize(action.Operation)]
			if !isOperation && !isComposite {
				return fmt.Errorf("invalid catalog resource action %v.%v.%v: unknown operation %v", service.Name, resourceName, method, action.Operation)
			}
			if _, ok := service.Resources[action.Returns]; action.Returns != "" && !ok {
				return fmt.Errorf("invalid catalog resource action %v.%v.%v: unknown resource %v", service.Name, resourceName, method, action.Returns)
			}
		}
		for collection, opName := range resource.Collections {
			if _, ok := service.Operations[opName]; !ok {
				return fmt.Errorf("invalid catalog collection %v.%v.%v: unknown operation %v", service.Name, resourceName, collection, opName)
			}
		}
		for method, waiter := range resource.Waiters {
			if _, ok := service.Waiters[waiter]; !ok {
				return fmt.Errorf("invalid catalog resource waiter %v.%v.%v: unknown waiter %v", service.Name, resourceName, method, waiter)
			}
		}
	}
	return nil
}

// Service returns canonical service name for a service name, SDK id or alias
func (c *Catalog) Service(name string) (string, bool) {
	service, ok := c.aliases[Normalize(name)]
	return service, ok
}

// Operation returns canonical operation name of service for an SDK method token
func (c *Catalog) Operation(service, token string) (string, bool) {
	key := Normalize(token)
	if name, ok := c.operations[service][key]; ok {
		return name, true
	}
	name, ok := c.methods[service][key]
	return name, ok
}

// Services returns sorted services offering operation token
func (c *Catalog) Services(token string) []string {
	return c.owners[Normalize(token)]
}

// IsOperation returns true if any service offers operation token
func (c *Catalog) IsOperation(token string) bool {
	return len(c.owners[Normalize(token)]) > 0
}

// Lookup returns knowledge base entry
func (c *Catalog) Lookup(service, operation string) (*Operation, bool) {
	entry, ok := c.services[service]
	if !ok {
		return nil, false
	}
	op, ok := entry.Operations[operation]
	return op, ok
}

// Params returns declared operation parameters
func (c *Catalog) Params(service, operation string) []string {
	if op, ok := c.Lookup(service, operation); ok {
		return op.Params
	}
	return nil
}

// Placeholder returns parameter feeding ARN template placeholder
func (c *Catalog) Placeholder(service, placeholder string) string {
	if entry, ok := c.services[service]; ok {
		if param, ok := entry.Placeholders[placeholder]; ok {
			return param
		}
	}
	return placeholder
}

// Waiter returns operation polled by service waiter
func (c *Catalog) Waiter(service, name string) (string, bool) {
	op, ok := c.waiters[service][Normalize(name)]
	return op, ok
}

// WaiterServices returns sorted services defining waiter
func (c *Catalog) WaiterServices(name string) []string {
	return c.waitedBy[Normalize(name)]
}

// Composite returns service helper definition
func (c *Catalog) Composite(service, helper string) (*Composite, bool) {
	composite, ok := c.composites[service][Normalize(helper)]
	return composite, ok
}

// CompositeServices returns sorted services defining helper
func (c *Catalog) CompositeServices(helper string) []string {
	return c.helpedBy[Normalize(helper)]
}

// Resource returns resource definition of service
func (c *Catalog) Resource(service, name string) (*Resource, bool) {
	entry, ok := c.services[service]
	if !ok {
		return nil, false
	}
	resource, ok := entry.Resources[name]
	return resource, ok
}
