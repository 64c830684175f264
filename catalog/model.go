package catalog

import "gopkg.in/yaml.v3"

// ServiceResource names the service level resource returned by a resource factory, e.g. boto3.resource("s3")
const ServiceResource = "ServiceResource"

// Operation represents knowledge base entry for a service operation
type Operation struct {
	Name      string    `yaml:"-"`
	Action    string    `yaml:"action"`
	Resources []string  `yaml:"resources,omitempty"`
	Params    []string  `yaml:"params,omitempty"`
	Actions   []*Action `yaml:"actions,omitempty"` // authorized in addition to Action
}

// Action represents additional IAM action an operation needs, including forward access session actions
type Action struct {
	Name      string                       `yaml:"name"`
	Resources []string                     `yaml:"resources,omitempty"`
	Condition map[string]map[string]string `yaml:"condition,omitempty"` // operator to key to value template
	Requires  []string                     `yaml:"requires,omitempty"`  // arguments the call must supply
}

// Authorized returns primary action followed by additional ones
func (o *Operation) Authorized() []*Action {
	ret := make([]*Action, 0, 1+len(o.Actions))
	ret = append(ret, &Action{Name: o.Action, Resources: o.Resources})
	return append(ret, o.Actions...)
}

// Composite represents high level helper performing several primitive operations
type Composite struct {
	Name       string   `yaml:"-"`
	Operations []string `yaml:"operations"`
	Positional []string `yaml:"positional,omitempty"`
}

// Resource represents object oriented resource interface of a service, e.g. s3 Bucket
type Resource struct {
	Name        string                     `yaml:"-"`
	Identifiers []string                   `yaml:"identifiers,omitempty"` // operation parameters bound by constructor arguments, in order
	Actions     map[string]*ResourceAction `yaml:"actions,omitempty"`
	Collections map[string]string          `yaml:"collections,omitempty"` // collection attribute to list operation
	Waiters     map[string]string          `yaml:"waiters,omitempty"`     // method to service waiter
}

// ResourceAction represents resource method performing an operation or composite helper
type ResourceAction struct {
	Operation string `yaml:"operation"`
	Returns   string `yaml:"returns,omitempty"` // resource produced by the call
}

// UnmarshalYAML accepts bare operation name
func (a *ResourceAction) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Operation = node.Value
		return nil
	}
	type plain ResourceAction
	return node.Decode((*plain)(a))
}

// Service represents knowledge base entries of one service
type Service struct {
	Name         string                `yaml:"-"`
	Aliases      []string              `yaml:"aliases,omitempty"`
	Placeholders map[string]string     `yaml:"placeholders,omitempty"`
	Operations   map[string]*Operation `yaml:"operations"`
	Waiters      map[string]string     `yaml:"waiters,omitempty"`
	Methods      map[string]string     `yaml:"methods,omitempty"`
	Composites   map[string]*Composite `yaml:"composites,omitempty"`
	Resources    map[string]*Resource  `yaml:"resources,omitempty"`
}

// Document represents knowledge base file
type Document struct {
	Services map[string]*Service `yaml:"services"`
}
