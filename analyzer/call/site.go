package call

import (
	"sort"

	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/inspector/graph"
)

// Shape represents the syntactic form an invocation was recognised from
type Shape string

const (
	ShapeDirect    Shape = "direct"
	ShapeCommand   Shape = "command"
	ShapePaginator Shape = "paginator"
	ShapeWaiter    Shape = "waiter"
	ShapeComposite Shape = "composite"
)

// Value represents resolved argument value
type Value struct {
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Known bool   `json:"known" yaml:"known"`
}

// Arguments maps parameter name to resolved value
type Arguments map[string]Value

// Names returns sorted argument names
func (a Arguments) Names() []string {
	result := make([]string, 0, len(a))
	for name := range a {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Merge copies missing entries from other
func (a Arguments) Merge(other Arguments) {
	for name, value := range other {
		if _, ok := a[name]; !ok {
			a[name] = value
		}
	}
}

// Clone returns copy of arguments
func (a Arguments) Clone() Arguments {
	result := make(Arguments, len(a))
	for name, value := range a {
		result[name] = value
	}
	return result
}

// Site represents one candidate remote operation invocation
type Site struct {
	File      string          `json:"file" yaml:"file"`
	Location  graph.Location  `json:"location" yaml:"location"`
	Language  graph.Language  `json:"language" yaml:"language"`
	Shape     Shape           `json:"shape" yaml:"shape"`
	Token     string          `json:"token" yaml:"token"`
	Client    *symbol.Binding `json:"-" yaml:"-"`
	Command   *symbol.Binding `json:"-" yaml:"-"`
	Receiver  string          `json:"client,omitempty" yaml:"client,omitempty"`
	Args      Arguments       `json:"args,omitempty" yaml:"args,omitempty"`
	Hints     []string        `json:"hints,omitempty" yaml:"hints,omitempty"`
	Scope     string          `json:"scope" yaml:"scope"`
	Synthetic bool            `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	Driven    bool            `json:"driven,omitempty" yaml:"driven,omitempty"`
}

// ClientService returns service of resolved client binding
func (s *Site) ClientService() string {
	if s.Client == nil {
		return ""
	}
	terminal := s.Client.Terminal()
	if terminal.Kind != symbol.Client {
		return ""
	}
	return terminal.Service
}

// CommandOf returns resolved command binding or nil
func (s *Site) CommandOf() *symbol.Binding {
	if s.Command == nil {
		return nil
	}
	terminal := s.Command.Terminal()
	if terminal.Kind != symbol.Command {
		return nil
	}
	return terminal
}
