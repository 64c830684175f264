package symbol

import "fmt"

// ScopeKind represents lexical scope kind
type ScopeKind string

const (
	ScopeFile     ScopeKind = "file"
	ScopeFunction ScopeKind = "function"
	ScopeClass    ScopeKind = "class"
	ScopeBlock    ScopeKind = "block"
)

// Scope represents lexical scope with per name binding history
type Scope struct {
	ID       string
	Kind     ScopeKind
	Name     string
	Parent   *Scope
	symbols  map[string][]*Binding
	writes   map[string]*Binding
	order    []string
	children int
}

// NewScope creates file scope
func NewScope(id string) *Scope {
	return &Scope{ID: id, Kind: ScopeFile, symbols: map[string][]*Binding{}}
}

// Push creates child scope
func (s *Scope) Push(kind ScopeKind, name string) *Scope {
	s.children++
	label := name
	if label == "" {
		label = string(kind)
	}
	return &Scope{
		ID:      fmt.Sprintf("%s/%s#%d", s.ID, label, s.children),
		Kind:    kind,
		Name:    name,
		Parent:  s,
		symbols: map[string][]*Binding{},
	}
}

// Pop leaves scope; block writes to outer names are merged into the parent, function and class scopes are discarded
func (s *Scope) Pop() *Scope {
	if s.Parent == nil {
		return s
	}
	if s.Kind == ScopeBlock {
		for _, name := range s.order {
			s.Parent.merge(name, s.writes[name])
		}
	}
	return s.Parent
}

func (s *Scope) merge(name string, binding *Binding) {
	previous, _ := s.Lookup(name)
	merged := Merge(previous, binding)
	owned := s.owner(name) == s
	s.symbols[name] = append(s.symbols[name], merged)
	if !owned {
		s.write(name, merged)
	}
}

// Declare records binding for a name introduced in this scope
func (s *Scope) Declare(name string, binding *Binding) {
	s.symbols[name] = append(s.symbols[name], binding)
}

// Assign records binding for an existing name; outer names declared within the same function are shadowed
// and merged on block exit, names owned outside the function stay local to it
func (s *Scope) Assign(name string, binding *Binding) {
	owner := s.owner(name)
	switch {
	case owner == s:
		s.symbols[name] = append(s.symbols[name], binding)
	case owner != nil:
		s.symbols[name] = append(s.symbols[name], binding)
		s.write(name, binding)
	default:
		fn := s.Function()
		fn.symbols[name] = append(fn.symbols[name], binding)
	}
}

func (s *Scope) write(name string, binding *Binding) {
	if s.writes == nil {
		s.writes = map[string]*Binding{}
	}
	if _, ok := s.writes[name]; !ok {
		s.order = append(s.order, name)
	}
	s.writes[name] = binding
}

// owner returns scope declaring name within the current function, excluding pending block writes
func (s *Scope) owner(name string) *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if _, ok := scope.symbols[name]; ok {
			if _, pending := scope.writes[name]; !pending {
				return scope
			}
		}
		if scope.Kind != ScopeBlock {
			return nil
		}
	}
	return nil
}

// Lookup returns the most recent binding visible from this scope
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if history, ok := scope.symbols[name]; ok && len(history) > 0 {
			return history[len(history)-1], true
		}
	}
	return nil, false
}

// History returns bindings recorded for name in this scope in program order
func (s *Scope) History(name string) []*Binding {
	return s.symbols[name]
}

// Function returns nearest enclosing function, class or file scope
func (s *Scope) Function() *Scope {
	scope := s
	for scope.Parent != nil && scope.Kind == ScopeBlock {
		scope = scope.Parent
	}
	return scope
}

// Class returns nearest class scope or nil
func (s *Scope) Class() *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if scope.Kind == ScopeClass {
			return scope
		}
	}
	return nil
}

// Snapshot returns the most recent binding of every name declared in this scope
func (s *Scope) Snapshot() map[string]*Binding {
	result := make(map[string]*Binding, len(s.symbols))
	for name, history := range s.symbols {
		if len(history) > 0 {
			result[name] = history[len(history)-1]
		}
	}
	return result
}
