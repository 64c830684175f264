package symbol

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAliasCycle reports alias chain that loops
var ErrAliasCycle = errors.New("alias cycle")

// Kind represents binding kind
type Kind int

const (
	// Unknown represents identifier without recorded meaning
	Unknown Kind = iota
	// Client represents constructed service client
	Client
	// Command represents deferred operation request (command object, input struct, paginator, waiter)
	Command
	// Alias represents rebinding of another binding
	Alias
	// Literal represents string or number constant
	Literal
	// Record represents object, dict or struct literal accumulating fields
	Record
	// Import represents imported module or module member
	Import
	// Local represents user defined function, class, instance or non sdk package
	Local
)

var kindNames = []string{"Unknown", "Client", "Command", "Alias", "Literal", "Record", "Import", "Local"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// MarshalText returns kind name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Local variants
const (
	VariantFunction = "function"
	VariantClass    = "class"
)

// Client variants
const (
	VariantDocument   = "document"
	VariantTransfer   = "transfer"
	VariantResource   = "resource"   // Type names the resource, Fields hold its identifiers
	VariantCollection = "collection" // Type names the list operation, Fields hold owner identifiers
)

// Command variants
const (
	VariantCommand   = "command"
	VariantInput     = "input"
	VariantPaginator = "paginator"
	VariantWaiter    = "waiter"
)

// Binding represents identifier meaning at a point in a file
type Binding struct {
	Kind      Kind
	Service   string              // Client, Command
	Operation string              // Command operation or waiter name
	Variant   string              // Command variant, Client flavour
	Value     string              // Literal
	Numeric   bool                // Literal
	Target    *Binding            // Alias
	Client    *Binding            // Command bound to a client
	Fields    map[string]*Binding // Record, Command input
	Module    string              // Import
	Member    string              // Import
	Type      string              // Local type name, Client resource name
	Returns   *Binding            // Local function declared result
	Origin    string              // module the binding was constructed from
}

// NewUnknown creates unknown binding
func NewUnknown() *Binding {
	return &Binding{Kind: Unknown}
}

// NewClient creates client binding
func NewClient(service string) *Binding {
	return &Binding{Kind: Client, Service: service}
}

// NewCommand creates command binding, service may be empty when the command type is ambiguous
func NewCommand(service, operation, variant string) *Binding {
	return &Binding{Kind: Command, Service: service, Operation: operation, Variant: variant}
}

// NewAlias creates alias binding
func NewAlias(target *Binding) *Binding {
	return &Binding{Kind: Alias, Target: target}
}

// NewLiteral creates string literal binding
func NewLiteral(value string) *Binding {
	return &Binding{Kind: Literal, Value: value}
}

// NewNumber creates number literal binding
func NewNumber(value string) *Binding {
	return &Binding{Kind: Literal, Value: value, Numeric: true}
}

// NewRecord creates record binding
func NewRecord(fields map[string]*Binding) *Binding {
	if fields == nil {
		fields = map[string]*Binding{}
	}
	return &Binding{Kind: Record, Fields: fields}
}

// NewImport creates import binding
func NewImport(module, member string) *Binding {
	return &Binding{Kind: Import, Module: module, Member: member}
}

// NewLocal creates local binding
func NewLocal(typeName string) *Binding {
	return &Binding{Kind: Local, Type: typeName}
}

// Resolve follows alias chain to a terminal binding, loops fail closed to Unknown
func (b *Binding) Resolve() (*Binding, error) {
	visited := map[*Binding]bool{}
	current := b
	for current != nil && current.Kind == Alias {
		if visited[current] {
			return NewUnknown(), ErrAliasCycle
		}
		visited[current] = true
		current = current.Target
	}
	if current == nil {
		return NewUnknown(), nil
	}
	return current, nil
}

// Terminal returns resolved binding ignoring cycle error
func (b *Binding) Terminal() *Binding {
	terminal, _ := b.Resolve()
	return terminal
}

// IsUnknown returns true for unknown terminal
func (b *Binding) IsUnknown() bool {
	return b == nil || b.Terminal().Kind == Unknown
}

// Attribute returns member access result
func (b *Binding) Attribute(name string) *Binding {
	terminal := b.Terminal()
	switch terminal.Kind {
	case Record, Command:
		if field, ok := terminal.Fields[name]; ok {
			return field
		}
		return NewUnknown()
	case Import:
		member := name
		if terminal.Member != "" {
			member = terminal.Member + "." + name
		}
		return NewImport(terminal.Module, member)
	}
	return NewUnknown()
}

// With returns copy of record or command with field set
func (b *Binding) With(path []string, value *Binding) *Binding {
	terminal := b.Terminal()
	if len(path) == 0 {
		return value
	}
	if terminal.Kind != Record && terminal.Kind != Command {
		return terminal
	}
	clone := *terminal
	clone.Fields = make(map[string]*Binding, len(terminal.Fields)+1)
	for k, v := range terminal.Fields {
		clone.Fields[k] = v
	}
	inner, ok := clone.Fields[path[0]]
	if !ok || len(path) == 1 {
		inner = NewRecord(nil)
	}
	clone.Fields[path[0]] = inner.With(path[1:], value)
	return &clone
}

// Same returns true if both bindings resolve to equivalent terminals
func (b *Binding) Same(other *Binding) bool {
	left, right := b.Terminal(), other.Terminal()
	if left == right {
		return true
	}
	if left.Kind != right.Kind {
		return false
	}
	switch left.Kind {
	case Client:
		return left.Service == right.Service && left.Variant == right.Variant && left.Type == right.Type && len(left.Fields) == 0 && len(right.Fields) == 0
	case Literal:
		return left.Value == right.Value && left.Numeric == right.Numeric
	case Import:
		return left.Module == right.Module && left.Member == right.Member
	case Local:
		return left.Type == right.Type
	case Command:
		return left.Service == right.Service && left.Operation == right.Operation && left.Variant == right.Variant && len(left.Fields) == 0 && len(right.Fields) == 0
	}
	return false
}

// Merge returns binding valid on both control flow paths
func Merge(previous, next *Binding) *Binding {
	if previous == nil {
		return NewUnknown()
	}
	if previous.Same(next) {
		return next
	}
	left, right := previous.Terminal(), next.Terminal()
	if left.Kind == Record && right.Kind == Record {
		fields := map[string]*Binding{}
		for key, value := range right.Fields {
			if prior, ok := left.Fields[key]; ok {
				fields[key] = Merge(prior, value)
				continue
			}
			fields[key] = NewUnknown()
		}
		for key := range left.Fields {
			if _, ok := fields[key]; !ok {
				fields[key] = NewUnknown()
			}
		}
		return NewRecord(fields)
	}
	return NewUnknown()
}

func (b *Binding) String() string {
	terminal := b.Terminal()
	switch terminal.Kind {
	case Client:
		if terminal.Type != "" {
			return fmt.Sprintf("Client(%s, %s)", terminal.Service, terminal.Type)
		}
		return fmt.Sprintf("Client(%s)", terminal.Service)
	case Command:
		return fmt.Sprintf("Command(%s, %s)", orUnknown(terminal.Service), terminal.Operation)
	case Literal:
		return fmt.Sprintf("Literal(%s)", terminal.Value)
	case Record:
		keys := make([]string, 0, len(terminal.Fields))
		for key := range terminal.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return fmt.Sprintf("Record(%s)", strings.Join(keys, ","))
	case Import:
		if terminal.Member == "" {
			return fmt.Sprintf("Import(%s)", terminal.Module)
		}
		return fmt.Sprintf("Import(%s.%s)", terminal.Module, terminal.Member)
	case Local:
		return fmt.Sprintf("Local(%s)", terminal.Type)
	}
	return "Unknown"
}

func orUnknown(service string) string {
	if service == "" {
		return "?"
	}
	return service
}
