package analyzer

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/analyzer/symbol"
)

// convention captures SDK usage idioms of one language family
type convention interface {
	// sdk returns service named by an SDK module path; ok is true for any SDK module
	sdk(module string) (string, bool)
	// self returns the keyword referring to the enclosing class instance
	self() string
	// constructor reports whether method initializes class instances
	constructor(name string) bool
	// token normalizes an SDK method name
	token(w *walker, method string) string
	// construct recognizes client, command, paginator and waiter construction
	construct(w *walker, inv *invocation) (*symbol.Binding, bool)
	// invoke recognizes language specific call forms on a possible client
	invoke(w *walker, inv *invocation) (*symbol.Binding, bool)
	// drives reports whether method drives a paginator or waiter variant
	drives(variant, method string) bool
	// typed returns binding of a value declared with type
	typed(w *walker, typeName string) *symbol.Binding
	// loop returns iterated expression of a loop statement
	loop(n *sitter.Node) *sitter.Node
	// candidate reports whether member of module may hold a client
	candidate(w *walker, module string) bool
	// helpers reports whether composite helper names are specific enough to expand on unknown receivers
	helpers() bool
	// operational reports whether method on a client of known service calls the service API
	operational(w *walker, inv *invocation) bool
}

func fieldsOf(binding *symbol.Binding) map[string]*symbol.Binding {
	if binding == nil {
		return nil
	}
	terminal := binding.Terminal()
	if terminal.Kind == symbol.Record || terminal.Kind == symbol.Command {
		return terminal.Fields
	}
	return nil
}

func argumentsOf(fields map[string]*symbol.Binding) call.Arguments {
	result := call.Arguments{}
	for name, value := range fields {
		if name == "" {
			continue
		}
		result[name] = valueOf(value)
	}
	return result
}

func valueOf(binding *symbol.Binding) call.Value {
	if binding == nil {
		return call.Value{}
	}
	terminal := binding.Terminal()
	if terminal.Kind == symbol.Literal {
		return call.Value{Text: terminal.Value, Known: true}
	}
	return call.Value{}
}

// cleanType returns bare type reference without pointer, generic or union decorations
func cleanType(typeName string) string {
	name := strings.Trim(strings.TrimSpace(typeName), `"'`)
	name = strings.TrimLeft(name, "*&")
	if index := strings.IndexAny(name, "<[|( "); index != -1 {
		name = name[:index]
	}
	return strings.TrimSpace(name)
}

// pascal returns exported operation name of an SDK method token
func pascal(token string) string {
	builder := strings.Builder{}
	upper := true
	for _, r := range token {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func lastSegment(name string) string {
	if index := strings.LastIndex(name, "."); index != -1 {
		return name[index+1:]
	}
	return name
}

func clientService(binding *symbol.Binding) string {
	if binding == nil {
		return ""
	}
	terminal := binding.Terminal()
	if terminal.Kind == symbol.Client {
		return terminal.Service
	}
	return ""
}
