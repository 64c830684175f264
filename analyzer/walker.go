package analyzer

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/inspector/graph"
)

// walker performs single threaded program order walk of one source unit
type walker struct {
	analyzer    *Analyzer
	catalog     Catalog
	conv        convention
	grammar     graph.Grammar
	src         []byte
	file        *File
	scope       *symbol.Scope
	pending     map[*symbol.Binding]*call.Site
	types       map[string]graph.TypeSpec
	members     map[string]map[string]*symbol.Binding
	sdkImported bool // any SDK module import seen
}

func newWalker(a *Analyzer, tree *graph.Tree, conv convention) *walker {
	return &walker{
		analyzer: a,
		catalog:  a.catalog,
		conv:     conv,
		grammar:  tree.Grammar,
		src:      tree.Unit.Source,
		file:     &File{Path: tree.Unit.Path, Language: tree.Unit.Language},
		scope:    symbol.NewScope(tree.Unit.Path),
		pending:  map[*symbol.Binding]*call.Site{},
		types:    map[string]graph.TypeSpec{},
		members:  map[string]map[string]*symbol.Binding{},
	}
}

func (w *walker) run(root *sitter.Node) {
	w.prepare(root)
	w.children(root)
}

// prepare collects named type declarations ahead of the walk
func (w *walker) prepare(n *sitter.Node) {
	if w.grammar.Kind(n) == graph.KindTypeDecl {
		for _, spec := range w.grammar.Types(n, w.src) {
			w.types[spec.Name] = spec
		}
		return
	}
	for _, child := range graph.NamedChildren(n) {
		w.prepare(child)
	}
}

func (w *walker) children(n *sitter.Node) {
	for _, child := range graph.NamedChildren(n) {
		w.walk(child)
	}
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	switch w.grammar.Kind(n) {
	case graph.KindImport:
		w.imports(n)
	case graph.KindAssignment:
		w.assign(n)
	case graph.KindFunction:
		w.function(n)
	case graph.KindClass:
		w.class(n)
	case graph.KindBlock:
		w.block(n)
	case graph.KindTypeDecl, graph.KindNumber:
	case graph.KindCall, graph.KindNew, graph.KindMember, graph.KindIdentifier,
		graph.KindObject, graph.KindBinary, graph.KindWrapper, graph.KindString:
		w.eval(n)
	default:
		if source := w.conv.loop(n); source != nil {
			w.iterate(n, source)
			return
		}
		w.children(n)
	}
}

func (w *walker) imports(n *sitter.Node) {
	for _, spec := range w.grammar.Imports(n, w.src) {
		w.file.Imports = append(w.file.Imports, spec)
		if service, ok := w.conv.sdk(spec.Module); ok {
			w.sdkImported = true
			w.file.addService(w.service(service))
		}
		if spec.Name != "" {
			w.scope.Declare(spec.Name, symbol.NewImport(spec.Module, spec.Member))
		}
	}
}

func (w *walker) block(n *sitter.Node) {
	w.scope = w.scope.Push(symbol.ScopeBlock, "")
	w.children(n)
	w.scope = w.scope.Pop()
}

// iterate drives a paginator consumed by a loop
func (w *walker) iterate(n, source *sitter.Node) {
	binding := w.eval(source)
	if site, ok := w.pending[binding.Terminal()]; ok && site.Shape == call.ShapePaginator {
		site.Driven = true
	}
	for _, child := range graph.NamedChildren(n) {
		if sameNode(child, source) {
			continue
		}
		w.walk(child)
	}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func (w *walker) assign(n *sitter.Node) *symbol.Binding {
	last := symbol.NewUnknown()
	for _, assignment := range w.grammar.Assignments(n, w.src) {
		value := symbol.NewUnknown()
		if assignment.Value != nil {
			value = w.eval(assignment.Value)
			if w.grammar.Kind(assignment.Value) == graph.KindIdentifier && value.Kind != symbol.Unknown {
				value = symbol.NewAlias(value)
			}
		}
		if assignment.Type != "" && value.IsUnknown() {
			value = w.conv.typed(w, assignment.Type)
		}
		if assignment.Opaque {
			value = symbol.NewUnknown()
		}
		for _, target := range assignment.Targets {
			bound := value
			switch {
			case target.Index >= 0:
				bound = symbol.NewUnknown()
			case target.Key != "":
				bound = value.Attribute(target.Key)
			}
			w.bind(target, bound, assignment.Declare)
		}
		last = value
	}
	return last
}

func (w *walker) bind(target graph.Target, value *symbol.Binding, declare bool) {
	if len(target.Path) == 0 {
		if declare {
			w.scope.Declare(target.Name, value)
			return
		}
		w.scope.Assign(target.Name, value)
		return
	}
	if self := w.conv.self(); self != "" && target.Name == self {
		class := w.scope.Class()
		if class == nil {
			return
		}
		if len(target.Path) == 1 {
			class.Declare(target.Path[0], value)
			return
		}
		history := class.History(target.Path[0])
		if len(history) == 0 {
			return
		}
		class.Declare(target.Path[0], history[len(history)-1].With(target.Path[1:], value))
		return
	}
	base, ok := w.scope.Lookup(target.Name)
	if !ok {
		return
	}
	if kind := base.Terminal().Kind; kind != symbol.Record && kind != symbol.Command {
		return
	}
	w.scope.Assign(target.Name, base.With(target.Path, value))
}

func (w *walker) function(n *sitter.Node) *symbol.Binding {
	fn := w.grammar.Function(n, w.src)
	binding := symbol.NewLocal(fn.Name)
	binding.Variant = symbol.VariantFunction
	if fn.Result != "" {
		switch result := w.conv.typed(w, fn.Result); result.Kind {
		case symbol.Client, symbol.Command:
			binding.Returns = result
		case symbol.Local:
			if result.Type != "" && result.Variant == "" {
				binding.Returns = result
			}
		}
	}
	switch {
	case fn.Receiver != nil:
		if owner := receiverType(fn.Receiver.Type); owner != "" && fn.Name != "" {
			if w.members[owner] == nil {
				w.members[owner] = map[string]*symbol.Binding{}
			}
			w.members[owner][fn.Name] = binding
		}
	case fn.Name != "":
		w.scope.Declare(fn.Name, binding)
	}
	w.scope = w.scope.Push(symbol.ScopeFunction, fn.Name)
	if fn.Receiver != nil && fn.Receiver.Name != "" {
		w.scope.Declare(fn.Receiver.Name, w.conv.typed(w, fn.Receiver.Type))
	}
	for _, param := range fn.Params {
		value := symbol.NewUnknown()
		if param.Type != "" {
			value = w.conv.typed(w, param.Type)
		}
		w.scope.Declare(param.Name, value)
	}
	if fn.Body != nil {
		if w.grammar.Kind(fn.Body) == graph.KindBlock {
			w.children(fn.Body)
		} else {
			w.eval(fn.Body)
		}
	}
	w.scope = w.scope.Pop()
	return binding
}

func receiverType(typeName string) string {
	typeName = strings.TrimLeft(strings.TrimSpace(typeName), "*")
	if index := strings.Index(typeName, "["); index != -1 {
		typeName = typeName[:index]
	}
	return typeName
}

func (w *walker) class(n *sitter.Node) *symbol.Binding {
	name, body := w.grammar.Class(n, w.src)
	binding := symbol.NewLocal(name)
	binding.Variant = symbol.VariantClass
	if name != "" {
		w.scope.Declare(name, binding)
	}
	w.scope = w.scope.Push(symbol.ScopeClass, name)
	members := graph.NamedChildren(body)
	sort.SliceStable(members, func(i, j int) bool {
		return w.rank(members[i]) < w.rank(members[j])
	})
	for _, member := range members {
		w.walk(member)
	}
	if name != "" {
		w.members[name] = w.scope.Snapshot()
	}
	w.scope = w.scope.Pop()
	return binding
}

// rank orders class members so that attributes and constructors are seen before other methods
func (w *walker) rank(n *sitter.Node) int {
	if w.grammar.Kind(n) != graph.KindFunction {
		if n.Type() == "decorated_definition" {
			return 2
		}
		return 0
	}
	if w.conv.constructor(w.grammar.Function(n, w.src).Name) {
		return 1
	}
	return 2
}

// memberOf returns member of a local class instance or struct value
func (w *walker) memberOf(local *symbol.Binding, name string) (*symbol.Binding, bool) {
	if class := w.scope.Class(); class != nil && class.Name != "" && class.Name == local.Type {
		if history := class.History(name); len(history) > 0 {
			return history[len(history)-1], true
		}
	}
	if members, ok := w.members[local.Type]; ok {
		if member, ok := members[name]; ok {
			return member, true
		}
	}
	if spec, ok := w.types[local.Type]; ok {
		if typeName, ok := spec.Fields[name]; ok {
			return w.conv.typed(w, typeName), true
		}
	}
	return nil, false
}

// resolveType returns binding of a dotted type reference, false if its root name is not bound
func (w *walker) resolveType(typeName string) (*symbol.Binding, bool) {
	parts := strings.Split(typeName, ".")
	binding, ok := w.scope.Lookup(parts[0])
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		binding = binding.Attribute(part)
	}
	return binding, true
}

// service returns canonical service name
func (w *walker) service(name string) string {
	if name == "" {
		return ""
	}
	if service, ok := w.catalog.Service(name); ok {
		return service
	}
	return strings.ToLower(name)
}

// operation returns canonical operation name of service, or token when unknown
func (w *walker) operation(service, token string) string {
	if service != "" {
		if operation, ok := w.catalog.Operation(service, token); ok {
			return operation
		}
	}
	return token
}

func (w *walker) client(service, variant, origin string) *symbol.Binding {
	binding := symbol.NewClient(service)
	binding.Variant = variant
	binding.Origin = origin
	if service != "" {
		w.file.addClient(w.scope.Function().ID, service)
	}
	return binding
}

func (w *walker) diagnose(n *sitter.Node, kind call.DiagnosticKind, detail string) {
	w.file.Diagnostics = append(w.file.Diagnostics, &call.Diagnostic{
		File:     w.file.Path,
		Location: graph.LocationOf(n),
		Kind:     kind,
		Detail:   detail,
	})
}
