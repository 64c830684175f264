package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/catalog"
	"github.com/viant/iamgen/inspector/graph"
)

// Catalog represents knowledge base lookups used during call extraction
type Catalog interface {
	Service(name string) (string, bool)
	Operation(service, token string) (string, bool)
	Services(token string) []string
	IsOperation(token string) bool
	Waiter(service, name string) (string, bool)
	WaiterServices(name string) []string
	Composite(service, helper string) (*catalog.Composite, bool)
	CompositeServices(helper string) []string
	Resource(service, name string) (*catalog.Resource, bool)
}

// Analyzer extracts candidate remote operation call sites from parsed source units
type Analyzer struct {
	catalog     Catalog
	logger      *slog.Logger
	precision   bool
	modulePath  string
	conventions map[graph.Language]convention
	script      convention
}

// New creates an analyzer
func New(catalog Catalog, options ...Option) *Analyzer {
	ret := &Analyzer{
		catalog: catalog,
		logger:  slog.New(slog.DiscardHandler),
		conventions: map[graph.Language]convention{
			graph.LanguageGo:     &golangConvention{},
			graph.LanguagePython: &pythonConvention{},
		},
		script: &scriptConvention{},
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// convention returns language convention, JavaScript, TypeScript and TSX share one
func (a *Analyzer) convention(language graph.Language) (convention, bool) {
	if language.IsScript() {
		return a.script, true
	}
	conv, ok := a.conventions[language]
	return conv, ok
}

// Analyze walks parsed tree in program order and returns its call sites
func (a *Analyzer) Analyze(ctx context.Context, tree *graph.Tree) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conv, ok := a.convention(tree.Unit.Language)
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", tree.Unit.Language)
	}
	w := newWalker(a, tree, conv)
	w.run(tree.Root())
	file := w.file
	if a.precision {
		sites := file.Sites[:0]
		for _, site := range file.Sites {
			if site.Synthetic && !site.Driven && (site.Shape == call.ShapePaginator || site.Shape == call.ShapeWaiter) {
				a.logger.Debug("dropping undriven site", "path", file.Path, "line", site.Location.Line, "token", site.Token)
				continue
			}
			sites = append(sites, site)
		}
		file.Sites = sites
	}
	file.sortSites()
	file.Diagnostics.Sort()
	a.logger.Debug("analyzed file", "path", file.Path, "language", file.Language, "sites", len(file.Sites))
	return file, nil
}
