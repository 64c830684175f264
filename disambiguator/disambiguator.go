package disambiguator

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/viant/iamgen/analyzer"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/catalog"
)

const (
	importScore  = 3
	shapeScore   = 2
	overlapScore = 1
)

// Catalog represents knowledge base lookups used to attribute a call site to a service
type Catalog interface {
	Operation(service, token string) (string, bool)
	Services(token string) []string
	Params(service, operation string) []string
	Waiter(service, name string) (string, bool)
	WaiterServices(name string) []string
}

// Evidence represents file level facts supporting service attribution
type Evidence struct {
	Services []string // services whose SDK package the file imports
	Peers    []string // services of clients observed in the call site's function scope
}

// Disambiguator attributes call sites to exactly one service or leaves them unresolved
type Disambiguator struct {
	catalog Catalog
	logger  *slog.Logger
}

// New creates a disambiguator
func New(catalog Catalog, options ...Option) *Disambiguator {
	ret := &Disambiguator{catalog: catalog, logger: slog.New(slog.DiscardHandler)}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Resolve disambiguates every call site of the file, unresolved calls are reported as diagnostics
func (d *Disambiguator) Resolve(file *analyzer.File) ([]*call.Result, call.Diagnostics) {
	var results []*call.Result
	var diagnostics call.Diagnostics
	for _, site := range file.Sites {
		result := d.Disambiguate(site, &Evidence{Services: file.Services, Peers: file.Peers(site.Scope)})
		results = append(results, result)
		if result.IsResolved() {
			continue
		}
		d.logger.Debug("unresolved call", "path", site.File, "line", site.Location.Line, "token", site.Token, "candidates", result.Candidates)
		diagnostics = append(diagnostics, &call.Diagnostic{
			File:       site.File,
			Location:   site.Location,
			Kind:       call.UnresolvedCall,
			Detail:     "cannot attribute " + site.Token + " to a single service",
			Candidates: result.Candidates,
		})
	}
	return results, diagnostics
}

// Disambiguate attributes call site to a service
func (d *Disambiguator) Disambiguate(site *call.Site, evidence *Evidence) *call.Result {
	if evidence == nil {
		evidence = &Evidence{}
	}
	if service := site.ClientService(); service != "" {
		return d.resolved(site, service, d.operation(site, service), "client")
	}
	if command := site.CommandOf(); command != nil && command.Service != "" {
		if operation, ok := d.lookup(site, command.Service); ok {
			return d.resolved(site, command.Service, operation, "command")
		}
	}
	return d.score(site, evidence)
}

type candidate struct {
	service   string
	operation string
	score     int
	evidence  []string
}

func (d *Disambiguator) score(site *call.Site, evidence *Evidence) *call.Result {
	services := d.candidates(site)
	if len(services) == 0 {
		return &call.Result{Site: site, Operation: site.Token, Confidence: call.Unresolved}
	}
	var viable []*candidate
	for _, service := range services {
		operation, _ := d.lookup(site, service)
		c := &candidate{service: service, operation: operation}
		if contains(evidence.Services, service) || contains(site.Hints, service) {
			c.score += importScore
			c.evidence = append(c.evidence, "import")
		}
		accepted, overlap := d.shape(site.Args, service, operation)
		if !accepted {
			continue
		}
		if overlap > 0 {
			c.score += shapeScore + overlap*overlapScore
			c.evidence = append(c.evidence, "arguments")
		}
		viable = append(viable, c)
	}
	best := top(viable)
	if len(best) > 1 {
		var peers []*candidate
		for _, c := range best {
			if contains(evidence.Peers, c.service) {
				peers = append(peers, c)
			}
		}
		if len(peers) == 1 {
			peers[0].evidence = append(peers[0].evidence, "scope")
			best = peers
		}
	}
	if len(best) == 1 {
		return d.resolved(site, best[0].service, best[0].operation, strings.Join(best[0].evidence, ","))
	}
	result := &call.Result{Site: site, Operation: site.Token, Confidence: call.Unresolved}
	switch {
	case len(best) > 1:
		for _, c := range best {
			result.Candidates = append(result.Candidates, c.service)
		}
	case len(viable) > 0:
		for _, c := range viable {
			result.Candidates = append(result.Candidates, c.service)
		}
	default:
		result.Candidates = append(result.Candidates, services...)
	}
	sort.Strings(result.Candidates)
	return result
}

// candidates returns services offering the call site's token
func (d *Disambiguator) candidates(site *call.Site) []string {
	if site.Shape == call.ShapeWaiter {
		return d.catalog.WaiterServices(site.Token)
	}
	return d.catalog.Services(site.Token)
}

// shape returns false when service declares parameters and rejects a supplied argument, otherwise number of matching named arguments
func (d *Disambiguator) shape(args call.Arguments, service, operation string) (bool, int) {
	params := d.catalog.Params(service, operation)
	if len(params) == 0 || len(args) == 0 {
		return true, 0
	}
	declared := make(map[string]bool, len(params))
	for _, param := range params {
		declared[catalog.Normalize(param)] = true
	}
	overlap := 0
	for name := range args {
		if !declared[catalog.Normalize(name)] {
			return false, 0
		}
		overlap++
	}
	return true, overlap
}

// top returns candidates sharing the highest positive score
func top(candidates []*candidate) []*candidate {
	var result []*candidate
	best := 0
	for _, c := range candidates {
		switch {
		case c.score > best:
			best = c.score
			result = []*candidate{c}
		case c.score == best && best > 0:
			result = append(result, c)
		}
	}
	return result
}

// lookup returns canonical operation of the service for the call site token
func (d *Disambiguator) lookup(site *call.Site, service string) (string, bool) {
	if site.Shape == call.ShapeWaiter {
		return d.catalog.Waiter(service, site.Token)
	}
	return d.catalog.Operation(service, site.Token)
}

// operation returns canonical operation name, falling back to any service offering the token
func (d *Disambiguator) operation(site *call.Site, service string) string {
	if operation, ok := d.lookup(site, service); ok {
		return operation
	}
	if site.Shape == call.ShapeWaiter {
		for _, other := range d.catalog.WaiterServices(site.Token) {
			if operation, ok := d.catalog.Waiter(other, site.Token); ok {
				return operation
			}
		}
		return site.Token
	}
	for _, other := range d.catalog.Services(site.Token) {
		if operation, ok := d.catalog.Operation(other, site.Token); ok {
			return operation
		}
	}
	return site.Token
}

func (d *Disambiguator) resolved(site *call.Site, service, operation, evidence string) *call.Result {
	return &call.Result{
		Site:       site,
		Service:    service,
		Operation:  operation,
		Confidence: call.Resolved,
		Evidence:   evidence,
	}
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
