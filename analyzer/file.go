package analyzer

import (
	"sort"

	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/inspector/graph"
)

// File represents call extraction result of one source unit
type File struct {
	Path        string
	Language    graph.Language
	Imports     []graph.Import
	Services    []string            // services whose SDK package the file imports
	Clients     map[string][]string // function scope id to services of clients observed there
	Sites       []*call.Site
	Diagnostics call.Diagnostics
}

// Imported returns true if file imports service SDK package
func (f *File) Imported(service string) bool {
	index := sort.SearchStrings(f.Services, service)
	return index < len(f.Services) && f.Services[index] == service
}

// Peers returns services of clients observed in the scope
func (f *File) Peers(scope string) []string {
	return f.Clients[scope]
}

func (f *File) addService(service string) {
	if service == "" || f.Imported(service) {
		return
	}
	f.Services = append(f.Services, service)
	sort.Strings(f.Services)
}

func (f *File) addClient(scope, service string) {
	if f.Clients == nil {
		f.Clients = map[string][]string{}
	}
	for _, candidate := range f.Clients[scope] {
		if candidate == service {
			return
		}
	}
	f.Clients[scope] = append(f.Clients[scope], service)
	sort.Strings(f.Clients[scope])
}

func (f *File) sortSites() {
	sort.SliceStable(f.Sites, func(i, j int) bool {
		left, right := f.Sites[i].Location, f.Sites[j].Location
		if left.Line != right.Line {
			return left.Line < right.Line
		}
		return left.Column < right.Column
	})
}
