package iamgen

import (
	"encoding/json"
	"fmt"

	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/config"
	"github.com/viant/iamgen/inspector/graph"
	"github.com/viant/iamgen/policy"
	"gopkg.in/yaml.v3"
)

// Result represents generated policy with diagnostics
type Result struct {
	Policy      *policy.Document
	Diagnostics call.Diagnostics
	Calls       []*call.Result    // populated in raw mode
	Mappings    []*policy.Mapping // populated in raw mode
	Sources     []*Source         // populated in raw mode
	Digest      string
	Files       int
}

// Source represents analyzed file with its language and content fingerprint
type Source struct {
	Path     string         `json:"path" yaml:"path"`
	Language graph.Language `json:"language" yaml:"language"`
	Hash     string         `json:"hash" yaml:"hash"`
}

type (
	report struct {
		Policy      *policy.Document  `json:"policy" yaml:"policy"`
		Diagnostics []*diagnostic     `json:"diagnostics" yaml:"diagnostics"`
		Calls       []*call.Result    `json:"calls,omitempty" yaml:"calls,omitempty"`
		Mappings    []*policy.Mapping `json:"mappings,omitempty" yaml:"mappings,omitempty"`
		Sources     []*Source         `json:"sources,omitempty" yaml:"sources,omitempty"`
		Digest      string            `json:"digest" yaml:"digest"`
	}

	diagnostic struct {
		File       string   `json:"file" yaml:"file"`
		Line       int      `json:"line,omitempty" yaml:"line,omitempty"`
		Column     int      `json:"column,omitempty" yaml:"column,omitempty"`
		Kind       string   `json:"kind" yaml:"kind"`
		Detail     string   `json:"detail" yaml:"detail"`
		Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	}
)

// Unresolved returns number of calls that could not be attributed to a single service
func (r *Result) Unresolved() int {
	return r.Diagnostics.Count(call.UnresolvedCall)
}

// Render encodes policy, diagnostics and digest in the requested format
func (r *Result) Render(format string) ([]byte, error) {
	out := &report{
		Policy:      r.Policy,
		Diagnostics: make([]*diagnostic, 0, len(r.Diagnostics)),
		Calls:       r.Calls,
		Mappings:    r.Mappings,
		Sources:     r.Sources,
		Digest:      r.Digest,
	}
	for _, item := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, &diagnostic{
			File:       item.File,
			Line:       item.Location.Line,
			Column:     item.Location.Column,
			Kind:       string(item.Kind),
			Detail:     item.Detail,
			Candidates: item.Candidates,
		})
	}
	switch format {
	case config.FormatJSON, "":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case config.FormatYAML:
		return yaml.Marshal(out)
	}
	return nil, fmt.Errorf("unsupported format: %v", format)
}
