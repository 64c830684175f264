package call

import (
	"sort"
	"strconv"
	"strings"

	"github.com/viant/iamgen/inspector/graph"
)

// DiagnosticKind represents diagnostic category
type DiagnosticKind string

const (
	ParseError        DiagnosticKind = "ParseError"
	UnresolvedCall    DiagnosticKind = "Unresolved"
	UnmappedOperation DiagnosticKind = "UnmappedOperation"
	AliasCycle        DiagnosticKind = "AliasCycle"
	ReadError         DiagnosticKind = "ReadError"
)

// Diagnostic represents non fatal finding surfaced next to the policy
type Diagnostic struct {
	File       string         `json:"file" yaml:"file"`
	Location   graph.Location `json:"location" yaml:"location"`
	Kind       DiagnosticKind `json:"kind" yaml:"kind"`
	Detail     string         `json:"detail" yaml:"detail"`
	Candidates []string       `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Diagnostics represents diagnostic list
type Diagnostics []*Diagnostic

// Sort orders diagnostics by file, location, kind and detail
func (d Diagnostics) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		left, right := d[i], d[j]
		if left.File != right.File {
			return left.File < right.File
		}
		if left.Location.Line != right.Location.Line {
			return left.Location.Line < right.Location.Line
		}
		if left.Location.Column != right.Location.Column {
			return left.Location.Column < right.Location.Column
		}
		if left.Kind != right.Kind {
			return left.Kind < right.Kind
		}
		return left.Detail < right.Detail
	})
}

// Count returns number of diagnostics of the given kind
func (d Diagnostics) Count(kind DiagnosticKind) int {
	count := 0
	for _, diagnostic := range d {
		if diagnostic.Kind == kind {
			count++
		}
	}
	return count
}

// String returns one line rendering of the diagnostic
func (d *Diagnostic) String() string {
	builder := strings.Builder{}
	builder.WriteString(d.File)
	if d.Location.Line > 0 {
		builder.WriteString(":")
		builder.WriteString(strconv.Itoa(d.Location.Line))
	}
	builder.WriteString(" ")
	builder.WriteString(string(d.Kind))
	builder.WriteString(": ")
	builder.WriteString(d.Detail)
	if len(d.Candidates) > 0 {
		builder.WriteString(" [")
		builder.WriteString(strings.Join(d.Candidates, ", "))
		builder.WriteString("]")
	}
	return builder.String()
}
