package policy

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/catalog"
	"github.com/viant/iamgen/inspector/graph"
)

const (
	DefaultPartition = "aws"
	wildcard         = "*"
)

var placeholderExpr = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// Catalog represents knowledge base lookups used to map operations to actions
type Catalog interface {
	Lookup(service, operation string) (*catalog.Operation, bool)
	Placeholder(service, placeholder string) string
}

// Mapping represents IAM action and resources of one resolved call
type Mapping struct {
	File      string         `json:"file" yaml:"file"`
	Location  graph.Location `json:"location" yaml:"location"`
	Service   string         `json:"service" yaml:"service"`
	Operation string         `json:"operation" yaml:"operation"`
	Action    string         `json:"action" yaml:"action"`
	Templates []string       `json:"templates,omitempty" yaml:"templates,omitempty"`
	Resources []string       `json:"resources" yaml:"resources"`
	Condition Condition      `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Mapper translates resolved calls into IAM actions and resource ARNs
type Mapper struct {
	catalog   Catalog
	logger    *slog.Logger
	partition string
	region    string
	account   string
}

// NewMapper creates a mapper
func NewMapper(catalog Catalog, options ...MapperOption) *Mapper {
	ret := &Mapper{
		catalog:   catalog,
		logger:    slog.New(slog.DiscardHandler),
		partition: DefaultPartition,
		region:    wildcard,
		account:   wildcard,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// MapAll maps resolved calls, unresolved calls are skipped
func (m *Mapper) MapAll(results []*call.Result) ([]*Mapping, call.Diagnostics) {
	var mappings []*Mapping
	var diagnostics call.Diagnostics
	for _, result := range results {
		mapped, diagnostic := m.Map(result)
		if diagnostic != nil {
			diagnostics = append(diagnostics, diagnostic)
		}
		mappings = append(mappings, mapped...)
	}
	return mappings, diagnostics
}

// Map returns one mapping per action the resolved call needs, or UnmappedOperation diagnostic when catalog has no entry
func (m *Mapper) Map(result *call.Result) ([]*Mapping, *call.Diagnostic) {
	if result == nil || !result.IsResolved() {
		return nil, nil
	}
	var file string
	var location graph.Location
	if site := result.Site; site != nil {
		file, location = site.File, site.Location
	}
	operation, ok := m.catalog.Lookup(result.Service, result.Operation)
	if !ok {
		m.logger.Debug("dropping unmapped call", "path", file, "line", location.Line, "service", result.Service, "operation", result.Operation)
		return nil, &call.Diagnostic{
			File:     file,
			Location: location,
			Kind:     call.UnmappedOperation,
			Detail:   fmt.Sprintf("no catalog entry for %v:%v", result.Service, result.Operation),
		}
	}
	args := result.Arguments()
	var ret []*Mapping
	for _, action := range operation.Authorized() {
		if !supplied(args, action.Requires) {
			continue
		}
		mapping := &Mapping{
			File:      file,
			Location:  location,
			Service:   result.Service,
			Operation: result.Operation,
			Action:    action.Name,
			Templates: action.Resources,
		}
		prefix, _, _ := strings.Cut(action.Name, ":")
		templates := action.Resources
		if len(templates) == 0 {
			templates = []string{wildcard}
		}
		seen := map[string]bool{}
		for _, template := range templates {
			resource := m.substitute(result.Service, prefix, template, args)
			if seen[resource] {
				continue
			}
			seen[resource] = true
			mapping.Resources = append(mapping.Resources, resource)
		}
		sort.Strings(mapping.Resources)
		mapping.Condition = m.condition(result.Service, prefix, action.Condition, args)
		ret = append(ret, mapping)
	}
	return ret, nil
}

// condition fills placeholders of condition value templates
func (m *Mapper) condition(service, prefix string, templates map[string]map[string]string, args call.Arguments) Condition {
	if len(templates) == 0 {
		return nil
	}
	ret := Condition{}
	for operator, keys := range templates {
		ret[operator] = map[string]string{}
		for key, template := range keys {
			ret[operator][key] = m.substitute(service, prefix, template, args)
		}
	}
	return ret
}

// supplied reports whether call passes every required argument, known or not
func supplied(args call.Arguments, required []string) bool {
	for _, name := range required {
		if _, ok := argument(args, name); !ok {
			return false
		}
	}
	return true
}

// argument returns named argument, matching names case and separator insensitively
func argument(args call.Arguments, name string) (call.Value, bool) {
	if value, ok := args[name]; ok {
		return value, true
	}
	key := catalog.Normalize(name)
	for candidate, value := range args {
		if catalog.Normalize(candidate) == key {
			return value, true
		}
	}
	return call.Value{}, false
}

// substitute fills template placeholders, an argument holding a full ARN replaces the whole template
func (m *Mapper) substitute(service, prefix, template string, args call.Arguments) string {
	matches := placeholderExpr.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template
	}
	whole := len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(template)
	builder := strings.Builder{}
	last := 0
	for _, loc := range matches {
		builder.WriteString(template[last:loc[0]])
		last = loc[1]
		value, ok := m.value(service, template[loc[2]:loc[3]], args)
		if !ok {
			builder.WriteString(wildcard)
			continue
		}
		if parsed, err := arn.Parse(value); err == nil && (whole || parsed.Service == prefix) {
			return value
		}
		if whole {
			return wildcard
		}
		switch before := template[:loc[0]]; {
		case strings.HasSuffix(before, "/"):
			value = strings.TrimLeft(value, "/")
		case strings.HasSuffix(before, ":::"):
			// s3 copy source: "/bucket/key?versionId=v"
			value, _, _ = strings.Cut(strings.TrimLeft(value, "/"), "?versionId=")
		}
		builder.WriteString(value)
	}
	builder.WriteString(template[last:])
	return builder.String()
}

// value returns literal feeding the placeholder
func (m *Mapper) value(service, placeholder string, args call.Arguments) (string, bool) {
	switch placeholder {
	case "Partition":
		return m.partition, true
	case "Region":
		return m.region, true
	case "Account":
		return m.account, true
	}
	value, ok := argument(args, m.catalog.Placeholder(service, placeholder))
	if !ok || !value.Known || value.Text == "" {
		return "", false
	}
	return value.Text, true
}
