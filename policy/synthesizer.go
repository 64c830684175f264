package policy

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Synthesizer builds minimal deterministic policy document from action mappings
type Synthesizer struct {
	statementIDs bool
}

// NewSynthesizer creates a synthesizer
func NewSynthesizer(options ...SynthesizerOption) *Synthesizer {
	ret := &Synthesizer{}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Synthesize returns policy document granting every mapped (action, resource) pair
func (s *Synthesizer) Synthesize(mappings []*Mapping) *Document {
	var grants []Grant
	for _, mapping := range mappings {
		for _, resource := range mapping.Resources {
			grants = append(grants, Grant{Action: mapping.Action, Resource: resource, Condition: mapping.Condition})
		}
	}
	return s.grant(grants)
}

type permission struct {
	action    string
	condition string
}

type target struct {
	resource  string
	condition string
}

func (s *Synthesizer) grant(grants []Grant) *Document {
	conditions := map[string]Condition{}
	resources := map[permission]map[string]bool{}
	for _, grant := range grants {
		if grant.Action == "" || grant.Resource == "" {
			continue
		}
		key := grant.Condition.key()
		if key != "" {
			conditions[key] = grant.Condition
		}
		p := permission{action: grant.Action, condition: key}
		if resources[p] == nil {
			resources[p] = map[string]bool{}
		}
		resources[p][grant.Resource] = true
	}

	actions := map[target][]string{}
	for p, set := range resources {
		unconditional := resources[permission{action: p.action}]
		for _, resource := range reduce(set) {
			if p.condition != "" && (unconditional[resource] || covered(unconditional, resource)) {
				continue
			}
			t := target{resource: resource, condition: p.condition}
			actions[t] = append(actions[t], p.action)
		}
	}

	statements := map[string]*Statement{}
	keys := map[*Statement]string{}
	for t, granted := range actions {
		sort.Strings(granted)
		key := t.condition + "\x00" + strings.Join(granted, "\n")
		statement, ok := statements[key]
		if !ok {
			statement = &Statement{Effect: Allow, Action: granted, Condition: conditions[t.condition]}
			statements[key] = statement
			keys[statement] = t.condition
		}
		statement.Resource = append(statement.Resource, t.resource)
	}

	document := NewDocument()
	for _, statement := range statements {
		sort.Strings(statement.Resource)
		document.Statement = append(document.Statement, statement)
	}
	sort.Slice(document.Statement, func(i, j int) bool {
		left, right := document.Statement[i], document.Statement[j]
		if left.Resource[0] != right.Resource[0] {
			return left.Resource[0] < right.Resource[0]
		}
		if left.Action[0] != right.Action[0] {
			return left.Action[0] < right.Action[0]
		}
		return keys[left] < keys[right]
	})
	if s.statementIDs {
		assignIDs(document.Statement)
	}
	return document
}

// covered reports whether any resource of the set subsumes resource
func covered(set map[string]bool, resource string) bool {
	for other := range set {
		if subsumes(other, resource) {
			return true
		}
	}
	return false
}

// reduce returns sorted resources not subsumed by another resource of the same action
func reduce(set map[string]bool) []string {
	var result []string
	for resource := range set {
		if !covered(set, resource) {
			result = append(result, resource)
		}
	}
	sort.Strings(result)
	return result
}

// assignIDs names statements after their first action, e.g. AllowS3PutObject
func assignIDs(statements []*Statement) {
	used := map[string]int{}
	for _, statement := range statements {
		base := statementID(statement.Action[0])
		used[base]++
		statement.Sid = base
		if count := used[base]; count > 1 {
			statement.Sid = base + strconv.Itoa(count)
		}
	}
}

func statementID(action string) string {
	builder := strings.Builder{}
	builder.WriteString(Allow)
	for _, part := range strings.Split(action, ":") {
		upper := true
		for _, r := range part {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upper = true
				continue
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
