package policy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/viant/iamgen/inspector/graph"
)

const (
	// Version is IAM policy language version
	Version = "2012-10-17"
	// Allow is the only effect the synthesizer emits
	Allow = "Allow"
)

// Statement represents IAM policy statement
type Statement struct {
	Sid       string    `json:"Sid,omitempty" yaml:"Sid,omitempty"`
	Effect    string    `json:"Effect" yaml:"Effect"`
	Action    []string  `json:"Action" yaml:"Action"`
	Resource  []string  `json:"Resource" yaml:"Resource"`
	Condition Condition `json:"Condition,omitempty" yaml:"Condition,omitempty"`
}

// Condition represents statement condition block, operator to condition key to value
type Condition map[string]map[string]string

// key returns canonical text of the condition, empty for no condition
func (c Condition) key() string {
	if len(c) == 0 {
		return ""
	}
	var entries []string
	for operator, keys := range c {
		for key, value := range keys {
			entries = append(entries, operator+"\x1f"+key+"\x1f"+value)
		}
	}
	sort.Strings(entries)
	return strings.Join(entries, "\x1e")
}

// Document represents identity based IAM policy document
type Document struct {
	Version   string       `json:"Version" yaml:"Version"`
	Statement []*Statement `json:"Statement" yaml:"Statement"`
}

// Grant represents one (action, resource) permission, optionally conditioned
type Grant struct {
	Action    string
	Resource  string
	Condition Condition
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{Version: Version, Statement: []*Statement{}}
}

// Allows returns true if any unconditional allow statement covers action on resource
func (d *Document) Allows(action, resource string) bool {
	for _, statement := range d.Statement {
		if statement.Effect != Allow || len(statement.Condition) > 0 {
			continue
		}
		if !matchAny(statement.Action, action, true) {
			continue
		}
		if matchAny(statement.Resource, resource, false) {
			return true
		}
	}
	return false
}

// Add returns document allowing action on resource, the receiver itself when already allowed
func (d *Document) Add(action, resource string) *Document {
	if d.Allows(action, resource) {
		return d
	}
	grants := append(d.Grants(), Grant{Action: action, Resource: resource})
	return NewSynthesizer(WithStatementIDs(d.hasStatementIDs())).grant(grants)
}

// Grants returns every (action, resource) pair of the document
func (d *Document) Grants() []Grant {
	var result []Grant
	for _, statement := range d.Statement {
		if statement.Effect != Allow {
			continue
		}
		for _, action := range statement.Action {
			for _, resource := range statement.Resource {
				result = append(result, Grant{Action: action, Resource: resource, Condition: statement.Condition})
			}
		}
	}
	return result
}

// Actions returns number of distinct actions
func (d *Document) Actions() int {
	actions := map[string]bool{}
	for _, statement := range d.Statement {
		for _, action := range statement.Action {
			actions[action] = true
		}
	}
	return len(actions)
}

// JSON returns indented JSON rendering
func (d *Document) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode policy: %w", err)
	}
	return data, nil
}

// Digest returns fingerprint of the JSON rendering
func (d *Document) Digest() (string, error) {
	data, err := d.JSON()
	if err != nil {
		return "", err
	}
	return graph.Digest(data)
}

func (d *Document) hasStatementIDs() bool {
	for _, statement := range d.Statement {
		if statement.Sid != "" {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, value string, fold bool) bool {
	for _, pattern := range patterns {
		if fold {
			if match(strings.ToLower(pattern), strings.ToLower(value)) {
				return true
			}
			continue
		}
		if match(pattern, value) {
			return true
		}
	}
	return false
}
