package disambiguator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/iamgen/analyzer"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/analyzer/symbol"
	"github.com/viant/iamgen/catalog"
	"github.com/viant/iamgen/inspector/graph"
)

func known(values ...string) call.Arguments {
	result := call.Arguments{}
	for i := 0; i+1 < len(values); i += 2 {
		result[values[i]] = call.Value{Text: values[i+1], Known: true}
	}
	return result
}

func TestDisambiguator_Disambiguate(t *testing.T) {
	kb, err := catalog.Default()
	require.NoError(t, err)

	tests := []struct {
		name       string
		site       *call.Site
		evidence   *Evidence
		service    string
		operation  string
		confidence call.Confidence
		candidates []string
		reason     string
	}{
		{
			name:       "client service is authoritative",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "add_permission", Client: symbol.NewClient("sns")},
			evidence:   &Evidence{Services: []string{"sqs"}},
			service:    "sns",
			operation:  "AddPermission",
			confidence: call.Resolved,
			reason:     "client",
		},
		{
			name:       "client service kept for operation owned elsewhere",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "SendMessage", Client: symbol.NewClient("s3")},
			service:    "s3",
			operation:  "SendMessage",
			confidence: call.Resolved,
			reason:     "client",
		},
		{
			name: "command service is authoritative for unknown client",
			site: &call.Site{
				Shape:   call.ShapeCommand,
				Token:   "PutItem",
				Client:  symbol.NewUnknown(),
				Command: symbol.NewCommand("dynamodb", "PutItem", symbol.VariantCommand),
			},
			service:    "dynamodb",
			operation:  "PutItem",
			confidence: call.Resolved,
			reason:     "command",
		},
		{
			name:       "import evidence",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "addPermission"},
			evidence:   &Evidence{Services: []string{"sqs"}},
			service:    "sqs",
			operation:  "AddPermission",
			confidence: call.Resolved,
			reason:     "import",
		},
		{
			name:       "argument shape eliminates incompatible services",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "addPermission", Args: known("TopicArn", "arn:aws:sns:us-east-1:123456789012:alerts")},
			service:    "sns",
			operation:  "AddPermission",
			confidence: call.Resolved,
			reason:     "arguments",
		},
		{
			name:       "no evidence leaves every offering service",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "addPermission"},
			operation:  "addPermission",
			confidence: call.Unresolved,
			candidates: []string{"lambda", "sns", "sqs"},
		},
		{
			name:       "arguments rejected by every service",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "addPermission", Args: known("Unknown", "x")},
			operation:  "addPermission",
			confidence: call.Unresolved,
			candidates: []string{"lambda", "sns", "sqs"},
		},
		{
			name:       "tie between equally compatible services",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "put_resource_policy", Args: known("ResourceArn", "arn:aws:ssm:us-east-1:123456789012:parameter/app", "Policy", "{}")},
			operation:  "put_resource_policy",
			confidence: call.Unresolved,
			candidates: []string{"dynamodb", "ssm"},
		},
		{
			name:       "scope peers break a tie",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "put_resource_policy", Args: known("ResourceArn", "arn:aws:ssm:us-east-1:123456789012:parameter/app", "Policy", "{}")},
			evidence:   &Evidence{Peers: []string{"ssm"}},
			service:    "ssm",
			operation:  "PutResourcePolicy",
			confidence: call.Resolved,
			reason:     "arguments,scope",
		},
		{
			name:       "import outweighs argument shape",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "put_resource_policy", Args: known("ResourceArn", "arn", "Policy", "{}")},
			evidence:   &Evidence{Services: []string{"ssm"}},
			service:    "ssm",
			operation:  "PutResourcePolicy",
			confidence: call.Resolved,
			reason:     "import,arguments",
		},
		{
			name:       "construct hint counts as import",
			site:       &call.Site{Shape: call.ShapeComposite, Token: "PutObject", Hints: []string{"s3"}, Synthetic: true},
			service:    "s3",
			operation:  "PutObject",
			confidence: call.Resolved,
			reason:     "import",
		},
		{
			name:       "waiter polls its operation",
			site:       &call.Site{Shape: call.ShapeWaiter, Token: "table_exists", Client: symbol.NewClient("dynamodb"), Synthetic: true},
			service:    "dynamodb",
			operation:  "DescribeTable",
			confidence: call.Resolved,
			reason:     "client",
		},
		{
			name:       "token offered by no service",
			site:       &call.Site{Shape: call.ShapeDirect, Token: "frobnicate"},
			operation:  "frobnicate",
			confidence: call.Unresolved,
		},
	}

	d := New(kb)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.Disambiguate(tt.site, tt.evidence)
			assert.Equal(t, tt.confidence, result.Confidence)
			assert.Equal(t, tt.service, result.Service)
			assert.Equal(t, tt.operation, result.Operation)
			assert.Equal(t, tt.candidates, result.Candidates)
			assert.Equal(t, tt.reason, result.Evidence)
			assert.Same(t, tt.site, result.Site)
		})
	}
}

func TestDisambiguator_Resolve(t *testing.T) {
	kb, err := catalog.Default()
	require.NoError(t, err)
	file := &analyzer.File{
		Path:     "app.py",
		Language: graph.LanguagePython,
		Services: []string{"sqs"},
		Clients:  map[string][]string{"app.py/grant#1": {"sns"}},
		Sites: []*call.Site{
			{File: "app.py", Location: graph.Location{Line: 3, Column: 1}, Shape: call.ShapeDirect, Token: "add_permission", Scope: "app.py"},
			{File: "app.py", Location: graph.Location{Line: 7, Column: 5}, Shape: call.ShapeDirect, Token: "tag_resource", Scope: "app.py/grant#1", Args: known("ResourceArn", "arn", "Tags", "[]")},
			{File: "app.py", Location: graph.Location{Line: 9, Column: 5}, Shape: call.ShapeDirect, Token: "frobnicate", Scope: "app.py/grant#1"},
		},
	}

	results, diagnostics := New(kb).Resolve(file)
	require.Len(t, results, 3)
	assert.Equal(t, "sqs", results[0].Service)
	assert.Equal(t, "sns", results[1].Service)
	assert.Equal(t, "TagResource", results[1].Operation)
	assert.False(t, results[2].IsResolved())

	require.Len(t, diagnostics, 1)
	assert.Equal(t, call.UnresolvedCall, diagnostics[0].Kind)
	assert.Equal(t, 9, diagnostics[0].Location.Line)
	assert.Empty(t, diagnostics[0].Candidates)
}
