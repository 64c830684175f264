package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Allows(t *testing.T) {
	document := &Document{
		Version: Version,
		Statement: []*Statement{
			{Effect: Allow, Action: []string{"s3:Get*"}, Resource: []string{"arn:aws:s3:::reports/*"}},
			{Effect: Allow, Action: []string{"dynamodb:PutItem"}, Resource: []string{"*"}},
			{Effect: "Deny", Action: []string{"kms:Decrypt"}, Resource: []string{"*"}},
			{Effect: Allow, Action: []string{"kms:GenerateDataKey"}, Resource: []string{"*"}, Condition: Condition{"StringLike": {"kms:ViaService": "s3.*.amazonaws.com"}}},
		},
	}
	tests := []struct {
		name     string
		action   string
		resource string
		expected bool
	}{
		{name: "action and resource wildcards", action: "s3:GetObject", resource: "arn:aws:s3:::reports/2024/01.csv", expected: true},
		{name: "action matched case insensitively", action: "S3:getobject", resource: "arn:aws:s3:::reports/a", expected: true},
		{name: "resource outside pattern", action: "s3:GetObject", resource: "arn:aws:s3:::logs/a"},
		{name: "action not granted", action: "s3:PutObject", resource: "arn:aws:s3:::reports/a"},
		{name: "any resource", action: "dynamodb:PutItem", resource: "arn:aws:dynamodb:us-east-1:123456789012:table/orders", expected: true},
		{name: "deny statement never allows", action: "kms:Decrypt", resource: "arn:aws:kms:us-east-1:123456789012:key/k"},
		{name: "conditioned statement is not unconditional", action: "kms:GenerateDataKey", resource: "arn:aws:kms:us-east-1:123456789012:key/k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, document.Allows(tt.action, tt.resource))
		})
	}
}

func TestDocument_JSON_Condition(t *testing.T) {
	document := NewSynthesizer().Synthesize([]*Mapping{
		{Action: "kms:GenerateDataKey", Resources: []string{"*"}, Condition: Condition{"StringLike": {"kms:ViaService": "s3.*.amazonaws.com"}}},
		mapping("s3:PutObject", "arn:aws:s3:::a/*"),
	})
	data, err := document.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Condition": {
        "StringLike": {
          "kms:ViaService": "s3.*.amazonaws.com"
        }
      }`)
	assert.Equal(t, 1, strings.Count(string(data), `"Condition"`))
}

func TestDocument_Add(t *testing.T) {
	document := NewSynthesizer().Synthesize([]*Mapping{
		mapping("s3:GetObject", "arn:aws:s3:::a/*"),
	})

	t.Run("already allowed pair returns same document", func(t *testing.T) {
		assert.Same(t, document, document.Add("s3:GetObject", "arn:aws:s3:::a/x"))
	})

	t.Run("new pair merged into canonical document", func(t *testing.T) {
		updated := document.Add("s3:PutObject", "arn:aws:s3:::a/*")
		require.NotSame(t, document, updated)
		assert.Equal(t, []*Statement{
			{Effect: Allow, Action: []string{"s3:GetObject", "s3:PutObject"}, Resource: []string{"arn:aws:s3:::a/*"}},
		}, updated.Statement)
		assert.False(t, document.Allows("s3:PutObject", "arn:aws:s3:::a/x"))
		assert.True(t, updated.Allows("s3:PutObject", "arn:aws:s3:::a/x"))
		assert.Same(t, updated, updated.Add("s3:PutObject", "arn:aws:s3:::a/x"))
	})

	t.Run("statement ids kept", func(t *testing.T) {
		named := NewSynthesizer(WithStatementIDs(true)).Synthesize([]*Mapping{mapping("s3:GetObject", "*")})
		updated := named.Add("sqs:SendMessage", "arn:aws:sqs:*:*:jobs")
		require.Len(t, updated.Statement, 2)
		assert.Equal(t, "AllowS3GetObject", updated.Statement[0].Sid)
		assert.Equal(t, "AllowSqsSendMessage", updated.Statement[1].Sid)
	})
}

func TestDocument_JSON(t *testing.T) {
	data, err := NewDocument().JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Version":"2012-10-17","Statement":[]}`, string(data))

	first, err := NewSynthesizer().Synthesize([]*Mapping{mapping("s3:GetObject", "*")}).Digest()
	require.NoError(t, err)
	second, err := NewSynthesizer().Synthesize([]*Mapping{mapping("s3:GetObject", "*")}).Digest()
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		value    string
		expected bool
	}{
		{name: "exact", pattern: "arn:aws:s3:::a", value: "arn:aws:s3:::a", expected: true},
		{name: "star spans separators", pattern: "arn:aws:s3:::a/*", value: "arn:aws:s3:::a/b/c", expected: true},
		{name: "question mark single character", pattern: "secret:db-??????", value: "secret:db-AbCdEf", expected: true},
		{name: "question mark length mismatch", pattern: "secret:db-??????", value: "secret:db-AbC"},
		{name: "star matches empty", pattern: "a*", value: "a", expected: true},
		{name: "prefix mismatch", pattern: "b*", value: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, match(tt.pattern, tt.value))
		})
	}
	assert.True(t, subsumes("*", "arn:aws:s3:::a"))
	assert.False(t, subsumes("arn:aws:s3:::a", "arn:aws:s3:::a"))
	assert.False(t, subsumes("arn:aws:s3:::a/x", "arn:aws:s3:::a/*"))
}
