package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mapping(action string, resources ...string) *Mapping {
	return &Mapping{Action: action, Resources: resources}
}

func TestSynthesizer_Synthesize(t *testing.T) {
	tests := []struct {
		name         string
		statementIDs bool
		mappings     []*Mapping
		expected     []*Statement
	}{
		{
			name: "duplicates removed and actions grouped by resource",
			mappings: []*Mapping{
				mapping("s3:GetObject", "arn:aws:s3:::a/x"),
				mapping("s3:PutObject", "arn:aws:s3:::a/x"),
				mapping("s3:GetObject", "arn:aws:s3:::a/x"),
				mapping("dynamodb:PutItem", "arn:aws:dynamodb:*:*:table/orders"),
				mapping("s3:ListAllMyBuckets", "*"),
			},
			expected: []*Statement{
				{Effect: Allow, Action: []string{"s3:ListAllMyBuckets"}, Resource: []string{"*"}},
				{Effect: Allow, Action: []string{"dynamodb:PutItem"}, Resource: []string{"arn:aws:dynamodb:*:*:table/orders"}},
				{Effect: Allow, Action: []string{"s3:GetObject", "s3:PutObject"}, Resource: []string{"arn:aws:s3:::a/x"}},
			},
		},
		{
			name: "resources sharing action set merged",
			mappings: []*Mapping{
				mapping("s3:GetObject", "arn:aws:s3:::b/y"),
				mapping("s3:GetObject", "arn:aws:s3:::a/x"),
			},
			expected: []*Statement{
				{Effect: Allow, Action: []string{"s3:GetObject"}, Resource: []string{"arn:aws:s3:::a/x", "arn:aws:s3:::b/y"}},
			},
		},
		{
			name: "wildcard resources subsume matching resources of the same action",
			mappings: []*Mapping{
				mapping("s3:GetObject", "arn:aws:s3:::a/x", "arn:aws:s3:::a/*"),
				mapping("s3:PutObject", "arn:aws:s3:::a/x"),
				mapping("sqs:SendMessage", "arn:aws:sqs:*:*:jobs", "*"),
			},
			expected: []*Statement{
				{Effect: Allow, Action: []string{"sqs:SendMessage"}, Resource: []string{"*"}},
				{Effect: Allow, Action: []string{"s3:GetObject"}, Resource: []string{"arn:aws:s3:::a/*"}},
				{Effect: Allow, Action: []string{"s3:PutObject"}, Resource: []string{"arn:aws:s3:::a/x"}},
			},
		},
		{
			name:         "statement ids unique per document",
			statementIDs: true,
			mappings: []*Mapping{
				mapping("s3:GetObject", "arn:aws:s3:::a/x"),
				mapping("s3:GetObject", "arn:aws:s3:::b/y"),
				mapping("s3:PutObject", "arn:aws:s3:::b/y"),
				mapping("dynamodb:PutItem", "arn:aws:dynamodb:*:*:table/orders"),
			},
			expected: []*Statement{
				{Sid: "AllowDynamodbPutItem", Effect: Allow, Action: []string{"dynamodb:PutItem"}, Resource: []string{"arn:aws:dynamodb:*:*:table/orders"}},
				{Sid: "AllowS3GetObject", Effect: Allow, Action: []string{"s3:GetObject"}, Resource: []string{"arn:aws:s3:::a/x"}},
				{Sid: "AllowS3GetObject2", Effect: Allow, Action: []string{"s3:GetObject", "s3:PutObject"}, Resource: []string{"arn:aws:s3:::b/y"}},
			},
		},
		{
			name: "conditioned grants kept in their own statement",
			mappings: []*Mapping{
				mapping("s3:PutObject", "arn:aws:s3:::vault/k"),
				{Action: "kms:GenerateDataKey", Resources: []string{"arn:aws:kms:*:*:key/k1"}, Condition: Condition{"StringLike": {"kms:ViaService": "s3.*.amazonaws.com"}}},
				mapping("kms:GenerateDataKey", "arn:aws:kms:*:*:key/k2"),
			},
			expected: []*Statement{
				{Effect: Allow, Action: []string{"kms:GenerateDataKey"}, Resource: []string{"arn:aws:kms:*:*:key/k1"}, Condition: Condition{"StringLike": {"kms:ViaService": "s3.*.amazonaws.com"}}},
				{Effect: Allow, Action: []string{"kms:GenerateDataKey"}, Resource: []string{"arn:aws:kms:*:*:key/k2"}},
				{Effect: Allow, Action: []string{"s3:PutObject"}, Resource: []string{"arn:aws:s3:::vault/k"}},
			},
		},
		{
			name: "unconditional grant covers conditioned one",
			mappings: []*Mapping{
				{Action: "kms:Decrypt", Resources: []string{"arn:aws:kms:*:*:key/k1"}, Condition: Condition{"StringLike": {"kms:ViaService": "s3.*.amazonaws.com"}}},
				mapping("kms:Decrypt", "arn:aws:kms:*:*:key/*"),
			},
			expected: []*Statement{
				{Effect: Allow, Action: []string{"kms:Decrypt"}, Resource: []string{"arn:aws:kms:*:*:key/*"}},
			},
		},
		{
			name:     "no mappings",
			expected: []*Statement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := NewSynthesizer(WithStatementIDs(tt.statementIDs)).Synthesize(tt.mappings)
			assert.Equal(t, Version, document.Version)
			assert.Equal(t, tt.expected, document.Statement)
		})
	}
}

func TestSynthesizer_Deterministic(t *testing.T) {
	mappings := []*Mapping{
		mapping("s3:GetObject", "arn:aws:s3:::a/x"),
		mapping("sqs:SendMessage", "arn:aws:sqs:*:*:jobs"),
		mapping("s3:PutObject", "arn:aws:s3:::a/x"),
		mapping("kms:Decrypt", "*"),
	}
	reversed := make([]*Mapping, len(mappings))
	for i, m := range mappings {
		reversed[len(mappings)-1-i] = m
	}
	synthesizer := NewSynthesizer()
	first, err := synthesizer.Synthesize(mappings).JSON()
	assert.NoError(t, err)
	second, err := synthesizer.Synthesize(reversed).JSON()
	assert.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
