package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/iamgen/analyzer/symbol"
)

func TestBinding_Resolve(t *testing.T) {
	client := symbol.NewClient("s3")
	chain := symbol.NewAlias(symbol.NewAlias(symbol.NewAlias(client)))

	terminal, err := chain.Resolve()
	assert.NoError(t, err)
	assert.Equal(t, client, terminal)

	first := symbol.NewAlias(nil)
	second := symbol.NewAlias(first)
	first.Target = second
	terminal, err = first.Resolve()
	assert.ErrorIs(t, err, symbol.ErrAliasCycle)
	assert.Equal(t, symbol.Unknown, terminal.Kind)

	dangling := symbol.NewAlias(nil)
	terminal, err = dangling.Resolve()
	assert.NoError(t, err)
	assert.True(t, terminal.IsUnknown())
}

func TestBinding_Attribute(t *testing.T) {
	var testCases = []struct {
		description string
		binding     *symbol.Binding
		member      string
		expect      string
	}{
		{
			description: "record field",
			binding:     symbol.NewRecord(map[string]*symbol.Binding{"Bucket": symbol.NewLiteral("b")}),
			member:      "Bucket",
			expect:      "Literal(b)",
		},
		{
			description: "missing record field",
			binding:     symbol.NewRecord(nil),
			member:      "Key",
			expect:      "Unknown",
		},
		{
			description: "module member",
			binding:     symbol.NewImport("aws-sdk", ""),
			member:      "S3",
			expect:      "Import(aws-sdk.S3)",
		},
		{
			description: "nested module member",
			binding:     symbol.NewImport("aws-sdk", "DynamoDB"),
			member:      "DocumentClient",
			expect:      "Import(aws-sdk.DynamoDB.DocumentClient)",
		},
		{
			description: "client member",
			binding:     symbol.NewAlias(symbol.NewClient("s3")),
			member:      "config",
			expect:      "Unknown",
		},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.binding.Attribute(testCase.member).String(), testCase.description)
	}
}

func TestBinding_With(t *testing.T) {
	params := symbol.NewRecord(map[string]*symbol.Binding{"Bucket": symbol.NewLiteral("b")})
	updated := params.With([]string{"Key"}, symbol.NewLiteral("k"))

	assert.Len(t, params.Fields, 1)
	assert.Equal(t, "Record(Bucket,Key)", updated.String())
	assert.Equal(t, "k", updated.Attribute("Key").Value)

	nested := params.With([]string{"Tagging", "Key"}, symbol.NewLiteral("t"))
	assert.Equal(t, "t", nested.Attribute("Tagging").Attribute("Key").Value)

	unknown := symbol.NewUnknown().With([]string{"Key"}, symbol.NewLiteral("k"))
	assert.Equal(t, symbol.Unknown, unknown.Kind)
}

func TestMerge(t *testing.T) {
	assert.Equal(t, "Literal(a)", symbol.Merge(symbol.NewLiteral("a"), symbol.NewLiteral("a")).String())
	assert.Equal(t, "Unknown", symbol.Merge(symbol.NewLiteral("a"), symbol.NewLiteral("b")).String())
	assert.Equal(t, "Unknown", symbol.Merge(nil, symbol.NewLiteral("b")).String())
	assert.Equal(t, "Unknown", symbol.Merge(symbol.NewClient("s3"), symbol.NewClient("sqs")).String())
}

func TestBinding_Same_Resource(t *testing.T) {
	resource := func(name string, fields map[string]*symbol.Binding) *symbol.Binding {
		binding := symbol.NewClient("s3")
		binding.Variant = symbol.VariantResource
		binding.Type = name
		binding.Fields = fields
		return binding
	}
	assert.Equal(t, "Client(s3, Bucket)", resource("Bucket", nil).String())
	assert.True(t, resource("Bucket", nil).Same(resource("Bucket", nil)))
	assert.False(t, resource("Bucket", nil).Same(resource("Object", nil)))
	assert.False(t, resource("Bucket", nil).Same(symbol.NewClient("s3")))
	media := map[string]*symbol.Binding{"Bucket": symbol.NewLiteral("media")}
	assert.Equal(t, "Unknown", symbol.Merge(resource("Bucket", media), resource("Bucket", media)).String())
}
