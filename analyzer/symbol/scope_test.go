package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/iamgen/analyzer/symbol"
)

func TestScope_Lookup(t *testing.T) {
	file := symbol.NewScope("app.py")
	file.Declare("bucket", symbol.NewLiteral("a"))
	file.Assign("bucket", symbol.NewLiteral("b"))

	binding, ok := file.Lookup("bucket")
	require.True(t, ok)
	assert.Equal(t, "b", binding.Value)
	assert.Len(t, file.History("bucket"), 2)

	_, ok = file.Lookup("missing")
	assert.False(t, ok)
}

func TestScope_ClosureDoesNotLeak(t *testing.T) {
	file := symbol.NewScope("app.js")
	file.Declare("client", symbol.NewClient("s3"))

	closure := file.Push(symbol.ScopeFunction, "handler")
	inherited, ok := closure.Lookup("client")
	require.True(t, ok)
	assert.Equal(t, "s3", inherited.Service)

	closure.Assign("client", symbol.NewClient("dynamodb"))
	closure.Declare("local", symbol.NewLiteral("x"))
	inner, _ := closure.Lookup("client")
	assert.Equal(t, "dynamodb", inner.Service)

	parent := closure.Pop()
	assert.Equal(t, file, parent)
	outer, _ := file.Lookup("client")
	assert.Equal(t, "s3", outer.Service)
	_, ok = file.Lookup("local")
	assert.False(t, ok)
}

func TestScope_BlockMerge(t *testing.T) {
	var testCases = []struct {
		description string
		initial     *symbol.Binding
		assigned    *symbol.Binding
		expectKind  symbol.Kind
		expectValue string
	}{
		{
			description: "same literal survives block",
			initial:     symbol.NewLiteral("bucket"),
			assigned:    symbol.NewLiteral("bucket"),
			expectKind:  symbol.Literal,
			expectValue: "bucket",
		},
		{
			description: "different literal becomes unknown",
			initial:     symbol.NewLiteral("bucket"),
			assigned:    symbol.NewLiteral("other"),
			expectKind:  symbol.Unknown,
		},
		{
			description: "same client service survives block",
			initial:     symbol.NewClient("s3"),
			assigned:    symbol.NewClient("s3"),
			expectKind:  symbol.Client,
		},
	}

	for _, testCase := range testCases {
		file := symbol.NewScope("main.go")
		fn := file.Push(symbol.ScopeFunction, "main")
		fn.Declare("name", testCase.initial)
		block := fn.Push(symbol.ScopeBlock, "")
		block.Assign("name", testCase.assigned)
		inBlock, _ := block.Lookup("name")
		assert.Equal(t, testCase.assigned, inBlock, testCase.description)
		block.Pop()
		actual, ok := fn.Lookup("name")
		require.True(t, ok, testCase.description)
		assert.Equal(t, testCase.expectKind, actual.Terminal().Kind, testCase.description)
		if testCase.expectValue != "" {
			assert.Equal(t, testCase.expectValue, actual.Terminal().Value, testCase.description)
		}
	}
}

func TestScope_NestedBlockMerge(t *testing.T) {
	fn := symbol.NewScope("main.go").Push(symbol.ScopeFunction, "main")
	fn.Declare("params", symbol.NewRecord(map[string]*symbol.Binding{"Bucket": symbol.NewLiteral("b")}))
	outer := fn.Push(symbol.ScopeBlock, "")
	inner := outer.Push(symbol.ScopeBlock, "")
	current, _ := inner.Lookup("params")
	inner.Assign("params", current.With([]string{"Key"}, symbol.NewLiteral("k")))
	inner.Pop()
	outer.Pop()

	params, _ := fn.Lookup("params")
	terminal := params.Terminal()
	require.Equal(t, symbol.Record, terminal.Kind)
	assert.Equal(t, "b", terminal.Fields["Bucket"].Value)
	assert.Equal(t, symbol.Unknown, terminal.Fields["Key"].Kind)
}

func TestScope_ClassMembers(t *testing.T) {
	file := symbol.NewScope("service.py")
	class := file.Push(symbol.ScopeClass, "Store")
	init := class.Push(symbol.ScopeFunction, "__init__")
	init.Class().Declare("self.client", symbol.NewClient("s3"))
	init.Pop()

	method := class.Push(symbol.ScopeFunction, "put")
	binding, ok := method.Lookup("self.client")
	require.True(t, ok)
	assert.Equal(t, "s3", binding.Service)
	assert.Equal(t, class, method.Function().Parent)
	assert.NotEqual(t, class.ID, method.ID)
}
