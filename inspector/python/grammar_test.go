package python

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/iamgen/inspector/graph"
)

func TestGrammar_Imports(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{name: "module", source: "import boto3\n", expected: []string{"boto3=boto3:"}},
		{name: "aliased module", source: "import boto3 as aws\n", expected: []string{"aws=boto3:"}},
		{name: "sub module", source: "import botocore.session\n", expected: []string{"botocore=botocore:"}},
		{
			name:     "from import",
			source:   "from aiobotocore.session import get_session, AioSession as Session\n",
			expected: []string{"get_session=aiobotocore.session:get_session", "Session=aiobotocore.session:AioSession"},
		},
	}
	grammar := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := []byte(tt.source)
			parser := sitter.NewParser()
			parser.SetLanguage(grammar.Language())
			tree, err := parser.ParseCtx(context.Background(), nil, source)
			require.NoError(t, err)
			defer tree.Close()

			var actual []string
			for _, child := range graph.NamedChildren(tree.RootNode()) {
				if grammar.Kind(child) != graph.KindImport {
					continue
				}
				for _, item := range grammar.Imports(child, source) {
					actual = append(actual, item.Name+"="+item.Module+":"+item.Member)
				}
			}
			assert.Equal(t, tt.expected, actual)
		})
	}
}
