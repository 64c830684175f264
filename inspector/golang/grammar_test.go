package golang

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/iamgen/inspector/graph"
)

func TestGrammar_Imports(t *testing.T) {
	source := []byte(`package main

import (
	"context"

	_ "embed"
	. "strings"

	"github.com/acme/api/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sm "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"gopkg.in/yaml.v3"
)

import "fmt"
`)
	grammar := New()
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
			actual = append(actual, item.Name+"="+item.Module)
		}
	}
	assert.Equal(t, []string{
		"context=context",
		"api=github.com/acme/api/v2",
		"s3=github.com/aws/aws-sdk-go-v2/service/s3",
		"sm=github.com/aws/aws-sdk-go-v2/service/secretsmanager",
		"yaml=gopkg.in/yaml.v3",
		"fmt=fmt",
	}, actual)
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "standard library", path: "net/http", expected: "http"},
		{name: "sdk service", path: "github.com/aws/aws-sdk-go-v2/service/dynamodb", expected: "dynamodb"},
		{name: "major version suffix", path: "github.com/sebdah/goldie/v2", expected: "goldie"},
		{name: "gopkg version", path: "gopkg.in/yaml.v3", expected: "yaml"},
		{name: "go prefix", path: "github.com/smacker/go-tree-sitter", expected: "tree-sitter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PackageName(tt.path))
		})
	}
}
