package inspector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/iamgen/inspector"
	"github.com/viant/iamgen/inspector/graph"
)

func TestFactory_Detect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		override graph.Language
		wantErr  bool
		expect   graph.Language
	}{
		{name: "Go file", filename: "main.go", expect: graph.LanguageGo},
		{name: "JS file", filename: "index.js", expect: graph.LanguageJavaScript},
		{name: "JSX file", filename: "Component.jsx", expect: graph.LanguageJavaScript},
		{name: "ES module", filename: "handler.mjs", expect: graph.LanguageJavaScript},
		{name: "TS file", filename: "handler.ts", expect: graph.LanguageTypeScript},
		{name: "TSX file", filename: "App.tsx", expect: graph.LanguageTSX},
		{name: "Python file", filename: "app.py", expect: graph.LanguagePython},
		{name: "Upper case extension", filename: "APP.PY", expect: graph.LanguagePython},
		{name: "Override", filename: "script", override: graph.LanguagePython, expect: graph.LanguagePython},
		{name: "Override wins", filename: "lambda.js", override: graph.LanguageTypeScript, expect: graph.LanguageTypeScript},
		{name: "Unsupported file", filename: "test.cpp", wantErr: true},
		{name: "Unsupported override", filename: "main.go", override: graph.Language("java"), wantErr: true},
	}

	factory := inspector.NewFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			language, err := factory.Detect(tt.filename, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, language)
		})
	}
}

func TestFactory_Parse(t *testing.T) {
	tests := []struct {
		name      string
		language  graph.Language
		source    string
		wantError bool
		errorLine int
	}{
		{name: "valid go", language: graph.LanguageGo, source: "package main\n\nfunc main() {}\n"},
		{name: "valid python", language: graph.LanguagePython, source: "import boto3\nclient = boto3.client('s3')\n"},
		{name: "valid javascript", language: graph.LanguageJavaScript, source: "const x = require('aws-sdk');\n"},
		{name: "valid typescript", language: graph.LanguageTypeScript, source: "const x: string = 'a';\n"},
		{name: "valid tsx", language: graph.LanguageTSX, source: "const App = () => <div>{name}</div>;\n"},
		{name: "malformed python", language: graph.LanguagePython, source: "def f(:\n    pass\n", wantError: true, errorLine: 1},
		{name: "malformed javascript", language: graph.LanguageJavaScript, source: "const a = 1;\nconst = ;\n", wantError: true, errorLine: 2},
	}

	factory := inspector.NewFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := graph.NewSourceUnit("file", tt.language, []byte(tt.source))
			tree, err := factory.Parse(context.Background(), unit)
			if tt.wantError {
				var parseErr *inspector.ParseError
				require.True(t, errors.As(err, &parseErr))
				assert.Equal(t, "file", parseErr.File)
				assert.Equal(t, tt.errorLine, parseErr.Line)
				return
			}
			require.NoError(t, err)
			defer tree.Close()
			assert.NotNil(t, tree.Root())
			assert.Equal(t, unit, tree.Unit)
		})
	}
}

func TestFactory_Parse_Repeated(t *testing.T) {
	factory := inspector.NewFactory()
	var trees []*graph.Tree
	for i := 0; i < 64; i++ {
		tree, err := factory.Parse(context.Background(), graph.NewSourceUnit("app.py", graph.LanguagePython, []byte("import boto3\n")))
		require.NoError(t, err)
		trees = append(trees, tree)
	}
	for _, tree := range trees {
		assert.Equal(t, "module", tree.Root().Type())
		assert.EqualValues(t, 1, tree.Root().NamedChildCount())
		tree.Close()
	}
}
