package inspector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/iamgen/inspector/golang"
	"github.com/viant/iamgen/inspector/graph"
	"github.com/viant/iamgen/inspector/jsx"
	"github.com/viant/iamgen/inspector/python"
)

// ParseError represents malformed or unsupported syntax in one file
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// Factory detects source language and parses source units
type Factory struct {
	grammars   map[graph.Language]graph.Grammar
	extensions map[string]graph.Language
}

// NewFactory creates a new inspector factory
func NewFactory() *Factory {
	return &Factory{
		grammars: map[graph.Language]graph.Grammar{
			graph.LanguageGo:         golang.New(),
			graph.LanguageJavaScript: jsx.JavaScript(),
			graph.LanguageTypeScript: jsx.TypeScript(),
			graph.LanguageTSX:        jsx.TSX(),
			graph.LanguagePython:     python.New(),
		},
		extensions: map[string]graph.Language{
			".go":  graph.LanguageGo,
			".js":  graph.LanguageJavaScript,
			".jsx": graph.LanguageJavaScript,
			".mjs": graph.LanguageJavaScript,
			".cjs": graph.LanguageJavaScript,
			".ts":  graph.LanguageTypeScript,
			".mts": graph.LanguageTypeScript,
			".cts": graph.LanguageTypeScript,
			".tsx": graph.LanguageTSX,
			".py":  graph.LanguagePython,
			".pyi": graph.LanguagePython,
		},
	}
}

// Detect returns language for filename, explicit override wins over extension
func (f *Factory) Detect(filename string, override graph.Language) (graph.Language, error) {
	if override != graph.LanguageUnknown {
		if _, ok := f.grammars[override]; !ok {
			return graph.LanguageUnknown, fmt.Errorf("unsupported language: %s", override)
		}
		return override, nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if language, ok := f.extensions[ext]; ok {
		return language, nil
	}
	return graph.LanguageUnknown, fmt.Errorf("unsupported file type: %s", ext)
}

// Supported reports whether filename has supported extension
func (f *Factory) Supported(filename string) bool {
	_, ok := f.extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Grammar returns grammar for language
func (f *Factory) Grammar(language graph.Language) (graph.Grammar, error) {
	grammar, ok := f.grammars[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	return grammar, nil
}

// Parse parses source unit, syntax errors are reported as *ParseError
func (f *Factory) Parse(ctx context.Context, unit *graph.SourceUnit) (*graph.Tree, error) {
	grammar, err := f.Grammar(unit.Language)
	if err != nil {
		return nil, &ParseError{File: unit.Path, Message: err.Error()}
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar.Language())
	tree, err := parser.ParseCtx(ctx, nil, unit.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", unit.Path, err)
	}
	if node := graph.FirstError(tree.RootNode()); node != nil {
		location := graph.LocationOf(node)
		message := "syntax error"
		if node.IsMissing() {
			message = fmt.Sprintf("missing %s", node.Type())
		}
		tree.Close()
		return nil, &ParseError{File: unit.Path, Line: location.Line, Message: fmt.Sprintf("%s at column %d", message, location.Column)}
	}
	return graph.NewTree(unit, grammar, tree), nil
}
