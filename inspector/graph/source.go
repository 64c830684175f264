package graph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Language identifies a supported source language
type Language string

const (
	LanguageUnknown    Language = ""
	LanguageGo         Language = "go"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguagePython     Language = "python"
)

// Languages lists supported languages in a stable order
var Languages = []Language{LanguageGo, LanguageJavaScript, LanguageTypeScript, LanguageTSX, LanguagePython}

// IsScript reports whether language belongs to the JavaScript family
func (l Language) IsScript() bool {
	return l == LanguageJavaScript || l == LanguageTypeScript || l == LanguageTSX
}

// SourceUnit represents one input file
type SourceUnit struct {
	Path     string
	Language Language
	Source   []byte
}

// NewSourceUnit creates a source unit
func NewSourceUnit(path string, language Language, source []byte) *SourceUnit {
	return &SourceUnit{Path: path, Language: language, Source: source}
}

// Hash returns hex encoded source fingerprint
func (u *SourceUnit) Hash() (string, error) {
	return Digest(u.Source)
}

// Location represents 1-based position in a source unit
type Location struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// LocationOf returns node start location
func LocationOf(n *sitter.Node) Location {
	if n == nil {
		return Location{}
	}
	point := n.StartPoint()
	return Location{Line: int(point.Row) + 1, Column: int(point.Column) + 1}
}

// Tree represents parsed source unit
type Tree struct {
	Unit    *SourceUnit
	Grammar Grammar
	tree    *sitter.Tree
}

// Root returns tree root node
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases parser resources
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// NewTree creates a tree
func NewTree(unit *SourceUnit, grammar Grammar, tree *sitter.Tree) *Tree {
	return &Tree{Unit: unit, Grammar: grammar, tree: tree}
}
