package graph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind represents language independent node category
type Kind int

const (
	KindOther Kind = iota
	KindCall
	KindNew
	KindMember
	KindIdentifier
	KindString
	KindNumber
	KindObject
	KindBinary
	KindImport
	KindAssignment
	KindFunction
	KindClass
	KindBlock
	KindWrapper
	KindTypeDecl
)

var kindNames = map[Kind]string{
	KindOther:      "other",
	KindCall:       "call",
	KindNew:        "new",
	KindMember:     "member",
	KindIdentifier: "identifier",
	KindString:     "string",
	KindNumber:     "number",
	KindObject:     "object",
	KindBinary:     "binary",
	KindImport:     "import",
	KindAssignment: "assignment",
	KindFunction:   "function",
	KindClass:      "class",
	KindBlock:      "block",
	KindWrapper:    "wrapper",
	KindTypeDecl:   "type",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Import represents a single imported name
type Import struct {
	Name     string // local name
	Module   string // module, package or import path
	Member   string // imported member, empty for whole module import
	Location Location
}

// Target represents assignment destination
type Target struct {
	Name  string   // base identifier
	Path  []string // member path for obj.a.b = v
	Key   string   // destructured property key
	Index int      // destructured position, -1 if none
}

// Assignment represents declaration or assignment of one value
type Assignment struct {
	Targets []Target
	Value   *sitter.Node
	Type    string // declared type as written
	Declare bool
	Opaque  bool // compound assignment, targets lose known value
}

// Argument represents call argument
type Argument struct {
	Name   string // keyword name
	Value  *sitter.Node
	Spread bool
}

// Field represents object, dict or struct literal field
type Field struct {
	Key    string
	Value  *sitter.Node
	Spread bool
}

// Param represents function parameter
type Param struct {
	Name string
	Type string
}

// Function represents function, method or closure boundary
type Function struct {
	Name     string
	Receiver *Param
	Params   []Param
	Result   string // first declared result type
	Body     *sitter.Node
}

// TypeSpec represents named type declaration
type TypeSpec struct {
	Name      string
	Interface bool
	Fields    map[string]string // field name to declared type
}

// Grammar exposes language specific syntax as language independent facts
type Grammar interface {
	// Language returns tree-sitter language
	Language() *sitter.Language
	// Kind classifies a node
	Kind(n *sitter.Node) Kind
	// Imports returns names bound by import node
	Imports(n *sitter.Node, src []byte) []Import
	// Assignments returns assignments of declaration or assignment node
	Assignments(n *sitter.Node, src []byte) []Assignment
	// Callee returns function node of call or constructor node of new expression
	Callee(n *sitter.Node) *sitter.Node
	// Arguments returns call or new expression arguments
	Arguments(n *sitter.Node, src []byte) []Argument
	// Member returns object and property of member access
	Member(n *sitter.Node, src []byte) (*sitter.Node, string, bool)
	// Fields returns object literal type name (if any) and fields
	Fields(n *sitter.Node, src []byte) (string, []Field)
	// StringValue returns string literal value, false for interpolated strings
	StringValue(n *sitter.Node, src []byte) (string, bool)
	// Operands returns binary expression operands and operator
	Operands(n *sitter.Node, src []byte) (*sitter.Node, *sitter.Node, string)
	// Unwrap returns wrapped expression
	Unwrap(n *sitter.Node) *sitter.Node
	// Function returns function boundary details
	Function(n *sitter.Node, src []byte) *Function
	// Class returns class name and body
	Class(n *sitter.Node, src []byte) (string, *sitter.Node)
	// Types returns named types declared by type declaration
	Types(n *sitter.Node, src []byte) []TypeSpec
}
