package graph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Text returns node content
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// NamedChildren returns node named children
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	result := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := n.NamedChild(i); child != nil {
			result = append(result, child)
		}
	}
	return result
}

// ChildOfType returns first named child with matching type
func ChildOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, child := range NamedChildren(n) {
		for _, candidate := range types {
			if child.Type() == candidate {
				return child
			}
		}
	}
	return nil
}

// FirstError returns first syntax error or missing node
func FirstError(n *sitter.Node) *sitter.Node {
	if n == nil || !n.HasError() {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if found := FirstError(n.Child(i)); found != nil {
			return found
		}
	}
	return n
}
