// Package regdef holds the named regular-definition registry that the
// parser's {NAME} reference syntax resolves against. A Registry owns the
// canonical ast.Node root for each defined name; Lookup hands out a pointer
// to a copy of that root, so the Ref nodes in a parsed tree hold the name
// plus that copy, never a pointer into the registry, and the registry can
// outlive (or be discarded independently of) any one parsed expression.
package regdef

import "regex2c/ast"

// Registry maps regular-definition names to their resolved expression
// trees. The zero value is an empty registry ready to use.
type Registry struct {
	defs map[string]ast.Node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]ast.Node)}
}

// Define registers name as resolving to root. A later Define with the same
// name overwrites the previous definition.
func (r *Registry) Define(name string, root ast.Node) {
	if r.defs == nil {
		r.defs = make(map[string]ast.Node)
	}
	r.defs[name] = root
}

// Lookup resolves name, reporting whether it is defined. This implements
// the collaborator operation get_definition(name) from spec.md §6.
func (r *Registry) Lookup(name string) (*ast.Node, bool) {
	if r == nil {
		return nil, false
	}
	n, ok := r.defs[name]
	if !ok {
		return nil, false
	}
	return &n, true
}
