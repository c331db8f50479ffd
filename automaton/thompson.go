package automaton

import "regex2c/ast"

// Build runs Thompson construction over root, producing an NFA whose single
// accept state carries tag 0. Grounded production-for-production on
// ast2automaton.c's convert_ast_to_automaton / convert_ast_to_automaton_nodes
// family; sizeOf mirrors get_automaton_nodes_from_ast, used here only to
// preallocate Nodes (Go slices grow on their own, but the original needed an
// exact upfront node count since create_automaton callocs a fixed array).
func Build(root *ast.Node) *Automaton {
	a := &Automaton{Nodes: make([]Node, 0, sizeOf(root))}
	start, end := buildNode(a, root)
	a.Start = start
	a.SetEndTag(end, 0)
	return a
}

// BuildList builds the union of patterns, one NFA fragment per element,
// each keeping its own accept tag equal to its index — the ast_list ->
// automaton front end from ast2automaton.h's convert_ast_list_to_automaton,
// a documented but never-CLI-wired construction in the original tool.
func BuildList(patterns []ast.Node) *Automaton {
	total := 0
	for i := range patterns {
		total += sizeOf(&patterns[i])
	}
	a := &Automaton{Nodes: make([]Node, 0, total+1)}
	a.Start = a.AddNode()
	for tag, p := range patterns {
		start, end := buildNode(a, &p)
		a.ConnectEpsilon(a.Start, start)
		a.SetEndTag(end, tag)
	}
	return a
}

func sizeOf(n *ast.Node) int {
	switch n.Kind {
	case ast.Alt, ast.Star, ast.Plus:
		c := 2
		for i := range n.Children {
			c += sizeOf(&n.Children[i])
		}
		return c
	case ast.Concat, ast.Opt:
		c := 0
		for i := range n.Children {
			c += sizeOf(&n.Children[i])
		}
		return c
	case ast.Char, ast.Class, ast.InvClass, ast.Wildcard:
		return 2
	case ast.Ref:
		return sizeOf(n.Reference)
	default:
		return 0
	}
}

// buildNode constructs the fragment for n and returns its (start, end) node
// indices.
func buildNode(a *Automaton, n *ast.Node) (start, end int) {
	switch n.Kind {
	case ast.Char:
		start, end = a.AddNode(), a.AddNode()
		a.Connect(start, end, n.Byte, n.Byte)
		return start, end

	case ast.Class, ast.InvClass:
		start, end = a.AddNode(), a.AddNode()
		inverted := n.Kind == ast.InvClass
		for _, r := range byteRanges(func(b int) bool { return n.Mask.Has(byte(b)) != inverted }) {
			a.Connect(start, end, r[0], r[1])
		}
		return start, end

	case ast.Wildcard:
		start, end = a.AddNode(), a.AddNode()
		a.Connect(start, end, 0, 255)
		return start, end

	case ast.Concat:
		start, end = buildNode(a, &n.Children[0])
		for i := 1; i < len(n.Children); i++ {
			nextStart, nextEnd := buildNode(a, &n.Children[i])
			a.ConnectEpsilon(end, nextStart)
			end = nextEnd
		}
		return start, end

	case ast.Alt:
		start, end = a.AddNode(), a.AddNode()
		for i := range n.Children {
			innerStart, innerEnd := buildNode(a, &n.Children[i])
			a.ConnectEpsilon(start, innerStart)
			a.ConnectEpsilon(innerEnd, end)
		}
		return start, end

	case ast.Star, ast.Plus:
		start, end = a.AddNode(), a.AddNode()
		innerStart, innerEnd := buildNode(a, n.Child())
		a.ConnectEpsilon(innerEnd, innerStart)
		a.ConnectEpsilon(start, innerStart)
		a.ConnectEpsilon(innerEnd, end)
		if n.Kind == ast.Star {
			a.ConnectEpsilon(start, end)
		}
		return start, end

	case ast.Opt:
		start, end = buildNode(a, n.Child())
		a.ConnectEpsilon(start, end)
		return start, end

	case ast.Ref:
		return buildNode(a, n.Reference)

	default:
		panic("automaton: unreachable ast kind in buildNode")
	}
}
