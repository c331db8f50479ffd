package automaton

import "sort"

// Simulate is a brute-force reference recognizer used only by tests: it
// walks epsilon-closures and byte moves directly over a's edge lists,
// without ever building a transition matrix, so it can check Build,
// Determinize and Minimize's outputs against each other independently of
// any of their own machinery. It reports whether s is accepted and, if so,
// the tag of the state chosen by Determinize's choseEndTag rule (lowest
// tag among the accepting states reached).
func Simulate(a *Automaton, s []byte) (tag int, ok bool) {
	current := epsilonClosure(a, []int{a.Start})
	for _, b := range s {
		var next []int
		for _, state := range current {
			for _, e := range a.Nodes[state].Edges {
				if !e.Epsilon && e.Lo <= b && b <= e.Hi {
					next = append(next, e.To)
				}
			}
		}
		current = epsilonClosure(a, next)
		if len(current) == 0 {
			return NoTag, false
		}
	}

	tag = NoTag
	for _, state := range current {
		t := a.Nodes[state].EndTag
		if t == NoTag {
			continue
		}
		if tag == NoTag || t < tag {
			tag = t
		}
	}
	return tag, tag != NoTag
}

func epsilonClosure(a *Automaton, states []int) []int {
	visited := make(map[int]bool)
	stack := append([]int{}, states...)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[s] {
			continue
		}
		visited[s] = true
		for _, e := range a.Nodes[s].Edges {
			if e.Epsilon && !visited[e.To] {
				stack = append(stack, e.To)
			}
		}
	}
	out := make([]int, 0, len(visited))
	for s := range visited {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
