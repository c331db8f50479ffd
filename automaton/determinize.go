package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Determinize runs subset construction over nfa, producing an equivalent
// deterministic automaton. Grounded on the teacher's nex/dfa.go
// dfaBuilder (tab map[string]*node keyed by a canonical membership string,
// todo worklist, nilClose epsilon-closure) and on
// aretext-aretext/.../automata.go's CompileDfa (stack-based worklist,
// emptyTransitionsClosure, canonical-key map). Byte transitions are derived
// by splitting the byte alphabet at edge boundaries instead of iterating
// all 256 bytes per state, so the result already has coalesced range edges
// — the same shape emit.WriteC needs for its `case lo ... hi:` labels.
//
// The result is total over visited states but intentionally partial: a
// byte with no outgoing edge from a state simply has no Edge for it (spec.md
// §4.4), which STM() surfaces as the -1 "no transition" sentinel rather than
// as a transition to some materialized dead state.
func Determinize(nfa *Automaton) *Automaton {
	b := &detBuilder{nfa: nfa, dfa: New(), seen: make(map[string]int)}

	startSet := b.closure([]int{nfa.Start})
	b.dfa.Start = b.getOrCreate(startSet)

	for len(b.todo) > 0 {
		set := b.todo[len(b.todo)-1]
		b.todo = b.todo[:len(b.todo)-1]
		b.expand(set)
	}

	log.WithFields(logrus.Fields{
		"nfa_states": len(nfa.Nodes),
		"dfa_states": len(b.dfa.Nodes),
	}).Debug("determinize: subset construction complete")

	return b.dfa
}

type detBuilder struct {
	nfa  *Automaton
	dfa  *Automaton
	seen map[string]int // canonical NFA-state-set key -> DFA node index
	todo [][]int
}

// closure returns the epsilon-closure of states, sorted and deduplicated.
func (b *detBuilder) closure(states []int) []int {
	visited := make(map[int]bool)
	stack := append([]int{}, states...)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[s] {
			continue
		}
		visited[s] = true
		for _, e := range b.nfa.Nodes[s].Edges {
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

func key(set []int) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// choseEndTag picks the tag a DFA state inherits when more than one NFA
// accept state is present in its subset: the lowest tag value, i.e. the
// earliest-declared pattern wins — the conventional lexer tie-break for
// overlapping patterns (spec.md §4.4's choose_end_tag).
func (b *detBuilder) choseEndTag(set []int) int {
	tag := NoTag
	for _, s := range set {
		t := b.nfa.Nodes[s].EndTag
		if t == NoTag {
			continue
		}
		if tag == NoTag || t < tag {
			tag = t
		}
	}
	return tag
}

func (b *detBuilder) getOrCreate(set []int) int {
	k := key(set)
	if idx, ok := b.seen[k]; ok {
		return idx
	}
	idx := b.dfa.AddNode()
	b.dfa.SetEndTag(idx, b.choseEndTag(set))
	b.seen[k] = idx
	b.todo = append(b.todo, set)
	return idx
}

// expand computes every outgoing transition of the DFA state for set by
// splitting [0,255] at the boundaries of the NFA edges leaving set's
// members, so each resulting sub-range maps to exactly one target subset.
func (b *detBuilder) expand(set []int) {
	from := b.seen[key(set)]

	var bounds []int
	for _, s := range set {
		for _, e := range b.nfa.Nodes[s].Edges {
			if e.Epsilon {
				continue
			}
			bounds = append(bounds, int(e.Lo), int(e.Hi)+1)
		}
	}
	if len(bounds) == 0 {
		return
	}
	sort.Ints(bounds)
	bounds = dedupInts(bounds)

	for i := 0; i+1 < len(bounds); i++ {
		lo, hiExclusive := bounds[i], bounds[i+1]
		if lo > 255 {
			break
		}
		hi := hiExclusive - 1
		if hi > 255 {
			hi = 255
		}

		var next []int
		for _, s := range set {
			for _, e := range b.nfa.Nodes[s].Edges {
				if e.Epsilon {
					continue
				}
				if int(e.Lo) <= lo && hi <= int(e.Hi) {
					next = append(next, e.To)
				}
			}
		}
		if len(next) == 0 {
			continue
		}
		targetSet := b.closure(next)
		to := b.getOrCreate(targetSet)
		b.dfa.Connect(from, to, byte(lo), byte(hi))
	}
}

func dedupInts(s []int) []int {
	out := s[:0]
	var prev int
	for i, v := range s {
		if i == 0 || v != prev {
			out = append(out, v)
		}
		prev = v
	}
	return out
}
