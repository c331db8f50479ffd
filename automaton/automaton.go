// Package automaton implements the single NFA/DFA container spec.md §3
// describes, plus the three transformations that turn a parsed regex into a
// minimal recognizer: Thompson construction, subset-construction
// determinization, and Moore partition-refinement minimization.
//
// One type, Automaton, serves both representations — exactly the teacher's
// own preference for reusing one node/edge shape across nfa.go and dfa.go
// rather than introducing parallel NFA/DFA types (see nex/dfa.go's node,
// shared with nex/graph.go's node for the NFA). Sparse edge lists drive
// construction and closure; a dense state-transition matrix (stm.go)
// is derived on demand for determinization, minimization and emission.
package automaton

import (
	"fmt"
	"io"

	"regex2c/internal/charutil"
)

// NoTag marks a non-accepting state's EndTag.
const NoTag = -1

// Automaton holds every node of an NFA, DFA, or minimized DFA. Nodes are
// addressed by their index in Nodes; Start names the initial state.
type Automaton struct {
	Nodes []Node
	Start int
}

// Node is one state: its outgoing edges (sparse; kept for NFAs, DFAs and
// minimized DFAs alike, and the source STM derives its rows from) and its
// accept tag.
type Node struct {
	Edges  []Edge
	EndTag int // NoTag if this state does not accept
}

// Edge connects one state to another, either unconditionally (epsilon) or
// on any byte in [Lo,Hi] inclusive.
type Edge struct {
	To      int
	Epsilon bool
	Lo, Hi  byte
}

// New returns an automaton with no nodes. AddNode grows it.
func New() *Automaton {
	return &Automaton{}
}

// AddNode appends a fresh, non-accepting state and returns its index.
func (a *Automaton) AddNode() int {
	a.Nodes = append(a.Nodes, Node{EndTag: NoTag})
	return len(a.Nodes) - 1
}

// Connect adds a directed byte-range edge from `from` to `to` covering
// [lo,hi] inclusive, mirroring automaton.c's connect_nodes with
// is_epsilon=0.
func (a *Automaton) Connect(from, to int, lo, hi byte) {
	a.Nodes[from].Edges = append(a.Nodes[from].Edges, Edge{To: to, Lo: lo, Hi: hi})
}

// ConnectEpsilon adds a directed epsilon edge, mirroring connect_nodes with
// is_epsilon=1.
func (a *Automaton) ConnectEpsilon(from, to int) {
	a.Nodes[from].Edges = append(a.Nodes[from].Edges, Edge{To: to, Epsilon: true})
}

// SetEndTag marks state as accepting with the given tag.
func (a *Automaton) SetEndTag(state, tag int) {
	a.Nodes[state].EndTag = tag
}

// NumNodes returns the number of states.
func (a *Automaton) NumNodes() int { return len(a.Nodes) }

// byteRanges splits a 256-entry membership mask into its maximal contiguous
// runs, e.g. {a,b,c,x} -> [(a,c),(x,x)]. Used wherever a class or wildcard
// needs to become one edge per contiguous run instead of one edge per byte
// (automaton.c's convert_ast_class_to_automaton_nodes connects one edge per
// member byte; coalescing here keeps the NFA small without changing the
// language it accepts).
func byteRanges(member func(b int) bool) [][2]byte {
	var runs [][2]byte
	inRun := false
	var lo byte
	for b := 0; b < 256; b++ {
		if member(b) {
			if !inRun {
				lo = byte(b)
				inRun = true
			}
		} else if inRun {
			runs = append(runs, [2]byte{lo, byte(b - 1)})
			inRun = false
		}
	}
	if inRun {
		runs = append(runs, [2]byte{lo, 255})
	}
	return runs
}

// Print writes a debug dump of a in automaton.c's print_automaton shape:
// one line per state naming its index, start/accept markers, and edges.
func (a *Automaton) Print(w io.Writer) {
	fmt.Fprintf(w, "Automaton (nodes = %d)\n", len(a.Nodes))
	for i, n := range a.Nodes {
		start := ' '
		if i == a.Start {
			start = '>'
		}
		accept := ' '
		if n.EndTag != NoTag {
			accept = '*'
		}
		fmt.Fprintf(w, "%c%c #%d", start, accept, i)
		for _, e := range n.Edges {
			switch {
			case e.Epsilon:
				fmt.Fprintf(w, " eps->%d", e.To)
			case e.Lo == 0 && e.Hi == 255:
				fmt.Fprintf(w, " any->%d", e.To)
			case e.Lo == e.Hi:
				fmt.Fprintf(w, " %s->%d", charutil.PrintByte(int(e.Lo)), e.To)
			default:
				fmt.Fprintf(w, " %s..%s->%d", charutil.PrintByte(int(e.Lo)), charutil.PrintByte(int(e.Hi)), e.To)
			}
		}
		fmt.Fprintf(w, "\n")
	}
}
