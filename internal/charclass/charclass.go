// Package charclass provides the 256-entry byte membership mask shared by
// the parser's character classes and the automaton's class/wildcard
// transitions.
package charclass

// Mask is a membership set over the byte alphabet [0,255]. A Class AST node
// owns a Mask directly; an InvClass node owns the same kind of Mask but is
// interpreted inversely when its transitions are expanded (see automaton's
// Thompson construction).
type Mask [256]bool

// SetByte marks b as a member.
func (m *Mask) SetByte(b byte) {
	m[b] = true
}

// SetRange marks every byte in [lo,hi] (inclusive) as a member. Callers are
// responsible for the lo < hi strictness the grammar requires; SetRange
// itself tolerates lo == hi (a single-byte "range").
func (m *Mask) SetRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		m[c] = true
	}
}

// Has reports whether byte b is a member of the mask.
func (m Mask) Has(b byte) bool {
	return m[b]
}

// Count returns the number of member bytes.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
