package automaton

// STM derives the dense state-transition matrix spec.md §3 and §9
// ("Transition representation") ask for: one row of 256 target-state
// indices per state, used by Minimize and by emit.WriteC. Byte b with no
// matching edge gets the sentinel -1 ("no transition", spec.md §4.5) — there
// is no reserved dead state to fall back to, so the matrix is partial
// exactly where the automaton itself is partial.
func (a *Automaton) STM() [][256]int {
	stm := make([][256]int, len(a.Nodes))
	for i, n := range a.Nodes {
		for b := range stm[i] {
			stm[i][b] = -1
		}
		for _, e := range n.Edges {
			if e.Epsilon {
				continue
			}
			for b := int(e.Lo); b <= int(e.Hi); b++ {
				stm[i][b] = e.To
			}
		}
	}
	return stm
}
