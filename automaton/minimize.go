package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Minimize runs Moore partition refinement over a deterministic automaton
// (the output of Determinize), producing the quotient automaton with the
// fewest states that accepts the same language with the same tags.
//
// Neither the teacher nor the original C source has a working minimizer to
// ground this on — original_source/automaton.c's minimize is a stub
// ("// TODO: write this"), a historical gap spec.md §9 calls out explicitly.
// This is grounded instead on the one complete reference implementation
// found in the retrieved pack, aretext-aretext's
// DfaBuilder.groupEquivalentStates/initialGroups/splitGroupsIfNecessary/
// canSplitGroup/indexStatesByGroup/newDfaFromGroups: partition first by
// accept tag, then repeatedly split any group whose members disagree on
// which group their per-byte targets land in (treating the -1 "no
// transition" sentinel as its own target, never a real group), until a
// fixed point.
func Minimize(dfa *Automaton) *Automaton {
	stm := dfa.STM()
	groups := initialGroups(dfa)
	for round := 1; ; round++ {
		next := splitGroups(groups, stm)
		log.WithFields(logrus.Fields{"round": round, "groups": len(next)}).Debug("minimize: partition round")
		if len(next) == len(groups) {
			break
		}
		groups = next
	}
	out := quotient(dfa, stm, groups)
	log.WithFields(logrus.Fields{
		"dfa_states": len(dfa.Nodes),
		"min_states": len(out.Nodes),
	}).Debug("minimize: complete")
	return out
}

// initialGroups partitions every state by accept tag.
func initialGroups(dfa *Automaton) [][]int {
	byTag := make(map[int][]int)
	for s := 0; s < len(dfa.Nodes); s++ {
		tag := dfa.Nodes[s].EndTag
		byTag[tag] = append(byTag[tag], s)
	}

	var groups [][]int
	for _, tag := range sortedTagKeys(byTag) {
		groups = append(groups, byTag[tag])
	}
	return groups
}

func sortedTagKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func indexByGroup(groups [][]int, numStates int) []int {
	stateToGroup := make([]int, numStates)
	for g, states := range groups {
		for _, s := range states {
			stateToGroup[s] = g
		}
	}
	return stateToGroup
}

// splitGroups refines groups once: any group whose members disagree on
// which group their per-byte transitions land in is split along that
// disagreement. A group of size 1 can never be split further.
func splitGroups(groups [][]int, stm [][256]int) [][]int {
	stateToGroup := indexByGroup(groups, len(stm))

	var next [][]int
	for _, states := range groups {
		if len(states) == 1 {
			next = append(next, states)
			continue
		}

		buckets := make(map[string][]int, len(states))
		for _, s := range states {
			buckets[signature(stateToGroup, stm[s])] = append(buckets[signature(stateToGroup, stm[s])], s)
		}
		for _, key := range sortedStringKeys(buckets) {
			next = append(next, buckets[key])
		}
	}
	return next
}

func signature(stateToGroup []int, row [256]int) string {
	parts := make([]string, 256)
	for b, target := range row {
		if target == -1 {
			parts[b] = "-1"
			continue
		}
		parts[b] = strconv.Itoa(stateToGroup[target])
	}
	return strings.Join(parts, ",")
}

func sortedStringKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// quotient builds the minimized automaton: one state per group, transitions
// and tags copied from an arbitrary representative of each group (every
// member agrees by construction once splitGroups has reached its fixed
// point). A representative byte with no transition (-1) stays unconnected
// in the output too, rather than being routed to a synthesized dead state.
func quotient(dfa *Automaton, stm [][256]int, groups [][]int) *Automaton {
	stateToGroup := indexByGroup(groups, len(stm))

	out := New()
	for range groups {
		out.AddNode()
	}
	out.Start = stateToGroup[dfa.Start]

	groupTarget := func(b int, row [256]int) int {
		if row[b] == -1 {
			return -1
		}
		return stateToGroup[row[b]]
	}

	for g, states := range groups {
		rep := states[0]
		out.SetEndTag(g, dfa.Nodes[rep].EndTag)

		row := stm[rep]
		b := 0
		for b < 256 {
			target := groupTarget(b, row)
			hi := b
			for hi+1 < 256 && groupTarget(hi+1, row) == target {
				hi++
			}
			if target != -1 {
				out.Connect(g, target, byte(b), byte(hi))
			}
			b = hi + 1
		}
	}
	return out
}
