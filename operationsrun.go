package automaton

import "github.com/bits-and-blooms/bitset"

// Run Returns true if the given automaton accepts the word. Deterministic and non-deterministic automata
// are both simulated by tracking the set of current states, starting from the initial state. The word is
// rejected as soon as that set becomes empty.
func Run(a *Automaton, word []byte) bool {
	numStates := uint(a.GetNumStates())
	current := bitset.New(numStates)
	next := bitset.New(numStates)
	current.Set(0)

	for _, c := range word {
		for s, ok := current.NextSet(0); ok; s, ok = current.NextSet(s + 1) {
			for _, dest := range a.Transitions(int(s), c) {
				next.Set(uint(dest))
			}
		}
		if next.None() {
			return false
		}
		current, next = next, current
		next.ClearAll()
	}
	return current.IntersectionCardinality(a.isAccept) > 0
}

// RunString Returns true if the given automaton accepts the bytes of s.
func RunString(a *Automaton, s string) bool {
	return Run(a, []byte(s))
}
