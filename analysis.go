package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// IsEmpty
// Returns true if the given automaton accepts no strings.
func IsEmpty(a *Automaton) bool {
	if !a.IsAccept(0) && a.GetNumTransitionsWithState(0) == 0 {
		// Common case: just one initial state
		return true
	}
	if a.IsAccept(0) {
		// Apparently common case: it accepts the empty string
		return false
	}

	live := getLiveStatesFromInitial(a)
	return live.IntersectionCardinality(a.isAccept) == 0
}

// IsTotal
// Returns true if the given automaton accepts all strings over its alphabet. The automaton must be
// minimized.
func IsTotal(a *Automaton) bool {
	if a.GetNumStates() != 1 || !a.IsAccept(0) {
		return false
	}
	return a.GetNumTransitionsWithState(0) == a.alphabet.Size() && a.deterministic
}

// IsFinite
// Returns true if the language of the given automaton is finite.
func IsFinite(a *Automaton) bool {
	live := getLiveStates(a)
	if !live.Test(0) {
		return true
	}

	// Iterative depth-first search over live states; a back edge means a loop that can be pumped.
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, a.GetNumStates())
	type frame struct {
		state int
		next  int
	}
	stack := []frame{{state: 0}}
	color[0] = grey
	t := NewTransition()
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == a.GetNumTransitionsWithState(top.state) {
			color[top.state] = black
			stack = stack[:len(stack)-1]
			continue
		}
		a.getTransition(top.state, top.next, t)
		top.next++
		if !live.Test(uint(t.Dest)) {
			continue
		}
		switch color[t.Dest] {
		case grey:
			return false
		case white:
			color[t.Dest] = grey
			stack = append(stack, frame{state: t.Dest})
		}
	}
	return true
}

// RemoveDeadStates
// Returns an automaton accepting the same language without states that are unreachable from the initial
// state or cannot reach an accept state. The initial state is always kept.
func RemoveDeadStates(a *Automaton) (*Automaton, error) {
	numStates := a.GetNumStates()
	liveSet := getLiveStates(a)
	liveSet.Set(0)

	mp := make([]int, numStates)

	result := NewBuilderV1(a.alphabet, int(liveSet.Count()), a.GetNumTransitions())
	for i := 0; i < numStates; i++ {
		if liveSet.Test(uint(i)) {
			mp[i] = result.CreateState()
			result.SetAccept(mp[i], a.IsAccept(i))
		}
	}

	t := NewTransition()
	for i := 0; i < numStates; i++ {
		if !liveSet.Test(uint(i)) {
			continue
		}
		count := a.InitTransition(i, t)
		// filter out transitions to dead states:
		for j := 0; j < count; j++ {
			a.GetNextTransition(t)
			if liveSet.Test(uint(t.Dest)) {
				result.AddTransition(mp[i], mp[t.Dest], t.Label)
			}
		}
	}

	return result.Finish()
}

// Returns the states that are reachable from the initial state and can reach an accept state.
func getLiveStates(a *Automaton) *bitset.BitSet {
	live := getLiveStatesFromInitial(a)
	live.InPlaceIntersection(getLiveStatesToAccept(a))
	return live
}

func getLiveStatesFromInitial(a *Automaton) *bitset.BitSet {
	live := bitset.New(uint(a.GetNumStates()))
	live.Set(0)
	workList := []int{0}

	t := NewTransition()
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if !live.Test(uint(t.Dest)) {
				live.Set(uint(t.Dest))
				workList = append(workList, t.Dest)
			}
		}
	}

	return live
}

func getLiveStatesToAccept(a *Automaton) *bitset.BitSet {
	numStates := a.GetNumStates()

	// Reversed edges, without labels:
	incoming := make([][]int, numStates)
	t := NewTransition()
	for s := 0; s < numStates; s++ {
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			incoming[t.Dest] = append(incoming[t.Dest], s)
		}
	}

	live := bitset.New(uint(numStates))
	workList := make([]int, 0)
	for s, ok := a.isAccept.NextSet(0); ok && int(s) < numStates; s, ok = a.isAccept.NextSet(s + 1) {
		live.Set(s)
		workList = append(workList, int(s))
	}
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		for _, p := range incoming[s] {
			if !live.Test(uint(p)) {
				live.Set(uint(p))
				workList = append(workList, p)
			}
		}
	}
	return live
}

// CommonPrefix
// Returns the longest byte sequence that is a prefix of all accepted strings. The result is empty (never
// nil) when the automaton accepts the empty string, nothing, or strings starting with different bytes.
func CommonPrefix(a *Automaton) ([]byte, error) {
	live, err := RemoveDeadStates(a)
	if err != nil {
		return nil, err
	}
	prefix := make([]byte, 0)
	if IsEmpty(live) {
		return prefix, nil
	}

	current := bitset.New(uint(live.GetNumStates()))
	next := bitset.New(uint(live.GetNumStates()))
	current.Set(0)
	t := NewTransition()
	for {
		if current.IntersectionCardinality(live.isAccept) > 0 {
			return prefix, nil
		}

		label := -1
		for s, ok := current.NextSet(0); ok; s, ok = current.NextSet(s + 1) {
			count := live.InitTransition(int(s), t)
			for i := 0; i < count; i++ {
				live.GetNextTransition(t)
				if label == -1 {
					label = int(t.Label)
				} else if int(t.Label) != label {
					// Paths diverge
					return prefix, nil
				}
				next.Set(uint(t.Dest))
			}
		}
		if label == -1 {
			return prefix, nil
		}

		prefix = append(prefix, byte(label))
		current, next = next, current
		next.ClearAll()
	}
}

// Singleton
// Returns the only string accepted by the given deterministic automaton. ok is false if it accepts no
// string or more than one.
func Singleton(a *Automaton) (word []byte, ok bool, err error) {
	if !a.IsDeterministic() {
		return nil, false, preconditionf("singleton", "input automaton must be deterministic")
	}
	live, err := RemoveDeadStates(a)
	if err != nil {
		return nil, false, err
	}
	if IsEmpty(live) {
		return nil, false, nil
	}

	word = make([]byte, 0)
	visited := bitset.New(uint(live.GetNumStates()))
	t := NewTransition()
	s := 0
	for {
		visited.Set(uint(s))
		count := live.GetNumTransitionsWithState(s)
		if live.IsAccept(s) {
			if count == 0 {
				return word, true, nil
			}
			// Accepts a string and one of its extensions
			return nil, false, nil
		}
		if count != 1 {
			return nil, false, nil
		}
		live.getTransition(s, 0, t)
		if visited.Test(uint(t.Dest)) {
			return nil, false, nil
		}
		word = append(word, t.Label)
		s = t.Dest
	}
}
