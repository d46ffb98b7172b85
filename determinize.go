package automaton

import (
	"fmt"
	"log/slog"
	"slices"
)

// DefaultDeterminizeWorkLimit is a decent default for the workLimit argument of Determinize.
const DefaultDeterminizeWorkLimit = 10000

// Set and signature keys are compared by content, so chains are kept short.
const contentKeyLoadFactor = 0.5

// Determinize Determinizes the given automaton using the powerset (subset) construction. Each distinct
// set of source states reachable from {0} becomes one state of the result, numbered in the order the
// sets are discovered. A deterministic input is returned as is.
// Worst case complexity: exponential in number of states.
//
// workLimit bounds the "work" the construction may spend: every expanded set adds its number of members
// plus the number of label groups it emits, a group being a run of consecutive labels leading to the
// same new state. A wide class such as '.' thus costs a handful of groups, not one unit per byte.
// Higher numbers allow more complex automata. Use DefaultDeterminizeWorkLimit if you don't otherwise
// know what to specify, or a value <= 0 for no limit.
// Returns ErrTooComplexToDeterminize if the construction requires more than workLimit effort.
func Determinize(a *Automaton, workLimit int) (*Automaton, error) {
	if a == nil {
		return nil, preconditionf("determinize", "automaton is nil")
	}
	if a.IsDeterministic() {
		return a, nil
	}

	b := NewBuilderV1(a.alphabet, a.GetNumStates(), a.GetNumTransitions())

	// Create state 0:
	initialSet := NewFrozenIntSet([]int{0}, hashIntSet([]int{0}), b.CreateState())
	b.SetAccept(0, a.IsAccept(0))

	newState := NewHashMap[int](WithCapacity(a.GetNumStates()), WithLoadFactory(contentKeyLoadFactor))
	newState.Set(initialSet, initialSet.State())
	worklist := []*FrozenIntSet{initialSet}

	// Destinations of the set being expanded, per label:
	var pending [256]*StateSet
	labels := make([]int, 0)

	effort := 0
	t := NewTransition()
	for len(worklist) > 0 {
		set := worklist[0]
		worklist = worklist[1:]

		members := set.GetArray()
		effort += len(members)
		for _, s := range members {
			count := a.InitTransition(s, t)
			for i := 0; i < count; i++ {
				a.GetNextTransition(t)
				ss := pending[t.Label]
				if ss == nil {
					ss = NewStateSet()
					pending[t.Label] = ss
				}
				if ss.Size() == 0 {
					labels = append(labels, int(t.Label))
				}
				ss.Incr(t.Dest)
			}
		}
		slices.Sort(labels)
		prevLabel, prevDest := -1, -1
		for _, label := range labels {
			ss := pending[label]
			dest, ok := newState.Get(ss)
			if !ok {
				dest = b.CreateState()
				frozen := ss.Freeze(dest)
				newState.Set(frozen, dest)
				worklist = append(worklist, frozen)
				for _, s := range frozen.GetArray() {
					if a.IsAccept(s) {
						b.SetAccept(dest, true)
						break
					}
				}
			}
			b.AddTransition(set.State(), dest, byte(label))
			ss.Reset()
			if label != prevLabel+1 || dest != prevDest {
				effort++
			}
			prevLabel, prevDest = label, dest
		}
		labels = labels[:0]

		if workLimit > 0 && effort > workLimit {
			return nil, fmt.Errorf("%w: work limit %d exceeded after %d states",
				ErrTooComplexToDeterminize, workLimit, b.GetNumStates())
		}
	}

	result, err := b.Finish()
	if err != nil {
		return nil, err
	}
	getLogger().Debug("determinized automaton",
		slog.Int("states_in", a.GetNumStates()),
		slog.Int("states_out", result.GetNumStates()),
		slog.Int("effort", effort))
	return result, nil
}
