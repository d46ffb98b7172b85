package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Automaton Represents an automaton and all its states and transitions. States are integers numbered
// 0..GetNumStates()-1 and state 0 is always the initial state. An Automaton can only be created by
// Builder.Finish and is immutable afterwards, so it may be read by any number of goroutines.
//
// Transitions carry a single byte label. A state may have several transitions with the same label,
// in which case the automaton is non-deterministic. There are no epsilon transitions.
type Automaton struct {
	// Index in the transitions array where this state's leaving transitions are stored, followed
	// by the number of transitions. Two ints per state.
	states []int

	isAccept *bitset.BitSet

	// Holds label, dest for each transition. Transitions of a state are sorted by label then dest,
	// and never repeat.
	transitions []int

	alphabet Alphabet

	// True if no state has two transitions leaving with the same label.
	deterministic bool

	// True if no transition enters state 0.
	standard bool
}

// Transition is a cursor over the transitions leaving one state. See InitTransition.
type Transition struct {
	Source int
	Dest   int
	Label  byte

	// Position of the next transition in Automaton.transitions.
	TransitionUpto int
}

func NewTransition() *Transition {
	return &Transition{}
}

// GetNumStates How many states this automaton has.
func (a *Automaton) GetNumStates() int {
	return len(a.states) / 2
}

// GetNumTransitions How many transitions this automaton has.
func (a *Automaton) GetNumTransitions() int {
	return len(a.transitions) / 2
}

// GetNumTransitionsWithState How many transitions this state has.
func (a *Automaton) GetNumTransitionsWithState(state int) int {
	return a.states[2*state+1]
}

// IsAccept Returns true if this state is an accept state.
func (a *Automaton) IsAccept(state int) bool {
	return a.isAccept.Test(uint(state))
}

// AcceptStates Returns a copy of the accept states. If the bit is set then that state is an accept state.
func (a *Automaton) AcceptStates() *bitset.BitSet {
	return a.isAccept.Clone()
}

// IsDeterministic Returns true if this automaton is deterministic (for every state there is at most one
// transition for each label).
func (a *Automaton) IsDeterministic() bool {
	return a.deterministic
}

// IsStandard Returns true if the initial state has no incoming transitions. Only standard automata can
// be combined by Union, Concatenate and Repeat.
func (a *Automaton) IsStandard() bool {
	return a.standard
}

// Alphabet Returns the alphabet this automaton is defined over.
func (a *Automaton) Alphabet() Alphabet {
	return a.alphabet
}

// InitTransition Initialize the provided Transition to iterate through all transitions leaving the specified
// state. You must call GetNextTransition to get each transition. Returns the number of transitions leaving
// this state.
func (a *Automaton) InitTransition(state int, t *Transition) int {
	t.Source = state
	t.TransitionUpto = a.states[2*state]
	return a.GetNumTransitionsWithState(state)
}

// GetNextTransition Iterate to the next transition after the provided one
func (a *Automaton) GetNextTransition(t *Transition) {
	t.Label = byte(a.transitions[t.TransitionUpto])
	t.TransitionUpto++
	t.Dest = a.transitions[t.TransitionUpto]
	t.TransitionUpto++
}

// Fill the provided Transition with the index'th transition leaving the specified state.
func (a *Automaton) getTransition(state, index int, t *Transition) {
	i := a.states[2*state] + 2*index
	t.Source = state
	t.Label = byte(a.transitions[i])
	t.Dest = a.transitions[i+1]
	t.TransitionUpto = i + 2
}

// Returns the index (relative to the state) of the first transition whose label is >= label.
func (a *Automaton) lowerBound(state int, label byte) int {
	offset := a.states[2*state]
	count := a.states[2*state+1]
	return sort.Search(count, func(i int) bool {
		return a.transitions[offset+2*i] >= int(label)
	})
}

// Transitions Returns the sorted set of states reachable from state by consuming label. The result is
// nil when there is no such transition; that is the normal reject signal, not an error.
func (a *Automaton) Transitions(state int, label byte) []int {
	offset := a.states[2*state]
	count := a.states[2*state+1]

	var dests []int
	for i := a.lowerBound(state, label); i < count; i++ {
		if a.transitions[offset+2*i] != int(label) {
			break
		}
		dests = append(dests, a.transitions[offset+2*i+1])
	}
	return dests
}

// Step Performs lookup in transitions, assuming determinism.
// Returns: destination state, -1 if no matching outgoing transition
func (a *Automaton) Step(state int, label byte) int {
	offset := a.states[2*state]
	i := a.lowerBound(state, label)
	if i < a.states[2*state+1] && a.transitions[offset+2*i] == int(label) {
		return a.transitions[offset+2*i+1]
	}
	return -1
}

// Labels Returns the distinct labels leaving state, ascending.
func (a *Automaton) Labels(state int) []byte {
	t := Transition{}
	count := a.InitTransition(state, &t)
	labels := make([]byte, 0, count)
	for i := 0; i < count; i++ {
		a.GetNextTransition(&t)
		if n := len(labels); n == 0 || labels[n-1] != t.Label {
			labels = append(labels, t.Label)
		}
	}
	return labels
}

// GetLabels Returns sorted array of all labels used by any transition of this automaton.
func (a *Automaton) GetLabels() []byte {
	var used [256]bool
	for i := 0; i < len(a.transitions); i += 2 {
		used[a.transitions[i]] = true
	}
	labels := make([]byte, 0)
	for c, ok := range used {
		if ok {
			labels = append(labels, byte(c))
		}
	}
	return labels
}

func (a *Automaton) String() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "automaton(states=%d, alphabet=%s, deterministic=%t)\n",
		a.GetNumStates(), a.alphabet, a.deterministic)

	t := NewTransition()
	for s := 0; s < a.GetNumStates(); s++ {
		fmt.Fprintf(b, "  state %d", s)
		if a.IsAccept(s) {
			b.WriteString(" [accept]")
		}
		b.WriteByte('\n')
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			fmt.Fprintf(b, "    %q -> %d\n", t.Label, t.Dest)
		}
	}
	return b.String()
}
