package automaton

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Builder Records new states and transitions and then Finish creates the Automaton. Transitions may be
// added in any order; Finish sorts them and removes duplicates. Use this whenever the transitions of a
// state cannot be produced all at once.
type Builder struct {
	numStates int

	isAccept *bitset.BitSet

	// Negative states passed to SetAccept, reported by Finish.
	badAccept []int

	// Holds source, label, dest for each transition.
	transitions []int

	alphabet Alphabet
}

func NewBuilder() *Builder {
	return NewBuilderV1(FullAlphabet, 16, 16)
}

func NewBuilderV1(alphabet Alphabet, numStates, numTransitions int) *Builder {
	return &Builder{
		isAccept:    bitset.New(uint(numStates)),
		transitions: make([]int, 0, numTransitions*3),
		alphabet:    alphabet,
	}
}

// CreateState Create a new state.
func (r *Builder) CreateState() int {
	state := r.numStates
	r.numStates++
	return state
}

// SetAccept Set or clear this state as an accept state. An out of range state is reported by Finish.
func (r *Builder) SetAccept(state int, accept bool) {
	if state < 0 {
		r.badAccept = append(r.badAccept, state)
		return
	}
	r.isAccept.SetTo(uint(state), accept)
}

func (r *Builder) IsAccept(state int) bool {
	return state >= 0 && r.isAccept.Test(uint(state))
}

// SetAlphabet Replaces the alphabet the finished automaton will be checked against.
func (r *Builder) SetAlphabet(alphabet Alphabet) {
	r.alphabet = alphabet
}

// AddTransition Add a new transition with the specified source, dest and label. Bounds are checked by Finish.
func (r *Builder) AddTransition(source, dest int, label byte) {
	r.transitions = append(r.transitions, source, int(label), dest)
}

// CopyTransitions Copies every transition leaving fromState of other so that it leaves source instead.
// Each destination is passed through remap.
func (r *Builder) CopyTransitions(source int, other *Automaton, fromState int, remap func(dest int) int) {
	t := Transition{}
	count := other.InitTransition(fromState, &t)
	for i := 0; i < count; i++ {
		other.GetNextTransition(&t)
		r.AddTransition(source, remap(t.Dest), t.Label)
	}
}

// CopyStates Copies over all states/transitions from other. The states numbers are sequentially assigned
// (appended). Returns the number the first copied state received.
func (r *Builder) CopyStates(other *Automaton) int {
	offset := r.numStates
	numStates := other.GetNumStates()
	for s := 0; s < numStates; s++ {
		state := r.CreateState()
		r.SetAccept(state, other.IsAccept(s))
	}
	for s := 0; s < numStates; s++ {
		r.CopyTransitions(offset+s, other, s, func(dest int) int {
			return dest + offset
		})
	}
	return offset
}

// GetNumStates How many states this builder has created so far.
func (r *Builder) GetNumStates() int {
	return r.numStates
}

// Finish Compiles all added states and transitions into a new Automaton. The recorded data is validated
// first; nothing is allocated for an invalid automaton.
func (r *Builder) Finish() (*Automaton, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	numTransitions := len(r.transitions) / 3
	sort.Sort(&builderSorter{values: r.transitions, size: numTransitions})

	a := &Automaton{
		states:        make([]int, 2*r.numStates),
		isAccept:      bitset.New(uint(r.numStates)),
		transitions:   make([]int, 0, 2*numTransitions),
		alphabet:      r.alphabet,
		deterministic: true,
		standard:      true,
	}
	a.isAccept.InPlaceUnion(r.isAccept)

	// Transitions are sorted by source, so each state's block is contiguous.
	upto := 0
	for s := 0; s < r.numStates; s++ {
		a.states[2*s] = len(a.transitions)
		lastLabel, lastDest := -1, -1
		for ; upto < numTransitions && r.transitions[3*upto] == s; upto++ {
			label := r.transitions[3*upto+1]
			dest := r.transitions[3*upto+2]
			if label == lastLabel {
				if dest == lastDest {
					continue
				}
				a.deterministic = false
			}
			if dest == 0 {
				a.standard = false
			}
			a.transitions = append(a.transitions, label, dest)
			a.states[2*s+1]++
			lastLabel, lastDest = label, dest
		}
	}
	return a, nil
}

func (r *Builder) validate() error {
	if r.numStates == 0 {
		return preconditionf("finish", "automaton must have at least one state")
	}
	if !r.alphabet.valid() {
		return preconditionf("finish", "invalid alphabet %s", r.alphabet)
	}
	if len(r.badAccept) > 0 {
		return preconditionf("finish", "accept state %d out of range [0, %d)", r.badAccept[0], r.numStates)
	}
	if s, ok := r.isAccept.NextSet(uint(r.numStates)); ok {
		return preconditionf("finish", "accept state %d out of range [0, %d)", s, r.numStates)
	}
	for i := 0; i < len(r.transitions); i += 3 {
		source, label, dest := r.transitions[i], r.transitions[i+1], r.transitions[i+2]
		if source < 0 || source >= r.numStates {
			return preconditionf("finish", "transition source %d out of range [0, %d)", source, r.numStates)
		}
		if dest < 0 || dest >= r.numStates {
			return preconditionf("finish", "transition %d -> %d: destination out of range [0, %d)",
				source, dest, r.numStates)
		}
		if !r.alphabet.Contains(byte(label)) {
			return preconditionf("finish", "transition %d -> %d: label %#02x outside alphabet %s",
				source, dest, label, r.alphabet)
		}
	}
	return nil
}

var _ sort.Interface = &builderSorter{}

// Sorts transitions by source, then label, then dest.
type builderSorter struct {
	values []int
	size   int
}

func (b *builderSorter) Len() int {
	return b.size
}

func (b *builderSorter) Less(i, j int) bool {
	i *= 3
	j *= 3

	for k := 0; k < 3; k++ {
		if b.values[i+k] != b.values[j+k] {
			return b.values[i+k] < b.values[j+k]
		}
	}
	return false
}

func (b *builderSorter) Swap(i, j int) {
	i *= 3
	j *= 3

	b.values[i], b.values[j] = b.values[j], b.values[i]
	b.values[i+1], b.values[j+1] = b.values[j+1], b.values[i+1]
	b.values[i+2], b.values[j+2] = b.values[j+2], b.values[i+2]
}
