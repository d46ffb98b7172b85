package automaton

// Structural combinators. All of them splice standard automata together by renumbering states:
// the initial state of the second operand is merged into a state of the first one, so no epsilon
// transition is ever needed. Inputs are only read; every call returns a new automaton.

// shift renumbers a state of the operand whose initial state is merged away. Its state i >= 1 lands
// at i+offset; state 0 has no incoming transitions in a standard automaton, so it never shows up as
// a destination.
func shift(offset int) func(dest int) int {
	return func(dest int) int {
		if dest == 0 {
			return 0
		}
		return dest + offset
	}
}

func identity(dest int) int {
	return dest
}

func checkOperands(op string, automatons ...*Automaton) error {
	for i, a := range automatons {
		if a == nil {
			return preconditionf(op, "operand %d is nil", i)
		}
		if a.GetNumStates() == 0 {
			return preconditionf(op, "operand %d has no states", i)
		}
		if !a.IsStandard() {
			return preconditionf(op, "operand %d is not standard: its initial state has incoming transitions", i)
		}
	}
	return nil
}

// appends the states 1..n-1 of a to the builder, as state i+offset, with their transitions.
func copyTail(b *Builder, a *Automaton, offset int, accept func(state int) bool) {
	numStates := a.GetNumStates()
	for s := 1; s < numStates; s++ {
		state := b.CreateState()
		b.SetAccept(state, accept(s))
	}
	for s := 1; s < numStates; s++ {
		b.CopyTransitions(s+offset, a, s, shift(offset))
	}
}

func newOperationBuilder(alphabet Alphabet, numStates, numTransitions int) *Builder {
	return NewBuilderV1(alphabet, numStates, numTransitions)
}

// Union Returns an automaton that accepts the union of the languages of a1 and a2. Both initial states
// are merged into state 0; a1 keeps its numbering and a2's state i >= 1 becomes i+a1.GetNumStates()-1.
func Union(a1, a2 *Automaton) (*Automaton, error) {
	if err := checkOperands("union", a1, a2); err != nil {
		return nil, err
	}

	n1 := a1.GetNumStates()
	offset := n1 - 1
	b := newOperationBuilder(a1.alphabet.Union(a2.alphabet),
		n1+a2.GetNumStates()-1, a1.GetNumTransitions()+a2.GetNumTransitions())

	for s := 0; s < n1; s++ {
		state := b.CreateState()
		b.SetAccept(state, a1.IsAccept(s))
	}
	copyTail(b, a2, offset, a2.IsAccept)
	if a2.IsAccept(0) {
		b.SetAccept(0, true)
	}

	for s := 0; s < n1; s++ {
		b.CopyTransitions(s, a1, s, identity)
	}
	b.CopyTransitions(0, a2, 0, shift(offset))

	return b.Finish()
}

// Concatenate Returns an automaton that accepts the concatenation of the languages of a1 and a2. a2's
// initial state is merged away: every accept state of a1 receives a copy of its transitions, and stays
// accepting only if a2 accepts the empty string.
func Concatenate(a1, a2 *Automaton) (*Automaton, error) {
	if err := checkOperands("concatenate", a1, a2); err != nil {
		return nil, err
	}

	n1 := a1.GetNumStates()
	offset := n1 - 1
	b := newOperationBuilder(a1.alphabet.Union(a2.alphabet),
		n1+a2.GetNumStates()-1, a1.GetNumTransitions()+a2.GetNumTransitions())

	emptyTail := a2.IsAccept(0)
	for s := 0; s < n1; s++ {
		state := b.CreateState()
		b.SetAccept(state, a1.IsAccept(s) && emptyTail)
	}
	copyTail(b, a2, offset, a2.IsAccept)

	for s := 0; s < n1; s++ {
		b.CopyTransitions(s, a1, s, identity)
		if a1.IsAccept(s) {
			b.CopyTransitions(s, a2, 0, shift(offset))
		}
	}

	return b.Finish()
}

// Repeat Returns an automaton that accepts the Kleene star (zero or more concatenated repetitions) of
// the language of a. The numbering of a is kept; the initial state becomes accepting and every accept
// state re-enters the body the way the initial state does.
func Repeat(a *Automaton) (*Automaton, error) {
	if err := checkOperands("repeat", a); err != nil {
		return nil, err
	}

	b := newOperationBuilder(a.alphabet, a.GetNumStates(), 2*a.GetNumTransitions())
	b.CopyStates(a)
	b.SetAccept(0, true)

	numStates := a.GetNumStates()
	for s := 1; s < numStates; s++ {
		if a.IsAccept(s) {
			b.CopyTransitions(s, a, 0, identity)
		}
	}

	return b.Finish()
}

// Optional Returns an automaton that accepts the union of the empty string and the language of a.
func Optional(a *Automaton) (*Automaton, error) {
	if err := checkOperands("optional", a); err != nil {
		return nil, err
	}
	empty := (&Automata{alphabet: a.alphabet}).MakeEmptyString()
	return Union(a, empty)
}

// UnionAll Returns an automaton that accepts the union of the languages of all given automata. With no
// operand it accepts nothing.
func UnionAll(automatons ...*Automaton) (*Automaton, error) {
	if len(automatons) == 0 {
		return defaultAutomata.MakeEmpty(), nil
	}
	if err := checkOperands("union", automatons...); err != nil {
		return nil, err
	}

	result := automatons[0]
	for _, a := range automatons[1:] {
		var err error
		if result, err = Union(result, a); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ConcatenateAll Returns an automaton that accepts the concatenation of the languages of all given
// automata, in order. With no operand it accepts only the empty string.
func ConcatenateAll(automatons ...*Automaton) (*Automaton, error) {
	if len(automatons) == 0 {
		return defaultAutomata.MakeEmptyString(), nil
	}
	if err := checkOperands("concatenate", automatons...); err != nil {
		return nil, err
	}

	result := automatons[0]
	for _, a := range automatons[1:] {
		var err error
		if result, err = Concatenate(result, a); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// RepeatMin Returns an automaton that accepts min or more concatenated repetitions of the language of a.
func RepeatMin(a *Automaton, min int) (*Automaton, error) {
	if err := checkOperands("repeat", a); err != nil {
		return nil, err
	}
	if min < 0 {
		return nil, preconditionf("repeat", "negative repetition count %d", min)
	}

	star, err := Repeat(a)
	if err != nil {
		return nil, err
	}
	as := make([]*Automaton, 0, min+1)
	for i := 0; i < min; i++ {
		as = append(as, a)
	}
	as = append(as, star)
	return ConcatenateAll(as...)
}

// RepeatRange Returns an automaton that accepts between min and max (including both) concatenated
// repetitions of the language of a. If min > max the automaton accepts nothing.
func RepeatRange(a *Automaton, min, max int) (*Automaton, error) {
	if err := checkOperands("repeat", a); err != nil {
		return nil, err
	}
	if min < 0 {
		return nil, preconditionf("repeat", "negative repetition count %d", min)
	}
	if min > max {
		return (&Automata{alphabet: a.alphabet}).MakeEmpty(), nil
	}

	as := make([]*Automaton, 0, max)
	for i := 0; i < min; i++ {
		as = append(as, a)
	}
	if max > min {
		opt, err := Optional(a)
		if err != nil {
			return nil, err
		}
		for i := min; i < max; i++ {
			as = append(as, opt)
		}
	}
	if len(as) == 0 {
		return (&Automata{alphabet: a.alphabet}).MakeEmptyString(), nil
	}
	return ConcatenateAll(as...)
}

// Standardize Returns an automaton accepting the same language as a whose initial state has no
// incoming transitions. Determinized and minimized automata may loop back to their initial state;
// they must be standardized before being combined again. Standard input is returned as is.
func Standardize(a *Automaton) (*Automaton, error) {
	if a == nil {
		return nil, preconditionf("standardize", "automaton is nil")
	}
	if a.IsStandard() {
		return a, nil
	}

	b := newOperationBuilder(a.alphabet, a.GetNumStates()+1, a.GetNumTransitions()+a.GetNumTransitionsWithState(0))
	initial := b.CreateState()
	offset := b.CopyStates(a)
	b.SetAccept(initial, a.IsAccept(0))
	b.CopyTransitions(initial, a, 0, func(dest int) int {
		return dest + offset
	})
	return b.Finish()
}
