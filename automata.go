package automaton

// Automata builds the atomic automata a regular expression is assembled from. Every automaton it
// returns is in standard form: state 0 has no incoming transitions.
type Automata struct {
	alphabet Alphabet
}

var defaultAutomata = &Automata{alphabet: FullAlphabet}

func NewAutomata(alphabet Alphabet) (*Automata, error) {
	if !alphabet.valid() {
		return nil, preconditionf("new automata", "invalid alphabet %s", alphabet)
	}
	return &Automata{alphabet: alphabet}, nil
}

// Alphabet Returns the alphabet of the automata built by a.
func (r *Automata) Alphabet() Alphabet {
	return r.alphabet
}

func (r *Automata) newBuilder(numStates int) *Builder {
	return NewBuilderV1(r.alphabet, numStates, numStates)
}

// MakeEmpty
// Returns a new (deterministic) automaton with the empty language.
func (r *Automata) MakeEmpty() *Automaton {
	b := r.newBuilder(1)
	b.CreateState()
	return mustFinish(b)
}

// MakeEmptyString
// Returns a new (deterministic) automaton that accepts only the empty string.
func (r *Automata) MakeEmptyString() *Automaton {
	b := r.newBuilder(1)
	s := b.CreateState()
	b.SetAccept(s, true)
	return mustFinish(b)
}

// MakeChar
// Returns a new (deterministic) automaton that accepts a single byte of the given value.
func (r *Automata) MakeChar(c byte) (*Automaton, error) {
	return r.MakeCharRange(c, c)
}

// MakeCharRange
// Returns a new (deterministic) automaton that accepts a single byte whose value is in the given interval
// (including both end points).
func (r *Automata) MakeCharRange(from, to byte) (*Automaton, error) {
	if from > to {
		return nil, preconditionf("make char range", "invalid range %q-%q", from, to)
	}
	if !r.alphabet.Contains(from) || !r.alphabet.Contains(to) {
		return nil, preconditionf("make char range", "range %q-%q outside alphabet %s", from, to, r.alphabet)
	}

	b := r.newBuilder(2)
	s1 := b.CreateState()
	s2 := b.CreateState()
	b.SetAccept(s2, true)
	for c := int(from); c <= int(to); c++ {
		b.AddTransition(s1, s2, byte(c))
	}
	return b.Finish()
}

// MakeAnyChar
// Returns a new (deterministic) automaton that accepts any single byte of the alphabet.
func (r *Automata) MakeAnyChar() *Automaton {
	a, _ := r.MakeCharRange(r.alphabet.Min, r.alphabet.Max)
	return a
}

// MakeAnyString
// Returns a new (deterministic) automaton that accepts all strings. The loop lives on state 1 so that
// the initial state keeps no incoming transitions.
func (r *Automata) MakeAnyString() *Automaton {
	b := r.newBuilder(2)
	s0 := b.CreateState()
	s1 := b.CreateState()
	b.SetAccept(s0, true)
	b.SetAccept(s1, true)
	for c := int(r.alphabet.Min); c <= int(r.alphabet.Max); c++ {
		b.AddTransition(s0, s1, byte(c))
		b.AddTransition(s1, s1, byte(c))
	}
	return mustFinish(b)
}

// MakeString
// Returns a new (deterministic) automaton that accepts exactly the given string.
func (r *Automata) MakeString(s string) (*Automaton, error) {
	return r.MakeBytes([]byte(s))
}

// MakeBytes
// Returns a new (deterministic) automaton that accepts exactly the given byte sequence.
func (r *Automata) MakeBytes(word []byte) (*Automaton, error) {
	b := r.newBuilder(len(word) + 1)
	last := b.CreateState()
	for _, c := range word {
		if !r.alphabet.Contains(c) {
			return nil, preconditionf("make string", "byte %q outside alphabet %s", c, r.alphabet)
		}
		state := b.CreateState()
		b.AddTransition(last, state, c)
		last = state
	}
	b.SetAccept(last, true)
	return b.Finish()
}

// Finish for builders whose content is valid by construction; Automata only holds valid alphabets.
func mustFinish(b *Builder) *Automaton {
	a, err := b.Finish()
	if err != nil {
		panic(err)
	}
	return a
}
