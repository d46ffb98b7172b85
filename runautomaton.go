package automaton

// RunAutomaton Finite-state automaton with fast run operation. The transitions of a deterministic
// automaton are compiled into a dense table indexed by state and symbol.
type RunAutomaton struct {
	alphabet   Alphabet
	alphaSize  int
	size       int
	accept     []bool
	transition []int32 // state*alphaSize + (label - alphabet.Min) -> dest, or -1
}

// NewRunAutomaton Compiles the given deterministic automaton.
func NewRunAutomaton(a *Automaton) (*RunAutomaton, error) {
	if a == nil {
		return nil, preconditionf("run automaton", "automaton is nil")
	}
	if !a.IsDeterministic() {
		return nil, preconditionf("run automaton", "automaton must be deterministic")
	}

	alphabet := a.Alphabet()
	r := &RunAutomaton{
		alphabet:   alphabet,
		alphaSize:  alphabet.Size(),
		size:       a.GetNumStates(),
		accept:     make([]bool, a.GetNumStates()),
		transition: make([]int32, a.GetNumStates()*alphabet.Size()),
	}
	for i := range r.transition {
		r.transition[i] = -1
	}

	t := NewTransition()
	for s := 0; s < r.size; s++ {
		r.accept[s] = a.IsAccept(s)
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			r.transition[s*r.alphaSize+int(t.Label-alphabet.Min)] = int32(t.Dest)
		}
	}
	return r, nil
}

// Size Returns number of states in automaton.
func (r *RunAutomaton) Size() int {
	return r.size
}

// IsAccept Returns acceptance status for given state.
func (r *RunAutomaton) IsAccept(state int) bool {
	return r.accept[state]
}

// Step Returns the state obtained by reading the given symbol from the given state, or -1 if there is no
// such transition.
func (r *RunAutomaton) Step(state int, c byte) int {
	if !r.alphabet.Contains(c) {
		return -1
	}
	return int(r.transition[state*r.alphaSize+int(c-r.alphabet.Min)])
}

// Run Returns true if the given byte array is accepted by this automaton
func (r *RunAutomaton) Run(s []byte) bool {
	p := 0
	for _, c := range s {
		p = r.Step(p, c)
		if p == -1 {
			return false
		}
	}
	return r.accept[p]
}
