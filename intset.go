package automaton

import "slices"

// IntSet is a set of states that can be used as a HashMap key. Two sets holding the same
// members are equal and hash alike, whatever order the members were added in.
type IntSet interface {
	Hashable

	GetArray() []int

	Size() int
}

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet is an immutable, sorted set of states. The state field carries the id the set was
// assigned in the automaton being built from it.
type FrozenIntSet struct {
	values   []int
	state    int
	hashCode uint64
}

// NewFrozenIntSet wraps values, which must be sorted ascending and free of duplicates.
func NewFrozenIntSet(values []int, hashCode uint64, state int) *FrozenIntSet {
	return &FrozenIntSet{values: values, state: state, hashCode: hashCode}
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

func (f *FrozenIntSet) Equals(other Hashable) bool {
	if f == nil {
		switch ptr := other.(type) {
		case *FrozenIntSet:
			return ptr == nil
		case *StateSet:
			return ptr == nil
		default:
			return false
		}
	}

	is, ok := other.(IntSet)
	if !ok || is == nil {
		return false
	}
	if is.Hash() != f.Hash() || is.Size() != f.Size() {
		return false
	}
	return slices.Equal(f.values, is.GetArray())
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}

// State Returns the id assigned to this set.
func (f *FrozenIntSet) State() int {
	return f.state
}

func hashIntSet(values []int) uint64 {
	h := uint64(len(values))
	for _, v := range values {
		h += uint64(mix(v))
	}
	return h
}

var _ IntSet = &StateSet{}

// StateSet is a mutable multiset of states; a state is a member while its count is positive.
type StateSet struct {
	inner       map[int]int
	hashUpdated bool
	hashCode    uint64
}

func NewStateSet() *StateSet {
	return &StateSet{
		inner: make(map[int]int),
	}
}

func (s *StateSet) Hash() uint64 {
	if s.hashUpdated {
		return s.hashCode
	}
	s.hashCode = uint64(len(s.inner))
	for key := range s.inner {
		s.hashCode += uint64(mix(key))
	}
	s.hashUpdated = true
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok || is == nil {
		return false
	}
	if s.Hash() != is.Hash() || s.Size() != is.Size() {
		return false
	}
	return slices.Equal(s.GetArray(), is.GetArray())
}

func (s *StateSet) GetArray() []int {
	keys := make([]int, 0, len(s.inner))

	for k := range s.inner {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *StateSet) Size() int {
	return len(s.inner)
}

func (s *StateSet) keyChanged() {
	s.hashUpdated = false
	s.hashCode = 0
}

func (s *StateSet) Incr(state int) {
	s.inner[state]++
	if s.inner[state] == 1 {
		s.keyChanged()
	}
}

func (s *StateSet) Decr(state int) {
	count, ok := s.inner[state]
	if !ok {
		return
	}
	if count == 1 {
		delete(s.inner, state)
		s.keyChanged()
	} else {
		s.inner[state]--
	}
}

// Reset removes every member.
func (s *StateSet) Reset() {
	clear(s.inner)
	s.keyChanged()
}

// Freeze Returns an immutable copy of the current members, tagged with state.
func (s *StateSet) Freeze(state int) *FrozenIntSet {
	return NewFrozenIntSet(s.GetArray(), s.Hash(), state)
}
