package automaton

import "fmt"

// Alphabet is the inclusive byte range an automaton is defined over.
type Alphabet struct {
	Min byte
	Max byte
}

var (
	FullAlphabet  = Alphabet{Min: 0, Max: 0xFF}
	ASCIIAlphabet = Alphabet{Min: 0, Max: 0x7F}
)

// Contains Returns true if the symbol belongs to the alphabet.
func (a Alphabet) Contains(c byte) bool {
	return c >= a.Min && c <= a.Max
}

// Size Returns the number of symbols in the alphabet.
func (a Alphabet) Size() int {
	return int(a.Max) - int(a.Min) + 1
}

// Union Returns the smallest alphabet covering both a and other.
func (a Alphabet) Union(other Alphabet) Alphabet {
	return Alphabet{Min: min(a.Min, other.Min), Max: max(a.Max, other.Max)}
}

func (a Alphabet) valid() bool {
	return a.Min <= a.Max
}

func (a Alphabet) String() string {
	return fmt.Sprintf("[0x%02x-0x%02x]", a.Min, a.Max)
}
