package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// allWords returns every word over symbols of length 0..maxLen.
func allWords(symbols string, maxLen int) [][]byte {
	words := [][]byte{{}}
	layer := [][]byte{{}}
	for n := 1; n <= maxLen; n++ {
		next := make([][]byte, 0, len(layer)*len(symbols))
		for _, w := range layer {
			for i := 0; i < len(symbols); i++ {
				word := make([]byte, len(w)+1)
				copy(word, w)
				word[len(w)] = symbols[i]
				next = append(next, word)
			}
		}
		words = append(words, next...)
		layer = next
	}
	return words
}

func mustChar(t *testing.T, c byte) *Automaton {
	t.Helper()
	a, err := defaultAutomata.MakeChar(c)
	require.NoError(t, err)
	return a
}

func mustString(t *testing.T, s string) *Automaton {
	t.Helper()
	a, err := defaultAutomata.MakeString(s)
	require.NoError(t, err)
	return a
}

func mustRegExp(t *testing.T, s string) *Automaton {
	t.Helper()
	re, err := NewRegExp(s)
	require.NoError(t, err)
	a, err := re.ToStandardAutomaton()
	require.NoError(t, err)
	return a
}

// requireSameLanguage checks that a and b agree on every word over symbols up to maxLen.
func requireSameLanguage(t *testing.T, a, b *Automaton, symbols string, maxLen int) {
	t.Helper()
	for _, w := range allWords(symbols, maxLen) {
		require.Equalf(t, Run(a, w), Run(b, w), "word %q", w)
	}
}
