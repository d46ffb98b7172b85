package automaton

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type regExpScenario struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	States  int      `yaml:"states"`
	Accept  []string `yaml:"accept"`
	Reject  []string `yaml:"reject"`
}

func loadScenarios(t *testing.T) []regExpScenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var doc struct {
		Scenarios []regExpScenario `yaml:"scenarios"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.NotEmpty(t, doc.Scenarios)
	return doc.Scenarios
}

func TestRegExp_Scenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			re, err := NewRegExp(sc.Pattern)
			require.NoError(t, err)

			nfa, err := re.ToStandardAutomaton()
			require.NoError(t, err)
			assert.True(t, nfa.IsStandard())

			a, err := re.ToAutomaton(DefaultDeterminizeWorkLimit)
			require.NoError(t, err)
			assert.True(t, a.IsDeterministic())
			assert.Equal(t, sc.States, a.GetNumStates())

			r, err := NewRunAutomaton(a)
			require.NoError(t, err)

			for _, w := range sc.Accept {
				assert.Truef(t, RunString(nfa, w), "standard automaton rejects %q", w)
				assert.Truef(t, RunString(a, w), "minimal automaton rejects %q", w)
				assert.Truef(t, r.Run([]byte(w)), "run automaton rejects %q", w)
			}
			for _, w := range sc.Reject {
				assert.Falsef(t, RunString(nfa, w), "standard automaton accepts %q", w)
				assert.Falsef(t, RunString(a, w), "minimal automaton accepts %q", w)
				assert.Falsef(t, r.Run([]byte(w)), "run automaton accepts %q", w)
			}
		})
	}
}

func TestRegExp_ParseErrors(t *testing.T) {
	for _, pattern := range []string{
		"(a",
		"a)",
		"*a",
		"a|",
		"[b-a]",
		"[ab",
		"a{2",
		"a{,3}",
		"\"abc",
	} {
		_, err := NewRegExp(pattern)
		assert.Error(t, err, pattern)
	}

	_, err := NewRegExp("a\\")
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestRegExp_Options(t *testing.T) {
	t.Run("no optional operators", func(t *testing.T) {
		re, err := NewRegExp("#@", WithSyntaxFlags(NONE))
		require.NoError(t, err)
		a, err := re.ToAutomaton(DefaultDeterminizeWorkLimit)
		require.NoError(t, err)
		assert.True(t, RunString(a, "#@"))
		assert.False(t, RunString(a, ""))
	})

	t.Run("illegal syntax flag", func(t *testing.T) {
		_, err := NewRegExp("a", WithSyntaxFlags(0x100))
		assert.Error(t, err)
	})

	t.Run("illegal alphabet", func(t *testing.T) {
		_, err := NewRegExp("a", WithAlphabet(Alphabet{Min: 'z', Max: 'a'}))
		assert.Error(t, err)
	})

	t.Run("byte outside alphabet", func(t *testing.T) {
		re, err := NewRegExp("a\x80", WithAlphabet(ASCIIAlphabet))
		require.NoError(t, err)
		_, err = re.ToStandardAutomaton()
		assert.True(t, errors.Is(err, ErrPrecondition))
	})

	t.Run("classes are restricted to the alphabet", func(t *testing.T) {
		re, err := NewRegExp("[^a]", WithAlphabet(ASCIIAlphabet))
		require.NoError(t, err)
		a, err := re.ToAutomaton(DefaultDeterminizeWorkLimit)
		require.NoError(t, err)
		assert.Equal(t, ASCIIAlphabet, a.Alphabet())
		assert.Equal(t, 127, a.GetNumTransitions())
		assert.True(t, RunString(a, "b"))
		assert.False(t, Run(a, []byte{0x80}))
	})
}

func TestRegExp_WorkLimit(t *testing.T) {
	re, err := NewRegExp("(a|b)*a(a|b){12}")
	require.NoError(t, err)
	_, err = re.ToAutomaton(100)
	assert.True(t, errors.Is(err, ErrTooComplexToDeterminize))

	for _, pattern := range []string{".*a.{3}", "[a-z]*x[a-z]{3}"} {
		re, err := NewRegExp(pattern)
		require.NoError(t, err)
		a, err := re.ToAutomaton(DefaultDeterminizeWorkLimit)
		require.NoError(t, err, pattern)
		assert.Equal(t, 16, a.GetNumStates(), pattern)
	}
}

func TestRegExp_String(t *testing.T) {
	for _, tt := range []struct {
		pattern string
		want    string
	}{
		{"", `""`},
		{"ab|c", `("ab"|\c)`},
		{"a*", `(\a)*`},
		{"a?", `(\a)?`},
		{"a+", `(\a){1,}`},
		{"a{2,3}", `(\a){2,3}`},
		{"[a-c]", `[\a\b\c]`},
		{".#@", `.#@`},
	} {
		re, err := NewRegExp(tt.pattern)
		require.NoError(t, err, tt.pattern)
		assert.Equal(t, tt.want, re.String(), tt.pattern)
	}
}
