package automaton

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterminize(t *testing.T) {
	t.Run("deterministic input is returned", func(t *testing.T) {
		a := mustString(t, "abc")
		d, err := Determinize(a, DefaultDeterminizeWorkLimit)
		require.NoError(t, err)
		assert.Same(t, a, d)
	})

	t.Run("subset construction", func(t *testing.T) {
		b := NewBuilder()
		init := b.CreateState()
		medial := b.CreateState()
		fini := b.CreateState()
		last := b.CreateState()
		b.SetAccept(fini, true)
		b.SetAccept(last, true)
		b.AddTransition(init, medial, 'm')
		b.AddTransition(init, fini, 'm')
		b.AddTransition(medial, last, 'o')
		a, err := b.Finish()
		require.NoError(t, err)
		require.False(t, a.IsDeterministic())

		d, err := Determinize(a, DefaultDeterminizeWorkLimit)
		require.NoError(t, err)
		assert.True(t, d.IsDeterministic())
		assert.Equal(t, 3, d.GetNumStates())
		assert.Equal(t, 1, d.Step(0, 'm'))
		assert.Equal(t, 2, d.Step(1, 'o'))
		assert.True(t, d.IsAccept(1))
		assert.True(t, d.IsAccept(2))
		assert.False(t, d.IsAccept(0))
	})

	t.Run("language preserved", func(t *testing.T) {
		for _, pattern := range []string{
			"(a|ab)*b",
			"a*a*",
			"(a|b)*abb",
			"(a|b)*a(a|b)(a|b)",
			"(ab|a)(ba|b)*",
			"()|a|aa|b*",
		} {
			a := mustRegExp(t, pattern)
			d, err := Determinize(a, DefaultDeterminizeWorkLimit)
			require.NoError(t, err, pattern)
			assert.True(t, d.IsDeterministic(), pattern)
			requireSameLanguage(t, a, d, "ab", 7)
		}
	})

	t.Run("sample compositions", func(t *testing.T) {
		for name, a := range sampleAutomata(t) {
			s, err := Repeat(a)
			require.NoError(t, err)
			c, err := Concatenate(s, a)
			require.NoError(t, err)
			d, err := Determinize(c, 0)
			require.NoError(t, err, name)
			requireSameLanguage(t, c, d, "ab", 6)
		}
	})

	t.Run("exponential blow up", func(t *testing.T) {
		a := mustRegExp(t, "(a|b)*a(a|b){3}")
		d, err := Determinize(a, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d.GetNumStates(), 16)
		requireSameLanguage(t, a, d, "ab", 8)
	})

	t.Run("wide classes stay within the default limit", func(t *testing.T) {
		a := mustRegExp(t, ".*a.{3}")
		d, err := Determinize(a, DefaultDeterminizeWorkLimit)
		require.NoError(t, err)
		m, err := Minimize(d)
		require.NoError(t, err)
		assert.Equal(t, 16, m.GetNumStates())
		requireSameLanguage(t, a, m, "ab", 6)
	})

	t.Run("work limit", func(t *testing.T) {
		a := mustRegExp(t, "(a|b)*a(a|b){10}")
		_, err := Determinize(a, 50)
		assert.True(t, errors.Is(err, ErrTooComplexToDeterminize))
	})

	t.Run("nil", func(t *testing.T) {
		_, err := Determinize(nil, 0)
		assert.True(t, errors.Is(err, ErrPrecondition))
	})
}

func TestDeterminize_Logging(t *testing.T) {
	buf := new(bytes.Buffer)
	SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	d, err := Determinize(mustRegExp(t, "(a|b)*abb"), 0)
	require.NoError(t, err)
	_, err = Minimize(d)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "determinized automaton")
	assert.Contains(t, out, "minimized automaton")
	assert.Contains(t, out, "states_out=4")
}
