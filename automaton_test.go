package automaton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Finish(t *testing.T) {
	t.Run("sorts and removes duplicates", func(t *testing.T) {
		b := NewBuilder()
		s0 := b.CreateState()
		s1 := b.CreateState()
		s2 := b.CreateState()
		b.SetAccept(s2, true)
		b.AddTransition(s1, s2, 'z')
		b.AddTransition(s0, s2, 'b')
		b.AddTransition(s0, s1, 'a')
		b.AddTransition(s0, s1, 'a')

		a, err := b.Finish()
		require.NoError(t, err)
		assert.Equal(t, 3, a.GetNumStates())
		assert.Equal(t, 3, a.GetNumTransitions())
		assert.Equal(t, 2, a.GetNumTransitionsWithState(0))
		assert.True(t, a.IsDeterministic())
		assert.True(t, a.IsStandard())
		assert.Equal(t, []byte{'a', 'b'}, a.Labels(0))
		assert.Equal(t, []byte{'a', 'b', 'z'}, a.GetLabels())

		tr := NewTransition()
		count := a.InitTransition(0, tr)
		require.Equal(t, 2, count)
		a.GetNextTransition(tr)
		assert.Equal(t, 1, tr.Dest)
		assert.Equal(t, byte('a'), tr.Label)
		a.GetNextTransition(tr)
		assert.Equal(t, 2, tr.Dest)
		assert.Equal(t, byte('b'), tr.Label)
	})

	t.Run("non-deterministic", func(t *testing.T) {
		b := NewBuilder()
		s0 := b.CreateState()
		s1 := b.CreateState()
		s2 := b.CreateState()
		b.AddTransition(s0, s2, 'm')
		b.AddTransition(s0, s1, 'm')

		a, err := b.Finish()
		require.NoError(t, err)
		assert.False(t, a.IsDeterministic())
		assert.Equal(t, []int{1, 2}, a.Transitions(0, 'm'))
		assert.Equal(t, 1, a.Step(0, 'm'))
		assert.Nil(t, a.Transitions(0, 'x'))
		assert.Equal(t, -1, a.Step(0, 'x'))
		assert.Equal(t, -1, a.Step(1, 'm'))
	})

	t.Run("loop into initial state is not standard", func(t *testing.T) {
		b := NewBuilder()
		s0 := b.CreateState()
		b.SetAccept(s0, true)
		b.AddTransition(s0, s0, 'a')

		a, err := b.Finish()
		require.NoError(t, err)
		assert.False(t, a.IsStandard())
		assert.True(t, a.IsDeterministic())
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name  string
			build func(b *Builder)
		}{
			{"no states", func(b *Builder) {}},
			{"destination out of range", func(b *Builder) {
				b.CreateState()
				b.AddTransition(0, 3, 'a')
			}},
			{"source out of range", func(b *Builder) {
				b.CreateState()
				b.AddTransition(1, 0, 'a')
			}},
			{"accept state out of range", func(b *Builder) {
				b.CreateState()
				b.SetAccept(5, true)
			}},
			{"negative accept state", func(b *Builder) {
				b.CreateState()
				b.SetAccept(-1, true)
			}},
			{"negative source", func(b *Builder) {
				b.CreateState()
				b.AddTransition(-1, 0, 'a')
			}},
			{"label outside alphabet", func(b *Builder) {
				b.SetAlphabet(ASCIIAlphabet)
				b.CreateState()
				b.CreateState()
				b.AddTransition(0, 1, 0xC3)
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b := NewBuilder()
				tt.build(b)
				a, err := b.Finish()
				assert.Nil(t, a)
				assert.True(t, errors.Is(err, ErrPrecondition))
				var pe *PreconditionError
				assert.ErrorAs(t, err, &pe)
				assert.Equal(t, "finish", pe.Op)
			})
		}
	})
}

func TestBuilder_CopyStates(t *testing.T) {
	src := mustString(t, "ab")

	b := NewBuilder()
	b.CreateState()
	offset := b.CopyStates(src)
	assert.Equal(t, 1, offset)
	assert.Equal(t, 4, b.GetNumStates())
	assert.True(t, b.IsAccept(3))

	a, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, 2, a.Step(1, 'a'))
	assert.Equal(t, 3, a.Step(2, 'b'))
	assert.Equal(t, 0, a.GetNumTransitionsWithState(0))
}

func TestAutomaton_Immutable(t *testing.T) {
	a := mustChar(t, 'a')
	accept := a.AcceptStates()
	accept.Set(0)
	assert.False(t, a.IsAccept(0))
	assert.True(t, a.IsAccept(1))
}

func TestAutomaton_String(t *testing.T) {
	a := mustChar(t, 'x')
	s := a.String()
	assert.Contains(t, s, "states=2")
	assert.Contains(t, s, "'x' -> 1")
	assert.Contains(t, s, "state 1 [accept]")
}

func TestAlphabet(t *testing.T) {
	assert.Equal(t, 256, FullAlphabet.Size())
	assert.Equal(t, 128, ASCIIAlphabet.Size())
	assert.True(t, ASCIIAlphabet.Contains('a'))
	assert.False(t, ASCIIAlphabet.Contains(0x80))

	digits := Alphabet{Min: '0', Max: '9'}
	lower := Alphabet{Min: 'a', Max: 'z'}
	assert.Equal(t, Alphabet{Min: '0', Max: 'z'}, digits.Union(lower))
	assert.Equal(t, "[0x30-0x39]", digits.String())
}
