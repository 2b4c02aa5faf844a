package fst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/wfst/semiring"
)

func buildSimpleAcceptor(t *testing.T) *VectorFst {
	t.Helper()
	f := NewVectorFst(semiring.TropicalZero)
	s0 := f.AddState()
	s1 := f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.AddArc(s0, Arc{ILabel: 1, OLabel: 1, Weight: semiring.TropicalWeight(0.5), NextState: s1}))
	require.NoError(t, f.SetFinal(s1, semiring.TropicalOne))
	return f
}

func TestVectorFstBasics(t *testing.T) {
	f := buildSimpleAcceptor(t)
	require.Equal(t, 2, f.NumStates())
	require.Equal(t, StateId(0), f.Start())

	arcs, err := f.Arcs(0)
	require.NoError(t, err)
	require.Len(t, arcs, 1)
	require.Equal(t, Label(1), arcs[0].ILabel)

	w, ok, err := f.FinalWeight(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, w.Equal(semiring.TropicalOne))

	_, ok, err = f.FinalWeight(0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVectorFstInvalidState(t *testing.T) {
	f := buildSimpleAcceptor(t)
	_, err := f.Arcs(99)
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, InvalidState, fe.Kind)
}

func TestVectorFstPropertiesTrackSortedness(t *testing.T) {
	f := NewVectorFst(semiring.TropicalZero)
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.AddArc(s0, Arc{ILabel: 5, OLabel: 5, Weight: semiring.TropicalOne, NextState: s1}))
	require.True(t, f.Properties().Has(PropInputSorted))

	require.NoError(t, f.AddArc(s0, Arc{ILabel: 1, OLabel: 1, Weight: semiring.TropicalOne, NextState: s2}))
	require.False(t, f.Properties().Has(PropInputSorted))
}

func TestConstFstMirrorsVectorFst(t *testing.T) {
	v := buildSimpleAcceptor(t)
	c, err := NewConstFstFromVector(v)
	require.NoError(t, err)

	require.Equal(t, v.NumStates(), c.NumStates())
	require.Equal(t, v.Start(), c.Start())

	for s := 0; s < v.NumStates(); s++ {
		va, err := v.Arcs(StateId(s))
		require.NoError(t, err)
		ca, err := c.Arcs(StateId(s))
		require.NoError(t, err)
		require.Equal(t, va, ca)

		vw, vok, err := v.FinalWeight(StateId(s))
		require.NoError(t, err)
		cw, cok, err := c.FinalWeight(StateId(s))
		require.NoError(t, err)
		require.Equal(t, vok, cok)
		if vok {
			require.True(t, vw.Equal(cw))
		}
	}
}
