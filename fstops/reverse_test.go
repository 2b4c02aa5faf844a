package fstops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

func TestReverseSwapsStartAndFinalAndFlipsArcs(t *testing.T) {
	f := fst.NewVectorFst(semiring.TropicalZero)
	for i := 0; i < 2; i++ {
		f.AddState()
	}
	require.NoError(t, f.SetStart(0))
	require.NoError(t, f.AddArc(0, fst.Arc{ILabel: 5, OLabel: 5, Weight: semiring.TropicalWeight(3), NextState: 1}))
	require.NoError(t, f.SetFinal(1, semiring.TropicalWeight(2)))

	rev, err := Reverse(f)
	require.NoError(t, err)

	require.Equal(t, 3, rev.NumStates(), "original states plus one super-initial state")
	superInit := rev.Start()
	require.NotEqual(t, fst.NoStateId, superInit)

	arcs, err := rev.Arcs(superInit)
	require.NoError(t, err)
	require.Len(t, arcs, 1)
	require.Equal(t, fst.StateId(1), arcs[0].NextState)
	require.True(t, semiring.TropicalWeight(2).Equal(arcs[0].Weight))

	arcs, err = rev.Arcs(1)
	require.NoError(t, err)
	require.Len(t, arcs, 1)
	require.Equal(t, fst.StateId(0), arcs[0].NextState)
	require.Equal(t, fst.Label(5), arcs[0].ILabel)
	require.True(t, semiring.TropicalWeight(3).Equal(arcs[0].Weight))

	_, isFinal, err := rev.FinalWeight(0)
	require.NoError(t, err)
	require.True(t, isFinal, "the original start state becomes final in the reverse machine")
}

func TestReverseOnEmptyFst(t *testing.T) {
	f := fst.NewVectorFst(semiring.TropicalZero)
	rev, err := Reverse(f)
	require.NoError(t, err)
	require.Equal(t, 0, rev.NumStates())
}
