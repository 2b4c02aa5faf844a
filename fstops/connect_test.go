package fstops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

// buildFstWithDeadEnds builds: 0 --a--> 1(final), 0 --b--> 2 (dead end, no
// path to final), 3 --c--> 1 (unreachable from start).
func buildFstWithDeadEnds(t *testing.T) *fst.VectorFst {
	t.Helper()
	f := fst.NewVectorFst(semiring.TropicalZero)
	for i := 0; i < 4; i++ {
		f.AddState()
	}
	require.NoError(t, f.SetStart(0))
	require.NoError(t, f.AddArc(0, fst.Arc{ILabel: 1, OLabel: 1, Weight: semiring.TropicalOne, NextState: 1}))
	require.NoError(t, f.AddArc(0, fst.Arc{ILabel: 2, OLabel: 2, Weight: semiring.TropicalOne, NextState: 2}))
	require.NoError(t, f.AddArc(3, fst.Arc{ILabel: 3, OLabel: 3, Weight: semiring.TropicalOne, NextState: 1}))
	require.NoError(t, f.SetFinal(1, semiring.TropicalOne))
	return f
}

func TestConnectDropsDeadEndsAndUnreachableStates(t *testing.T) {
	f := buildFstWithDeadEnds(t)
	out, err := Connect(f)
	require.NoError(t, err)

	require.Equal(t, 2, out.NumStates(), "only the start state and the final state survive")
	start := out.Start()
	require.NotEqual(t, fst.NoStateId, start)

	arcs, err := out.Arcs(start)
	require.NoError(t, err)
	require.Len(t, arcs, 1, "the dead-end arc to state 2 must be dropped")
	require.Equal(t, fst.Label(1), arcs[0].ILabel)

	_, isFinal, err := out.FinalWeight(arcs[0].NextState)
	require.NoError(t, err)
	require.True(t, isFinal)
}

func TestConnectOnEmptyFstReturnsEmptyFst(t *testing.T) {
	f := fst.NewVectorFst(semiring.TropicalZero)
	out, err := Connect(f)
	require.NoError(t, err)
	require.Equal(t, 0, out.NumStates())
	require.Equal(t, fst.NoStateId, out.Start())
}

func TestConnectWithNoAccessibleFinalCollapses(t *testing.T) {
	f := fst.NewVectorFst(semiring.TropicalZero)
	f.AddState()
	f.AddState()
	require.NoError(t, f.SetStart(0))
	require.NoError(t, f.AddArc(0, fst.Arc{ILabel: 1, OLabel: 1, Weight: semiring.TropicalOne, NextState: 1}))

	out, err := Connect(f)
	require.NoError(t, err)
	require.Equal(t, 0, out.NumStates())
}
