package lazy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

// countingOp computes a tiny two-state chain and counts how many times
// each state's arcs/final were computed, to verify caching behavior.
type countingOp struct {
	arcCalls, finalCalls map[fst.StateId]int
}

func newCountingOp() *countingOp {
	return &countingOp{arcCalls: map[fst.StateId]int{}, finalCalls: map[fst.StateId]int{}}
}

func (o *countingOp) Start() (fst.StateId, error) { return 0, nil }

func (o *countingOp) ComputeArcs(s fst.StateId) ([]fst.Arc, error) {
	o.arcCalls[s]++
	if s == 0 {
		return []fst.Arc{{ILabel: 1, OLabel: 1, Weight: semiring.TropicalOne, NextState: 1}}, nil
	}
	return nil, nil
}

func (o *countingOp) ComputeFinal(s fst.StateId) (semiring.Weight, bool, error) {
	o.finalCalls[s]++
	if s == 1 {
		return semiring.TropicalOne, true, nil
	}
	return nil, false, nil
}

func TestLazyFstComputesOnceAndCaches(t *testing.T) {
	op := newCountingOp()
	lf := NewLazyFst(op)

	require.Equal(t, fst.StateId(0), lf.Start())

	arcs, err := lf.Arcs(0)
	require.NoError(t, err)
	require.Len(t, arcs, 1)

	_, err = lf.Arcs(0)
	require.NoError(t, err)
	require.Equal(t, 1, op.arcCalls[0], "second Arcs(0) call must be served from cache")

	w, isFinal, err := lf.FinalWeight(1)
	require.NoError(t, err)
	require.True(t, isFinal)
	require.True(t, semiring.TropicalOne.Equal(w))

	_, _, err = lf.FinalWeight(1)
	require.NoError(t, err)
	require.Equal(t, 1, op.finalCalls[1], "second FinalWeight(1) call must be served from cache")
}

func TestLazyFstNumStatesGrowsWithDiscovery(t *testing.T) {
	op := newCountingOp()
	lf := NewLazyFst(op)
	require.Equal(t, 0, lf.NumStates())

	_, err := lf.Arcs(0)
	require.NoError(t, err)
	require.Equal(t, 1, lf.NumStates())

	_, err = lf.Arcs(1)
	require.NoError(t, err)
	require.Equal(t, 2, lf.NumStates())
}

type errOp struct{}

func (errOp) Start() (fst.StateId, error) { return fst.NoStateId, fst.ErrNoStart }
func (errOp) ComputeArcs(s fst.StateId) ([]fst.Arc, error) {
	return nil, &fst.Error{Kind: fst.InvalidState, Message: "boom", StateId: s}
}
func (errOp) ComputeFinal(s fst.StateId) (semiring.Weight, bool, error) { return nil, false, nil }

func TestLazyFstPropagatesComputeErrors(t *testing.T) {
	lf := NewLazyFst(errOp{})
	_, err := lf.Arcs(0)
	require.Error(t, err)
	require.ErrorIs(t, err, &fst.Error{Kind: fst.InvalidState})
}

func TestLazyFstStartErr(t *testing.T) {
	lf := NewLazyFst(errOp{})
	require.Equal(t, fst.NoStateId, lf.Start())
	require.ErrorIs(t, lf.StartErr(), fst.ErrNoStart)
}
