package matcher

import (
	"errors"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/internal/dfs"
)

// ErrCyclicInput is returned by BuildReachSets when f contains a cycle:
// interval-set reachability assumes a DAG so it can assign each final
// state a single contiguous index range in one DFS pass. rustfst's
// IntervalReachVisitor panics on this case (back_arc calls
// `panic!("Cyclic input")`); this port returns an error instead, since a
// library call discovering the operand it was just handed is cyclic is
// recoverable application state, not a programming error.
var ErrCyclicInput = errors.New("matcher: cyclic input not supported by interval reachability")

// BuildReachSets runs a DFS over f and returns, for every discovered
// state, the IntervalSet of final-state indices reachable from it
// (including itself if final). Grounded on
// rustfst/.../interval_reach_visitor.rs, generalized to return the result
// rather than mutate visitor fields, and fixing the mis-reversed branch
// spec.md §9 calls out (see unionIntervalSets). The traversal itself runs
// on the shared internal/dfs visitor; BuildReachSets supplies only the
// interval bookkeeping at each callback.
func BuildReachSets(f fst.CoreFst) ([]IntervalSet, error) {
	n := f.NumStates()
	isets := make([]IntervalSet, n)
	index := 0

	neighbors := func(s dfs.StateId) ([]dfs.StateId, error) {
		arcs, err := f.Arcs(fst.StateId(s))
		if err != nil {
			return nil, err
		}
		next := make([]dfs.StateId, len(arcs))
		for i, a := range arcs {
			next[i] = int(a.NextState)
		}
		return next, nil
	}

	w := dfs.New(n, neighbors, dfs.Visitor{
		PreVisit: func(s dfs.StateId) error {
			if _, ok, err := f.FinalWeight(fst.StateId(s)); err != nil {
				return err
			} else if ok {
				isets[s].Add(IntInterval{Begin: index, End: index + 1})
				index++
			}
			return nil
		},
		TreeEdge: func(s, t dfs.StateId) error {
			unionIntervalSets(isets, s, t)
			return nil
		},
		CrossEdge: func(s, t dfs.StateId) error {
			unionIntervalSets(isets, s, t)
			return nil
		},
		// BackEdge left nil: a back edge means f has a cycle, which
		// interval reachability cannot represent. Visit then returns
		// dfs.ErrCycle, translated to ErrCyclicInput below.
		PostVisit: func(s dfs.StateId) error {
			if _, ok, err := f.FinalWeight(fst.StateId(s)); err != nil {
				return err
			} else if ok && len(isets[s].Intervals) > 0 {
				isets[s].Intervals[0].End = index
			}
			isets[s].Normalize()
			return nil
		},
	})

	if f.Start() != fst.NoStateId {
		if err := w.Visit(int(f.Start())); err != nil {
			if errors.Is(err, dfs.ErrCycle) {
				return nil, ErrCyclicInput
			}
			return nil, err
		}
	}
	// States unreachable from start (e.g. discovered later during
	// composition) still get an empty, valid IntervalSet.
	return isets, nil
}
