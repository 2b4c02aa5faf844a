// Package fstops collects the standalone structural operations carried out
// on finished FSTs: trimming to the useful part (Connect), renumbering
// states (StateSort), building the reverse machine (Reverse), and mapping
// weights between semirings (WeightConvert). Grounded on rustfst-cli's
// thin per-algorithm command wrappers (cmds/connect.rs, cmds/reverse.rs)
// and rustfst's state_sort.rs / weight_convert.rs, each one a standalone
// function taking and returning an FST rather than a method on it — the
// same free-function shape is used here.
package fstops

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/internal/dfs"
	"github.com/coregx/wfst/internal/sparse"
)

// Connect returns a copy of in restricted to its useful part: states that
// are both accessible (reachable from the start state) and coaccessible
// (able to reach some final state). Arc targets are remapped to the
// trimmed FST's densely renumbered ids. An FST with no accessible final
// state collapses to the empty FST (no start, no states).
//
// Grounded on the teacher's DFS-visited-set idiom (dfa/lazy's
// slice-indexed cache, generalized here to a boolean reachability set)
// and internal/sparse's documented purpose as Connect's visited-set
// store, run here as two passes over the shared internal/dfs visitor:
// forward from start, and a reverse walk over an on-the-fly transposed
// adjacency list rooted at every final state.
func Connect(in *fst.VectorFst) (*fst.VectorFst, error) {
	n := in.NumStates()
	out := fst.NewVectorFst(in.Zero())
	if n == 0 || in.Start() == fst.NoStateId {
		return out, nil
	}

	accessible, err := reachableFrom(in, in.Start())
	if err != nil {
		return nil, err
	}

	rev, err := transpose(in)
	if err != nil {
		return nil, err
	}
	coaccessible := sparse.NewSparseSet(uint32(n))
	revWalk := dfs.New(n, func(s dfs.StateId) ([]dfs.StateId, error) {
		preds := rev[s]
		next := make([]dfs.StateId, len(preds))
		for i, p := range preds {
			next[i] = int(p)
		}
		return next, nil
	}, dfs.Visitor{
		PreVisit: func(s dfs.StateId) error {
			coaccessible.Insert(uint32(s))
			return nil
		},
		// Connect runs over arbitrary (possibly cyclic) FSTs; a back edge
		// is an ordinary cycle here, not an error.
		BackEdge: func(s, t dfs.StateId) error { return nil },
	})
	for s := 0; s < n; s++ {
		if _, ok, err := in.FinalWeight(fst.StateId(s)); err != nil {
			return nil, err
		} else if ok {
			if err := revWalk.Visit(s); err != nil {
				return nil, err
			}
		}
	}

	// Size out's state slice from the accessible/coaccessible overlap
	// before adding any of it, instead of letting AddState grow the
	// backing slice one state at a time.
	out.ReserveStates(accessible.IntersectionCount(coaccessible))

	keep := make([]bool, n)
	for s := 0; s < n; s++ {
		keep[s] = accessible.Contains(uint32(s)) && coaccessible.Contains(uint32(s))
	}

	idMap := make([]fst.StateId, n)
	for s := 0; s < n; s++ {
		if keep[s] {
			idMap[s] = out.AddState()
		} else {
			idMap[s] = fst.NoStateId
		}
	}

	if !keep[in.Start()] {
		return out, nil
	}
	if err := out.SetStart(idMap[in.Start()]); err != nil {
		return nil, err
	}

	for s := 0; s < n; s++ {
		if !keep[s] {
			continue
		}
		if w, ok, err := in.FinalWeight(fst.StateId(s)); err != nil {
			return nil, err
		} else if ok {
			if err := out.SetFinal(idMap[s], w); err != nil {
				return nil, err
			}
		}
		arcs, err := in.Arcs(fst.StateId(s))
		if err != nil {
			return nil, err
		}
		for _, a := range arcs {
			if !keep[a.NextState] {
				continue
			}
			if err := out.AddArc(idMap[s], fst.Arc{
				ILabel:    a.ILabel,
				OLabel:    a.OLabel,
				Weight:    a.Weight,
				NextState: idMap[a.NextState],
			}); err != nil {
				return nil, err
			}
		}
	}
	// Trimming can remove the only cycle (or the only acyclic path) in
	// the original FST; force a recompute now rather than leave it to
	// the next caller that happens to read Properties.
	out.SetProperties(out.Properties())
	return out, nil
}

func reachableFrom(f *fst.VectorFst, start fst.StateId) (*sparse.SparseSet, error) {
	seen := sparse.NewSparseSet(uint32(f.NumStates()))
	w := dfs.New(f.NumStates(), func(s dfs.StateId) ([]dfs.StateId, error) {
		arcs, err := f.Arcs(fst.StateId(s))
		if err != nil {
			return nil, err
		}
		next := make([]dfs.StateId, len(arcs))
		for i, a := range arcs {
			next[i] = int(a.NextState)
		}
		return next, nil
	}, dfs.Visitor{
		PreVisit: func(s dfs.StateId) error {
			seen.Insert(uint32(s))
			return nil
		},
		BackEdge: func(s, t dfs.StateId) error { return nil },
	})
	if err := w.Visit(int(start)); err != nil {
		return nil, err
	}
	return seen, nil
}

// adjacency is a plain reverse-edge list: adjacency[s] holds every state
// with an arc landing on s.
type adjacency [][]fst.StateId

func transpose(f *fst.VectorFst) (adjacency, error) {
	n := f.NumStates()
	rev := make(adjacency, n)
	for s := 0; s < n; s++ {
		arcs, err := f.Arcs(fst.StateId(s))
		if err != nil {
			return nil, err
		}
		for _, a := range arcs {
			rev[a.NextState] = append(rev[a.NextState], fst.StateId(s))
		}
	}
	return rev, nil
}
