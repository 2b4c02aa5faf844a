package compose

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/fstops"
	"github.com/coregx/wfst/internal/sparse"
	"github.com/coregx/wfst/semiring"
)

// growingSet wraps internal/sparse.SparseSet with dynamic capacity growth:
// SparseSet.Insert panics once a value reaches its fixed capacity, which a
// BFS over lazily-discovered composite state ids can't bound up front.
// Grounded on the same capacity-doubling idiom the teacher's dfa/lazy.Cache
// uses for its states slice, applied here to a sparse membership set
// instead of a dense cache slice.
type growingSet struct {
	set *sparse.SparseSet
	cap uint32
}

func newGrowingSet(initialCap uint32) *growingSet {
	if initialCap == 0 {
		initialCap = 1
	}
	return &growingSet{set: sparse.NewSparseSet(initialCap), cap: initialCap}
}

func (g *growingSet) growTo(need uint32) {
	if need < g.cap {
		return
	}
	newCap := g.cap * 2
	for newCap <= need {
		newCap *= 2
	}
	grown := sparse.NewSparseSet(newCap)
	g.set.Iter(func(v uint32) { grown.Insert(v) })
	g.set = grown
	g.cap = newCap
}

func (g *growingSet) markGrow(v uint32) {
	g.growTo(v)
	g.set.Insert(v)
}

func (g *growingSet) containsGrow(v uint32) bool {
	if v >= g.cap {
		return false
	}
	return g.set.Contains(v)
}

// Compute eagerly materializes src (typically a *ComposeFst, but any
// fst.CoreFst works) into a concrete *fst.VectorFst via breadth-first
// discovery from the start state, visiting each reachable state exactly
// once and copying its arcs (relabeled to the materialized FST's dense
// ids) and final weight. When cfg.Connect is true, fstops.Connect trims
// states that cannot reach a final state afterward.
//
// Grounded on the teacher's subset-construction BFS shape
// (nfa/composite_dfa.go) generalized from NFA-subset discovery to
// arbitrary fst.StateId discovery, using internal/sparse.SparseSet (via
// growingSet) for the visited-set instead of a Go map.
func Compute(src fst.CoreFst, zero semiring.Weight, cfg Config) (*fst.VectorFst, error) {
	out := fst.NewVectorFst(zero)

	start := src.Start()
	if start == fst.NoStateId {
		return out, nil
	}

	idMap := make(map[fst.StateId]fst.StateId)
	visited := newGrowingSet(64)
	queue := []fst.StateId{start}
	visited.markGrow(uint32(start))
	idMap[start] = out.AddState()
	if err := out.SetStart(idMap[start]); err != nil {
		return nil, err
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		w, isFinal, err := src.FinalWeight(s)
		if err != nil {
			return nil, err
		}
		if isFinal {
			if err := out.SetFinal(idMap[s], w); err != nil {
				return nil, err
			}
		}

		arcs, err := src.Arcs(s)
		if err != nil {
			return nil, err
		}
		for _, a := range arcs {
			if !visited.containsGrow(uint32(a.NextState)) {
				visited.markGrow(uint32(a.NextState))
				idMap[a.NextState] = out.AddState()
				queue = append(queue, a.NextState)
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

	if cfg.Connect {
		return fstops.Connect(out)
	}
	return out, nil
}
