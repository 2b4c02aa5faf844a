package fst

import (
	"github.com/coregx/wfst/internal/dfs"
	"github.com/coregx/wfst/semiring"
)

// vectorState is one state's mutable record: an ordered arc list and an
// optional final weight. Mirrors the teacher's per-state record shape in
// nfa.State, generalized from a single StateKind-tagged transition to an
// arbitrary-width outgoing arc list.
type vectorState struct {
	arcs  []Arc
	final semiring.Weight // nil means non-final
}

// VectorFst is the general-purpose mutable, in-memory FST: each state
// owns an independently growable arc slice. It is the concrete type
// operands are normally built in, and the type eager composition
// materializes into.
type VectorFst struct {
	states []vectorState
	start  StateId
	zero   semiring.Weight // this FST's semiring's Zero, used for FinalWeight bookkeeping
	props  Properties
	// cyclicDirty marks PropAcyclic/PropCyclic as stale: set whenever an
	// arc is added or removed, cleared by recomputeCyclic the next time
	// Properties is read. Every other bit is kept accurate incrementally
	// in AddArc, so only the two cycle bits need this.
	cyclicDirty bool
}

// NewVectorFst creates an empty VectorFst over the given semiring (zero
// value used to determine the weight type of the FST).
func NewVectorFst(zero semiring.Weight) *VectorFst {
	return &VectorFst{
		start: NoStateId,
		zero:  zero,
		props: PropAcceptor | PropEpsilonFree | PropInputEpsilonFree | PropOutputEpsilonFree |
			PropInputSorted | PropOutputSorted | PropAcyclic | PropUnweighted |
			PropIDeterministic | PropODeterministic,
	}
}

func (f *VectorFst) Start() StateId { return f.start }

// Zero returns this FST's semiring's Zero weight, as given to NewVectorFst.
func (f *VectorFst) Zero() semiring.Weight { return f.zero }

func (f *VectorFst) NumStates() int { return len(f.states) }

func (f *VectorFst) checkState(s StateId) error {
	if s < 0 || int(s) >= len(f.states) {
		return &Error{Kind: InvalidState, Message: "fst: invalid state id", StateId: s}
	}
	return nil
}

func (f *VectorFst) NumArcs(s StateId) (int, error) {
	if err := f.checkState(s); err != nil {
		return 0, err
	}
	return len(f.states[s].arcs), nil
}

func (f *VectorFst) Arcs(s StateId) ([]Arc, error) {
	if err := f.checkState(s); err != nil {
		return nil, err
	}
	return f.states[s].arcs, nil
}

func (f *VectorFst) FinalWeight(s StateId) (semiring.Weight, bool, error) {
	if err := f.checkState(s); err != nil {
		return nil, false, err
	}
	w := f.states[s].final
	if w == nil {
		return nil, false, nil
	}
	return w, true, nil
}

func (f *VectorFst) NumInputEpsilons(s StateId) (int, error) {
	if err := f.checkState(s); err != nil {
		return 0, err
	}
	n := 0
	for _, a := range f.states[s].arcs {
		if a.ILabel == Epsilon {
			n++
		}
	}
	return n, nil
}

func (f *VectorFst) NumOutputEpsilons(s StateId) (int, error) {
	if err := f.checkState(s); err != nil {
		return 0, err
	}
	n := 0
	for _, a := range f.states[s].arcs {
		if a.OLabel == Epsilon {
			n++
		}
	}
	return n, nil
}

// Properties returns the structural properties bitmask, recomputing the
// acyclic/cyclic bits first if a structural change has invalidated them.
func (f *VectorFst) Properties() Properties {
	if f.cyclicDirty {
		f.recomputeCyclic()
	}
	return f.props
}

// SetProperties overwrites the cached properties bitmask wholesale,
// including the acyclic/cyclic bits (clearing any pending recomputation).
// Used by algorithms (state-sort, connect, weight-convert) that rebuild
// enough of the FST's structure to know its properties outright rather
// than wait for the next lazy recomputation.
func (f *VectorFst) SetProperties(p Properties) {
	f.props = p
	f.cyclicDirty = false
}

// recomputeCyclic runs a DFS over every state (not just those reachable
// from Start, since the properties bitmask describes the whole structure)
// and sets PropAcyclic xor PropCyclic according to whether a back edge
// was found anywhere.
func (f *VectorFst) recomputeCyclic() {
	n := len(f.states)
	w := dfs.New(n, func(s dfs.StateId) ([]dfs.StateId, error) {
		arcs := f.states[s].arcs
		next := make([]dfs.StateId, len(arcs))
		for i, a := range arcs {
			next[i] = int(a.NextState)
		}
		return next, nil
	}, dfs.Visitor{}) // no BackEdge handler: Visit returns dfs.ErrCycle on one

	cyclic := false
	for s := 0; s < n && !cyclic; s++ {
		if w.Color(s) != dfs.White {
			continue
		}
		if err := w.Visit(s); err != nil {
			cyclic = true
		}
	}

	f.props &^= PropAcyclic | PropCyclic
	if cyclic {
		f.props |= PropCyclic
	} else {
		f.props |= PropAcyclic
	}
	f.cyclicDirty = false
}

func (f *VectorFst) AddState() StateId {
	f.states = append(f.states, vectorState{})
	return StateId(len(f.states) - 1)
}

func (f *VectorFst) AddArc(s StateId, arc Arc) error {
	if err := f.checkState(s); err != nil {
		return err
	}
	if int(arc.NextState) < 0 || int(arc.NextState) >= len(f.states) {
		return &Error{Kind: InvalidState, Message: "fst: arc nextstate out of range", StateId: arc.NextState}
	}
	st := &f.states[s]
	if len(st.arcs) > 0 {
		prev := st.arcs[len(st.arcs)-1]
		if arc.ILabel < prev.ILabel {
			f.props &^= PropInputSorted
		}
		if arc.OLabel < prev.OLabel {
			f.props &^= PropOutputSorted
		}
	}
	if f.props&(PropIDeterministic|PropODeterministic) != 0 {
		for _, p := range st.arcs {
			if p.ILabel == arc.ILabel {
				f.props &^= PropIDeterministic
			}
			if p.OLabel == arc.OLabel {
				f.props &^= PropODeterministic
			}
		}
	}
	if arc.ILabel != arc.OLabel {
		f.props &^= PropAcceptor
	}
	if arc.ILabel == Epsilon {
		f.props &^= PropInputEpsilonFree | PropEpsilonFree
	}
	if arc.OLabel == Epsilon {
		f.props &^= PropOutputEpsilonFree | PropEpsilonFree
	}
	if !arc.Weight.Equal(arc.Weight.One()) {
		f.props &^= PropUnweighted
		f.props |= PropWeighted
	}
	st.arcs = append(st.arcs, arc)
	f.cyclicDirty = true
	return nil
}

func (f *VectorFst) SetStart(s StateId) error {
	if err := f.checkState(s); err != nil {
		return err
	}
	f.start = s
	return nil
}

func (f *VectorFst) SetFinal(s StateId, w semiring.Weight) error {
	if err := f.checkState(s); err != nil {
		return err
	}
	f.states[s].final = w
	return nil
}

func (f *VectorFst) DeleteFinal(s StateId) error {
	if err := f.checkState(s); err != nil {
		return err
	}
	f.states[s].final = nil
	return nil
}

func (f *VectorFst) DeleteAllArcs(s StateId) error {
	if err := f.checkState(s); err != nil {
		return err
	}
	f.states[s].arcs = nil
	f.cyclicDirty = true
	return nil
}

func (f *VectorFst) ReserveStates(n int) {
	if cap(f.states)-len(f.states) < n {
		grown := make([]vectorState, len(f.states), len(f.states)+n)
		copy(grown, f.states)
		f.states = grown
	}
}

func (f *VectorFst) ReserveArcs(s StateId, n int) error {
	if err := f.checkState(s); err != nil {
		return err
	}
	st := &f.states[s]
	if cap(st.arcs)-len(st.arcs) < n {
		grown := make([]Arc, len(st.arcs), len(st.arcs)+n)
		copy(grown, st.arcs)
		st.arcs = grown
	}
	return nil
}

var (
	_ CoreFst    = (*VectorFst)(nil)
	_ MutableFst = (*VectorFst)(nil)
)
