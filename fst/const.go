package fst

import "github.com/coregx/wfst/semiring"

// ConstFst is an immutable, compacted FST: arcs for all states are stored
// in one flat slice, with a per-state (offset, count) pair pointing into
// it. This is the CSR-style layout the teacher's dfa/onepass package used
// to compact its transition table into one contiguous array indexed by
// (state * numClasses + class); here the compaction is over a variable
// per-state arc count instead of a fixed class count, since FST states
// have differing out-degree.
//
// ConstFst trades O(1) AddArc (which it doesn't support at all) for a
// smaller footprint and better locality during repeated Arcs() calls. It
// is built from a finished VectorFst via NewConstFstFromVector; BFS
// materialization (compose.Compute) always emits a VectorFst.
type ConstFst struct {
	arcs    []Arc
	offsets []int32 // len == NumStates()+1; arcs[offsets[s]:offsets[s+1]] are s's arcs
	finals  []semiring.Weight
	start   StateId
	props   Properties
	zero    semiring.Weight
}

// NewConstFstFromVector compacts src into a ConstFst. src is not modified.
func NewConstFstFromVector(src *VectorFst) (*ConstFst, error) {
	n := src.NumStates()
	c := &ConstFst{
		offsets: make([]int32, n+1),
		finals:  make([]semiring.Weight, n),
		start:   src.Start(),
		props:   src.Properties(),
		zero:    src.Zero(),
	}
	total := 0
	for s := 0; s < n; s++ {
		arcs, err := src.Arcs(StateId(s))
		if err != nil {
			return nil, err
		}
		total += len(arcs)
	}
	c.arcs = make([]Arc, 0, total)
	for s := 0; s < n; s++ {
		c.offsets[s] = int32(len(c.arcs))
		arcs, err := src.Arcs(StateId(s))
		if err != nil {
			return nil, err
		}
		c.arcs = append(c.arcs, arcs...)
		w, ok, err := src.FinalWeight(StateId(s))
		if err != nil {
			return nil, err
		}
		if ok {
			c.finals[s] = w
		}
	}
	c.offsets[n] = int32(len(c.arcs))
	return c, nil
}

func (f *ConstFst) Start() StateId { return f.start }

// Zero returns this FST's semiring's Zero weight.
func (f *ConstFst) Zero() semiring.Weight { return f.zero }

func (f *ConstFst) NumStates() int { return len(f.finals) }

func (f *ConstFst) checkState(s StateId) error {
	if s < 0 || int(s) >= f.NumStates() {
		return &Error{Kind: InvalidState, Message: "fst: invalid state id", StateId: s}
	}
	return nil
}

func (f *ConstFst) Arcs(s StateId) ([]Arc, error) {
	if err := f.checkState(s); err != nil {
		return nil, err
	}
	return f.arcs[f.offsets[s]:f.offsets[s+1]], nil
}

func (f *ConstFst) NumArcs(s StateId) (int, error) {
	if err := f.checkState(s); err != nil {
		return 0, err
	}
	return int(f.offsets[s+1] - f.offsets[s]), nil
}

func (f *ConstFst) FinalWeight(s StateId) (semiring.Weight, bool, error) {
	if err := f.checkState(s); err != nil {
		return nil, false, err
	}
	w := f.finals[s]
	if w == nil {
		return nil, false, nil
	}
	return w, true, nil
}

func (f *ConstFst) NumInputEpsilons(s StateId) (int, error) {
	arcs, err := f.Arcs(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range arcs {
		if a.ILabel == Epsilon {
			n++
		}
	}
	return n, nil
}

func (f *ConstFst) NumOutputEpsilons(s StateId) (int, error) {
	arcs, err := f.Arcs(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range arcs {
		if a.OLabel == Epsilon {
			n++
		}
	}
	return n, nil
}

func (f *ConstFst) Properties() Properties { return f.props }

var _ CoreFst = (*ConstFst)(nil)
