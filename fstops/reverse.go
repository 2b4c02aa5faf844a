package fstops

import "github.com/coregx/wfst/fst"

// Reverse builds the reverse of in: a new FST whose accepted path set is
// exactly in's, with every path's label sequence and nextstate order
// reversed. Every original arc (s, t, i, o, w) becomes (t, s, i, o, w);
// in's start state becomes final (weight One); a new super-initial state
// is added with an epsilon arc of weight w to every state f that was
// final in in with weight w.
//
// This assumes the semiring's weights are their own reverse (true of
// Tropical, Log, and Probability — the semirings this module carries); a
// semiring requiring an explicit reversal involution would need its own
// weight-reversal hook, which spec.md's semiring set doesn't need.
//
// Grounded on the shape of the teacher's nfa.Reverse (swap start/final,
// reverse every transition, rebuild start from the old match states),
// generalized from NFA epsilon/byte-range/split states to FST
// <ilabel,olabel,weight> arcs.
func Reverse(in *fst.VectorFst) (*fst.VectorFst, error) {
	n := in.NumStates()
	out := fst.NewVectorFst(in.Zero())
	if n == 0 {
		return out, nil
	}

	for s := 0; s < n; s++ {
		out.AddState()
	}
	superInit := out.AddState()
	if err := out.SetStart(superInit); err != nil {
		return nil, err
	}

	for s := 0; s < n; s++ {
		arcs, err := in.Arcs(fst.StateId(s))
		if err != nil {
			return nil, err
		}
		for _, a := range arcs {
			if err := out.AddArc(a.NextState, fst.Arc{
				ILabel:    a.ILabel,
				OLabel:    a.OLabel,
				Weight:    a.Weight,
				NextState: fst.StateId(s),
			}); err != nil {
				return nil, err
			}
		}
		if w, ok, err := in.FinalWeight(fst.StateId(s)); err != nil {
			return nil, err
		} else if ok {
			if err := out.AddArc(superInit, fst.Arc{
				ILabel:    fst.Epsilon,
				OLabel:    fst.Epsilon,
				Weight:    w,
				NextState: fst.StateId(s),
			}); err != nil {
				return nil, err
			}
		}
	}

	if in.Start() != fst.NoStateId {
		if err := out.SetFinal(in.Start(), in.Zero().One()); err != nil {
			return nil, err
		}
	}
	// out was built arc-by-arc with reversed direction; force its
	// properties bitmask to recompute now rather than leave it to the
	// next caller that happens to read Properties.
	out.SetProperties(out.Properties())
	return out, nil
}
