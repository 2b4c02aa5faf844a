package fstops

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

// WeightConverter maps one semiring's weights to another's, one arc or
// final weight at a time. Implementations typically convert via a common
// representation (e.g. Tropical's -log domain already matches Log's).
type WeightConverter interface {
	ConvertArcWeight(w semiring.Weight) (semiring.Weight, error)
	ConvertFinalWeight(w semiring.Weight) (semiring.Weight, error)
}

// WeightConvert rebuilds in under a different semiring (out's Zero)
// using conv to translate every arc and final weight. Labels, state ids,
// and topology are unchanged.
//
// Grounded on rustfst's weight_convert.rs, reduced to its
// MapNoSuperfinal case: this module's semirings (Tropical, Log,
// Probability) are
// all closed under direct weight translation with no superfinal state
// needed, so the MapAllowSuperfinal/MapRequireSuperfinal machinery that
// handles weight pushing past final-weight normalization doesn't apply
// here.
func WeightConvert(in *fst.VectorFst, outZero semiring.Weight, conv WeightConverter) (*fst.VectorFst, error) {
	out := fst.NewVectorFst(outZero)
	n := in.NumStates()
	if n == 0 {
		return out, nil
	}

	for s := 0; s < n; s++ {
		out.AddState()
	}
	if in.Start() != fst.NoStateId {
		if err := out.SetStart(in.Start()); err != nil {
			return nil, err
		}
	}

	for s := 0; s < n; s++ {
		arcs, err := in.Arcs(fst.StateId(s))
		if err != nil {
			return nil, err
		}
		for _, a := range arcs {
			w, err := conv.ConvertArcWeight(a.Weight)
			if err != nil {
				return nil, err
			}
			if err := out.AddArc(fst.StateId(s), fst.Arc{
				ILabel:    a.ILabel,
				OLabel:    a.OLabel,
				Weight:    w,
				NextState: a.NextState,
			}); err != nil {
				return nil, err
			}
		}
		if w, ok, err := in.FinalWeight(fst.StateId(s)); err != nil {
			return nil, err
		} else if ok {
			cw, err := conv.ConvertFinalWeight(w)
			if err != nil {
				return nil, err
			}
			if err := out.SetFinal(fst.StateId(s), cw); err != nil {
				return nil, err
			}
		}
	}
	// Topology is unchanged but weights are, which can flip the
	// weighted/unweighted bits; force a recompute now rather than leave
	// it to the next caller that happens to read Properties.
	out.SetProperties(out.Properties())
	return out, nil
}
