package fstops

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

// StateSort renumbers in's states in place according to order: order[i] is
// the new id for old state i, so order must be a permutation of
// [0, in.NumStates()). Arc targets and the start state are rewritten to
// match.
//
// Grounded on rustfst's state_sort.rs: rather than building a second FST,
// it walks each not-yet-placed state's cycle of the permutation and swaps
// arcs/final weight into place one hop at a time, so every state's final
// content is moved exactly once. This port keeps that swap-cycle shape
// since fst.MutableFst (SetFinal/DeleteFinal/DeleteAllArcs/AddArc) offers
// the same primitive operations rustfst's MutableFst trait does.
func StateSort(in *fst.VectorFst, order []fst.StateId) error {
	n := in.NumStates()
	if len(order) != n {
		return &Error{Kind: BadOrder, Message: "fstops: order length does not match state count"}
	}
	if in.Start() == fst.NoStateId {
		return nil
	}
	if err := in.SetStart(order[in.Start()]); err != nil {
		return err
	}

	done := make([]bool, n)
	for s1 := 0; s1 < n; s1++ {
		if done[s1] {
			continue
		}
		final1, isFinal1, err := in.FinalWeight(fst.StateId(s1))
		if err != nil {
			return err
		}
		var trsA []fst.Arc
		trsA, err = in.Arcs(fst.StateId(s1))
		if err != nil {
			return err
		}
		trsA = append([]fst.Arc(nil), trsA...)

		cur := s1
		for !done[cur] {
			s2 := int(order[cur])

			var trsB []fst.Arc
			var final2 semiring.Weight
			var isFinal2 bool
			if !done[s2] {
				final2, isFinal2, err = in.FinalWeight(fst.StateId(s2))
				if err != nil {
					return err
				}
				trsB, err = in.Arcs(fst.StateId(s2))
				if err != nil {
					return err
				}
				trsB = append([]fst.Arc(nil), trsB...)
			}

			if isFinal1 {
				if err := in.SetFinal(fst.StateId(s2), final1); err != nil {
					return err
				}
			} else {
				if err := in.DeleteFinal(fst.StateId(s2)); err != nil {
					return err
				}
			}
			if err := in.DeleteAllArcs(fst.StateId(s2)); err != nil {
				return err
			}
			for _, a := range trsA {
				a.NextState = order[a.NextState]
				if err := in.AddArc(fst.StateId(s2), a); err != nil {
					return err
				}
			}

			done[cur] = true
			trsA = trsB
			final1, isFinal1 = final2, isFinal2
			cur = s2
		}
	}
	// Renumbering moves arcs around wholesale; force the properties
	// bitmask (including the acyclic/cyclic bits) to recompute now rather
	// than leave it to the next caller that happens to read Properties.
	in.SetProperties(in.Properties())
	return nil
}
