package filter

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/matcher"
	"github.com/coregx/wfst/semiring"
)

// sequencePhase decides the next IntegerState for a candidate arc pair
// given the current phase, under a fixed preference for which operand's
// epsilon run goes first. aFirst selects the preference: when true,
// operand A's epsilon run (phase aPhase) may be followed by operand B's
// epsilon run (phase bPhase), but once B has moved alone, A may not move
// alone again until a matched pair resets the phase; when false, the
// roles of A and B are swapped. This is the mechanism that turns a single
// ambiguous ε:ε alignment into exactly one canonical two-step
// decomposition instead of two redundant ones (spec.md §4.9 "Epsilon
// pairs").
func sequencePhase(cur IntegerState, tr1, tr2 *fst.Arc, aFirst bool) IntegerState {
	aPhase, bPhase := SequenceStateA, SequenceStateB
	if !aFirst {
		aPhase, bPhase = SequenceStateB, SequenceStateA
	}

	switch {
	case tr1.OLabel != fst.Epsilon && tr1.OLabel != fst.NoLabel &&
		tr2.ILabel != fst.Epsilon && tr2.ILabel != fst.NoLabel:
		// Real matched-label pair: always legal, resets the phase so a
		// fresh epsilon run may begin at the next composite state.
		return NewIntegerState(SequenceStateStart)
	case tr1.OLabel == fst.Epsilon && tr2.ILabel == fst.NoLabel:
		// Operand A moves alone (synthetic self-loop on B).
		if aFirst && cur.Value() == bPhase {
			return NoIntegerState()
		}
		return NewIntegerState(aPhase)
	case tr1.OLabel == fst.NoLabel && tr2.ILabel == fst.Epsilon:
		// Operand B moves alone (synthetic self-loop on A).
		if !aFirst && cur.Value() == aPhase {
			return NoIntegerState()
		}
		return NewIntegerState(bPhase)
	default:
		return NewIntegerState(SequenceStateStart)
	}
}

// SequenceFilter enforces that, at any one composite state, an operand-A
// epsilon run and an operand-B epsilon run never interleave: A's epsilons
// are consumed first, then B's (spec.md §4.6).
type SequenceFilter struct {
	m1, m2 matcher.Matcher
	fs     IntegerState
}

func NewSequenceFilter(m1, m2 matcher.Matcher) *SequenceFilter {
	return &SequenceFilter{m1: m1, m2: m2, fs: NewIntegerState(SequenceStateStart)}
}

func (f *SequenceFilter) Start() FilterState { return NewIntegerState(SequenceStateStart) }

func (f *SequenceFilter) SetState(s1, s2 fst.StateId, fs FilterState) error {
	is, ok := fs.(IntegerState)
	if !ok {
		return &Error{Kind: BadFilterState, Message: "sequence filter: state is not an IntegerState"}
	}
	f.fs = is
	return nil
}

func (f *SequenceFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	return sequencePhase(f.fs, tr1, tr2, true), nil
}

func (f *SequenceFilter) FilterFinal(w1, w2 *semiring.Weight) error { return nil }

func (f *SequenceFilter) Matcher1() matcher.Matcher { return f.m1 }
func (f *SequenceFilter) Matcher2() matcher.Matcher { return f.m2 }

// AltSequenceFilter is SequenceFilter's symmetric variant: operand B's
// epsilons are consumed first, then operand A's. Behaviorally this only
// changes which run is favored when both could legally start from a
// fresh composite state; which arc-enumeration order a caller exercises
// first is otherwise unspecified (spec.md §9).
type AltSequenceFilter struct {
	m1, m2 matcher.Matcher
	fs     IntegerState
}

func NewAltSequenceFilter(m1, m2 matcher.Matcher) *AltSequenceFilter {
	return &AltSequenceFilter{m1: m1, m2: m2, fs: NewIntegerState(SequenceStateStart)}
}

func (f *AltSequenceFilter) Start() FilterState { return NewIntegerState(SequenceStateStart) }

func (f *AltSequenceFilter) SetState(s1, s2 fst.StateId, fs FilterState) error {
	is, ok := fs.(IntegerState)
	if !ok {
		return &Error{Kind: BadFilterState, Message: "alt-sequence filter: state is not an IntegerState"}
	}
	f.fs = is
	return nil
}

func (f *AltSequenceFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	return sequencePhase(f.fs, tr1, tr2, false), nil
}

func (f *AltSequenceFilter) FilterFinal(w1, w2 *semiring.Weight) error { return nil }

func (f *AltSequenceFilter) Matcher1() matcher.Matcher { return f.m1 }
func (f *AltSequenceFilter) Matcher2() matcher.Matcher { return f.m2 }

var (
	_ ComposeFilter = (*SequenceFilter)(nil)
	_ ComposeFilter = (*AltSequenceFilter)(nil)
)
