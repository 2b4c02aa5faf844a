package filter

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/matcher"
	"github.com/coregx/wfst/semiring"
)

// MatchFilter behaves like SequenceFilter but carries its phase in a
// PairState so it composes with matchers whose Priority() may prefer
// either operand to drive iteration at a given state — the second slot
// is reserved for that priority tie-break and always reports
// SequenceStateStart here, since both operands are equally eligible to
// be queried first under this filter (spec.md §4.6 "uses matcher
// priorities").
type MatchFilter struct {
	m1, m2 matcher.Matcher
	fs     IntegerState
}

func NewMatchFilter(m1, m2 matcher.Matcher) *MatchFilter {
	return &MatchFilter{m1: m1, m2: m2, fs: NewIntegerState(SequenceStateStart)}
}

func (f *MatchFilter) Start() FilterState {
	return NewPairState(NewIntegerState(SequenceStateStart), NewIntegerState(SequenceStateStart))
}

func (f *MatchFilter) SetState(s1, s2 fst.StateId, fs FilterState) error {
	ps, ok := fs.(PairState)
	if !ok {
		return &Error{Kind: BadFilterState, Message: "match filter: state is not a PairState"}
	}
	f.fs = ps.First
	return nil
}

func (f *MatchFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	next := sequencePhase(f.fs, tr1, tr2, true)
	if next.IsNoState() {
		return NoPairState(), nil
	}
	return NewPairState(next, NewIntegerState(SequenceStateStart)), nil
}

func (f *MatchFilter) FilterFinal(w1, w2 *semiring.Weight) error { return nil }

func (f *MatchFilter) Matcher1() matcher.Matcher { return f.m1 }
func (f *MatchFilter) Matcher2() matcher.Matcher { return f.m2 }

// NoMatchFilter is the complement of NullFilter: it rejects a direct
// real-to-real epsilon:epsilon pairing on the matched side (one that was
// not produced by the synthetic self-loop decomposition ComposeFst uses
// for the A-alone/B-alone steps), while still accepting that synthetic
// decomposition itself — the opposite of what NullFilter allows through
// (spec.md §4.6 "forbids ε/ε pairs unless labels were produced by filter
// relabeling").
type NoMatchFilter struct {
	m1, m2 matcher.Matcher
	fs     IntegerState
}

func NewNoMatchFilter(m1, m2 matcher.Matcher) *NoMatchFilter {
	return &NoMatchFilter{m1: m1, m2: m2, fs: NewIntegerState(SequenceStateStart)}
}

func (f *NoMatchFilter) Start() FilterState {
	return NewPairState(NewIntegerState(SequenceStateStart), NewIntegerState(SequenceStateStart))
}

func (f *NoMatchFilter) SetState(s1, s2 fst.StateId, fs FilterState) error {
	ps, ok := fs.(PairState)
	if !ok {
		return &Error{Kind: BadFilterState, Message: "no-match filter: state is not a PairState"}
	}
	f.fs = ps.First
	return nil
}

func (f *NoMatchFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	if tr1.OLabel == fst.Epsilon && tr2.ILabel == fst.Epsilon &&
		tr1.ILabel != fst.NoLabel && tr2.OLabel != fst.NoLabel {
		return NoPairState(), nil
	}
	next := sequencePhase(f.fs, tr1, tr2, true)
	if next.IsNoState() {
		return NoPairState(), nil
	}
	return NewPairState(next, NewIntegerState(SequenceStateStart)), nil
}

func (f *NoMatchFilter) FilterFinal(w1, w2 *semiring.Weight) error { return nil }

func (f *NoMatchFilter) Matcher1() matcher.Matcher { return f.m1 }
func (f *NoMatchFilter) Matcher2() matcher.Matcher { return f.m2 }

var (
	_ ComposeFilter = (*MatchFilter)(nil)
	_ ComposeFilter = (*NoMatchFilter)(nil)
)
