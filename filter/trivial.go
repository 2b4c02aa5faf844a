package filter

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/matcher"
	"github.com/coregx/wfst/semiring"
)

// TrivialFilter accepts every candidate pair unconditionally. It is only
// correct when at most one operand has epsilon transitions on the
// matched side, since it performs no sequencing (spec.md §4.6).
type TrivialFilter struct {
	m1, m2 matcher.Matcher
}

func NewTrivialFilter(m1, m2 matcher.Matcher) *TrivialFilter {
	return &TrivialFilter{m1: m1, m2: m2}
}

func (f *TrivialFilter) Start() FilterState { return NewTrivialState(true) }

func (f *TrivialFilter) SetState(s1, s2 fst.StateId, fs FilterState) error { return nil }

func (f *TrivialFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	return NewTrivialState(true), nil
}

func (f *TrivialFilter) FilterFinal(w1, w2 *semiring.Weight) error { return nil }

func (f *TrivialFilter) Matcher1() matcher.Matcher { return f.m1 }
func (f *TrivialFilter) Matcher2() matcher.Matcher { return f.m2 }

// NullFilter rejects any candidate pair that carries the synthetic
// "other side stays" sentinel (Arc.ILabel/OLabel == fst.NoLabel),
// meaning it never performs epsilon decomposition: it is only valid
// when both operands are epsilon-free on the matched side, in exchange
// for doing no sequencing bookkeeping at all.
type NullFilter struct {
	m1, m2 matcher.Matcher
}

func NewNullFilter(m1, m2 matcher.Matcher) *NullFilter {
	return &NullFilter{m1: m1, m2: m2}
}

func (f *NullFilter) Start() FilterState { return NewTrivialState(true) }

func (f *NullFilter) SetState(s1, s2 fst.StateId, fs FilterState) error { return nil }

func (f *NullFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	if tr1.OLabel == fst.NoLabel || tr2.ILabel == fst.NoLabel {
		return NewTrivialState(false), nil
	}
	return NewTrivialState(true), nil
}

func (f *NullFilter) FilterFinal(w1, w2 *semiring.Weight) error { return nil }

func (f *NullFilter) Matcher1() matcher.Matcher { return f.m1 }
func (f *NullFilter) Matcher2() matcher.Matcher { return f.m2 }

var (
	_ ComposeFilter = (*TrivialFilter)(nil)
	_ ComposeFilter = (*NullFilter)(nil)
)
