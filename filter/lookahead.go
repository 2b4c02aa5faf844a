package filter

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/matcher"
	"github.com/coregx/wfst/semiring"
)

// LookAheadFilter wraps an inner filter (typically Sequence or Match) and
// additionally rejects any candidate pair where either side's next state
// cannot reach a final state of its own operand, pruning dead-end subtrees before
// they are ever inserted into the composite state table (spec.md §4.6,
// §4.7). Either look-ahead matcher may be nil, meaning that side offers
// no pruning (every candidate passes that side's check).
type LookAheadFilter struct {
	inner      ComposeFilter
	lam1, lam2 *matcher.LookAheadMatcher
}

// NewLookAheadFilter wraps inner. lam1 looks ahead from operand A's next
// state, lam2 from operand B's; pass nil for a side with no reachability
// data (e.g. it was cyclic, per matcher.NewLookAheadMatcher's degrade
// path, or simply not built).
func NewLookAheadFilter(inner ComposeFilter, lam1, lam2 *matcher.LookAheadMatcher) *LookAheadFilter {
	return &LookAheadFilter{inner: inner, lam1: lam1, lam2: lam2}
}

func (f *LookAheadFilter) Start() FilterState { return f.inner.Start() }

func (f *LookAheadFilter) SetState(s1, s2 fst.StateId, fs FilterState) error {
	return f.inner.SetState(s1, s2, fs)
}

func (f *LookAheadFilter) FilterTr(tr1, tr2 *fst.Arc) (FilterState, error) {
	next, err := f.inner.FilterTr(tr1, tr2)
	if err != nil || next.IsNoState() {
		return next, err
	}
	if f.lam1 != nil && !f.lam1.CanReachFinal(tr1.NextState) {
		return rejectLike(next), nil
	}
	if f.lam2 != nil && !f.lam2.CanReachFinal(tr2.NextState) {
		return rejectLike(next), nil
	}
	return next, nil
}

// rejectLike returns the NoState sentinel of the same concrete type as
// fs, so callers that type-assert the returned FilterState (e.g. a
// subsequent SetState on the same filter kind) don't see a type change
// on rejection.
func rejectLike(fs FilterState) FilterState {
	switch fs.(type) {
	case PairState:
		return NoPairState()
	case IntegerState:
		return NoIntegerState()
	default:
		return NewTrivialState(false)
	}
}

func (f *LookAheadFilter) FilterFinal(w1, w2 *semiring.Weight) error {
	return f.inner.FilterFinal(w1, w2)
}

func (f *LookAheadFilter) Matcher1() matcher.Matcher { return f.inner.Matcher1() }
func (f *LookAheadFilter) Matcher2() matcher.Matcher { return f.inner.Matcher2() }

var _ ComposeFilter = (*LookAheadFilter)(nil)
