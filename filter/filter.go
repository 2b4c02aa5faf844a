package filter

import (
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/matcher"
	"github.com/coregx/wfst/semiring"
)

// ComposeFilter is the pluggable state machine that disambiguates epsilon
// transitions during composition, ensuring every aligned pair of paths in
// the two operands produces exactly one composite path (spec.md §4.6).
// ComposeFst (the compose package) constructs matchers M1 (bound to
// operand A, MatchOutput) and M2 (bound to operand B, MatchInput) and
// passes them to the filter's constructor; FilterTr is then called once
// per candidate arc pair considered while enumerating arcs at one
// composite state.
type ComposeFilter interface {
	// Start returns the initial filter state fs0.
	Start() FilterState
	// SetState informs the filter of the composite state about to be
	// expanded, so subsequent FilterTr/FilterFinal calls can consult
	// the filter's own bookkeeping for (s1, s2, fs).
	SetState(s1, s2 fst.StateId, fs FilterState) error
	// FilterTr may rewrite *tr1 and *tr2 (label relabeling is how
	// filters "insert" epsilon-only transitions) and returns either the
	// next filter state, or a FilterState whose IsNoState() is true to
	// reject the candidate pair.
	FilterTr(tr1, tr2 *fst.Arc) (FilterState, error)
	// FilterFinal may rewrite the operand final weights before they
	// are combined (via Times) into the composite final weight.
	FilterFinal(w1, w2 *semiring.Weight) error
	// Matcher1 returns the matcher bound to operand A (MatchOutput).
	Matcher1() matcher.Matcher
	// Matcher2 returns the matcher bound to operand B (MatchInput).
	Matcher2() matcher.Matcher
}

// Kind enumerates the compose filter variants, used by compose.ComposeFst
// to select among them at the public boundary while keeping the internal
// composition loop monomorphic per choice (spec.md §9 "Generic over
// matcher, filter, semiring").
type Kind uint8

const (
	KindAuto Kind = iota
	KindNull
	KindTrivial
	KindSequence
	KindAltSequence
	KindMatch
	KindNoMatch
)

// New constructs the compose filter named by kind. KindAuto is not
// handled here: Auto selection is a property of the two operands (the
// compose package resolves it from compose.Config before calling New).
// Look-ahead is not a Kind either: it wraps an already-constructed filter
// via NewLookAheadFilter.
func New(kind Kind, m1, m2 matcher.Matcher) (ComposeFilter, error) {
	switch kind {
	case KindNull:
		return NewNullFilter(m1, m2), nil
	case KindTrivial:
		return NewTrivialFilter(m1, m2), nil
	case KindSequence:
		return NewSequenceFilter(m1, m2), nil
	case KindAltSequence:
		return NewAltSequenceFilter(m1, m2), nil
	case KindMatch:
		return NewMatchFilter(m1, m2), nil
	case KindNoMatch:
		return NewNoMatchFilter(m1, m2), nil
	default:
		return nil, &Error{Kind: BadFilterState, Message: "filter: unsupported kind for direct construction: " + kind.String()}
	}
}

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "Auto"
	case KindNull:
		return "Null"
	case KindTrivial:
		return "Trivial"
	case KindSequence:
		return "Sequence"
	case KindAltSequence:
		return "AltSequence"
	case KindMatch:
		return "Match"
	case KindNoMatch:
		return "NoMatch"
	default:
		return "Unknown"
	}
}
