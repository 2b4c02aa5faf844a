package matcher

import "github.com/coregx/wfst/fst"

// LookAheadMatcher wraps a base Matcher and additionally answers: given a
// state of its own bound FST (the proposed next state of a candidate
// arc), can a final state of that FST be reached from it? It returns a conservative
// boolean — false means "certainly not", true means "possibly" — per
// spec.md §4.4. Used by the LookAhead compose filter to prune composition
// early, before a dead-end subtree is ever expanded into composite
// states.
//
// Reachability data is computed once, at construction, via BuildReachSets
// (spec.md §9's "Cyclic look-ahead data" note: model this as shared,
// read-only data acquired at constructor time, not as back-pointers) and
// is immutable for the lifetime of the matcher.
type LookAheadMatcher struct {
	base   Matcher
	isets  []IntervalSet
	lookOK bool // false if the wrapped FST was cyclic and look-ahead data could not be built
}

// NewLookAheadMatcher wraps base, which must be bound to the FST whose
// state reachability is being precomputed. If that FST is cyclic,
// CanReachFinal and CanReachFinalIndex degrade to always returning true (i.e. "possibly"),
// which is always a conservative, safe answer — it just forgoes pruning
// rather than risk an unsound "certainly not".
func NewLookAheadMatcher(base Matcher, f fst.CoreFst) (*LookAheadMatcher, error) {
	isets, err := BuildReachSets(f)
	if err != nil {
		if err == ErrCyclicInput {
			return &LookAheadMatcher{base: base, lookOK: false}, nil
		}
		return nil, err
	}
	return &LookAheadMatcher{base: base, isets: isets, lookOK: true}, nil
}

func (m *LookAheadMatcher) Type() MatchType { return m.base.Type() }

func (m *LookAheadMatcher) Flags() Flags {
	f := m.base.Flags()
	if m.lookOK {
		f |= FlagInputLookAhead | FlagOutputLookAhead
	}
	return f
}

func (m *LookAheadMatcher) Priority(s fst.StateId) (int, error) { return m.base.Priority(s) }

func (m *LookAheadMatcher) Find(s fst.StateId, label fst.Label) ([]fst.Arc, error) {
	return m.base.Find(s, label)
}

// CanReachFinal conservatively answers whether any final state is
// reachable from s at all — the simplest look-ahead query, used by the
// LookAhead compose filter to reject a candidate composite state before
// it is ever inserted into the state table.
func (m *LookAheadMatcher) CanReachFinal(s fst.StateId) bool {
	if !m.lookOK {
		return true
	}
	if int(s) < 0 || int(s) >= len(m.isets) {
		return true
	}
	return len(m.isets[s].Intervals) > 0
}

// CanReachFinalIndex conservatively answers whether the final state
// assigned finalIndex by BuildReachSets is reachable from s.
func (m *LookAheadMatcher) CanReachFinalIndex(s fst.StateId, finalIndex int) bool {
	if !m.lookOK {
		return true
	}
	if int(s) < 0 || int(s) >= len(m.isets) {
		return true
	}
	return m.isets[s].Contains(finalIndex)
}

var _ Matcher = (*LookAheadMatcher)(nil)
