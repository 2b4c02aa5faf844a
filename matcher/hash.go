package matcher

import "github.com/coregx/wfst/fst"

// HashMatcher builds a per-state map from matched label to arc indices the
// first time that state is queried, then answers subsequent queries for
// the same state in O(1) amortized instead of a linear scan. Used for
// operands that are not declared sorted (spec.md §4.4: matchers are
// chosen per operand; an unsorted operand cannot use SortedMatcher's
// binary search). Grounded on dfa/lazy.Cache's lazily-populated,
// map-keyed memoization idiom, applied to per-state label indices instead
// of per-subset-key DFA states.
type HashMatcher struct {
	f     fst.CoreFst
	t     MatchType
	index map[fst.StateId]map[fst.Label][]fst.Arc
}

// NewHashMatcher binds a HashMatcher to f for MatchType t.
func NewHashMatcher(f fst.CoreFst, t MatchType) *HashMatcher {
	return &HashMatcher{f: f, t: t, index: make(map[fst.StateId]map[fst.Label][]fst.Arc)}
}

func (m *HashMatcher) Type() MatchType { return m.t }

func (m *HashMatcher) Flags() Flags { return 0 }

func (m *HashMatcher) Priority(s fst.StateId) (int, error) {
	return m.f.NumArcs(s)
}

func (m *HashMatcher) Find(s fst.StateId, label fst.Label) ([]fst.Arc, error) {
	byLabel, ok := m.index[s]
	if !ok {
		arcs, err := m.f.Arcs(s)
		if err != nil {
			return nil, err
		}
		byLabel = make(map[fst.Label][]fst.Arc, len(arcs))
		for _, a := range arcs {
			l := matchedLabel(a, m.t)
			byLabel[l] = append(byLabel[l], a)
		}
		m.index[s] = byLabel
	}
	if label == fst.NoLabel {
		arcs, err := m.f.Arcs(s)
		if err != nil {
			return nil, err
		}
		return arcs, nil
	}
	return byLabel[label], nil
}

var _ Matcher = (*HashMatcher)(nil)
