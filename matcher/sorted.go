package matcher

import (
	"sort"

	"github.com/coregx/wfst/fst"
)

// SortedMatcher assumes its bound FST is input-sorted (MatchInput) or
// output-sorted (MatchOutput) and performs a binary search over each
// state's arc list, then walks forward while the key matches. Grounded on
// literal.extractor's sorted-range search shape, generalized from byte
// literal ranges to integer label equality.
type SortedMatcher struct {
	f fst.CoreFst
	t MatchType
	// verified records, per state, whether Find has already confirmed
	// that state's arcs are actually sorted on the matched side. Callers
	// (typically ComposeFst's matcher selection, chooseMatcher) pick SortedMatcher
	// based on f.Properties() declaring sortedness; Find double-checks
	// that claim itself the first time each state is visited, rather
	// than trusting a possibly-stale bitmask and silently binary
	// searching over unsorted data.
	verified map[fst.StateId]bool
}

// NewSortedMatcher binds a SortedMatcher to f for MatchType t.
func NewSortedMatcher(f fst.CoreFst, t MatchType) *SortedMatcher {
	return &SortedMatcher{f: f, t: t, verified: make(map[fst.StateId]bool)}
}

func (m *SortedMatcher) Type() MatchType { return m.t }

func (m *SortedMatcher) Flags() Flags { return 0 }

func (m *SortedMatcher) Priority(s fst.StateId) (int, error) {
	return m.f.NumArcs(s)
}

func (m *SortedMatcher) Find(s fst.StateId, label fst.Label) ([]fst.Arc, error) {
	arcs, err := m.f.Arcs(s)
	if err != nil {
		return nil, err
	}
	if !m.verified[s] {
		for i := 1; i < len(arcs); i++ {
			if matchedLabel(arcs[i], m.t) < matchedLabel(arcs[i-1], m.t) {
				return nil, &fst.Error{
					Kind:    fst.PropertyViolation,
					Message: "matcher: state declared input/output-sorted but its arcs are not sorted",
					StateId: s,
				}
			}
		}
		m.verified[s] = true
	}
	if label == fst.NoLabel {
		return arcs, nil
	}
	lo := sort.Search(len(arcs), func(i int) bool {
		return matchedLabel(arcs[i], m.t) >= label
	})
	hi := lo
	for hi < len(arcs) && matchedLabel(arcs[hi], m.t) == label {
		hi++
	}
	return arcs[lo:hi], nil
}

var _ Matcher = (*SortedMatcher)(nil)
