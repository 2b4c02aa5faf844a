// Package matcher provides per-state label lookup over an FST operand, the
// abstraction ComposeFst uses instead of scanning every outgoing arc
// linearly at every composite state. Grounded on the teacher's layered
// lookup strategies (literal.extractor's sorted range search,
// prefilter.Prefilter's cheap early rule-out) generalized from byte
// literals to integer FST labels.
package matcher

import (
	"github.com/coregx/wfst/fst"
)

// MatchType selects which side of the arc the matcher keys on.
type MatchType uint8

const (
	// MatchInput matches against Arc.ILabel.
	MatchInput MatchType = iota
	// MatchOutput matches against Arc.OLabel.
	MatchOutput
)

// Flags advertises matcher capabilities, mirroring the teacher's
// capability-bitmask idiom (dfa/lazy's flags, prefilter's Flags()).
type Flags uint8

const (
	// FlagInputLookAhead means this matcher can answer look-ahead
	// reachability queries keyed on input labels.
	FlagInputLookAhead Flags = 1 << iota
	// FlagOutputLookAhead means this matcher can answer look-ahead
	// reachability queries keyed on output labels.
	FlagOutputLookAhead
	// FlagLookAheadPrefix means the look-ahead matcher's reachability
	// data assumes the "other" FST's path is a prefix of a full match.
	// No matcher in this package sets it, and no filter reads it.
	FlagLookAheadPrefix
)

// Matcher answers "arcs at state s whose matched-side label equals l" for
// one bound FST and MatchType. label=fst.Epsilon returns arcs whose
// matched side is epsilon; label=fst.NoLabel returns every arc at s
// (filters that do their own label check use this).
type Matcher interface {
	// Find returns the sub-sequence of s's arcs matching label under
	// this matcher's MatchType/label conventions.
	Find(s fst.StateId, label fst.Label) ([]fst.Arc, error)
	// Flags reports this matcher's capabilities.
	Flags() Flags
	// Priority is a tie-breaking hint for choosing which operand's
	// matcher drives iteration. ComposeFst does not consult it: its
	// matched-label pass always iterates operand A's arcs and looks each
	// one up in operand B's matcher.
	Priority(s fst.StateId) (int, error)
	// Type reports which side (input/output) this matcher keys on.
	Type() MatchType
}

func matchedLabel(a fst.Arc, t MatchType) fst.Label {
	if t == MatchInput {
		return a.ILabel
	}
	return a.OLabel
}

// filterByLabel returns the arcs in arcs whose matched-side label equals
// label under the NoLabel/Epsilon/exact conventions shared by every
// Matcher implementation in this package.
func filterByLabel(arcs []fst.Arc, t MatchType, label fst.Label) []fst.Arc {
	if label == fst.NoLabel {
		return arcs
	}
	out := arcs[:0:0]
	for _, a := range arcs {
		if matchedLabel(a, t) == label {
			out = append(out, a)
		}
	}
	return out
}
