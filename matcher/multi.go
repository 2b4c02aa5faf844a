package matcher

import (
	"encoding/binary"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/wfst/fst"
)

// MultiLabelMatcher wraps a base Matcher with an Aho-Corasick-backed cheap
// rule-out: AnyPresent(s, candidates) answers "does s have at least one
// arc whose matched label is in candidates" in one pass over s's arcs,
// without materializing per-label results for every candidate. This is
// the same role the teacher's prefilter package plays ahead of its
// NFA/DFA engines (cheaply rule out states before the expensive per-arc
// scan) applied to FST label lookup: a caller with a large, fixed
// candidate label set (e.g. composing a lexicon FST against a bounded
// vocabulary) calls AnyPresent before paying for the full per-label Find
// loop.
//
// Each label is encoded as its 4-byte big-endian form and patterns are
// built once per distinct candidate set (cached by the caller, not by
// this type, mirroring the teacher's per-compile-not-per-search
// automaton construction in meta/compile.go).
type MultiLabelMatcher struct {
	base Matcher
}

// NewMultiLabelMatcher wraps base with the batched existence pre-check.
func NewMultiLabelMatcher(base Matcher) *MultiLabelMatcher {
	return &MultiLabelMatcher{base: base}
}

func (m *MultiLabelMatcher) Type() MatchType { return m.base.Type() }
func (m *MultiLabelMatcher) Flags() Flags    { return m.base.Flags() }
func (m *MultiLabelMatcher) Priority(s fst.StateId) (int, error) { return m.base.Priority(s) }

func (m *MultiLabelMatcher) Find(s fst.StateId, label fst.Label) ([]fst.Arc, error) {
	return m.base.Find(s, label)
}

func encodeLabel(l fst.Label) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(l))
	return b
}

// BuildCandidateAutomaton compiles candidates into an Aho-Corasick
// automaton once, for reuse across many AnyPresent calls (e.g. one build
// per composition, reused at every composite state touched).
func BuildCandidateAutomaton(candidates []fst.Label) (*ahocorasick.Automaton, error) {
	builder := ahocorasick.NewBuilder()
	for _, c := range candidates {
		builder.AddPattern(encodeLabel(c))
	}
	return builder.Build()
}

// labelStride is the width of one encoded label slot in the haystack built
// by AnyPresent: 4 bytes of big-endian label plus one 0xFF separator byte.
// 0xFF never appears inside a 4-byte label encoding's low bytes in a
// position that could be mistaken for the separator because matches are
// only accepted when aligned on a labelStride boundary (see below), so the
// separator cannot be spoofed into producing a false alignment.
const labelStride = 5

// AnyPresent reports whether state s has any arc whose matched label
// appears in the automaton's compiled candidate set. Candidate patterns
// are exactly 4 bytes wide (encodeLabel's output); a raw substring search
// over the concatenated, unseparated encodings could spuriously match
// across a label boundary, so each encoded label is written into its own
// labelStride-wide slot and a match is only accepted when it starts on a
// slot boundary.
func (m *MultiLabelMatcher) AnyPresent(s fst.StateId, auto *ahocorasick.Automaton) (bool, error) {
	arcs, err := m.Find(s, fst.NoLabel)
	if err != nil {
		return false, err
	}
	haystack := make([]byte, len(arcs)*labelStride)
	for i, a := range arcs {
		copy(haystack[i*labelStride:], encodeLabel(matchedLabel(a, m.Type())))
		haystack[i*labelStride+4] = 0xFF
	}
	at := 0
	for at < len(haystack) {
		match := auto.Find(haystack, at)
		if match == nil {
			return false, nil
		}
		if match.Start%labelStride == 0 {
			return true, nil
		}
		at = match.Start + 1
	}
	return false, nil
}

var _ Matcher = (*MultiLabelMatcher)(nil)
