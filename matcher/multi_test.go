package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/wfst/fst"
)

func TestMultiLabelMatcherAnyPresent(t *testing.T) {
	f := buildFanOut(t, []fst.Label{2, 4, 6})
	m := NewMultiLabelMatcher(NewSortedMatcher(f, MatchInput))

	present, err := BuildCandidateAutomaton([]fst.Label{4, 99})
	require.NoError(t, err)
	ok, err := m.AnyPresent(0, present)
	require.NoError(t, err)
	require.True(t, ok)

	absent, err := BuildCandidateAutomaton([]fst.Label{99, 100})
	require.NoError(t, err)
	ok, err = m.AnyPresent(0, absent)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMultiLabelMatcherAlignmentAvoidsFalsePositive(t *testing.T) {
	// Labels chosen so that the slotted haystack contains another label's
	// bytes straddling a slot boundary; the labelStride+alignment check
	// must not be fooled by that.
	f := buildFanOut(t, []fst.Label{0x00000001, 0x02000000})
	m := NewMultiLabelMatcher(NewSortedMatcher(f, MatchInput))

	// The haystack is 00 00 00 01 FF 02 00 00 00 FF. 0x0001FF02 does not
	// appear as an arc label, but its bytes 00 01 FF 02 occur at offset 2,
	// straddling the end of the first slot, so only the alignment check
	// rejects it.
	straddling, err := BuildCandidateAutomaton([]fst.Label{0x0001FF02})
	require.NoError(t, err)
	ok, err := m.AnyPresent(0, straddling)
	require.NoError(t, err)
	require.False(t, ok)
}
