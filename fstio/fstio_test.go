package fstio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

func buildScenario1Result(t *testing.T) *fst.VectorFst {
	t.Helper()
	f := fst.NewVectorFst(semiring.TropicalZero)
	s0 := f.AddState()
	s1 := f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.AddArc(s0, fst.Arc{ILabel: 1, OLabel: 3, Weight: semiring.TropicalWeight(0.75), NextState: s1}))
	require.NoError(t, f.SetFinal(s1, semiring.TropicalOne))
	return f
}

// TestBinaryRoundTrip is spec.md §8's "Binary round-trip" property,
// scenario 5.
func TestBinaryRoundTrip(t *testing.T) {
	f := buildScenario1Result(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, TropicalCodec))

	got, err := Read(&buf, TropicalCodec)
	require.NoError(t, err)

	require.Equal(t, f.Start(), got.Start())
	require.Equal(t, f.NumStates(), got.NumStates())

	arcs, err := got.Arcs(0)
	require.NoError(t, err)
	require.Len(t, arcs, 1)
	require.Equal(t, fst.Label(1), arcs[0].ILabel)
	require.Equal(t, fst.Label(3), arcs[0].OLabel)
	require.True(t, arcs[0].Weight.Equal(semiring.TropicalWeight(0.75)))
	require.Equal(t, fst.StateId(1), arcs[0].NextState)

	w, ok, err := got.FinalWeight(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, w.Equal(semiring.TropicalOne))
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})
	_, err := Read(&buf, TropicalCodec)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadRejectsTruncated(t *testing.T) {
	f := buildScenario1Result(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, TropicalCodec))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-4])
	_, err := Read(truncated, TropicalCodec)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestReadRejectsOldVersion(t *testing.T) {
	f := buildScenario1Result(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, TropicalCodec))

	b := buf.Bytes()
	// version field follows magic(4) + fst-type string (4+len("vector")) +
	// arc-type string (4+len("standard")).
	versionOffset := 4 + (4 + len("vector")) + (4 + len("standard"))
	b[versionOffset] = 1 // version = 1, below MinVersion

	_, err := Read(bytes.NewReader(b), TropicalCodec)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestPropertiesRecomputedOnRead(t *testing.T) {
	f := buildScenario1Result(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, TropicalCodec))

	got, err := Read(&buf, TropicalCodec)
	require.NoError(t, err)
	// Recomputed independently of whatever was written; VectorFst starts
	// from the all-structural-properties-true bitmask and AddArc narrows
	// it, same as the original build.
	require.Equal(t, f.Properties(), got.Properties())
}
