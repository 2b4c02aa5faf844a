// Package fstio reads and writes the standard binary FST container format
// (spec.md §4.3), interoperable with OpenFst's "vector" FST type for the
// "standard" (tropical), "log", and "probability" arc types. Layout is
// little-endian throughout:
//
//	magic:i32  fst-type:string  arc-type:string  version:i32
//	flags:i32  properties:u64   start:i64  num-states:i64  num-arcs:i64
//	repeat num-states times:
//	    final-weight:W   num-arcs:i64
//	    repeat num-arcs times:
//	        ilabel:i32  olabel:i32  weight:W  nextstate:i32
//
// a *string* is a len:i32 followed by len bytes, UTF-8. Grounded on
// rustfst's src/parsers/bin_fst/vector_fst.rs, which this package matches
// field-for-field and constant-for-constant.
package fstio

import (
	"encoding/binary"
	"io"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/internal/conv"
	"github.com/coregx/wfst/semiring"
)

// Magic is the fixed constant every valid binary FST file starts with.
const Magic int32 = 2_125_659_606

// MinVersion is the lowest version this reader accepts.
const MinVersion int32 = 2

// CurrentVersion is the version this package writes.
const CurrentVersion int32 = 2

const noStateMarker int64 = -1

// WeightCodec converts between a semiring.Weight and its float32 wire
// representation. One codec exists per arc type this package supports.
type WeightCodec struct {
	// ArcType is the OpenFst arc-type string written to the header
	// ("standard", "log", "log64" style naming; spelled out per weight
	// below).
	ArcType string
	// Zero is the semiring's additive identity, used to decide whether
	// a final weight is absent.
	Zero semiring.Weight
	// FromValue builds a Weight of this semiring from a decoded
	// float64.
	FromValue func(float64) semiring.Weight
}

// TropicalCodec reads/writes TropicalWeight-valued FSTs ("standard" arc
// type in OpenFst parlance).
var TropicalCodec = WeightCodec{
	ArcType: "standard",
	Zero:    semiring.TropicalZero,
	FromValue: func(v float64) semiring.Weight {
		return semiring.TropicalWeight(v)
	},
}

// LogCodec reads/writes LogWeight-valued FSTs.
var LogCodec = WeightCodec{
	ArcType: "log",
	Zero:    semiring.LogZero,
	FromValue: func(v float64) semiring.Weight {
		return semiring.LogWeight(v)
	},
}

// ProbabilityCodec reads/writes ProbabilityWeight-valued FSTs.
var ProbabilityCodec = WeightCodec{
	ArcType: "probability",
	Zero:    semiring.ProbabilityZero,
	FromValue: func(v float64) semiring.Weight {
		return semiring.ProbabilityWeight(v)
	},
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", ErrTruncated
		}
		return "", err
	}
	if n < 0 {
		return "", ErrTruncated
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrTruncated
	}
	return string(buf), nil
}

// Write serializes f to w using codec for the weight wire format.
// The written properties field mirrors f.Properties() exactly (spec.md
// §4.3: "Writing emits a properties field consistent with the in-memory
// bitmask").
func Write(w io.Writer, f fst.CoreFst, codec WeightCodec) error {
	numStates := f.NumStates()
	numArcs := 0
	for s := 0; s < numStates; s++ {
		n, err := f.NumArcs(fst.StateId(s))
		if err != nil {
			return err
		}
		numArcs += n
	}

	start := int64(noStateMarker)
	if f.Start() != fst.NoStateId {
		start = int64(f.Start())
	}

	if err := binary.Write(w, binary.LittleEndian, Magic); err != nil {
		return err
	}
	if err := writeString(w, "vector"); err != nil {
		return err
	}
	if err := writeString(w, codec.ArcType); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, CurrentVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(0)); err != nil { // flags
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(f.Properties())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, start); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(numStates)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(numArcs)); err != nil {
		return err
	}

	for s := 0; s < numStates; s++ {
		sid := fst.StateId(s)
		finalWeight, ok, err := f.FinalWeight(sid)
		if err != nil {
			return err
		}
		fv := codec.Zero.Value()
		if ok {
			fv = finalWeight.Value()
		}
		if err := binary.Write(w, binary.LittleEndian, float32(fv)); err != nil {
			return err
		}

		arcs, err := f.Arcs(sid)
		if err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int64(len(arcs))); err != nil {
			return err
		}
		for _, a := range arcs {
			if err := binary.Write(w, binary.LittleEndian, int32(a.ILabel)); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, int32(a.OLabel)); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, float32(a.Weight.Value())); err != nil {
				return err
			}
			// nextstate narrows fst.StateId down to the wire's int32 field;
			// bounds-check first so a graph with more than 2^32 states
			// fails loudly here instead of wrapping into a different state.
			if err := binary.Write(w, binary.LittleEndian, int32(conv.IntToUint32(int(a.NextState)))); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read deserializes a VectorFst from r using codec for the weight wire
// format. Returns ErrFormat on magic mismatch, ErrUnsupportedVersion on a
// version below MinVersion, and ErrTruncated on short input. Properties
// are recomputed from the reconstructed structure, not taken from the
// file's properties field (spec.md §8 "Binary round-trip ... modulo the
// properties bitmask, which is recomputed on read").
func Read(r io.Reader, codec WeightCodec) (*fst.VectorFst, error) {
	var magic int32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		}
		return nil, err
	}
	if magic != Magic {
		return nil, ErrFormat
	}
	if _, err := readString(r); err != nil { // fst-type, unused
		return nil, err
	}
	if _, err := readString(r); err != nil { // arc-type, unused (codec is authoritative)
		return nil, err
	}
	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, ErrTruncated
	}
	if version < MinVersion {
		return nil, ErrUnsupportedVersion
	}
	var flags int32
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, ErrTruncated
	}
	var props uint64
	if err := binary.Read(r, binary.LittleEndian, &props); err != nil {
		return nil, ErrTruncated
	}
	var start, numStates, numArcsTotal int64
	if err := binary.Read(r, binary.LittleEndian, &start); err != nil {
		return nil, ErrTruncated
	}
	if err := binary.Read(r, binary.LittleEndian, &numStates); err != nil {
		return nil, ErrTruncated
	}
	if err := binary.Read(r, binary.LittleEndian, &numArcsTotal); err != nil {
		return nil, ErrTruncated
	}

	out := fst.NewVectorFst(codec.Zero)
	// numStates is the wire format's int64; narrow it down to the uint32
	// range before using it as a Go int so a truncated/corrupt count
	// panics here rather than turning into a negative reserve size.
	out.ReserveStates(int(conv.Uint64ToUint32(uint64(numStates))))
	for i := int64(0); i < numStates; i++ {
		out.AddState()
	}
	if start != noStateMarker {
		if err := out.SetStart(fst.StateId(start)); err != nil {
			return nil, err
		}
	}

	for s := int64(0); s < numStates; s++ {
		var finalWeight float32
		if err := binary.Read(r, binary.LittleEndian, &finalWeight); err != nil {
			return nil, ErrTruncated
		}
		fw := codec.FromValue(float64(finalWeight))
		if !fw.Equal(codec.Zero) {
			if err := out.SetFinal(fst.StateId(s), fw); err != nil {
				return nil, err
			}
		}

		var numArcs int64
		if err := binary.Read(r, binary.LittleEndian, &numArcs); err != nil {
			return nil, ErrTruncated
		}
		if err := out.ReserveArcs(fst.StateId(s), int(conv.Uint64ToUint32(uint64(numArcs)))); err != nil {
			return nil, err
		}
		for a := int64(0); a < numArcs; a++ {
			var ilabel, olabel, nextstate int32
			var weight float32
			if err := binary.Read(r, binary.LittleEndian, &ilabel); err != nil {
				return nil, ErrTruncated
			}
			if err := binary.Read(r, binary.LittleEndian, &olabel); err != nil {
				return nil, ErrTruncated
			}
			if err := binary.Read(r, binary.LittleEndian, &weight); err != nil {
				return nil, ErrTruncated
			}
			if err := binary.Read(r, binary.LittleEndian, &nextstate); err != nil {
				return nil, ErrTruncated
			}
			err := out.AddArc(fst.StateId(s), fst.Arc{
				ILabel:    fst.Label(ilabel),
				OLabel:    fst.Label(olabel),
				Weight:    codec.FromValue(float64(weight)),
				NextState: fst.StateId(nextstate),
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
