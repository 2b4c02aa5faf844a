// Package filter provides compose filter states (spec.md §4.5) and the
// compose filters that carry them (spec.md §4.6): the pluggable state
// machine that disambiguates epsilon transitions during composition so
// each aligned pair of paths in the two operands produces exactly one
// composite path.
package filter

import "fmt"

// FilterState is a compact, hashable, equality-comparable value carried
// per composite state. Equality MUST be value equality (spec.md §9):
// filter states participate in state table keys, so two filters that
// reach "the same place" by different routes must compare equal.
type FilterState interface {
	fmt.Stringer
	// Equal reports value equality with other.
	Equal(other FilterState) bool
	// IsNoState reports whether this is the NoState sentinel meaning
	// "this arc pair is forbidden".
	IsNoState() bool
}

// TrivialState is the singleton filter state used by filters with no
// sequencing to track (Null, Trivial).
type TrivialState struct{ valid bool }

// NewTrivialState returns the valid singleton when valid is true, or the
// NoState sentinel when false.
func NewTrivialState(valid bool) TrivialState { return TrivialState{valid: valid} }

func (s TrivialState) String() string {
	if !s.valid {
		return "NoState"
	}
	return "Trivial"
}
func (s TrivialState) Equal(other FilterState) bool {
	o, ok := other.(TrivialState)
	return ok && o.valid == s.valid
}
func (s TrivialState) IsNoState() bool { return !s.valid }

// IntegerState is a bounded integer tag, k in {0,1,2}, used by the
// Sequence/AltSequence filters to track which operand is currently
// consuming epsilons.
type IntegerState struct {
	k     int
	valid bool
}

// SequenceStateStart, SequenceStateA, SequenceStateB name the three
// values a Sequence/AltSequence filter's IntegerState takes, matching
// spec.md §4.6's "Integer∈{0,1,2}".
const (
	SequenceStateStart = 0
	SequenceStateA     = 1
	SequenceStateB     = 2
)

// NewIntegerState returns a valid IntegerState with value k.
func NewIntegerState(k int) IntegerState { return IntegerState{k: k, valid: true} }

// NoIntegerState is the NoState sentinel for IntegerState.
func NoIntegerState() IntegerState { return IntegerState{} }

func (s IntegerState) Value() int { return s.k }

func (s IntegerState) String() string {
	if !s.valid {
		return "NoState"
	}
	return fmt.Sprintf("Integer(%d)", s.k)
}
func (s IntegerState) Equal(other FilterState) bool {
	o, ok := other.(IntegerState)
	return ok && o.valid == s.valid && (!s.valid || o.k == s.k)
}
func (s IntegerState) IsNoState() bool { return !s.valid }

// PairState combines two IntegerState values, used by Match/NoMatch.
type PairState struct {
	First, Second IntegerState
	valid         bool
}

// NewPairState returns a valid PairState.
func NewPairState(first, second IntegerState) PairState {
	return PairState{First: first, Second: second, valid: true}
}

// NoPairState is the NoState sentinel for PairState.
func NoPairState() PairState { return PairState{} }

func (s PairState) String() string {
	if !s.valid {
		return "NoState"
	}
	return fmt.Sprintf("Pair(%s, %s)", s.First, s.Second)
}
func (s PairState) Equal(other FilterState) bool {
	o, ok := other.(PairState)
	if !ok || o.valid != s.valid {
		return false
	}
	if !s.valid {
		return true
	}
	return s.First.Equal(o.First) && s.Second.Equal(o.Second)
}
func (s PairState) IsNoState() bool { return !s.valid }
