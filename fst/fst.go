// Package fst defines the core FST data model: labels, states, arcs, the
// read-only CoreFst contract every FST-like value implements, and the
// MutableFst contract for building one up. Concrete FSTs (VectorFst,
// ConstFst) live alongside in this package; the lazy, composed view lives
// in the lazy and compose packages and also implements CoreFst.
package fst

import "github.com/coregx/wfst/semiring"

// Label identifies an input or output symbol on an arc. The zero value,
// Epsilon, consumes or emits nothing.
type Label uint32

const (
	// Epsilon is the empty label.
	Epsilon Label = 0
	// NoLabel is the sentinel used by matchers to mean "no label
	// filter, return everything" (mirrors the teacher's
	// nfa.InvalidState = max-value-as-sentinel convention).
	NoLabel Label = 1<<32 - 1
)

// StateId identifies a state. States are dense and contiguous starting
// from 0 for any concrete (non-lazy) FST.
type StateId int

// NoStateId marks "no start state" / "no such state".
const NoStateId StateId = -1

// Arc is the 4-tuple <ilabel, olabel, weight, nextstate>.
type Arc struct {
	ILabel    Label
	OLabel    Label
	Weight    semiring.Weight
	NextState StateId
}

// Properties is a bitmask over a fixed, closed set of structural
// propositions about an FST. Mutators only clear bits a given mutation
// can actually invalidate.
type Properties uint64

const (
	PropAcceptor Properties = 1 << iota
	PropEpsilonFree
	PropInputEpsilonFree
	PropOutputEpsilonFree
	PropInputSorted
	PropOutputSorted
	PropWeighted
	PropUnweighted
	PropAcyclic
	PropCyclic
	PropIDeterministic
	PropODeterministic
)

// Has reports whether p declares every bit in want.
func (p Properties) Has(want Properties) bool { return p&want == want }

// CoreFst is the read-only contract every FST-like value satisfies:
// concrete in-memory FSTs (VectorFst, ConstFst), and the lazy, on-demand
// views produced by lazy.LazyFst / compose.ComposeFst.
type CoreFst interface {
	// Start returns the start state, or NoStateId if none is set.
	Start() StateId
	// NumStates returns the number of states known so far. For a lazy
	// FST this is the number of states *discovered* so far, not
	// necessarily the eventual total.
	NumStates() int
	// NumArcs returns the number of outgoing arcs at state s.
	NumArcs(s StateId) (int, error)
	// Arcs returns the outgoing arcs at state s, in a stable order for
	// a given state (spec.md §4.2: "any operation returning arcs must
	// produce a stable ordering for a given state").
	Arcs(s StateId) ([]Arc, error)
	// FinalWeight returns the final weight of s, or (nil, false) if s
	// is not final.
	FinalWeight(s StateId) (semiring.Weight, bool, error)
	// NumInputEpsilons returns the number of arcs at s whose ILabel is
	// Epsilon.
	NumInputEpsilons(s StateId) (int, error)
	// NumOutputEpsilons returns the number of arcs at s whose OLabel is
	// Epsilon.
	NumOutputEpsilons(s StateId) (int, error)
	// Properties returns the structural properties bitmask.
	Properties() Properties
}

// MutableFst is implemented by FSTs that can be built up incrementally.
type MutableFst interface {
	CoreFst

	// AddState appends a new, non-final state with no arcs and returns
	// its id. State ids are assigned contiguously starting from 0.
	AddState() StateId
	// AddArc appends arc to state s's outgoing arc list.
	AddArc(s StateId, arc Arc) error
	// SetStart sets the start state.
	SetStart(s StateId) error
	// SetFinal marks s final with the given weight.
	SetFinal(s StateId, w semiring.Weight) error
	// DeleteFinal marks s non-final.
	DeleteFinal(s StateId) error
	// DeleteAllArcs removes every outgoing arc at s.
	DeleteAllArcs(s StateId) error
	// ReserveStates hints the number of states about to be added.
	ReserveStates(n int)
	// ReserveArcs hints the number of arcs about to be added at s.
	ReserveArcs(s StateId, n int) error
}
