// Package compose implements FST composition (spec.md §4.9): given A and
// B, ComposeFst lazily computes A∘B, one composite state at a time, using
// a pluggable matcher (per operand) and compose filter (disambiguating
// epsilon transitions) to decide which arc pairs align and how. Grounded
// on meta.Engine (assembling several lower-level components behind one
// facade, with a Strategy-style selection of which to use) and
// nfa/composite_dfa.go (subset-construction-style discovery of composite
// states from a pair of underlying automata).
package compose

import (
	"github.com/coregx/wfst/filter"
	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/lazy"
	"github.com/coregx/wfst/matcher"
	"github.com/coregx/wfst/semiring"
	"github.com/coregx/wfst/statetable"
)

// Config controls how ComposeFst composes its two operands.
type Config struct {
	// Filter selects the compose filter. KindAuto (the default) picks
	// Match when both operands declare sortedness on the matched side,
	// else Sequence (spec.md §9's Open Question decision).
	Filter filter.Kind
	// LookAhead wraps the chosen filter in a LookAhead filter that prunes
	// candidate arc pairs where either side's next state can't reach a
	// final state of its own operand.
	LookAhead bool
	// Connect requests that Compute's eager materialization drop states
	// that can't reach a final state, after BFS discovery.
	Connect bool
}

// DefaultConfig returns the configuration ComposeFst uses when none is
// given: automatic filter selection, no look-ahead, connect-on-compute.
func DefaultConfig() Config {
	return Config{Filter: filter.KindAuto, LookAhead: false, Connect: true}
}

func chooseMatcher(f fst.CoreFst, t matcher.MatchType) matcher.Matcher {
	props := f.Properties()
	sorted := props.Has(fst.PropInputSorted)
	if t == matcher.MatchOutput {
		sorted = props.Has(fst.PropOutputSorted)
	}
	if sorted {
		return matcher.NewSortedMatcher(f, t)
	}
	return matcher.NewHashMatcher(f, t)
}

func resolveFilterKind(k filter.Kind, a, b fst.CoreFst) filter.Kind {
	if k != filter.KindAuto {
		return k
	}
	if a.Properties().Has(fst.PropOutputSorted) && b.Properties().Has(fst.PropInputSorted) {
		return filter.KindMatch
	}
	return filter.KindSequence
}

// ComposeFst is the lazily evaluated composite A∘B. It implements
// fst.CoreFst via an embedded lazy.LazyFst, computing each composite
// state's arcs and final weight only the first time it's visited.
type ComposeFst struct {
	*lazy.LazyFst
	a, b   fst.CoreFst
	table  *statetable.Table
	cf     filter.ComposeFilter
	m1, m2 matcher.Matcher
	props  fst.Properties
}

// composeProperties computes the properties of A∘B once, from the
// conjunction of a's and b's properties, per spec.md §4.9: both acyclic
// implies the result is acyclic (composition cannot introduce a cycle two
// acyclic operands don't have between them), both epsilon-free implies the
// result is epsilon-free (no epsilon-decomposition arcs are ever
// introduced if neither operand has an epsilon arc to decompose), both
// acceptor implies the result is acceptor (ilabel tracks a's input,
// olabel tracks b's output, and a matched pair forces them equal when
// both sides already equate ilabel and olabel), and so on for the
// remaining bits. Sortedness is never preserved: composite states are
// discovered in filter/matcher order, not sorted label order.
func composeProperties(a, b fst.CoreFst) fst.Properties {
	pa, pb := a.Properties(), b.Properties()
	var out fst.Properties

	if pa.Has(fst.PropAcyclic) && pb.Has(fst.PropAcyclic) {
		out |= fst.PropAcyclic
	} else {
		out |= fst.PropCyclic
	}
	if pa.Has(fst.PropAcceptor) && pb.Has(fst.PropAcceptor) {
		out |= fst.PropAcceptor
	}
	if pa.Has(fst.PropEpsilonFree) && pb.Has(fst.PropEpsilonFree) {
		out |= fst.PropEpsilonFree | fst.PropInputEpsilonFree | fst.PropOutputEpsilonFree
	}
	if pa.Has(fst.PropUnweighted) && pb.Has(fst.PropUnweighted) {
		out |= fst.PropUnweighted
	} else {
		out |= fst.PropWeighted
	}
	if pa.Has(fst.PropIDeterministic) && pb.Has(fst.PropIDeterministic) {
		out |= fst.PropIDeterministic
	}
	if pa.Has(fst.PropODeterministic) && pb.Has(fst.PropODeterministic) {
		out |= fst.PropODeterministic
	}
	return out
}

// New builds the lazy composite A∘B under cfg.
func New(a, b fst.CoreFst, cfg Config) (*ComposeFst, error) {
	m1 := chooseMatcher(a, matcher.MatchOutput)
	m2 := chooseMatcher(b, matcher.MatchInput)

	kind := resolveFilterKind(cfg.Filter, a, b)
	cf, err := filter.New(kind, m1, m2)
	if err != nil {
		return nil, err
	}
	if cfg.LookAhead {
		var lam1, lam2 *matcher.LookAheadMatcher
		if l, err := matcher.NewLookAheadMatcher(m1, a); err == nil {
			lam1 = l
		}
		if l, err := matcher.NewLookAheadMatcher(m2, b); err == nil {
			lam2 = l
		}
		cf = filter.NewLookAheadFilter(cf, lam1, lam2)
	}

	cfst := &ComposeFst{
		a:     a,
		b:     b,
		table: statetable.New(),
		cf:    cf,
		m1:    m1,
		m2:    m2,
		props: composeProperties(a, b),
	}
	cfst.LazyFst = lazy.NewLazyFst(composeFstOp{cfst})
	return cfst, nil
}

// Properties returns the properties computed once at construction time
// in New, overriding LazyFst's default (every lazy FST reports zero
// structural guarantees, which undersells a composition whose operands'
// properties are already known).
func (c *ComposeFst) Properties() fst.Properties { return c.props }

// composeFstOp adapts *ComposeFst to lazy.FstOp. It exists as a separate
// type (rather than letting ComposeFst implement FstOp directly) because
// ComposeFst embeds *lazy.LazyFst for its fst.CoreFst surface, and
// LazyFst already promotes a Start() fst.StateId method; a same-named
// Start method declared directly on ComposeFst would shadow the promoted
// one and break fst.CoreFst conformance.
type composeFstOp struct{ c *ComposeFst }

// Start implements lazy.FstOp.
func (o composeFstOp) Start() (fst.StateId, error) {
	c := o.c
	s1, s2 := c.a.Start(), c.b.Start()
	if s1 == fst.NoStateId || s2 == fst.NoStateId {
		return fst.NoStateId, nil
	}
	id := c.table.FindOrAdd(statetable.Tuple{S1: s1, S2: s2, FS: c.cf.Start()})
	return id, nil
}

func (o composeFstOp) ComputeArcs(s fst.StateId) ([]fst.Arc, error) { return o.c.ComputeArcs(s) }

func (o composeFstOp) ComputeFinal(s fst.StateId) (semiring.Weight, bool, error) {
	return o.c.ComputeFinal(s)
}

// ComputeArcs enumerates every legal candidate
// arc pair at the composite state id names, in two passes — matched-label
// pairs, then epsilon pairs (spec.md §9's documented, non-binding order)
// — consulting the compose filter for each to decide acceptance and the
// next filter state.
func (c *ComposeFst) ComputeArcs(id fst.StateId) ([]fst.Arc, error) {
	tuple, ok := c.table.Tuple(id)
	if !ok {
		return nil, &Error{Kind: InvalidCompositeState, Message: "compose: unknown composite state", StateId: id}
	}
	s1, s2, fs := tuple.S1, tuple.S2, tuple.FS

	var arcs []fst.Arc

	arcs1, err := c.a.Arcs(s1)
	if err != nil {
		return nil, err
	}
	arcs2, err := c.b.Arcs(s2)
	if err != nil {
		return nil, err
	}

	// Pass 1: matched-label pairs (a1.OLabel == a2.ILabel, both non-ε).
	for _, a1 := range arcs1 {
		if a1.OLabel == fst.Epsilon {
			continue
		}
		if err := c.cf.SetState(s1, s2, fs); err != nil {
			return nil, err
		}
		matched, err := c.m2.Find(s2, a1.OLabel)
		if err != nil {
			return nil, err
		}
		for _, a2 := range matched {
			tr1, tr2 := a1, a2
			nextFS, err := c.cf.FilterTr(&tr1, &tr2)
			if err != nil {
				return nil, err
			}
			if nextFS.IsNoState() {
				continue
			}
			nextID := c.table.FindOrAdd(statetable.Tuple{S1: tr1.NextState, S2: tr2.NextState, FS: nextFS})
			arcs = append(arcs, fst.Arc{
				ILabel:    tr1.ILabel,
				OLabel:    tr2.OLabel,
				Weight:    tr1.Weight.Times(tr2.Weight),
				NextState: nextID,
			})
		}
	}

	// Pass 2a: A moves alone on an output-ε arc, paired with a synthetic
	// self-loop on B (B "stays").
	for _, a1 := range arcs1 {
		if a1.OLabel != fst.Epsilon {
			continue
		}
		if err := c.cf.SetState(s1, s2, fs); err != nil {
			return nil, err
		}
		synthetic := fst.Arc{ILabel: fst.NoLabel, OLabel: fst.Epsilon, Weight: a1.Weight.One(), NextState: s2}
		tr1, tr2 := a1, synthetic
		nextFS, err := c.cf.FilterTr(&tr1, &tr2)
		if err != nil {
			return nil, err
		}
		if nextFS.IsNoState() {
			continue
		}
		nextID := c.table.FindOrAdd(statetable.Tuple{S1: tr1.NextState, S2: tr2.NextState, FS: nextFS})
		arcs = append(arcs, fst.Arc{
			ILabel:    tr1.ILabel,
			OLabel:    tr2.OLabel,
			Weight:    tr1.Weight.Times(tr2.Weight),
			NextState: nextID,
		})
	}

	// Pass 2b: B moves alone on an input-ε arc, paired with a synthetic
	// self-loop on A (A "stays").
	for _, a2 := range arcs2 {
		if a2.ILabel != fst.Epsilon {
			continue
		}
		if err := c.cf.SetState(s1, s2, fs); err != nil {
			return nil, err
		}
		synthetic := fst.Arc{ILabel: fst.Epsilon, OLabel: fst.NoLabel, Weight: a2.Weight.One(), NextState: s1}
		tr1, tr2 := synthetic, a2
		nextFS, err := c.cf.FilterTr(&tr1, &tr2)
		if err != nil {
			return nil, err
		}
		if nextFS.IsNoState() {
			continue
		}
		nextID := c.table.FindOrAdd(statetable.Tuple{S1: tr1.NextState, S2: tr2.NextState, FS: nextFS})
		arcs = append(arcs, fst.Arc{
			ILabel:    tr1.ILabel,
			OLabel:    tr2.OLabel,
			Weight:    tr1.Weight.Times(tr2.Weight),
			NextState: nextID,
		})
	}

	return arcs, nil
}

// ComputeFinal computes the final weight of a composite state.
func (c *ComposeFst) ComputeFinal(id fst.StateId) (semiring.Weight, bool, error) {
	tuple, ok := c.table.Tuple(id)
	if !ok {
		return nil, false, &Error{Kind: InvalidCompositeState, Message: "compose: unknown composite state", StateId: id}
	}
	w1, isFinal1, err := c.a.FinalWeight(tuple.S1)
	if err != nil {
		return nil, false, err
	}
	w2, isFinal2, err := c.b.FinalWeight(tuple.S2)
	if err != nil {
		return nil, false, err
	}
	if !isFinal1 || !isFinal2 {
		return nil, false, nil
	}
	if err := c.cf.FilterFinal(&w1, &w2); err != nil {
		return nil, false, err
	}
	return w1.Times(w2), true, nil
}

// zeroer is implemented by concrete FSTs (VectorFst, ConstFst) that know
// their semiring's Zero weight. ComposeFst.Zero probes both operands for
// it since a lazy composite has no weight of its own to ask.
type zeroer interface {
	Zero() semiring.Weight
}

// Zero returns the Zero weight of whichever operand can report one,
// preferring a. Returns nil if neither operand exposes Zero (e.g. both
// are themselves lazy composites with no concrete weight sample yet);
// callers in that position should supply a zero weight explicitly to
// Compute.
func (c *ComposeFst) Zero() semiring.Weight {
	if z, ok := c.a.(zeroer); ok {
		return z.Zero()
	}
	if z, ok := c.b.(zeroer); ok {
		return z.Zero()
	}
	return nil
}

var _ lazy.FstOp = composeFstOp{}
var _ fst.CoreFst = (*ComposeFst)(nil)
