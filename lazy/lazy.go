// Package lazy provides on-demand FST state computation with caching
// (spec.md §4.9's "Lazy evaluation"): a composite FST's arcs and final
// weight are computed once per state, the first time they're asked for,
// and then served from cache on every subsequent query. Grounded on the
// teacher's dfa/lazy package: a slice-indexed, RWMutex-protected cache of
// on-demand-computed states (dfa/lazy/cache.go's Cache, dfa/lazy/lazy.go's
// determinize-then-registerState loop), generalized from "determinize one
// DFA transition" to "compute one FST state's arcs and final weight".
package lazy

import (
	"sync"
	"sync/atomic"

	"github.com/coregx/wfst/fst"
	"github.com/coregx/wfst/semiring"
)

// FstOp is the on-demand computation an FstOp implementation supplies for
// a lazily evaluated FST: how to find the start state, and how to expand
// any given state's arcs and final weight the first time it's visited.
type FstOp interface {
	// Start returns the lazy FST's start state id, or fst.NoStateId.
	Start() (fst.StateId, error)
	// ComputeArcs returns s's outgoing arcs. Called at most once per
	// state; the result is cached by LazyFst.
	ComputeArcs(s fst.StateId) ([]fst.Arc, error)
	// ComputeFinal returns s's final weight, and whether s is final at
	// all. Called at most once per state.
	ComputeFinal(s fst.StateId) (w semiring.Weight, isFinal bool, err error)
}

// cacheEntry holds one state's memoized arcs/final weight. A zero-value
// cacheEntry (computed == false) means neither has been computed yet.
type cacheEntry struct {
	computed bool
	arcs     []fst.Arc
	final    semiring.Weight
	isFinal  bool
}

// Cache is the slice-indexed, RWMutex-protected store of computed
// states, mirroring dfa/lazy.Cache's states-by-ID idiom but keyed
// directly by fst.StateId (dense from 0) rather than by a hash of an NFA
// state set, since composite FST state ids are already assigned densely
// by statetable.Table before a LazyFst ever sees them.
type Cache struct {
	mu     sync.RWMutex
	states []cacheEntry
	hits   uint64
	misses uint64
}

// NewCache returns an empty Cache.
func NewCache() *Cache { return &Cache{} }

func (c *Cache) ensure(s fst.StateId) {
	for len(c.states) <= int(s) {
		c.states = append(c.states, cacheEntry{})
	}
}

// Get returns the cached entry for s, if its arcs/final have already
// been computed.
func (c *Cache) Get(s fst.StateId) (arcs []fst.Arc, final semiring.Weight, isFinal bool, computed bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(s) < 0 || int(s) >= len(c.states) {
		return nil, nil, false, false
	}
	e := c.states[s]
	if e.computed {
		atomic.AddUint64(&c.hits, 1)
	}
	return e.arcs, e.final, e.isFinal, e.computed
}

// Set stores the computed arcs/final weight for s.
func (c *Cache) Set(s fst.StateId, arcs []fst.Arc, final semiring.Weight, isFinal bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure(s)
	c.states[s] = cacheEntry{computed: true, arcs: arcs, final: final, isFinal: isFinal}
	c.misses++
}

// NumKnownStates returns how many states have been assigned a cache slot
// (computed or not), i.e. the highest state id seen so far plus one.
func (c *Cache) NumKnownStates() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}

// Stats returns compute hit/miss counts (a hit means the entry was
// already computed; a miss means this call populated it).
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return atomic.LoadUint64(&c.hits), c.misses
}

// LazyFst adapts an FstOp into a fst.CoreFst, computing and caching each
// state's arcs/final weight the first time it is queried rather than
// eagerly materializing the whole (possibly infinite, for cyclic
// composition) FST up front.
type LazyFst struct {
	op        FstOp
	cache     *Cache
	start     fst.StateId
	startErr  error
	startOnce sync.Once
}

// NewLazyFst wraps op.
func NewLazyFst(op FstOp) *LazyFst {
	return &LazyFst{op: op, cache: NewCache()}
}

func (l *LazyFst) resolveStart() {
	l.startOnce.Do(func() {
		l.start, l.startErr = l.op.Start()
	})
}

// Start implements fst.CoreFst. A start-resolution error is swallowed to
// fst.NoStateId; callers that need to observe it should call StartErr.
func (l *LazyFst) Start() fst.StateId {
	l.resolveStart()
	if l.startErr != nil {
		return fst.NoStateId
	}
	return l.start
}

// StartErr reports any error encountered resolving the start state.
func (l *LazyFst) StartErr() error {
	l.resolveStart()
	return l.startErr
}

func (l *LazyFst) ensure(s fst.StateId) error {
	if _, _, _, computed := l.cache.Get(s); computed {
		return nil
	}
	arcs, err := l.op.ComputeArcs(s)
	if err != nil {
		return err
	}
	final, isFinal, err := l.op.ComputeFinal(s)
	if err != nil {
		return err
	}
	l.cache.Set(s, arcs, final, isFinal)
	return nil
}

// Arcs implements fst.CoreFst, computing and caching s's arcs on first
// visit.
func (l *LazyFst) Arcs(s fst.StateId) ([]fst.Arc, error) {
	if err := l.ensure(s); err != nil {
		return nil, err
	}
	arcs, _, _, _ := l.cache.Get(s)
	return arcs, nil
}

// FinalWeight implements fst.CoreFst.
func (l *LazyFst) FinalWeight(s fst.StateId) (semiring.Weight, bool, error) {
	if err := l.ensure(s); err != nil {
		return nil, false, err
	}
	_, final, isFinal, _ := l.cache.Get(s)
	if !isFinal {
		return nil, false, nil
	}
	return final, true, nil
}

// NumStates reports one more than the highest state id whose arcs and
// final weight have been computed so far; states that have been
// discovered but not yet expanded are not counted beyond that id. For a
// lazy FST this is necessarily a lower bound until the whole reachable
// portion has been visited (spec.md §9 "NumStates on a lazy FST").
func (l *LazyFst) NumStates() int { return l.cache.NumKnownStates() }

// NumArcs implements fst.CoreFst.
func (l *LazyFst) NumArcs(s fst.StateId) (int, error) {
	arcs, err := l.Arcs(s)
	if err != nil {
		return 0, err
	}
	return len(arcs), nil
}

func (l *LazyFst) NumInputEpsilons(s fst.StateId) (int, error) {
	arcs, err := l.Arcs(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range arcs {
		if a.ILabel == fst.Epsilon {
			n++
		}
	}
	return n, nil
}

func (l *LazyFst) NumOutputEpsilons(s fst.StateId) (int, error) {
	arcs, err := l.Arcs(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range arcs {
		if a.OLabel == fst.Epsilon {
			n++
		}
	}
	return n, nil
}

// Properties reports no structural guarantees: a lazily expanded,
// possibly-cyclic composite FST can't claim acyclicity or sortedness
// without visiting states it hasn't computed yet.
func (l *LazyFst) Properties() fst.Properties { return 0 }

var _ fst.CoreFst = (*LazyFst)(nil)
