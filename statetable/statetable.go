// Package statetable provides the bijection between composite tuples
// (s1, s2, filter state) and the dense state ids compose.ComposeFst
// exposes as fst.StateId (spec.md §4.8). Grounded on the teacher's
// dfa/lazy.Cache: a map keyed on a hashable struct plus a monotonically
// increasing id counter, protected by an RWMutex for concurrent lazy
// expansion.
package statetable

import (
	"sync"

	"github.com/coregx/wfst/filter"
	"github.com/coregx/wfst/fst"
)

// Tuple is a composite state: a pair of operand states plus the filter
// state reached when the second operand arc was taken.
type Tuple struct {
	S1, S2 fst.StateId
	FS     filter.FilterState
}

// key is the map key derived from a Tuple. filter.FilterState isn't
// itself comparable in the general case (it's an interface over structs
// that are comparable, but map keys require a concrete comparable type),
// so tuples are keyed on the filter state's String() form alongside the
// two operand ids — mirroring how the teacher's StateKey is itself a
// derived hashable proxy for the richer NFA state set it represents.
type key struct {
	s1, s2 fst.StateId
	fs     string
}

func keyOf(t Tuple) key {
	fsStr := "nil"
	if t.FS != nil {
		fsStr = t.FS.String()
	}
	return key{s1: t.S1, s2: t.S2, fs: fsStr}
}

// Table is the thread-safe bijection (s1, s2, fs) <-> fst.StateId used
// by a lazy-evaluated composite FST to assign stable, dense ids to
// composite states as they are discovered.
type Table struct {
	mu     sync.RWMutex
	ids    map[key]fst.StateId
	tuples []Tuple
	nextID fst.StateId
	hits   uint64
	misses uint64
}

// New returns an empty Table.
func New() *Table {
	return &Table{ids: make(map[key]fst.StateId)}
}

// FindOrAdd returns the id already assigned to t, or assigns and returns
// a fresh one if t hasn't been seen before.
func (tbl *Table) FindOrAdd(t Tuple) fst.StateId {
	k := keyOf(t)

	tbl.mu.RLock()
	if id, ok := tbl.ids[k]; ok {
		tbl.mu.RUnlock()
		tbl.mu.Lock()
		tbl.hits++
		tbl.mu.Unlock()
		return id
	}
	tbl.mu.RUnlock()

	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if id, ok := tbl.ids[k]; ok {
		tbl.hits++
		return id
	}
	id := tbl.nextID
	tbl.nextID++
	tbl.ids[k] = id
	tbl.tuples = append(tbl.tuples, t)
	tbl.misses++
	return id
}

// FindId returns the id assigned to t, if any.
func (tbl *Table) FindId(t Tuple) (fst.StateId, bool) {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	id, ok := tbl.ids[keyOf(t)]
	return id, ok
}

// Tuple returns the composite tuple assigned to id, if any.
func (tbl *Table) Tuple(id fst.StateId) (Tuple, bool) {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(tbl.tuples) {
		return Tuple{}, false
	}
	return tbl.tuples[id], true
}

// Size returns the number of composite states assigned so far.
func (tbl *Table) Size() int {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	return len(tbl.tuples)
}

// Clear removes every assigned tuple and resets the id counter. Stats
// accumulated via Stats are also reset.
func (tbl *Table) Clear() {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	tbl.ids = make(map[key]fst.StateId)
	tbl.tuples = nil
	tbl.nextID = 0
	tbl.hits = 0
	tbl.misses = 0
}

// Stats returns find-or-add hit/miss counts, for the same cache-sizing
// diagnostics the teacher's dfa/lazy.Cache.Stats exposes.
func (tbl *Table) Stats() (hits, misses uint64) {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	return tbl.hits, tbl.misses
}
