// Package sparse provides a sparse set data structure for efficient membership testing.
//
// A sparse set is a data structure that supports O(1) insertion, deletion, and membership
// testing while maintaining a dense list of elements. It's used throughout the FST
// composition engine to track visited/discovered composite state ids: DFS visited-sets
// (Connect, interval reachability) and BFS frontiers during eager materialization.
package sparse

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// hasFastPopcount is detected once at package init, the same way the teacher's
// simd package gates its Teddy kernels on a CPU feature probe.
var hasFastPopcount = cpu.X86.HasPOPCNT || cpu.ARM64.HasATOMICS

// SparseSet is a set of uint32 values that supports O(1) operations.
// It maintains both a sparse array (for membership testing) and a dense array
// (for iteration). The sparse array maps values to indices in the dense array.
//
// This implementation is optimized for cases where the universe of possible
// values is known and relatively small (e.g., composite FST state ids, which
// are dense and bounded by the state table's size at any point in time).
type SparseSet struct {
	sparse []uint32 // Maps value -> index in dense
	dense  []uint32 // Contains the actual values
	size   uint32   // Current number of elements
}

// NewSparseSet creates a new sparse set with the given capacity.
// The capacity represents the maximum value that can be stored (exclusive).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
		size:   0,
	}
}

// Insert adds a value to the set.
// If the value is already present, this is a no-op.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) {
	if s.Contains(value) {
		return
	}

	// Add to dense array
	s.dense = append(s.dense, value)
	// Map value to its index in dense
	s.sparse[value] = s.size
	s.size++
}

// Contains returns true if the value is in the set
func (s *SparseSet) Contains(value uint32) bool {
	// Bounds check: value must be within sparse array bounds
	// Check for potential overflow when converting len to uint32
	if len(s.sparse) > 0x7FFFFFFF {
		return false // len too large for safe conversion
	}
	//nolint:gosec // G115: len is checked above for safe conversion to uint32
	sparseLen := uint32(len(s.sparse))
	if value >= sparseLen {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Remove removes a value from the set.
// If the value is not present, this is a no-op.
func (s *SparseSet) Remove(value uint32) {
	if !s.Contains(value) {
		return
	}

	// Get index of value in dense array
	idx := s.sparse[value]

	// Move last element to this position (swap and pop)
	lastValue := s.dense[s.size-1]
	s.dense[idx] = lastValue
	s.sparse[lastValue] = idx

	s.size--
	s.dense = s.dense[:s.size]
}

// Clear removes all elements from the set in O(1) time
func (s *SparseSet) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

// Size returns the number of elements in the set
func (s *SparseSet) Size() int {
	return int(s.size)
}

// IsEmpty returns true if the set contains no elements
func (s *SparseSet) IsEmpty() bool {
	return s.size == 0
}

// Values returns a slice of all values in the set.
// The returned slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense[:s.size]
}

// Iter calls the given function for each value in the set.
// The iteration order is unspecified.
func (s *SparseSet) Iter(f func(uint32)) {
	for i := uint32(0); i < s.size; i++ {
		f(s.dense[i])
	}
}

// IntersectionCount returns how many values of other are also members of s.
// Used by Connect to size the co-accessible/accessible overlap without
// allocating a fresh set. When the CPU exposes a fast popcount instruction
// the dense side is folded into 64-bit words first; otherwise the portable
// per-value loop below is used directly. Both paths compute the same result.
func (s *SparseSet) IntersectionCount(other *SparseSet) int {
	if hasFastPopcount && other.size > 64 {
		return s.intersectionCountBitset(other)
	}
	return s.intersectionCountLoop(other)
}

func (s *SparseSet) intersectionCountLoop(other *SparseSet) int {
	n := 0
	for i := uint32(0); i < other.size; i++ {
		if s.Contains(other.dense[i]) {
			n++
		}
	}
	return n
}

// intersectionCountBitset folds both sets into 64-bit words over their
// shared universe and counts common bits with bits.OnesCount64, trading a
// bitset build for fewer branchy Contains calls on large sets.
func (s *SparseSet) intersectionCountBitset(other *SparseSet) int {
	universe := len(s.sparse)
	if len(other.sparse) < universe {
		universe = len(other.sparse)
	}
	words := (universe + 63) / 64
	a := make([]uint64, words)
	b := make([]uint64, words)
	for i := uint32(0); i < s.size; i++ {
		if v := int(s.dense[i]); v < universe {
			a[v/64] |= 1 << uint(v%64)
		}
	}
	for i := uint32(0); i < other.size; i++ {
		if v := int(other.dense[i]); v < universe {
			b[v/64] |= 1 << uint(v%64)
		}
	}
	n := 0
	for i := range a {
		n += bits.OnesCount64(a[i] & b[i])
	}
	return n
}
