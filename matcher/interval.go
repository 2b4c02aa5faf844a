package matcher

// IntInterval is a half-open integer interval [Begin, End) of final-state
// indices, assigned by ReachVisitor. Ported from rustfst's IntInterval
// (algorithms/lookahead_matchers/interval_set.rs, referenced by
// visitors/interval_reach_visitor.rs).
type IntInterval struct {
	Begin, End int
}

// Contains reports whether v falls in [Begin, End).
func (iv IntInterval) Contains(v int) bool { return v >= iv.Begin && v < iv.End }

// IntervalSet is a normalized (sorted, non-overlapping, merged) list of
// IntInterval, one per FST state, used to answer "can a final state with
// index v be reached from here" via binary search instead of a fresh
// traversal per look-ahead query.
type IntervalSet struct {
	Intervals []IntInterval
}

// Add appends iv without normalizing; call Normalize once all intervals
// for a state are known.
func (s *IntervalSet) Add(iv IntInterval) {
	s.Intervals = append(s.Intervals, iv)
}

// Normalize sorts and merges overlapping/adjacent intervals in place.
func (s *IntervalSet) Normalize() {
	if len(s.Intervals) < 2 {
		return
	}
	sortIntervals(s.Intervals)
	out := s.Intervals[:1]
	for _, iv := range s.Intervals[1:] {
		last := &out[len(out)-1]
		if iv.Begin <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	s.Intervals = out
}

func sortIntervals(ivs []IntInterval) {
	// Simple insertion sort: interval counts per state are small (one
	// per final state reachable), so O(n^2) is fine and avoids pulling
	// in sort.Slice's reflection overhead in what can be a hot
	// look-ahead path.
	for i := 1; i < len(ivs); i++ {
		v := ivs[i]
		j := i - 1
		for j >= 0 && ivs[j].Begin > v.Begin {
			ivs[j+1] = ivs[j]
			j--
		}
		ivs[j+1] = v
	}
}

// Contains reports whether any interval in s contains v.
func (s *IntervalSet) Contains(v int) bool {
	lo, hi := 0, len(s.Intervals)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Intervals[mid].End <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(s.Intervals) && s.Intervals[lo].Contains(v)
}

// Union merges other's intervals into s (used when propagating
// reachability up the DFS tree in ReachVisitor).
func (s *IntervalSet) Union(other *IntervalSet) {
	s.Intervals = append(s.Intervals, other.Intervals...)
	s.Normalize()
}

// unionIntervalSets merges isets[j] into isets[i]. This is the corrected
// form of rustfst's union_vec_isets_unordered: the original has a
// mis-reversed second branch condition (`j > i` instead of `j < i`),
// called out in spec.md §9 as a likely source bug. The fix below treats
// i > j identically to i < j (both merge isets[j] into isets[i])
// instead of hitting the original's `unreachable!()` panic.
func unionIntervalSets(isets []IntervalSet, i, j int) {
	switch {
	case i < j:
		isets[i].Union(&isets[j])
	case j < i:
		isets[i].Union(&isets[j])
	default:
		// i == j: unioning a set with itself is a no-op.
	}
}
