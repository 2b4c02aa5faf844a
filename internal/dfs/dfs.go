// Package dfs is a small generic depth-first visitor over an FST's state
// graph, shared by the structural operations that need to walk it: Connect
// (accessible/coaccessible trimming, forward and over a transposed adjacency
// list) and the look-ahead matcher's interval-reachability precomputation
// (cycle detection plus post-order interval bookkeeping). Grounded on the
// classic three-color DFS (rustfst's interval_reach_visitor.rs is itself one
// instance of this shape); factored out here so the three call sites stop
// hand-rolling their own color arrays and recursion.
package dfs

import "errors"

// StateId is the node identity the walker operates over. It mirrors
// fst.StateId without importing the fst package, so dfs stays a leaf
// dependency usable from both fstops and matcher.
type StateId = int

// Color is a state's visitation status during a walk.
type Color uint8

const (
	// White states have not been discovered yet.
	White Color = iota
	// Grey states are on the current DFS stack (an ancestor of whatever
	// is being visited now).
	Grey
	// Black states, and everything reachable from them, are fully
	// explored.
	Black
)

// ErrCycle is returned by Walker.Visit when it finds an edge to a Grey
// state (a back edge) and the Visitor has no BackEdge handler to absorb it.
var ErrCycle = errors.New("dfs: cyclic input")

// Neighbors returns the states reachable in one step from s.
type Neighbors func(s StateId) ([]StateId, error)

// Visitor receives callbacks at each point of interest in the traversal.
// Any nil callback is simply skipped. An error returned from any callback
// aborts the walk and is propagated out of Visit.
type Visitor struct {
	// PreVisit runs once, when s is first discovered (White -> Grey).
	PreVisit func(s StateId) error
	// TreeEdge runs for an edge s->t right after t (freshly discovered
	// via this edge) has been fully explored.
	TreeEdge func(s, t StateId) error
	// BackEdge runs for an edge s->t where t is Grey (an ancestor of s).
	// If nil, such an edge makes Visit return ErrCycle.
	BackEdge func(s, t StateId) error
	// CrossEdge runs for an edge s->t where t is already Black.
	CrossEdge func(s, t StateId) error
	// PostVisit runs once, when s and everything reachable from it is
	// fully explored (Grey -> Black).
	PostVisit func(s StateId) error
}

// Walker holds the color array for one traversal, so repeated calls to
// Visit (one per root, e.g. one per final state when walking a reversed
// graph) share progress instead of re-exploring already-black states.
type Walker struct {
	color     []Color
	neighbors Neighbors
	visitor   Visitor
}

// New returns a Walker over n states. neighbors is called at most once per
// state across the Walker's lifetime.
func New(n int, neighbors Neighbors, v Visitor) *Walker {
	return &Walker{color: make([]Color, n), neighbors: neighbors, visitor: v}
}

// Color reports s's current visitation status.
func (w *Walker) Color(s StateId) Color {
	return w.color[s]
}

// Visit runs a depth-first walk starting at s. If s is already Grey or
// Black (discovered by an earlier Visit call on this Walker, directly or
// transitively), Visit returns immediately without recursing.
func (w *Walker) Visit(s StateId) error {
	if w.color[s] != White {
		return nil
	}
	w.color[s] = Grey
	if w.visitor.PreVisit != nil {
		if err := w.visitor.PreVisit(s); err != nil {
			return err
		}
	}

	next, err := w.neighbors(s)
	if err != nil {
		return err
	}
	for _, t := range next {
		switch w.color[t] {
		case White:
			if err := w.Visit(t); err != nil {
				return err
			}
			if w.visitor.TreeEdge != nil {
				if err := w.visitor.TreeEdge(s, t); err != nil {
					return err
				}
			}
		case Grey:
			if w.visitor.BackEdge != nil {
				if err := w.visitor.BackEdge(s, t); err != nil {
					return err
				}
			} else {
				return ErrCycle
			}
		case Black:
			if w.visitor.CrossEdge != nil {
				if err := w.visitor.CrossEdge(s, t); err != nil {
					return err
				}
			}
		}
	}

	w.color[s] = Black
	if w.visitor.PostVisit != nil {
		if err := w.visitor.PostVisit(s); err != nil {
			return err
		}
	}
	return nil
}
