// Package search implements the labeling search (C5), the bounded
// per-node label store (C6), SharedState, and the join/Pareto-filter
// stage (C7).
//
// Grounded on the teacher's internal/routing/astar.go PriorityQueue
// (container/heap) for the best-first frontier, and on
// other_examples/path_pareto.go's dominates/filterNonDominated logic for
// the Pareto reduction.
package search

import (
	"github.com/citypath/corridor/internal/models"
	"github.com/citypath/corridor/internal/plf"
)

// Direction distinguishes a forward (source-rooted) label from a
// backward (destination-rooted) one.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Label is one partial path. Predecessor chains form a trail/arena
// representation — SPEC_FULL.md §9 replaces the distilled spec's
// per-label visitedMap with a shared parent pointer per label, since a
// label's path is reconstructed once (at join time) and almost never
// read mid-search: walking Predecessor back to the root costs O(path
// length) only when a Result is actually assembled.
type Label struct {
	Node        int64
	Arrival     *plf.Profile
	Wide        *plf.Profile
	RightTurns  int
	Distance    float64
	Predecessor *Label // nil at the root
}

// PrevNode returns the node visited immediately before l.Node, or 0 if l
// is a root label (needed by the right-turn classifier, which looks at
// the last two hops).
func (l *Label) PrevNode() (int64, bool) {
	if l.Predecessor == nil {
		return 0, false
	}
	return l.Predecessor.Node, true
}

// WideRoadPercentage is the comparator's second key: the wide-distance
// fraction of the label's accumulated distance so far, evaluated at the
// label's own current arrival (the most recent breakpoint). Higher is
// more desirable.
func (l *Label) WideRoadPercentage() float64 {
	if l.Distance <= 0 {
		return 0
	}
	n := len(l.Wide.Points)
	if n == 0 {
		return 0
	}
	return 100 * l.Wide.Points[n-1].Y / l.Distance
}

// Path walks the predecessor chain back to the root and returns the node
// sequence from root to l.Node.
func (l *Label) Path() []int64 {
	var rev []int64
	for cur := l; cur != nil; cur = cur.Predecessor {
		rev = append(rev, cur.Node)
	}
	path := make([]int64, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// Root builds the initial label for a labeling task, with an arrival
// profile seeded over [tau0, tau1] (plus rush-hour boundaries) and a
// zero wide profile, per distilled spec §4.8.
func Root(node int64, tau0, tau1, intervalDuration float64) *Label {
	arrival := plf.Seed(tau0, tau1, intervalDuration)
	wide := plf.SeedWide(arrival)
	return &Label{Node: node, Arrival: arrival, Wide: wide}
}

// Relax builds the candidate label produced by traversing edge e from
// l.Node to m, applying the PLF composition (C2) and the right-turn
// classifier. isRightTurn reports whether (prev, l.Node, m) is a counted
// right turn; it is nil-safe for root labels with no predecessor.
func Relax(l *Label, m int64, e *models.Edge, wideThreshold float64, isRightTurn func(prev, cur, next int64) bool) *Label {
	arrival, wide := plf.ComposeEdge(l.Arrival, l.Wide, e, wideThreshold)

	rightTurns := l.RightTurns
	if prev, ok := l.PrevNode(); ok && isRightTurn != nil {
		if isRightTurn(prev, l.Node, m) {
			rightTurns++
		}
	}

	return &Label{
		Node:        m,
		Arrival:     arrival,
		Wide:        wide,
		RightTurns:  rightTurns,
		Distance:    l.Distance + e.Distance,
		Predecessor: l,
	}
}

// Better reports whether a is strictly more desirable than b under the
// store's worst-first comparator: (rightTurns asc, wideRoadPercentage
// desc).
func Better(a, b *Label) bool {
	if a.RightTurns != b.RightTurns {
		return a.RightTurns < b.RightTurns
	}
	return a.WideRoadPercentage() > b.WideRoadPercentage()
}
