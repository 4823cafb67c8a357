package search

import (
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

// candidate is one raw (forward, backward) pairing at an intersection
// node before objective reduction.
type candidate struct {
	departure  float64
	rightTurns int
	pathNodes  []int64
}

// JoinAll runs the join stage (C7) over every intersection node in
// shared, producing one candidate per (forward, backward) label pair,
// then reduces the full candidate set under mode.
func JoinAll(g *graph.Graph, shared *SharedState, mode models.Objective, wideThreshold float64) (*models.Result, error) {
	var candidates []candidate

	for _, node := range shared.IntersectionNodes() {
		fwdStore := shared.ForwardStore(node)
		bwdStore := shared.BackwardStore(node)
		if fwdStore == nil || bwdStore == nil {
			continue
		}
		for _, f := range fwdStore.Iterate() {
			for _, b := range bwdStore.Iterate() {
				candidates = append(candidates, joinPair(g, f, b))
			}
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	return reduce(g, candidates, mode, wideThreshold), nil
}

// joinPair walks F's arrival/wide breakpoints in lock-step, evaluating
// the combined wide score at each candidate departure to find the best
// one, then assembles and cleans the path (distilled spec §4.6).
func joinPair(g *graph.Graph, f, b *Label) candidate {
	bestDeparture, bestScore := 0.0, -1.0

	for i, bp := range f.Arrival.Points {
		arrivalAtJoin := bp.Y
		wf := f.Wide.Points[i].Y
		wb := b.Wide.Eval(arrivalAtJoin)

		totalDist := f.Distance + b.Distance
		score := 0.0
		if totalDist > 0 {
			score = 100 * (wf + wb) / totalDist
		}
		if score > bestScore {
			bestScore = score
			bestDeparture = bp.X
		}
	}

	fwdPath := f.Path()        // root(source) ... m
	bwdPath := b.Path()        // root(destination) ... m
	merged := mergePaths(fwdPath, bwdPath)
	clean := RemoveLoops(merged)

	return candidate{
		departure:  bestDeparture,
		rightTurns: f.RightTurns + b.RightTurns,
		pathNodes:  clean,
	}
}

// mergePaths builds the full node sequence source->...->m->...->destination
// from a forward label's root-to-m path and a backward label's
// destination-to-m path.
func mergePaths(fwdPath, bwdPath []int64) []int64 {
	out := make([]int64, 0, len(fwdPath)+len(bwdPath)-1)
	out = append(out, fwdPath...)
	for i := len(bwdPath) - 2; i >= 0; i-- {
		out = append(out, bwdPath[i])
	}
	return out
}

// summarize walks the cleaned path's real edges to compute the
// authoritative travelTime/distance/score fields (distilled spec §4.6
// step 1's final "Summarize" line). tau tracks the actual elapsed
// clock time at the head of each edge, starting at c.departure, so
// each edge's width is evaluated at the time of day it is actually
// traversed rather than against one shared whole-path timestamp — a
// path that crosses a rush-hour boundary partway through gets the
// right width on each side of the boundary.
func summarize(g *graph.Graph, c candidate, wideThreshold float64) *models.Result {
	var travelTime, totalDistance, wideDistance float64
	var wideEdges []int
	tau := c.departure
	for i := 0; i+1 < len(c.pathNodes); i++ {
		node, ok := g.Node(c.pathNodes[i])
		if !ok {
			continue
		}
		e, ok := node.Out[c.pathNodes[i+1]]
		if !ok {
			// MalformedGraph: recovered locally per §7.
			continue
		}
		arrival := e.ArrivalTime(tau)
		travelTime += arrival - tau
		totalDistance += e.Distance
		if e.Width(tau) >= wideThreshold {
			wideDistance += e.Distance
			wideEdges = append(wideEdges, i)
		}
		tau = arrival
	}

	score := 0.0
	if totalDistance > 0 {
		score = 100 * wideDistance / totalDistance
	}

	return &models.Result{
		DepartureTime: c.departure,
		Score:         score,
		RightTurns:    c.rightTurns,
		TravelTime:    travelTime,
		PathDistance:  totalDistance,
		PathNodes:     c.pathNodes,
		WideEdgeIndices: wideEdges,
		PathFound:     true,
	}
}
