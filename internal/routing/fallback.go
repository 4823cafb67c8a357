package routing

import (
	"container/heap"

	"github.com/citypath/corridor/internal/corridorerr"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

// fallbackItem tracks the cheapest known cost to reach a node plus the
// predecessor used to get there, for path reconstruction.
type fallbackItem struct {
	node int64
	cost float64
	prev int64
	idx  int
}

type fallbackQueue []*fallbackItem

func (q fallbackQueue) Len() int           { return len(q) }
func (q fallbackQueue) Less(i, j int) bool { return q[i].cost < q[j].cost }
func (q fallbackQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i]; q[i].idx = i; q[j].idx = j }
func (q *fallbackQueue) Push(x any) {
	item := x.(*fallbackItem)
	item.idx = len(*q)
	*q = append(*q, item)
}
func (q *fallbackQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// FastestPath computes the plain minimum-LowestCost path from source to
// destination, ignoring width/turns entirely, up to a travel-time budget
// — the degraded mode the driver falls back to on labeling timeout or no
// candidates (distilled spec §4.8). The returned Result always has
// Fallback=true and Score=0 per §6's "Query output" contract.
func FastestPath(g *graph.Graph, source, destination int64, budget float64, wideThreshold float64) (*models.Result, error) {
	if _, ok := g.Node(source); !ok {
		return nil, corridorerr.ErrNotFound
	}
	if _, ok := g.Node(destination); !ok {
		return nil, corridorerr.ErrNotFound
	}

	best := map[int64]*fallbackItem{source: {node: source, cost: 0, prev: -1}}
	pq := &fallbackQueue{best[source]}
	heap.Init(pq)

	visited := make(map[int64]bool)
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*fallbackItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == destination {
			break
		}

		for _, nb := range g.ForwardNeighbors(cur.node) {
			next := cur.cost + nb.Via.LowestCost
			if next > budget {
				continue
			}
			if existing, ok := best[nb.Node]; !ok || next < existing.cost {
				item := &fallbackItem{node: nb.Node, cost: next, prev: cur.node}
				best[nb.Node] = item
				heap.Push(pq, item)
			}
		}
	}

	dest, ok := best[destination]
	if !ok {
		return nil, corridorerr.ErrNoCandidates
	}

	var path []int64
	for n := destination; n != -1; {
		path = append([]int64{n}, path...)
		item := best[n]
		if item.prev == -1 {
			break
		}
		n = item.prev
	}

	var distance, wideDistance float64
	for i := 0; i+1 < len(path); i++ {
		node, ok := g.Node(path[i])
		if !ok {
			continue
		}
		e, ok := node.Out[path[i+1]]
		if !ok {
			// MalformedGraph: recovered locally, skip contribution from
			// this hop rather than aborting the whole fallback result.
			continue
		}
		distance += e.Distance
		if e.Width(0) >= wideThreshold {
			wideDistance += e.Distance
		}
	}

	// wideDistance is tracked only for potential future diagnostics; the
	// fallback Result.Score is always 0 per §6's "Query output" contract,
	// regardless of how wide the fallback path happens to be.
	_ = wideDistance

	// RightTurns uses the same bearing-delta classification as the
	// labeling search (graph.IsRightTurn), applied identically here so
	// the two modes report turns on a comparable scale.
	rightTurns := 0
	for i := 1; i+1 < len(path); i++ {
		if g.IsRightTurn(path[i-1], path[i], path[i+1]) {
			rightTurns++
		}
	}

	return &models.Result{
		TravelTime:   dest.cost,
		PathDistance: distance,
		PathNodes:    path,
		RightTurns:   rightTurns,
		Score:        0,
		Fallback:     true,
		PathFound:    true,
	}, nil
}
