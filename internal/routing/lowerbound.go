// Package routing implements the lower-bound A*/Dijkstra preprocessing
// pass (C4) and the plain fastest-path fallback (C8's degraded mode).
//
// Grounded on the teacher's internal/routing/astar.go: the same
// container/heap-based PriorityQueue shape, generalized from a single
// source->destination path search into two whole-graph minimum-cost
// sweeps that populate every node's HForward/HBackward/Feasible fields.
package routing

import (
	"container/heap"

	"github.com/citypath/corridor/internal/corridorerr"
	"github.com/citypath/corridor/internal/graph"
)

// pqItem is one entry in the Dijkstra frontier.
type pqItem struct {
	node int64
	cost float64
	idx  int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].idx = i; pq[j].idx = j }
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.idx = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// minCostSweep runs a plain Dijkstra over g from source using each
// edge's LowestCost as weight, following neighbors(nodeID) for
// adjacency, and returns the minimum cost to every reached node.
func minCostSweep(g *graph.Graph, source int64, neighbors func(*graph.Graph, int64) []graph.Neighbor) map[int64]float64 {
	dist := map[int64]float64{source: 0}
	pq := &priorityQueue{{node: source, cost: 0}}
	heap.Init(pq)

	visited := make(map[int64]bool)
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		for _, nb := range neighbors(g, cur.node) {
			next := cur.cost + nb.Via.LowestCost
			if d, ok := dist[nb.Node]; !ok || next < d {
				dist[nb.Node] = next
				heap.Push(pq, &pqItem{node: nb.Node, cost: next})
			}
		}
	}
	return dist
}

// LowerBounds is the output of ComputeLowerBounds: per-node forward and
// backward minimum-cost maps, kept alongside the graph's own HForward/
// HBackward fields for feasibility queries that don't need a full node
// lookup.
type LowerBounds struct {
	Forward  map[int64]float64
	Backward map[int64]float64
}

const unreachable = -1.0

// ComputeLowerBounds runs the forward sweep from source and the backward
// sweep from destination (C4), writes HForward/HBackward/Feasible onto
// every node (Feasible is h_forward(n)+h_backward(n) <= budget, false for
// a node unreached in either sweep), and reports infeasibility itself: it
// returns ErrInfeasible when the destination is unreached from the source
// or when the source node is not Feasible.
func ComputeLowerBounds(g *graph.Graph, source, destination int64, budget float64) (*LowerBounds, error) {
	if _, ok := g.Node(source); !ok {
		return nil, corridorerr.ErrNotFound
	}
	if _, ok := g.Node(destination); !ok {
		return nil, corridorerr.ErrNotFound
	}

	fwd := minCostSweep(g, source, func(gr *graph.Graph, id int64) []graph.Neighbor { return gr.ForwardNeighbors(id) })
	bwd := minCostSweep(g, destination, func(gr *graph.Graph, id int64) []graph.Neighbor { return gr.BackwardNeighbors(id) })

	for id, n := range g.Nodes {
		h1, ok1 := fwd[id]
		h2, ok2 := bwd[id]
		if !ok1 {
			h1 = unreachable
		}
		if !ok2 {
			h2 = unreachable
		}
		n.HForward = h1
		n.HBackward = h2
		n.Feasible = ok1 && ok2 && (h1+h2) <= budget
	}

	lb := &LowerBounds{Forward: fwd, Backward: bwd}

	if _, reached := fwd[destination]; !reached {
		return lb, corridorerr.ErrInfeasible
	}
	if s, ok := g.Node(source); !ok || !s.Feasible {
		return lb, corridorerr.ErrInfeasible
	}
	return lb, nil
}
