package graph

import "github.com/citypath/corridor/internal/models"

// Neighbor is one directed step away from a node in a given search
// direction: Via is the edge actually traversed, and Node is the
// neighbor reached by it.
type Neighbor struct {
	Node int64
	Via  *models.Edge
}

// ForwardNeighbors returns every node reachable by a real outgoing edge.
func (g *Graph) ForwardNeighbors(nodeID int64) []Neighbor {
	n, ok := g.Node(nodeID)
	if !ok {
		return nil
	}
	out := make([]Neighbor, 0, len(n.Out))
	for to, e := range n.Out {
		out = append(out, Neighbor{Node: to, Via: e})
	}
	return out
}

// BackwardNeighbors returns every node that has a real outgoing edge
// into nodeID — the reverse-adjacency used by backward labeling and
// backward A* (distilled spec §4.4: "use backward adjacency in backward
// direction").
func (g *Graph) BackwardNeighbors(nodeID int64) []Neighbor {
	n, ok := g.Node(nodeID)
	if !ok {
		return nil
	}
	out := make([]Neighbor, 0, len(n.In))
	for from, e := range n.In {
		out = append(out, Neighbor{Node: from, Via: e})
	}
	return out
}
