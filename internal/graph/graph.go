// Package graph holds the in-memory road network (C1): the node/edge
// store built at startup from Postgres, the rush-hour width lookup
// (delegated to models.Edge), and the bearing-based right-turn
// classifier used by both the labeling search and the fallback
// fastest-path.
//
// Grounded on the teacher's internal/graph/memory.go: a mutex-guarded
// singleton map loaded once from a pgxpool.Pool; node lookups during
// routing go through Node, which takes a read lock.
package graph

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citypath/corridor/internal/models"
)

// Graph is the immutable-after-load road network.
type Graph struct {
	mu     sync.RWMutex
	Nodes  map[int64]*models.Node
	loaded bool
}

var (
	global     *Graph
	globalOnce sync.Once
)

// Get returns the process-wide singleton graph.
func Get() *Graph {
	globalOnce.Do(func() {
		global = &Graph{Nodes: make(map[int64]*models.Node)}
	})
	return global
}

// IsLoaded reports whether LoadFromDB has completed successfully.
func (g *Graph) IsLoaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loaded
}

// Node returns a node by id (in-memory lookup, read-locked).
func (g *Graph) Node(id int64) (*models.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.Nodes[id]
	return n, ok
}

// LoadFromDB loads every node and edge row into memory, wiring each edge
// into its source node's Out map and computing derived per-edge fields.
func (g *Graph) LoadFromDB(ctx context.Context, db *pgxpool.Pool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	log.Println("Loading road graph into memory...")

	nodes := make(map[int64]*models.Node)

	nodeRows, err := db.Query(ctx, `SELECT id, lat, lon FROM node`)
	if err != nil {
		return fmt.Errorf("failed to load nodes: %w", err)
	}
	for nodeRows.Next() {
		var id int64
		var lat, lon float64
		if err := nodeRows.Scan(&id, &lat, &lon); err != nil {
			nodeRows.Close()
			return fmt.Errorf("failed to scan node: %w", err)
		}
		nodes[id] = &models.Node{ID: id, Lat: lat, Lon: lon, Out: make(map[int64]*models.Edge), In: make(map[int64]*models.Edge)}
	}
	nodeRows.Close()
	log.Printf("  Loaded %d nodes", len(nodes))

	edgeRows, err := db.Query(ctx, `
		SELECT e.id, from_node_id, to_node_id, distance, base_width, rush_width,
		       s.departure_min, s.travel_time
		FROM edge e
		LEFT JOIN edge_sample s ON s.edge_id = e.id
		ORDER BY e.id, s.departure_min
	`)
	if err != nil {
		return fmt.Errorf("failed to load edges: %w", err)
	}
	defer edgeRows.Close()

	edgesByID := make(map[int64]*models.Edge)
	order := make([]int64, 0)
	edgeCount := 0
	for edgeRows.Next() {
		var edgeID, from, to int64
		var distance, baseWidth, rushWidth float64
		var depMin, travelTime *float64
		if err := edgeRows.Scan(&edgeID, &from, &to, &distance, &baseWidth, &rushWidth, &depMin, &travelTime); err != nil {
			log.Printf("Warning: failed to scan edge row: %v", err)
			continue
		}
		e, ok := edgesByID[edgeID]
		if !ok {
			e = &models.Edge{From: from, To: to, Distance: distance, BaseWidth: baseWidth, RushWidth: rushWidth}
			edgesByID[edgeID] = e
			order = append(order, edgeID)
			edgeCount++
		}
		if depMin != nil && travelTime != nil {
			e.TimeTable = append(e.TimeTable, models.TimeSample{DepartureMin: *depMin, TravelTime: *travelTime})
		}
	}

	for _, id := range order {
		e := edgesByID[id]
		models.MonotonizeFIFO(e)
		e.Finalize()
		src, ok := nodes[e.From]
		if !ok {
			// MalformedGraph: edge references a node absent from the node
			// table. Recovered locally per distilled spec §7: skip the edge.
			log.Printf("Warning: edge %d references unknown source node %d, skipping", id, e.From)
			continue
		}
		src.Out[e.To] = e
		if dst, ok := nodes[e.To]; ok {
			dst.In[e.From] = e
		}
	}
	log.Printf("  Loaded %d edges", edgeCount)

	g.Nodes = nodes
	g.loaded = true
	log.Printf("Graph loaded in %v (%d nodes, %d edges)", time.Since(start), len(nodes), edgeCount)
	return nil
}

// LoadInMemory installs a pre-built node map directly, bypassing
// Postgres, and (re)builds each node's reverse-adjacency index from the
// forward Out maps already present. Used by tests and by tooling that
// routes straight off a parsed text dataset (distilled spec §6) without a
// database round trip.
func (g *Graph) LoadInMemory(nodes map[int64]*models.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range nodes {
		if n.In == nil {
			n.In = make(map[int64]*models.Edge)
		}
	}
	for _, n := range nodes {
		for _, e := range n.Out {
			if dst, ok := nodes[e.To]; ok {
				dst.In[e.From] = e
			}
		}
	}
	g.Nodes = nodes
	g.loaded = true
}
