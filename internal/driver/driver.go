// Package driver wires the lower-bound A*, the two labeling searches,
// and the join stage into one query pipeline (C8), with deadline
// handling and fallback. Grounded on the teacher's internal/api/
// handlers.go RouteSearch: one goroutine per concurrent unit of work,
// collected on a shared buffered channel under a time.After deadline.
package driver

import (
	"context"
	"time"

	"github.com/citypath/corridor/internal/config"
	"github.com/citypath/corridor/internal/corridorerr"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
	"github.com/citypath/corridor/internal/routing"
	"github.com/citypath/corridor/internal/search"
)

// Query is the input contract (distilled spec §6 "Query input").
type Query struct {
	Source      int64
	Destination int64
	Tau0        float64
	Tau1        float64
	Budget      float64
	Mode        models.Objective
}

// Driver runs queries against a loaded graph using the routing knobs in
// cfg.
type Driver struct {
	Graph *graph.Graph
	Cfg   config.Routing

	sessions *sessionStore
}

// New builds a Driver bound to a graph and routing configuration.
func New(g *graph.Graph, cfg config.Routing) *Driver {
	return &Driver{Graph: g, Cfg: cfg, sessions: newSessionStore()}
}

// Run executes the full pipeline for one query (distilled spec §4.8).
func (d *Driver) Run(ctx context.Context, q Query) (*models.Result, error) {
	if _, ok := d.Graph.Node(q.Source); !ok {
		return nil, corridorerr.ErrNotFound
	}
	if _, ok := d.Graph.Node(q.Destination); !ok {
		return nil, corridorerr.ErrNotFound
	}

	overallCtx, cancel := context.WithTimeout(ctx, d.Cfg.OverallQueryTimeout)
	defer cancel()

	if _, err := routing.ComputeLowerBounds(d.Graph, q.Source, q.Destination, q.Budget); err != nil {
		return nil, err
	}

	shared := search.NewSharedState(d.Cfg.MaxLabelsPerNode)
	fwdRoot := search.Root(q.Source, q.Tau0, q.Tau1, d.Cfg.IntervalDuration)
	bwdRoot := search.Root(q.Destination, q.Tau0, q.Tau1, d.Cfg.IntervalDuration)

	labelCtx, labelCancel := context.WithTimeout(overallCtx, d.Cfg.LabelingTimeout)
	defer labelCancel()

	done := make(chan struct{}, 2)
	go func() {
		search.Run(labelCtx, search.Params{
			G: d.Graph, Dir: search.Forward, Root: fwdRoot,
			BudgetHalf: q.Budget / 2, WideThreshold: d.Cfg.WideThreshold, Shared: shared,
		})
		done <- struct{}{}
	}()
	go func() {
		search.Run(labelCtx, search.Params{
			G: d.Graph, Dir: search.Backward, Root: bwdRoot,
			BudgetHalf: q.Budget / 2, WideThreshold: d.Cfg.WideThreshold, Shared: shared,
		})
		done <- struct{}{}
	}()

	timedOut := false
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(d.Cfg.LabelingTimeout + time.Second):
			timedOut = true
		}
	}

	if timedOut || len(shared.IntersectionNodes()) == 0 {
		return d.fallback(overallCtx, q)
	}

	result, err := search.JoinAll(d.Graph, shared, q.Mode, d.Cfg.WideThreshold)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return d.fallback(overallCtx, q)
	}

	result.QueryID = d.sessions.put(q, d.Graph, shared, d.Cfg.WideThreshold)
	return result, nil
}

func (d *Driver) fallback(ctx context.Context, q Query) (*models.Result, error) {
	result, err := routing.FastestPath(d.Graph, q.Source, q.Destination, q.Budget, d.Cfg.WideThreshold)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Recompute re-runs only the join stage (C7) against an earlier query's
// still-live forward/backward label stores, under a different objective.
// This is the cheap path SPEC_FULL.md's §4.9 "recompute" endpoint
// describes: no labeling search runs again, since the label sets built
// for the original departure window and budget are valid for any
// objective reduction over them (distilled spec §4.6 step 2 operates on
// the same candidate set regardless of mode).
func (d *Driver) Recompute(ctx context.Context, id string, mode models.Objective) (*models.Result, error) {
	sess, ok := d.sessions.get(id)
	if !ok {
		return nil, corridorerr.ErrSessionExpired
	}

	result, err := search.JoinAll(sess.g, sess.shared, mode, sess.wideThreshold)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, corridorerr.ErrNoCandidates
	}

	result.QueryID = id
	return result, nil
}
