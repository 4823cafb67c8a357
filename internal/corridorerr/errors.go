// Package corridorerr holds the typed error vocabulary for the routing
// pipeline (distilled spec §7): NotFound, Infeasible, Timeout,
// NoCandidates, MalformedGraph. Grounded on
// other_examples/balanced_router.go's ErrRoutingFailed{Reason, ...}
// pattern — a small set of sentinel/wrapped errors the driver switches
// on to decide whether to fall back or surface a failure.
package corridorerr

import "errors"

var (
	// ErrNotFound: source or destination id not present in the graph.
	ErrNotFound = errors.New("corridor: node not found")
	// ErrInfeasible: A* marks the query infeasible under the budget.
	ErrInfeasible = errors.New("corridor: no path within budget")
	// ErrTimeout: a per-task or overall deadline was exceeded.
	ErrTimeout = errors.New("corridor: labeling deadline exceeded")
	// ErrNoCandidates: labeling produced no usable intersection/pair.
	ErrNoCandidates = errors.New("corridor: no candidate path found")
	// ErrMalformedGraph: a referenced edge or node was missing at query
	// time. Per §7 this is recovered locally (skip and continue): the
	// loader, join and fallback skip the missing edge, and no function in
	// this module returns this error.
	ErrMalformedGraph = errors.New("corridor: malformed graph data")
	// ErrSessionExpired: a recompute request named a query id that was
	// never issued, already expired, or belonged to a fallback result
	// that never completed the join stage.
	ErrSessionExpired = errors.New("corridor: recompute session not found or expired")
)
