// Package api exposes the routing pipeline (C8 Driver) over HTTP.
// Grounded on the teacher's internal/api/handlers.go RouteSearch: cache
// lookup, distributed lock, compute-on-miss, cache-set — generalized
// from per-strategy coordinate pairs to the time-dependent budgeted
// query contract (distilled spec §6).
package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/citypath/corridor/internal/cache"
	"github.com/citypath/corridor/internal/corridorerr"
	"github.com/citypath/corridor/internal/db"
	"github.com/citypath/corridor/internal/driver"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

// RouteResponse is the JSON shape returned for a route query.
type RouteResponse struct {
	DepartureTime   float64         `json:"departure_time"`
	Score           float64         `json:"score"`
	RightTurns      int             `json:"right_turns"`
	TravelTime      float64         `json:"travel_time_minutes"`
	PathDistance    float64         `json:"path_distance_meters"`
	PathNodes       []int64         `json:"path_nodes"`
	WideEdgeIndices []int           `json:"wide_edge_indices,omitempty"`
	Fallback        bool            `json:"fallback"`
	PathFound       bool            `json:"path_found"`
	CacheHit        bool            `json:"cache_hit"`
	QueryID         string          `json:"query_id,omitempty"`
	Alternatives    []RouteResponse `json:"alternatives,omitempty"`
}

func toResponse(r *models.Result, cacheHit bool) RouteResponse {
	resp := RouteResponse{
		DepartureTime:   r.DepartureTime,
		Score:           r.Score,
		RightTurns:      r.RightTurns,
		TravelTime:      r.TravelTime,
		PathDistance:    r.PathDistance,
		PathNodes:       r.PathNodes,
		WideEdgeIndices: r.WideEdgeIndices,
		Fallback:        r.Fallback,
		PathFound:       r.PathFound,
		CacheHit:        cacheHit,
		QueryID:         r.QueryID,
	}
	for _, alt := range r.ParetoPaths {
		resp.Alternatives = append(resp.Alternatives, toResponse(alt, cacheHit))
	}
	return resp
}

// Route handles GET /v2/route?source=&destination=&tau0=&tau1=&budget=&mode=
func Route(d *driver.Driver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, errResp := parseQuery(c)
		if errResp != nil {
			return errResp(c)
		}

		ctx := c.Context()
		key := cache.RouteKey(q.Source, q.Destination, q.Tau0, q.Tau1, q.Budget, q.Mode)
		lockKey := cache.LockKey(key)

		if cached, err := cache.GetRoute(ctx, key); err == nil && cached != nil {
			c.Locals("cache_hit", true)
			return c.JSON(toResponse(cached, true))
		}

		acquired, lockErr := cache.AcquireLock(ctx, lockKey, 5*time.Second)
		if lockErr == nil && !acquired {
			if waited, err := cache.WaitForLock(ctx, key, 3*time.Second); err == nil && waited != nil {
				c.Locals("cache_hit", true)
				return c.JSON(toResponse(waited, true))
			}
		}
		if acquired {
			defer cache.ReleaseLock(ctx, lockKey)
		}

		result, err := d.Run(ctx, q)
		if err != nil {
			return routingErrorResponse(c, err)
		}

		_ = cache.SetRoute(ctx, key, result, 10*time.Minute)
		c.Locals("cache_hit", false)
		return c.JSON(toResponse(result, false))
	}
}

// Recompute handles POST /v2/route/:id/recompute?mode=, re-running only
// the join stage (C7) against the label stores a prior /v2/route call
// already built, under a different objective. It never re-runs the
// labeling search, so it costs a small fraction of a fresh query.
func Recompute(d *driver.Driver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return badRequest("missing route id")(c)
		}

		modeStr := c.Query("mode", string(models.ObjectiveWidenessOnly))
		var mode models.Objective
		switch modeStr {
		case string(models.ObjectiveMinTurnsOnly):
			mode = models.ObjectiveMinTurnsOnly
		case string(models.ObjectiveWidenessAndTurns):
			mode = models.ObjectiveWidenessAndTurns
		case string(models.ObjectiveWidenessOnly):
			mode = models.ObjectiveWidenessOnly
		default:
			return badRequest("invalid 'mode': must be WIDENESS_ONLY, MIN_TURNS_ONLY, or WIDENESS_AND_TURNS")(c)
		}

		ctx := c.Context()
		result, err := d.Recompute(ctx, id, mode)
		if err != nil {
			return routingErrorResponse(c, err)
		}

		c.Locals("cache_hit", false)
		return c.JSON(toResponse(result, false))
	}
}

func parseQuery(c *fiber.Ctx) (driver.Query, func(*fiber.Ctx) error) {
	source, err := strconv.ParseInt(c.Query("source"), 10, 64)
	if err != nil {
		return driver.Query{}, badRequest("invalid or missing 'source' node id")
	}
	destination, err := strconv.ParseInt(c.Query("destination"), 10, 64)
	if err != nil {
		return driver.Query{}, badRequest("invalid or missing 'destination' node id")
	}
	tau0, err := strconv.ParseFloat(c.Query("tau0", "0"), 64)
	if err != nil {
		return driver.Query{}, badRequest("invalid 'tau0'")
	}
	tau1, err := strconv.ParseFloat(c.Query("tau1", "1440"), 64)
	if err != nil {
		return driver.Query{}, badRequest("invalid 'tau1'")
	}
	budget, err := strconv.ParseFloat(c.Query("budget"), 64)
	if err != nil {
		return driver.Query{}, badRequest("invalid or missing 'budget'")
	}

	modeStr := c.Query("mode", string(models.ObjectiveWidenessOnly))
	var mode models.Objective
	switch modeStr {
	case string(models.ObjectiveMinTurnsOnly):
		mode = models.ObjectiveMinTurnsOnly
	case string(models.ObjectiveWidenessAndTurns):
		mode = models.ObjectiveWidenessAndTurns
	case string(models.ObjectiveWidenessOnly):
		mode = models.ObjectiveWidenessOnly
	default:
		return driver.Query{}, badRequest("invalid 'mode': must be WIDENESS_ONLY, MIN_TURNS_ONLY, or WIDENESS_AND_TURNS")
	}

	return driver.Query{
		Source: source, Destination: destination,
		Tau0: tau0, Tau1: tau1, Budget: budget, Mode: mode,
	}, nil
}

func badRequest(message string) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.Status(400).JSON(fiber.Map{"error": message})
	}
}

func routingErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, corridorerr.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, corridorerr.ErrInfeasible):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, corridorerr.ErrTimeout):
		return c.Status(504).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, corridorerr.ErrNoCandidates):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, corridorerr.ErrSessionExpired):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}

// GraphEdge handles GET /v2/graph/edge?node=&neighbor= for introspecting
// one edge's derived fields without a database round trip, useful for
// operators debugging a loaded graph (grounded on the teacher's
// internal/api/schedule_handlers.go route-introspection pattern).
func GraphEdge(g *graph.Graph) fiber.Handler {
	return func(c *fiber.Ctx) error {
		node, err := strconv.ParseInt(c.Query("node"), 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid or missing 'node'"})
		}
		neighbor, err := strconv.ParseInt(c.Query("neighbor"), 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid or missing 'neighbor'"})
		}

		n, ok := g.Node(node)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "unknown node"})
		}
		e, ok := n.Out[neighbor]
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "no edge to that neighbor"})
		}

		return c.JSON(fiber.Map{
			"from":        e.From,
			"to":          e.To,
			"distance":    e.Distance,
			"base_width":  e.BaseWidth,
			"rush_width":  e.RushWidth,
			"lowest_cost": e.LowestCost,
			"is_clearway": e.IsClearway,
			"samples":     e.TimeTable,
		})
	}
}

// Health handles the /health endpoint.
func Health(c *fiber.Ctx) error {
	ctx := c.Context()

	dbErr := db.HealthCheck(ctx)
	dbStatus := "ok"
	if dbErr != nil {
		dbStatus = dbErr.Error()
	}

	redisErr := cache.HealthCheck(ctx)
	redisStatus := "ok"
	if redisErr != nil {
		redisStatus = redisErr.Error()
	}

	graphStatus := "not_loaded"
	if graph.Get().IsLoaded() {
		graphStatus = "loaded"
	}

	status := "healthy"
	httpStatus := 200
	if dbErr != nil || redisErr != nil {
		status = "unhealthy"
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"graph":    graphStatus,
		},
	})
}
