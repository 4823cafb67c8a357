package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/corridorerr"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

func lineGraph() *graph.Graph {
	g := &graph.Graph{}
	e12 := &models.Edge{From: 1, To: 2, Distance: 100, BaseWidth: 10, RushWidth: 10,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 5}}}
	e23 := &models.Edge{From: 2, To: 3, Distance: 100, BaseWidth: 2, RushWidth: 2,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 5}}}
	e12.Finalize()
	e23.Finalize()

	nodes := map[int64]*models.Node{
		1: {ID: 1, Out: map[int64]*models.Edge{2: e12}},
		2: {ID: 2, Out: map[int64]*models.Edge{3: e23}},
		3: {ID: 3, Out: map[int64]*models.Edge{}},
	}
	g.LoadInMemory(nodes)
	return g
}

func TestComputeLowerBoundsFeasibleWithinBudget(t *testing.T) {
	g := lineGraph()
	lb, err := ComputeLowerBounds(g, 1, 3, 100)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, lb.Forward[3])
	assert.Equal(t, 10.0, lb.Backward[1])

	n1, _ := g.Node(1)
	assert.True(t, n1.Feasible)
}

func TestComputeLowerBoundsInfeasibleUnderTinyBudget(t *testing.T) {
	g := lineGraph()
	_, err := ComputeLowerBounds(g, 1, 3, 1)
	assert.ErrorIs(t, err, corridorerr.ErrInfeasible)
}

func TestComputeLowerBoundsUnknownNode(t *testing.T) {
	g := lineGraph()
	_, err := ComputeLowerBounds(g, 1, 999, 100)
	assert.ErrorIs(t, err, corridorerr.ErrNotFound)
}

func TestFastestPathReturnsFallbackResult(t *testing.T) {
	g := lineGraph()
	result, err := FastestPath(g, 1, 3, 100, 8)
	assert.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, []int64{1, 2, 3}, result.PathNodes)
	assert.InDelta(t, 10.0, result.TravelTime, 1e-9)
}

func TestFastestPathNoRouteWithinBudget(t *testing.T) {
	g := lineGraph()
	_, err := FastestPath(g, 1, 3, 1, 8)
	assert.ErrorIs(t, err, corridorerr.ErrNoCandidates)
}

// rightTurnGraph lays out 1(0,0) -> 2(1,0) -> 3(1,1): due north then due
// east, a 90-degree clockwise (right) turn at node 2.
func rightTurnGraph() *graph.Graph {
	g := &graph.Graph{}
	e12 := &models.Edge{From: 1, To: 2, Distance: 100,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 5}}}
	e23 := &models.Edge{From: 2, To: 3, Distance: 100,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 5}}}
	e12.Finalize()
	e23.Finalize()

	nodes := map[int64]*models.Node{
		1: {ID: 1, Lat: 0, Lon: 0, Out: map[int64]*models.Edge{2: e12}},
		2: {ID: 2, Lat: 1, Lon: 0, Out: map[int64]*models.Edge{3: e23}},
		3: {ID: 3, Lat: 1, Lon: 1, Out: map[int64]*models.Edge{}},
	}
	g.LoadInMemory(nodes)
	return g
}

func TestFastestPathCountsRightTurnsLikeLabeling(t *testing.T) {
	g := rightTurnGraph()
	result, err := FastestPath(g, 1, 3, 100, 8)
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, result.PathNodes)
	assert.Equal(t, 1, result.RightTurns)
}
