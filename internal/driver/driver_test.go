package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/config"
	"github.com/citypath/corridor/internal/corridorerr"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

func chainGraph() *graph.Graph {
	g := &graph.Graph{}
	nodes := make(map[int64]*models.Node)
	for i := int64(1); i <= 5; i++ {
		nodes[i] = &models.Node{ID: i, Out: map[int64]*models.Edge{}}
	}
	for i := int64(1); i < 5; i++ {
		e := &models.Edge{From: i, To: i + 1, Distance: 100, BaseWidth: 10, RushWidth: 10,
			TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 5}}}
		e.Finalize()
		nodes[i].Out[i+1] = e
	}
	g.LoadInMemory(nodes)
	return g
}

func testConfig() config.Routing {
	return config.Routing{
		WideThreshold:       8,
		MaxLabelsPerNode:    10,
		IntervalDuration:    30,
		LabelingTimeout:     2 * time.Second,
		OverallQueryTimeout: 5 * time.Second,
		RushWindows:         models.DefaultRushWindows,
	}
}

func TestDriverRunFindsWidePathOnChain(t *testing.T) {
	g := chainGraph()
	d := New(g, testConfig())

	result, err := d.Run(context.Background(), Query{
		Source: 1, Destination: 5, Tau0: 0, Tau1: 60, Budget: 100,
		Mode: models.ObjectiveWidenessOnly,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.PathFound)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, result.PathNodes)
}

func TestDriverRunUnknownNode(t *testing.T) {
	g := chainGraph()
	d := New(g, testConfig())

	_, err := d.Run(context.Background(), Query{
		Source: 1, Destination: 999, Tau0: 0, Tau1: 60, Budget: 100,
		Mode: models.ObjectiveWidenessOnly,
	})
	assert.ErrorIs(t, err, corridorerr.ErrNotFound)
}

func TestDriverRunInfeasibleUnderTinyBudget(t *testing.T) {
	g := chainGraph()
	d := New(g, testConfig())

	_, err := d.Run(context.Background(), Query{
		Source: 1, Destination: 5, Tau0: 0, Tau1: 60, Budget: 1,
		Mode: models.ObjectiveWidenessOnly,
	})
	assert.ErrorIs(t, err, corridorerr.ErrInfeasible)
}

func TestDriverRecomputeReusesLabelStores(t *testing.T) {
	g := chainGraph()
	d := New(g, testConfig())

	first, err := d.Run(context.Background(), Query{
		Source: 1, Destination: 5, Tau0: 0, Tau1: 60, Budget: 100,
		Mode: models.ObjectiveWidenessOnly,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, first.QueryID)

	second, err := d.Recompute(context.Background(), first.QueryID, models.ObjectiveMinTurnsOnly)
	assert.NoError(t, err)
	assert.True(t, second.PathFound)
	assert.Equal(t, first.PathNodes, second.PathNodes)
}

func TestDriverRecomputeUnknownSessionReturnsExpired(t *testing.T) {
	g := chainGraph()
	d := New(g, testConfig())

	_, err := d.Recompute(context.Background(), "does-not-exist", models.ObjectiveMinTurnsOnly)
	assert.ErrorIs(t, err, corridorerr.ErrSessionExpired)
}
