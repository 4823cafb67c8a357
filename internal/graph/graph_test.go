package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/models"
)

func TestLoadInMemoryAndNode(t *testing.T) {
	g := &Graph{}
	assert.False(t, g.IsLoaded())

	nodes := map[int64]*models.Node{
		1: {ID: 1, Lat: 0, Lon: 0, Out: map[int64]*models.Edge{}},
	}
	g.LoadInMemory(nodes)

	assert.True(t, g.IsLoaded())
	n, ok := g.Node(1)
	assert.True(t, ok)
	assert.Equal(t, int64(1), n.ID)

	_, ok = g.Node(999)
	assert.False(t, ok)
}

func TestBearingCardinalDirections(t *testing.T) {
	// Due north: bearing 0.
	assert.InDelta(t, 0.0, Bearing(0, 0, 1, 0), 1e-6)
	// Due east: bearing 90.
	assert.InDelta(t, 90.0, Bearing(0, 0, 0, 1), 1.0)
}

func TestTurnDeltaWrapsToSignedRange(t *testing.T) {
	assert.InDelta(t, 90.0, TurnDelta(0, 90), 1e-9)
	assert.InDelta(t, -90.0, TurnDelta(90, 0), 1e-9)
	assert.InDelta(t, 180.0, TurnDelta(0, 180), 1e-9)
}

func TestIsRightTurnDetectsNinetyDegreeRight(t *testing.T) {
	g := &Graph{}
	// prev(0,0) -> cur(1,0) travels due north; cur -> next(1,1) travels due
	// east: a 90-degree clockwise turn at cur.
	nodes := map[int64]*models.Node{
		1: {ID: 1, Lat: 0, Lon: 0},
		2: {ID: 2, Lat: 1, Lon: 0},
		3: {ID: 3, Lat: 1, Lon: 1},
	}
	g.LoadInMemory(nodes)

	assert.True(t, g.IsRightTurn(1, 2, 3))
}

func TestIsRightTurnRejectsStraightThrough(t *testing.T) {
	g := &Graph{}
	nodes := map[int64]*models.Node{
		1: {ID: 1, Lat: 0, Lon: 0},
		2: {ID: 2, Lat: 1, Lon: 0},
		3: {ID: 3, Lat: 2, Lon: 0},
	}
	g.LoadInMemory(nodes)

	assert.False(t, g.IsRightTurn(1, 2, 3))
}
