package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
	"github.com/citypath/corridor/internal/plf"
)

func TestStoreRejectsBeyondCapacityUnlessBetter(t *testing.T) {
	s := NewStore(2)
	worse := &Label{RightTurns: 5}
	mid := &Label{RightTurns: 3}
	better := &Label{RightTurns: 0}

	assert.True(t, s.TryInsert(worse))
	assert.True(t, s.TryInsert(mid))
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.TryInsert(&Label{RightTurns: 9}))
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.TryInsert(better))
	assert.Equal(t, 2, s.Len())

	for _, l := range s.Iterate() {
		assert.NotEqual(t, 9, l.RightTurns)
	}
}

func TestLabelPathWalksPredecessorChain(t *testing.T) {
	root := &Label{Node: 1}
	mid := &Label{Node: 2, Predecessor: root}
	leaf := &Label{Node: 3, Predecessor: mid}

	assert.Equal(t, []int64{1, 2, 3}, leaf.Path())

	prev, ok := leaf.PrevNode()
	assert.True(t, ok)
	assert.Equal(t, int64(2), prev)

	_, ok = root.PrevNode()
	assert.False(t, ok)
}

func TestRemoveLoopsDropsClosedCycle(t *testing.T) {
	path := []int64{1, 2, 3, 2, 4}
	clean := RemoveLoops(path)
	assert.Equal(t, []int64{1, 2, 4}, clean)

	// idempotent
	assert.Equal(t, clean, RemoveLoops(clean))
}

func TestRemoveLoopsNoopOnAcyclicPath(t *testing.T) {
	path := []int64{1, 2, 3, 4}
	assert.Equal(t, path, RemoveLoops(path))
}

func TestSharedStateMarksIntersectionOnlyWhenBothDirectionsPresent(t *testing.T) {
	s := NewSharedState(5)
	assert.Empty(t, s.IntersectionNodes())

	s.Insert(Forward, &Label{Node: 42})
	assert.Empty(t, s.IntersectionNodes())

	s.Insert(Backward, &Label{Node: 42})
	assert.Equal(t, []int64{42}, s.IntersectionNodes())
}

func buildLineGraph() *graph.Graph {
	// 1 -> 2 -> 3, constant time tables, edge width always above threshold.
	g := &graph.Graph{}
	e12 := &models.Edge{From: 1, To: 2, Distance: 100, BaseWidth: 10, RushWidth: 10,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 5}}}
	e23 := &models.Edge{From: 2, To: 3, Distance: 100, BaseWidth: 10, RushWidth: 10,
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

func TestJoinAllFindsWidePathOnLineGraph(t *testing.T) {
	g := buildLineGraph()

	fwdRoot := Root(1, 0, 60, 30)
	bwdRoot := Root(3, 0, 60, 30)

	shared := NewSharedState(10)

	// Manually relax forward: 1 -> 2
	n1, _ := g.Node(1)
	f2 := Relax(fwdRoot, 2, n1.Out[2], 8, nil)
	shared.Insert(Forward, fwdRoot)
	shared.Insert(Forward, f2)

	// Manually relax backward: 3 -> 2 (via reverse adjacency)
	n2bwd := g.BackwardNeighbors(3)
	assert.Len(t, n2bwd, 1)
	b2 := Relax(bwdRoot, n2bwd[0].Node, n2bwd[0].Via, 8, nil)
	shared.Insert(Backward, bwdRoot)
	shared.Insert(Backward, b2)

	assert.Equal(t, []int64{2}, shared.IntersectionNodes())

	result, err := JoinAll(g, shared, models.ObjectiveWidenessOnly, 8)
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.PathFound)
	assert.Equal(t, []int64{1, 2, 3}, result.PathNodes)
	assert.InDelta(t, 100.0, result.Score, 1e-6)
}

// TestSummarizeEvaluatesWidthAtEachEdgesActualTransitTime builds a path
// that departs before the rush window but, because of the first edge's
// travel time, actually traverses the second edge once rush hour has
// started. summarize must classify the second edge as wide using its own
// elapsed arrival time, not the single whole-path departure timestamp.
func TestSummarizeEvaluatesWidthAtEachEdgesActualTransitTime(t *testing.T) {
	g := &graph.Graph{}
	e12 := &models.Edge{From: 1, To: 2, Distance: 50, BaseWidth: 2, RushWidth: 2,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 20}}}
	e23 := &models.Edge{From: 2, To: 3, Distance: 100, BaseWidth: 2, RushWidth: 20,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: 10}}}
	e12.Finalize()
	e23.Finalize()

	nodes := map[int64]*models.Node{
		1: {ID: 1, Out: map[int64]*models.Edge{2: e12}},
		2: {ID: 2, Out: map[int64]*models.Edge{3: e23}},
		3: {ID: 3, Out: map[int64]*models.Edge{}},
	}
	g.LoadInMemory(nodes)

	// Departs at 440 (07:20), before the 450-570 rush window. Edge 1->2
	// takes 20 minutes, so the traveler reaches node 2 at 460 — inside
	// the window — and edge 2->3 (wide only during rush) is actually
	// traversed starting at 460, not at the 440 departure timestamp.
	c := candidate{departure: 440, pathNodes: []int64{1, 2, 3}}
	result := summarize(g, c, 8)

	assert.InDelta(t, 150.0, result.PathDistance, 1e-6)
	assert.InDelta(t, 30.0, result.TravelTime, 1e-6)
	assert.InDelta(t, 100.0*100.0/150.0, result.Score, 1e-6)
}

func TestProfileCloneIsIndependent(t *testing.T) {
	p := plf.Seed(0, 60, 30)
	cp := p.Clone()
	cp.Points[0].Y = 999
	assert.NotEqual(t, p.Points[0].Y, cp.Points[0].Y)
}
