package plf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/models"
)

func constantEdge(distance, baseWidth, rushWidth, travel float64) *models.Edge {
	e := &models.Edge{
		Distance:  distance,
		BaseWidth: baseWidth,
		RushWidth: rushWidth,
		TimeTable: []models.TimeSample{{DepartureMin: 0, TravelTime: travel}},
	}
	e.Finalize()
	return e
}

func TestSeedIncludesRushBoundaries(t *testing.T) {
	p := Seed(0, 600, 30)

	assert.Equal(t, 0.0, p.Points[0].X)
	assert.Equal(t, 600.0, p.Points[len(p.Points)-1].X)

	found450, found570 := false, false
	for _, bp := range p.Points {
		if bp.X == 450 {
			found450 = true
		}
		if bp.X == 570 {
			found570 = true
		}
	}
	assert.True(t, found450, "expected rush-hour start boundary 450 to be seeded")
	assert.True(t, found570, "expected rush-hour end boundary 570 to be seeded")
}

func TestProfileEvalMonotone(t *testing.T) {
	p := Seed(0, 120, 30)
	prev := p.Eval(0)
	for x := 0.0; x <= 120; x += 5 {
		v := p.Eval(x)
		assert.GreaterOrEqual(t, v, prev-1e-9, "arrival profile must be non-decreasing")
		prev = v
	}
}

func TestComposeEdgeSimpleWide(t *testing.T) {
	arrival := Seed(0, 60, 30)
	wide := SeedWide(arrival)

	e := constantEdge(100, 10, 5, 20) // base width 10 (wide), rush width 5 (narrow)

	newArrival, newWide := ComposeEdge(arrival, wide, e, 8)

	assert.Equal(t, 20.0, newArrival.Eval(0))
	assert.Equal(t, 100.0, newWide.Eval(0), "edge is wide outside rush hour at threshold 8")
}

func TestComposeEdgeSplitsAtRushBoundary(t *testing.T) {
	arrival := &Profile{Kind: models.KindArrival, Points: []models.Breakpoint{
		{X: 400, Y: 400},
		{X: 500, Y: 500}, // straddles rush start at 450
	}}
	wide := SeedWide(arrival)

	e := constantEdge(50, 10, 2, 0) // wide outside rush, narrow in rush; zero travel time keeps y==x

	newArrival, newWide := ComposeEdge(arrival, wide, e, 8)

	foundSplit := false
	for _, bp := range newArrival.Points {
		if bp.X == 450 {
			foundSplit = true
		}
	}
	assert.True(t, foundSplit, "expected a breakpoint inserted at the rush-hour boundary")

	// Exactly at the breakpoints: wide before the boundary, narrow at and after it.
	assert.Equal(t, 50.0, newWide.Eval(400))
	assert.Equal(t, 0.0, newWide.Eval(450))
	assert.Equal(t, 0.0, newWide.Eval(500))
}

func TestArrivalDepartureRoundTrip(t *testing.T) {
	e := &models.Edge{
		Distance: 10,
		TimeTable: []models.TimeSample{
			{DepartureMin: 0, TravelTime: 5},
			{DepartureMin: 100, TravelTime: 10},
			{DepartureMin: 800, TravelTime: 8},
		},
	}
	e.Finalize()

	for _, tau := range []float64{0, 50, 100, 400, 1000, 1430} {
		arrival := e.ArrivalTime(tau)
		back := e.DepartureTime(arrival)
		assert.InDelta(t, tau, back, 1e-6)
	}
}
