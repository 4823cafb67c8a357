package graph

import "math"

// RightTurnMinDegrees and RightTurnMaxDegrees bound the bearing-delta
// range classified as a right turn, fixed identically for the labeling
// search and the fallback fastest-path (SPEC_FULL.md §9).
const (
	RightTurnMinDegrees = 30.0
	RightTurnMaxDegrees = 150.0
)

// Bearing returns the initial compass bearing in degrees [0, 360) from
// (lat1, lon1) to (lat2, lon2). Grounded on the teacher's
// internal/routing/astar.go haversine-style great-circle math.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	theta := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(theta+360, 360)
}

// TurnDelta returns the signed difference, in degrees within (-180, 180],
// between an incoming bearing and an outgoing bearing.
func TurnDelta(incoming, outgoing float64) float64 {
	d := math.Mod(outgoing-incoming+540, 360) - 180
	if d <= -180 {
		d += 360
	}
	return d
}

// IsRightTurn reports whether traveling prev->cur->next requires a right
// turn at cur, using the node coordinates in g. A turn counts when the
// absolute bearing delta falls within [RightTurnMinDegrees,
// RightTurnMaxDegrees] and the turn is clockwise (positive delta).
func (g *Graph) IsRightTurn(prevID, curID, nextID int64) bool {
	prev, ok1 := g.Node(prevID)
	cur, ok2 := g.Node(curID)
	next, ok3 := g.Node(nextID)
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	incoming := Bearing(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
	outgoing := Bearing(cur.Lat, cur.Lon, next.Lat, next.Lon)
	delta := TurnDelta(incoming, outgoing)
	return delta >= RightTurnMinDegrees && delta <= RightTurnMaxDegrees
}
