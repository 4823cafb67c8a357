// Package plf implements the piecewise-linear function algebra (C2): the
// arrival-time profile τ_out(τ_in) and the accumulated wide-distance
// profile W(τ_in) carried by every Label, their composition across an
// edge relaxation, and evaluation.
//
// The distilled spec describes the source implementation's profile as an
// ordered sequence of breakpoints with a "next function" link used to
// encode discontinuities at rush-hour boundaries. Per SPEC_FULL.md §9 this
// is replaced by a single ordered, strictly-increasing breakpoint slice
// carried by value — every discontinuity the source would have pushed into
// a linked "next" segment is instead materialized as an explicit inserted
// breakpoint, so evaluation never has to descend a chain.
package plf

import (
	"sort"

	"github.com/citypath/corridor/internal/models"
)

// Profile is one piecewise-linear function: Kind tags whether Y is an
// arrival time or an accumulated wide-distance, and Points is strictly
// increasing in X.
type Profile struct {
	Kind   models.ProfileKind
	Points []models.Breakpoint
}

// Clone returns a deep copy so a Label's profile chain is never aliased
// across two Labels (distilled spec §3: "each Label exclusively owns its
// arrival-profile and wide-profile chain").
func (p *Profile) Clone() *Profile {
	cp := &Profile{Kind: p.Kind, Points: make([]models.Breakpoint, len(p.Points))}
	copy(cp.Points, p.Points)
	return cp
}

// Seed builds the initial arrival profile for a root label: the identity
// function x -> x sampled at tau0, tau1, and every rush-hour boundary that
// falls inside [tau0, tau1], plus intervalDuration-spaced samples in
// between. Matches distilled spec §4.8's requirement that "the first
// breakpoint spacing reflects width transitions."
func Seed(tau0, tau1, intervalDuration float64) *Profile {
	if tau1 < tau0 {
		tau0, tau1 = tau1, tau0
	}
	xs := map[float64]bool{tau0: true, tau1: true}
	for _, w := range models.ActiveRushWindows {
		for _, b := range []float64{w.Start, w.End} {
			if b >= tau0 && b <= tau1 {
				xs[b] = true
			}
		}
	}
	if intervalDuration > 0 {
		for x := tau0; x < tau1; x += intervalDuration {
			xs[x] = true
		}
	}
	sorted := make([]float64, 0, len(xs))
	for x := range xs {
		sorted = append(sorted, x)
	}
	sort.Float64s(sorted)

	pts := make([]models.Breakpoint, len(sorted))
	for i, x := range sorted {
		pts[i] = models.Breakpoint{X: x, Y: x}
	}
	return &Profile{Kind: models.KindArrival, Points: pts}
}

// SeedWide builds the zero wide-distance profile sharing the arrival
// profile's departure samples.
func SeedWide(arrival *Profile) *Profile {
	pts := make([]models.Breakpoint, len(arrival.Points))
	for i, bp := range arrival.Points {
		pts[i] = models.Breakpoint{X: bp.X, Y: 0}
	}
	return &Profile{Kind: models.KindWide, Points: pts}
}

// Eval interpolates the profile at x, clamping to the boundary value if x
// falls outside the profile's domain.
func (p *Profile) Eval(x float64) float64 {
	n := len(p.Points)
	if n == 0 {
		return 0
	}
	if x <= p.Points[0].X {
		return p.Points[0].Y
	}
	if x >= p.Points[n-1].X {
		return p.Points[n-1].Y
	}
	// sort.Search finds the first index whose X >= x.
	i := sort.Search(n, func(i int) bool { return p.Points[i].X >= x })
	if p.Points[i].X == x {
		return p.Points[i].Y
	}
	a, b := p.Points[i-1], p.Points[i]
	if b.X == a.X {
		return a.Y
	}
	return a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)
}

// criticalArrivalValues returns the y-values (arrival times at the edge's
// source) at which the edge's own behavior changes slope or width state:
// every time-table sample boundary, plus every rush-hour window edge. The
// composition step splits the profile wherever one of these falls strictly
// inside an existing (y_i, y_{i+1}) span, per distilled spec §4.2.
func criticalArrivalValues(e *models.Edge) []float64 {
	vals := make([]float64, 0, len(e.TimeTable)+4)
	for _, s := range e.TimeTable {
		vals = append(vals, s.DepartureMin)
	}
	for _, w := range models.ActiveRushWindows {
		vals = append(vals, w.Start, w.End)
	}
	sort.Float64s(vals)
	return vals
}

// ComposeEdge transforms the (arrival, wide) profile pair across edge e,
// implementing distilled spec §4.2's arrival-profile transformation and
// wide-distance profile update together, splitting breakpoints wherever
// needed so both results remain strictly piecewise linear.
func ComposeEdge(arrival, wide *Profile, e *models.Edge, wideThreshold float64) (*Profile, *Profile) {
	xs, ys := splitBreakpoints(arrival, criticalArrivalValues(e))

	newArrival := make([]models.Breakpoint, len(xs))
	newWide := make([]models.Breakpoint, len(xs))
	oldWide := wide

	for i, x := range xs {
		y := ys[i]
		newArrival[i] = models.Breakpoint{X: x, Y: e.ArrivalTime(y)}

		contribution := 0.0
		if e.Width(y) >= wideThreshold {
			contribution = e.Distance
		}
		newWide[i] = models.Breakpoint{X: x, Y: oldWide.Eval(x) + contribution}
	}

	return &Profile{Kind: models.KindArrival, Points: newArrival},
		&Profile{Kind: models.KindWide, Points: newWide}
}

// splitBreakpoints returns the arrival profile's breakpoints augmented with
// an extra (x,y) pair wherever a critical y-value in `criticals` falls
// strictly inside an existing consecutive span, so every resulting
// sub-interval has a single, well-defined edge behavior.
func splitBreakpoints(p *Profile, criticals []float64) (xs, ys []float64) {
	xs = append(xs, p.Points[0].X)
	ys = append(ys, p.Points[0].Y)

	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		for _, c := range criticals {
			if strictlyBetween(c, a.Y, b.Y) {
				if b.Y == a.Y {
					continue
				}
				frac := (c - a.Y) / (b.Y - a.Y)
				xc := a.X + (b.X-a.X)*frac
				xs = append(xs, xc)
				ys = append(ys, c)
			}
		}
		xs = append(xs, b.X)
		ys = append(ys, b.Y)
	}
	return xs, ys
}

func strictlyBetween(v, a, b float64) bool {
	if a <= b {
		return v > a && v < b
	}
	return v > b && v < a
}
