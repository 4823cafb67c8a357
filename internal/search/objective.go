package search

import (
	"sort"

	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

// Tolerances for Pareto-duplicate elimination (distilled spec §3): small
// enough that two results differing only by floating-point noise collapse
// into one.
const (
	scoreTolerancePercent = 0.001
	distanceTolerance     = 0.01
	timeTolerance         = 0.01
)

// dominates reports whether a dominates b under the §3 relation: at
// least as good in both dimensions, strictly better in one.
func dominates(a, b *models.Result) bool {
	scoreGE := a.Score >= b.Score-scoreTolerancePercent
	turnsLE := a.RightTurns <= b.RightTurns
	strictlyBetter := a.Score > b.Score+scoreTolerancePercent || a.RightTurns < b.RightTurns
	return scoreGE && turnsLE && strictlyBetter
}

// nearDuplicate reports whether a and b are the same result within the
// §3 tolerances, used to deduplicate the Pareto set.
func nearDuplicate(a, b *models.Result) bool {
	scoreClose := absf(a.Score-b.Score) <= scoreTolerancePercent
	distClose := absf(a.PathDistance-b.PathDistance) <= distanceTolerance
	timeClose := absf(a.TravelTime-b.TravelTime) <= timeTolerance
	return scoreClose && distClose && timeClose && a.RightTurns == b.RightTurns
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// filterNonDominated reduces results to their Pareto frontier, grounded
// on other_examples' PathParetoArchive.filterNonDominated.
func filterNonDominated(results []*models.Result) []*models.Result {
	var frontier []*models.Result
	for _, r := range results {
		dominated := false
		for _, other := range results {
			if other == r {
				continue
			}
			if dominates(other, r) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		duplicate := false
		for _, kept := range frontier {
			if nearDuplicate(kept, r) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			frontier = append(frontier, r)
		}
	}
	return frontier
}

// reduce applies the selected objective over every raw candidate
// (distilled spec §4.6 step 2), returning one primary Result — with a
// Pareto attachment for WIDENESS_AND_TURNS.
func reduce(g *graph.Graph, candidates []candidate, mode models.Objective, wideThreshold float64) *models.Result {
	results := make([]*models.Result, len(candidates))
	for i, c := range candidates {
		results[i] = summarize(g, c, wideThreshold)
	}

	switch mode {
	case models.ObjectiveMinTurnsOnly:
		best := results[0]
		for _, r := range results[1:] {
			if r.RightTurns < best.RightTurns {
				best = r
			}
		}
		return best

	case models.ObjectiveWidenessAndTurns:
		frontier := filterNonDominated(results)
		sort.Slice(frontier, func(i, j int) bool {
			a, b := frontier[i], frontier[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.RightTurns != b.RightTurns {
				return a.RightTurns < b.RightTurns
			}
			if a.PathDistance != b.PathDistance {
				return a.PathDistance < b.PathDistance
			}
			return a.TravelTime < b.TravelTime
		})
		primary := frontier[0]
		primary.ParetoPaths = frontier
		return primary

	default: // ObjectiveWidenessOnly
		best := results[0]
		for _, r := range results[1:] {
			if r.Score > best.Score {
				best = r
			}
		}
		return best
	}
}
