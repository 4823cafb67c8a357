package search

import (
	"container/heap"
	"context"

	"github.com/citypath/corridor/internal/graph"
)

// frontierItem is one pending expansion. Priority follows distilled spec
// §4.4: primary key is the label's current wide-road percentage (higher
// explored first, since it is the quantity being optimized for), with
// travel-time-so-far as the tie-break (earlier expansions first). The
// opposite-direction h-value based "proves it cannot beat the current
// worst" pruning described in §4.4 is folded into the bounded store's own
// TryInsert eviction test rather than duplicated at push time — any
// candidate that cannot out-rank the store's current worst is simply
// rejected on arrival instead of being pre-filtered, which preserves the
// same asymptotic termination guarantee with a simpler frontier.
type frontierItem struct {
	label *Label
	idx   int
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	si, sj := f[i].label.WideRoadPercentage(), f[j].label.WideRoadPercentage()
	if si != sj {
		return si > sj
	}
	return travelSoFar(f[i].label) < travelSoFar(f[j].label)
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i]; f[i].idx = i; f[j].idx = j }
func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.idx = len(*f)
	*f = append(*f, item)
}
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

func travelSoFar(l *Label) float64 {
	if len(l.Arrival.Points) == 0 {
		return 0
	}
	return l.Arrival.Points[0].Y - l.Arrival.Points[0].X
}

// Params bundles the per-task inputs to Run.
type Params struct {
	G             *graph.Graph
	Dir           Direction
	Root          *Label
	BudgetHalf    float64
	WideThreshold float64
	Shared        *SharedState
}

// Run executes one direction's best-first labeling search (C5) until the
// frontier empties or ctx is canceled (the driver's per-task deadline).
// Cancellation is cooperative: the loop checks ctx at every pop and
// returns immediately, leaving whatever was already written into Shared
// intact and usable by the join stage (distilled spec §4.4/§5).
func Run(ctx context.Context, p Params) {
	fr := &frontier{{label: p.Root}}
	heap.Init(fr)
	p.Shared.Insert(p.Dir, p.Root)

	neighbors := p.G.ForwardNeighbors
	if p.Dir == Backward {
		neighbors = p.G.BackwardNeighbors
	}

	for fr.Len() > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item := heap.Pop(fr).(*frontierItem)
		l := item.label

		for _, nb := range neighbors(l.Node) {
			candidate := Relax(l, nb.Node, nb.Via, p.WideThreshold, func(prev, cur, next int64) bool {
				return p.G.IsRightTurn(prev, cur, next)
			})

			if travelSoFar(candidate) > p.BudgetHalf {
				continue
			}

			if p.Shared.Insert(p.Dir, candidate) {
				heap.Push(fr, &frontierItem{label: candidate})
			}
		}
	}
}
