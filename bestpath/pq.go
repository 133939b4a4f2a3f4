package bestpath

import "github.com/katalvlaran/hypergraph/core"

// stateItem is a state and the cost it was queued with.
type stateItem struct {
	id   core.StateID
	cost float64
}

// statePQ is a min-heap of stateItem ordered by cost, then by state id so that pops
// are deterministic. Improvements push a new entry; stale entries are skipped when
// popped.
type statePQ []stateItem

func (pq statePQ) Len() int { return len(pq) }

func (pq statePQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].id < pq[j].id
}

func (pq statePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *statePQ) Push(x interface{}) { *pq = append(*pq, x.(stateItem)) }

func (pq *statePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
