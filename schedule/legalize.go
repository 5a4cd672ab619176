package schedule

import (
	"container/heap"

	"dagsched/graph"
)

// orderQueue pops the ready task that appears earliest in the desired
// order. Lower task id wins ties so legalization is deterministic.
type orderItem struct {
	taskID   int
	priority int
}

type orderQueue []orderItem

func (pq orderQueue) Len() int { return len(pq) }

func (pq orderQueue) Less(i, j int) bool {
	if pq[i].priority == pq[j].priority {
		return pq[i].taskID < pq[j].taskID
	}
	return pq[i].priority < pq[j].priority
}

func (pq orderQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *orderQueue) Push(x interface{}) {
	*pq = append(*pq, x.(orderItem))
}

func (pq *orderQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	x := old[n-1]
	*pq = old[0 : n-1]
	return x
}

// Legalize turns desired into a topological order of d, using each task's
// position in desired as the priority tie-break of Kahn's algorithm. A
// desired order that already is topological comes back unchanged.
func Legalize(d *graph.DAG, desired []int) []int {
	position := make([]int, d.NumTasks)
	for pos, t := range desired {
		position[t] = pos
	}

	inDegree := make([]int, d.NumTasks)
	pq := make(orderQueue, 0, d.NumTasks)
	for _, t := range d.Tasks {
		inDegree[t.ID] = len(t.Predecessors)
		if inDegree[t.ID] == 0 {
			pq = append(pq, orderItem{taskID: t.ID, priority: position[t.ID]})
		}
	}
	heap.Init(&pq)

	legal := make([]int, 0, d.NumTasks)
	for pq.Len() > 0 {
		t := heap.Pop(&pq).(orderItem).taskID
		legal = append(legal, t)
		for _, succ := range d.Tasks[t].Successors {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				heap.Push(&pq, orderItem{taskID: succ, priority: position[succ]})
			}
		}
	}
	return legal
}
