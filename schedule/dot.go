package schedule

import (
	"fmt"

	"github.com/emicklei/dot"
)

// DOT renders the evaluated schedule as one chain of nodes per processor,
// with the critical path marked. Useful for eyeballing small plans.
func (s *Schedule) DOT() *dot.Graph {
	s.Evaluate()
	start, finish := s.Timeline()

	onPath := make(map[int]bool)
	for _, t := range s.CriticalPath() {
		onPath[t] = true
	}

	g := dot.NewGraph(dot.Directed)
	lanes := make([]*dot.Graph, s.dag.NumProcessors)
	for p := range lanes {
		lanes[p] = g.Subgraph(fmt.Sprintf("P%d", p), dot.ClusterOption{})
	}

	nodes := make([]dot.Node, s.dag.NumTasks)
	prev := make([]int, s.dag.NumProcessors)
	for p := range prev {
		prev[p] = -1
	}
	for _, t := range s.Order {
		p := s.Assignment[t]
		n := lanes[p].Node(fmt.Sprintf("t%d", t)).
			Label(fmt.Sprintf("%d\n[%.1f, %.1f)", t, start[t], finish[t]))
		if onPath[t] {
			n.Attr("style", "bold")
		}
		nodes[t] = n
		if prev[p] != -1 {
			g.Edge(nodes[prev[p]], n).Attr("style", "dashed")
		}
		prev[p] = t
	}
	return g
}
