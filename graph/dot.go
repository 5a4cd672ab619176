package graph

import (
	"fmt"

	"github.com/emicklei/dot"
)

// DOT renders the task graph for inspection. Nodes carry the task id and
// its average computation cost, edges the data volume.
func (d *DAG) DOT() *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	nodes := make([]dot.Node, d.NumTasks)
	for _, t := range d.Tasks {
		n := g.Node(fmt.Sprintf("t%d", t.ID)).
			Label(fmt.Sprintf("%d\n%.1f", t.ID, t.AvgComp()))
		if t.IsEntry() || t.IsExit() {
			n = n.Attr("shape", "doublecircle")
		}
		nodes[t.ID] = n
	}
	for _, t := range d.Tasks {
		for _, succ := range t.Successors {
			edge := g.Edge(nodes[t.ID], nodes[succ])
			if v := t.Volume(succ); v > 0 {
				edge.Label(fmt.Sprintf("%d", v))
			}
		}
	}
	return g
}
