package dashboard

import (
	"strconv"

	"github.com/qil-lattice/votboard/internal/core"
)

// Graph node classes.
const (
	NodeOK   = "ok"
	NodeOpen = "open"
)

// Graph is the element set handed to the browser-side force layout.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is one day.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Class string `json:"class"`
}

// GraphEdge is one dependency as supplied by the edge table.
type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NodeID returns the element id of a day.
func NodeID(day int) string {
	return "n" + strconv.Itoa(day)
}

// BuildGraph always emits one node per day, whatever the filter. A node is ok
// when the last run given for its day is done. Edges are copied verbatim, even
// when they point outside the day range.
func BuildGraph(edges []core.Edge, runs []core.Run) Graph {
	last := make(map[int]bool, len(runs))
	for _, r := range runs {
		last[r.Day] = r.Done()
	}

	g := Graph{
		Nodes: make([]GraphNode, core.TotalDays),
		Edges: make([]GraphEdge, 0, len(edges)),
	}
	for i := range g.Nodes {
		day := i + 1
		class := NodeOpen
		if last[day] {
			class = NodeOK
		}
		g.Nodes[i] = GraphNode{ID: NodeID(day), Label: strconv.Itoa(day), Class: class}
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, GraphEdge{
			ID:     "e" + strconv.Itoa(e.Src) + "_" + strconv.Itoa(e.Dst),
			Source: NodeID(e.Src),
			Target: NodeID(e.Dst),
		})
	}
	return g
}
