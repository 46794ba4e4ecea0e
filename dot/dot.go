// Package dot renders a CFG and its data flow links as Graphviz DOT source
// for visualization — the one consumer-facing boundary spec.md leaves
// external to the analysis engine itself.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/network"
)

// Render emits digraph source for one function's CFG: its vertices and its
// solid control-flow edges only; no data flow links are drawn. Vertex and
// edge order is sorted by id so the output is stable across runs.
func Render(c *cfg.CFG) string {
	return render(c.Vertices(), c.Edges(), nil)
}

// RenderNetwork emits digraph source for every function graph in n, with
// n's external (cross-call) links included alongside each function's own
// internal ones.
func RenderNetwork(n *network.Network) string {
	vertices := map[uint32]cfg.Vertex{}
	edges := map[cfg.Edge]bool{}
	for _, g := range n.Graphs() {
		for id, v := range g.CFG.Vertices() {
			vertices[id] = v
		}
		for e := range g.CFG.Edges() {
			edges[e] = true
		}
	}
	return render(vertices, edges, n.Links())
}

func render(vertices map[uint32]cfg.Vertex, edges map[cfg.Edge]bool, links []network.DataLink) string {
	var edgeLines, vertexLines, linkLines []string

	edgeList := make([]cfg.Edge, 0, len(edges))
	for e := range edges {
		edgeList = append(edgeList, e)
	}
	sort.Slice(edgeList, func(i, j int) bool {
		if edgeList[i].From != edgeList[j].From {
			return edgeList[i].From < edgeList[j].From
		}
		return edgeList[i].To < edgeList[j].To
	})
	for _, e := range edgeList {
		edgeLines = append(edgeLines, fmt.Sprintf("  %d -> %d;", e.From, e.To))
	}

	ids := make([]uint32, 0, len(vertices))
	for id := range vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		v := vertices[id]
		vertexLines = append(vertexLines, fmt.Sprintf("  %d[label=%q, shape=%q];", v.ID, v.Source, v.Shape.String()))
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].From != links[j].From {
			return links[i].From < links[j].From
		}
		return links[i].To < links[j].To
	})
	for _, l := range links {
		linkLines = append(linkLines, fmt.Sprintf("  %d -> %d[label=%q, style=dotted];", l.From, l.To, l.Var.Source))
	}

	var buf strings.Builder
	buf.WriteString("digraph {\n")
	buf.WriteString(strings.Join(edgeLines, "\n"))
	buf.WriteString("\n")
	buf.WriteString(strings.Join(vertexLines, "\n"))
	buf.WriteString("\n")
	buf.WriteString(strings.Join(linkLines, "\n"))
	buf.WriteString("\n}")
	return buf.String()
}
