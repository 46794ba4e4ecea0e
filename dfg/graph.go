package dfg

import "github.com/solgraph/solgraph/cfg"

// Graph bundles one function's CFG with the data dependency links and
// alias table derived from it, the unit network.Network assembles one of
// per function before stitching them together with call-site links.
type Graph struct {
	CFG   *cfg.CFG
	Alias *Alias
	Links []DataLink
	// Actions holds, per vertex, the Use/Kill sequence generated from
	// that vertex's own AST subtree (before FindLinks' backward reduction
	// strikes any of it) — what an oracle needs to ask "is msg.sender
	// used here" or "what does this vertex assign" without re-deriving
	// the whole data flow graph.
	Actions map[uint32][]Action
}

// New builds the data flow graph of a single function's CFG.
func New(g *cfg.CFG) *Graph {
	actions := make(map[uint32][]Action, len(g.Vertices()))
	for id := range g.Vertices() {
		actions[id] = newActionsFor(g, id)
	}
	return &Graph{
		CFG:     g,
		Alias:   NewAlias(g),
		Links:   FindLinks(g),
		Actions: actions,
	}
}
