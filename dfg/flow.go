package dfg

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/variable"
)

// FindLinks computes the data dependency links of g: starting at STOP and
// walking backward along edges, it builds for every vertex an ordered
// sequence of Use/Kill actions (reading declarations, assignments and bare
// variable references out of the vertex's own AST subtree, plus — for a
// DoubleCircle/Mdiamond call-site vertex — its argument subtrees, since
// variable.Parse does not descend into nested call arguments on its own).
// Whenever a Kill is found with an earlier pending Use of a variable it
// Contains, a DataLink is recorded and both entries are dropped from the
// sequence. The backward walk keeps revisiting a vertex's parents until
// its accumulated table stops changing, mirroring the original's
// worklist fixed point.
func FindLinks(g *cfg.CFG) []DataLink {
	type frame struct {
		from, id uint32
		actions  []Action
	}

	parents := map[uint32][]uint32{}
	for e := range g.Edges() {
		parents[e.To] = append(parents[e.To], e.From)
	}

	tables := map[uint32]map[actionKey]Action{}
	for id := range g.Vertices() {
		tables[id] = map[actionKey]Action{}
	}

	links := map[linkKey]DataLink{}
	visited := new(bitset.BitSet)

	var stack []frame
	for _, p := range parents[g.Stop()] {
		stack = append(stack, frame{from: g.Stop(), id: p})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		preTable := tables[top.from]
		curTable := tables[top.id]
		curLen := len(curTable)

		actions := append([]Action{}, top.actions...)
		newActions := newActionsFor(g, top.id)
		actions = append(actions, newActions...)

		for k, v := range preTable {
			curTable[k] = v
		}
		for _, a := range newActions {
			curTable[a.key()] = a
		}

		actions = reduce(actions, curTable, links)

		if len(curTable) != curLen || !visited.Test(uint(top.id)) {
			visited.Set(uint(top.id))
			for _, parent := range parents[top.id] {
				stack = append(stack, frame{from: top.id, id: parent, actions: append([]Action{}, actions...)})
			}
		}
	}
	out := make([]DataLink, 0, len(links))
	for _, l := range links {
		out = append(out, l)
	}
	return out
}

// newActionsFor recovers every Use/Kill at vertex id: declarations,
// assignments and bare variable reads within the vertex's own subtree,
// plus — when the vertex is a call site (DoubleCircle/Mdiamond) — within
// each of the call's own argument subtrees, since Parse treats a whole
// FunctionCall as an opaque leaf and skips it, so every argument (but not
// the callee itself, at children[0]) is the root of its own vertex-sized
// fragment.
func newActionsFor(g *cfg.CFG, id uint32) []Action {
	dict := g.Dict()
	w, ok := dict.Lookup(id)
	if !ok {
		return nil
	}

	splitAts := []uint32{id}
	if v, ok := g.Vertices()[id]; ok && (v.Shape == cfg.DoubleCircle || v.Shape == cfg.Mdiamond) {
		children := w.DirectChilds(nil)
		for i := 1; i < len(children); i++ {
			splitAts = append(splitAts, children[i].Node.ID)
		}
	}

	var out []Action
	for _, sid := range splitAts {
		sw, ok := dict.Lookup(sid)
		if !ok {
			continue
		}
		for _, decl := range variable.FindDeclarations(sw, dict) {
			out = append(out, actionsFromAssignment(decl, id)...)
		}
		for _, asgn := range variable.FindAssignments(sw, dict) {
			out = append(out, actionsFromAssignment(asgn, id)...)
		}
		for _, v := range variable.Parse(sw, dict, map[uint32]bool{}) {
			out = append(out, Action{Kind: Use, Var: v, ID: id})
		}
	}
	return out
}

func actionsFromAssignment(a variable.Assignment, id uint32) []Action {
	var out []Action
	for _, l := range a.LHS {
		out = append(out, Action{Kind: Kill, Var: l, ID: id})
		if a.Op == variable.OpOther {
			out = append(out, Action{Kind: Use, Var: l, ID: id})
		}
	}
	for _, r := range a.RHS {
		out = append(out, Action{Kind: Use, Var: r, ID: id})
	}
	return out
}

// reduce mirrors the inner loop in the original: repeatedly find the
// earliest pending Kill in actions, strike every earlier Use it Contains
// (Equal or Partial) by emitting a DataLink from that use's vertex to the
// kill's vertex, and drop both the struck uses and the kill itself from
// the sequence. Stops once no Kill remains.
func reduce(actions []Action, curTable map[actionKey]Action, links map[linkKey]DataLink) []Action {
	for {
		pos := -1
		for i, a := range actions {
			if a.Kind == Kill {
				pos = i
				break
			}
		}
		if pos == -1 {
			return actions
		}
		killAction := actions[pos]

		kept := make([]Action, 0, len(actions))
		for i, a := range actions {
			switch {
			case i < pos:
				if a.Kind != Use {
					kept = append(kept, a)
					continue
				}
				cmp := killAction.Var.Contains(a.Var)
				switch cmp {
				case variable.Equal:
					dl := DataLink{From: a.ID, To: killAction.ID, Var: a.Var}
					links[dl.key()] = dl
					delete(curTable, a.key())
				case variable.Partial:
					linkVar := a.Var
					if len(killAction.Var.Members) > len(a.Var.Members) {
						linkVar = killAction.Var
					}
					dl := DataLink{From: a.ID, To: killAction.ID, Var: linkVar}
					links[dl.key()] = dl
					delete(curTable, a.key())
				default:
					kept = append(kept, a)
				}
			case i > pos:
				kept = append(kept, a)
			default:
				delete(curTable, a.key())
			}
		}
		actions = kept
	}
}
