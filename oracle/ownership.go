package oracle

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/solgraph/solgraph/dfg"
	"github.com/solgraph/solgraph/network"
	"github.com/solgraph/solgraph/variable"
)

// Ownership finds state variables of type address assigned in the
// constructor (the common `owner = msg.sender` pattern) and, for every
// later reassignment of that same state elsewhere in the contract with no
// preceding branch on the path to it, reports it as a missing
// access-control guard.
type Ownership struct{}

func (Ownership) Analyze(n *network.Network) []Finding {
	var out []Finding
	dict := n.Dict()

	ownerStateIDs := new(bitset.BitSet)
	for _, s := range dict.LookupStates(n.EntryID()) {
		if s.Node.AttrString("type") == "address" {
			ownerStateIDs.Set(uint(s.Node.ID))
		}
	}
	if ownerStateIDs.None() {
		return nil
	}

	assignedInConstructor := new(bitset.BitSet)
	for fnID, g := range n.Graphs() {
		w, ok := dict.Lookup(fnID)
		if !ok || !w.Node.AttrBool("isConstructor") {
			continue
		}
		for id := range g.CFG.Vertices() {
			for _, a := range g.Actions[id] {
				if a.Kind == dfg.Kill && killsState(a.Var, ownerStateIDs) {
					assignedInConstructor.Set(uint(stateKilled(a.Var)))
				}
			}
		}
	}

	for fnID, g := range n.Graphs() {
		w, ok := dict.Lookup(fnID)
		if ok && w.Node.AttrBool("isConstructor") {
			continue
		}
		for id := range g.CFG.Vertices() {
			for _, a := range g.Actions[id] {
				if a.Kind != dfg.Kill || !killsState(a.Var, assignedInConstructor) {
					continue
				}
				if !hasGuardBefore(n, g, id) {
					out = append(out, Finding{
						Rule:       "ownership",
						Severity:   Critical,
						FunctionID: fnID,
						VertexID:   id,
						Message:    fmt.Sprintf("owner state %d reassigned at node %d with no access-control guard", stateKilled(a.Var), id),
					})
				}
			}
		}
	}
	return out
}

// killsState reports whether v is exactly a reference to one of the given
// state variable ids (a bare `owner = ...` assignment, not a member of a
// struct containing it).
func killsState(v variable.Variable, stateIDs *bitset.BitSet) bool {
	if len(v.Members) != 1 || v.Members[0].Kind != variable.Reference {
		return false
	}
	return stateIDs.Test(uint(v.Members[0].ID))
}

func stateKilled(v variable.Variable) uint32 {
	return v.Members[0].ID
}

func hasGuardBefore(n *network.Network, g *dfg.Graph, id uint32) bool {
	for _, path := range g.CFG.ExecutionPaths() {
		pos := indexOf(path, id)
		if pos < 0 {
			continue
		}
		for i := 0; i < pos; i++ {
			if outdegree(n.Graphs(), path[i]) >= 2 {
				return true
			}
		}
	}
	return false
}

func indexOf(path []uint32, id uint32) int {
	for i, v := range path {
		if v == id {
			return i
		}
	}
	return -1
}
