package oracle

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/network"
	"github.com/solgraph/solgraph/variable"
)

// GaslessSend flags a send()/transfer() whose recipient address traces
// back, through the network's call-site links, to a function parameter,
// msg.sender, or any state variable — an address
// the contract doesn't actually verify before paying out.
type GaslessSend struct{}

func (GaslessSend) Analyze(n *network.Network) []Finding {
	var out []Finding
	dict := n.Dict()
	parameterIDs := parameterIDSet(n)
	stateIDs := stateIDSet(n)

	for fnID, g := range n.Graphs() {
		for id := range g.CFG.Vertices() {
			v := sendingCallee(dict, id)
			if len(v.Members) == 0 || !isSendingMember(v.Members[0]) {
				continue
			}
			for _, path := range n.Traverse(id) {
				last := path[len(path)-1]
				if !sendRecipientUnchecked(last.To, parameterIDs, stateIDs, last.Var) {
					continue
				}
				out = append(out, Finding{
					Rule:       "gasless-send",
					Severity:   Warning,
					FunctionID: fnID,
					VertexID:   id,
					Message:    fmt.Sprintf("send/transfer at node %d depends on unchecked input reaching node %d", id, last.To),
				})
			}
		}
	}
	return out
}

func sendRecipientUnchecked(to uint32, parameterIDs, stateIDs *bitset.BitSet, v variable.Variable) bool {
	if parameterIDs.Test(uint(to)) {
		return true
	}
	if variable.MembersEqual(v.Members, []variable.Member{variable.GlobalMember("sender"), variable.GlobalMember("msg")}) {
		return true
	}
	return stateIDs.Test(uint(to))
}

func parameterIDSet(n *network.Network) *bitset.BitSet {
	out := new(bitset.BitSet)
	for _, w := range n.Dict().LookupFunctions(n.EntryID()) {
		for _, p := range n.Dict().LookupParameters(w.Node.ID, ast.FunctionID) {
			out.Set(uint(p.Node.ID))
		}
	}
	return out
}

func stateIDSet(n *network.Network) *bitset.BitSet {
	out := new(bitset.BitSet)
	for _, w := range n.Dict().LookupStates(n.EntryID()) {
		out.Set(uint(w.Node.ID))
	}
	return out
}
