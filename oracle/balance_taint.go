package oracle

import (
	"fmt"

	"github.com/solgraph/solgraph/network"
	"github.com/solgraph/solgraph/variable"
)

var msgValueChain = []variable.Member{variable.GlobalMember("value"), variable.GlobalMember("msg")}

// BalanceTaint finds state variables assigned from msg.value — a balance
// ledger built directly off the incoming payment rather than a value the
// contract computed or validated itself.
type BalanceTaint struct{}

func (BalanceTaint) Analyze(n *network.Network) []Finding {
	var out []Finding
	dict := n.Dict()
	stateIDs := map[uint32]bool{}
	for _, s := range dict.LookupStates(n.EntryID()) {
		stateIDs[s.Node.ID] = true
	}
	// stateIDs stays a plain map here: BalanceTaint only iterates its keys
	// once each, unlike GaslessSend/Ownership's repeated per-vertex
	// membership tests, so a bitset buys nothing.

	for stateID := range stateIDs {
		for _, path := range n.Traverse(stateID) {
			if len(path) == 0 {
				continue
			}
			last := path[len(path)-1]
			if !variable.MembersEqual(last.Var.Members, msgValueChain) {
				continue
			}
			out = append(out, Finding{
				Rule:     "balance-taint",
				Severity: Info,
				VertexID: stateID,
				Message:  fmt.Sprintf("state %d derives from msg.value via node %d", stateID, last.To),
			})
		}
	}
	return out
}
