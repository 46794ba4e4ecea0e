package oracle

import (
	"fmt"

	"github.com/solgraph/solgraph/dfg"
	"github.com/solgraph/solgraph/network"
	"github.com/solgraph/solgraph/variable"
)

var (
	blockTimestampChain = []variable.Member{variable.GlobalMember("timestamp"), variable.GlobalMember("block")}
	blockNumberChain    = []variable.Member{variable.GlobalMember("number"), variable.GlobalMember("block")}
	nowChain            = []variable.Member{variable.GlobalMember("now")}
)

// BlockDependent flags a sending call (send/transfer/call/selfdestruct/...)
// guarded by a branch whose own condition reads block.timestamp,
// block.number or now — a miner can nudge those within a tolerance, so
// gating a payout or a kill-switch on them is unsafe.
type BlockDependent struct{}

func (BlockDependent) Analyze(n *network.Network) []Finding {
	var out []Finding
	dict := n.Dict()

	for fnID, g := range n.Graphs() {
		for _, path := range g.CFG.ExecutionPaths() {
			sendIdx := lastSendingCall(dict, path)
			if sendIdx < 0 {
				continue
			}
			for i := 0; i < sendIdx; i++ {
				id := path[i]
				if outdegree(n.Graphs(), id) < 2 {
					continue
				}
				if blockDependentCondition(g, id) {
					out = append(out, Finding{
						Rule:       "block-dependent",
						Severity:   Warning,
						FunctionID: fnID,
						VertexID:   path[sendIdx],
						Message:    fmt.Sprintf("send at node %d is guarded by a condition at node %d that reads block state", path[sendIdx], id),
					})
				}
			}
		}
	}
	return out
}

func blockDependentCondition(g *dfg.Graph, id uint32) bool {
	for _, v := range varsAt(g, id) {
		if variable.MembersEqual(v.Members, blockTimestampChain) ||
			variable.MembersEqual(v.Members, blockNumberChain) ||
			variable.MembersEqual(v.Members, nowChain) {
			return true
		}
	}
	return false
}
