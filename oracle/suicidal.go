package oracle

import (
	"fmt"

	"github.com/solgraph/solgraph/network"
	"github.com/solgraph/solgraph/variable"
)

// Suicidal flags a selfdestruct/suicide call reachable along an execution
// path with no branch point before it — an unconditional kill-switch any
// caller can trigger.
type Suicidal struct{}

func (Suicidal) Analyze(n *network.Network) []Finding {
	var out []Finding
	dict := n.Dict()

	for fnID, g := range n.Graphs() {
		for _, path := range g.CFG.ExecutionPaths() {
			idx := len(path) - 1
			for idx > 0 {
				id := path[idx]
				w, ok := dict.Lookup(id)
				if !ok || w.Node.Name != "FunctionCall" {
					idx--
					continue
				}
				v := sendingCallee(dict, id)
				if len(v.Members) == 0 {
					idx--
					continue
				}
				head := v.Members[0]
				killSwitch := head.Equal(variable.GlobalMember("suicide")) || head.Equal(variable.GlobalMember("selfdestruct"))
				if !killSwitch {
					idx--
					continue
				}
				hasCondition := false
				for i := 0; i < idx; i++ {
					if outdegree(n.Graphs(), path[i]) >= 2 {
						hasCondition = true
						break
					}
				}
				if !hasCondition {
					out = append(out, Finding{
						Rule:       "suicidal",
						Severity:   Critical,
						FunctionID: fnID,
						VertexID:   id,
						Message:    fmt.Sprintf("selfdestruct/suicide at node %d is reachable with no preceding condition", id),
					})
				}
				break
			}
		}
	}
	return out
}
