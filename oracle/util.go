package oracle

import (
	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/dfg"
	"github.com/solgraph/solgraph/variable"
)

var sendingMethods = []variable.Member{
	variable.GlobalMember("send"),
	variable.GlobalMember("transfer"),
	variable.GlobalMember("call"),
	variable.GlobalMember("callcode"),
	variable.GlobalMember("delegatecall"),
	variable.GlobalMember("selfdestruct"),
	variable.GlobalMember("suicide"),
}

func isSendingMember(m variable.Member) bool {
	for _, s := range sendingMethods {
		if m.Equal(s) {
			return true
		}
	}
	return false
}

// outdegree counts a vertex's outgoing edges across every function graph
// in the network — a vertex with two or more is a branch point.
func outdegree(graphs map[uint32]*dfg.Graph, from uint32) int {
	n := 0
	for _, g := range graphs {
		for e := range g.CFG.Edges() {
			if e.From == from {
				n++
			}
		}
	}
	return n
}

// sendingCallee returns the member chain of a FunctionCall's callee
// expression — the thing actually being invoked (a bare `selfdestruct`
// or a `.send`/`.transfer`/`.call` receiver chain) — read directly from
// the AST. The DFG's own action set only covers a call's argument
// subtrees (variable.Parse refuses to describe a FunctionCall node
// itself), so the callee's identity has to come from the call's first
// child, not from g.Actions.
func sendingCallee(dict *ast.Dictionary, callID uint32) variable.Variable {
	w, ok := dict.Lookup(callID)
	if !ok || w.Node.Name != "FunctionCall" {
		return variable.Variable{}
	}
	children := w.DirectChilds(nil)
	if len(children) == 0 {
		return variable.Variable{}
	}
	vars := variable.Parse(children[0], dict, map[uint32]bool{})
	if len(vars) == 0 {
		return variable.Variable{}
	}
	return vars[0]
}

// lastSendingCall walks an execution path backward from its end and
// returns the index of the last vertex that is a FunctionCall using one
// of the sending methods, or -1 if none.
func lastSendingCall(dict *ast.Dictionary, path []uint32) int {
	for i := len(path) - 1; i > 0; i-- {
		id := path[i]
		w, ok := dict.Lookup(id)
		if !ok || w.Node.Name != "FunctionCall" {
			continue
		}
		v := sendingCallee(dict, id)
		if len(v.Members) == 0 {
			continue
		}
		if isSendingMember(v.Members[0]) {
			return i
		}
	}
	return -1
}

// varsAt returns every variable Used or Killed at a vertex.
func varsAt(g *dfg.Graph, id uint32) []variable.Variable {
	var out []variable.Variable
	for _, a := range g.Actions[id] {
		out = append(out, a.Var)
	}
	return out
}
