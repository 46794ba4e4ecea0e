package network

import (
	"golang.org/x/sync/errgroup"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/dfg"
	"github.com/solgraph/solgraph/log"
	"github.com/solgraph/solgraph/variable"
)

// Network is the call graph of one contract: a data flow graph per
// function, stitched together with the call-site links that cross a
// function boundary.
type Network struct {
	dict    *ast.Dictionary
	entryID uint32
	links   map[linkKey]DataLink
	graphs  map[uint32]*dfg.Graph
}

// New builds the Network rooted at entryID (a contract id, or — if it
// declares no functions of its own — the function id directly). Building
// one function's CFG/DFG is independent of every other, so they run
// concurrently; a single function's unsupported construct degrades to a
// log entry rather than aborting the whole contract.
func New(dict *ast.Dictionary, entryID uint32) (*Network, *log.Log, error) {
	n := &Network{
		dict:    dict,
		entryID: entryID,
		links:   map[linkKey]DataLink{},
		graphs:  map[uint32]*dfg.Graph{},
	}
	l := log.New()

	if err := n.buildGraphs(l); err != nil {
		return nil, l, err
	}
	n.findExternalLinks()
	return n, l, nil
}

// Links returns every data dependency link in the network, internal
// (same-function) and external (crossing a call site) alike.
func (n *Network) Links() []DataLink {
	out := make([]DataLink, 0, len(n.links))
	for _, l := range n.links {
		out = append(out, l)
	}
	return out
}

// Graphs returns the per-function data flow graph, keyed by function id.
func (n *Network) Graphs() map[uint32]*dfg.Graph {
	return n.graphs
}

// Dict returns the dictionary the network was built from.
func (n *Network) Dict() *ast.Dictionary {
	return n.dict
}

// EntryID returns the contract (or bare function) id the network was
// built from.
func (n *Network) EntryID() uint32 {
	return n.entryID
}

func (n *Network) addLink(l DataLink) {
	n.links[l.key()] = l
}

func (n *Network) buildGraphs(l *log.Log) error {
	functions := n.dict.LookupFunctions(n.entryID)
	ids := make([]uint32, 0, len(functions))
	for _, w := range functions {
		ids = append(ids, w.Node.ID)
	}
	if len(ids) == 0 {
		ids = []uint32{n.entryID}
	}

	type result struct {
		id    uint32
		graph *dfg.Graph
		log   *log.Log
		err   error
	}
	results := make([]result, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			c, fl, err := cfg.New(n.dict, n.entryID, id)
			if err != nil {
				results[i] = result{id: id, log: fl, err: err}
				return nil
			}
			results[i] = result{id: id, graph: dfg.New(c), log: fl}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		l.Merge(r.log)
		if r.graph == nil {
			continue
		}
		n.graphs[r.id] = r.graph
		for _, dl := range r.graph.Links {
			n.addLink(DataLink{From: dl.From, To: dl.To, Var: dl.Var, Label: Internal})
		}
	}
	return nil
}

// findExternalLinks walks every call site reachable from the entry point
// and links it to whatever it calls: a user-defined function's parameters
// and return value, or — for an event, a library builtin, or anything
// else with no resolvable declaration — the call's own arguments.
func (n *Network) findExternalLinks() {
	for _, w := range n.dict.LookupFunctionCalls(n.entryID) {
		fcSource := w.Node.Source
		fcID := w.Node.ID

		callees := w.DirectChilds(nil)
		if len(callees) == 0 {
			continue
		}
		callee := callees[0]

		reference, ok := resolveCallee(n.dict, callee)
		if ok {
			n.linkUserDefinedCall(fcID, fcSource, callee, reference)
		} else {
			n.linkBuiltinCall(fcID, fcSource, callee)
		}

		members := []variable.Member{variable.RefMember(callee.Node.ID)}
		v := variable.New(members, callee.Node.Source)
		n.addLink(DataLink{From: fcID, To: callee.Node.ID, Var: v, Label: Executor})
	}
}

// resolveCallee finds the FunctionDefinition a call's callee expression
// resolves to: a `new Foo(...)` constructor call resolves through Foo's
// constructor, anything else through its own referencedDeclaration
// attribute, filtered down to declarations that are actually callable
// (not an event, struct, contract, state variable or enum reference).
func resolveCallee(dict *ast.Dictionary, callee ast.Walker) (uint32, bool) {
	if callee.Node.Name == "NewExpression" {
		children := callee.DirectChilds(nil)
		if len(children) == 0 {
			return 0, false
		}
		contractID, ok := children[0].Node.AttrUint32("referencedDeclaration")
		if !ok {
			return 0, false
		}
		ctor, ok := dict.LookupConstructor(contractID)
		if !ok {
			return 0, false
		}
		return ctor.Node.ID, true
	}

	refID, ok := callee.Node.AttrUint32("referencedDeclaration")
	if !ok {
		return 0, false
	}
	target, ok := dict.Lookup(refID)
	if !ok {
		return 0, false
	}
	switch target.Node.Name {
	case "EventDefinition", "StructDefinition", "ContractDefinition", "VariableDeclaration", "EnumDefinition":
		return 0, false
	default:
		return refID, true
	}
}

func (n *Network) linkUserDefinedCall(fcID uint32, fcSource string, callee ast.Walker, reference uint32) {
	for _, ret := range n.dict.LookupReturns(reference) {
		members := []variable.Member{variable.RefMember(ret.Node.ID)}
		v := variable.New(members, fcSource)
		n.addLink(DataLink{From: fcID, To: ret.Node.ID, Var: v, Label: InFrom, CallID: fcID})
	}

	defined := n.dict.LookupParameters(reference, ast.FunctionID)
	invoked := n.dict.LookupParameters(fcID, ast.FunctionCallID)
	// A library call invoked as `x.f(y)` desugars to `f(x, y)`: the callee
	// expression itself stands in for the first declared parameter.
	if len(invoked) < len(defined) {
		invoked = append([]ast.Walker{callee}, invoked...)
	}
	for i := 0; i < len(invoked) && i < len(defined); i++ {
		members := []variable.Member{variable.RefMember(invoked[i].Node.ID)}
		v := variable.New(members, defined[i].Node.Source)
		n.addLink(DataLink{From: defined[i].Node.ID, To: invoked[i].Node.ID, Var: v, Label: OutTo, CallID: fcID})
	}
}

func (n *Network) linkBuiltinCall(fcID uint32, _ string, _ ast.Walker) {
	for _, arg := range n.dict.LookupParameters(fcID, ast.FunctionCallID) {
		members := []variable.Member{variable.RefMember(arg.Node.ID)}
		v := variable.New(members, arg.Node.Source)
		n.addLink(DataLink{From: fcID, To: arg.Node.ID, Var: v, Label: BuiltIn})
	}
}
