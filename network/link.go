// Package network assembles the per-function data flow graphs of a
// contract into one call graph: external links connect a call site to the
// function it invokes (parameters in, return value out, or a built-in/event
// call with no callee body), and Traverse walks that graph end to end,
// keeping a call stack so a return value only flows back to the call site
// that produced it.
package network

import (
	"github.com/solgraph/solgraph/variable"
)

// Label classifies how a DataLink crosses a function boundary.
type Label int

const (
	// Internal is a same-function data dependency, copied in verbatim
	// from a function's own DFG.
	Internal Label = iota
	// InFrom marks a return-value link: it runs from the call site (From)
	// to the callee's return statement (To) whose value the call reads,
	// tagged with the call site CallID.
	InFrom
	// OutTo marks a parameter-passing link: it runs from the callee's
	// declared parameter (From) to the argument expression (To) that
	// defines it, tagged with the call site CallID it was passed through.
	OutTo
	// BuiltIn marks a call to a function with no resolvable declaration
	// (an event, a library builtin) — data flows from the call site
	// straight to its own argument expressions.
	BuiltIn
	// Executor marks the link from a call site to its callee expression,
	// the call's first child: a member access such as `this.f` or `c.f`,
	// or the bare identifier of a plain function call.
	Executor
)

func (l Label) String() string {
	switch l {
	case Internal:
		return "internal"
	case InFrom:
		return "in-from"
	case OutTo:
		return "out-to"
	case BuiltIn:
		return "builtin"
	case Executor:
		return "executor"
	default:
		return "unknown"
	}
}

// DataLink is a data dependency edge in the network: within one function
// it is exactly a dfg.DataLink (Label == Internal); across a function
// boundary it additionally carries the id of the call site (CallID) that
// produced it, needed to keep Traverse's call stack balanced.
type DataLink struct {
	From, To uint32
	Var      variable.Variable
	Label    Label
	CallID   uint32
}

type linkKey struct {
	from, to, callID uint32
	label            Label
	varKey           uint64
}

func (l DataLink) key() linkKey {
	return linkKey{from: l.From, to: l.To, callID: l.CallID, label: l.Label, varKey: l.Var.CacheKey()}
}
