package ast

import (
	"fmt"

	"github.com/solgraph/solgraph/log"
)

// contractProp holds a contract's own function/state ids plus the ids of
// the contracts it inherits from or uses `using X for Y` on — enough to
// linearize an inheritance chain at lookup time.
type contractProp struct {
	states    []uint32
	functions []uint32
	parents   []uint32
}

// Dictionary indexes every AST node in a compilation unit by id and records
// per-contract metadata, so the rest of solgraph can resolve a
// referencedDeclaration id, enumerate a contract's (possibly inherited)
// functions and state variables, and find a function's return statements
// or nested function calls without re-walking the whole tree each time.
type Dictionary struct {
	entries   map[uint32]Walker
	contracts map[uint32]contractProp
}

// New builds a Dictionary from a combined-json bundle's "sources" map
// (path -> AST RawNode) and the corresponding source texts. A malformed
// src range or unparseable node aborts construction with a FatalError
// logged and a non-nil error returned, per the MalformedInput error kind.
func New(asts map[string]*RawNode, sources map[string]string) (*Dictionary, *log.Log, error) {
	l := log.New()
	d := &Dictionary{
		entries:   make(map[uint32]Walker),
		contracts: make(map[uint32]contractProp),
	}
	for name, raw := range asts {
		source, ok := sources[name]
		if !ok {
			l.Add(log.FatalError, fmt.Sprintf("ast: no source text provided for %q", name))
			return nil, l, fmt.Errorf("ast: missing source for %q", name)
		}
		walker, err := NewWalker(raw, source)
		if err != nil {
			l.Add(log.FatalError, err.Error())
			return nil, l, err
		}
		if err := d.traverse(walker, l); err != nil {
			l.Add(log.FatalError, err.Error())
			return nil, l, err
		}
	}
	return d, l, nil
}

// traverse mirrors the original's Dictionary::traverse: record
// per-contract metadata for ContractDefinition nodes, then recurse into
// every direct child, indexing each by id on the way back up. A child whose
// src range is malformed stops the pass with an error.
func (d *Dictionary) traverse(w Walker, l *log.Log) error {
	if w.Node.Name == "ContractDefinition" {
		var prop contractProp
		for _, child := range w.DirectChilds(nil) {
			switch child.Node.Name {
			case "InheritanceSpecifier", "UsingForDirective":
				grandchildren := child.DirectChilds(nil)
				if len(grandchildren) > 0 {
					if ref, ok := grandchildren[0].Node.AttrUint32("referencedDeclaration"); ok {
						prop.parents = append(prop.parents, ref)
					}
				}
			case "FunctionDefinition", "ModifierDefinition":
				prop.functions = append(prop.functions, child.Node.ID)
			case "VariableDeclaration":
				prop.states = append(prop.states, child.Node.ID)
			}
		}
		d.contracts[w.Node.ID] = prop
	}
	for _, raw := range w.Node.raw.Children {
		child, err := NewWalker(raw, w.source)
		if err != nil {
			return err
		}
		if err := d.traverse(child, l); err != nil {
			return err
		}
		d.entries[child.Node.ID] = child
	}
	return nil
}

// Lookup finds a Walker by node id.
func (d *Dictionary) Lookup(id uint32) (Walker, bool) {
	w, ok := d.entries[id]
	return w, ok
}

// LookupConstructor finds a contract's constructor FunctionDefinition, if
// any.
func (d *Dictionary) LookupConstructor(contractID uint32) (Walker, bool) {
	w, ok := d.Lookup(contractID)
	if !ok {
		return Walker{}, false
	}
	for _, child := range w.DirectChilds(nil) {
		if child.Node.AttrBool("isConstructor") {
			return child, true
		}
	}
	return Walker{}, false
}

// LookupContract resolves a contract id by its declared name.
func (d *Dictionary) LookupContract(name string) (uint32, bool) {
	for id := range d.contracts {
		w, ok := d.Lookup(id)
		if !ok {
			continue
		}
		if w.Node.AttrString("name") == name {
			return id, true
		}
	}
	return 0, false
}

// LookupStructByName finds a StructDefinition by its declared name.
func (d *Dictionary) LookupStructByName(name string) (Walker, bool) {
	for _, w := range d.entries {
		if w.Node.Name == "StructDefinition" && w.Node.AttrString("name") == name {
			return w, true
		}
	}
	return Walker{}, false
}

// LookupReturns finds every Return/PlaceholderStatement reachable from a
// FunctionDefinition/ModifierDefinition id, without descending below a
// matched node (accept-and-prune, matching the original's bf=true).
func (d *Dictionary) LookupReturns(id uint32) []Walker {
	w, ok := d.Lookup(id)
	if !ok {
		return nil
	}
	if w.Node.Name != "FunctionDefinition" && w.Node.Name != "ModifierDefinition" {
		return nil
	}
	accept := func(w Walker, _ []Walker) bool {
		return w.Node.Name == "Return" || w.Node.Name == "PlaceholderStatement"
	}
	ignore := func(Walker, []Walker) bool { return false }
	return w.Walk(true, ignore, accept)
}

// LookupFunctionCalls finds every FunctionCall/ModifierInvocation reachable
// from id, descending into nested calls (bf=false, matching the original).
func (d *Dictionary) LookupFunctionCalls(id uint32) []Walker {
	w, ok := d.Lookup(id)
	if !ok {
		return nil
	}
	accept := func(w Walker, _ []Walker) bool {
		return w.Node.Name == "FunctionCall" || w.Node.Name == "ModifierInvocation"
	}
	ignore := func(Walker, []Walker) bool { return false }
	return w.Walk(false, ignore, accept)
}

// LookupInputKind distinguishes the two id spaces LookupParameters accepts:
// a FunctionDefinition (parameters live under its ParameterList) or a
// FunctionCall (arguments are every child after the callee expression).
type LookupInputKind int

const (
	FunctionID LookupInputKind = iota
	FunctionCallID
)

// LookupParameters finds a function's declared parameters (kind ==
// FunctionID) or a call's argument expressions (kind == FunctionCallID).
func (d *Dictionary) LookupParameters(id uint32, kind LookupInputKind) []Walker {
	w, ok := d.Lookup(id)
	if !ok {
		return nil
	}
	switch kind {
	case FunctionID:
		children := w.DirectChilds(nil)
		if len(children) == 0 || children[0].Node.Name != "ParameterList" {
			return nil
		}
		return children[0].DirectChilds(nil)
	case FunctionCallID:
		children := w.DirectChilds(nil)
		if len(children) <= 1 {
			return nil
		}
		return children[1:]
	default:
		return nil
	}
}

// LookupFunctions enumerates every function/modifier visible from a
// contract, including those inherited through its parents (reverse-order
// linearization matching C3-ish solidity semantics closely enough for
// static analysis purposes) and those reachable through contract-typed
// state declarations (e.g. `Other public other;` pulls in Other's
// functions too, since an external call through `other` may resolve there).
func (d *Dictionary) LookupFunctions(contractID uint32) []Walker {
	prop, ok := d.contracts[contractID]
	if !ok {
		return nil
	}

	var linear []uint32
	for i := len(prop.functions) - 1; i >= 0; i-- {
		linear = append(linear, prop.functions[i])
	}
	parents := append([]uint32{}, prop.parents...)
	for len(parents) > 0 {
		parentID := parents[len(parents)-1]
		parents = parents[:len(parents)-1]
		if pprop, ok := d.contracts[parentID]; ok {
			for i := len(pprop.functions) - 1; i >= 0; i-- {
				linear = append(linear, pprop.functions[i])
			}
			parents = append(parents, pprop.parents...)
		}
	}
	reverse(linear)

	var out []Walker
	for _, id := range linear {
		if w, ok := d.Lookup(id); ok {
			out = append(out, w)
		}
	}

	if w, ok := d.Lookup(contractID); ok {
		seen := map[uint32]bool{}
		accept := func(w Walker, _ []Walker) bool {
			if w.Node.Name != "UserDefinedTypeName" {
				return false
			}
			t := w.Node.AttrString("type")
			return len(t) >= 8 && t[:8] == "contract"
		}
		ignore := func(Walker, []Walker) bool { return false }
		for _, ref := range w.Walk(false, ignore, accept) {
			refID, ok := ref.Node.AttrUint32("referencedDeclaration")
			if !ok || refID == contractID || seen[refID] {
				continue
			}
			seen[refID] = true
			out = append(out, d.LookupFunctions(refID)...)
		}
	}
	return out
}

// LookupStatesForFunction finds the state variables visible to the
// function with the given id, including inherited ones.
func (d *Dictionary) LookupStatesForFunction(functionID uint32) []Walker {
	for _, prop := range d.contracts {
		if !containsUint32(prop.functions, functionID) {
			continue
		}
		return d.lookupStatesFromProp(prop)
	}
	return nil
}

// LookupStates finds the state variables visible to a contract, including
// inherited ones.
func (d *Dictionary) LookupStates(contractID uint32) []Walker {
	prop, ok := d.contracts[contractID]
	if !ok {
		return nil
	}
	return d.lookupStatesFromProp(prop)
}

func (d *Dictionary) lookupStatesFromProp(prop contractProp) []Walker {
	var ids []uint32
	for i := len(prop.states) - 1; i >= 0; i-- {
		ids = append(ids, prop.states[i])
	}
	parents := append([]uint32{}, prop.parents...)
	for len(parents) > 0 {
		parentID := parents[len(parents)-1]
		parents = parents[:len(parents)-1]
		if pprop, ok := d.contracts[parentID]; ok {
			for i := len(pprop.states) - 1; i >= 0; i-- {
				ids = append(ids, pprop.states[i])
			}
			parents = append(parents, pprop.parents...)
		}
	}
	reverse(ids)
	var out []Walker
	for _, id := range ids {
		if w, ok := d.Lookup(id); ok {
			out = append(out, w)
		}
	}
	return out
}

func reverse(ids []uint32) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func containsUint32(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
