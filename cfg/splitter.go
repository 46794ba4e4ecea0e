package cfg

import "github.com/solgraph/solgraph/ast"

// splitter turns one statement's expression subtree into an ordered
// sequence of simpleBlockNodes: every nested FunctionCall, ModifierInvocation,
// and IndexAccess becomes its own fragment (so intra-expression call order
// becomes intra-block edges), and special call names
// (revert/assert/require/suicide/selfdestruct, and a bare `transfer` with
// no referencedDeclaration) are reclassified to terminating fragments. A
// trailing Unit fragment represents whatever source remains once every
// nested fragment is accounted for.
type splitter struct {
	indexes map[uint32][]uint32
}

func newSplitter() *splitter {
	return &splitter{indexes: make(map[uint32][]uint32)}
}

// split mirrors Splitter::split: it walks w's subtree in accept-and-prune
// order over {FunctionCall, ModifierInvocation, IndexAccess}, recursing
// into each match's own children first (so nested calls are split from the
// inside out), then reclassifying the match itself.
func (s *splitter) split(w ast.Walker) []simpleBlockNode {
	var out []simpleBlockNode
	vertexID := w.Node.ID

	accept := func(cur ast.Walker, _ []ast.Walker) bool {
		switch cur.Node.Name {
		case "FunctionCall", "ModifierInvocation", "IndexAccess":
			return true
		default:
			return false
		}
	}
	ignore := func(ast.Walker, []ast.Walker) bool { return false }

	for _, match := range w.Walk(true, ignore, accept) {
		var paramIDs []uint32
		for _, child := range match.DirectChilds(nil) {
			paramIDs = append(paramIDs, child.Node.ID)
			// Only the nested calls/index accesses of a child become
			// fragments; its residue belongs to the enclosing statement's
			// trailing Unit.
			for _, frag := range s.split(child) {
				if frag.kind != simpleUnit {
					out = append(out, frag)
				}
			}
		}
		if match.Node.Name == "IndexAccess" {
			paramIDs = append([]uint32{vertexID}, paramIDs...)
			s.indexes[match.Node.ID] = paramIDs
		}

		switch match.Node.Name {
		case "FunctionCall":
			children := match.DirectChilds(nil)
			if len(children) == 0 {
				out = append(out, simpleBlockNode{kind: simpleFunctionCall, walker: match})
				continue
			}
			callee := children[0]
			name := callee.Node.AttrString("value")
			if name == "" {
				name = callee.Node.AttrString("member_name")
			}
			_, hasRef := callee.Node.AttrUint32("referencedDeclaration")
			switch {
			case name == "revert":
				out = append(out, simpleBlockNode{kind: simpleRevert, walker: match})
			case name == "assert":
				out = append(out, simpleBlockNode{kind: simpleAssert, walker: match})
			case name == "require":
				out = append(out, simpleBlockNode{kind: simpleRequire, walker: match})
			case name == "suicide":
				out = append(out, simpleBlockNode{kind: simpleSuicide, walker: match})
			case name == "selfdestruct":
				out = append(out, simpleBlockNode{kind: simpleSelfdestruct, walker: match})
			case name == "transfer" && !hasRef:
				out = append(out, simpleBlockNode{kind: simpleTransfer, walker: match})
			default:
				out = append(out, simpleBlockNode{kind: simpleFunctionCall, walker: match})
			}
		case "ModifierInvocation":
			out = append(out, simpleBlockNode{kind: simpleModifierInvocation, walker: match})
		case "IndexAccess":
			out = append(out, simpleBlockNode{kind: simpleIndexAccess, walker: match})
		}
	}

	switch w.Node.Name {
	case "FunctionCall", "ModifierInvocation", "IndexAccess":
	default:
		out = append(out, simpleBlockNode{kind: simpleUnit, walker: w})
	}
	return out
}
