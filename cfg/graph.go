package cfg

import (
	"fmt"

	"github.com/solgraph/solgraph/ast"
)

// buildRoot mirrors Graph::build_node(NodeKind::Root, ...): a function's
// root block is its ParameterList/Block pair found by index among its
// direct children (skipping ModifierInvocation children, which the
// Network handles separately as inter-procedural call targets).
func buildRoot(w ast.Walker) blockNode {
	var blocks []codeBlock
	for _, child := range w.DirectChilds(nil) {
		switch child.Node.Name {
		case "Block":
			blocks = append(blocks, buildBody(child)...)
		}
	}
	return blockNode{kind: blockRoot, blocks: blocks}
}

// buildBody mirrors Graph::build_block(BlockKind::Body, ...): every direct
// child statement of a Block is classified through buildItems.
func buildBody(w ast.Walker) []codeBlock {
	var blocks []codeBlock
	for _, stmt := range w.DirectChilds(nil) {
		blocks = append(blocks, buildItems(stmt)...)
	}
	return blocks
}

// buildItems mirrors Graph::build_items: dispatch a statement node to its
// structured blockNode (If/While/For/DoWhile/Return), a single
// control-transfer simpleBlockNode (Throw/Continue/Break), or leave it as
// a raw codeBlock to be split later (VariableDeclarationStatement,
// EmitStatement, ExpressionStatement, and anything else unrecognized).
// InlineAssembly is rejected with a panic, which New turns into an error.
func buildItems(w ast.Walker) []codeBlock {
	switch w.Node.Name {
	case "IfStatement":
		node := buildIf(w)
		return []codeBlock{{kind: codeLink, link: &node}}
	case "WhileStatement":
		node := buildWhile(w)
		return []codeBlock{{kind: codeLink, link: &node}}
	case "ForStatement":
		node := buildFor(w)
		return []codeBlock{{kind: codeLink, link: &node}}
	case "DoWhileStatement":
		node := buildDoWhile(w)
		return []codeBlock{{kind: codeLink, link: &node}}
	case "Return":
		s := newSplitter()
		node := blockNode{kind: blockReturn, returnBody: s.split(w)}
		return []codeBlock{{kind: codeLink, link: &node}}
	case "Throw":
		return []codeBlock{{kind: codeSimpleBlocks, simples: []simpleBlockNode{{kind: simpleThrow, walker: w}}}}
	case "Continue":
		return []codeBlock{{kind: codeSimpleBlocks, simples: []simpleBlockNode{{kind: simpleContinue, walker: w}}}}
	case "Break":
		return []codeBlock{{kind: codeSimpleBlocks, simples: []simpleBlockNode{{kind: simpleBreak, walker: w}}}}
	case "InlineAssembly":
		panic(fmt.Sprintf("unsupported construct: InlineAssembly (node %d)", w.Node.ID))
	default:
		return []codeBlock{{kind: codeRaw, walker: w}}
	}
}

func buildIf(w ast.Walker) blockNode {
	children := w.DirectChilds(nil)
	node := blockNode{kind: blockIf}
	for i, child := range children {
		switch i {
		case 0:
			node.condition = codeBlock{kind: codeRaw, walker: child}
		case 1:
			if child.Node.Name == "Block" {
				node.tblocks = buildBody(child)
			} else {
				node.tblocks = append(node.tblocks, buildItems(child)...)
			}
		case 2:
			if child.Node.Name == "Block" {
				node.fblocks = buildBody(child)
			} else {
				node.fblocks = append(node.fblocks, buildItems(child)...)
			}
		}
	}
	return node
}

func buildWhile(w ast.Walker) blockNode {
	children := w.DirectChilds(nil)
	node := blockNode{kind: blockWhile}
	for i, child := range children {
		switch i {
		case 0:
			node.condition = codeBlock{kind: codeRaw, walker: child}
		case 1:
			if child.Node.Name == "Block" {
				node.blocks = buildBody(child)
			} else {
				node.blocks = append(node.blocks, buildItems(child)...)
			}
		}
	}
	return node
}

func buildDoWhile(w ast.Walker) blockNode {
	children := w.DirectChilds(nil)
	node := blockNode{kind: blockDoWhile}
	for i, child := range children {
		switch i {
		case 0:
			node.condition = codeBlock{kind: codeRaw, walker: child}
		case 1:
			if child.Node.Name == "Block" {
				node.blocks = buildBody(child)
			} else {
				node.blocks = append(node.blocks, buildItems(child)...)
			}
		}
	}
	return node
}

func buildFor(w ast.Walker) blockNode {
	node := blockNode{kind: blockFor}
	children := w.DirectChilds(nil)
	// A ForStatement's children are whichever of
	// initializationExpression/condition/loopExpression are present,
	// followed by the body. Absent clauses simply don't appear as
	// children in the combined-json AST, so position alone (after
	// subtracting how many of the three leading slots are populated)
	// tells us which is which; the body is always last and always a
	// statement/Block.
	n := len(children)
	bodyIdx := n - 1
	slots := []string{}
	if w.Node.Attributes["initializationExpression"] != nil {
		slots = append(slots, "init")
	}
	if w.Node.Attributes["condition"] != nil {
		slots = append(slots, "condition")
	}
	if w.Node.Attributes["loopExpression"] != nil {
		slots = append(slots, "expr")
	}
	for i := 0; i < bodyIdx && i < len(slots); i++ {
		switch slots[i] {
		case "init":
			node.init = codeBlock{kind: codeRaw, walker: children[i]}
		case "condition":
			node.condition = codeBlock{kind: codeRaw, walker: children[i]}
		case "expr":
			node.expr = codeBlock{kind: codeRaw, walker: children[i]}
		}
	}
	if bodyIdx >= 0 && bodyIdx < n {
		body := children[bodyIdx]
		if body.Node.Name == "Block" {
			node.blocks = buildBody(body)
		} else {
			node.blocks = append(node.blocks, buildItems(body)...)
		}
	}
	return node
}
