package cfg

import "github.com/solgraph/solgraph/ast"

// simpleKind tags a SimpleBlockNode: the leaf-level statement/call
// fragments a basic block is split into.
type simpleKind int

const (
	simpleUnit simpleKind = iota
	simpleFunctionCall
	simpleModifierInvocation
	simpleIndexAccess
	simpleRequire
	simpleAssert
	simpleRevert
	simpleSuicide
	simpleSelfdestruct
	simpleTransfer
	simpleThrow
	simpleBreak
	simpleContinue
)

// simpleBlockNode is one fragment produced by the Splitter: either the
// residue of a statement (Unit) or a nested call/control-transfer AST node
// reclassified by name.
type simpleBlockNode struct {
	kind   simpleKind
	walker ast.Walker
}

// codeKind tags a CodeBlock: a raw AST subtree still to be split (block),
// an already-structured control construct (link), or a pre-split sequence
// (simpleBlocks).
type codeKind int

const (
	codeNone codeKind = iota
	codeRaw
	codeLink
	codeSimpleBlocks
)

// codeBlock is one unit of a function body's control-flow shape.
type codeBlock struct {
	kind    codeKind
	walker  ast.Walker
	link    *blockNode
	simples []simpleBlockNode
}

// blockNodeKind tags the handful of control constructs the builder
// recognizes.
type blockNodeKind int

const (
	blockNone blockNodeKind = iota
	blockRoot
	blockIf
	blockWhile
	blockDoWhile
	blockFor
	blockReturn
)

// blockNode is a structured control construct: an If/While/DoWhile/For
// with its condition and branch bodies, a Return with its pre-return
// statements, or the Root of a function (its body's top-level blocks).
type blockNode struct {
	kind blockNodeKind

	// If
	condition codeBlock
	tblocks   []codeBlock
	fblocks   []codeBlock

	// While/DoWhile share condition+blocks
	blocks []codeBlock

	// For
	init codeBlock
	expr codeBlock

	// Return
	returnBody []simpleBlockNode
}
