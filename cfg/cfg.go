package cfg

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/log"
)

// CFG is the frozen Control Flow Graph of one FunctionDefinition or
// ModifierDefinition: a START sentinel, a STOP sentinel, every statement
// and call-site vertex in between, and the set of control-flow edges
// between them.
type CFG struct {
	dict       *ast.Dictionary
	functionID uint32
	start      uint32
	stop       uint32

	vertices map[uint32]Vertex
	edges    map[Edge]bool

	executionPaths [][]uint32
	indexes        map[uint32][]uint32
	parameters     []uint32
	returns        []uint32
}

// Dict returns the Dictionary the CFG was built against, so later passes
// (the data flow graph, the oracles) can resolve a vertex id back to its
// AST subtree without threading a second copy of the dictionary around.
func (c *CFG) Dict() *ast.Dictionary { return c.dict }

// FunctionID returns the id of the function/modifier this CFG was built
// for.
func (c *CFG) FunctionID() uint32 { return c.functionID }

// Parameters returns the function's declared parameter ids, in order.
func (c *CFG) Parameters() []uint32 { return c.parameters }

// Returns returns the vertex ids of every Return statement's first
// split fragment.
func (c *CFG) Returns() []uint32 { return c.returns }

// Start returns the START sentinel id (functionID * 100000).
func (c *CFG) Start() uint32 { return c.start }

// Stop returns the STOP sentinel id (Start() + 1).
func (c *CFG) Stop() uint32 { return c.stop }

// Vertices returns every vertex in the graph, keyed by id.
func (c *CFG) Vertices() map[uint32]Vertex { return c.vertices }

// Edges returns the deduplicated edge set.
func (c *CFG) Edges() map[Edge]bool { return c.edges }

// ExecutionPaths returns every START-to-STOP path enumerated at
// construction time.
func (c *CFG) ExecutionPaths() [][]uint32 { return c.executionPaths }

// Successors returns the ids every outgoing edge from id leads to.
func (c *CFG) Successors(id uint32) []uint32 {
	var out []uint32
	for e := range c.edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Predecessors returns the ids every incoming edge to id comes from.
func (c *CFG) Predecessors(id uint32) []uint32 {
	var out []uint32
	for e := range c.edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// Graph renders the CFG as an lvlath adjacency-list graph, vertex ids as
// string keys, shape/level carried in each Vertex's Metadata.
func (c *CFG) Graph() *graph.Graph {
	g := graph.NewGraph(true, false)
	for _, v := range c.vertices {
		g.AddVertex(&graph.Vertex{ID: vertexKey(v.ID), Metadata: map[string]interface{}{
			"shape": v.Shape.String(),
			"level": v.Level,
			"src":   v.Source,
		}})
	}
	for e := range c.edges {
		g.AddEdge(vertexKey(e.From), vertexKey(e.To), 0)
	}
	return g
}

func vertexKey(id uint32) string {
	return fmt.Sprintf("v%d", id)
}

// builder holds the mutable construction state threaded through traverse/
// simpleTraverse/conditionTraverse, mirroring ControlFlowGraph in the
// original.
type builder struct {
	dict       *ast.Dictionary
	start      uint32
	stop       uint32
	functionID uint32

	vertices map[uint32]Vertex
	edges    map[Edge]bool
	indexes  map[uint32][]uint32
	returns  []uint32

	log *log.Log
}

// New builds the CFG for the function/modifier with the given id, scoped
// to contractID for its inherited state-variable initializer chain.
// UnsupportedConstruct (an InlineAssembly statement, or a fragment the
// builder cannot place, such as a terminating call inside a condition)
// degrades to an Error-severity log entry and a nil CFG; other functions
// of the same contract are unaffected. Other unrecognized statements are
// built as plain statements.
func New(dict *ast.Dictionary, contractID, functionID uint32) (cfg *CFG, l *log.Log, err error) {
	l = log.New()
	defer func() {
		if r := recover(); r != nil {
			l.AddAt(log.Error, fmt.Sprintf("cfg: unsupported construct while building function %d: %v", functionID, r), functionID)
			cfg = nil
			err = fmt.Errorf("cfg: unsupported construct in function %d: %v", functionID, r)
		}
	}()

	fw, ok := dict.Lookup(functionID)
	if !ok {
		return nil, l, fmt.Errorf("cfg: no such function id %d", functionID)
	}

	b := &builder{
		dict:       dict,
		start:      functionID * 100000,
		stop:       functionID*100000 + 1,
		functionID: functionID,
		vertices:   make(map[uint32]Vertex),
		edges:      make(map[Edge]bool),
		indexes:    make(map[uint32][]uint32),
		log:        l,
	}
	b.startAt(fw, contractID)

	c := &CFG{
		dict:       dict,
		functionID: functionID,
		start:      b.start,
		stop:       b.stop,
		vertices:   b.vertices,
		edges:      b.edges,
		indexes:    b.indexes,
		returns:    b.returns,
		parameters: parameterIDs(dict, functionID),
	}
	c.updateExecutionPaths(c.start, nil)
	return c, l, nil
}

func parameterIDs(dict *ast.Dictionary, functionID uint32) []uint32 {
	var ids []uint32
	for _, w := range dict.LookupParameters(functionID, ast.FunctionID) {
		ids = append(ids, w.Node.ID)
	}
	return ids
}

// startAt mirrors ControlFlowGraph::start_at: inject START/STOP, chain the
// contract's (inherited) state-variable declarations from START, then
// traverse the function body from the last state initializer.
func (b *builder) startAt(fw ast.Walker, contractID uint32) {
	b.vertices[b.start] = Vertex{ID: b.start, Shape: Point, Level: 0}
	b.vertices[b.stop] = Vertex{ID: b.stop, Shape: Point, Level: 0}

	root := buildRoot(fw)

	last := b.start
	for _, sw := range b.dict.LookupStates(contractID) {
		b.vertices[sw.Node.ID] = Vertex{ID: sw.Node.ID, Source: sw.Node.Source, Shape: Box, Level: 0}
		b.edges[Edge{From: last, To: sw.Node.ID}] = true
		last = sw.Node.ID
	}

	predecessors := b.traverse(root.blocks, []uint32{last}, &[]loopBreaker{}, 1)
	for _, p := range predecessors {
		b.edges[Edge{From: p, To: b.stop}] = true
	}
}

// conditionTraverse mirrors condition_traverse: a condition's split
// fragments become a chain of Diamond/Mdiamond-shaped vertices (plain
// fragments get Diamond, function-call/index-access fragments get
// Mdiamond, matching spec.md's "condition whose last component is a
// function call" rule collapsed per-fragment since each fragment IS that
// last component by construction).
func (b *builder) conditionTraverse(blocks []simpleBlockNode, level uint32) []uint32 {
	var chain []uint32
	for _, blk := range blocks {
		var shape Shape
		switch blk.kind {
		case simpleFunctionCall, simpleIndexAccess:
			shape = Mdiamond
		case simpleUnit:
			shape = Diamond
		default:
			panic(fmt.Sprintf("unsupported construct in condition: kind %d", blk.kind))
		}
		b.vertices[blk.walker.Node.ID] = Vertex{ID: blk.walker.Node.ID, Source: blk.walker.Node.Source, Shape: shape, Level: level}
		chain = append(chain, blk.walker.Node.ID)
	}
	for i := 0; i+1 < len(chain); i++ {
		b.edges[Edge{From: chain[i], To: chain[i+1]}] = true
	}
	return chain
}

// simpleTraverse mirrors simple_traverse: walk a flat sequence of
// simpleBlockNodes, threading the predecessor set through each, handling
// break/continue (record a LoopBreaker, predecessors become empty),
// terminating calls (edge straight to STOP), and plain
// statement/call/index fragments (edge from every predecessor, dedup).
func (b *builder) simpleTraverse(blocks []simpleBlockNode, predecessors []uint32, breakers *[]loopBreaker, level uint32) []uint32 {
	for _, blk := range blocks {
		if len(predecessors) == 0 {
			return nil
		}
		id := blk.walker.Node.ID
		source := blk.walker.Node.Source

		switch blk.kind {
		case simpleBreak, simpleContinue:
			b.vertices[id] = Vertex{ID: id, Source: source, Shape: Box, Level: level}
			for _, p := range predecessors {
				b.edges[Edge{From: p, To: id}] = true
			}
			kind := breakContinue
			if blk.kind == simpleBreak {
				kind = breakBreak
			}
			*breakers = append(*breakers, loopBreaker{kind: kind, id: id})
			predecessors = nil

		case simpleRequire, simpleAssert, simpleTransfer:
			b.vertices[id] = Vertex{ID: id, Source: source, Shape: DoubleCircle, Level: level}
			for _, p := range predecessors {
				b.edges[Edge{From: p, To: id}] = true
			}
			b.edges[Edge{From: id, To: b.stop}] = true
			predecessors = []uint32{id}

		case simpleThrow:
			b.vertices[id] = Vertex{ID: id, Source: source, Shape: Box, Level: level}
			for _, p := range predecessors {
				b.edges[Edge{From: p, To: id}] = true
			}
			b.edges[Edge{From: id, To: b.stop}] = true
			predecessors = nil

		case simpleRevert, simpleSelfdestruct, simpleSuicide:
			b.vertices[id] = Vertex{ID: id, Source: source, Shape: DoubleCircle, Level: level}
			for _, p := range predecessors {
				b.edges[Edge{From: p, To: id}] = true
			}
			b.edges[Edge{From: id, To: b.stop}] = true
			predecessors = nil

		case simpleUnit:
			var next []uint32
			anyNewEdge := false
			for _, p := range predecessors {
				e := Edge{From: p, To: id}
				if !b.edges[e] {
					b.edges[e] = true
					anyNewEdge = true
				}
			}
			if anyNewEdge {
				b.vertices[id] = Vertex{ID: id, Source: source, Shape: Box, Level: level}
				next = []uint32{id}
			}
			predecessors = next

		case simpleFunctionCall, simpleModifierInvocation, simpleIndexAccess:
			var next []uint32
			anyNewEdge := false
			for _, p := range predecessors {
				e := Edge{From: p, To: id}
				if !b.edges[e] {
					b.edges[e] = true
					anyNewEdge = true
				}
			}
			if anyNewEdge {
				b.vertices[id] = Vertex{ID: id, Source: source, Shape: DoubleCircle, Level: level}
				next = []uint32{id}
			}
			predecessors = next

		default:
			panic(fmt.Sprintf("unsupported simple block kind %d", blk.kind))
		}
	}
	return predecessors
}

// traverse mirrors ControlFlowGraph::traverse: dispatch each codeBlock to
// simpleTraverse (raw subtrees, after splitting, and pre-split sequences)
// or to the matching control-construct handler, threading the predecessor
// set through the whole body in source order.
func (b *builder) traverse(blocks []codeBlock, predecessors []uint32, breakers *[]loopBreaker, level uint32) []uint32 {
	for _, blk := range blocks {
		if len(predecessors) == 0 {
			return nil
		}
		switch blk.kind {
		case codeRaw:
			s := newSplitter()
			simples := s.split(blk.walker)
			for k, v := range s.indexes {
				b.indexes[k] = v
			}
			predecessors = b.simpleTraverse(simples, predecessors, breakers, level)

		case codeSimpleBlocks:
			predecessors = b.simpleTraverse(blk.simples, predecessors, breakers, level)

		case codeLink:
			predecessors = b.traverseLink(blk.link, predecessors, breakers, level)
		}
	}
	return predecessors
}

func (b *builder) splitCondition(cond codeBlock, level uint32) []uint32 {
	s := newSplitter()
	simples := s.split(cond.walker)
	for k, v := range s.indexes {
		b.indexes[k] = v
	}
	return b.conditionTraverse(simples, level)
}

func (b *builder) traverseLink(node *blockNode, predecessors []uint32, breakers *[]loopBreaker, level uint32) []uint32 {
	switch node.kind {
	case blockIf:
		chain := b.splitCondition(node.condition, level)
		if len(chain) == 0 {
			return predecessors
		}
		for _, p := range predecessors {
			b.edges[Edge{From: p, To: chain[0]}] = true
		}
		branchPred := []uint32{chain[len(chain)-1]}
		t := b.traverse(node.tblocks, append([]uint32{}, branchPred...), breakers, level+1)
		f := b.traverse(node.fblocks, append([]uint32{}, branchPred...), breakers, level+1)
		return append(t, f...)

	case blockDoWhile:
		ourBreakers := []loopBreaker{}
		predecessors = b.traverse(node.blocks, predecessors, &ourBreakers, level+1)
		for _, br := range ourBreakers {
			if br.kind == breakContinue {
				predecessors = append(predecessors, br.id)
			}
		}
		if len(predecessors) > 0 {
			chain := b.splitCondition(node.condition, level)
			if len(chain) > 0 {
				for _, p := range predecessors {
					b.edges[Edge{From: p, To: chain[0]}] = true
				}
				predecessors = []uint32{chain[len(chain)-1]}
				b.traverse(node.blocks, append([]uint32{}, predecessors...), &ourBreakers, level+1)
			}
		}
		for _, br := range ourBreakers {
			if br.kind == breakBreak {
				predecessors = append(predecessors, br.id)
			}
		}
		return predecessors

	case blockWhile:
		ourBreakers := []loopBreaker{}
		chain := b.splitCondition(node.condition, level)
		if len(chain) == 0 {
			return predecessors
		}
		for _, p := range predecessors {
			b.edges[Edge{From: p, To: chain[0]}] = true
		}
		predecessors = []uint32{chain[len(chain)-1]}
		predecessors = b.traverse(node.blocks, predecessors, &ourBreakers, level+1)
		for _, br := range ourBreakers {
			if br.kind == breakContinue {
				predecessors = append(predecessors, br.id)
			}
		}
		for _, p := range predecessors {
			b.edges[Edge{From: p, To: chain[0]}] = true
		}
		predecessors = []uint32{chain[len(chain)-1]}
		for _, br := range ourBreakers {
			if br.kind == breakBreak {
				predecessors = append(predecessors, br.id)
			}
		}
		return predecessors

	case blockFor:
		ourBreakers := []loopBreaker{}
		var condPredecessors []uint32
		if node.init.kind == codeRaw {
			s := newSplitter()
			simples := s.split(node.init.walker)
			for k, v := range s.indexes {
				b.indexes[k] = v
			}
			predecessors = b.simpleTraverse(simples, predecessors, breakers, level)
		}
		for i := 0; i < 2; i++ {
			if node.condition.kind == codeRaw {
				chain := b.splitCondition(node.condition, level)
				if len(chain) > 0 {
					for _, p := range predecessors {
						b.edges[Edge{From: p, To: chain[0]}] = true
					}
					predecessors = []uint32{chain[len(chain)-1]}
					condPredecessors = []uint32{chain[len(chain)-1]}
				}
			}
			predecessors = b.traverse(node.blocks, predecessors, &ourBreakers, level+1)
			for _, br := range ourBreakers {
				if br.kind == breakContinue {
					predecessors = append(predecessors, br.id)
				}
			}
			if node.expr.kind == codeRaw {
				s := newSplitter()
				simples := s.split(node.expr.walker)
				for k, v := range s.indexes {
					b.indexes[k] = v
				}
				predecessors = b.simpleTraverse(simples, predecessors, breakers, level)
			}
		}
		predecessors = condPredecessors
		for _, br := range ourBreakers {
			if br.kind == breakBreak {
				predecessors = append(predecessors, br.id)
			}
		}
		return predecessors

	case blockReturn:
		b.returns = append(b.returns, node.returnBody[0].walker.Node.ID)
		predecessors = b.simpleTraverse(node.returnBody, predecessors, breakers, level)
		for _, p := range predecessors {
			b.edges[Edge{From: p, To: b.stop}] = true
		}
		return nil

	default:
		panic(fmt.Sprintf("unsupported control construct kind %d", node.kind))
	}
}

// updateExecutionPaths mirrors update_execution_paths: a recursive DFS
// from `from` that stops extending a path once a vertex has been visited
// twice on it (bounding loop unrolling to two iterations) and records a
// completed path whenever it reaches STOP.
func (c *CFG) updateExecutionPaths(from uint32, path []uint32) {
	if from == c.stop {
		c.executionPaths = append(c.executionPaths, append(append([]uint32{}, path...), from))
		return
	}
	dups := 0
	for _, v := range path {
		if v == from {
			dups++
		}
	}
	if dups >= 2 {
		return
	}
	path = append(append([]uint32{}, path...), from)
	for next := range iterSuccessors(c, from) {
		c.updateExecutionPaths(next, path)
	}
}

func iterSuccessors(c *CFG, from uint32) map[uint32]bool {
	out := map[uint32]bool{}
	for e := range c.edges {
		if e.From == from {
			out[e.To] = true
		}
	}
	return out
}
