package ast

// Walker is a pointer into an AST tree: the current Node plus the full
// source text it was sliced from, so a Walker can be handed down to
// children without threading the source text through every call.
type Walker struct {
	Node   Node
	source string
}

// NewWalker builds a Walker rooted at raw, resolving its source slice
// against source.
func NewWalker(raw *RawNode, source string) (Walker, error) {
	node, err := newNode(raw, source)
	if err != nil {
		return Walker{}, err
	}
	return Walker{Node: node, source: source}, nil
}

// DirectChilds returns every direct child of w passing filter. A nil
// filter accepts everything.
func (w Walker) DirectChilds(filter func(Walker) bool) []Walker {
	if filter == nil {
		filter = func(Walker) bool { return true }
	}
	var out []Walker
	for _, child := range w.Node.raw.Children {
		cw, err := NewWalker(child, w.source)
		if err != nil {
			continue
		}
		if filter(cw) {
			out = append(out, cw)
		}
	}
	return out
}

// Walk performs the original's stack-based preorder traversal: bf selects
// breadth-first pruning (stop descending into an accepted node's children),
// ignore prunes a subtree entirely, accept marks a node for inclusion in
// the result. Both predicates receive the full root path (the chain of
// Walkers from the traversal root down to the current node, inclusive).
//
// The traversal order matches the Rust original's stack-pop order: a
// preorder DFS where children are pushed in order and popped in reverse,
// so results come back in the reverse order children were discovered —
// callers that care about source order should sort by Node.ID or re-walk
// with DirectChilds.
func (w Walker) Walk(bf bool, ignore func(Walker, []Walker) bool, accept func(Walker, []Walker) bool) []Walker {
	type frame struct {
		walker Walker
		path   []Walker
	}
	stack := []frame{{walker: w, path: []Walker{w}}}
	var out []Walker
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		accepted := accept(top.walker, top.path)
		if !ignore(top.walker, top.path) {
			if !(accepted && bf) {
				for _, child := range top.walker.Node.raw.Children {
					cw, err := NewWalker(child, top.walker.source)
					if err != nil {
						continue
					}
					path := append(append([]Walker{}, top.path...), cw)
					stack = append(stack, frame{walker: cw, path: path})
				}
			}
		}
		if accepted {
			out = append([]Walker{top.walker}, out...)
		}
	}
	return out
}
