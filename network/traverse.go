package network

import "golang.org/x/tools/container/intsets"

// Traverse enumerates every maximal path through the network starting at
// startAt, tracking a call stack so a return value (InFrom) only flows
// back out (OutTo) through the call site that produced it — an InFrom
// pushes its call id, the matching OutTo pops it, and any other link
// passes the stack through unchanged. Each recursive branch carries its
// own clone of the visited set: a (call-stack-top, vertex) pair visited
// in one branch must not prune a sibling branch that reconverges on the
// same vertex, or paths reachable only through that reconvergence are
// silently dropped. The clone is taken after recording the branch's own
// key, so siblings explored earlier in the same loop still bound each
// other's cycles — only the recursion itself gets an independent copy.
func (n *Network) Traverse(startAt uint32) [][]DataLink {
	var paths [][]DataLink
	visited := new(intsets.Sparse)

	type target struct {
		link  DataLink
		stack []uint32
	}
	var targets []target
	for _, l := range n.links {
		if l.From != startAt {
			continue
		}
		paths = append(paths, []DataLink{l})
		switch l.Label {
		case InFrom:
			targets = append(targets, target{link: l, stack: []uint32{l.CallID}})
		case Internal, BuiltIn, Executor:
			targets = append(targets, target{link: l, stack: nil})
		case OutTo:
			// An unmatched OutTo at the traversal root has no call on the
			// stack to balance against, so it cannot be followed.
		}
	}

	for _, t := range targets {
		visited.Insert(visitKey(t.stack, startAt))
		n.findPaths(t.link.To, new(intsets.Sparse).Copy(visited), &paths, t.stack)
	}
	return paths
}

func (n *Network) findPaths(startAt uint32, visited *intsets.Sparse, paths *[][]DataLink, callStack []uint32) {
	type target struct {
		link  DataLink
		stack []uint32
	}
	var targets []target
	for _, l := range n.links {
		if l.From != startAt {
			continue
		}
		switch l.Label {
		case InFrom:
			stack := append(append([]uint32{}, callStack...), l.CallID)
			targets = append(targets, target{link: l, stack: stack})
		case OutTo:
			if len(callStack) > 0 && callStack[len(callStack)-1] == l.CallID {
				stack := append([]uint32{}, callStack[:len(callStack)-1]...)
				targets = append(targets, target{link: l, stack: stack})
			}
		case Internal, BuiltIn, Executor:
			targets = append(targets, target{link: l, stack: append([]uint32{}, callStack...)})
		}
	}

	if visited.Has(visitKey(callStack, startAt)) || len(targets) == 0 {
		return
	}

	prevPaths := *paths
	*paths = nil
	for _, path := range prevPaths {
		lastLink := path[len(path)-1]
		if lastLink.To == startAt {
			for _, t := range targets {
				newPath := append(append([]DataLink{}, path...), t.link)
				*paths = append(*paths, newPath)
			}
		} else {
			*paths = append(*paths, path)
		}
	}

	for _, t := range targets {
		visited.Insert(visitKey(t.stack, startAt))
		n.findPaths(t.link.To, new(intsets.Sparse).Copy(visited), paths, t.stack)
	}
}

// visitKey packs a call-stack-top/vertex pair into a single int for the
// visited set: the stack top (0 meaning "no call on the stack", so the
// real id is offset by one) occupies the high bits, the vertex id the low
// 32 bits.
func visitKey(stack []uint32, vertex uint32) int {
	var top int64
	if len(stack) > 0 {
		top = int64(stack[len(stack)-1]) + 1
	}
	return int(top<<32 | int64(vertex))
}
