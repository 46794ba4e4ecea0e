package dfg

import (
	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/variable"
)

// aliasEntry is one slot of an execution path's alias table: at some
// vertex, lhs was assigned rhs by direct reference.
type aliasEntry struct {
	lhs variable.Variable
	rhs variable.Variable
}

// Alias tracks, along every execution path of a CFG, which variable a
// plain `a = b`-style assignment makes an alias of which other variable —
// the information an oracle needs to follow a tainted value through a
// chain of reassignments without re-deriving the whole data flow graph.
// Unlike FindLinks (a single backward fixed point over the whole
// function), alias tables are built forward, one execution path at a
// time, since which alias is live depends on which branch was taken to
// get there.
type Alias struct {
	// tables[pathIndex][vertexID] is the alias table live at that vertex
	// on that execution path, keyed by the aliased variable's CacheKey.
	tables []map[uint32]map[uint64]aliasEntry
	paths  [][]uint32
}

// NewAlias builds the per-execution-path alias tables of g.
func NewAlias(g *cfg.CFG) *Alias {
	dict := g.Dict()
	paths := g.ExecutionPaths()
	a := &Alias{paths: paths}

	for _, path := range paths {
		table := map[uint32]map[uint64]aliasEntry{}
		var prevID uint32
		havePrev := false
		for _, id := range path {
			cur := map[uint64]aliasEntry{}
			if havePrev {
				for k, v := range table[prevID] {
					cur[k] = v
				}
			}

			var assignments []variable.Assignment
			if w, ok := dict.Lookup(id); ok {
				assignments = append(assignments, variable.FindAssignments(w, dict)...)
				assignments = append(assignments, variable.FindDeclarations(w, dict)...)
			}

			for _, asgn := range assignments {
				if asgn.Op != variable.OpEqual {
					continue
				}
				for _, l := range asgn.LHS {
					for _, r := range asgn.RHS {
						if !canHaveAlias(l) || !canHaveAlias(r) {
							continue
						}
						var toRemove []uint64
						for key, entry := range cur {
							if cmp := l.Contains(entry.lhs); cmp == variable.Partial &&
								len(entry.lhs.Members) > len(l.Members) {
								toRemove = append(toRemove, key)
							}
						}
						for _, key := range toRemove {
							delete(cur, key)
						}
						cur[l.CacheKey()] = aliasEntry{lhs: l, rhs: r}
					}
				}
			}

			table[id] = cur
			prevID = id
			havePrev = true
		}
		a.tables = append(a.tables, table)
	}
	return a
}

// canHaveAlias reports whether a Variable's access path is concrete enough
// to participate in alias tracking: a bare Global (a built-in like `msg`
// or `now`) can't be reassigned, so it's excluded.
func canHaveAlias(v variable.Variable) bool {
	if len(v.Members) == 0 {
		return false
	}
	return v.Members[0].Kind != variable.Global
}

// Resolve follows var's alias chain as of vertex id on every execution
// path passing through it, returning every distinct variable var
// ultimately resolves to (var itself if it was never assigned from
// another variable there).
func (a *Alias) Resolve(id uint32, v variable.Variable) []variable.Variable {
	seen := map[uint64]variable.Variable{}
	for _, table := range a.tables {
		vertexTable, ok := table[id]
		if !ok {
			continue
		}
		cur := v
		for hops := 0; hops < len(vertexTable)+1; hops++ {
			entry, ok := vertexTable[cur.CacheKey()]
			if !ok {
				break
			}
			cur = entry.rhs
		}
		seen[cur.CacheKey()] = cur
	}
	out := make([]variable.Variable, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	return out
}
