// Package dfg builds the per-function Data Flow Graph on top of a cfg.CFG:
// a backward reaching-definitions pass that links every USE of a variable
// to the nearest KILL that defines it, plus an alias table tracking which
// variables the program treats as equivalent along each execution path.
package dfg

import "github.com/solgraph/solgraph/variable"

// ActionKind tags what an Action does to a variable at a vertex.
type ActionKind int

const (
	// Use means the variable is read at the vertex.
	Use ActionKind = iota
	// Kill means the variable's prior value is overwritten at the vertex.
	Kill
)

func (k ActionKind) String() string {
	if k == Kill {
		return "kill"
	}
	return "use"
}

// Action is one Use or Kill of a Variable observed at a vertex, mirroring
// Action::Use/Action::Kill in the original.
type Action struct {
	Kind ActionKind
	Var  variable.Variable
	ID   uint32
}

// key returns a value usable as a Go map key, since Variable itself holds
// a slice and isn't comparable.
func (a Action) key() actionKey {
	return actionKey{kind: a.Kind, varKey: a.Var.CacheKey(), id: a.ID}
}

type actionKey struct {
	kind   ActionKind
	varKey uint64
	id     uint32
}
