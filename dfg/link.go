package dfg

import "github.com/solgraph/solgraph/variable"

// DataLink is one data dependency: the vertex at From reads (uses) Var,
// and the vertex at To defines (kills) it with no intervening redefinition.
type DataLink struct {
	From uint32
	To   uint32
	Var  variable.Variable
}

func (l DataLink) key() linkKey {
	return linkKey{from: l.From, to: l.To, varKey: l.Var.CacheKey()}
}

type linkKey struct {
	from, to uint32
	varKey   uint64
}
