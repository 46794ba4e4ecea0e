package variable

import (
	"encoding/binary"
	"strings"

	"github.com/minio/highwayhash"

	"github.com/solgraph/solgraph/ast"
)

// Comparison is the result of comparing two Variables' access chains.
type Comparison int

const (
	// NotEqual: the chains share no meaningful prefix/suffix relationship.
	NotEqual Comparison = iota
	// Equal: the chains are identical.
	Equal
	// Partial: one chain's suffix matches the other's full chain — one
	// variable is a more specific access path into the other (a.b vs a).
	Partial
)

func (c Comparison) String() string {
	switch c {
	case Equal:
		return "equal"
	case Partial:
		return "partial"
	default:
		return "not-equal"
	}
}

// highwayhashKey is a fixed all-zero 256-bit key: Variable.CacheKey only
// needs a stable, fast, collision-resistant fingerprint for use as a map
// key, not a keyed MAC, so a constant key is appropriate here.
var highwayhashKey = make([]byte, 32)

// Variable is a parsed access path: a chain of Members (outermost first,
// matching the original's innermost-last ordering) plus the source text it
// was parsed from.
type Variable struct {
	Members []Member
	Source  string
}

// New builds a Variable directly from an already-computed member chain.
func New(members []Member, source string) Variable {
	return Variable{Members: members, Source: source}
}

// CacheKey returns a fast 64-bit fingerprint of v's member chain, used by
// the DFG's alias table as a map key instead of a slice-of-structs.
func (v Variable) CacheKey() uint64 {
	var buf strings.Builder
	for _, m := range v.Members {
		buf.WriteByte(byte(m.Kind))
		buf.WriteString(m.Name)
		var idBuf [4]byte
		binary.LittleEndian.PutUint32(idBuf[:], m.ID)
		buf.Write(idBuf[:])
		buf.WriteByte(0)
	}
	sum := highwayhash.Sum64([]byte(buf.String()), highwayhashKey)
	return sum
}

// Contains compares v (the "self" side in the original) against other and
// reports whether they are Equal, Partial (one chain's suffix equals the
// other in full), or NotEqual. Mirrors Variable::contains in
// core/src/variable.rs exactly, including which side's suffix is taken.
func (v Variable) Contains(other Variable) Comparison {
	if len(other.Members) > len(v.Members) {
		offset := len(other.Members) - len(v.Members)
		sub := other.Members[offset:]
		if MembersEqual(sub, v.Members) {
			return Partial
		}
		return NotEqual
	}
	offset := len(v.Members) - len(other.Members)
	sub := v.Members[offset:]
	if MembersEqual(sub, other.Members) {
		if offset == 0 {
			return Equal
		}
		return Partial
	}
	return NotEqual
}

// isVariableRoot reports whether an AST node name is one Parse accepts as a
// variable-access root within an expression subtree.
func isVariableRoot(name string) bool {
	switch name {
	case "FunctionCall", "Identifier", "MemberAccess", "IndexAccess", "VariableDeclaration":
		return true
	default:
		return false
	}
}

// Parse finds every Variable referenced directly within w's expression
// subtree (not descending into nested function-call argument lists, which
// callers parse separately), using dict to resolve whether an identifier
// names a declared symbol (Reference) or a built-in (Global). visited
// prevents re-parsing nodes already accounted for by an earlier call
// against an overlapping subtree.
func Parse(w ast.Walker, dict *ast.Dictionary, visited map[uint32]bool) []Variable {
	var out []Variable
	newlyVisited := map[uint32]bool{}
	indexAccesses := map[uint32]bool{}

	accept := func(cur ast.Walker, _ []ast.Walker) bool {
		return visited[cur.Node.ID] || isVariableRoot(cur.Node.Name)
	}
	ignore := func(ast.Walker, []ast.Walker) bool { return false }
	roots := w.Walk(true, ignore, accept)

	for _, root := range roots {
		if root.Node.Name == "FunctionCall" || visited[root.Node.ID] {
			continue
		}
		if v, ok := parseOne(root, dict, indexAccesses); ok {
			out = append(out, v)
		}
		newlyVisited[root.Node.ID] = true
	}

	for id := range indexAccesses {
		if iw, ok := dict.Lookup(id); ok {
			out = append(out, Parse(iw, dict, map[uint32]bool{})...)
		}
	}
	for id := range newlyVisited {
		visited[id] = true
	}
	return out
}

func parseOne(w ast.Walker, dict *ast.Dictionary, indexAccesses map[uint32]bool) (Variable, bool) {
	members := findMembers(w, dict, indexAccesses)
	if len(members) == 0 {
		return Variable{}, false
	}
	return Variable{Members: members, Source: w.Node.Source}, true
}

// findMembers mirrors Variable::find_members: each AST kind contributes a
// Member and, for MemberAccess/IndexAccess, recurses into its base
// expression to build the rest of the chain.
func findMembers(w ast.Walker, dict *ast.Dictionary, indexAccesses map[uint32]bool) []Member {
	ref, hasRef := w.Node.AttrUint32("referencedDeclaration")
	memberName := w.Node.AttrString("member_name")
	value := w.Node.AttrString("value")

	switch w.Node.Name {
	case "VariableDeclaration":
		return []Member{RefMember(w.Node.ID)}
	case "Identifier":
		if hasRef {
			if _, ok := dict.Lookup(ref); ok {
				return []Member{RefMember(ref)}
			}
		}
		return []Member{GlobalMember(value)}
	case "MemberAccess":
		var head Member
		if hasRef {
			if _, ok := dict.Lookup(ref); ok {
				head = RefMember(ref)
			} else {
				head = GlobalMember(memberName)
			}
		} else {
			head = GlobalMember(memberName)
		}
		out := []Member{head}
		for _, child := range w.DirectChilds(nil) {
			out = append(out, findMembers(child, dict, indexAccesses)...)
		}
		return out
	case "IndexAccess":
		var out []Member
		for i, child := range w.DirectChilds(nil) {
			switch i {
			case 0:
				out = append(out, findMembers(child, dict, indexAccesses)...)
			case 1:
				indexAccesses[child.Node.ID] = true
				out = append([]Member{IndexMember()}, out...)
			}
		}
		return out
	default:
		return nil
	}
}
