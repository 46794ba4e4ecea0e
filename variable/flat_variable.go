package variable

import (
	"regexp"
	"strings"

	"github.com/solgraph/solgraph/ast"
)

var (
	structRe   = regexp.MustCompile(`^struct ([^\[\]]*)((?:\[\])*)`)
	mappingRe  = regexp.MustCompile(`^mapping\(.+\)((?:\[\])*)`)
	contractRe = regexp.MustCompile(`^contract ([^\[\]]*)((?:\[\])*)`)
)

// builtinProperties is the exact property table for Solidity's built-in
// global objects, following spec.md's flattening table: each property is a
// leaf, and maps to the fixed type that leaf carries.
var builtinProperties = map[string][][2]string{
	"block": {
		{"blockhash", "bytes32"},
		{"coinbase", "address"},
		{"difficulty", "uint"},
		{"gaslimit", "uint"},
		{"number", "uint"},
		{"timestamp", "uint"},
	},
	"msg": {
		{"data", "bytes"},
		{"gas", "uint"},
		{"sender", "address"},
		{"sig", "bytes4"},
		{"value", "uint"},
	},
	"tx": {
		{"gasprice", "uint"},
		{"origin", "address"},
	},
	"abi": {
		{"encode", "bytes"},
		{"encodePacked", "bytes"},
		{"encodeWithSelector", "bytes"},
		{"encodeWithSignature", "bytes"},
	},
	"address": {
		{"balance", "uint256"},
		{"transfer", "void"},
		{"send", "bool"},
		{"call", "bool"},
		{"callcode", "bool"},
		{"delegatecall", "bool"},
	},
}

type flatEntry struct {
	members    []Member
	attributes string
	kind       string
}

// FlatVariable expands a single access-path walker into the set of leaf
// Variables it can denote once struct/mapping/contract/built-in types are
// unfolded, filtered down to the ones whose attribute path is a prefix
// match of the path actually observed in the source.
type FlatVariable struct {
	dict       *ast.Dictionary
	flats      []flatEntry
	attributes []string
}

// NewFlatVariable builds the flattening for the access path rooted at w.
func NewFlatVariable(w ast.Walker, dict *ast.Dictionary) *FlatVariable {
	fv := &FlatVariable{dict: dict}

	root := findRootWalker(w, dict)
	declaration, hasDeclaration := root.Node.AttrUint32("referencedDeclaration")
	attribute := root.Node.AttrString("value")
	if attribute == "" {
		attribute = root.Node.AttrString("name")
	}

	var members []Member
	if root.Node.Name == "VariableDeclaration" {
		members = append(members, RefMember(root.Node.ID))
	} else if hasDeclaration {
		if _, ok := dict.Lookup(declaration); ok {
			members = append(members, RefMember(declaration))
		} else {
			members = append(members, GlobalMember(attribute))
		}
	} else {
		members = append(members, GlobalMember(attribute))
	}

	kind := normalizeKind(root)
	fv.updateFlats(kind, members, []string{attribute})
	fv.updateAttributes(w)
	return fv
}

// findRootWalker walks down the leftmost-child chain from w until it
// reaches a leaf Identifier/MemberAccess/VariableDeclaration, i.e. the
// base of the whole access expression.
func findRootWalker(w ast.Walker, dict *ast.Dictionary) ast.Walker {
	children := w.DirectChilds(nil)
	if len(children) == 0 {
		return w
	}
	switch w.Node.Name {
	case "MemberAccess", "IndexAccess":
		return findRootWalker(children[0], dict)
	default:
		return w
	}
}

// normalizeKind extracts the declared "type" attribute of a walker, the
// string update_flats pattern-matches against.
func normalizeKind(w ast.Walker) string {
	return w.Node.AttrString("type")
}

// updateAttributes walks back down the original access chain (by always
// taking the first child) prepending each level's own attribute name, so
// the final ordering matches source order (outermost last).
func (fv *FlatVariable) updateAttributes(w ast.Walker) {
	switch w.Node.Name {
	case "IndexAccess":
		fv.attributes = append([]string{"$"}, fv.attributes...)
	case "MemberAccess":
		fv.attributes = append([]string{w.Node.AttrString("member_name")}, fv.attributes...)
	case "Identifier":
		fv.attributes = append([]string{w.Node.AttrString("value")}, fv.attributes...)
	case "VariableDeclaration":
		fv.attributes = append([]string{w.Node.AttrString("name")}, fv.attributes...)
	}
	children := w.DirectChilds(nil)
	if len(children) > 0 {
		fv.updateAttributes(children[0])
	}
}

// updateFlats recursively expands kind (a Solidity type string) into leaf
// flats, following struct/mapping/contract/built-in rules.
func (fv *FlatVariable) updateFlats(kind string, members []Member, attributes []string) {
	if m := structRe.FindStringSubmatch(kind); m != nil {
		structName := m[1]
		dimension := len(m[2]) / 2
		members, attributes = appendIndexDims(members, attributes, dimension)
		sw, ok := fv.dict.LookupStructByName(structName)
		if !ok {
			return
		}
		for _, field := range sw.DirectChilds(nil) {
			fMembers := append(append([]Member{}, members...), RefMember(field.Node.ID))
			fAttrs := append(append([]string{}, attributes...), field.Node.AttrString("name"))
			fv.updateFlats(normalizeKind(field), fMembers, fAttrs)
		}
		return
	}

	if m := mappingRe.FindStringSubmatch(kind); m != nil {
		valueKind := mappingValueType(kind)
		dimension := len(m[1])/2 + 1
		members, attributes = appendIndexDims(members, attributes, dimension)
		fv.updateFlats(strings.TrimSpace(valueKind), members, attributes)
		return
	}

	if m := contractRe.FindStringSubmatch(kind); m != nil {
		contractName := m[1]
		dimension := len(m[2]) / 2
		members, attributes = appendIndexDims(members, attributes, dimension)
		contractID, ok := fv.dict.LookupContract(contractName)
		if !ok {
			return
		}
		balMembers := append(append([]Member{}, members...), GlobalMember("balance"))
		balAttrs := append(append([]string{}, attributes...), "balance")
		fv.updateFlats("uint", balMembers, balAttrs)

		for _, sw := range fv.dict.LookupStates(contractID) {
			fMembers := append(append([]Member{}, members...), RefMember(sw.Node.ID))
			fAttrs := append(append([]string{}, attributes...), sw.Node.AttrString("name"))
			fv.updateFlats(normalizeKind(sw), fMembers, fAttrs)
		}
		for _, funcw := range fv.dict.LookupFunctions(contractID) {
			fMembers := append(append([]Member{}, members...), RefMember(funcw.Node.ID))
			fAttrs := append(append([]string{}, attributes...), funcw.Node.AttrString("name"))
			children := funcw.DirectChilds(nil)
			if len(children) < 2 {
				fv.updateFlats("void", fMembers, fAttrs)
				continue
			}
			returns := children[1].DirectChilds(nil)
			if len(returns) == 0 {
				fv.updateFlats("void", fMembers, fAttrs)
			} else {
				fv.updateFlats(normalizeKind(returns[0]), fMembers, fAttrs)
			}
		}
		return
	}

	if props, ok := builtinProperties[kind]; ok {
		for _, prop := range props {
			pMembers := append(append([]Member{}, members...), GlobalMember(prop[0]))
			pAttrs := append(append([]string{}, attributes...), prop[0])
			fv.flats = append(fv.flats, flatEntry{
				members:    pMembers,
				attributes: strings.Join(pAttrs, "."),
				kind:       prop[1],
			})
		}
		return
	}

	fv.flats = append(fv.flats, flatEntry{
		members:    members,
		attributes: strings.Join(attributes, "."),
		kind:       kind,
	})
}

func appendIndexDims(members []Member, attributes []string, dimension int) ([]Member, []string) {
	members = append([]Member{}, members...)
	attributes = append([]string{}, attributes...)
	for i := 0; i < dimension; i++ {
		members = append(members, IndexMember())
		attributes = append(attributes, "$")
	}
	return members, attributes
}

// mappingValueType extracts the value-type substring of a "mapping(K =>
// V)" kind string by tracking paren depth, mirroring update_flats's
// character-scan in the original.
func mappingValueType(kind string) string {
	depth := 0
	from, to := 0, len(kind)
	for i := 0; i < len(kind); i++ {
		switch kind[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				to = i - 1
			}
		}
		if depth == 1 && i >= 1 && kind[i-1:i+1] == "=>" {
			from = i + 1
		}
	}
	if from > to || to+1 > len(kind) || from < 0 {
		return ""
	}
	return kind[from : to+1]
}

// Variables returns the set of leaf Variables whose flattened attribute
// path is a prefix match of the observed access path.
func (fv *FlatVariable) Variables() []Variable {
	want := strings.Join(fv.attributes, ".")
	var out []Variable
	for _, flat := range fv.flats {
		if strings.HasPrefix(flat.attributes, want) {
			out = append(out, Variable{Members: flat.members, Source: flat.attributes})
		}
	}
	return out
}
