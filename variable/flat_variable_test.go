package variable

import (
	"testing"

	"github.com/solgraph/solgraph/ast"
)

// buildMsgSender returns an AST fragment for the expression `msg.sender`
// and the Dictionary to resolve it against.
func buildMsgSender(t *testing.T) (ast.Walker, *ast.Dictionary) {
	t.Helper()
	source := "msg.sender"
	identMsg := &ast.RawNode{ID: 1, Name: "Identifier", Src: "0:3:0",
		Attributes: map[string]interface{}{"value": "msg", "type": "msg"},
	}
	memberAccess := &ast.RawNode{ID: 2, Name: "MemberAccess", Src: "0:10:0",
		Attributes: map[string]interface{}{"member_name": "sender", "type": "address"},
		Children:   []*ast.RawNode{identMsg},
	}
	asts := map[string]*ast.RawNode{"a.sol": {ID: 0, Name: "SourceUnit", Src: "0:10:0", Children: []*ast.RawNode{memberAccess}}}
	sources := map[string]string{"a.sol": source}
	dict, _, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v", err)
	}
	w, ok := dict.Lookup(2)
	if !ok {
		t.Fatal("expected to find MemberAccess node")
	}
	return w, dict
}

func TestFlatVariableBuiltinExpansion(t *testing.T) {
	w, dict := buildMsgSender(t)
	fv := NewFlatVariable(w, dict)
	vars := fv.Variables()
	if len(vars) == 0 {
		t.Fatal("expected msg.sender to flatten to at least one leaf variable")
	}
	found := false
	for _, v := range vars {
		if len(v.Members) == 2 && v.Members[0].Kind == Global && v.Members[0].Name == "msg" &&
			v.Members[1].Kind == Global && v.Members[1].Name == "sender" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Global(msg).Global(sender) leaf, got %+v", vars)
	}
}
