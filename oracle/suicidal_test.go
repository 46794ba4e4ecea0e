package oracle

import (
	"strings"
	"testing"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/network"
)

// buildSuicidalSource builds:
//
//	contract S {
//	    function kill() public { selfdestruct(msg.sender); }
//	}
//
// an unconditional kill-switch: no branch guards the selfdestruct call, so
// Suicidal must report it.
func buildSuicidalSource() (map[string]*ast.RawNode, map[string]string, uint32) {
	source := strings.Repeat(" ", 200)

	msgIdent := &ast.RawNode{ID: 40, Name: "Identifier", Src: "20:3:0", Attributes: map[string]interface{}{"value": "msg"}}
	senderAccess := &ast.RawNode{ID: 41, Name: "MemberAccess", Src: "20:10:0",
		Attributes: map[string]interface{}{"member_name": "sender"},
		Children:   []*ast.RawNode{msgIdent},
	}
	selfdestructIdent := &ast.RawNode{ID: 42, Name: "Identifier", Src: "8:11:0", Attributes: map[string]interface{}{"value": "selfdestruct"}}
	callNode := &ast.RawNode{ID: 43, Name: "FunctionCall", Src: "8:25:0", Children: []*ast.RawNode{selfdestructIdent, senderAccess}}
	exprStmt := &ast.RawNode{ID: 44, Name: "ExpressionStatement", Src: "8:26:0", Children: []*ast.RawNode{callNode}}
	body := &ast.RawNode{ID: 45, Name: "Block", Src: "5:30:0", Children: []*ast.RawNode{exprStmt}}
	params := &ast.RawNode{ID: 46, Name: "ParameterList", Src: "1:2:0"}
	funcDef := &ast.RawNode{ID: 47, Name: "FunctionDefinition", Src: "0:40:0",
		Attributes: map[string]interface{}{"name": "kill"},
		Children:   []*ast.RawNode{params, body},
	}
	contract := &ast.RawNode{ID: 1, Name: "ContractDefinition", Src: "0:100:0",
		Attributes: map[string]interface{}{"name": "S"},
		Children:   []*ast.RawNode{funcDef},
	}

	asts := map[string]*ast.RawNode{
		"s.sol": {ID: 0, Name: "SourceUnit", Src: "0:100:0", Children: []*ast.RawNode{contract}},
	}
	sources := map[string]string{"s.sol": source}
	return asts, sources, funcDef.ID
}

func buildSuicidalNetwork(t *testing.T) (*network.Network, uint32) {
	t.Helper()
	asts, sources, funcID := buildSuicidalSource()
	dict, l, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v (log: %s)", err, l)
	}
	contractID, ok := dict.LookupContract("S")
	if !ok {
		t.Fatal("expected contract S")
	}
	n, nl, err := network.New(dict, contractID)
	if err != nil {
		t.Fatalf("network.New: %v (log: %s)", err, nl)
	}
	return n, funcID
}

func TestSuicidalFlagsUnconditionalSelfdestruct(t *testing.T) {
	n, funcID := buildSuicidalNetwork(t)
	findings := (Suicidal{}).Analyze(n)

	var found bool
	for _, f := range findings {
		if f.Rule == "suicidal" && f.FunctionID == funcID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a suicidal finding for function %d, got %+v", funcID, findings)
	}
}

func TestRunIncludesSuicidalOracle(t *testing.T) {
	n, _ := buildSuicidalNetwork(t)
	findings := Run(n, &Suicidal{})
	if len(findings) == 0 {
		t.Fatal("expected Run to surface at least one finding")
	}
}
