package network

import (
	"strings"
	"testing"

	"github.com/solgraph/solgraph/ast"
)

// buildCallSource builds:
//
//	contract N {
//	    function callee(uint a) public returns (uint) { return a; }
//	    function caller() public { callee(5); }
//	}
//
// so findExternalLinks has exactly one call site to resolve: an InFrom
// link from the call to callee's return, an OutTo link from callee's
// declared parameter to the literal argument, and an Executor link from
// the call to the identifier it was invoked through.
func buildCallSource() (map[string]*ast.RawNode, map[string]string, map[string]uint32) {
	source := strings.Repeat(" ", 200)

	paramA := &ast.RawNode{ID: 30, Name: "VariableDeclaration", Src: "1:1:0", Attributes: map[string]interface{}{"name": "a"}}
	calleeParams := &ast.RawNode{ID: 31, Name: "ParameterList", Src: "1:2:0", Children: []*ast.RawNode{paramA}}
	calleeReturns := &ast.RawNode{ID: 32, Name: "ParameterList", Src: "2:2:0"}

	identA := &ast.RawNode{ID: 41, Name: "Identifier", Src: "10:1:0", Attributes: map[string]interface{}{"referencedDeclaration": float64(30), "value": "a"}}
	returnStmt := &ast.RawNode{ID: 40, Name: "Return", Src: "10:3:0", Children: []*ast.RawNode{identA}}
	calleeBody := &ast.RawNode{ID: 33, Name: "Block", Src: "5:20:0", Children: []*ast.RawNode{returnStmt}}
	calleeFuncDef := &ast.RawNode{ID: 20, Name: "FunctionDefinition", Src: "0:40:0",
		Attributes: map[string]interface{}{"name": "callee"},
		Children:   []*ast.RawNode{calleeParams, calleeReturns, calleeBody},
	}

	identCallee := &ast.RawNode{ID: 61, Name: "Identifier", Src: "60:6:0", Attributes: map[string]interface{}{"referencedDeclaration": float64(20), "value": "callee"}}
	literal5 := &ast.RawNode{ID: 62, Name: "Literal", Src: "67:1:0"}
	fnCall := &ast.RawNode{ID: 60, Name: "FunctionCall", Src: "60:9:0", Children: []*ast.RawNode{identCallee, literal5}}
	callerStmt := &ast.RawNode{ID: 51, Name: "ExpressionStatement", Src: "60:10:0", Children: []*ast.RawNode{fnCall}}
	callerParams := &ast.RawNode{ID: 54, Name: "ParameterList", Src: "59:1:0"}
	callerBody := &ast.RawNode{ID: 53, Name: "Block", Src: "58:20:0", Children: []*ast.RawNode{callerStmt}}
	callerFuncDef := &ast.RawNode{ID: 21, Name: "FunctionDefinition", Src: "50:40:0",
		Attributes: map[string]interface{}{"name": "caller"},
		Children:   []*ast.RawNode{callerParams, callerBody},
	}

	contract := &ast.RawNode{ID: 1, Name: "ContractDefinition", Src: "0:100:0",
		Attributes: map[string]interface{}{"name": "N"},
		Children:   []*ast.RawNode{calleeFuncDef, callerFuncDef},
	}

	asts := map[string]*ast.RawNode{
		"n.sol": {ID: 0, Name: "SourceUnit", Src: "0:100:0", Children: []*ast.RawNode{contract}},
	}
	sources := map[string]string{"n.sol": source}
	ids := map[string]uint32{"call": 60, "return": 40, "param": 30, "arg": 62, "callee": 61}
	return asts, sources, ids
}

func buildCallNetwork(t *testing.T) (*Network, map[string]uint32) {
	t.Helper()
	asts, sources, ids := buildCallSource()
	dict, l, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v (log: %s)", err, l)
	}
	contractID, ok := dict.LookupContract("N")
	if !ok {
		t.Fatal("expected contract N")
	}
	n, nl, err := New(dict, contractID)
	if err != nil {
		t.Fatalf("network.New: %v (log: %s)", err, nl)
	}
	return n, ids
}

func TestNetworkLinksCallToCalleeReturnAndParameter(t *testing.T) {
	n, ids := buildCallNetwork(t)
	links := n.Links()

	var hasInFrom, hasOutTo, hasExecutor bool
	for _, l := range links {
		switch {
		case l.Label == InFrom && l.From == ids["call"] && l.To == ids["return"]:
			hasInFrom = true
		case l.Label == OutTo && l.From == ids["param"] && l.To == ids["arg"]:
			hasOutTo = true
		case l.Label == Executor && l.From == ids["call"] && l.To == ids["callee"]:
			hasExecutor = true
		}
	}
	if !hasInFrom {
		t.Errorf("expected InFrom link from call to return, got %+v", links)
	}
	if !hasOutTo {
		t.Errorf("expected OutTo link from declared parameter to argument, got %+v", links)
	}
	if !hasExecutor {
		t.Errorf("expected Executor link from call to callee identifier, got %+v", links)
	}
}

func TestNetworkTraverseFollowsCallAndReturn(t *testing.T) {
	n, ids := buildCallNetwork(t)
	paths := n.Traverse(ids["call"])
	if len(paths) == 0 {
		t.Fatal("expected at least one path starting from the call site")
	}
	foundReturn := false
	for _, p := range paths {
		if len(p) == 0 {
			t.Fatal("path must contain at least the starting link")
		}
		if p[0].Label == InFrom && p[0].To == ids["return"] {
			foundReturn = true
		}
	}
	if !foundReturn {
		t.Fatalf("expected a path following the call into callee's return, got %+v", paths)
	}
}
