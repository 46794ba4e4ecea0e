package cfg

import (
	"strings"
	"testing"

	"github.com/solgraph/solgraph/ast"
)

// buildConditionCallAndExpressionSource builds a contract with two state
// variables followed by:
//
//	function f7() public {
//	    if (f() && cond) trueStmt; else falseStmt;
//	}
//
// where f() is a bare call with no arguments. The condition subtree splits
// into a call fragment followed by the condition's own residue, so the
// branch point is a Diamond vertex fed by an Mdiamond call fragment —
// mirroring a condition that mixes a function call with a plain boolean
// expression.
func buildConditionCallAndExpressionSource() (map[string]*ast.RawNode, map[string]string) {
	source := strings.Repeat(" ", 300)

	calleeIdent := &ast.RawNode{ID: 25, Name: "Identifier", Src: "40:1:0", Attributes: map[string]interface{}{"value": "f"}}
	callNode := &ast.RawNode{ID: 26, Name: "FunctionCall", Src: "40:3:0", Children: []*ast.RawNode{calleeIdent}}
	rhs := &ast.RawNode{ID: 29, Name: "Literal", Src: "45:4:0"}
	cond := &ast.RawNode{ID: 28, Name: "BinaryOperation", Src: "40:10:0", Children: []*ast.RawNode{callNode, rhs}}
	trueStmt := &ast.RawNode{ID: 36, Name: "ExpressionStatement", Src: "60:5:0"}
	falseStmt := &ast.RawNode{ID: 32, Name: "ExpressionStatement", Src: "70:5:0"}
	ifStmt := &ast.RawNode{ID: 27, Name: "IfStatement", Src: "38:40:0", Children: []*ast.RawNode{cond, trueStmt, falseStmt}}
	body := &ast.RawNode{ID: 40, Name: "Block", Src: "36:50:0", Children: []*ast.RawNode{ifStmt}}
	params := &ast.RawNode{ID: 2, Name: "ParameterList", Src: "30:2:0"}
	funcDef := &ast.RawNode{ID: 39, Name: "FunctionDefinition", Src: "20:80:0",
		Attributes: map[string]interface{}{"name": "f7"},
		Children:   []*ast.RawNode{params, body},
	}
	state10 := &ast.RawNode{ID: 10, Name: "VariableDeclaration", Src: "5:5:0", Attributes: map[string]interface{}{"name": "a"}}
	state11 := &ast.RawNode{ID: 11, Name: "VariableDeclaration", Src: "12:5:0", Attributes: map[string]interface{}{"name": "b"}}
	contract := &ast.RawNode{ID: 1, Name: "ContractDefinition", Src: "0:200:0",
		Attributes: map[string]interface{}{"name": "C"},
		Children:   []*ast.RawNode{state10, state11, funcDef},
	}

	asts := map[string]*ast.RawNode{
		"c.sol": {ID: 0, Name: "SourceUnit", Src: "0:200:0", Children: []*ast.RawNode{contract}},
	}
	sources := map[string]string{"c.sol": source}
	return asts, sources
}

func TestCFGConditionCombinesCallAndExpression(t *testing.T) {
	asts, sources := buildConditionCallAndExpressionSource()
	dict, l, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v (log: %s)", err, l)
	}
	contractID, ok := dict.LookupContract("C")
	if !ok {
		t.Fatal("expected contract C")
	}

	g, l, err := New(dict, contractID, 39)
	if err != nil {
		t.Fatalf("cfg.New: %v (log: %s)", err, l)
	}

	if got := len(g.Vertices()); got != 8 {
		t.Fatalf("expected 8 vertices, got %d: %+v", got, g.Vertices())
	}
	if got := len(g.Edges()); got != 8 {
		t.Fatalf("expected 8 edges, got %d: %+v", got, g.Edges())
	}

	if v, ok := g.Vertices()[28]; !ok || v.Shape != Diamond {
		t.Fatalf("expected the condition residue (28) to be a Diamond vertex, got %+v ok=%v", v, ok)
	}
	if v, ok := g.Vertices()[26]; !ok || v.Shape != Mdiamond {
		t.Fatalf("expected the call fragment (26) to be an Mdiamond vertex, got %+v ok=%v", v, ok)
	}

	for _, e := range []Edge{
		{From: 26, To: 28},
		{From: 28, To: 36},
		{From: 28, To: 32},
		{From: 32, To: g.Stop()},
		{From: 36, To: g.Stop()},
	} {
		if !g.Edges()[e] {
			t.Errorf("missing expected edge %+v, edges: %+v", e, g.Edges())
		}
	}
}

// buildWhileLoopSource builds a contract with two state variables followed
// by:
//
//	function loop() public {
//	    while (cond) { stmt12; stmt13; }
//	}
//
// a two-statement loop body feeding back into its own condition vertex.
func buildWhileLoopSource() (map[string]*ast.RawNode, map[string]string) {
	source := strings.Repeat(" ", 200)

	cond := &ast.RawNode{ID: 8, Name: "BinaryOperation", Src: "30:5:0"}
	stmt12 := &ast.RawNode{ID: 12, Name: "ExpressionStatement", Src: "40:5:0"}
	stmt13 := &ast.RawNode{ID: 13, Name: "ExpressionStatement", Src: "50:5:0"}
	loopBody := &ast.RawNode{ID: 14, Name: "Block", Src: "38:20:0", Children: []*ast.RawNode{stmt12, stmt13}}
	whileStmt := &ast.RawNode{ID: 15, Name: "WhileStatement", Src: "28:35:0", Children: []*ast.RawNode{cond, loopBody}}
	body := &ast.RawNode{ID: 16, Name: "Block", Src: "26:40:0", Children: []*ast.RawNode{whileStmt}}
	params := &ast.RawNode{ID: 17, Name: "ParameterList", Src: "20:2:0"}
	funcDef := &ast.RawNode{ID: 18, Name: "FunctionDefinition", Src: "10:60:0",
		Attributes: map[string]interface{}{"name": "loop"},
		Children:   []*ast.RawNode{params, body},
	}
	state50 := &ast.RawNode{ID: 50, Name: "VariableDeclaration", Src: "1:3:0", Attributes: map[string]interface{}{"name": "a"}}
	state51 := &ast.RawNode{ID: 51, Name: "VariableDeclaration", Src: "4:3:0", Attributes: map[string]interface{}{"name": "b"}}
	contract := &ast.RawNode{ID: 19, Name: "ContractDefinition", Src: "0:100:0",
		Attributes: map[string]interface{}{"name": "L"},
		Children:   []*ast.RawNode{state50, state51, funcDef},
	}

	asts := map[string]*ast.RawNode{
		"l.sol": {ID: 0, Name: "SourceUnit", Src: "0:100:0", Children: []*ast.RawNode{contract}},
	}
	sources := map[string]string{"l.sol": source}
	return asts, sources
}

func TestCFGWhileLoopBodyLoopsBack(t *testing.T) {
	asts, sources := buildWhileLoopSource()
	dict, l, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v (log: %s)", err, l)
	}
	contractID, ok := dict.LookupContract("L")
	if !ok {
		t.Fatal("expected contract L")
	}

	g, l, err := New(dict, contractID, 18)
	if err != nil {
		t.Fatalf("cfg.New: %v (log: %s)", err, l)
	}

	if got := len(g.Vertices()); got != 7 {
		t.Fatalf("expected 7 vertices, got %d: %+v", got, g.Vertices())
	}
	if got := len(g.Edges()); got != 7 {
		t.Fatalf("expected 7 edges, got %d: %+v", got, g.Edges())
	}

	for _, e := range []Edge{
		{From: 8, To: 12},
		{From: 12, To: 13},
		{From: 13, To: 8},
		{From: 8, To: g.Stop()},
	} {
		if !g.Edges()[e] {
			t.Errorf("missing expected edge %+v, edges: %+v", e, g.Edges())
		}
	}
}
