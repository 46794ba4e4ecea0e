package dfg

import (
	"strings"
	"testing"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/variable"
)

// buildReassignSource builds:
//
//	contract D {
//	    function f(uint x, uint y) public {
//	        x = 1;
//	        y = x;
//	    }
//	}
//
// so the data flow pass has exactly one real dependency to find: the read
// of x in the second statement depends on the write to x in the first.
func buildReassignSource() (map[string]*ast.RawNode, map[string]string, map[string]uint32) {
	source := strings.Repeat(" ", 200)

	xDecl := &ast.RawNode{ID: 20, Name: "VariableDeclaration", Src: "1:1:0", Attributes: map[string]interface{}{"name": "x"}}
	yDecl := &ast.RawNode{ID: 21, Name: "VariableDeclaration", Src: "2:1:0", Attributes: map[string]interface{}{"name": "y"}}
	params := &ast.RawNode{ID: 2, Name: "ParameterList", Src: "1:2:0", Children: []*ast.RawNode{xDecl, yDecl}}

	identXLHS := &ast.RawNode{ID: 10, Name: "Identifier", Src: "10:1:0", Attributes: map[string]interface{}{"referencedDeclaration": float64(20), "value": "x"}}
	literal1 := &ast.RawNode{ID: 16, Name: "Literal", Src: "12:1:0"}
	assign1 := &ast.RawNode{ID: 9, Name: "Assignment", Src: "10:5:0", Attributes: map[string]interface{}{"operator": "="}, Children: []*ast.RawNode{identXLHS, literal1}}
	stmt1 := &ast.RawNode{ID: 8, Name: "ExpressionStatement", Src: "10:5:0", Children: []*ast.RawNode{assign1}}

	identYLHS := &ast.RawNode{ID: 14, Name: "Identifier", Src: "20:1:0", Attributes: map[string]interface{}{"referencedDeclaration": float64(21), "value": "y"}}
	identXRHS := &ast.RawNode{ID: 15, Name: "Identifier", Src: "22:1:0", Attributes: map[string]interface{}{"referencedDeclaration": float64(20), "value": "x"}}
	assign2 := &ast.RawNode{ID: 13, Name: "Assignment", Src: "20:5:0", Attributes: map[string]interface{}{"operator": "="}, Children: []*ast.RawNode{identYLHS, identXRHS}}
	stmt2 := &ast.RawNode{ID: 12, Name: "ExpressionStatement", Src: "20:5:0", Children: []*ast.RawNode{assign2}}

	body := &ast.RawNode{ID: 4, Name: "Block", Src: "5:20:0", Children: []*ast.RawNode{stmt1, stmt2}}
	funcDef := &ast.RawNode{ID: 3, Name: "FunctionDefinition", Src: "0:30:0",
		Attributes: map[string]interface{}{"name": "f"},
		Children:   []*ast.RawNode{params, body},
	}
	contract := &ast.RawNode{ID: 1, Name: "ContractDefinition", Src: "0:40:0",
		Attributes: map[string]interface{}{"name": "D"},
		Children:   []*ast.RawNode{funcDef},
	}

	asts := map[string]*ast.RawNode{
		"d.sol": {ID: 0, Name: "SourceUnit", Src: "0:40:0", Children: []*ast.RawNode{contract}},
	}
	sources := map[string]string{"d.sol": source}
	ids := map[string]uint32{"x": 20, "y": 21, "stmt1": 8, "stmt2": 12}
	return asts, sources, ids
}

func buildReassignCFG(t *testing.T) (*cfg.CFG, map[string]uint32) {
	t.Helper()
	asts, sources, ids := buildReassignSource()
	dict, l, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v (log: %s)", err, l)
	}
	contractID, ok := dict.LookupContract("D")
	if !ok {
		t.Fatal("expected contract D")
	}
	g, l, err := cfg.New(dict, contractID, 3)
	if err != nil {
		t.Fatalf("cfg.New: %v (log: %s)", err, l)
	}
	return g, ids
}

func TestFindLinksReportsReassignDependency(t *testing.T) {
	g, ids := buildReassignCFG(t)
	links := FindLinks(g)

	found := false
	for _, l := range links {
		if l.From == ids["stmt2"] && l.To == ids["stmt1"] {
			found = true
			if len(l.Var.Members) == 0 {
				t.Fatal("expected link variable to carry the x reference member")
			}
		}
	}
	if !found {
		t.Fatalf("expected a link from stmt2 (use of x) to stmt1 (kill of x), got %+v", links)
	}
}

func TestAliasResolvesDirectAssignment(t *testing.T) {
	g, ids := buildReassignCFG(t)
	a := NewAlias(g)

	resolved := a.Resolve(ids["stmt2"], variable.New([]variable.Member{variable.RefMember(ids["y"])}, "y"))
	found := false
	for _, v := range resolved {
		for _, m := range v.Members {
			if m.Kind == variable.Reference && m.ID == ids["x"] {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected y to resolve to x after y = x, got %+v", resolved)
	}
}
