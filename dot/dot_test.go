package dot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/cfg"
)

func buildSimpleFunction(t *testing.T) *cfg.CFG {
	t.Helper()
	source := strings.Repeat(" ", 100)
	params := &ast.RawNode{ID: 10, Name: "ParameterList", Src: "1:1:0"}
	body := &ast.RawNode{ID: 11, Name: "Block", Src: "5:10:0"}
	funcDef := &ast.RawNode{ID: 12, Name: "FunctionDefinition", Src: "0:20:0",
		Attributes: map[string]interface{}{"name": "f"},
		Children:   []*ast.RawNode{params, body},
	}
	contract := &ast.RawNode{ID: 1, Name: "ContractDefinition", Src: "0:30:0",
		Attributes: map[string]interface{}{"name": "C"},
		Children:   []*ast.RawNode{funcDef},
	}
	asts := map[string]*ast.RawNode{"c.sol": {ID: 0, Name: "SourceUnit", Src: "0:30:0", Children: []*ast.RawNode{contract}}}
	sources := map[string]string{"c.sol": source}
	dict, l, err := ast.New(asts, sources)
	if err != nil {
		t.Fatalf("ast.New: %v (log: %s)", err, l)
	}
	c, cl, err := cfg.New(dict, 1, 12)
	if err != nil {
		t.Fatalf("cfg.New: %v (log: %s)", err, cl)
	}
	return c
}

func TestRenderEmitsDigraphWithShapesAndEdges(t *testing.T) {
	c := buildSimpleFunction(t)
	out := Render(c)

	if !strings.HasPrefix(out, "digraph {") {
		t.Fatalf("expected digraph header, got %q", out)
	}
	if !strings.HasSuffix(out, "}") {
		t.Fatalf("expected trailing brace, got %q", out)
	}
	if !strings.Contains(out, fmt.Sprintf("%d -> %d;", c.Start(), c.Stop())) {
		t.Errorf("expected an edge from start to stop, got %q", out)
	}
	if !strings.Contains(out, `shape="point"`) {
		t.Errorf("expected a point-shaped sentinel vertex, got %q", out)
	}
}
