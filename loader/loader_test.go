package loader

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeManifestFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	source := "contract C { function f() public {} }"
	if err := os.WriteFile(filepath.Join(dir, "c.sol"), []byte(source), 0o644); err != nil {
		t.Fatalf("writing source fixture: %v", err)
	}

	root := map[string]interface{}{
		"id": float64(0), "name": "SourceUnit", "src": "0:10:0",
		"children": []interface{}{
			map[string]interface{}{
				"id": float64(1), "name": "ContractDefinition", "src": "0:10:0",
				"attributes": map[string]interface{}{"name": "C"},
			},
		},
	}
	bundle := map[string]interface{}{
		"sourceList": []string{"c.sol"},
		"sources": map[string]interface{}{
			"c.sol": map[string]interface{}{"AST": root},
		},
	}
	raw, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshaling manifest fixture: %v", err)
	}
	manifestPath := filepath.Join(dir, "combined.json")
	if err := os.WriteFile(manifestPath, raw, 0o644); err != nil {
		t.Fatalf("writing manifest fixture: %v", err)
	}
	return manifestPath
}

func TestLoadReadsManifestAndSources(t *testing.T) {
	manifestPath := writeManifestFixture(t)

	b, l, err := Load(context.Background(), New(), manifestPath)
	if err != nil {
		t.Fatalf("Load: %v (log: %s)", err, l)
	}
	if _, ok := b.Dict.LookupContract("C"); !ok {
		t.Fatalf("expected Dictionary to contain contract C, log: %s", l)
	}
}

func TestLoadMissingManifestIsFatal(t *testing.T) {
	_, l, err := Load(context.Background(), New(), filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
	if !l.ContainsFatal() {
		t.Errorf("expected a fatal log entry, got %s", l)
	}
}
