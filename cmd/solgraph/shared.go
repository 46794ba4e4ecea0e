package main

import (
	"context"
	"fmt"
	"os"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/loader"
)

var cmdOut = os.Stdout

func loadDictionary(ctx context.Context) (*ast.Dictionary, error) {
	path := manifestPath()
	if path == "" {
		return nil, fmt.Errorf("solgraph: --manifest is required")
	}
	b, l, err := loader.Load(ctx, loader.New(), path)
	if err != nil {
		return nil, fmt.Errorf("solgraph: loading %q: %w\n%s", path, err, l)
	}
	return b.Dict, nil
}

func resolveContract(dict *ast.Dictionary) (uint32, error) {
	name := contractName()
	if name == "" {
		return 0, fmt.Errorf("solgraph: --contract is required")
	}
	id, ok := dict.LookupContract(name)
	if !ok {
		return 0, fmt.Errorf("solgraph: no contract named %q", name)
	}
	return id, nil
}

func resolveFunction(dict *ast.Dictionary, contractID uint32) (uint32, error) {
	name := functionName()
	if name == "" {
		return 0, fmt.Errorf("solgraph: --function is required")
	}
	for _, w := range dict.LookupFunctions(contractID) {
		if w.Node.AttrString("name") == name {
			return w.Node.ID, nil
		}
	}
	return 0, fmt.Errorf("solgraph: no function named %q in contract", name)
}
