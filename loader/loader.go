// Package loader is the one place solgraph touches the filesystem: it
// reads a Solidity compiler's `--combined-json ast` manifest and the
// source files it references, through an afs.Service so the same code
// path serves a local path, an s3:// URI, or a gs:// URI without a
// rewrite, then hands the result to ast.New.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/viant/afs"

	"github.com/solgraph/solgraph/ast"
	"github.com/solgraph/solgraph/log"
)

// manifest is the top-level shape of a `--combined-json ast` bundle:
// sourceList names every compiled unit in order, sources maps each name
// to its AST (and, in solc's own output, a few other keys this loader
// doesn't need).
type manifest struct {
	SourceList []string                  `json:"sourceList"`
	Sources    map[string]manifestSource `json:"sources"`
}

type manifestSource struct {
	AST *ast.RawNode `json:"AST"`
}

// Bundle is a fully loaded compilation unit, ready for cfg.New/dfg.New/
// network.New to consume.
type Bundle struct {
	Dict *ast.Dictionary
}

// Load reads manifestPath through storage, resolves each of its
// sourceList entries' source text (at the same base path as the
// manifest itself, mirroring where solc writes a combined-json bundle
// relative to the sources it compiled), and builds the resulting
// ast.Dictionary. A source file missing from the manifest's own
// "sources" map, or with no AST of its own, is logged as a Warning and
// skipped rather than aborting the whole bundle; a manifest that can't
// be read or parsed, or a source file that can't be downloaded, is a
// MalformedInput and aborts with a non-nil error.
func Load(ctx context.Context, storage afs.Service, manifestPath string) (*Bundle, *log.Log, error) {
	l := log.New()

	raw, err := storage.DownloadWithURL(ctx, manifestPath)
	if err != nil {
		l.Add(log.FatalError, fmt.Sprintf("loader: reading manifest %q: %v", manifestPath, err))
		return nil, l, fmt.Errorf("loader: reading manifest %q: %w", manifestPath, err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		l.Add(log.FatalError, fmt.Sprintf("loader: parsing manifest %q: %v", manifestPath, err))
		return nil, l, fmt.Errorf("loader: parsing manifest %q: %w", manifestPath, err)
	}

	base := path.Dir(manifestPath)
	asts := map[string]*ast.RawNode{}
	sources := map[string]string{}

	for _, name := range m.SourceList {
		entry, ok := m.Sources[name]
		if !ok || entry.AST == nil {
			l.Add(log.Warning, fmt.Sprintf("loader: %q listed in sourceList but missing an AST, skipping", name))
			continue
		}

		sourcePath := name
		if !path.IsAbs(name) {
			sourcePath = path.Join(base, name)
		}
		content, err := storage.DownloadWithURL(ctx, sourcePath)
		if err != nil {
			l.Add(log.FatalError, fmt.Sprintf("loader: reading source %q: %v", sourcePath, err))
			return nil, l, fmt.Errorf("loader: reading source %q: %w", sourcePath, err)
		}

		asts[name] = entry.AST
		sources[name] = string(content)
	}

	if len(asts) == 0 {
		l.Add(log.FatalError, fmt.Sprintf("loader: manifest %q yielded no usable sources", manifestPath))
		return nil, l, fmt.Errorf("loader: manifest %q yielded no usable sources", manifestPath)
	}

	dict, dl, err := ast.New(asts, sources)
	l.Merge(dl)
	if err != nil {
		return nil, l, err
	}
	return &Bundle{Dict: dict}, l, nil
}

// New returns the default afs.Service, resolving local paths as well as
// any scheme afs has a registered storager for (s3://, gs://, ...).
func New() afs.Service {
	return afs.New()
}
