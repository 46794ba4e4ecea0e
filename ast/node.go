// Package ast models the compiler-produced Solidity AST (solc's
// --combined-json ast layout) as a small node/walker pair, and indexes it
// into a Dictionary that answers the semantic lookups the rest of solgraph
// needs: which functions and state variables a contract has (including
// inherited ones), which statements return from a function, which
// expressions are function calls, and so on.
package ast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawNode is the JSON shape of one AST node in a combined-json bundle:
// {"id":.., "name":.., "src":"off:len:fileIdx", "attributes":{...},
//  "children":[...]}.
type RawNode struct {
	ID         uint32                 `json:"id"`
	Name       string                 `json:"name"`
	Src        string                 `json:"src"`
	Attributes map[string]interface{} `json:"attributes"`
	Children   []*RawNode             `json:"children"`
}

// Node is a resolved AST node: its id, tag name, the source slice it
// spans, and its attribute map. Children are not embedded in Node itself —
// callers hold a Walker and ask it for children, exactly as the original
// kept the JSON tree around and built short-lived Node values on demand.
type Node struct {
	ID         uint32
	Name       string
	Source     string
	Attributes map[string]interface{}
	raw        *RawNode
}

// AttrString returns attributes[key] as a string, or "" if absent or not a
// string. Used pervasively for "type", "value", "operator", "referencedDeclaration".
func (n Node) AttrString(key string) string {
	v, ok := n.Attributes[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// AttrBool returns attributes[key] as a bool, defaulting to false.
func (n Node) AttrBool(key string) bool {
	v, ok := n.Attributes[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// AttrUint32 returns attributes[key] as a uint32 and whether it was present
// and numeric. JSON numbers decode as float64 via encoding/json.
func (n Node) AttrUint32(key string) (uint32, bool) {
	v, ok := n.Attributes[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return uint32(f), true
}

// parseSrc splits a "offset:length:fileIndex" src string into its parts.
func parseSrc(src string) (offset, length int, err error) {
	parts := strings.Split(src, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("ast: malformed src %q", src)
	}
	offset, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("ast: malformed src offset %q: %w", src, err)
	}
	length, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("ast: malformed src length %q: %w", src, err)
	}
	return offset, length, nil
}

// DecodeRaw unmarshals one AST subtree from a combined-json "AST" value.
func DecodeRaw(data []byte) (*RawNode, error) {
	var raw RawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	return &raw, nil
}

func newNode(raw *RawNode, source string) (Node, error) {
	offset, length, err := parseSrc(raw.Src)
	if err != nil {
		return Node{}, err
	}
	end := offset + length
	if offset < 0 || end > len(source) || offset > end {
		return Node{}, fmt.Errorf("ast: src %q out of range for source of length %d", raw.Src, len(source))
	}
	return Node{
		ID:         raw.ID,
		Name:       raw.Name,
		Source:     source[offset:end],
		Attributes: raw.Attributes,
		raw:        raw,
	}, nil
}
