// Package tree loads Vehicle Signal Specification trees and resolves
// signals by dotted path, expanding branch instance declarations along
// the way.
//
// Trees are read from the JSON format exported by the official vss-tools,
// or built by the vspec package from .vspec sources. A release tree ships
// embedded in the package and is returned by Default.
//
// Lookup failures are split into two families: BranchError means the
// caller addressed something the tree does not have, SpecError means the
// tree content itself is malformed. Lookups never mutate the tree, so a
// Tree may be shared between goroutines.
package tree

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Tree is a VSS tree: top-level domains (usually just "Vehicle") mapping
// to their root branch nodes.
type Tree map[string]*Node

// Parse decodes a JSON VSS tree.
func Parse(data []byte) (Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &SpecError{Msg: "invalid VSS tree JSON", Err: err}
	}
	if len(t) == 0 {
		return nil, &SpecError{Msg: "empty VSS tree"}
	}
	return t, nil
}

// Load reads and parses a JSON VSS tree file.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

//go:embed vss_default.json
var defaultJSON []byte

var (
	defaultOnce sync.Once
	defaultTree Tree
	defaultErr  error
)

// Default returns the embedded release tree. The tree is parsed on first
// use and shared; callers must treat it as read-only.
func Default() (Tree, error) {
	defaultOnce.Do(func() {
		defaultTree, defaultErr = Parse(defaultJSON)
	})
	return defaultTree, defaultErr
}

// Walk visits every node depth-first in sorted key order, calling fn with
// the dotted path elements and the node. Returning an error from fn stops
// the walk and propagates the error.
func (t Tree) Walk(fn func(path []string, n *Node) error) error {
	for _, domain := range sortedKeys(t) {
		if err := walkNode([]string{domain}, t[domain], fn); err != nil {
			return err
		}
	}
	return nil
}

func walkNode(path []string, n *Node, fn func(path []string, n *Node) error) error {
	if err := fn(path, n); err != nil {
		return err
	}
	for _, name := range sortedKeys(n.Children) {
		// Copy the path so fn may retain it across calls.
		child := append(append([]string(nil), path...), name)
		if err := walkNode(child, n.Children[name], fn); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
