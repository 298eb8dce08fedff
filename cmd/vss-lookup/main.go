// Command vss-lookup resolves dotted signal names against a VSS tree and
// prints the signal metadata.
//
// Usage:
//
//	vss-lookup [flags] <name> [name ...]
//
// Flags:
//
//	-tree string   Tree file (.json, .cbor, .vspec); default: embedded tree
//	-json          Output as JSON instead of text
//
// Exit code is 0 when every name resolves, 1 when any lookup fails,
// 2 on operational errors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/vss-tools/vss-go/internal/treefile"
	"github.com/vss-tools/vss-go/pkg/tree"
)

// result is the JSON output structure for one lookup.
type result struct {
	Name        string   `json:"name"`
	Found       bool     `json:"found"`
	Error       string   `json:"error,omitempty"`
	Type        string   `json:"type,omitempty"`
	Datatype    string   `json:"datatype,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Default     any      `json:"default,omitempty"`
	Allowed     []string `json:"allowed,omitempty"`
	UUID        string   `json:"uuid,omitempty"`
	Description string   `json:"description,omitempty"`
}

func main() {
	var treePath string
	var jsonOutput bool
	flag.StringVar(&treePath, "tree", "", "Tree file (.json, .cbor, .vspec); default: embedded tree")
	flag.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "usage: vss-lookup [flags] <name> [name ...]")
		os.Exit(2)
	}

	t, err := treefile.Load(treePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	results := make([]result, 0, len(names))
	failed := false
	for _, name := range names {
		r := lookup(t, name)
		if !r.Found {
			failed = true
		}
		results = append(results, r)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	} else {
		for _, r := range results {
			printResult(r)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func lookup(t tree.Tree, name string) result {
	s, err := t.Find(name)
	if err != nil {
		return result{Name: name, Error: err.Error()}
	}

	r := result{
		Name:        s.Name(),
		Found:       true,
		Type:        s.Type().String(),
		Datatype:    s.Datatype().String(),
		UUID:        s.UUID(),
		Default:     s.Default(),
		Allowed:     s.Allowed(),
		Description: s.Description(),
	}
	if s.UnitName() != "dimensionless" {
		r.Unit = s.UnitName()
	}
	if min, max, ok := s.Bounds(); ok {
		r.Min, r.Max = &min, &max
	}
	return r
}

func printResult(r result) {
	if !r.Found {
		fmt.Printf("%s: %s\n", r.Name, r.Error)
		return
	}

	fmt.Printf("%s\n", r.Name)
	fmt.Printf("  type:     %s\n", r.Type)
	fmt.Printf("  datatype: %s\n", r.Datatype)
	if r.Unit != "" {
		fmt.Printf("  unit:     %s\n", r.Unit)
	}
	if r.Min != nil {
		fmt.Printf("  range:    [%g, %g]\n", *r.Min, *r.Max)
	}
	if r.Default != nil {
		fmt.Printf("  default:  %v\n", r.Default)
	}
	if len(r.Allowed) > 0 {
		fmt.Printf("  allowed:  %v\n", r.Allowed)
	}
	if r.UUID != "" {
		fmt.Printf("  uuid:     %s\n", r.UUID)
	}
	if r.Description != "" {
		fmt.Printf("  %s\n", r.Description)
	}
}
