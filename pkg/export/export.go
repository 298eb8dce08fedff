// Package export converts VSS trees between interchange formats: the JSON
// layout produced by vss-tools and a compact CBOR encoding suitable for
// embedding and caching.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/vss-tools/vss-go/pkg/tree"
)

// treeEncMode is the CBOR encoder mode for trees: canonical ordering so
// equal trees encode byte-identically.
var treeEncMode cbor.EncMode

// treeDecMode is the CBOR decoder mode for trees.
var treeDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	treeEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create tree CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	treeDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create tree CBOR decoder mode: %v", err))
	}
}

// cborNode is the compact integer-keyed wire form of a tree node.
type cborNode struct {
	Type        string               `cbor:"1,keyasint,omitempty"`
	Description string               `cbor:"2,keyasint,omitempty"`
	Comment     string               `cbor:"3,keyasint,omitempty"`
	Datatype    string               `cbor:"4,keyasint,omitempty"`
	Unit        string               `cbor:"5,keyasint,omitempty"`
	Min         *float64             `cbor:"6,keyasint,omitempty"`
	Max         *float64             `cbor:"7,keyasint,omitempty"`
	Default     any                  `cbor:"8,keyasint,omitempty"`
	Allowed     []string             `cbor:"9,keyasint,omitempty"`
	Instances   any                  `cbor:"10,keyasint,omitempty"`
	UUID        string               `cbor:"11,keyasint,omitempty"`
	Children    map[string]*cborNode `cbor:"12,keyasint,omitempty"`
}

func toWire(n *tree.Node) *cborNode {
	w := &cborNode{
		Type:        n.Type,
		Description: n.Description,
		Comment:     n.Comment,
		Datatype:    n.Datatype,
		Unit:        n.Unit,
		Min:         n.Min,
		Max:         n.Max,
		Default:     n.Default,
		// The older "enum" spelling normalizes to "allowed" on export.
		Allowed: n.AllowedValues(),
		UUID:    n.UUID,
	}
	if n.Instances != nil {
		w.Instances = n.Instances.Declaration()
	}
	if len(n.Children) > 0 {
		w.Children = make(map[string]*cborNode, len(n.Children))
		for name, child := range n.Children {
			w.Children[name] = toWire(child)
		}
	}
	return w
}

func fromWire(w *cborNode) *tree.Node {
	n := &tree.Node{
		Type:        w.Type,
		Description: w.Description,
		Comment:     w.Comment,
		Datatype:    w.Datatype,
		Unit:        w.Unit,
		Min:         w.Min,
		Max:         w.Max,
		Default:     w.Default,
		Allowed:     w.Allowed,
		UUID:        w.UUID,
	}
	if w.Instances != nil {
		n.Instances = tree.NewInstances(normalize(w.Instances))
	}
	if len(w.Children) > 0 {
		n.Children = make(map[string]*tree.Node, len(w.Children))
		for name, child := range w.Children {
			n.Children[name] = fromWire(child)
		}
	}
	return n
}

// normalize converts CBOR's interface decodings ([]interface{} with
// possible string elements) into the shapes tree.NewInstances accepts.
func normalize(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(list))
	for i, el := range list {
		out[i] = normalize(el)
	}
	return out
}

// EncodeTree encodes a tree to canonical CBOR bytes.
func EncodeTree(t tree.Tree) ([]byte, error) {
	wire := make(map[string]*cborNode, len(t))
	for domain, n := range t {
		wire[domain] = toWire(n)
	}
	return treeEncMode.Marshal(wire)
}

// DecodeTree decodes CBOR bytes produced by EncodeTree.
func DecodeTree(data []byte) (tree.Tree, error) {
	var wire map[string]*cborNode
	if err := treeDecMode.Unmarshal(data, &wire); err != nil {
		return nil, &tree.SpecError{Msg: "invalid VSS tree CBOR", Err: err}
	}
	if len(wire) == 0 {
		return nil, &tree.SpecError{Msg: "empty VSS tree"}
	}
	t := make(tree.Tree, len(wire))
	for domain, n := range wire {
		t[domain] = fromWire(n)
	}
	return t, nil
}

// WriteCBORFile writes the tree to path in CBOR format.
func WriteCBORFile(path string, t tree.Tree) error {
	data, err := EncodeTree(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadCBORFile reads a CBOR tree file.
func ReadCBORFile(path string) (tree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeTree(data)
}

// WriteJSON writes the tree as indented JSON with stable key order.
func WriteJSON(w io.Writer, t tree.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteJSONFile writes the tree to path as indented JSON.
func WriteJSONFile(path string, t tree.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
