// Package vspec parses VSS source files (.vspec) and compiles them into a
// tree.Tree.
//
// A .vspec file is YAML whose top-level keys are dotted signal names, plus
// "#include <path> [prefix]" directives. Include paths may use glob
// patterns and are resolved against the including file's directory and any
// configured include roots. Later definitions overlay earlier ones per
// field, so a profile file can tighten a base specification.
package vspec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/vss-tools/vss-go/pkg/tree"
)

// Parsing errors.
var (
	ErrIncludeCycle    = errors.New("include cycle")
	ErrIncludeNotFound = errors.New("include not found")
	ErrBadDirective    = errors.New("malformed include directive")
	ErrLeafChildren    = errors.New("cannot add children to a signal leaf")
)

// Entry is a single named definition from a .vspec source, in file order.
type Entry struct {
	// Name is the dotted signal or branch name.
	Name string

	// Node carries the definition fields.
	Node *tree.Node

	// File and Line locate the definition in its source.
	File string
	Line int
}

// Loader resolves includes and parses .vspec sources.
type Loader struct {
	roots []string
}

// NewLoader creates a loader that resolves includes against the given
// roots, after the including file's own directory.
func NewLoader(includeRoots ...string) *Loader {
	return &Loader{roots: includeRoots}
}

// LoadFile parses the file and everything it includes into a flat entry
// list in definition order.
func (l *Loader) LoadFile(path string) ([]Entry, error) {
	return l.load(path, "", make(map[string]bool))
}

// Compile parses the file and builds a tree from it.
func (l *Loader) Compile(path string) (tree.Tree, error) {
	entries, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(entries)
}

// Compile is a convenience for NewLoader(includeRoots...).Compile(path).
func Compile(path string, includeRoots ...string) (tree.Tree, error) {
	return NewLoader(includeRoots...).Compile(path)
}

func (l *Loader) load(path, prefix string, stack map[string]bool) ([]Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if stack[abs] {
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, path)
	}
	stack[abs] = true
	defer delete(stack, abs)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []Entry
	for _, seg := range splitSegments(string(data)) {
		if !seg.directive {
			segEntries, err := parseSegment(path, prefix, seg)
			if err != nil {
				return nil, err
			}
			entries = append(entries, segEntries...)
			continue
		}
		if seg.include == "" {
			return nil, fmt.Errorf("%s:%d: %w: missing path", path, seg.line, ErrBadDirective)
		}

		files, err := l.resolveInclude(filepath.Dir(path), seg.include)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, seg.line, err)
		}
		childPrefix := joinPrefix(prefix, seg.prefix)
		for _, f := range files {
			sub, err := l.load(f, childPrefix, stack)
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)
		}
	}
	return entries, nil
}

// resolveInclude finds the files an include pattern refers to, searching
// the including directory first and then the loader's roots.
func (l *Loader) resolveInclude(dir, pattern string) ([]string, error) {
	for _, root := range append([]string{dir}, l.roots...) {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %v", ErrBadDirective, pattern, err)
		}
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrIncludeNotFound, pattern)
}

func joinPrefix(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	default:
		return outer + "." + inner
	}
}

// segment is a run of YAML content or a single include directive.
type segment struct {
	text      string
	line      int  // 1-based line of the first segment line
	directive bool // segment is an #include line
	include   string
	prefix    string
}

// splitSegments splits source text at #include directives, keeping YAML
// runs intact so key order within a run is preserved.
func splitSegments(src string) []segment {
	var segs []segment
	var cur strings.Builder
	curLine := 1

	flush := func(nextLine int) {
		if strings.TrimSpace(cur.String()) != "" {
			segs = append(segs, segment{text: cur.String(), line: curLine})
		}
		cur.Reset()
		curLine = nextLine
	}

	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#include") {
			flush(i + 2)
			fields := strings.Fields(trimmed)
			seg := segment{line: i + 1, directive: true}
			if len(fields) > 1 {
				seg.include = fields[1]
			}
			if len(fields) > 2 {
				seg.prefix = fields[2]
			}
			segs = append(segs, seg)
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush(0)
	return segs
}

// rawEntry is the YAML shape of one .vspec definition.
type rawEntry struct {
	Type        string   `yaml:"type"`
	Datatype    string   `yaml:"datatype"`
	Unit        string   `yaml:"unit"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	Default     any      `yaml:"default"`
	Allowed     []string `yaml:"allowed"`
	Enum        []string `yaml:"enum"`
	Instances   any      `yaml:"instances"`
	Description string   `yaml:"description"`
	Comment     string   `yaml:"comment"`
	UUID        string   `yaml:"uuid"`
}

// parseSegment decodes one YAML run, preserving top-level key order.
func parseSegment(path, prefix string, seg segment) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(seg.text), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing %s:%d: top level must be a mapping", path, seg.line)
	}

	var entries []Entry
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]

		var raw rawEntry
		if err := valNode.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %q: %w", path, keyNode.Value, err)
		}

		name := keyNode.Value
		if prefix != "" {
			name = prefix + "." + name
		}
		entries = append(entries, Entry{
			Name: name,
			Node: raw.node(),
			File: path,
			Line: seg.line + keyNode.Line - 1,
		})
	}
	return entries, nil
}

func (r *rawEntry) node() *tree.Node {
	n := &tree.Node{
		Type:        r.Type,
		Datatype:    r.Datatype,
		Unit:        r.Unit,
		Min:         r.Min,
		Max:         r.Max,
		Default:     r.Default,
		Allowed:     r.Allowed,
		Enum:        r.Enum,
		Description: r.Description,
		Comment:     r.Comment,
		UUID:        r.UUID,
	}
	if r.Instances != nil {
		n.Instances = tree.NewInstances(r.Instances)
	}
	return n
}

// Build assembles ordered entries into a tree. Dotted names create
// intermediate branches as needed; a second definition of a name overlays
// the first field by field.
func Build(entries []Entry) (tree.Tree, error) {
	t := tree.Tree{}
	for _, e := range entries {
		parts := strings.Split(e.Name, ".")
		for _, p := range parts {
			if p == "" {
				return nil, &tree.SpecError{
					Path: e.Name,
					Msg:  fmt.Sprintf("empty key in name (%s:%d)", e.File, e.Line),
				}
			}
		}

		node, err := descend(t, parts, e)
		if err != nil {
			return nil, err
		}
		merge(node, e.Node)
		// The last definition of a name owns its source location.
		node.File, node.Line = e.File, e.Line
	}
	return t, nil
}

// descend walks to (creating as needed) the node for the entry's path.
func descend(t tree.Tree, parts []string, e Entry) (*tree.Node, error) {
	node, ok := t[parts[0]]
	if !ok {
		node = &tree.Node{}
		t[parts[0]] = node
	}

	for _, p := range parts[1:] {
		if !node.IsBranch() {
			return nil, &tree.SpecError{
				Path: e.Name,
				Msg:  fmt.Sprintf("%s (%s:%d)", ErrLeafChildren, e.File, e.Line),
				Err:  ErrLeafChildren,
			}
		}
		if node.Children == nil {
			node.Children = make(map[string]*tree.Node)
		}
		child, ok := node.Children[p]
		if !ok {
			child = &tree.Node{}
			node.Children[p] = child
		}
		node = child
	}
	return node, nil
}

// merge overlays src's set fields onto dst, keeping dst's children.
func merge(dst, src *tree.Node) {
	if src.Type != "" {
		dst.Type = src.Type
	}
	if src.Datatype != "" {
		dst.Datatype = src.Datatype
	}
	if src.Unit != "" {
		dst.Unit = src.Unit
	}
	if src.Min != nil {
		dst.Min = src.Min
	}
	if src.Max != nil {
		dst.Max = src.Max
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if len(src.Allowed) > 0 {
		dst.Allowed = src.Allowed
	}
	if len(src.Enum) > 0 {
		dst.Enum = src.Enum
	}
	if src.Instances != nil {
		dst.Instances = src.Instances
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Comment != "" {
		dst.Comment = src.Comment
	}
	if src.UUID != "" {
		dst.UUID = src.UUID
	}
}
