package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vss-tools/vss-go/pkg/signal"
	"github.com/vss-tools/vss-go/pkg/unit"
)

// rangePattern matches the condensed instance range format "Name[a,b]".
var rangePattern = regexp.MustCompile(`^(.*)\[(\d+),(\d+)\]$`)

// Find looks up a signal by its dot-delimited name, resolving units
// against the default registry.
func (t Tree) Find(name string) (*signal.Signal, error) {
	return t.FindPath(nil, strings.Split(name, ".")...)
}

// FindPath looks up a signal by its path elements. A nil registry means
// unit.Default().
//
// Returns a BranchError if the path addresses something the tree does not
// have, and a SpecError if the tree content along the path is malformed.
func (t Tree) FindPath(reg *unit.Registry, path ...string) (*signal.Signal, error) {
	if len(path) == 0 {
		return nil, ErrEmptyName
	}
	for _, key := range path {
		if key == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyName, strings.Join(path, "."))
		}
	}

	root, ok := t[path[0]]
	if !ok {
		return nil, &BranchError{Msg: fmt.Sprintf("no such domain %q", path[0])}
	}
	return findSignal(reg, root, path, 1)
}

// Find looks up a signal in the embedded default tree.
func Find(name string) (*signal.Signal, error) {
	t, err := Default()
	if err != nil {
		return nil, err
	}
	return t.Find(name)
}

func findSignal(reg *unit.Registry, n *Node, path []string, idx int) (*signal.Signal, error) {
	// Consume any instance levels declared on this branch before
	// matching children.
	if n.Instances != nil {
		var err error
		idx, err = consumeInstances(n.Instances, path, idx)
		if err != nil {
			return nil, err
		}
	}

	if idx == len(path) {
		// Reached the addressed node; it must be a signal leaf.
		if n.IsBranch() {
			return nil, branchErrorf(path, idx, "node %q is a branch, not a signal", strings.Join(path, "."))
		}
		s, err := signal.New(n.Definition(path), reg)
		if err != nil {
			return nil, &SpecError{
				Path: strings.Join(path, "."),
				Msg:  "malformed signal specification",
				Err:  err,
			}
		}
		return s, nil
	}

	if n.Children == nil {
		return nil, branchErrorf(path, idx,
			"attempted to follow branch %q from leaf node %q",
			strings.Join(path[idx:], "."), strings.Join(path[:idx], "."))
	}
	child, ok := n.Children[path[idx]]
	if !ok {
		return nil, branchErrorf(path, idx,
			"branch %q has no such child %q", strings.Join(path[:idx], "."), path[idx])
	}
	return findSignal(reg, child, path, idx+1)
}

// expandRange expands a condensed "Name[a,b]" pattern into its inclusive
// instance names.
func expandRange(pattern string, path []string, idx int) ([]string, error) {
	m := rangePattern.FindStringSubmatch(pattern)
	if m == nil {
		return nil, specErrorf(path, idx, "malformed instance %q", pattern)
	}
	name := m[1]
	lower, _ := strconv.Atoi(m[2])
	upper, _ := strconv.Atoi(m[3])
	if upper <= lower {
		return nil, specErrorf(path, idx, "empty range [%d,%d] on instance %q", lower, upper, name)
	}

	names := make([]string, 0, upper-lower+1)
	for i := lower; i <= upper; i++ {
		names = append(names, name+strconv.Itoa(i))
	}
	return names, nil
}

// Check reports whether the declaration is structurally usable for
// lookup, without performing one.
func (i *Instances) Check() error {
	if i.invalid != "" {
		return fmt.Errorf("%s", i.invalid)
	}
	if i.Pattern != "" {
		return checkPattern(i.Pattern)
	}
	if len(i.Groups) == 0 {
		return fmt.Errorf("empty instances array")
	}

	allStrings, allLists, allExpand := true, true, true
	for _, g := range i.Groups {
		if g.Names != nil {
			allStrings = false
			continue
		}
		allLists = false
		if checkPattern(g.Pattern) != nil {
			allExpand = false
		}
	}
	// A list where every pattern expands is fine, and so are the two
	// homogeneous fallback shapes. Anything else cannot be consumed.
	if allExpand || allStrings || allLists {
		return nil
	}
	return fmt.Errorf("malformed instances %v", i.Declaration())
}

func checkPattern(pattern string) error {
	m := rangePattern.FindStringSubmatch(pattern)
	if m == nil {
		return fmt.Errorf("malformed instance %q", pattern)
	}
	lower, _ := strconv.Atoi(m[2])
	upper, _ := strconv.Atoi(m[3])
	if upper <= lower {
		return fmt.Errorf("empty range [%d,%d] on instance %q", lower, upper, m[1])
	}
	return nil
}

// consumeName matches the next path element against the instance names.
func consumeName(names []string, path []string, idx int) (int, error) {
	if idx >= len(path) {
		return 0, branchErrorf(path, idx,
			"node %q has instances, expected one of %v after %q",
			strings.Join(path[:idx], "."), names, path[idx-1])
	}
	for _, name := range names {
		if path[idx] == name {
			return idx + 1, nil
		}
	}
	return 0, branchErrorf(path, idx,
		"illegal instance of %q, got %q but must be one of %v",
		strings.Join(path[:idx], "."), path[idx], names)
}

// consumeInstances advances idx past the instance levels the declaration
// introduces. The three declaration shapes behave differently:
//
//   - a single pattern expands and consumes one level
//   - a list where every element expands consumes one level per element
//   - a list with any non-expanding string falls back to literal matching
//     of the strings as names (one level)
//   - a list of name lists consumes one level per list
func consumeInstances(inst *Instances, path []string, idx int) (int, error) {
	if inst.invalid != "" {
		return 0, specErrorf(path, idx, "%s", inst.invalid)
	}

	if inst.Pattern != "" {
		names, err := expandRange(inst.Pattern, path, idx)
		if err != nil {
			return 0, err
		}
		return consumeName(names, path, idx)
	}

	if len(inst.Groups) == 0 {
		return 0, specErrorf(path, idx, "empty instances array")
	}

	// Try to expand every pattern element. If any fails, fall back to the
	// raw declaration.
	expanded := make([][]string, 0, len(inst.Groups))
	ok := true
	for _, g := range inst.Groups {
		if g.Names != nil {
			expanded = append(expanded, g.Names)
			continue
		}
		names, err := expandRange(g.Pattern, path, idx)
		if err != nil {
			ok = false
			break
		}
		expanded = append(expanded, names)
	}

	if ok {
		// Every element is now a name list; consume one level per element.
		var err error
		for _, names := range expanded {
			idx, err = consumeName(names, path, idx)
			if err != nil {
				return 0, err
			}
		}
		return idx, nil
	}

	// Raw fallback: all strings means literal name matching, all lists
	// means one level per list, anything else is malformed.
	allStrings, allLists := true, true
	for _, g := range inst.Groups {
		if g.Names != nil {
			allStrings = false
		} else {
			allLists = false
		}
	}

	if allStrings {
		names := make([]string, len(inst.Groups))
		for i, g := range inst.Groups {
			names[i] = g.Pattern
		}
		return consumeName(names, path, idx)
	}
	if allLists {
		var err error
		for _, g := range inst.Groups {
			idx, err = consumeName(g.Names, path, idx)
			if err != nil {
				return 0, err
			}
		}
		return idx, nil
	}
	return 0, specErrorf(path, idx, "malformed instances %v", inst.Declaration())
}
