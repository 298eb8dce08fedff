package tree

import (
	"encoding/json"
	"fmt"

	"github.com/vss-tools/vss-go/pkg/signal"
)

// Node is one entry in a VSS tree: either a branch with children or a
// signal leaf (sensor, actuator, attribute).
type Node struct {
	// Type is "branch", "sensor", "actuator", or "attribute".
	// An empty type is treated as a branch.
	Type string `json:"type,omitempty"`

	Description string `json:"description,omitempty"`
	Comment     string `json:"comment,omitempty"`

	// Datatype is the VSS datatype name of a signal leaf.
	Datatype string `json:"datatype,omitempty"`

	// Unit is the unit expression; empty means dimensionless.
	Unit string `json:"unit,omitempty"`

	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Default any      `json:"default,omitempty"`

	// Allowed enumerates legal values of a string signal. Older VSS
	// releases spell this "enum"; both are accepted.
	Allowed []string `json:"allowed,omitempty"`
	Enum    []string `json:"enum,omitempty"`

	// Instances declares branch instantiation (e.g. "Row[1,2]").
	Instances *Instances `json:"instances,omitempty"`

	// UUID is the identifier assigned by vss-tools, if any.
	UUID string `json:"uuid,omitempty"`

	Children map[string]*Node `json:"children,omitempty"`

	// File and Line locate the defining .vspec source when the tree was
	// compiled from one. They are not part of the interchange formats.
	File string `json:"-"`
	Line int    `json:"-"`
}

// IsBranch returns true if the node is a branch rather than a signal leaf.
func (n *Node) IsBranch() bool {
	return n.Type == "" || n.Type == "branch"
}

// AllowedValues returns the enumerated value set regardless of which
// spelling ("allowed" or "enum") the source used.
func (n *Node) AllowedValues() []string {
	if len(n.Allowed) > 0 {
		return n.Allowed
	}
	return n.Enum
}

// Definition builds the signal definition for a leaf node at the given path.
func (n *Node) Definition(path []string) signal.Definition {
	return signal.Definition{
		Path:        path,
		Type:        n.Type,
		Datatype:    n.Datatype,
		Description: n.Description,
		Comment:     n.Comment,
		UUID:        n.UUID,
		Unit:        n.Unit,
		Min:         n.Min,
		Max:         n.Max,
		Default:     n.Default,
		Allowed:     n.AllowedValues(),
	}
}

// Instances describes how a branch is instantiated. The VSS source format
// allows three shapes: a single condensed pattern ("Row[1,2]"), a list of
// patterns or literal names, and a list of name lists consumed in order.
type Instances struct {
	// Pattern is set when the declaration is a single string.
	Pattern string

	// Groups is set when the declaration is a list.
	Groups []InstanceGroup

	// invalid records a structurally malformed declaration. The error is
	// deferred to lookup time so that an unrelated lookup still works.
	invalid string
}

// InstanceGroup is one element of an instance list: either a pattern/name
// string or an explicit list of names.
type InstanceGroup struct {
	Pattern string
	Names   []string
}

// NewInstances converts a decoded YAML/JSON value (string, []any, or
// []string) into an Instances declaration.
func NewInstances(v any) *Instances {
	inst := &Instances{}
	inst.fill(v)
	return inst
}

func (i *Instances) fill(v any) {
	switch decl := v.(type) {
	case string:
		i.Pattern = decl
	case []string:
		for _, s := range decl {
			i.Groups = append(i.Groups, InstanceGroup{Pattern: s})
		}
	case []any:
		for pos, el := range decl {
			switch g := el.(type) {
			case string:
				i.Groups = append(i.Groups, InstanceGroup{Pattern: g})
			case []string:
				i.Groups = append(i.Groups, InstanceGroup{Names: g})
			case []any:
				var names []string
				for _, n := range g {
					s, ok := n.(string)
					if !ok {
						i.invalid = fmt.Sprintf("illegal nested instance[%d]: %v", pos, n)
						return
					}
					names = append(names, s)
				}
				i.Groups = append(i.Groups, InstanceGroup{Names: names})
			default:
				i.invalid = fmt.Sprintf("malformed instance element [%d]: %v", pos, el)
				return
			}
		}
	default:
		i.invalid = fmt.Sprintf("malformed instances declaration: %v", v)
	}
}

// UnmarshalJSON accepts the three instance declaration shapes. Structural
// problems are recorded and surfaced as a SpecError during lookup.
func (i *Instances) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	i.fill(v)
	return nil
}

// MarshalJSON restores the original declaration shape.
func (i *Instances) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Declaration())
}

// Declaration returns the declaration as a plain value (string or list).
func (i *Instances) Declaration() any {
	if i.Pattern != "" {
		return i.Pattern
	}
	out := make([]any, 0, len(i.Groups))
	for _, g := range i.Groups {
		if g.Names != nil {
			out = append(out, g.Names)
		} else {
			out = append(out, g.Pattern)
		}
	}
	return out
}
