package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vss-tools/vss-go/pkg/log"
	"github.com/vss-tools/vss-go/pkg/signal"
	"github.com/vss-tools/vss-go/pkg/tree"
	"github.com/vss-tools/vss-go/pkg/unit"
)

// Validator audits a tree. The zero value is usable: it resolves units
// against the default registry and discards events.
type Validator struct {
	// Registry resolves unit expressions. Nil means unit.Default().
	Registry *unit.Registry

	// Logger receives every finding as it is made. Nil discards them.
	// Findings are additionally collected in the Result.
	Logger log.Logger
}

// Result summarizes one validation run.
type Result struct {
	// Signals and Branches count the nodes visited.
	Signals  int
	Branches int

	// Per-severity finding counts.
	Infos    int
	Warnings int
	Errors   int

	// Events holds every finding in tree walk order.
	Events []log.Event
}

// OK reports whether the tree passed, i.e. no error-severity findings.
// Warnings do not fail a run.
func (r *Result) OK() bool {
	return r.Errors == 0
}

// Validate walks the tree and returns the collected findings. The only
// returned error is a walk failure; malformed content is reported
// through the Result, not as an error.
func (v *Validator) Validate(t tree.Tree) (*Result, error) {
	res := &Result{}
	seen := map[string]string{} // uuid -> first path using it

	err := t.Walk(func(path []string, n *tree.Node) error {
		if n.IsBranch() {
			v.checkBranch(res, path, n)
		} else {
			v.checkLeaf(res, path, n)
		}
		v.checkUUID(res, seen, path, n)
		if n.Description == "" {
			v.report(res, log.SeverityWarning, "description-missing", path, n,
				"node has no description")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (v *Validator) checkBranch(res *Result, path []string, n *tree.Node) {
	res.Branches++

	if len(n.Children) == 0 {
		v.report(res, log.SeverityWarning, "branch-empty", path, n,
			"branch has no children")
	}
	if n.Instances != nil {
		if err := n.Instances.Check(); err != nil {
			v.report(res, log.SeverityError, "instances", path, n, err.Error())
		}
	}
	if n.Datatype != "" {
		v.report(res, log.SeverityError, "branch-datatype", path, n,
			fmt.Sprintf("branch declares datatype %q", n.Datatype))
	}
}

func (v *Validator) checkLeaf(res *Result, path []string, n *tree.Node) {
	res.Signals++

	if len(n.Children) > 0 {
		v.report(res, log.SeverityError, "leaf-children", path, n,
			fmt.Sprintf("signal node of type %q has children", n.Type))
	}
	if n.Instances != nil {
		v.report(res, log.SeverityError, "leaf-instances", path, n,
			"instances declared on a signal node")
	}

	if _, err := signal.New(n.Definition(path), v.Registry); err != nil {
		v.report(res, log.SeverityError, ruleFor(err), path, n, err.Error())
	}
}

// checkUUID tracks identifier uniqueness across the tree. Leaf UUID
// syntax is already covered by signal construction, so only branches
// get a syntax check here. Signals without a uuid are flagged: every
// released tree assigns one per leaf.
func (v *Validator) checkUUID(res *Result, seen map[string]string, path []string, n *tree.Node) {
	if n.UUID == "" {
		if !n.IsBranch() {
			v.report(res, log.SeverityWarning, "uuid-missing", path, n,
				"signal has no uuid")
		}
		return
	}
	if n.IsBranch() {
		if _, err := uuid.Parse(n.UUID); err != nil {
			v.report(res, log.SeverityError, "uuid", path, n,
				fmt.Sprintf("invalid uuid %q: %v", n.UUID, err))
			return
		}
	}
	if first, dup := seen[n.UUID]; dup {
		v.report(res, log.SeverityError, "uuid-duplicate", path, n,
			fmt.Sprintf("uuid already used by %s", first))
		return
	}
	seen[n.UUID] = strings.Join(path, ".")
}

func (v *Validator) report(res *Result, sev log.Severity, rule string, path []string, n *tree.Node, msg string) {
	e := log.Event{
		Timestamp: time.Now(),
		Severity:  sev,
		Rule:      rule,
		Path:      strings.Join(path, "."),
		Message:   msg,
		File:      n.File,
		Line:      n.Line,
	}
	res.Events = append(res.Events, e)
	switch sev {
	case log.SeverityInfo:
		res.Infos++
	case log.SeverityWarning:
		res.Warnings++
	case log.SeverityError:
		res.Errors++
	}
	if v.Logger != nil {
		v.Logger.Log(e)
	}
}

// ruleFor maps a signal construction error onto the rule that caught it.
func ruleFor(err error) string {
	switch {
	case errors.Is(err, signal.ErrBadDatatype):
		return "datatype"
	case errors.Is(err, signal.ErrBadEntryType):
		return "entry-type"
	case errors.Is(err, signal.ErrAllowedNonString):
		return "allowed"
	case errors.Is(err, signal.ErrBadDefault):
		return "default"
	case errors.Is(err, signal.ErrBadUnit), errors.Is(err, signal.ErrUnitNonNumeric):
		return "unit"
	case errors.Is(err, signal.ErrBadUUID):
		return "uuid"
	case errors.Is(err, signal.ErrEmptyPath):
		return "path"
	default:
		return "signal"
	}
}
