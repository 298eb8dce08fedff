package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vss-tools/vss-go/pkg/log"
	"github.com/vss-tools/vss-go/pkg/tree"
	"github.com/vss-tools/vss-go/pkg/vspec"
)

func parseTree(t *testing.T, src string) tree.Tree {
	t.Helper()
	tr, err := tree.Parse([]byte(src))
	require.NoError(t, err)
	return tr
}

// findings returns the rules of all findings at the given severity.
func findings(res *Result, sev log.Severity) []string {
	var rules []string
	for _, e := range res.Events {
		if e.Severity == sev {
			rules = append(rules, e.Rule)
		}
	}
	return rules
}

func TestValidateCleanTree(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"type": "branch",
			"description": "High-level vehicle data.",
			"children": {
				"Speed": {
					"type": "sensor",
					"datatype": "float",
					"unit": "km/h",
					"description": "Vehicle speed.",
					"uuid": "1efc9a8b10985a01b0e64fe1ae0256aa"
				}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Branches)
	assert.Equal(t, 1, res.Signals)
	assert.Empty(t, res.Events)
}

func TestValidateDefaultTree(t *testing.T) {
	tr, err := tree.Default()
	require.NoError(t, err)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.True(t, res.OK(), "findings: %v", res.Events)
	assert.Zero(t, res.Warnings, "findings: %v", res.Events)
	assert.Greater(t, res.Signals, 0)
	assert.Greater(t, res.Branches, 0)
}

func TestValidateBadDatatype(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float128", "description": "d"}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, []string{"datatype"}, findings(res, log.SeverityError))
	assert.Equal(t, "Vehicle.Speed", res.Events[0].Path)
}

func TestValidateBadUnit(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float", "unit": "km/hh", "description": "d"}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.Equal(t, []string{"unit"}, findings(res, log.SeverityError))
}

func TestValidateMissingDescription(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float",
					"uuid": "8b2d2f72cc7e5de89f9c22e22b5d3b7e"}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.True(t, res.OK(), "warnings must not fail a run")
	assert.Equal(t, 1, res.Warnings)
	assert.Equal(t, []string{"description-missing"}, findings(res, log.SeverityWarning))
}

func TestValidateEmptyBranch(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {"type": "branch", "description": "d"}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.Equal(t, []string{"branch-empty"}, findings(res, log.SeverityWarning))
}

func TestValidateDuplicateUUID(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"A": {"type": "sensor", "datatype": "float", "description": "d",
					"uuid": "1c6ad1aebb1f54e0a2e42f152e5c92d3"},
				"B": {"type": "sensor", "datatype": "float", "description": "d",
					"uuid": "1c6ad1aebb1f54e0a2e42f152e5c92d3"}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	require.Equal(t, []string{"uuid-duplicate"}, findings(res, log.SeverityError))
	for _, e := range res.Events {
		if e.Rule == "uuid-duplicate" {
			assert.Equal(t, "Vehicle.B", e.Path)
			assert.Contains(t, e.Message, "Vehicle.A")
		}
	}
}

func TestValidateBranchUUIDSyntax(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"type": "branch",
			"description": "d",
			"uuid": "not-a-uuid",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float", "description": "d"}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.Equal(t, []string{"uuid"}, findings(res, log.SeverityError))
}

func TestValidateMalformedInstances(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Door": {
					"type": "branch",
					"description": "d",
					"instances": "Row[2,1]",
					"children": {
						"IsOpen": {"type": "sensor", "datatype": "boolean", "description": "d"}
					}
				}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.Equal(t, []string{"instances"}, findings(res, log.SeverityError))
}

func TestValidateLeafWithChildren(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Speed": {
					"type": "sensor",
					"datatype": "float",
					"description": "d",
					"children": {
						"Oops": {"type": "sensor", "datatype": "float", "description": "d"}
					}
				}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	assert.Contains(t, findings(res, log.SeverityError), "leaf-children")
}

func TestValidateMissingUUID(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float", "unit": "km/h", "description": "d"}
			}
		}
	}`)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	// Lookup stays lenient about the missing uuid...
	sig, err := tr.Find("Vehicle.Speed")
	require.NoError(t, err)
	assert.Empty(t, sig.UUID())

	// ...but a validation run flags it.
	assert.True(t, res.OK())
	assert.Equal(t, []string{"uuid-missing"}, findings(res, log.SeverityWarning))
	assert.Equal(t, "Vehicle.Speed", res.Events[0].Path)
}

func TestValidateFindingsCarrySourceLocation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vehicle.vspec")
	content := "Vehicle:\n" +
		"  type: branch\n" +
		"  description: d\n" +
		"\n" +
		"Vehicle.Speed:\n" +
		"  type: sensor\n" +
		"  datatype: float128\n" +
		"  description: d\n" +
		"  uuid: 7f1a2b3c4d5e6f708192a3b4c5d6e7f8\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0644))

	tr, err := vspec.Compile(src)
	require.NoError(t, err)

	var v Validator
	res, err := v.Validate(tr)
	require.NoError(t, err)

	require.Equal(t, []string{"datatype"}, findings(res, log.SeverityError))
	for _, e := range res.Events {
		if e.Rule == "datatype" {
			assert.Equal(t, src, e.File)
			assert.Equal(t, 5, e.Line)
		}
	}
}

func TestValidateLogsToLogger(t *testing.T) {
	tr := parseTree(t, `{
		"Vehicle": {
			"description": "d",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float128", "description": "d"}
			}
		}
	}`)

	var captured []log.Event
	v := Validator{Logger: captureFunc(func(e log.Event) { captured = append(captured, e) })}

	res, err := v.Validate(tr)
	require.NoError(t, err)

	require.Len(t, captured, len(res.Events))
	assert.Equal(t, "datatype", captured[0].Rule)
	assert.False(t, captured[0].Timestamp.IsZero())
}

type captureFunc func(log.Event)

func (f captureFunc) Log(e log.Event) { f(e) }
