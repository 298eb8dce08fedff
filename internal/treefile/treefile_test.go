package treefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"tree.json", FormatJSON},
		{"tree.JSON", FormatJSON},
		{"tree.cbor", FormatCBOR},
		{"tree.bin", FormatCBOR},
		{"vehicle.vspec", FormatVspec},
		{"vehicle.yaml", FormatVspec},
	}
	for _, c := range cases {
		got, err := Detect(c.path)
		if err != nil {
			t.Errorf("Detect(%q) failed: %v", c.path, err)
			continue
		}
		if got != c.want {
			t.Errorf("Detect(%q): got %v, want %v", c.path, got, c.want)
		}
	}

	if _, err := Detect("tree.xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Detect(tree.xml): got %v, want ErrUnknownFormat", err)
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	tr, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := tr.Find("Vehicle.Speed"); err != nil {
		t.Errorf("default tree missing Vehicle.Speed: %v", err)
	}
}

func TestRoundTripFormats(t *testing.T) {
	src := `{
		"Vehicle": {
			"type": "branch",
			"description": "d",
			"children": {
				"Speed": {"type": "sensor", "datatype": "float", "unit": "km/h", "description": "d"}
			}
		}
	}`

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(jsonPath, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load json failed: %v", err)
	}

	cborPath := filepath.Join(dir, "tree.cbor")
	if err := Save(cborPath, tr); err != nil {
		t.Fatalf("Save cbor failed: %v", err)
	}

	back, err := Load(cborPath)
	if err != nil {
		t.Fatalf("Load cbor failed: %v", err)
	}
	sig, err := back.Find("Vehicle.Speed")
	if err != nil {
		t.Fatalf("Find after round trip failed: %v", err)
	}
	if sig.UnitName() != "km/h" {
		t.Errorf("unit: got %q, want km/h", sig.UnitName())
	}
}

func TestSaveRejectsSourceFormat(t *testing.T) {
	tr, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(filepath.Join(t.TempDir(), "out.vspec"), tr); err == nil {
		t.Error("Save to .vspec did not fail")
	}
}
