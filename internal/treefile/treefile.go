// Package treefile loads and saves VSS trees in the formats the command
// line tools accept, sniffing the format from the file extension.
package treefile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vss-tools/vss-go/pkg/export"
	"github.com/vss-tools/vss-go/pkg/tree"
	"github.com/vss-tools/vss-go/pkg/vspec"
)

// Format identifies a tree file format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCBOR  Format = "cbor"
	FormatVspec Format = "vspec"
)

// ErrUnknownFormat is returned when the extension maps to no format.
var ErrUnknownFormat = fmt.Errorf("unknown tree file format")

// Detect sniffs the format from the file extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".cbor", ".bin":
		return FormatCBOR, nil
	case ".vspec", ".yaml", ".yml":
		return FormatVspec, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load reads a tree from path. An empty path loads the embedded default
// tree. Source .vspec files are compiled with their own directory as the
// include root.
func Load(path string) (tree.Tree, error) {
	if path == "" {
		return tree.Default()
	}

	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return tree.Load(path)
	case FormatCBOR:
		return export.ReadCBORFile(path)
	default:
		return vspec.Compile(path)
	}
}

// Save writes a tree to path in the format its extension names.
// Source formats cannot be written back.
func Save(path string, t tree.Tree) error {
	format, err := Detect(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return export.WriteJSONFile(path, t)
	case FormatCBOR:
		return export.WriteCBORFile(path, t)
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnknownFormat, format)
	}
}
