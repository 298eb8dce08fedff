// Command vss-export converts a VSS tree between file formats.
//
// Usage:
//
//	vss-export -from <in-file> -to <out-file>
//
// Formats are sniffed from the extensions: .json, .cbor (or .bin), and
// .vspec/.yaml sources. Sources can only be read; the output must be
// JSON or CBOR.
//
// Exit code is 0 on success, 2 on errors.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vss-tools/vss-go/internal/treefile"
)

func main() {
	var fromPath, toPath string
	flag.StringVar(&fromPath, "from", "", "Input tree file")
	flag.StringVar(&toPath, "to", "", "Output tree file")
	flag.Parse()

	if fromPath == "" || toPath == "" {
		fmt.Fprintln(os.Stderr, "usage: vss-export -from <in-file> -to <out-file>")
		os.Exit(2)
	}

	t, err := treefile.Load(fromPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", fromPath, err)
		os.Exit(2)
	}

	if err := treefile.Save(toPath, t); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", toPath, err)
		os.Exit(2)
	}
}
