// Command vss-validate audits a VSS tree and reports every finding.
//
// Usage:
//
//	vss-validate [flags] <tree-file>
//
// Flags:
//
//	-json          Output the report as JSON instead of text
//	-log string    Also append findings to a CBOR event log file
//	-quiet         Print only the summary line
//
// The tree file may be a JSON or CBOR export or a .vspec source. Exit
// code is 0 when the tree has no error-severity findings, 1 when it
// does, 2 on operational errors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/vss-tools/vss-go/internal/treefile"
	"github.com/vss-tools/vss-go/pkg/log"
	"github.com/vss-tools/vss-go/pkg/validate"
)

// report is the JSON output structure.
type report struct {
	File     string    `json:"file"`
	Signals  int       `json:"signals"`
	Branches int       `json:"branches"`
	Warnings int       `json:"warnings"`
	Errors   int       `json:"errors"`
	OK       bool      `json:"ok"`
	Findings []finding `json:"findings,omitempty"`
}

type finding struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

func main() {
	var jsonOutput, quiet bool
	var logPath string
	flag.BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	flag.StringVar(&logPath, "log", "", "Append findings to a CBOR event log file")
	flag.BoolVar(&quiet, "quiet", false, "Print only the summary line")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vss-validate [flags] <tree-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	t, err := treefile.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var logger log.Logger = log.NoopLogger{}
	if logPath != "" {
		fl, err := log.NewFileLogger(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot open event log: %v\n", err)
			os.Exit(2)
		}
		defer fl.Close()
		logger = fl
	}

	v := validate.Validator{Logger: logger}
	res, err := v.Validate(t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if jsonOutput {
		printJSON(path, res)
	} else {
		printText(path, res, quiet)
	}

	if !res.OK() {
		os.Exit(1)
	}
}

func printText(path string, res *validate.Result, quiet bool) {
	if !quiet {
		for _, e := range res.Events {
			fmt.Println(e.String())
		}
	}

	verdict := "OK"
	if !res.OK() {
		verdict = "FAILED"
	}
	fmt.Printf("%s: %d signals, %d branches, %d warnings, %d errors: %s\n",
		path, res.Signals, res.Branches, res.Warnings, res.Errors, verdict)
}

func printJSON(path string, res *validate.Result) {
	r := report{
		File:     path,
		Signals:  res.Signals,
		Branches: res.Branches,
		Warnings: res.Warnings,
		Errors:   res.Errors,
		OK:       res.OK(),
	}
	for _, e := range res.Events {
		r.Findings = append(r.Findings, finding{
			Severity: e.Severity.String(),
			Rule:     e.Rule,
			Path:     e.Path,
			Message:  e.Message,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}
