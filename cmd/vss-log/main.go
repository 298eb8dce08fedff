// Command vss-log is a tool for viewing and analyzing validation event
// log files.
//
// Log files are created by running vss-validate with the -log flag.
//
// Usage:
//
//	vss-log <command> [flags] <file.vlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all findings
//	vss-log view run.vlog
//
//	# View only errors
//	vss-log view -severity error run.vlog
//
//	# Export to JSONL
//	vss-log export -format jsonl run.vlog
//
//	# Filter by branch and save to new file
//	vss-log filter -path Vehicle.Cabin -o cabin.vlog run.vlog
//
//	# Show statistics
//	vss-log stats run.vlog
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vss-tools/vss-go/pkg/log"
)

const usage = `vss-log - Validation Event Log Analyzer

Usage:
  vss-log <command> [flags] <file.vlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "vss-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the shared filter flags on a flag set.
type filterFlags struct {
	severity  *string
	rule      *string
	path      *string
	timeStart *string
	timeEnd   *string
}

func addFilterFlags(fs *flag.FlagSet) *filterFlags {
	return &filterFlags{
		severity:  fs.String("severity", "", "Minimum severity (info, warning, error)"),
		rule:      fs.String("rule", "", "Filter by rule identifier"),
		path:      fs.String("path", "", "Filter by dotted path prefix"),
		timeStart: fs.String("time-start", "", "Filter by start time (RFC3339)"),
		timeEnd:   fs.String("time-end", "", "Filter by end time (RFC3339)"),
	}
}

func (f *filterFlags) build() (log.Filter, error) {
	var filter log.Filter

	if *f.severity != "" {
		sev, err := parseSeverityFlag(*f.severity)
		if err != nil {
			return filter, err
		}
		filter.MinSeverity = &sev
	}
	filter.Rule = *f.rule
	filter.PathPrefix = *f.path

	if *f.timeStart != "" {
		ts, err := time.Parse(time.RFC3339, *f.timeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid -time-start: %v", err)
		}
		filter.TimeStart = &ts
	}
	if *f.timeEnd != "" {
		ts, err := time.Parse(time.RFC3339, *f.timeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid -time-end: %v", err)
		}
		filter.TimeEnd = &ts
	}
	return filter, nil
}

func parseSeverityFlag(s string) (log.Severity, error) {
	switch s {
	case "info":
		return log.SeverityInfo, nil
	case "warning":
		return log.SeverityWarning, nil
	case "error":
		return log.SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (info, warning, error)", s)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	ff := addFilterFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, "vss-log view - View log file in human-readable format\n\nUsage:\n  vss-log view [flags] <file.vlog>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireFile(fs)

	filter, err := ff.build()
	if err != nil {
		fatal(err)
	}
	if err := runViewFiltered(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, "vss-log export - Export log file to JSONL or CSV format\n\nUsage:\n  vss-log export [flags] <file.vlog>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireFile(fs)

	if err := runExportFile(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	output := fs.String("o", "", "Output file (required)")
	ff := addFilterFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, "vss-log filter - Filter log file and write to new file\n\nUsage:\n  vss-log filter [flags] <file.vlog>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireFile(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := ff.build()
	if err != nil {
		fatal(err)
	}
	if err := runFilterFile(path, filter, *output); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, "vss-log stats - Show statistics about the log file\n\nUsage:\n  vss-log stats <file.vlog>\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireFile(fs)

	if err := runStatsFile(path, os.Stdout); err != nil {
		fatal(err)
	}
}

func requireFile(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
