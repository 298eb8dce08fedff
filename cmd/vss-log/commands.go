package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/vss-tools/vss-go/pkg/log"
)

// runViewFiltered prints matching events in the standard text format.
func runViewFiltered(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  %s\n", event.Timestamp.Format(time.RFC3339), event.String())
		count++
	}

	fmt.Fprintf(w, "%d events\n", count)
	return nil
}

// jsonEvent is the JSONL export shape.
type jsonEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	Rule      string    `json:"rule"`
	Path      string    `json:"path,omitempty"`
	Message   string    `json:"message"`
	File      string    `json:"file,omitempty"`
	Line      int       `json:"line,omitempty"`
}

// runExportFile writes events as JSONL or CSV.
func runExportFile(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format %q (jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		je := jsonEvent{
			Timestamp: event.Timestamp,
			Severity:  event.Severity.String(),
			Rule:      event.Rule,
			Path:      event.Path,
			Message:   event.Message,
			File:      event.File,
			Line:      event.Line,
		}
		if err := enc.Encode(je); err != nil {
			return err
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "severity", "rule", "path", "message", "file", "line"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line := ""
		if event.Line != 0 {
			line = strconv.Itoa(event.Line)
		}
		record := []string{
			event.Timestamp.Format(time.RFC3339Nano),
			event.Severity.String(),
			event.Rule,
			event.Path,
			event.Message,
			event.File,
			line,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
}

// runFilterFile copies matching events into a new log file.
func runFilterFile(path string, filter log.Filter, output string) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := log.NewEncoder(out)

	kept := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(event); err != nil {
			return err
		}
		kept++
	}

	fmt.Printf("wrote %d events to %s\n", kept, output)
	return nil
}

// runStatsFile summarizes a log file: totals per severity and rule,
// plus the time range covered.
func runStatsFile(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	total := 0
	bySeverity := map[log.Severity]int{}
	byRule := map[string]int{}
	var first, last time.Time

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		total++
		bySeverity[event.Severity]++
		byRule[event.Rule]++
		if first.IsZero() || event.Timestamp.Before(first) {
			first = event.Timestamp
		}
		if event.Timestamp.After(last) {
			last = event.Timestamp
		}
	}

	fmt.Fprintf(w, "File:     %s\n", path)
	fmt.Fprintf(w, "Events:   %d\n", total)
	if total > 0 {
		fmt.Fprintf(w, "From:     %s\n", first.Format(time.RFC3339))
		fmt.Fprintf(w, "To:       %s\n", last.Format(time.RFC3339))
	}

	fmt.Fprintln(w, "\nBy severity:")
	for _, sev := range []log.Severity{log.SeverityError, log.SeverityWarning, log.SeverityInfo} {
		if n := bySeverity[sev]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", sev.String(), n)
		}
	}

	rules := make([]string, 0, len(byRule))
	for rule := range byRule {
		rules = append(rules, rule)
	}
	sort.Strings(rules)

	fmt.Fprintln(w, "\nBy rule:")
	for _, rule := range rules {
		fmt.Fprintf(w, "  %-24s %d\n", rule, byRule[rule])
	}
	return nil
}
