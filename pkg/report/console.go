package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ritzau/bazeldeps/pkg/engine"
)

// renderConsole prints a colored report, adapted from the teacher's
// coverage-report treatment: bold headers, red/yellow/green severity,
// cyan for package-ish detail.
func renderConsole(data Data, w io.Writer) error {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if data.Mode == UnusedMode {
		bold.Fprintln(w, "Bazel C/C++ Dependency Analyzer - Unused Dependencies")
		bold.Fprintln(w, "======================================================")
		fmt.Fprintf(w, "Timestamp: %s\n", data.Timestamp)
		fmt.Fprintf(w, "Total unused dependencies: %d\n\n", len(data.Unused))

		if len(data.Unused) == 0 {
			green.Fprintln(w, "No unused dependencies found.")
			return nil
		}

		high, medium, low := confidenceCounts(data.Unused)
		fmt.Fprintf(w, "By confidence: HIGH=%d MEDIUM=%d LOW=%d\n\n", high, medium, low)

		for _, u := range data.Unused {
			confColor := confidenceColor(u.Confidence, red, yellow, green)
			confColor.Fprintf(w, "  %s -> %s [%s]\n", u.From, u.To, u.Confidence)
			cyan.Fprintf(w, "    %s\n", u.Reason)
		}
		return nil
	}

	bold.Fprintln(w, "Bazel C/C++ Dependency Analyzer - Cycles")
	bold.Fprintln(w, "==========================================")
	fmt.Fprintf(w, "Timestamp: %s\n", data.Timestamp)
	fmt.Fprintf(w, "Total cycles: %d\n\n", len(data.Cycles))

	if len(data.Cycles) == 0 {
		green.Fprintln(w, "No dependency cycles found.")
		return nil
	}

	for _, c := range data.Cycles {
		severity := red
		if c.Type == "DIRECT" {
			severity = yellow
		}
		severity.Fprintf(w, "Cycle #%d [%s, length=%d]\n", c.ID, c.Type, c.Length)
		fmt.Fprintf(w, "  path: ")
		for i, l := range c.Path {
			if i > 0 {
				fmt.Fprint(w, " -> ")
			}
			cyan.Fprint(w, string(l))
		}
		fmt.Fprintln(w)

		for _, r := range c.Removable {
			confColor := confidenceColor(r.Confidence, red, yellow, green)
			confColor.Fprintf(w, "  removable: %s -> %s [%s] %s\n", r.From, r.To, r.Confidence, r.Reason)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(w, "  suggestion: %s\n", s)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func confidenceColor(c engine.Confidence, red, yellow, green *color.Color) *color.Color {
	switch c {
	case engine.High:
		return red
	case engine.Medium:
		return yellow
	default:
		return green
	}
}
