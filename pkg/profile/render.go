package profile

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const barWidth = 40

// RenderConsole prints a bar-style summary of per-category wall time,
// colored the same way pkg/report's console renderer treats severity.
func RenderConsole(summary []CategorySummary, w io.Writer) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	bold.Fprintln(w, "Bazel Build Profile - Action Time by Category")
	bold.Fprintln(w, "==============================================")

	if len(summary) == 0 {
		fmt.Fprintln(w, "No action events found in trace.")
		return
	}

	var total float64
	for _, s := range summary {
		total += s.TotalUs
	}

	for _, s := range summary {
		fraction := 0.0
		if total > 0 {
			fraction = s.TotalUs / total
		}
		filled := int(fraction * float64(barWidth))
		bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
		green.Fprintf(w, "%-20s ", s.Category)
		cyan.Fprintf(w, "[%s] ", bar)
		fmt.Fprintf(w, "%8.2fms (%d actions, %.1f%%)\n", s.TotalUs/1000, s.Count, fraction*100)
	}
}
