package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ritzau/bazeldeps/pkg/catalog"
)

func renderMarkdown(data Data, w io.Writer) error {
	if data.Mode == UnusedMode {
		return renderUnusedMarkdown(data, w)
	}
	return renderCyclesMarkdown(data, w)
}

func renderCyclesMarkdown(data Data, w io.Writer) error {
	fmt.Fprintf(w, "# Dependency Cycle Report\n\n")
	fmt.Fprintf(w, "- **Timestamp**: %s\n", data.Timestamp)
	fmt.Fprintf(w, "- **Cycles found**: %d\n\n", len(data.Cycles))

	if len(data.Cycles) == 0 {
		fmt.Fprintln(w, "No dependency cycles found.")
		return nil
	}

	fmt.Fprintf(w, "## Cycle Details\n\n")

	var small, medium, large int
	for _, c := range data.Cycles {
		fmt.Fprintf(w, "### Cycle #%d\n\n", c.ID)
		fmt.Fprintf(w, "- **Type**: `%s`\n", c.Type)
		fmt.Fprintf(w, "- **Path**: `%s`\n", formatPath(c.Path))
		fmt.Fprintf(w, "- **Length**: %d targets\n", c.Length)

		if len(c.Removable) > 0 {
			fmt.Fprintf(w, "- **Removable dependencies**:\n")
			for _, r := range c.Removable {
				fmt.Fprintf(w, "  - `%s` -> `%s` (%s, %s)\n", r.From, r.To, r.Confidence, r.Reason)
			}
		}
		if len(c.Suggestions) > 0 {
			fmt.Fprintf(w, "- **Suggested fixes**:\n")
			for _, s := range c.Suggestions {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		fmt.Fprintln(w)

		switch {
		case c.Length <= 3:
			small++
		case c.Length <= 5:
			medium++
		default:
			large++
		}
	}

	fmt.Fprintf(w, "## Remediation Priority\n\n")
	fmt.Fprintf(w, "| Priority | Size | Count | Suggestion |\n")
	fmt.Fprintf(w, "|---|---|---|---|\n")
	fmt.Fprintf(w, "| High | small (2-3 targets) | %d | easy to fix, handle first |\n", small)
	fmt.Fprintf(w, "| Medium | medium (4-5 targets) | %d | needs some refactoring |\n", medium)
	fmt.Fprintf(w, "| Low | large (6+ targets) | %d | may need architectural rework |\n", large)
	return nil
}

func renderUnusedMarkdown(data Data, w io.Writer) error {
	fmt.Fprintf(w, "# Unused Dependency Report\n\n")
	fmt.Fprintf(w, "- **Timestamp**: %s\n", data.Timestamp)
	fmt.Fprintf(w, "- **Unused dependencies found**: %d\n\n", len(data.Unused))

	if len(data.Unused) == 0 {
		fmt.Fprintln(w, "No unused dependencies found.")
		return nil
	}

	high, medium, low := confidenceCounts(data.Unused)
	fmt.Fprintf(w, "| Confidence | Count |\n|---|---|\n| HIGH | %d |\n| MEDIUM | %d |\n| LOW | %d |\n\n", high, medium, low)

	fmt.Fprintf(w, "| From | To | Confidence | Reason |\n|---|---|---|---|\n")
	for _, r := range data.Unused {
		fmt.Fprintf(w, "| `%s` | `%s` | %s | %s |\n", r.From, r.To, r.Confidence, r.Reason)
	}
	return nil
}

func formatPath(path []catalog.Label) string {
	parts := make([]string, len(path))
	for i, l := range path {
		parts[i] = string(l)
	}
	return strings.Join(parts, " -> ")
}
