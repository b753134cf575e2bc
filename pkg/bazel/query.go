package bazel

import (
	"strings"
)

// comprehensiveQuery is strategy 1's single top-level enumeration:
// every cc_* rule in the workspace, with its rule kind.
const comprehensiveQuery = `kind("cc_.* rule", //...)`

// broadQuery is strategy 3's fallback enumeration when even the
// comprehensive query's top-level enumeration fails.
const broadQuery = `//...`

func srcsQuery(label string) string {
	return "labels(srcs, " + label + ")"
}

func hdrsQuery(label string) string {
	return "labels(hdrs, " + label + ")"
}

func depsQuery(label string) string {
	return `kind(rule, deps(` + label + `))`
}

func ruleKindQuery(label string) string {
	return `kind(rule, ` + label + `)`
}

// isNoiseLine reports whether a line of Bazel stdout/stderr is
// Bazel-internal chatter rather than query output, per §4.1/§6's
// parsing contract.
func isNoiseLine(line string) bool {
	return strings.Contains(line, "Loading:") || strings.Contains(line, "INFO:")
}

// splitLines splits command output into trimmed, non-empty,
// non-noise lines.
func splitLines(output []byte) []string {
	raw := strings.Split(strings.TrimSpace(string(output)), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" || isNoiseLine(l) {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// labelKindEntry is one parsed line of `--output=label_kind`:
// "<rule_kind> rule <label>".
type labelKindEntry struct {
	Kind  string
	Label string
}

// parseLabelKind parses `--output=label_kind` output into entries,
// discarding noise lines and any line that doesn't match the
// "<kind> rule <label>" shape.
func parseLabelKind(output []byte) []labelKindEntry {
	var entries []labelKindEntry
	for _, line := range splitLines(output) {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != "rule" || !strings.HasPrefix(fields[2], "//") {
			continue
		}
		entries = append(entries, labelKindEntry{Kind: fields[0], Label: fields[2]})
	}
	return entries
}

// parseLabels parses plain `--output=label` output (one label per
// line) into a slice, discarding noise lines.
func parseLabels(output []byte) []string {
	var labels []string
	for _, line := range splitLines(output) {
		if strings.HasPrefix(line, "//") {
			labels = append(labels, line)
		}
	}
	return labels
}

// filterCCLabels keeps only labels containing "cc_", per the broad
// fallback strategy's filter.
func filterCCLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		if strings.Contains(l, "cc_") {
			out = append(out, l)
		}
	}
	return out
}

// dedupeLabels removes duplicates while preserving first-seen order,
// dropping the self-label and (by default) any external ("@"-prefixed)
// label.
func dedupeLabels(self string, labels []string, keepExternal bool) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || l == self || seen[l] {
			continue
		}
		if !keepExternal && strings.HasPrefix(l, "@") {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
