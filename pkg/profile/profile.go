// Package profile parses a Bazel --profile trace (Chrome trace-event
// format JSON, optionally gzip-compressed) and aggregates wall time per
// build action category. It is a standalone report tool: its input and
// output are both unrelated to the cycle/unused-dependency pipeline.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// TraceEvent is one Chrome-trace-format event Bazel's profiler emits.
// Only the fields this analyzer consumes are modeled.
type TraceEvent struct {
	Name     string  `json:"name"`
	Category string  `json:"cat"`
	Phase    string  `json:"ph"`
	TimeUs   float64 `json:"ts"`
	DurUs    float64 `json:"dur"`
}

type traceFile struct {
	TraceEvents []TraceEvent `json:"traceEvents"`
}

// CategorySummary is the aggregated wall time for one action category.
type CategorySummary struct {
	Category string
	Count    int
	TotalUs  float64
}

// Load reads and decodes a trace file at path, transparently
// decompressing it if the name ends in .gz.
func Load(path string) ([]TraceEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile: opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("profile: decompressing %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var tf traceFile
	if err := json.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("profile: decoding trace JSON: %w", err)
	}
	return tf.TraceEvents, nil
}

// Summarize aggregates complete ("X") events, and events with no phase,
// by category, sorted by descending total wall time.
func Summarize(events []TraceEvent) []CategorySummary {
	totals := make(map[string]*CategorySummary)
	for _, e := range events {
		if e.Phase != "X" && e.Phase != "" {
			continue
		}
		cat := e.Category
		if cat == "" {
			cat = "uncategorized"
		}
		s, ok := totals[cat]
		if !ok {
			s = &CategorySummary{Category: cat}
			totals[cat] = s
		}
		s.Count++
		s.TotalUs += e.DurUs
	}

	out := make([]CategorySummary, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalUs > out[j].TotalUs })
	return out
}
