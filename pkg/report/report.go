// Package report renders engine results as console, markdown, json, or
// html output. Each format is a plain function dispatched over a tagged
// enum, not a class hierarchy, per the renderer redesign this module's
// cycle/unused-dep reporting replaces.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ritzau/bazeldeps/pkg/engine"
)

// Format selects a renderer.
type Format string

const (
	Console  Format = "console"
	Markdown Format = "markdown"
	JSON     Format = "json"
	HTML     Format = "html"
)

// ParseFormat maps a user-supplied format string to a Format, accepting
// "md" as an alias for markdown per spec.md §6's flag table. Unknown
// values fall back to Console with ok=false so callers can warn.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return Console, true
	case "markdown", "md":
		return Markdown, true
	case "json":
		return JSON, true
	case "html":
		return HTML, true
	default:
		return Console, false
	}
}

// Mode selects which of the two report shapes Data carries.
type Mode int

const (
	CyclesMode Mode = iota
	UnusedMode
)

// Data is the immutable input every renderer consumes. Exactly one of
// Cycles or Unused is populated, selected by Mode.
type Data struct {
	Mode      Mode
	Timestamp string
	Cycles    []engine.CycleResult
	Unused    []engine.Removable
}

// Render dispatches to the renderer for format.
func Render(format Format, data Data, w io.Writer) error {
	switch format {
	case Console:
		return renderConsole(data, w)
	case Markdown:
		return renderMarkdown(data, w)
	case JSON:
		return renderJSON(data, w)
	case HTML:
		return renderHTML(data, w)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

func confidenceCounts(removable []engine.Removable) (high, medium, low int) {
	for _, r := range removable {
		switch r.Confidence {
		case engine.High:
			high++
		case engine.Medium:
			medium++
		case engine.Low:
			low++
		}
	}
	return
}
