package report

import (
	"encoding/json"
	"io"

	"github.com/ritzau/bazeldeps/pkg/engine"
)

type removableJSON struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Reason     string `json:"reason"`
	Confidence string `json:"confidence"`
}

type cycleJSON struct {
	ID                    int             `json:"id"`
	Type                  string          `json:"type"`
	Length                int             `json:"length"`
	Path                  []string        `json:"path"`
	RemovableDependencies []removableJSON `json:"removable_dependencies"`
	Suggestions           []string        `json:"suggestions"`
}

type cyclesReportJSON struct {
	Report struct {
		Timestamp   string      `json:"timestamp"`
		TotalCycles int         `json:"total_cycles"`
		Cycles      []cycleJSON `json:"cycles"`
	} `json:"report"`
}

type statisticsJSON struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type unusedReportJSON struct {
	UnusedDependenciesReport struct {
		Timestamp          string          `json:"timestamp"`
		TotalUnused         int             `json:"total_unused"`
		UnusedDependencies []removableJSON `json:"unused_dependencies"`
		Statistics          statisticsJSON  `json:"statistics"`
	} `json:"unused_dependencies_report"`
}

func toRemovableJSON(r engine.Removable) removableJSON {
	return removableJSON{
		From:       string(r.From),
		To:         string(r.To),
		Reason:     r.Reason,
		Confidence: string(r.Confidence),
	}
}

// renderJSON implements spec.md §6's exact stable schema: the
// "report" shape for cycles, "unused_dependencies_report" for unused
// deps, selected by data.Mode.
func renderJSON(data Data, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if data.Mode == UnusedMode {
		var out unusedReportJSON
		out.UnusedDependenciesReport.Timestamp = data.Timestamp
		out.UnusedDependenciesReport.TotalUnused = len(data.Unused)
		out.UnusedDependenciesReport.UnusedDependencies = make([]removableJSON, len(data.Unused))
		for i, r := range data.Unused {
			out.UnusedDependenciesReport.UnusedDependencies[i] = toRemovableJSON(r)
		}
		high, medium, low := confidenceCounts(data.Unused)
		out.UnusedDependenciesReport.Statistics = statisticsJSON{High: high, Medium: medium, Low: low}
		return enc.Encode(out)
	}

	var out cyclesReportJSON
	out.Report.Timestamp = data.Timestamp
	out.Report.TotalCycles = len(data.Cycles)
	out.Report.Cycles = make([]cycleJSON, len(data.Cycles))
	for i, c := range data.Cycles {
		path := make([]string, len(c.Path))
		for j, l := range c.Path {
			path[j] = string(l)
		}
		removable := make([]removableJSON, len(c.Removable))
		for j, r := range c.Removable {
			removable[j] = toRemovableJSON(r)
		}
		out.Report.Cycles[i] = cycleJSON{
			ID:                    c.ID,
			Type:                  string(c.Type),
			Length:                c.Length,
			Path:                  path,
			RemovableDependencies: removable,
			Suggestions:           c.Suggestions,
		}
	}
	return enc.Encode(out)
}
