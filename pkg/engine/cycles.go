package engine

import (
	"sort"
	"strings"

	"github.com/ritzau/bazeldeps/pkg/catalog"
	"github.com/ritzau/bazeldeps/pkg/graph"
)

var suggestionsByClassification = map[graph.Classification][]string{
	graph.Direct:  {"extract common interface", "use forward declarations", "decouple the two targets"},
	graph.Diamond: {"introduce an interface layer", "apply dependency inversion"},
	graph.Complex: {"identify the pivot node", "introduce a mediator"},
	graph.Simple:  {"audit the declared dependencies"},
}

// Cycles runs §4.4's cycle analysis: discover cycles, drop length<2,
// classify, gather removable candidates, attach suggestions, and sort
// ascending by length so the smallest/easiest appear first.
func (e *Engine) Cycles() []CycleResult {
	raw := e.Graph.FindCycles()

	var results []CycleResult
	id := 0
	for _, c := range raw {
		if c.Len() < 2 {
			continue
		}
		id++
		results = append(results, e.classifyAndSuggest(id, c))
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Length < results[j].Length })
	return results
}

func (e *Engine) classifyAndSuggest(id int, c graph.Cycle) CycleResult {
	classification := graph.Classify(c, e.Graph.Reaches)

	nodes := c.Path[:c.Len()]
	var removable []Removable
	hasTest := false
	hasExternal := false

	for i := 0; i < len(c.Path)-1; i++ {
		from, to := c.Path[i], c.Path[i+1]
		if strings.Contains(string(from), "@") || strings.Contains(string(to), "@") {
			hasExternal = true
		}
		if t, ok := e.Catalog.Get(from); ok && t.IsTest() {
			hasTest = true
		}

		for _, r := range e.edgeRemovableCandidates(from, to, nodes) {
			if r.Confidence == High {
				removable = append(removable, r)
			}
		}
	}

	suggestions := append([]string{}, suggestionsByClassification[classification]...)
	if hasTest {
		suggestions = append(suggestions, "cycle includes test targets: confirm test-only deps aren't load-bearing")
	}
	if hasExternal {
		suggestions = append(suggestions, "cycle references an external dependency: verify the external boundary is intentional")
	}

	return CycleResult{
		ID:          id,
		Path:        c.Path,
		Type:        classification,
		Length:      c.Len(),
		Removable:   removable,
		Suggestions: suggestions,
	}
}

// edgeRemovableCandidates gathers removable candidates for one cycle
// edge from two independent analyses: code-level header-usage
// evidence, and target-level rule-kind heuristics.
func (e *Engine) edgeRemovableCandidates(from, to catalog.Label, cycleNodes []catalog.Label) []Removable {
	var out []Removable

	// Code-level: header-usage evidence from the source analyzer.
	if e.Analyzer != nil {
		if !e.Analyzer.IsDependencyNeeded(from, to) {
			out = append(out, Removable{
				From: from, To: to,
				Reason:     "No headers from this dependency are used",
				Confidence: High,
			})
		}
	}

	// Target-level: rule-kind heuristics.
	fromTarget, ok := e.Catalog.Get(from)
	toTarget, hasTo := e.Catalog.Get(to)
	if !ok || !hasTo {
		return out
	}

	switch {
	case fromTarget.Kind == "cc_library" && toTarget.Kind == "cc_library":
		if e.hasAlternativeForwardingPath(from, to) {
			confidence := Medium
			if e.Analyzer != nil && !e.Analyzer.IsDependencyNeeded(from, to) {
				confidence = High
			}
			out = append(out, Removable{
				From: from, To: to,
				Reason:     "alternative dependency path exists",
				Confidence: confidence,
			})
		}
	case fromTarget.IsTest() && toTarget.Kind == "cc_library":
		out = append(out, Removable{
			From: from, To: to,
			Reason:     "test-dep may be over-declared",
			Confidence: Medium,
		})
	}

	return out
}

// hasAlternativeForwardingPath reports whether some other direct dep
// of from (besides to) transitively reaches to, meaning the direct
// edge from->to could be redundant.
func (e *Engine) hasAlternativeForwardingPath(from, to catalog.Label) bool {
	for _, other := range e.Graph.DirectDeps(from) {
		if other == to {
			continue
		}
		if e.Graph.Reaches(other, to) {
			return true
		}
	}
	return false
}
