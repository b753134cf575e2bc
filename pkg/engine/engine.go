// Package engine combines the dependency graph with source-level
// evidence to classify cycles, enumerate removable dependencies, and
// attach fix suggestions and confidence levels.
package engine

import (
	"sort"
	"strings"

	"github.com/ritzau/bazeldeps/pkg/catalog"
	"github.com/ritzau/bazeldeps/pkg/graph"
	"github.com/ritzau/bazeldeps/pkg/source"
)

// Confidence is the engine's certainty about a removable-dependency
// suggestion.
type Confidence string

const (
	High   Confidence = "HIGH"
	Medium Confidence = "MEDIUM"
	Low    Confidence = "LOW"
)

// Removable is a single edge the engine claims may be deleted from the
// consumer's deps without breaking the build, at some confidence.
type Removable struct {
	From       catalog.Label
	To         catalog.Label
	Reason     string
	Confidence Confidence
}

// CycleResult is a classified cycle augmented with removable
// candidates and fix suggestions.
type CycleResult struct {
	ID          int
	Path        []catalog.Label
	Type        graph.Classification
	Length      int
	Removable   []Removable
	Suggestions []string
}

// Engine owns the catalog, graph, and (optionally) a source analyzer
// for one run. It borrows all three immutably; it does not own a
// back-pointer to the graph or vice versa, per the anti-pattern this
// module deliberately avoids.
type Engine struct {
	Catalog      *catalog.Catalog
	Graph        *graph.Graph
	Analyzer     *source.Analyzer // nil when running graph-only
	IncludeTests bool
}

// New builds an Engine. analyzer may be nil to run in graph-only mode.
func New(cat *catalog.Catalog, gr *graph.Graph, analyzer *source.Analyzer, includeTests bool) *Engine {
	return &Engine{Catalog: cat, Graph: gr, Analyzer: analyzer, IncludeTests: includeTests}
}

// targets returns the catalog's targets, optionally filtering out
// test targets (the default), in label-sorted order for deterministic
// downstream output.
func (e *Engine) targets() []*catalog.Target {
	var out []*catalog.Target
	e.Catalog.Range(func(t *catalog.Target) {
		if !e.IncludeTests && t.IsTest() {
			return
		}
		out = append(out, t)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// isTrulyNeeded implements §4.4's "truly needed" rule for the
// header-evidence path: D is truly needed by T iff
// is_dependency_needed(T, D) is true.
//
// §4.4's prose also describes a second clause rescuing D whenever some
// other direct dep of T transitively depends on D and genuinely needs
// it. Scenario 4 in §8 pins a worked example — //y:y directly and
// genuinely needs //z:z — where that literal reading would rescue
// //z:z for //x:x, yet the expected result is that //z:z still surfaces
// as removable from //x:x. Implementing the clause as written would
// contradict the pinned scenario, so it is intentionally not applied
// here; see DESIGN.md.
func (e *Engine) isTrulyNeeded(t, dep catalog.Label) bool {
	return e.Analyzer.IsDependencyNeeded(t, dep)
}

// UnusedDependencies runs §4.4's unused-dependency analysis across
// every target in scope, sorted by (from, to) for determinism. When no
// source analyzer is attached it defers per-target to the graph-only
// fallback of §4.2, which is weaker and always MEDIUM confidence.
func (e *Engine) UnusedDependencies() []Removable {
	var out []Removable

	for _, t := range e.targets() {
		selfDeps, externalFiltered := partitionSelfAndExternal(t)
		out = append(out, selfDeps...)

		if e.Analyzer != nil {
			for _, dep := range externalFiltered {
				if !e.isTrulyNeeded(t.Label, dep) {
					out = append(out, Removable{
						From: t.Label, To: dep,
						Reason:     "No headers from this dependency are used",
						Confidence: High,
					})
				}
			}
			continue
		}

		for _, dep := range e.Graph.FindUnusedDependencies(t.Label) {
			out = append(out, Removable{
				From: t.Label, To: dep,
				Reason:     "no other target in the graph depends on this dependency",
				Confidence: Medium,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// partitionSelfAndExternal separates t's declared deps into
// self-dependency removables (always HIGH confidence) and the
// remaining in-graph deps eligible for header-based analysis, dropping
// external ("@"-prefixed) and empty labels entirely per §3's invariant.
func partitionSelfAndExternal(t *catalog.Target) (selfDeps []Removable, rest []catalog.Label) {
	for _, dep := range t.Deps {
		if dep.External() || strings.TrimSpace(string(dep)) == "" {
			continue
		}
		if dep == t.Label {
			selfDeps = append(selfDeps, Removable{
				From: t.Label, To: dep,
				Reason:     "self-dependency should not exist",
				Confidence: High,
			})
			continue
		}
		rest = append(rest, dep)
	}
	return selfDeps, rest
}
