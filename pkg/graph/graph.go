// Package graph holds the in-memory directed graph of Bazel targets:
// forward and reverse adjacency, cycle discovery, and transitive
// reachability, built once from an immutable catalog.Catalog.
package graph

import (
	"sort"
	"strings"

	"github.com/ritzau/bazeldeps/pkg/catalog"
)

// Graph is the directed graph of target labels with forward and
// reverse adjacency.
type Graph struct {
	ids  map[catalog.Label]int64
	rev  map[int64]catalog.Label
	next int64

	forward map[catalog.Label][]catalog.Label // declared order, deduped
	reverse map[catalog.Label]map[catalog.Label]bool
}

// Build constructs a Graph from a Catalog, dropping empty, external
// ("@"-prefixed), and whitespace-only labels, and trimming whitespace
// from the rest, per §4.2's construction invariants.
func Build(cat *catalog.Catalog) *Graph {
	gr := &Graph{
		ids:     make(map[catalog.Label]int64),
		rev:     make(map[int64]catalog.Label),
		forward: make(map[catalog.Label][]catalog.Label),
		reverse: make(map[catalog.Label]map[catalog.Label]bool),
	}

	cat.Range(func(t *catalog.Target) {
		gr.addNode(t.Label)
	})

	cat.Range(func(t *catalog.Target) {
		for _, dep := range t.Deps {
			dep = catalog.Label(strings.TrimSpace(string(dep)))
			if dep == "" || dep.External() || t.Label == dep {
				continue
			}
			gr.addEdge(t.Label, dep)
		}
	})

	return gr
}

func (gr *Graph) addNode(label catalog.Label) {
	label = catalog.Label(strings.TrimSpace(string(label)))
	if label == "" || label.External() {
		return
	}
	if _, ok := gr.ids[label]; ok {
		return
	}
	id := gr.next
	gr.next++
	gr.ids[label] = id
	gr.rev[id] = label
}

func (gr *Graph) addEdge(from, to catalog.Label) {
	gr.addNode(from)
	gr.addNode(to)

	alreadyForward := false
	for _, existing := range gr.forward[from] {
		if existing == to {
			alreadyForward = true
			break
		}
	}
	if !alreadyForward {
		gr.forward[from] = append(gr.forward[from], to)
	}

	if gr.reverse[to] == nil {
		gr.reverse[to] = make(map[catalog.Label]bool)
	}
	gr.reverse[to][from] = true
}

// DirectDeps returns t's direct dependencies in declared order.
func (gr *Graph) DirectDeps(t catalog.Label) []catalog.Label {
	return append([]catalog.Label(nil), gr.forward[t]...)
}

// ReverseDeps returns the set of labels that directly depend on t.
func (gr *Graph) ReverseDeps(t catalog.Label) []catalog.Label {
	set := gr.reverse[t]
	out := make([]catalog.Label, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TransitiveDeps returns every label reachable from t's direct
// successors via BFS over forward adjacency. t itself is never
// included, even if a cycle loops back to it.
func (gr *Graph) TransitiveDeps(t catalog.Label) map[catalog.Label]bool {
	visited := make(map[catalog.Label]bool)
	queue := append([]catalog.Label(nil), gr.forward[t]...)
	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]
		if l == t || visited[l] {
			continue
		}
		visited[l] = true
		queue = append(queue, gr.forward[l]...)
	}
	return visited
}

// Labels returns every label present in the graph.
func (gr *Graph) Labels() []catalog.Label {
	out := make([]catalog.Label, 0, len(gr.ids))
	for l := range gr.ids {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasLabel reports whether label is present in the graph.
func (gr *Graph) HasLabel(label catalog.Label) bool {
	_, ok := gr.ids[label]
	return ok
}
