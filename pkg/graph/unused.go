package graph

import "github.com/ritzau/bazeldeps/pkg/catalog"

// Reaches reports whether b is in a's transitive closure.
func (gr *Graph) Reaches(a, b catalog.Label) bool {
	return gr.TransitiveDeps(a)[b]
}

// FindUnusedDependencies is the graph-only fallback used when no
// source analyzer is attached: a dep is flagged when no other target
// in the graph depends on it besides t. This is weaker than the
// header-evidence analysis in pkg/engine and is always MEDIUM
// confidence.
func (gr *Graph) FindUnusedDependencies(t catalog.Label) []catalog.Label {
	var unused []catalog.Label
	for _, dep := range gr.forward[t] {
		reverse := gr.reverse[dep]
		onlyT := true
		for from := range reverse {
			if from != t {
				onlyT = false
				break
			}
		}
		if onlyT {
			unused = append(unused, dep)
		}
	}
	return unused
}
