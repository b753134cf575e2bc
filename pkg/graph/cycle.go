package graph

import "github.com/ritzau/bazeldeps/pkg/catalog"

// Classification is one of the four cycle shapes defined in §3.
type Classification string

const (
	Direct  Classification = "DIRECT"
	Diamond Classification = "DIAMOND"
	Complex Classification = "COMPLEX"
	Simple  Classification = "SIMPLE"
)

// Cycle is an ordered list of labels forming a back-edge path,
// closed by repeating the first element at the end.
type Cycle struct {
	Path []catalog.Label
}

// Len returns the number of distinct targets in the cycle (Path minus
// its closing repeat of the first element).
func (c Cycle) Len() int {
	if len(c.Path) < 2 {
		return len(c.Path)
	}
	return len(c.Path) - 1
}

type color int

const (
	white color = iota
	gray
	black
)

// FindCycles performs a colored (white/gray/black) DFS from every
// still-white node in label order. On a back edge from u to a gray
// ancestor v, it walks parent pointers from u to v, reverses that path
// and closes it by appending v again, per §4.2. One cycle is emitted
// per back edge found. Colors persist across DFS roots, so a cycle
// whose only closing path runs through an already finished (black)
// node is not reported: not every elementary cycle of the graph
// appears in the result. No deduplication pass is applied.
func (gr *Graph) FindCycles() []Cycle {
	colors := make(map[catalog.Label]color, len(gr.ids))
	parent := make(map[catalog.Label]catalog.Label)
	for l := range gr.ids {
		colors[l] = white
	}

	var cycles []Cycle
	var visit func(u catalog.Label)
	visit = func(u catalog.Label) {
		colors[u] = gray
		for _, v := range gr.forward[u] {
			switch colors[v] {
			case white:
				parent[v] = u
				visit(v)
			case gray:
				cycles = append(cycles, reconstructCycle(u, v, parent))
			case black:
				// already fully explored, not a back edge
			}
		}
		colors[u] = black
	}

	for _, l := range gr.Labels() {
		if colors[l] == white {
			visit(l)
		}
	}
	return cycles
}

// reconstructCycle walks parent pointers from u back to v (inclusive),
// reverses that path so it reads in forward-edge order starting at v,
// then closes it by appending v again.
func reconstructCycle(u, v catalog.Label, parent map[catalog.Label]catalog.Label) Cycle {
	path := []catalog.Label{u}
	cur := u
	for cur != v {
		cur = parent[cur]
		path = append(path, cur)
	}

	reversed := make([]catalog.Label, len(path))
	for i, l := range path {
		reversed[len(path)-1-i] = l
	}
	reversed = append(reversed, v)
	return Cycle{Path: reversed}
}

// Classify determines the cycle's Classification per §3, given a
// reachability predicate: reaches(a, b) reports whether a can reach b
// via one or more forward edges.
func Classify(c Cycle, reaches func(a, b catalog.Label) bool) Classification {
	n := c.Len()
	if n == 2 {
		return Direct
	}
	if n >= 4 {
		nodes := c.Path[:n]
		for _, x := range nodes {
			reachingCount := 0
			for _, a := range nodes {
				if a == x {
					continue
				}
				if reaches(a, x) {
					reachingCount++
				}
			}
			if reachingCount >= 2 {
				return Diamond
			}
		}
	}
	if n > 3 {
		return Complex
	}
	return Simple
}
