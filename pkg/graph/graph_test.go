package graph

import (
	"sort"
	"testing"

	"github.com/ritzau/bazeldeps/pkg/catalog"
)

func buildCatalog(deps map[string][]string) *catalog.Catalog {
	var targets []*catalog.Target
	for label, ds := range deps {
		labels := make([]catalog.Label, len(ds))
		for i, d := range ds {
			labels[i] = catalog.Label(d)
		}
		targets = append(targets, &catalog.Target{Label: catalog.Label(label), Deps: labels})
	}
	return catalog.NewCatalog(targets)
}

func TestBuildDropsExternalAndSelf(t *testing.T) {
	cat := buildCatalog(map[string][]string{
		"//a:a": {"//a:a", "@ext//:lib", "//b:b", " //b:b "},
		"//b:b": nil,
	})
	gr := Build(cat)

	deps := gr.DirectDeps("//a:a")
	if len(deps) != 1 || deps[0] != "//b:b" {
		t.Errorf("DirectDeps(//a:a) = %v, want [//b:b]", deps)
	}
	if gr.HasLabel("@ext//:lib") {
		t.Error("external label should not appear in the graph")
	}
}

func TestReverseIsTranspose(t *testing.T) {
	cat := buildCatalog(map[string][]string{
		"//a:a": {"//b:b", "//c:c"},
		"//b:b": {"//c:c"},
		"//c:c": nil,
	})
	gr := Build(cat)

	rev := gr.ReverseDeps("//c:c")
	sort.Slice(rev, func(i, j int) bool { return rev[i] < rev[j] })
	want := []catalog.Label{"//a:a", "//b:b"}
	if len(rev) != len(want) || rev[0] != want[0] || rev[1] != want[1] {
		t.Errorf("ReverseDeps(//c:c) = %v, want %v", rev, want)
	}
}

func TestTransitiveDepsExcludesSelf(t *testing.T) {
	cat := buildCatalog(map[string][]string{
		"//a:a": {"//b:b"},
		"//b:b": {"//a:a"}, // cycle back to a
	})
	gr := Build(cat)

	td := gr.TransitiveDeps("//a:a")
	if td["//a:a"] {
		t.Error("TransitiveDeps(t) must not contain t, even via a cycle")
	}
	if !td["//b:b"] {
		t.Error("TransitiveDeps(//a:a) should contain //b:b")
	}
}

func TestFindCyclesDirect(t *testing.T) {
	cat := buildCatalog(map[string][]string{
		"//a:a": {"//b:b"},
		"//b:b": {"//a:a"},
	})
	gr := Build(cat)

	cycles := gr.FindCycles()
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle")
	}
	for _, c := range cycles {
		if c.Path[0] != c.Path[len(c.Path)-1] {
			t.Errorf("cycle %v is not closed", c.Path)
		}
		for i := 0; i < len(c.Path)-1; i++ {
			found := false
			for _, d := range gr.forward[c.Path[i]] {
				if d == c.Path[i+1] {
					found = true
				}
			}
			if !found {
				t.Errorf("cycle %v has a non-edge from %s to %s", c.Path, c.Path[i], c.Path[i+1])
			}
		}
	}
}

func TestClassifyDirect(t *testing.T) {
	c := Cycle{Path: []catalog.Label{"//a:a", "//b:b", "//a:a"}}
	got := Classify(c, func(a, b catalog.Label) bool { return true })
	if got != Direct {
		t.Errorf("Classify() = %s, want DIRECT", got)
	}
}

func TestClassifyDiamond(t *testing.T) {
	// a -> b -> c -> a, plus a -> d -> c: cycle nodes here are a,b,c
	// (the canonical 3-cycle) but augmented with d reachable from a
	// and reaching c makes c reachable from two cycle members (b, d)
	// once d participates; model this directly via the reaches stub.
	c := Cycle{Path: []catalog.Label{"//a:a", "//b:b", "//c:c", "//d:d", "//a:a"}}
	reaches := func(a, b catalog.Label) bool {
		// every node reaches //c:c except //c:c itself
		return b == "//c:c" && a != "//c:c"
	}
	got := Classify(c, reaches)
	if got != Diamond {
		t.Errorf("Classify() = %s, want DIAMOND", got)
	}
}

func TestClassifySimpleThreeCycle(t *testing.T) {
	c := Cycle{Path: []catalog.Label{"//a:a", "//b:b", "//c:c", "//a:a"}}
	got := Classify(c, func(a, b catalog.Label) bool { return false })
	if got != Simple {
		t.Errorf("Classify() = %s, want SIMPLE", got)
	}
}

func TestClassifyComplex(t *testing.T) {
	c := Cycle{Path: []catalog.Label{"//a:a", "//b:b", "//c:c", "//d:d", "//a:a"}}
	got := Classify(c, func(a, b catalog.Label) bool { return false })
	if got != Complex {
		t.Errorf("Classify() = %s, want COMPLEX", got)
	}
}

func TestFindUnusedDependenciesGraphOnly(t *testing.T) {
	cat := buildCatalog(map[string][]string{
		"//x:x": {"//y:y"},
		"//z:z": {"//y:y"},
	})
	gr := Build(cat)

	unused := gr.FindUnusedDependencies("//x:x")
	if len(unused) != 0 {
		t.Errorf("FindUnusedDependencies(//x:x) = %v, want empty (shared by //z:z too)", unused)
	}

	cat2 := buildCatalog(map[string][]string{
		"//x:x": {"//y:y"},
	})
	gr2 := Build(cat2)
	unused2 := gr2.FindUnusedDependencies("//x:x")
	if len(unused2) != 1 || unused2[0] != "//y:y" {
		t.Errorf("FindUnusedDependencies(//x:x) = %v, want [//y:y]", unused2)
	}
}
