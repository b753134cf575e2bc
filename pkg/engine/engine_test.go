package engine

import (
	"testing"

	"github.com/ritzau/bazeldeps/pkg/catalog"
	"github.com/ritzau/bazeldeps/pkg/graph"
	"github.com/ritzau/bazeldeps/pkg/source"
)

type fakeFile struct {
	path  string
	lines []string
}

func newEngine(t *testing.T, targets []*catalog.Target, files []fakeFile) *Engine {
	t.Helper()
	cat := catalog.NewCatalog(targets)
	gr := graph.Build(cat)
	analyzer := source.New(cat, "")

	fileMap := make(map[string][]string)
	for _, f := range files {
		fileMap[f.path] = f.lines
	}
	injectFiles(analyzer, fileMap)

	return New(cat, gr, analyzer, false)
}

func TestScenarioDirectCycleHeaderEvidence(t *testing.T) {
	// §8 scenario 1: direct cycle where both edges are genuinely used.
	e := newEngine(t, []*catalog.Target{
		{Label: "//a:a", Kind: "cc_library", Sources: []string{"a.cc"}, Deps: []catalog.Label{"//b:b"}},
		{Label: "//b:b", Kind: "cc_library", Headers: []string{"b.h"}, Sources: []string{"b.cc"}, Deps: []catalog.Label{"//a:a"}},
	}, []fakeFile{
		{"a.cc", []string{`#include "b.h"`}},
		{"b.cc", []string{`#include "a.h"`}},
	})
	// //b:b also needs a.h, so add it as a header for //a:a.
	e.Catalog.Range(func(tg *catalog.Target) {
		if tg.Label == "//a:a" {
			tg.Headers = []string{"a.h"}
		}
	})
	e.Graph = graph.Build(e.Catalog)

	cycles := e.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	c := cycles[0]
	if c.Length != 2 || c.Type != graph.Direct {
		t.Errorf("cycle = %+v, want length=2 type=DIRECT", c)
	}
	if len(c.Removable) != 0 {
		t.Errorf("removable = %v, want empty (both edges are used)", c.Removable)
	}
	found := false
	for _, s := range c.Suggestions {
		if s == "extract common interface" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions = %v, want to include 'extract common interface'", c.Suggestions)
	}
}

func TestScenarioDirectCycleSpuriousEdge(t *testing.T) {
	// §8 scenario 2: same as 1 but b.cc does not include a.h.
	e := newEngine(t, []*catalog.Target{
		{Label: "//a:a", Kind: "cc_library", Sources: []string{"a.cc"}, Headers: []string{"a.h"}, Deps: []catalog.Label{"//b:b"}},
		{Label: "//b:b", Kind: "cc_library", Headers: []string{"b.h"}, Sources: []string{"b.cc"}, Deps: []catalog.Label{"//a:a"}},
	}, []fakeFile{
		{"a.cc", []string{`#include "b.h"`}},
		{"b.cc", []string{`// no includes`}},
	})

	cycles := e.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	c := cycles[0]
	wantFound := false
	for _, r := range c.Removable {
		if r.From == "//b:b" && r.To == "//a:a" && r.Confidence == High {
			wantFound = true
		}
	}
	if !wantFound {
		t.Errorf("removable = %v, want {from=//b:b, to=//a:a, confidence=HIGH}", c.Removable)
	}
}

func TestScenarioUnusedDepNoCycle(t *testing.T) {
	// §8 scenario 3.
	e := newEngine(t, []*catalog.Target{
		{Label: "//x:x", Kind: "cc_library", Sources: []string{"x.cc"}, Deps: []catalog.Label{"//y:y", "//z:z"}},
		{Label: "//y:y", Kind: "cc_library", Headers: []string{"y.h"}},
		{Label: "//z:z", Kind: "cc_library", Headers: []string{"z.h"}},
	}, []fakeFile{
		{"x.cc", []string{`#include "y.h"`}},
	})

	if cycles := e.Cycles(); len(cycles) != 0 {
		t.Errorf("got %d cycles, want 0", len(cycles))
	}

	unused := e.UnusedDependencies()
	found := false
	for _, u := range unused {
		if u.From == "//x:x" && u.To == "//z:z" && u.Confidence == High {
			found = true
		}
		if u.From == "//x:x" && u.To == "//y:y" {
			t.Errorf("//y:y is used by //x:x and should not be removable, got %+v", u)
		}
	}
	if !found {
		t.Errorf("unused = %v, want {from=//x:x, to=//z:z, confidence=HIGH}", unused)
	}
}

func TestScenarioTransitiveForwardingNotRescued(t *testing.T) {
	// §8 scenario 4: //y:y truly needs //z:z, but that does not rescue
	// //x:x's direct (and unused) edge to //z:z.
	e := newEngine(t, []*catalog.Target{
		{Label: "//x:x", Kind: "cc_library", Sources: []string{"x.cc"}, Deps: []catalog.Label{"//y:y", "//z:z"}},
		{Label: "//y:y", Kind: "cc_library", Sources: []string{"y.cc"}, Headers: []string{"y.h"}, Deps: []catalog.Label{"//z:z"}},
		{Label: "//z:z", Kind: "cc_library", Headers: []string{"z.h"}},
	}, []fakeFile{
		{"x.cc", []string{`#include "y.h"`}},
		{"y.cc", []string{`#include "z.h"`}},
	})

	unused := e.UnusedDependencies()
	found := false
	for _, u := range unused {
		if u.From == "//x:x" && u.To == "//z:z" {
			found = true
		}
	}
	if !found {
		t.Error("//z:z must still be reported removable from //x:x: transitive forwarding through //y:y does not rescue a direct unused edge")
	}
}

func TestScenarioDiamond(t *testing.T) {
	// §8 scenario 5: a->b->c->a plus a->d->c.
	e := newEngine(t, []*catalog.Target{
		{Label: "//a:a", Kind: "cc_library", Deps: []catalog.Label{"//b:b", "//d:d"}},
		{Label: "//b:b", Kind: "cc_library", Deps: []catalog.Label{"//c:c"}},
		{Label: "//c:c", Kind: "cc_library", Deps: []catalog.Label{"//a:a"}},
		{Label: "//d:d", Kind: "cc_library", Deps: []catalog.Label{"//c:c"}},
	}, nil)

	cycles := e.Cycles()
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle")
	}
	foundDiamond := false
	foundSuggestion := false
	for _, c := range cycles {
		if c.Type == graph.Diamond {
			foundDiamond = true
			for _, s := range c.Suggestions {
				if s == "introduce an interface layer" {
					foundSuggestion = true
				}
			}
		}
	}
	if !foundDiamond {
		t.Errorf("cycles = %+v, want at least one DIAMOND classification", cycles)
	}
	if !foundSuggestion {
		t.Error("diamond cycle should suggest 'introduce an interface layer'")
	}
}

func TestScenarioExternalDepIgnored(t *testing.T) {
	// §8 scenario 6.
	e := newEngine(t, []*catalog.Target{
		{Label: "//x:x", Kind: "cc_library", Deps: []catalog.Label{"@ext//:lib", "//y:y"}},
		{Label: "//y:y", Kind: "cc_library"},
	}, nil)

	if e.Graph.HasLabel("@ext//:lib") {
		t.Error("external label must not appear in the graph")
	}
	for _, u := range e.UnusedDependencies() {
		if u.To == "@ext//:lib" {
			t.Errorf("external dep must not appear in removable-dep output, got %+v", u)
		}
	}
}

func TestSelfDependencyIsHighConfidenceRemovable(t *testing.T) {
	e := newEngine(t, []*catalog.Target{
		{Label: "//a:a", Kind: "cc_library", Deps: []catalog.Label{"//a:a"}},
	}, nil)

	unused := e.UnusedDependencies()
	if len(unused) != 1 || unused[0].Reason != "self-dependency should not exist" || unused[0].Confidence != High {
		t.Errorf("unused = %+v, want one self-dependency HIGH-confidence removable", unused)
	}
}

func TestEmptyCatalogProducesEmptyResults(t *testing.T) {
	e := newEngine(t, nil, nil)
	if len(e.Cycles()) != 0 {
		t.Error("empty catalog should produce zero cycles")
	}
	if len(e.UnusedDependencies()) != 0 {
		t.Error("empty catalog should produce zero unused deps")
	}
}

// injectFiles wires a fake file reader into an Analyzer built via
// source.New through source.InjectFilesForTesting, the exported test
// seam of the source package, without exposing the reader field itself.
func injectFiles(a *source.Analyzer, files map[string][]string) {
	source.InjectFilesForTesting(a, files)
}
