package source

import (
	"testing"

	"github.com/ritzau/bazeldeps/pkg/catalog"
)

func newTestAnalyzer(targets []*catalog.Target, files map[string][]string) *Analyzer {
	cat := catalog.NewCatalog(targets)
	a := New(cat, "")
	InjectFilesForTesting(a, files)
	return a
}

func TestIsDependencyNeededDirectInclude(t *testing.T) {
	a := newTestAnalyzer(
		[]*catalog.Target{
			{Label: "//a:a", Sources: []string{"a.cc"}},
			{Label: "//b:b", Headers: []string{"b.h"}},
		},
		map[string][]string{
			"a.cc": {`#include "b.h"`},
		},
	)
	if !a.IsDependencyNeeded("//a:a", "//b:b") {
		t.Error("expected //a:a to need //b:b via a direct #include")
	}
}

func TestIsDependencyNeededNoIncludeIsFalse(t *testing.T) {
	a := newTestAnalyzer(
		[]*catalog.Target{
			{Label: "//a:a", Sources: []string{"a.cc"}},
			{Label: "//b:b", Headers: []string{"b.h"}},
		},
		map[string][]string{
			"a.cc": {`// no includes here`},
		},
	)
	if a.IsDependencyNeeded("//a:a", "//b:b") {
		t.Error("expected //a:a to not need //b:b when nothing includes b.h")
	}
}

func TestIsDependencyNeededSelfIsFalse(t *testing.T) {
	a := newTestAnalyzer([]*catalog.Target{{Label: "//a:a"}}, nil)
	if a.IsDependencyNeeded("//a:a", "//a:a") {
		t.Error("a target should never need itself")
	}
}

func TestTransitiveIncludeExpansion(t *testing.T) {
	// a.cc includes mid.h, mid.h includes b.h; //b:b provides b.h.
	a := newTestAnalyzer(
		[]*catalog.Target{
			{Label: "//a:a", Sources: []string{"a.cc"}, Headers: []string{"mid.h"}},
			{Label: "//b:b", Headers: []string{"b.h"}},
		},
		map[string][]string{
			"a.cc":  {`#include "mid.h"`},
			"mid.h": {`#include <b.h>`},
		},
	)
	if !a.IsDependencyNeeded("//a:a", "//b:b") {
		t.Error("expected transitive include through mid.h to reach b.h")
	}
}

func TestEmptyTargetNeverFlagsOthers(t *testing.T) {
	a := newTestAnalyzer(
		[]*catalog.Target{
			{Label: "//empty:empty"},
			{Label: "//x:x", Sources: []string{"x.cc"}},
		},
		map[string][]string{"x.cc": {`#include "anything.h"`}},
	)
	if a.IsDependencyNeeded("//x:x", "//empty:empty") {
		t.Error("a target that provides nothing should never be flagged as needed")
	}
	if len(a.Provided("//empty:empty")) != 0 || len(a.Included("//empty:empty")) != 0 {
		t.Error("target with no sources/headers should have empty provided and included sets")
	}
}

func TestBasenameStripsDirectoryComponents(t *testing.T) {
	cases := map[string]string{
		"foo/bar.h":        "bar.h",
		"bar.h":            "bar.h",
		"a/b/c/d.hpp":      "d.hpp",
		`win\style\path.h`: "path.h",
	}
	for input, want := range cases {
		if got := Basename(input); got != want {
			t.Errorf("Basename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsSourceAndHeaderFile(t *testing.T) {
	if !IsSourceFile("foo.cc") || !IsSourceFile("foo.mm") {
		t.Error("expected .cc and .mm to be source files")
	}
	if IsSourceFile("foo.h") {
		t.Error("expected .h to not be a source file")
	}
	if !IsHeaderFile("foo.hpp") || !IsHeaderFile("foo.inl") {
		t.Error("expected .hpp and .inl to be header files")
	}
	if IsHeaderFile("foo.cc") {
		t.Error("expected .cc to not be a header file")
	}
}
