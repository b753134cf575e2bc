package bazel

import (
	"reflect"
	"testing"
)

func TestParseLabelKind(t *testing.T) {
	output := []byte(`
Loading: 0 packages loaded
cc_library rule //util:util
cc_binary rule //main:app
INFO: Empty results
`)
	got := parseLabelKind(output)
	want := []labelKindEntry{
		{Kind: "cc_library", Label: "//util:util"},
		{Kind: "cc_binary", Label: "//main:app"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseLabelKind() = %+v, want %+v", got, want)
	}
}

func TestParseLabels(t *testing.T) {
	output := []byte("Loading: foo\n//a:a\n//b:b.cc\nINFO: done\n")
	got := parseLabels(output)
	want := []string{"//a:a", "//b:b.cc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseLabels() = %v, want %v", got, want)
	}
}

func TestFilterCCLabels(t *testing.T) {
	got := filterCCLabels([]string{"//a:cc_binary_thing", "//b:go_library", "//c:cc_library"})
	want := []string{"//a:cc_binary_thing", "//c:cc_library"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterCCLabels() = %v, want %v", got, want)
	}
}

func TestDedupeLabels(t *testing.T) {
	got := dedupeLabels("//a:a", []string{"//a:a", "//b:b", " //b:b ", "@ext//:lib", "//c:c"}, false)
	want := []string{"//b:b", "//c:c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeLabels() = %v, want %v", got, want)
	}
}

func TestDedupeLabelsKeepExternal(t *testing.T) {
	got := dedupeLabels("//a:a", []string{"@ext//:lib", "//b:b"}, true)
	want := []string{"@ext//:lib", "//b:b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeLabels() = %v, want %v", got, want)
	}
}
