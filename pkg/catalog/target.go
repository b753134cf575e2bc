// Package catalog defines the Target/TargetCatalog data model that the
// extractor produces and every downstream subsystem reads immutably.
package catalog

import "strings"

// Label is a canonical Bazel label, e.g. "//pkg/path:name".
type Label string

// External reports whether the label refers to an external workspace
// (begins with "@"), in which case it is excluded from the graph.
func (l Label) External() bool {
	return strings.HasPrefix(string(l), "@")
}

// State is a target's position in the per-target extraction state
// machine: UNSEEN -> QUEUED -> IN_FLIGHT -> (COMPLETE | FAILED_SOFT | FAILED_HARD).
type State int

const (
	StateUnseen State = iota
	StateQueued
	StateInFlight
	StateComplete
	StateFailedSoft
	StateFailedHard
)

// Target is a single Bazel C/C++ build unit as observed by the
// extractor. Once placed in a Catalog, a Target is never mutated.
type Target struct {
	Label   Label
	Kind    string // e.g. "cc_library", "cc_binary", "cc_test"
	Package string // e.g. "//pkg/path"

	Sources []string // workspace-relative paths of srcs
	Headers []string // workspace-relative paths of hdrs
	Deps    []Label  // declared deps, ordered, de-duped, self-label dropped

	// State is this target's final position in the extraction state
	// machine. FAILED_HARD targets never reach the catalog at all; a
	// target present here is always COMPLETE or FAILED_SOFT.
	State State

	// SoftFailures records detail queries that failed for this target;
	// the target is still retained (state FAILED_SOFT) with whatever
	// detail succeeded.
	SoftFailures []string
}

// IsTest reports whether this target's rule kind or name marks it as a
// test target, per the cycle engine's test-augmentation rule.
func (t *Target) IsTest() bool {
	if strings.Contains(t.Kind, "test") {
		return true
	}
	name := string(t.Label)
	return strings.Contains(name, "_test") || strings.Contains(name, "test_")
}

// Catalog is the read-only mapping from Label to Target built once by
// the extractor. It is never mutated after NewCatalog returns.
type Catalog struct {
	targets map[Label]*Target
}

// NewCatalog builds a Catalog from a slice of targets, keyed by label.
// Later entries for the same label overwrite earlier ones.
func NewCatalog(targets []*Target) *Catalog {
	c := &Catalog{targets: make(map[Label]*Target, len(targets))}
	for _, t := range targets {
		c.targets[t.Label] = t
	}
	return c
}

// Get returns the Target for a label and whether it was found.
func (c *Catalog) Get(label Label) (*Target, bool) {
	t, ok := c.targets[label]
	return t, ok
}

// Len returns the number of targets in the catalog.
func (c *Catalog) Len() int {
	return len(c.targets)
}

// Labels returns all labels in the catalog, unordered.
func (c *Catalog) Labels() []Label {
	labels := make([]Label, 0, len(c.targets))
	for l := range c.targets {
		labels = append(labels, l)
	}
	return labels
}

// Range calls fn for every target in the catalog. Iteration order is
// unspecified; callers that need determinism should sort the result.
func (c *Catalog) Range(fn func(*Target)) {
	for _, t := range c.targets {
		fn(t)
	}
}

// LabelToPath converts a Bazel label to a workspace-relative filesystem
// path, per the extractor's label-to-path contract:
//
//	//pkg:name  -> pkg/name
//	//pkg       -> pkg/<last-segment-of-pkg>
//	//          -> .
func LabelToPath(label Label) string {
	s := strings.TrimPrefix(string(label), "//")
	pkg, name, hasColon := strings.Cut(s, ":")
	if !hasColon {
		if pkg == "" {
			return "."
		}
		segments := strings.Split(pkg, "/")
		last := segments[len(segments)-1]
		return pkg + "/" + last
	}
	if pkg == "" {
		return name
	}
	return pkg + "/" + name
}
