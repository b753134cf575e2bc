// Package bazelerr defines the error kinds raised across the extractor,
// graph, analyzer, and engine so callers can distinguish fatal workspace
// failures from the soft, per-target/per-edge failures the pipeline
// tolerates.
package bazelerr

import "fmt"

// Kind classifies an error by where in the pipeline it originated and
// whether it is fatal to the run.
type Kind int

const (
	// Configuration covers a missing or invalid workspace, or an
	// unreachable Bazel binary. Always fatal.
	Configuration Kind = iota
	// ExtractionSoft covers a per-target detail-query failure; the
	// target is retained with whatever was gathered.
	ExtractionSoft
	// ExtractionHard covers a top-level enumeration failure; triggers
	// the next fallback strategy and only becomes fatal once every
	// strategy is exhausted.
	ExtractionHard
	// Parse covers an unreadable source file; treated as empty.
	Parse
	// Analysis covers a failure analyzing a specific edge; that edge
	// contributes no code-level evidence but target-level evidence
	// still runs.
	Analysis
	// Output covers an unopenable output file; the report falls back
	// to stdout.
	Output
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case ExtractionSoft:
		return "extraction-soft"
	case ExtractionHard:
		return "extraction-hard"
	case Parse:
		return "parse"
	case Analysis:
		return "analysis"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with its Kind and the target label or
// file path it concerns, if any.
type Error struct {
	Kind   Kind
	Label  string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Label, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind wrapping err.
func New(kind Kind, label string, err error) *Error {
	return &Error{Kind: kind, Label: label, Err: err}
}

// Fatal reports whether an error of this kind should terminate the run
// when it reaches the top level (i.e. after fallback strategies, if
// any, are exhausted).
func (k Kind) Fatal() bool {
	return k == Configuration || k == ExtractionHard
}
