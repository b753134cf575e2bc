package bazel

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/ritzau/bazeldeps/pkg/bazelerr"
	"github.com/ritzau/bazeldeps/pkg/catalog"
	"github.com/ritzau/bazeldeps/pkg/logging"
)

var log = logging.New("bazel.extractor")

// Extractor drives bazel query to build a catalog.Catalog, following
// the Comprehensive -> Concurrent fallback -> Broad fallback strategy
// chain of §4.1.
type Extractor struct {
	Executor     Executor
	KeepExternal bool
	Jobs         int
}

// NewExtractor builds an Extractor. jobs <= 0 defaults to
// runtime.NumCPU() * 4, per §4.1's concurrent-fallback sizing.
func NewExtractor(exec Executor, jobs int) *Extractor {
	if jobs <= 0 {
		jobs = runtime.NumCPU() * 4
	}
	return &Extractor{Executor: exec, Jobs: jobs}
}

// Extract runs the fallback chain for workspace and returns the
// resulting catalog. It fails only when every strategy is exhausted.
func (x *Extractor) Extract(ctx context.Context, workspace string) (*catalog.Catalog, error) {
	if err := ValidateWorkspace(workspace); err != nil {
		return nil, err
	}

	entries, err := x.enumerate(ctx, workspace)
	if err != nil {
		return nil, bazelerr.New(bazelerr.ExtractionHard, "", fmt.Errorf("all extraction strategies failed: %w", err))
	}

	targets := x.fetchDetails(ctx, workspace, entries)
	return catalog.NewCatalog(targets), nil
}

// enumerate runs the Comprehensive strategy's top-level enumeration
// and, on failure, falls through to the Broad strategy. It returns the
// label/kind pairs to fetch details for.
func (x *Extractor) enumerate(ctx context.Context, workspace string) ([]labelKindEntry, error) {
	out, err := x.Executor.Run(ctx, workspace, queryArgs(comprehensiveQuery, "label_kind")...)
	if err == nil {
		entries := parseLabelKind(out)
		if len(entries) > 0 {
			return entries, nil
		}
	} else {
		log.Warn("comprehensive enumeration failed, falling back", "error", err)
	}

	// Broad fallback: //... filtered to labels containing "cc_". The
	// rule kind is unknown at this stage; detail queries recover it
	// via ruleKindQuery.
	out, err = x.Executor.Run(ctx, workspace, queryArgs(broadQuery, "label")...)
	if err != nil {
		return nil, fmt.Errorf("broad fallback enumeration failed: %w", err)
	}
	labels := filterCCLabels(parseLabels(out))
	if len(labels) == 0 {
		return nil, fmt.Errorf("broad fallback found no cc_* labels")
	}
	entries := make([]labelKindEntry, 0, len(labels))
	for _, l := range labels {
		entries = append(entries, labelKindEntry{Label: l})
	}
	return entries, nil
}

// fetchDetails runs the three per-target detail queries (srcs, hdrs,
// deps) across a worker pool sized to x.Jobs, per the Concurrent
// fallback strategy; within one target the three queries run in
// parallel under fetchOne's per-target WaitGroup.
func (x *Extractor) fetchDetails(ctx context.Context, workspace string, entries []labelKindEntry) []*catalog.Target {
	results := make([]*catalog.Target, len(entries))

	jobs := make(chan int, len(entries))
	for i := range entries {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	workers := x.Jobs
	if workers > len(entries) {
		workers = len(entries)
	}
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = x.fetchOne(ctx, workspace, entries[i])
			}
		}()
	}
	wg.Wait()

	final := make([]*catalog.Target, 0, len(results))
	for _, t := range results {
		if t != nil {
			final = append(final, t)
		}
	}
	return final
}

// detail holds the outcome of one of the three per-target detail
// queries.
type detail struct {
	values []string
	err    error
}

// fetchOne runs the srcs/hdrs/deps detail barrier for a single target
// and assembles a catalog.Target. It never returns nil unless the
// target's rule kind cannot be determined at all (FAILED_HARD).
func (x *Extractor) fetchOne(ctx context.Context, workspace string, entry labelKindEntry) *catalog.Target {
	state := catalog.StateInFlight

	kind := entry.Kind
	if kind == "" {
		out, err := x.Executor.Run(ctx, workspace, queryArgs(ruleKindQuery(entry.Label), "label_kind")...)
		if err != nil {
			log.Warn("rule kind lookup failed, dropping target", "label", entry.Label, "error", err)
			return nil // FAILED_HARD: no kind, no target
		}
		parsed := parseLabelKind(out)
		if len(parsed) == 0 {
			return nil
		}
		kind = parsed[0].Kind
	}

	var wg sync.WaitGroup
	results := make(map[string]detail, 3)
	var mu sync.Mutex

	run := func(name, query string) {
		defer wg.Done()
		out, err := x.Executor.Run(ctx, workspace, queryArgs(query, "label")...)
		mu.Lock()
		if err != nil {
			results[name] = detail{err: err}
		} else {
			results[name] = detail{values: parseLabels(out)}
		}
		mu.Unlock()
	}

	wg.Add(3)
	go run("srcs", srcsQuery(entry.Label))
	go run("hdrs", hdrsQuery(entry.Label))
	go run("deps", depsQuery(entry.Label))
	wg.Wait()

	t := &catalog.Target{
		Label:   catalog.Label(entry.Label),
		Kind:    kind,
		Package: packageOf(entry.Label),
	}

	for _, name := range []string{"srcs", "hdrs", "deps"} {
		d := results[name]
		if d.err != nil {
			state = catalog.StateFailedSoft
			t.SoftFailures = append(t.SoftFailures, name)
			log.Warn("detail query failed", "label", entry.Label, "query", name, "error", d.err)
			continue
		}
		switch name {
		case "srcs":
			t.Sources = toPaths(d.values)
		case "hdrs":
			t.Headers = toPaths(d.values)
		case "deps":
			deduped := dedupeLabels(entry.Label, d.values, x.KeepExternal)
			t.Deps = make([]catalog.Label, 0, len(deduped))
			for _, l := range deduped {
				t.Deps = append(t.Deps, catalog.Label(l))
			}
		}
	}

	if state == catalog.StateInFlight {
		state = catalog.StateComplete
	}
	t.State = state

	return t
}

func toPaths(labels []string) []string {
	paths := make([]string, 0, len(labels))
	for _, l := range labels {
		paths = append(paths, catalog.LabelToPath(catalog.Label(l)))
	}
	return paths
}

func packageOf(label string) string {
	s := strings.TrimPrefix(label, "//")
	pkg, _, _ := strings.Cut(s, ":")
	return "//" + pkg
}
