// Package source computes, per target, which header basenames it
// actually includes (transitively through its own headers) and which
// it provides, and decides whether a dependency is truly needed on
// that basis.
package source

import (
	"bufio"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/ritzau/bazeldeps/pkg/bazelerr"
	"github.com/ritzau/bazeldeps/pkg/catalog"
	"github.com/ritzau/bazeldeps/pkg/logging"
)

var log = logging.New("source.analyzer")

var includeRegexp = regexp.MustCompile(`#\s*include\s*[<"]([^>"]+)[>"]`)

var sourceExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".c++": true, ".m": true, ".mm": true,
}

var headerExtensions = map[string]bool{
	".h": true, ".hh": true, ".hpp": true, ".hxx": true, ".h++": true, ".inc": true, ".inl": true,
}

// IsSourceFile reports whether path's extension marks it as a source
// file per §4.3.
func IsSourceFile(p string) bool {
	return sourceExtensions[strings.ToLower(path.Ext(p))]
}

// IsHeaderFile reports whether path's extension marks it as a header
// file per §4.3.
func IsHeaderFile(p string) bool {
	return headerExtensions[strings.ToLower(path.Ext(p))]
}

// Basename returns the basename after the last "/" of p, matching the
// original's directory-stripping convention (also tolerates "\").
func Basename(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// analysis is the per-target result the spec calls TargetAnalysis.
type analysis struct {
	provided map[string]bool
	included map[string]bool
}

// Analyzer computes and caches per-target analyses. Each target is
// analyzed at most once; results are cached keyed by label and safe
// for concurrent readers, per §4.3's caching contract.
type Analyzer struct {
	catalog *catalog.Catalog

	mu    sync.Mutex
	cache map[catalog.Label]*analysis
	// readFile is overridable for tests.
	readFile func(string) ([]string, error)
}

// New builds an Analyzer reading source files relative to workspace.
func New(cat *catalog.Catalog, workspace string) *Analyzer {
	return &Analyzer{
		catalog: cat,
		cache:   make(map[catalog.Label]*analysis),
		readFile: func(relPath string) ([]string, error) {
			return readLines(joinWorkspace(workspace, relPath))
		},
	}
}

// InjectFilesForTesting replaces a's file reader with one backed by an
// in-memory map, so tests (in this package and callers like pkg/engine)
// can script file contents without touching disk.
func InjectFilesForTesting(a *Analyzer, files map[string][]string) {
	a.readFile = func(p string) ([]string, error) {
		lines, ok := files[p]
		if !ok {
			return nil, bazelerr.New(bazelerr.Parse, p, os.ErrNotExist)
		}
		return lines, nil
	}
}

func joinWorkspace(workspace, relPath string) string {
	if workspace == "" {
		return relPath
	}
	return workspace + string(os.PathSeparator) + relPath
}

// readLines reads a file's lines, treating any I/O error as an empty
// file per §5's "all I/O errors from reading source files are soft"
// failure policy.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Debug("source file unreadable, treating as empty", "path", path, "error", err)
		return nil, bazelerr.New(bazelerr.Parse, path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, nil
}

// directIncludes extracts the set of included basenames from a
// single file's lines.
func directIncludes(lines []string) map[string]bool {
	out := make(map[string]bool)
	for _, line := range lines {
		m := includeRegexp.FindStringSubmatch(line)
		if len(m) == 2 {
			out[Basename(m[1])] = true
		}
	}
	return out
}

// analyze computes and caches the analysis for label, or returns the
// cached result if already computed.
func (a *Analyzer) analyze(label catalog.Label) *analysis {
	a.mu.Lock()
	if cached, ok := a.cache[label]; ok {
		a.mu.Unlock()
		return cached
	}
	a.mu.Unlock()

	result := a.compute(label)

	a.mu.Lock()
	if cached, ok := a.cache[label]; ok {
		a.mu.Unlock()
		return cached
	}
	a.cache[label] = result
	a.mu.Unlock()
	return result
}

func (a *Analyzer) compute(label catalog.Label) *analysis {
	result := &analysis{provided: make(map[string]bool), included: make(map[string]bool)}

	t, ok := a.catalog.Get(label)
	if !ok {
		return result
	}

	for _, files := range [][]string{t.Sources, t.Headers} {
		for _, h := range files {
			if IsHeaderFile(h) {
				result.provided[Basename(h)] = true
			}
		}
	}

	// Transitive include expansion via an explicit stack with a
	// visited set, bounding the walk to O(H) per target.
	visited := make(map[string]bool)
	var stack []string

	seedFrom := func(files []string) {
		for _, f := range files {
			lines, err := a.readFile(f)
			if err != nil {
				continue // soft failure: file contributes no includes
			}
			for basename := range directIncludes(lines) {
				if !visited[basename] {
					visited[basename] = true
					stack = append(stack, basename)
				}
			}
		}
	}

	seedFrom(t.Sources)
	seedFrom(t.Headers)

	headersByBasename := a.headerFilesByBasename()

	for len(stack) > 0 {
		basename := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result.included[basename] = true

		if filePath, ok := headersByBasename[basename]; ok {
			lines, err := a.readFile(filePath)
			if err != nil {
				continue
			}
			for next := range directIncludes(lines) {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
	}

	return result
}

// headerFilesByBasename indexes every header path across the whole
// catalog by basename, so transitive expansion can follow an include
// of "foo.h" to some target's declared header file regardless of
// which target it belongs to (basename-only matching, per §4.3's
// documented limitation).
func (a *Analyzer) headerFilesByBasename() map[string]string {
	index := make(map[string]string)
	a.catalog.Range(func(t *catalog.Target) {
		for _, files := range [][]string{t.Sources, t.Headers} {
			for _, h := range files {
				if IsHeaderFile(h) {
					index[Basename(h)] = h
				}
			}
		}
	})
	return index
}

// Provided returns the set of header basenames target declares in its
// srcs/hdrs.
func (a *Analyzer) Provided(target catalog.Label) map[string]bool {
	return a.analyze(target).provided
}

// Included returns the set of header basenames target transitively
// includes.
func (a *Analyzer) Included(target catalog.Label) map[string]bool {
	return a.analyze(target).included
}

// IsDependencyNeeded implements §4.3's decision function.
func (a *Analyzer) IsDependencyNeeded(consumer, dep catalog.Label) bool {
	if consumer == dep {
		return false
	}
	included := a.Included(consumer)
	provided := a.Provided(dep)
	if len(included) == 0 || len(provided) == 0 {
		return false
	}
	for h := range provided {
		if included[h] {
			return true
		}
	}
	return false
}
