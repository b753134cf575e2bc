// Command bazeldeps analyzes a Bazel C/C++ workspace for dependency
// cycles and unused declared dependencies.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/ritzau/bazeldeps/pkg/bazel"
	"github.com/ritzau/bazeldeps/pkg/bazelerr"
	"github.com/ritzau/bazeldeps/pkg/config"
	"github.com/ritzau/bazeldeps/pkg/engine"
	"github.com/ritzau/bazeldeps/pkg/graph"
	"github.com/ritzau/bazeldeps/pkg/logging"
	"github.com/ritzau/bazeldeps/pkg/profile"
	"github.com/ritzau/bazeldeps/pkg/report"
	"github.com/ritzau/bazeldeps/pkg/source"
	"github.com/ritzau/bazeldeps/pkg/watch"
)

func main() {
	fs := pflag.NewFlagSet("bazeldeps", pflag.ContinueOnError)
	fs.StringP("workspace", "w", ".", "Bazel workspace root (must contain WORKSPACE, WORKSPACE.bazel, or MODULE.bazel)")
	fs.StringP("bazel_path", "b", "bazel", "path to the Bazel executable")
	fs.BoolP("unused", "u", false, "run unused-dependency analysis instead of cycle detection")
	fs.BoolP("time", "t", false, "run build-time profile analysis over a trace file given as a positional arg")
	fs.StringP("output", "o", "", "report output file; absent writes to stdout")
	fs.StringP("format", "f", "console", "report format: console, markdown (md), json, html")
	fs.CountP("verbose", "v", "increase log verbosity (repeatable)")
	fs.Bool("include-tests", false, "retain *_test targets in analysis")
	fs.String("config", "", "path to a TOML config file (default bazeldeps.toml if present)")
	fs.Int("jobs", 0, "extraction worker-pool size (default runtime.NumCPU() * 4)")
	fs.Duration("bazel_timeout", 30*time.Second, "per-command timeout for bazel query invocations")
	fs.Bool("watch", false, "re-run the pipeline whenever a BUILD/BUILD.bazel file changes")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	setVerbosity(cfg.Verbose)

	runID := uuid.New().String()
	ctx := logging.WithRequestID(context.Background(), runID)

	if cfg.Time {
		if err := runProfile(fs.Args()); err != nil {
			logging.ErrorContext(ctx, "profile analysis failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Watch {
		if err := runWatchLoop(ctx, cfg); err != nil {
			logging.ErrorContext(ctx, "watch mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(ctx, cfg); err != nil {
		logging.ErrorContext(ctx, "analysis failed", "error", err)
		os.Exit(1)
	}
}

func setVerbosity(count int) {
	switch {
	case count >= 2:
		logging.SetLevel(slog.LevelDebug - 4) // trace
	case count == 1:
		logging.SetLevel(slog.LevelDebug)
	default:
		logging.SetLevel(slog.LevelInfo)
	}
}

func runProfile(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("--time requires a trace file path, e.g. bazeldeps --time build.profile.gz")
	}
	events, err := profile.Load(args[0])
	if err != nil {
		return err
	}
	profile.RenderConsole(profile.Summarize(events), os.Stdout)
	return nil
}

func runWatchLoop(ctx context.Context, cfg *config.Config) error {
	if err := runOnce(ctx, cfg); err != nil {
		logging.ErrorContext(ctx, "initial analysis failed", "error", err)
	}

	w, err := watch.New(cfg.Workspace)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	for ev := range w.Events() {
		logging.InfoContext(ctx, "BUILD files changed, re-running analysis", "count", len(ev.Paths))
		if err := runOnce(ctx, cfg); err != nil {
			logging.ErrorContext(ctx, "re-analysis failed", "error", err)
		}
	}
	return nil
}

// runOnce drives one full pass of the pipeline: validate, extract,
// build the graph, run the engine, and render the configured report.
func runOnce(ctx context.Context, cfg *config.Config) error {
	if err := bazel.ValidateWorkspace(cfg.Workspace); err != nil {
		return err
	}
	if err := bazel.CheckBazelBinary(cfg.BazelPath); err != nil {
		return err
	}

	executor := bazel.NewProcessExecutor(cfg.BazelPath, cfg.BazelTimeout)
	extractor := bazel.NewExtractor(executor, cfg.Jobs)

	logging.InfoContext(ctx, "extracting targets", "workspace", cfg.Workspace)
	cat, err := extractor.Extract(ctx, cfg.Workspace)
	if err != nil {
		return err
	}
	logging.InfoContext(ctx, "extraction complete", "targets", cat.Len())

	gr := graph.Build(cat)
	analyzer := source.New(cat, cfg.Workspace)
	eng := engine.New(cat, gr, analyzer, cfg.IncludeTests)

	format, ok := report.ParseFormat(cfg.Format)
	if !ok {
		logging.WarnContext(ctx, "unknown report format, falling back to console", "format", cfg.Format)
	}

	data := report.Data{Timestamp: time.Now().UTC().Format(time.RFC3339)}
	if cfg.Unused {
		data.Mode = report.UnusedMode
		data.Unused = eng.UnusedDependencies()
	} else {
		data.Mode = report.CyclesMode
		data.Cycles = eng.Cycles()
	}

	return writeReport(ctx, format, data, cfg.Output)
}

func writeReport(ctx context.Context, format report.Format, data report.Data, outputPath string) error {
	w := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			logging.WarnContext(ctx, "cannot open output file, falling back to stdout",
				"path", outputPath, "error", bazelerr.New(bazelerr.Output, outputPath, err))
		} else {
			defer f.Close()
			return report.Render(format, data, f)
		}
	}
	return report.Render(format, data, w)
}
