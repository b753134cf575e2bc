package bazel

import "context"

// FakeExecutor is a test double for Executor keyed by the query string
// passed as the first "query"-subcommand argument (args[1] when
// args[0] == "query") so each test can script per-query responses
// without shelling out to a real bazel binary.
type FakeExecutor struct {
	// Responses maps a query string (or a sentinel like "--version"
	// for non-query invocations) to the output it should return.
	Responses map[string][]byte
	// Errors maps the same keys to an error to return instead.
	Errors map[string]error
	// Calls records every invocation for assertions.
	Calls [][]string
}

func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		Responses: make(map[string][]byte),
		Errors:    make(map[string]error),
	}
}

func (f *FakeExecutor) key(args []string) string {
	if len(args) >= 2 && args[0] == "query" {
		return args[1]
	}
	if len(args) >= 1 {
		return args[0]
	}
	return ""
}

func (f *FakeExecutor) Run(ctx context.Context, workspace string, args ...string) ([]byte, error) {
	f.Calls = append(f.Calls, append([]string{}, args...))
	k := f.key(args)
	if err, ok := f.Errors[k]; ok {
		return nil, err
	}
	return f.Responses[k], nil
}
