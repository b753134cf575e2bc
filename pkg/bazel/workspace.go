package bazel

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ritzau/bazeldeps/pkg/bazelerr"
)

var workspaceMarkers = []string{"WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel"}

// ValidateWorkspace checks that path is a directory containing one of
// WORKSPACE, WORKSPACE.bazel, or MODULE.bazel, per §4.1's workspace
// validity contract.
func ValidateWorkspace(path string) error {
	if path == "" {
		return bazelerr.New(bazelerr.Configuration, "", fmt.Errorf("workspace path is empty"))
	}

	info, err := os.Stat(path)
	if err != nil {
		return bazelerr.New(bazelerr.Configuration, path, fmt.Errorf("workspace not found: %w", err))
	}
	if !info.IsDir() {
		return bazelerr.New(bazelerr.Configuration, path, fmt.Errorf("workspace path is not a directory"))
	}

	for _, marker := range workspaceMarkers {
		if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
			return nil
		}
	}
	return bazelerr.New(bazelerr.Configuration, path, fmt.Errorf("not a Bazel workspace: missing WORKSPACE, WORKSPACE.bazel, or MODULE.bazel"))
}

// CheckBazelBinary verifies bazelPath resolves to a runnable binary by
// invoking "<bazel> --version".
func CheckBazelBinary(bazelPath string) error {
	if bazelPath == "" {
		bazelPath = "bazel"
	}
	if _, err := exec.LookPath(bazelPath); err != nil {
		return bazelerr.New(bazelerr.Configuration, bazelPath, fmt.Errorf("bazel binary unreachable: %w", err))
	}
	if err := exec.Command(bazelPath, "--version").Run(); err != nil {
		return bazelerr.New(bazelerr.Configuration, bazelPath, fmt.Errorf("bazel --version failed: %w", err))
	}
	return nil
}
