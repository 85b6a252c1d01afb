//go:build basic || database

// Package integration contains end-to-end tests of the drift binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedDriftPath holds the path to a shared drift binary built once for all tests.
	sharedDriftPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDriftBinary returns the path to the drift binary, building it once if needed.
func getDriftBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "drift-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		driftPath := filepath.Join(tempDir, "drift")
		buildCmd := exec.Command("go", "build", "-o", driftPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build drift: %v\n%s", err, out))
		}

		sharedDriftPath = driftPath
	})

	return sharedDriftPath
}

// runDrift runs the drift binary with an isolated home directory and the given
// extra environment, returning its combined output.
func runDrift(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getDriftBinary(), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "HOME="+cmd.Dir, "DRIFT_COLOR=no")
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// reportFile returns the absolute path of the sample metric report.
func reportFile(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "revenue.json"))
	if err != nil {
		t.Fatal(err)
	}
	return path
}
