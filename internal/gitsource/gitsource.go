// Package gitsource reads the history of a metric file from a local clone.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
)

// Runner executes git commands.
// This allows the source to be tested without needing a real git executable.
type Runner interface {
	// Run executes a git command in repoPath and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)
}

// LocalRunner implements Runner by executing the local 'git' binary.
type LocalRunner struct{}

var _ Runner = &LocalRunner{} // Compile-time check

// Run implements the Runner interface.
func (r *LocalRunner) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("git '%v' exit: %s", strings.Join(fullArgs, " "), strings.TrimSpace(string(exitErr.Stderr)))
	} else if err != nil {
		return nil, fmt.Errorf("git '%v' unknown: %w", strings.Join(fullArgs, " "), err)
	}
	return out, nil
}

// Source lists the commits of a file in a local repository.
type Source struct {
	runner   Runner
	repoPath string
}

var _ contract.SnapshotSource = &Source{} // Compile-time check

// NewSource returns a source reading the repository at repoPath with the git binary.
func NewSource(repoPath string) *Source {
	return NewSourceWithRunner(&LocalRunner{}, repoPath)
}

// NewSourceWithRunner returns a source that runs git through runner.
func NewSourceWithRunner(runner Runner, repoPath string) *Source {
	return &Source{runner: runner, repoPath: repoPath}
}

// ListCommits implements the SnapshotSource interface.
// Commit dates are committer dates, as on GitHub.
func (s *Source) ListCommits(ctx context.Context, path string, since, until time.Time) ([]schema.SourceCommit, error) {
	args := []string{"log", "--pretty=format:%H|%ct"}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format(time.RFC3339))
	}
	if !until.IsZero() {
		args = append(args, "--until="+until.Format(time.RFC3339))
	}
	args = append(args, "--", path)

	out, err := s.runner.Run(ctx, s.repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(string(out))
}

// parseCommitLog reads the "sha|unix" lines of git log.
func parseCommitLog(out string) ([]schema.SourceCommit, error) {
	var commits []schema.SourceCommit
	for line := range strings.SplitSeq(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sha, ts, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("unexpected git log line %q", line)
		}
		unix, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse commit time '%s': %w", ts, err)
		}
		commits = append(commits, schema.SourceCommit{SHA: sha, Date: time.Unix(unix, 0).UTC()})
	}
	return commits, nil
}

// GetFileAtCommit implements the SnapshotSource interface.
func (s *Source) GetFileAtCommit(ctx context.Context, path, sha string) ([]byte, error) {
	return s.runner.Run(ctx, s.repoPath, "show", sha+":"+strings.TrimPrefix(path, "./"))
}
