package core

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/outwriter"
	"github.com/data-drift/drift/schema"
)

// captureOutput redirects command output into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = outwriter.NewOutWriterTo(&buf)
	t.Cleanup(func() { out = prev })
	return &buf
}

// useClient makes commands talk to client instead of the backend.
func useClient(t *testing.T, client contract.ReportsClient) {
	t.Helper()
	prev := newReportsClient
	newReportsClient = func(*contract.Config) contract.ReportsClient { return client }
	t.Cleanup(func() { newReportsClient = prev })
}

// useSource makes collect read from src instead of GitHub.
func useSource(t *testing.T, src contract.SnapshotSource) {
	t.Helper()
	prev := newSnapshotSource
	newSnapshotSource = func(context.Context, *contract.Config) contract.SnapshotSource { return src }
	t.Cleanup(func() { newSnapshotSource = prev })
}

func testConfig() *contract.Config {
	return &contract.Config{
		InstallationID: "42",
		Output:         schema.JSONOut,
		Precision:      2,
		Location:       time.UTC,
	}
}
