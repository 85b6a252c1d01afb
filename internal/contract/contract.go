// Package contract provides interfaces and shared utilities for drift's internal architecture.
package contract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/data-drift/drift/schema"
)

// ReportsClient defines the operations offered by the metrics backend.
// This allows the core loader to be tested without a running backend.
type ReportsClient interface {
	// GetMetricReport returns the period reports of a metric, keyed by period label.
	GetMetricReport(ctx context.Context, metricName string) (schema.MetricReport, error)

	// GetMetricCohorts returns the cohort results of a metric for a time grain.
	// The payload is passed through untouched.
	GetMetricCohorts(ctx context.Context, metricName string, grain schema.TimeGrain) (json.RawMessage, error)

	// GetConfig returns the data-drift configuration of a repository.
	GetConfig(ctx context.Context, owner, repo string) (schema.RepoConfig, error)

	// GetPatchAndHeader returns the diff metadata of a commit.
	GetPatchAndHeader(ctx context.Context, owner, repo, sha string) (schema.PatchAndHeader, error)

	// GetCommitList returns the upstream commit list of a repository.
	GetCommitList(ctx context.Context, owner, repo string) (json.RawMessage, error)
}

// ConfigSource provides repository configuration, possibly from a cache.
type ConfigSource interface {
	GetConfig(ctx context.Context, owner, repo string) (schema.RepoConfig, error)
}

// SnapshotSource provides historical snapshots of a tracked file.
type SnapshotSource interface {
	// ListCommits returns the commits touching path between since and until, newest first.
	ListCommits(ctx context.Context, path string, since, until time.Time) ([]schema.SourceCommit, error)

	// GetFileAtCommit returns the content of path at the given commit.
	GetFileAtCommit(ctx context.Context, path, sha string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetConfigStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	// Prune removes entries written before the given unix timestamp.
	Prune(before int64) (int64, error)
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking built waterfall series.
type HistoryStore interface {
	// RecordWaterfall stores a run and its points, returning the run ID
	RecordWaterfall(runTime time.Time, result schema.WaterfallResult) (int64, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.HistoryRunRecord, error)

	// GetAllPoints returns every recorded point
	GetAllPoints() ([]schema.HistoryPointRecord, error)

	// Close closes the underlying connection
	Close() error
}
