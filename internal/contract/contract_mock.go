package contract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/data-drift/drift/schema"
	"github.com/stretchr/testify/mock"
)

// MockReportsClient is a mock implementation of ReportsClient for testing.
type MockReportsClient struct {
	mock.Mock
}

var _ ReportsClient = &MockReportsClient{} // Compile-time check

// GetMetricReport implements the ReportsClient interface.
func (m *MockReportsClient) GetMetricReport(ctx context.Context, metricName string) (schema.MetricReport, error) {
	args := m.Called(ctx, metricName)
	report, _ := args.Get(0).(schema.MetricReport)
	return report, args.Error(1)
}

// GetMetricCohorts implements the ReportsClient interface.
func (m *MockReportsClient) GetMetricCohorts(ctx context.Context, metricName string, grain schema.TimeGrain) (json.RawMessage, error) {
	args := m.Called(ctx, metricName, grain)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// GetConfig implements the ReportsClient interface.
func (m *MockReportsClient) GetConfig(ctx context.Context, owner, repo string) (schema.RepoConfig, error) {
	args := m.Called(ctx, owner, repo)
	return args.Get(0).(schema.RepoConfig), args.Error(1)
}

// GetPatchAndHeader implements the ReportsClient interface.
func (m *MockReportsClient) GetPatchAndHeader(ctx context.Context, owner, repo, sha string) (schema.PatchAndHeader, error) {
	args := m.Called(ctx, owner, repo, sha)
	return args.Get(0).(schema.PatchAndHeader), args.Error(1)
}

// GetCommitList implements the ReportsClient interface.
func (m *MockReportsClient) GetCommitList(ctx context.Context, owner, repo string) (json.RawMessage, error) {
	args := m.Called(ctx, owner, repo)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// MockSnapshotSource is a mock implementation of SnapshotSource for testing.
type MockSnapshotSource struct {
	mock.Mock
}

var _ SnapshotSource = &MockSnapshotSource{} // Compile-time check

// ListCommits implements the SnapshotSource interface.
func (m *MockSnapshotSource) ListCommits(ctx context.Context, path string, since, until time.Time) ([]schema.SourceCommit, error) {
	args := m.Called(ctx, path, since, until)
	commits, _ := args.Get(0).([]schema.SourceCommit)
	return commits, args.Error(1)
}

// GetFileAtCommit implements the SnapshotSource interface.
func (m *MockSnapshotSource) GetFileAtCommit(ctx context.Context, path, sha string) ([]byte, error) {
	args := m.Called(ctx, path, sha)
	content, _ := args.Get(0).([]byte)
	return content, args.Error(1)
}
