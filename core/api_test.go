package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/driftapi"
	"github.com/data-drift/drift/internal/iocache"
	"github.com/data-drift/drift/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSummarizeReport(t *testing.T) {
	report := schema.MetricReport{
		"2024-02": {TimeGrain: schema.MonthGrain, Period: "2024-02", History: map[string]schema.CommitRecord{
			"a": rec("1", ts(2, 1), false),
		}},
		"2024-01": sampleReport()["2024-01"],
		"2024":    {Period: "2024", Dimension: "country", DimensionValue: "FR"},
		"2024-Q3": nil,
	}

	summaries := SummarizeReport(report)
	require.Len(t, summaries, 4)

	periods := make([]string, 0, len(summaries))
	for _, s := range summaries {
		periods = append(periods, s.Period)
	}
	assert.Equal(t, []string{"2024", "2024-Q3", "2024-01", "2024-02"}, periods)

	assert.Equal(t, schema.YearGrain, summaries[0].TimeGrain)
	assert.Equal(t, "country", summaries[0].Dimension)
	assert.True(t, summaries[1].Missing)
	assert.Equal(t, schema.QuarterGrain, summaries[1].TimeGrain)
	assert.Equal(t, 4, summaries[2].Commits)
	assert.Equal(t, 3, summaries[2].AfterPeriod)
	assert.Equal(t, 1, summaries[3].Commits)
	assert.Zero(t, summaries[3].AfterPeriod)
}

func TestDescribePeriod(t *testing.T) {
	info := DescribePeriod("2024-W01")
	assert.True(t, info.Valid)
	assert.Equal(t, schema.WeekGrain, info.TimeGrain)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), info.Start)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), info.End)

	info = DescribePeriod("2023-02-29")
	assert.False(t, info.Valid)
	assert.Empty(t, info.TimeGrain)
	assert.True(t, info.Start.IsZero())
}

func TestExecutePeriod(t *testing.T) {
	buf := captureOutput(t)
	cfg := testConfig()

	cfg.Labels = []string{"2024", "2024-06-30"}
	require.NoError(t, ExecutePeriod(context.Background(), cfg, nil))
	var infos []schema.PeriodInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, schema.DayGrain, infos[1].TimeGrain)

	buf.Reset()
	cfg.Labels = []string{"2024-Q5", "2024-Q4"}
	err := ExecutePeriod(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidPeriodFormat)
	assert.ErrorContains(t, err, "1 of 2 labels")
	assert.Contains(t, buf.String(), `"2024-Q5"`, "invalid labels are printed before failing")

	cfg.Labels = nil
	assert.ErrorIs(t, ExecutePeriod(context.Background(), cfg, nil), ErrMissingParams)

	buf.Reset()
	cfg.PeriodAt = time.Date(2024, 12, 30, 15, 0, 0, 0, time.UTC)
	require.NoError(t, ExecutePeriod(context.Background(), cfg, nil))
	infos = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	labels := make([]string, 0, len(infos))
	for _, info := range infos {
		assert.True(t, info.Valid, info.Label)
		labels = append(labels, info.Label)
	}
	assert.Equal(t, []string{"2024", "2024-Q4", "2024-12", "2025-W01", "2024-12-30"}, labels)
}

func TestExecuteReport(t *testing.T) {
	buf := captureOutput(t)
	client := &contract.MockReportsClient{}
	client.On("GetMetricReport", mock.Anything, "revenue").Return(sampleReport(), nil)
	useClient(t, client)

	cfg := testConfig()
	cfg.MetricName = "revenue"
	require.NoError(t, ExecuteReport(context.Background(), cfg, nil))

	var summaries []schema.PeriodSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "2024-01", summaries[0].Period)
	assert.True(t, summaries[1].Missing)

	cfg.InstallationID = ""
	assert.ErrorIs(t, ExecuteReport(context.Background(), cfg, nil), ErrMissingParams)
	client.AssertNumberOfCalls(t, "GetMetricReport", 1)
}

func TestExecuteCohorts(t *testing.T) {
	buf := captureOutput(t)
	client := &contract.MockReportsClient{}
	client.On("GetMetricCohorts", mock.Anything, "revenue", schema.MonthGrain).
		Return(json.RawMessage(`{"2024-01":{"retained":0.8}}`), nil)
	useClient(t, client)

	cfg := testConfig()
	cfg.MetricName = "revenue"
	cfg.TimeGrain = schema.MonthGrain
	require.NoError(t, ExecuteCohorts(context.Background(), cfg, nil))
	assert.JSONEq(t, `{"2024-01":{"retained":0.8}}`, buf.String())

	cfg.TimeGrain = ""
	assert.ErrorIs(t, ExecuteCohorts(context.Background(), cfg, nil), ErrMissingParams)
}

func TestExecuteRepoConfig_UsesCache(t *testing.T) {
	buf := captureOutput(t)
	client := &contract.MockReportsClient{}
	useClient(t, client)

	cached, err := json.Marshal(schema.RepoConfig{Metrics: []schema.ConfigMetric{{Filepath: "metrics/revenue.csv"}}})
	require.NoError(t, err)
	store := &iocache.MockCacheStore{}
	store.On("Get", driftapi.ConfigCacheKey("o", "r")).Return(cached, 1, time.Now().Unix(), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetConfigStore").Return(store)

	cfg := testConfig()
	cfg.Owner, cfg.Repo = "o", "r"
	cfg.CacheTTL = time.Hour
	require.NoError(t, ExecuteRepoConfig(context.Background(), cfg, mgr))

	var rc schema.RepoConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rc))
	require.Len(t, rc.Metrics, 1)
	assert.Equal(t, "metrics/revenue.csv", rc.Metrics[0].Filepath)
	client.AssertNotCalled(t, "GetConfig", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteRepoConfig_WithoutCache(t *testing.T) {
	captureOutput(t)
	client := &contract.MockReportsClient{}
	client.On("GetConfig", mock.Anything, "o", "r").Return(schema.RepoConfig{}, errors.New("boom"))
	useClient(t, client)

	cfg := testConfig()
	cfg.Owner, cfg.Repo = "o", "r"
	assert.EqualError(t, ExecuteRepoConfig(context.Background(), cfg, nil), "boom")

	cfg.Repo = ""
	assert.ErrorIs(t, ExecuteRepoConfig(context.Background(), cfg, nil), ErrMissingParams)
}

func TestExecuteCommit(t *testing.T) {
	buf := captureOutput(t)
	patch := schema.PatchAndHeader{
		Patch:    "@@ -1 +1 @@\n-a\n+b",
		Filename: "metrics/revenue.csv",
		Date:     time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
	}
	client := &contract.MockReportsClient{}
	client.On("GetPatchAndHeader", mock.Anything, "o", "r", "abc123").Return(patch, nil)
	useClient(t, client)

	cfg := testConfig()
	cfg.Owner, cfg.Repo, cfg.CommitSHA = "o", "r", "abc123"
	require.NoError(t, ExecuteCommit(context.Background(), cfg, nil))
	assert.Contains(t, buf.String(), `"filename": "metrics/revenue.csv"`)

	cfg.CommitSHA = ""
	assert.ErrorIs(t, ExecuteCommit(context.Background(), cfg, nil), ErrMissingParams)
}

func TestExecuteCommits_NewestFirst(t *testing.T) {
	buf := captureOutput(t)
	raw := json.RawMessage(`[
		{"sha":"old","commit":{"message":"first","author":{"name":"Ann","date":"2024-01-01T00:00:00Z"}}},
		{"sha":"new","commit":{"message":"second","author":{"name":"Bob","date":"2024-03-01T00:00:00Z"}},"author":{"login":"bob"}}
	]`)
	client := &contract.MockReportsClient{}
	client.On("GetCommitList", mock.Anything, "o", "r").Return(raw, nil)
	useClient(t, client)

	cfg := testConfig()
	cfg.Owner, cfg.Repo = "o", "r"
	require.NoError(t, ExecuteCommits(context.Background(), cfg, nil))

	var commits []schema.CommitSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &commits))
	require.Len(t, commits, 2)
	assert.Equal(t, "new", commits[0].SHA)
	assert.Equal(t, "bob", commits[0].Author)
	assert.Equal(t, "Ann", commits[1].Author)
}
