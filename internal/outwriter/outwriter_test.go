package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:    output,
		Precision: 2,
		UseColors: false,
		Width:     120,
		Location:  time.UTC,
	}
}

func sampleWaterfall() schema.WaterfallResult {
	return schema.WaterfallResult{
		MetricName: "revenue",
		Period:     "2024-01",
		TimeGrain:  schema.MonthGrain,
		Series: schema.WaterfallSeries{
			Points: []schema.DriftPoint{
				{Label: "02-01", From: 8, To: 10, IsInitial: true, Weight: schema.NeutralWeight, CommitID: "aaaaaaaaaa", CommitTimestamp: 1706745600},
				{Label: "02-02", From: 10, To: 12, Weight: schema.UpWeight, CommitID: "bbbbbbbbbb", CommitTimestamp: 1706832000},
				{Label: "02-03", From: 12, To: 1009, Weight: schema.UpWeight, CommitID: "cccccccccc", CommitTimestamp: 1706918400, CommitURL: "https://example.com/c"},
			},
			Floor:   8,
			Min:     10,
			Max:     1009,
			Skipped: 1,
		},
	}
}

func TestWriteWaterfall_Table(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWaterfall(&buf, sampleWaterfall(), testConfig(schema.TextOut), 1500*time.Microsecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "02-01")
	assert.Contains(t, out, "8.00")
	assert.Contains(t, out, contract.InitialValue)
	assert.Contains(t, out, contract.UpValue)
	assert.Contains(t, out, "+2 => 12")
	assert.Contains(t, out, "+997 => 1,009")
	assert.Contains(t, out, "aaaaaaa")
	assert.NotContains(t, out, "aaaaaaaa", "commit IDs are abbreviated")
	assert.Contains(t, out, "Drift of revenue 2024-01 (month): 3 bars, 1 unchanged, 0 excluded.")
	assert.Contains(t, out, "Built in 2ms")
}

func TestWriteWaterfall_TableWithDimension(t *testing.T) {
	result := sampleWaterfall()
	result.Dimension = "country"
	result.DimensionValue = "FR"

	var buf bytes.Buffer
	require.NoError(t, WriteWaterfall(&buf, result, testConfig(schema.TextOut), 0))
	assert.Contains(t, buf.String(), "revenue 2024-01 [country=FR]")
}

func TestWriteWaterfall_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWaterfall(&buf, sampleWaterfall(), testConfig(schema.CSVOut), 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"label", "from", "to", "delta", "weight", "is_initial", "tooltip", "commit_id", "commit_timestamp", "commit_url"}, records[0])
	assert.Equal(t, []string{"02-01", "8.00", "10.00", "2.00", "neutral", "true", "10", "aaaaaaaaaa", "1706745600", ""}, records[1])
	assert.Equal(t, "up", records[3][4])
	assert.Equal(t, "+997 => 1,009", records[3][6])
	assert.Equal(t, "https://example.com/c", records[3][9])
}

func TestWriteWaterfall_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWaterfall(&buf, sampleWaterfall(), testConfig(schema.JSONOut), 0))

	var decoded schema.WaterfallResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "revenue", decoded.MetricName)
	assert.Len(t, decoded.Series.Points, 3)
	assert.Equal(t, 1, decoded.Series.Skipped)
}

func TestWriteWaterfall_OutputFile(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "waterfall.csv")

	var buf bytes.Buffer
	require.NoError(t, WriteWaterfall(&buf, sampleWaterfall(), cfg, 0))
	assert.Empty(t, buf.String(), "nothing goes to the fallback writer")

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "label,from,to"))
}

func TestWriteWaterfall_Parquet(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "waterfall.parquet")

	var buf bytes.Buffer
	require.NoError(t, WriteWaterfall(&buf, sampleWaterfall(), cfg, 0))
	assert.Contains(t, buf.String(), "Wrote 3 drift points")

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteWaterfall_EmptySeries(t *testing.T) {
	result := schema.WaterfallResult{MetricName: "revenue", Period: "2024-01", Series: schema.WaterfallSeries{Points: []schema.DriftPoint{}}}

	var buf bytes.Buffer
	require.NoError(t, WriteWaterfall(&buf, result, testConfig(schema.TextOut), 0))
	assert.Contains(t, buf.String(), "0 bars")
}

func TestWritePeriodReports(t *testing.T) {
	summaries := []schema.PeriodSummary{
		{Period: "2024-01", TimeGrain: schema.MonthGrain, Commits: 5, AfterPeriod: 3},
		{Period: "2024-02", TimeGrain: schema.MonthGrain, Commits: 2},
		{Period: "2024-03", Missing: true},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePeriodReports(&buf, "revenue", summaries, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "drifting")
		assert.Contains(t, out, "open")
		assert.Contains(t, out, "no data")
		assert.Contains(t, out, "Metric revenue has 3 periods")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePeriodReports(&buf, "revenue", summaries, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"2024-01", "month", "", "", "5", "3", "false"}, records[1])
		assert.Equal(t, "true", records[3][6])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePeriodReports(&buf, "revenue", summaries, testConfig(schema.JSONOut)))
		var decoded []schema.PeriodSummary
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, summaries, decoded)
	})
}

func TestWritePeriods(t *testing.T) {
	periods := []schema.PeriodInfo{
		{Label: "2024-Q1", Valid: true, TimeGrain: schema.QuarterGrain,
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{Label: "2024-13"},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePeriods(&buf, periods, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "2024-Q1")
		assert.Contains(t, out, "quarter")
		assert.Contains(t, out, "2024-04-01")
		assert.Contains(t, out, "invalid")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePeriods(&buf, periods, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-Q1", "true", "quarter", "2024-01-01T00:00:00Z", "2024-04-01T00:00:00Z"}, records[1])
		assert.Equal(t, []string{"2024-13", "false", "", "", ""}, records[2])
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		assert.ErrorIs(t, WritePeriods(&bytes.Buffer{}, periods, testConfig(schema.ParquetOut)), errParquetUnsupported)
	})
}

func TestWriteRepoConfig(t *testing.T) {
	rc := schema.RepoConfig{Metrics: []schema.ConfigMetric{
		{Filepath: "metrics/revenue.csv", UpstreamFiles: []string{"models/orders.sql", "models/customers.sql"}},
		{Filepath: "metrics/churn.csv"},
	}}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRepoConfig(&buf, "acme/warehouse", rc, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "metrics/revenue.csv")
		assert.Contains(t, out, "models/orders.sql")
		assert.Contains(t, out, "acme/warehouse tracks 2 metrics")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRepoConfig(&buf, "acme/warehouse", rc, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"metrics/revenue.csv", "models/orders.sql|models/customers.sql"}, records[1])
	})
}

func TestWritePatch(t *testing.T) {
	patch := schema.PatchAndHeader{
		Patch:      "@@ -1 +1 @@\n-a\n+b",
		Headers:    []string{"date", "revenue"},
		CommitLink: "https://github.com/acme/warehouse/commit/abc",
		Date:       time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Filename:   "metrics/revenue.csv",
	}

	var buf bytes.Buffer
	require.NoError(t, WritePatch(&buf, patch, testConfig(schema.TextOut)))
	out := buf.String()
	assert.Contains(t, out, "File: metrics/revenue.csv")
	assert.Contains(t, out, "Date: 2024-02-01T12:00:00Z")
	assert.Contains(t, out, "Columns: date, revenue")
	assert.True(t, strings.HasSuffix(out, "+b\n"))

	assert.Error(t, WritePatch(&bytes.Buffer{}, patch, testConfig(schema.CSVOut)))
}

func TestWriteCommitList(t *testing.T) {
	commits := []schema.CommitSummary{
		{SHA: "0123456789abcdef", Message: "Update revenue\n\nlong body", Author: "octocat", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), URL: "https://example.com/1"},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCommitList(&buf, commits, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "0123456")
		assert.Contains(t, out, "Update revenue")
		assert.NotContains(t, out, "long body")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCommitList(&buf, commits, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"0123456789abcdef", "2024-01-02T00:00:00Z", "octocat", "Update revenue", "https://example.com/1"}, records[1])
	})
}

func TestWriteRawJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRawJSON(&buf, json.RawMessage(`{"a":[1,2]}`), testConfig(schema.TextOut)))
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n", buf.String())

	assert.Error(t, WriteRawJSON(&bytes.Buffer{}, json.RawMessage(`{bad`), testConfig(schema.JSONOut)))
	assert.ErrorIs(t, WriteRawJSON(&bytes.Buffer{}, json.RawMessage(`{}`), testConfig(schema.ParquetOut)), errParquetUnsupported)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "he", truncate("hello", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}

func TestOutWriter_DefaultDestination(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriterTo(&buf)
	require.NoError(t, ow.WriteCommitList(nil, testConfig(schema.JSONOut)))
	assert.Equal(t, "null\n", buf.String())
}
