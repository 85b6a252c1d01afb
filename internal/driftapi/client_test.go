package driftapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/data-drift/drift/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportJSON = `{
  "2024-Q1": {
    "TimeGrain": "quarter",
    "Period": "2024-Q1",
    "Dimension": "country",
    "DimensionValue": "FR",
    "History": {
      "abc123": {
        "Lines": 42,
        "KPI": "1234.5",
        "CommitTimestamp": 1711929600,
        "CommitDate": "2024-04-01",
        "IsAfterPeriod": true,
        "CommitUrl": "https://github.com/acme/metrics/commit/abc123",
        "CommitComments": [{"CommentAuthor": "ana", "CommentBody": "late rows"}]
      }
    }
  },
  "2024-Q2": null
}`

// newTestServer serves handler and records the last request.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *http.Request) {
	t.Helper()
	var last http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "inst-1"), &last
}

func TestGetMetricReport(t *testing.T) {
	client, last := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(reportJSON))
	})

	report, err := client.GetMetricReport(context.Background(), "revenue")
	require.NoError(t, err)

	assert.Equal(t, "/metrics/revenue/reports", last.URL.Path)
	assert.Equal(t, "inst-1", last.Header.Get(InstallationHeader))

	require.Contains(t, report, "2024-Q1")
	q1 := report["2024-Q1"]
	require.NotNil(t, q1)
	assert.Equal(t, schema.QuarterGrain, q1.TimeGrain)
	assert.Equal(t, "FR", q1.DimensionValue)
	commit := q1.History["abc123"]
	assert.Equal(t, 42, commit.Lines)
	assert.Equal(t, "1234.5", commit.KPI)
	assert.Equal(t, int64(1711929600), commit.CommitTimestamp)
	assert.True(t, commit.IsAfterPeriod)
	assert.Equal(t, "https://github.com/acme/metrics/commit/abc123", commit.CommitURL)
	require.Len(t, commit.CommitComments, 1)
	assert.Equal(t, "ana", commit.CommitComments[0].CommentAuthor)

	// Known period without data
	q2, ok := report["2024-Q2"]
	assert.True(t, ok)
	assert.Nil(t, q2)
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	client, last := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.GetMetricReport(context.Background(), "sales/eu")
	require.NoError(t, err)
	assert.Equal(t, "/metrics/sales%2Feu/reports", last.URL.EscapedPath())
}

func TestStatusError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such metric", http.StatusNotFound)
	})

	_, err := client.GetMetricReport(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "no such metric", statusErr.Body)
	assert.Contains(t, err.Error(), "status=404")
}

func TestNoRetryOnServerError(t *testing.T) {
	calls := 0
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetConfig(context.Background(), "acme", "metrics")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, 1, calls)
}

func TestDecodeError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.GetMetricReport(context.Background(), "revenue")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}

func TestGetConfig(t *testing.T) {
	client, last := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"config":{"metrics":[{"filepath":"data/revenue.csv","upstreamFiles":["raw/orders.csv"]},{"filepath":"data/users.csv","upstreamFiles":null}]}}`))
	})

	cfg, err := client.GetConfig(context.Background(), "acme", "metrics")
	require.NoError(t, err)
	assert.Equal(t, "/config/acme/metrics", last.URL.Path)
	require.Len(t, cfg.Metrics, 2)
	assert.Equal(t, "data/revenue.csv", cfg.Metrics[0].Filepath)
	assert.Equal(t, []string{"raw/orders.csv"}, cfg.Metrics[0].UpstreamFiles)
	assert.Empty(t, cfg.Metrics[1].UpstreamFiles)
}

func TestGetPatchAndHeader(t *testing.T) {
	client, last := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"patch":"@@ -1 +1 @@","headers":["date","kpi"],"commitLink":"https://github.com/acme/metrics/commit/abc","date":"2024-03-15T10:00:00Z","filename":"data/revenue.csv"}`))
	})

	patch, err := client.GetPatchAndHeader(context.Background(), "acme", "metrics", "abc")
	require.NoError(t, err)
	assert.Equal(t, "/gh/acme/metrics/commit/abc", last.URL.Path)
	assert.Equal(t, []string{"date", "kpi"}, patch.Headers)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), patch.Date.UTC())
	assert.Equal(t, "2024-03-15T10:00:00Z", patch.DateRaw)
	assert.Equal(t, "/report/inst-1/acme/metrics/commit/abc", patch.DiffURL)
}

func TestGetPatchAndHeaderUnparsableDate(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"patch":"","headers":[],"date":"someday"}`))
	})

	patch, err := client.GetPatchAndHeader(context.Background(), "acme", "metrics", "abc")
	require.NoError(t, err)
	assert.True(t, patch.Date.IsZero())
	assert.Equal(t, "someday", patch.DateRaw)
}

func TestGetMetricCohortsAndCommitList(t *testing.T) {
	client, last := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gh/acme/metrics/commits" {
			_, _ = w.Write([]byte(`[{"sha":"abc","html_url":"https://github.com/acme/metrics/commit/abc","commit":{"message":"update","author":{"name":"Ana","date":"2024-03-15T10:00:00Z"}},"author":{"login":"ana"}}]`))
			return
		}
		_, _ = w.Write([]byte(`{"dataSortedByDate":[]}`))
	})

	cohorts, err := client.GetMetricCohorts(context.Background(), "revenue", schema.WeekGrain)
	require.NoError(t, err)
	assert.Equal(t, "/metrics/revenue/cohorts/week", last.URL.Path)
	assert.JSONEq(t, `{"dataSortedByDate":[]}`, string(cohorts))

	raw, err := client.GetCommitList(context.Background(), "acme", "metrics")
	require.NoError(t, err)
	commits, err := ParseCommitList(raw)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc", commits[0].SHA)
	assert.Equal(t, "ana", commits[0].Author)
	assert.Equal(t, "update", commits[0].Message)
}

func TestTransportErrorPropagates(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "inst-1", WithTimeout(time.Second))
	_, err := client.GetMetricReport(context.Background(), "revenue")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "inst-1")
	assert.Equal(t, "https://data-drift.herokuapp.com", c.baseURL)
	assert.Equal(t, "inst-1", c.InstallationID())

	hc := &http.Client{Timeout: time.Minute}
	c = NewClient("http://localhost", "inst-1", WithHTTPClient(hc), WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.Equal(t, time.Minute, hc.Timeout)
}

func TestCommitDiffURL(t *testing.T) {
	assert.Equal(t, "/report/42/acme/metrics/commit/abc", CommitDiffURL("42", "acme", "metrics", "abc"))
}
