// Package schema has the models shared by every part of drift.
package schema

import "time"

// MetricReport maps a period label to its report.
// The backend returns null for periods it knows about but has no data for.
type MetricReport map[string]*PeriodReport

// PeriodReport is the per-commit history of one metric for one period.
type PeriodReport struct {
	TimeGrain      TimeGrain               `json:"TimeGrain"`
	Period         string                  `json:"Period"`
	Dimension      string                  `json:"Dimension"`
	DimensionValue string                  `json:"DimensionValue"`
	History        map[string]CommitRecord `json:"History"` // keyed by commit SHA
}

// CommitRecord is the value of a metric at one commit.
type CommitRecord struct {
	Lines           int             `json:"Lines"`
	KPI             string          `json:"KPI"`             // decimal text, parsed before arithmetic
	CommitTimestamp int64           `json:"CommitTimestamp"` // seconds since epoch
	CommitDate      string          `json:"CommitDate"`
	IsAfterPeriod   bool            `json:"IsAfterPeriod"` // commit lands at or after the period boundary
	CommitURL       string          `json:"CommitUrl"`
	CommitComments  []CommitComment `json:"CommitComments"`
}

// CommitComment is a review comment attached to a commit.
type CommitComment struct {
	CommentAuthor string `json:"CommentAuthor"`
	CommentBody   string `json:"CommentBody"`
}

// PeriodSummary is a compact view of one entry of a MetricReport.
type PeriodSummary struct {
	Period         string    `json:"period"`
	TimeGrain      TimeGrain `json:"time_grain"`
	Dimension      string    `json:"dimension"`
	DimensionValue string    `json:"dimension_value"`
	Commits        int       `json:"commits"`
	AfterPeriod    int       `json:"after_period"`
	Missing        bool      `json:"missing"`
}

// PeriodInfo describes a classified period label.
type PeriodInfo struct {
	Label     string    `json:"label"`
	Valid     bool      `json:"valid"`
	TimeGrain TimeGrain `json:"time_grain,omitempty"`
	Start     time.Time `json:"start,omitzero"`
	End       time.Time `json:"end,omitzero"`
}
