package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the drift history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalMetrics  int              `json:"total_metrics"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// HistoryRunRecord represents a row from the drift_runs table.
type HistoryRunRecord struct {
	RunID          int64
	RunTime        time.Time
	MetricName     string
	Period         string
	TimeGrain      string
	Dimension      string
	DimensionValue string
	PointCount     int32
	SkippedCount   int32
	ExcludedCount  int32
	FloorValue     float64
}

// HistoryPointRecord represents a row from the drift_points table.
type HistoryPointRecord struct {
	RunID           int64
	Seq             int32
	Label           string
	FromValue       float64
	ToValue         float64
	IsInitial       bool
	Weight          string
	CommitID        string
	CommitTimestamp int64
}
