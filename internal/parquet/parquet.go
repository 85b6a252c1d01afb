// Package parquet provides row types and writers for exporting drift series
// and drift history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/data-drift/drift/schema"
	"github.com/parquet-go/parquet-go"
)

// DriftRun represents a single recorded waterfall build.
// This struct maps to the drift_runs database table.
type DriftRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunTime is when the series was built
	RunTime time.Time `parquet:"run_time,snappy"`

	MetricName string `parquet:"metric_name,snappy"`
	Period     string `parquet:"period,snappy"`
	TimeGrain  string `parquet:"time_grain,snappy,dict"`

	// Dimension and DimensionValue are null for the whole-metric report
	Dimension      *string `parquet:"dimension,optional,snappy"`
	DimensionValue *string `parquet:"dimension_value,optional,snappy"`

	PointCount    int32   `parquet:"point_count,snappy"`
	SkippedCount  int32   `parquet:"skipped_count,snappy"`
	ExcludedCount int32   `parquet:"excluded_count,snappy"`
	FloorValue    float64 `parquet:"floor_value,snappy"`
}

// DriftRunPoint represents one point of a recorded run.
// This struct maps to the drift_points database table.
type DriftRunPoint struct {
	RunID int64 `parquet:"run_id,snappy"`

	// Seq is the position of the point in its series, starting at 0
	Seq int32 `parquet:"seq,snappy"`

	Label           string  `parquet:"label,snappy"`
	FromValue       float64 `parquet:"from_value,snappy"`
	ToValue         float64 `parquet:"to_value,snappy"`
	IsInitial       bool    `parquet:"is_initial,snappy"`
	Weight          string  `parquet:"weight,snappy,dict"`
	CommitID        string  `parquet:"commit_id,snappy"`
	CommitTimestamp int64   `parquet:"commit_timestamp,snappy"`
}

// WaterfallPoint is a point of a freshly built series, written by --output parquet.
type WaterfallPoint struct {
	Label           string  `parquet:"label,snappy"`
	FromValue       float64 `parquet:"from_value,snappy"`
	ToValue         float64 `parquet:"to_value,snappy"`
	Delta           float64 `parquet:"delta,snappy"`
	IsInitial       bool    `parquet:"is_initial,snappy"`
	Weight          string  `parquet:"weight,snappy,dict"`
	Tooltip         string  `parquet:"tooltip,snappy"`
	CommitID        string  `parquet:"commit_id,snappy"`
	CommitTimestamp int64   `parquet:"commit_timestamp,snappy"`
	CommitURL       *string `parquet:"commit_url,optional,snappy"`
}

// Write writes rows to w as a Parquet file.
// The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a Parquet file at outputPath.
func WriteFile[T any](outputPath string, rows []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ConvertRunRecords converts history run records for Parquet export.
func ConvertRunRecords(records []schema.HistoryRunRecord) []DriftRun {
	result := make([]DriftRun, len(records))
	for i, record := range records {
		result[i] = DriftRun{
			RunID:          record.RunID,
			RunTime:        record.RunTime,
			MetricName:     record.MetricName,
			Period:         record.Period,
			TimeGrain:      record.TimeGrain,
			Dimension:      optional(record.Dimension),
			DimensionValue: optional(record.DimensionValue),
			PointCount:     record.PointCount,
			SkippedCount:   record.SkippedCount,
			ExcludedCount:  record.ExcludedCount,
			FloorValue:     record.FloorValue,
		}
	}
	return result
}

// ConvertPointRecords converts history point records for Parquet export.
func ConvertPointRecords(records []schema.HistoryPointRecord) []DriftRunPoint {
	result := make([]DriftRunPoint, len(records))
	for i, record := range records {
		result[i] = DriftRunPoint(record)
	}
	return result
}

// ConvertDriftPoints converts the points of a built series for Parquet output.
func ConvertDriftPoints(points []schema.DriftPoint) []WaterfallPoint {
	result := make([]WaterfallPoint, len(points))
	for i, p := range points {
		result[i] = WaterfallPoint{
			Label:           p.Label,
			FromValue:       p.From,
			ToValue:         p.To,
			Delta:           p.Delta(),
			IsInitial:       p.IsInitial,
			Weight:          string(p.Weight),
			Tooltip:         p.Tooltip(),
			CommitID:        p.CommitID,
			CommitTimestamp: p.CommitTimestamp,
			CommitURL:       optional(p.CommitURL),
		}
	}
	return result
}

// PeriodSummary is one period of a metric report, written by `report --output parquet`.
type PeriodSummary struct {
	MetricName     string  `parquet:"metric_name,snappy,dict"`
	Period         string  `parquet:"period,snappy"`
	TimeGrain      string  `parquet:"time_grain,snappy,dict"`
	Dimension      *string `parquet:"dimension,optional,snappy"`
	DimensionValue *string `parquet:"dimension_value,optional,snappy"`
	Commits        int32   `parquet:"commits,snappy"`
	AfterPeriod    int32   `parquet:"after_period,snappy"`
	Missing        bool    `parquet:"missing,snappy"`
}

// ConvertPeriodSummaries converts report summaries for Parquet output.
func ConvertPeriodSummaries(metric string, summaries []schema.PeriodSummary) []PeriodSummary {
	result := make([]PeriodSummary, len(summaries))
	for i, s := range summaries {
		result[i] = PeriodSummary{
			MetricName:     metric,
			Period:         s.Period,
			TimeGrain:      string(s.TimeGrain),
			Dimension:      optional(s.Dimension),
			DimensionValue: optional(s.DimensionValue),
			Commits:        int32(s.Commits),
			AfterPeriod:    int32(s.AfterPeriod),
			Missing:        s.Missing,
		}
	}
	return result
}
