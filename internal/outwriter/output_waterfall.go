package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/parquet"
	"github.com/data-drift/drift/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteWaterfall outputs a drift series, dispatching based on the output format configured.
func WriteWaterfall(w io.Writer, result schema.WaterfallResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON waterfall"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForWaterfall(w, result, fmtFloat)
		}, "Wrote CSV waterfall"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertDriftPoints(result.Series.Points)
		if err := parquet.WriteFile(cfg.OutputFile, rows); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Wrote %d drift points to %s\n", len(rows), cfg.OutputFile)
	default:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeWaterfallTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing waterfall table output: %w", err)
		}
	}
	return nil
}

// writeWaterfallTable prints one row per drift bar.
func writeWaterfallTable(w io.Writer, result schema.WaterfallResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Day", "From", "To", "Drift", "Tooltip", "Commit"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Series.Points))
	for _, p := range result.Series.Points {
		direction := contract.GetPlainDirection(p.Weight)
		if cfg.UseColors {
			direction = contract.GetColorDirection(p.Weight)
		}
		data = append(data, []string{
			p.Label,
			fmtFloat(p.From),
			fmtFloat(p.To),
			direction,
			p.Tooltip(),
			shortSHA(p.CommitID),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	series := result.Series
	scope := result.MetricName + " " + result.Period
	if result.Dimension != "" {
		scope += fmt.Sprintf(" [%s=%s]", result.Dimension, result.DimensionValue)
	}
	_, _ = fmt.Fprintf(w, "Drift of %s (%s): %d bars, %d unchanged, %d excluded. Axis floor %s, range %s to %s.\n",
		scope, result.TimeGrain, len(series.Points), series.Skipped, series.Excluded,
		schema.FormatGrouped(series.Floor), schema.FormatGrouped(series.Min), schema.FormatGrouped(series.Max))
	_, _ = fmt.Fprintf(w, "Built in %v\n", duration.Round(time.Millisecond))
	return nil
}

// writeCSVResultsForWaterfall writes one CSV row per drift bar.
func writeCSVResultsForWaterfall(w io.Writer, result schema.WaterfallResult, fmtFloat func(float64) string) error {
	header := []string{
		"label",
		"from",
		"to",
		"delta",
		"weight",
		"is_initial",
		"tooltip",
		"commit_id",
		"commit_timestamp",
		"commit_url",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Series.Points {
			row := []string{
				p.Label,
				fmtFloat(p.From),
				fmtFloat(p.To),
				fmtFloat(p.Delta()),
				string(p.Weight),
				strconv.FormatBool(p.IsInitial),
				p.Tooltip(),
				p.CommitID,
				strconv.FormatInt(p.CommitTimestamp, 10),
				p.CommitURL,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
