package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/parquet"
	"github.com/data-drift/drift/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePeriodReports outputs the period summaries of a metric report.
func WritePeriodReports(w io.Writer, metric string, summaries []schema.PeriodSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON report summary")
	case schema.CSVOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPeriodReports(w, summaries)
		}, "Wrote CSV report summary")
	case schema.ParquetOut:
		rows := parquet.ConvertPeriodSummaries(metric, summaries)
		if err := parquet.WriteFile(cfg.OutputFile, rows); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Wrote %d period summaries to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writePeriodReportsTable(w, metric, summaries)
		}, "Wrote table")
	}
}

func periodStatus(s schema.PeriodSummary) string {
	switch {
	case s.Missing:
		return "no data"
	case s.AfterPeriod == 0:
		return "open"
	default:
		return "drifting"
	}
}

func writePeriodReportsTable(w io.Writer, metric string, summaries []schema.PeriodSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Grain", "Dimension", "Commits", "After", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		dimension := ""
		if s.Dimension != "" {
			dimension = s.Dimension + "=" + s.DimensionValue
		}
		data = append(data, []string{
			s.Period,
			string(s.TimeGrain),
			dimension,
			strconv.Itoa(s.Commits),
			strconv.Itoa(s.AfterPeriod),
			periodStatus(s),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Metric %s has %d periods\n", metric, len(summaries))
	return nil
}

func writeCSVPeriodReports(w io.Writer, summaries []schema.PeriodSummary) error {
	header := []string{"period", "time_grain", "dimension", "dimension_value", "commits", "after_period", "missing"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			row := []string{
				s.Period,
				string(s.TimeGrain),
				s.Dimension,
				s.DimensionValue,
				strconv.Itoa(s.Commits),
				strconv.Itoa(s.AfterPeriod),
				strconv.FormatBool(s.Missing),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRawJSON outputs a backend payload as indented JSON regardless of the output format.
func WriteRawJSON(w io.Writer, raw json.RawMessage, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetUnsupported
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')
	return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	}, "Wrote JSON")
}

// WriteMetricReport outputs a full metric report as JSON, the format the
// waterfall command reads back with --report-file.
func WriteMetricReport(w io.Writer, report schema.MetricReport, cfg *contract.Config) error {
	return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote metric report")
}
