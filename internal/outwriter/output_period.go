package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/olekukonko/tablewriter"
)

// WritePeriods outputs classified period labels.
func WritePeriods(w io.Writer, periods []schema.PeriodInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, periods)
		}, "Wrote JSON periods")
	case schema.CSVOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPeriods(w, periods, cfg.Location)
		}, "Wrote CSV periods")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writePeriodsTable(w, periods)
		}, "Wrote table")
	}
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func writePeriodsTable(w io.Writer, periods []schema.PeriodInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Label", "Grain", "Start", "End"})

	data := make([][]string, 0, len(periods))
	for _, p := range periods {
		grain := string(p.TimeGrain)
		if !p.Valid {
			grain = "invalid"
		}
		data = append(data, []string{p.Label, grain, formatBound(p.Start), formatBound(p.End)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCSVPeriods(w io.Writer, periods []schema.PeriodInfo, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	format := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(loc).Format(contract.DateTimeFormat)
	}
	return writeCSVWithHeader(w, []string{"label", "valid", "time_grain", "start", "end"}, func(cw *csv.Writer) error {
		for _, p := range periods {
			row := []string{p.Label, strconv.FormatBool(p.Valid), string(p.TimeGrain), format(p.Start), format(p.End)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
