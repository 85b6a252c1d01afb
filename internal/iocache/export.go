package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/parquet"
)

// ExecuteHistoryExport exports the drift history tables to Parquet files
// named <prefix>.drift_runs.parquet and <prefix>.drift_points.parquet.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, prefix string) error {
	if prefix == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled; set --history-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no drift history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total drift runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total drift points: %d\n", status.TableSizes[driftPointsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve drift runs: %w", err)
	}
	points, err := store.GetAllPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve drift points: %w", err)
	}

	runsFile := prefix + ".drift_runs.parquet"
	runRows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteFile(runsFile, runRows); err != nil {
		return fmt.Errorf("failed to write drift runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d drift runs to: %s\n", len(runRows), runsFile)

	pointsFile := prefix + ".drift_points.parquet"
	pointRows := parquet.ConvertPointRecords(points)
	if err := parquet.WriteFile(pointsFile, pointRows); err != nil {
		return fmt.Errorf("failed to write drift points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d drift points to: %s\n", len(pointRows), pointsFile)

	return nil
}
