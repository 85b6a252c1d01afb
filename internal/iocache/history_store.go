package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
)

// Table names for drift history tracking.
const (
	driftRunsTable   = "drift_runs"
	driftPointsTable = "drift_points"
)

// HistoryStoreImpl implements the HistoryStore interface.
// Times are stored as unix milliseconds on every backend.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is migrated to the latest version before the store is returned.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := ensureHistorySchema(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

func (hs *HistoryStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

// RecordWaterfall stores a built series and its points in one transaction.
func (hs *HistoryStoreImpl) RecordWaterfall(runTime time.Time, result schema.WaterfallResult) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	series := result.Series
	runArgs := []any{
		runTime.UnixMilli(), result.MetricName, result.Period, string(result.TimeGrain),
		result.Dimension, result.DimensionValue, len(series.Points), series.Skipped, series.Excluded, series.Floor,
	}
	runQuery := fmt.Sprintf(`INSERT INTO %s (run_time, metric_name, period, time_grain, dimension, dimension_value,
		point_count, skipped_count, excluded_count, floor_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, hs.table(driftRunsTable))

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		err = tx.QueryRow(rebind(runQuery+" RETURNING run_id", hs.backend), runArgs...).Scan(&runID)
	default: // SQLite and MySQL
		var res sql.Result
		res, err = tx.Exec(runQuery, runArgs...)
		if err == nil {
			runID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert drift run: %w", err)
	}

	pointQuery := rebind(fmt.Sprintf(`INSERT INTO %s (run_id, seq, label, from_value, to_value, is_initial, weight, commit_id, commit_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, hs.table(driftPointsTable)), hs.backend)
	stmt, err := tx.Prepare(pointQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare drift point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, p := range series.Points {
		initial := 0
		if p.IsInitial {
			initial = 1
		}
		if _, err := stmt.Exec(runID, i, p.Label, p.From, p.To, initial, string(p.Weight), p.CommitID, p.CommitTimestamp); err != nil {
			return 0, fmt.Errorf("failed to insert drift point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit drift run: %w", err)
	}
	return runID, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	runs := hs.table(driftRunsTable)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastMs, oldestMs int64
		lastQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastMs); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = time.UnixMilli(lastMs)

		oldestQuery := fmt.Sprintf("SELECT run_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldestMs); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = time.UnixMilli(oldestMs)

		metricsQuery := fmt.Sprintf("SELECT COUNT(DISTINCT metric_name) FROM %s", runs)
		if err := hs.db.QueryRow(metricsQuery).Scan(&status.TotalMetrics); err != nil {
			return status, fmt.Errorf("failed to get metric count: %w", err)
		}
	}

	for _, table := range []string{driftRunsTable, driftPointsTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all drift runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_time, metric_name, period, time_grain, dimension, dimension_value,
		point_count, skipped_count, excluded_count, floor_value
		FROM %s ORDER BY run_id`, hs.table(driftRunsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query drift runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRunRecord
	for rows.Next() {
		var r schema.HistoryRunRecord
		var runMs int64
		if err := rows.Scan(&r.RunID, &runMs, &r.MetricName, &r.Period, &r.TimeGrain, &r.Dimension, &r.DimensionValue,
			&r.PointCount, &r.SkippedCount, &r.ExcludedCount, &r.FloorValue); err != nil {
			return nil, fmt.Errorf("failed to scan drift run: %w", err)
		}
		r.RunTime = time.UnixMilli(runMs)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drift runs: %w", err)
	}
	return results, nil
}

// GetAllPoints retrieves all drift points from the store.
func (hs *HistoryStoreImpl) GetAllPoints() ([]schema.HistoryPointRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, seq, label, from_value, to_value, is_initial, weight, commit_id, commit_timestamp
		FROM %s ORDER BY run_id, seq`, hs.table(driftPointsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query drift points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryPointRecord
	for rows.Next() {
		var p schema.HistoryPointRecord
		var initial int
		if err := rows.Scan(&p.RunID, &p.Seq, &p.Label, &p.FromValue, &p.ToValue, &initial, &p.Weight, &p.CommitID, &p.CommitTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan drift point: %w", err)
		}
		p.IsInitial = initial != 0
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drift points: %w", err)
	}
	return results, nil
}
