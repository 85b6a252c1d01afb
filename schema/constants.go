package schema

// Custom string types for type safety.
type (
	// TimeGrain represents the coarse reporting granularity of a period.
	TimeGrain string

	// Weight represents the visual classification of a drift bar.
	Weight string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All time grains supported, from coarse to fine.
const (
	YearGrain    TimeGrain = "year"
	QuarterGrain TimeGrain = "quarter"
	MonthGrain   TimeGrain = "month"
	WeekGrain    TimeGrain = "week"
	DayGrain     TimeGrain = "day"
)

// All drift weights supported.
const (
	NeutralWeight Weight = "neutral" // initial bar
	DownWeight    Weight = "down"
	UpWeight      Weight = "up"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllTimeGrains returns a list of all supported time grains.
var AllTimeGrains = []TimeGrain{YearGrain, QuarterGrain, MonthGrain, WeekGrain, DayGrain}

// ValidTimeGrains lists all valid time grains.
var ValidTimeGrains = map[TimeGrain]struct{}{
	YearGrain:    {},
	QuarterGrain: {},
	MonthGrain:   {},
	WeekGrain:    {},
	DayGrain:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
