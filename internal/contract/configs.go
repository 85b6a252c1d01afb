package contract

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/data-drift/drift/schema"
)

// Default values for configuration.
const (
	DefaultAPIURL     = "https://data-drift.herokuapp.com"
	DefaultPrecision  = 2
	MaxPrecision      = 4
	DefaultTickCount  = 5
	DefaultCacheTTL   = "24 hours"
	DefaultCollectAgo = "90 days ago"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration of a drift command.
// This struct remains the "final, validated" config.
type Config struct {
	APIURL         string
	InstallationID string
	Timeout        time.Duration // 0 keeps the transport default
	Precision      int
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)
	Location       *time.Location

	MetricName string
	Period     string
	Labels     []string  // period labels to classify
	PeriodAt   time.Time // classify the periods containing this instant when no label is given
	ReportFile string
	TimeGrain  schema.TimeGrain
	Owner      string
	Repo       string
	CommitSHA  string

	CollectFile       string
	CollectRepoPath   string // local clone to read instead of GitHub
	CollectDateColumn string
	CollectKPIColumn  string
	CollectStart      time.Time
	CollectEnd        time.Time
	GitHubToken       string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored drift direction in table output
}

// Clone returns a copy of the config that can be changed independently.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Labels != nil {
		clone.Labels = slices.Clone(c.Labels)
	}
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	MetricArg string
	PeriodArg string
	GrainArg  string
	RepoArg   string
	SHAArg    string
	LabelArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	APIURL           string `mapstructure:"api-url"`
	InstallationID   string `mapstructure:"installation-id"`
	Timeout          string `mapstructure:"timeout"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Timezone         string `mapstructure:"timezone"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from waterfallCmd.Flags() ---
	ReportFile string `mapstructure:"report-file"`

	// --- Fields from periodCmd.Flags() ---
	At string `mapstructure:"at"`

	// --- Fields from collectCmd.Flags() ---
	File        string `mapstructure:"file"`
	RepoPath    string `mapstructure:"repo-path"`
	DateColumn  string `mapstructure:"date-column"`
	KPIColumn   string `mapstructure:"kpi-column"`
	Metric      string `mapstructure:"metric"`
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	GitHubToken string `mapstructure:"github-token"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processPositionalArgs(cfg, input); err != nil {
		return err
	}
	if err := processCollectWindow(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates the fields shared by every command.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(input.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return fmt.Errorf("invalid --api-url '%s'. must start with http:// or https://", input.APIURL)
	}
	cfg.InstallationID = strings.TrimSpace(input.InstallationID)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ReportFile = strings.TrimSpace(input.ReportFile)
	cfg.GitHubToken = input.GitHubToken

	cfg.Timeout = 0
	if t := strings.TrimSpace(input.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid --timeout value '%s'. expected a duration like 10s", input.Timeout)
		}
		cfg.Timeout = d
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}

	loc, err := loadLocation(input.Timezone)
	if err != nil {
		return fmt.Errorf("invalid --timezone value: %w", err)
	}
	cfg.Location = loc

	return nil
}

// loadLocation resolves an IANA zone name; empty and "Local" mean the host zone.
func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache %w", err)
	}

	ttl, err := ParseCacheTTL(input.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl value: %w", err)
	}
	cfg.CacheTTL = ttl

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	cfg.HistoryDBConnect = ""
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history %w", err)
	}

	// Both stores on SQLite must not share a file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// ParseCacheTTL parses the cache TTL setting. "0" and "never" disable expiry.
func ParseCacheTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		s = DefaultCacheTTL
	case "0", "never":
		return 0, nil
	}
	return ParseLookbackDuration(s)
}

// processPositionalArgs validates the arguments given on the command line.
func processPositionalArgs(cfg *Config, input *ConfigRawInput) error {
	cfg.MetricName = strings.TrimSpace(input.MetricArg)
	if cfg.MetricName == "" {
		cfg.MetricName = strings.TrimSpace(input.Metric)
	}
	// Period labels are kept verbatim; padded labels are invalid
	cfg.Period = input.PeriodArg
	cfg.CommitSHA = strings.TrimSpace(input.SHAArg)
	cfg.Labels = slices.Clone(input.LabelArgs)

	cfg.PeriodAt = time.Time{}
	if at := strings.TrimSpace(input.At); at != "" {
		t, err := parseDateInput(at, time.Now())
		if err != nil {
			return fmt.Errorf("invalid --at value '%s'. Expected ISO8601, YYYY-MM-DD or 'N [units] ago'", input.At)
		}
		cfg.PeriodAt = t
	}

	cfg.TimeGrain = ""
	if input.GrainArg != "" {
		cfg.TimeGrain = schema.TimeGrain(strings.ToLower(strings.TrimSpace(input.GrainArg)))
		if _, ok := schema.ValidTimeGrains[cfg.TimeGrain]; !ok {
			return fmt.Errorf("invalid time grain '%s'. must be year, quarter, month, week, day", input.GrainArg)
		}
	}

	cfg.Owner, cfg.Repo = "", ""
	if input.RepoArg != "" {
		owner, repo, err := SplitRepoSlug(input.RepoArg)
		if err != nil {
			return err
		}
		cfg.Owner, cfg.Repo = owner, repo
	}
	return nil
}

// SplitRepoSlug splits "owner/repo" into its parts.
func SplitRepoSlug(slug string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(slug), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository '%s'. expected owner/repo", slug)
	}
	return owner, repo, nil
}

// processCollectWindow handles the fields of the collect command.
func processCollectWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.CollectFile = strings.TrimSpace(input.File)
	cfg.CollectRepoPath = strings.TrimSpace(input.RepoPath)
	cfg.CollectDateColumn = strings.TrimSpace(input.DateColumn)
	cfg.CollectKPIColumn = strings.TrimSpace(input.KPIColumn)

	now := time.Now()
	cfg.CollectEnd = now
	cfg.CollectStart, _ = ParseRelativeTime(DefaultCollectAgo, now)

	if input.Start != "" {
		t, err := parseDateInput(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date format for '%s'. Expected ISO8601, YYYY-MM-DD or 'N [units] ago'", input.Start)
		}
		cfg.CollectStart = t
	}
	if input.End != "" {
		t, err := parseDateInput(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date format for '%s'. Expected ISO8601, YYYY-MM-DD or 'N [units] ago'", input.End)
		}
		cfg.CollectEnd = t
	}
	if cfg.CollectStart.After(cfg.CollectEnd) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.CollectStart.Format(DateTimeFormat), cfg.CollectEnd.Format(DateTimeFormat))
	}
	return nil
}

// parseDateInput accepts ISO8601, YYYY-MM-DD or a relative "N [units] ago".
func parseDateInput(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return ParseRelativeTime(s, now)
}
