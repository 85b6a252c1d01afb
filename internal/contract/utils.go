package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/data-drift/drift/schema"
	"github.com/fatih/color"
)

// Drift direction labels.
const (
	UpValue      = "▲ up"
	DownValue    = "▼ down"
	InitialValue = "● start"
)

// Color variables for console output.
var (
	UpColor      = color.New(color.FgGreen, color.Bold) // UpColor marks a metric that grew.
	DownColor    = color.New(color.FgRed, color.Bold)   // DownColor marks a metric that shrank.
	InitialColor = color.New(color.FgCyan)              // InitialColor marks the starting bar.
)

// GetPlainDirection returns a plain text label for the weight of a drift bar.
// This is the core logic used for CSV and table printing.
func GetPlainDirection(w schema.Weight) string {
	switch w {
	case schema.UpWeight:
		return UpValue
	case schema.DownWeight:
		return DownValue
	default:
		return InitialValue
	}
}

// GetColorDirection returns a colored direction label for console output (table).
func GetColorDirection(w schema.Weight) string {
	text := GetPlainDirection(w)
	switch w {
	case schema.UpWeight:
		return UpColor.Sprint(text)
	case schema.DownWeight:
		return DownColor.Sprint(text)
	default:
		return InitialColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".drift_cache.db"
	}
	return filepath.Join(homeDir, ".drift_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".drift_history.db"
	}
	return filepath.Join(homeDir, ".drift_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
