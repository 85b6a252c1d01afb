package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/iocache"
	"github.com/data-drift/drift/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := resolveBackend("cache-backend")
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	ttl, err := contract.ParseCacheTTL(viper.GetString("cache-ttl"))
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl value: %w", err)
	}

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.CacheTTL = ttl

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the report commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the repository config cache",
	Long: `Manage the cache of repository configurations fetched from the backend.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  prune  - Remove entries older than --cache-ttl
  clear  - Remove all cached data

Examples:
  # Check cache status
  drift cache status

  # Drop entries older than a week
  drift cache prune --cache-ttl "7 days"`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached repository configs",
	Long: `Delete all cached data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  drift cache clear

  # Clear MySQL cache (set connection string via env variable)
  DRIFT_CACHE_BACKEND=mysql DRIFT_CACHE_DB_CONNECT="..." drift cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite file before removing it
		iocache.CloseStores()
		dbFile := sqlitePath(cfg.CacheDBConnect, iocache.GetDBFilePath())
		if err := iocache.ClearCache(cfg.CacheBackend, dbFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the config cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  drift cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetConfigStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cachePruneCmd removes expired entries.
var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cache entries older than the cache TTL",
	Long: `Delete the cached entries written more than --cache-ttl ago.

A TTL of 0 or 'never' keeps every entry.

Examples:
  drift cache prune
  drift cache prune --cache-ttl "2 days"`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		removed, err := iocache.PruneCache(iocache.Manager.GetConfigStore(), cfg.CacheTTL, time.Now())
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		fmt.Printf("Removed %d expired cache entries.\n", removed)
	},
}
