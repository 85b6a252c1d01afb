// Package core has core logic for period classification, waterfall building and collection.
package core

import (
	"context"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/driftapi"
	"github.com/data-drift/drift/internal/ghsource"
	"github.com/data-drift/drift/internal/gitsource"
	"github.com/data-drift/drift/internal/outwriter"
)

// ExecutorFunc defines the function signature of the command entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

var (
	// out receives every command result
	out = outwriter.NewOutWriter()

	// newReportsClient builds the backend client for a command
	newReportsClient = func(cfg *contract.Config) contract.ReportsClient {
		return driftapi.NewClientFromConfig(cfg)
	}

	// newSnapshotSource builds the history source for collect
	newSnapshotSource = func(ctx context.Context, cfg *contract.Config) contract.SnapshotSource {
		if cfg.CollectRepoPath != "" {
			return gitsource.NewSource(cfg.CollectRepoPath)
		}
		return ghsource.NewSource(ctx, cfg.GitHubToken, cfg.Owner, cfg.Repo)
	}
)
