// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// Output goes to the configured output file, or to out when none is set.
type OutWriter struct {
	out io.Writer
}

// NewOutWriter creates an output writer whose default destination is stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{out: os.Stdout}
}

// NewOutWriterTo creates an output writer whose default destination is w.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{out: w}
}

// WriteWaterfall prints a drift series using the configured output format.
func (ow *OutWriter) WriteWaterfall(result schema.WaterfallResult, cfg *contract.Config, duration time.Duration) error {
	return WriteWaterfall(ow.out, result, cfg, duration)
}

// WritePeriodReports prints the period summaries of a metric report.
func (ow *OutWriter) WritePeriodReports(metric string, summaries []schema.PeriodSummary, cfg *contract.Config) error {
	return WritePeriodReports(ow.out, metric, summaries, cfg)
}

// WriteMetricReport prints a full metric report as JSON.
func (ow *OutWriter) WriteMetricReport(report schema.MetricReport, cfg *contract.Config) error {
	return WriteMetricReport(ow.out, report, cfg)
}

// WritePeriods prints classified period labels.
func (ow *OutWriter) WritePeriods(periods []schema.PeriodInfo, cfg *contract.Config) error {
	return WritePeriods(ow.out, periods, cfg)
}

// WriteRepoConfig prints the data-drift configuration of a repository.
func (ow *OutWriter) WriteRepoConfig(repo string, rc schema.RepoConfig, cfg *contract.Config) error {
	return WriteRepoConfig(ow.out, repo, rc, cfg)
}

// WritePatch prints the diff metadata of a commit.
func (ow *OutWriter) WritePatch(patch schema.PatchAndHeader, cfg *contract.Config) error {
	return WritePatch(ow.out, patch, cfg)
}

// WriteCommitList prints a list of commits.
func (ow *OutWriter) WriteCommitList(commits []schema.CommitSummary, cfg *contract.Config) error {
	return WriteCommitList(ow.out, commits, cfg)
}

// WriteRawJSON prints a payload passed through from the backend.
func (ow *OutWriter) WriteRawJSON(raw json.RawMessage, cfg *contract.Config) error {
	return WriteRawJSON(ow.out, raw, cfg)
}

// getMaxMessageWidth calculates the maximum width of free-text columns
// based on terminal width.
func getMaxMessageWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedWidth - 10
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
