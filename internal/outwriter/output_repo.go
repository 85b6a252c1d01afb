package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRepoConfig outputs the tracked metrics of a repository.
func WriteRepoConfig(w io.Writer, repo string, rc schema.RepoConfig, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rc)
		}, "Wrote JSON config")
	case schema.CSVOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"filepath", "upstream_files"}, func(cw *csv.Writer) error {
				for _, m := range rc.Metrics {
					if err := cw.Write([]string{m.Filepath, strings.Join(m.UpstreamFiles, "|")}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV config")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Metric File", "Upstream Files"})
			data := make([][]string, 0, len(rc.Metrics))
			for _, m := range rc.Metrics {
				upstream := strings.Join(m.UpstreamFiles, "\n")
				if upstream == "" {
					upstream = "-"
				}
				data = append(data, []string{m.Filepath, upstream})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s tracks %d metrics\n", repo, len(rc.Metrics))
			return nil
		}, "Wrote table")
	}
}

// WritePatch outputs the diff metadata of a commit.
// The text format prints the headers followed by the raw patch.
func WritePatch(w io.Writer, patch schema.PatchAndHeader, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, patch)
		}, "Wrote JSON patch")
	case schema.CSVOut, schema.ParquetOut:
		return fmt.Errorf("output format %s is not supported for patches", cfg.Output)
	default:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			_, _ = fmt.Fprintf(w, "File: %s\n", patch.Filename)
			loc := cfg.Location
			if loc == nil {
				loc = time.Local
			}
			if !patch.Date.IsZero() {
				_, _ = fmt.Fprintf(w, "Date: %s (%s)\n", patch.Date.In(loc).Format(contract.DateTimeFormat), humanize.Time(patch.Date))
			} else if patch.DateRaw != "" {
				_, _ = fmt.Fprintf(w, "Date: %s\n", patch.DateRaw)
			}
			if patch.CommitLink != "" {
				_, _ = fmt.Fprintf(w, "Commit: %s\n", patch.CommitLink)
			}
			if patch.DiffURL != "" {
				_, _ = fmt.Fprintf(w, "Report: %s\n", patch.DiffURL)
			}
			if len(patch.Headers) > 0 {
				_, _ = fmt.Fprintf(w, "Columns: %s\n", strings.Join(patch.Headers, ", "))
			}
			_, _ = fmt.Fprintln(w)
			_, err := io.WriteString(w, patch.Patch)
			if err == nil && !strings.HasSuffix(patch.Patch, "\n") {
				_, err = io.WriteString(w, "\n")
			}
			return err
		}, "Wrote patch")
	}
}

// WriteCommitList outputs a list of commits.
func WriteCommitList(w io.Writer, commits []schema.CommitSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, commits)
		}, "Wrote JSON commits")
	case schema.CSVOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"sha", "date", "author", "message", "url"}, func(cw *csv.Writer) error {
				for _, c := range commits {
					date := ""
					if !c.Date.IsZero() {
						date = c.Date.Format(contract.DateTimeFormat)
					}
					if err := cw.Write([]string{c.SHA, date, c.Author, firstLine(c.Message), c.URL}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV commits")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"SHA", "Date", "Author", "Message"})
			table.Configure(func(c *tablewriter.Config) {
				c.Row.Alignment.Global = tw.AlignLeft
			})
			width := getMaxMessageWidth(cfg, 50)
			data := make([][]string, 0, len(commits))
			for _, c := range commits {
				date := ""
				if !c.Date.IsZero() {
					date = humanize.Time(c.Date)
				}
				data = append(data, []string{shortSHA(c.SHA), date, c.Author, truncate(firstLine(c.Message), width)})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}
