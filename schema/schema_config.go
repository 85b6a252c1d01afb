package schema

import "time"

// ConfigMetric is one tracked metric file of a repository.
type ConfigMetric struct {
	Filepath      string   `json:"filepath"`
	UpstreamFiles []string `json:"upstreamFiles,omitempty"`
}

// RepoConfig is the data-drift configuration of a repository.
type RepoConfig struct {
	Metrics []ConfigMetric `json:"metrics"`
}

// PatchAndHeader is the diff metadata of a single commit of a metric file.
type PatchAndHeader struct {
	Patch      string    `json:"patch"`
	Headers    []string  `json:"headers"`
	CommitLink string    `json:"commitLink"`
	Date       time.Time `json:"date"`
	DateRaw    string    `json:"-"`
	Filename   string    `json:"filename"`
	DiffURL    string    `json:"diffUrl,omitempty"`
}

// CommitSummary is the subset of an upstream commit shown in listings.
type CommitSummary struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	URL     string    `json:"url"`
}

// SourceCommit is a commit touching a tracked file, as seen by a snapshot source.
type SourceCommit struct {
	SHA  string
	Date time.Time
	URL  string
}
