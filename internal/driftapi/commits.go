package driftapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/data-drift/drift/schema"
)

// upstreamCommit holds the fields of a GitHub commit object that listings show.
type upstreamCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

// ParseCommitList summarizes the passthrough commit list of GetCommitList.
func ParseCommitList(raw json.RawMessage) ([]schema.CommitSummary, error) {
	var commits []upstreamCommit
	if err := json.Unmarshal(raw, &commits); err != nil {
		return nil, fmt.Errorf("decode commit list: %w", err)
	}
	out := make([]schema.CommitSummary, 0, len(commits))
	for _, c := range commits {
		author := c.Commit.Author.Name
		if c.Author != nil && c.Author.Login != "" {
			author = c.Author.Login
		}
		out = append(out, schema.CommitSummary{
			SHA:     c.SHA,
			Message: c.Commit.Message,
			Author:  author,
			Date:    c.Commit.Author.Date,
			URL:     c.HTMLURL,
		})
	}
	return out, nil
}
