// Package ghsource reads the history of a tracked file from GitHub.
package ghsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// perPage is the GitHub maximum page size for commit listings.
const perPage = 100

// maxPages bounds how far back a single listing walks.
const maxPages = 50

// Source lists commits of one repository and reads files at those commits.
type Source struct {
	client *github.Client
	owner  string
	repo   string
}

var _ contract.SnapshotSource = &Source{} // Compile-time check

// NewSource creates a source for owner/repo.
// An empty token uses unauthenticated requests with a low rate limit.
func NewSource(ctx context.Context, token, owner, repo string) *Source {
	var httpClient *http.Client
	if token = strings.TrimSpace(token); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	return NewSourceWithClient(github.NewClient(httpClient), owner, repo)
}

// NewSourceWithClient creates a source on top of an existing GitHub client.
func NewSourceWithClient(client *github.Client, owner, repo string) *Source {
	return &Source{client: client, owner: owner, repo: repo}
}

// ListCommits returns the commits touching path between since and until, newest first.
func (s *Source) ListCommits(ctx context.Context, path string, since, until time.Time) ([]schema.SourceCommit, error) {
	opts := &github.CommitsListOptions{
		Path:        path,
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var commits []schema.SourceCommit
	for page := 0; page < maxPages; page++ {
		batch, resp, err := s.client.Repositories.ListCommits(ctx, s.owner, s.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits of %s/%s:%s: %w", s.owner, s.repo, path, err)
		}
		for _, c := range batch {
			commits = append(commits, toSourceCommit(c))
		}
		if resp == nil || resp.NextPage == 0 {
			return commits, nil
		}
		opts.Page = resp.NextPage
	}
	return commits, nil
}

// toSourceCommit prefers the committer date, which is when the change landed.
func toSourceCommit(c *github.RepositoryCommit) schema.SourceCommit {
	date := c.GetCommit().GetCommitter().GetDate().Time
	if date.IsZero() {
		date = c.GetCommit().GetAuthor().GetDate().Time
	}
	return schema.SourceCommit{
		SHA:  c.GetSHA(),
		Date: date,
		URL:  c.GetHTMLURL(),
	}
}

// GetFileAtCommit returns the content of path at the given commit.
// Files too large for the contents API are downloaded from the raw endpoint.
func (s *Source) GetFileAtCommit(ctx context.Context, path, sha string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: sha}
	file, dir, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s at %s: %w", path, sha, err)
	}
	if file == nil {
		if dir != nil {
			return nil, fmt.Errorf("%s is a directory at %s", path, sha)
		}
		return nil, errors.New("empty contents response")
	}

	if file.GetEncoding() != "none" {
		content, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s at %s: %w", path, sha, err)
		}
		return []byte(content), nil
	}

	rc, _, err := s.client.Repositories.DownloadContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s at %s: %w", path, sha, err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
